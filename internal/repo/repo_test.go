package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBFileName(t *testing.T) {
	assert.Equal(t, "examdex.db", DBFileName(""))
	assert.Equal(t, "examdex-2025.db", DBFileName("2025"))
	assert.Equal(t, "custom.db", DBFileName("custom.db"))
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(false, "", false, dir))

	assert.FileExists(t, filepath.Join(dir, Dir, DBFile))
	assert.FileExists(t, filepath.Join(dir, Dir, ".gitignore"))
	assert.NoFileExists(t, filepath.Join(dir, Dir, "config.yaml"))

	err := Init(false, "", false, dir)
	assert.ErrorContains(t, err, "already exists")

	require.NoError(t, Init(true, "", false, dir))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Init(false, "", false, root))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	path, err := Discover("")
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(filepath.Join(root, Dir, DBFile))
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = Discover("missing")
	assert.ErrorIs(t, err, ErrNotInitialised)
}

func TestLocate(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Init(false, "physics", false, root))

	path, err := Locate("physics", root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, Dir, "examdex-physics.db"), path)

	_, err = Locate("", root)
	assert.ErrorIs(t, err, ErrNotInitialised)
}

func TestListDBsAndIgnore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Init(false, "", false, root))
	require.NoError(t, Init(false, "2025", true, root))
	dir := filepath.Join(root, Dir)

	dbs, err := ListDBs(dir)
	require.NoError(t, err)
	require.Len(t, dbs, 2)
	byName := map[string]DBInfo{}
	for _, d := range dbs {
		byName[d.Name] = d
	}
	assert.False(t, byName[""].Local)
	assert.True(t, byName["2025"].Local)

	require.NoError(t, UnignoreDB("2025", dir))
	ignored, err := IsIgnored("2025", dir)
	require.NoError(t, err)
	assert.False(t, ignored)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), localHeader)
}

func TestIgnoreKeepsOtherLines(t *testing.T) {
	dir := t.TempDir()
	orig := "# mine\nscratch/\n*.pdf\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(orig), 0644))

	require.NoError(t, IgnoreDB("2024", dir))
	require.NoError(t, IgnoreDB("2024", dir))
	require.NoError(t, IgnoreDB("drafts", dir))

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, orig+"\n"+localHeader+"\nexamdex-2024.db\nexamdex-drafts.db\n", string(data))
	assert.Equal(t, map[string]bool{"examdex-2024.db": true, "examdex-drafts.db": true}, localDBs(dir))

	require.NoError(t, UnignoreDB("2024", dir))
	ignored, err := IsIgnored("drafts", dir)
	require.NoError(t, err)
	assert.True(t, ignored, "other local archives stay local")

	require.NoError(t, UnignoreDB("drafts", dir))
	data, err = os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, orig, string(data))
}

func TestIgnoreWithoutGitignore(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, IgnoreDB("2024", dir))
	assert.Empty(t, localDBs(dir))
}
