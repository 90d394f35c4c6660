// repo_gitignore.go tracks which archive databases are local. A local
// database is listed under localHeader in .examdex/.gitignore, so restricted
// exam text and account data in it stay out of a shared remote. Lines this
// file does not own are left as they are.

package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const localHeader = "# Local archives (not committed)"

// ignoreFile is .examdex/.gitignore held as raw lines.
type ignoreFile struct {
	path  string
	lines []string
}

// archiveDir returns dir, or the discovered .examdex directory when dir is
// empty.
func archiveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return DiscoverDir()
}

func readIgnoreFile(dir string) (*ignoreFile, error) {
	dir, err := archiveDir(dir)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &ignoreFile{
		path:  path,
		lines: strings.Split(strings.TrimRight(string(data), "\n"), "\n"),
	}, nil
}

func (f *ignoreFile) index(entry string) int {
	return slices.IndexFunc(f.lines, func(l string) bool { return strings.TrimSpace(l) == entry })
}

func (f *ignoreFile) has(entry string) bool { return f.index(entry) >= 0 }

// local returns the database files listed after the header.
func (f *ignoreFile) local() []string {
	i := f.index(localHeader)
	if i < 0 {
		return nil
	}
	var files []string
	for _, l := range f.lines[i+1:] {
		if l = strings.TrimSpace(l); strings.HasSuffix(l, ".db") {
			files = append(files, l)
		}
	}
	return files
}

func (f *ignoreFile) add(file string) {
	if f.has(file) {
		return
	}
	if !f.has(localHeader) {
		f.lines = append(f.lines, "", localHeader)
	}
	f.lines = append(f.lines, file)
}

func (f *ignoreFile) remove(file string) {
	f.lines = slices.DeleteFunc(f.lines, func(l string) bool { return strings.TrimSpace(l) == file })
	if len(f.local()) > 0 {
		return
	}
	// The header goes with the last local database, along with the blank
	// line add put before it.
	if i := f.index(localHeader); i >= 0 {
		from := i
		if from > 0 && strings.TrimSpace(f.lines[from-1]) == "" {
			from--
		}
		f.lines = slices.Delete(f.lines, from, i+1)
	}
}

func (f *ignoreFile) write() error {
	data := strings.TrimRight(strings.Join(f.lines, "\n"), "\n") + "\n"
	return os.WriteFile(f.path, []byte(data), 0644)
}

// IgnoreDB marks the named database local. An empty dir means the
// discovered .examdex directory.
func IgnoreDB(name, dir string) error {
	f, err := readIgnoreFile(dir)
	if err != nil {
		return err
	}
	file := DBFileName(name)
	if f.has(file) {
		return nil
	}
	f.add(file)
	return f.write()
}

// UnignoreDB marks the named database shared.
func UnignoreDB(name, dir string) error {
	f, err := readIgnoreFile(dir)
	if err != nil {
		return err
	}
	f.remove(DBFileName(name))
	return f.write()
}

// IsIgnored reports whether the named database is local.
func IsIgnored(name, dir string) (bool, error) {
	f, err := readIgnoreFile(dir)
	if err != nil {
		return false, err
	}
	return f.has(DBFileName(name)), nil
}

// localDBs returns the set of local database files in dir. A missing or
// unreadable .gitignore means none are local.
func localDBs(dir string) map[string]bool {
	set := map[string]bool{}
	f, err := readIgnoreFile(dir)
	if err != nil {
		return set
	}
	for _, file := range f.local() {
		set[file] = true
	}
	return set
}
