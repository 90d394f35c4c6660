package cmd

import (
	"sort"
	"testing"

	"github.com/jpl-au/examdex/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// documentNames returns the display names of the document results, sorted.
func documentNames(resp search.Response) []string {
	var names []string
	for _, r := range resp.Results {
		if r.Document != nil {
			names = append(names, r.Document.DisplayName)
		}
	}
	sort.Strings(names)
	return names
}

func TestSearch_Visibility(t *testing.T) {
	env := newArchiveEnv(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"anonymous", nil, []string{"Linear Algebra 2025"}},
		{"unknown user", []string{"--user", "nobody"}, []string{"Linear Algebra 2025"}},
		{"paid user", []string{"--user", "alice"}, []string{"Linear Algebra 2025", "Linear Algebra Solutions"}},
		{"category admin", []string{"--user", "bob"}, []string{"Analysis Draft", "Linear Algebra 2025"}},
		{"global admin", []string{"--user", "root"}, []string{"Analysis Draft", "Linear Algebra 2025", "Linear Algebra Solutions"}},
		{"explicit admin", []string{"--admin"}, []string{"Analysis Draft", "Linear Algebra 2025", "Linear Algebra Solutions"}},
		{"explicit payment", []string{"--paid"}, []string{"Linear Algebra 2025", "Linear Algebra Solutions"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var resp search.Response
			env.runJSON(&resp, append([]string{"search", "eigenvalue"}, tc.args...)...)
			assert.Equal(t, tc.want, documentNames(resp))
			assert.NotEmpty(t, resp.ID)
		})
	}
}

func TestSearch_Result(t *testing.T) {
	env := newArchiveEnv(t)

	var resp search.Response
	env.runJSON(&resp, "search", "eigenvalue")

	assert.Equal(t, 1, resp.Count(search.KindDocument))
	assert.Equal(t, 1, resp.Count(search.KindAnswer))
	assert.Equal(t, 1, resp.Count(search.KindComment))

	for i := 1; i < len(resp.Results); i++ {
		assert.GreaterOrEqual(t, resp.Results[i-1].Rank, resp.Results[i].Rank)
	}

	for _, r := range resp.Results {
		switch r.Kind {
		case search.KindDocument:
			d := r.Document
			require.NotNil(t, d)
			assert.Equal(t, "linalg-2025.pdf", d.Filename)
			assert.Equal(t, "Linear Algebra", d.CategoryName)
			require.Len(t, d.Pages, 1)
			assert.Equal(t, 1, d.Pages[0].Number)
			assert.Contains(t, search.HighlightedWords(d.Pages[0].Highlight), "eigenvalue")
		case search.KindAnswer:
			require.NotNil(t, r.Reply)
			assert.Equal(t, "a1", r.Reply.LongID)
			assert.Equal(t, "alice", r.Reply.AuthorUsername)
			assert.Equal(t, "Alice Smith", r.Reply.AuthorDisplayName)
			assert.Equal(t, []string{"eigenvalue"}, r.Reply.Words)
		case search.KindComment:
			require.NotNil(t, r.Reply)
			assert.Equal(t, "c1", r.Reply.LongID)
			assert.Equal(t, "Jones", r.Reply.AuthorDisplayName)
		}
	}
}

func TestSearch_Kinds(t *testing.T) {
	env := newArchiveEnv(t)

	var resp search.Response
	env.runJSON(&resp, "search", "eigenvalue", "--no-answers", "--no-comments", "--admin")
	require.Len(t, resp.Results, 3)
	for _, r := range resp.Results {
		assert.Equal(t, search.KindDocument, r.Kind)
	}

	_, err := env.runErr("search", "eigenvalue", "--no-documents", "--no-answers", "--no-comments")
	assert.Error(t, err)
}

func TestSearch_Amount(t *testing.T) {
	env := newArchiveEnv(t)

	var resp search.Response
	env.runJSON(&resp, "search", "eigenvalue", "--admin", "--no-answers", "--no-comments", "--amount", "2")
	assert.Len(t, resp.Results, 2)

	// Above the cap is clamped, not rejected.
	env.runJSON(&resp, "search", "eigenvalue", "--admin", "--amount", "500")
	assert.Equal(t, 3, resp.Count(search.KindDocument))
}

func TestSearch_DefaultUser(t *testing.T) {
	env := newArchiveEnv(t)
	env.run("config", "user.name", "alice")

	var resp search.Response
	env.runJSON(&resp, "search", "eigenvalue")
	assert.Equal(t, []string{"Linear Algebra 2025", "Linear Algebra Solutions"}, documentNames(resp))

	// Explicit requester flags replace the configured user.
	env.runJSON(&resp, "search", "eigenvalue", "--admin")
	assert.Len(t, documentNames(resp), 3)

	// An explicit --user does not combine with them.
	_, err := env.runErr("search", "eigenvalue", "--user", "alice", "--admin")
	assert.Error(t, err)
}

func TestSearch_Markdown(t *testing.T) {
	env := newArchiveEnv(t)

	out := env.run("search", "eigenvalue", "--timings")
	env.contains(out, `# Results for "eigenvalue"`)
	env.contains(out, "Linear Algebra 2025")
	env.contains(out, "**Page 1:**")
	env.contains(out, "**eigenvalue**")
	env.contains(out, "results")

	out = env.run("search", "nonexistentword")
	env.contains(out, "No results.")
}

func TestSearch_Errors(t *testing.T) {
	env := newArchiveEnv(t)

	_, err := env.runErr("search")
	assert.Error(t, err)

	out, err := env.runErr("search", "   ")
	assert.Error(t, err)
	env.contains(out, "invalid search request")

	out, _ = env.runErr("search", "   ", "-o", "json")
	env.contains(out, `"error"`)
}
