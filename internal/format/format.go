// Package format provides output formatting utilities for CLI display.
//
// Search results render as markdown: one heading per result, excerpt
// fragments as block quotes with highlighted spans in bold. On a terminal
// the markdown goes through glamour; anywhere else it is written as is.
package format

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/examdex/internal/index"
	"github.com/jpl-au/examdex/internal/search"
	"github.com/jpl-au/examdex/internal/store"
	"golang.org/x/term"
)

// fragmentSep joins the fragments of one excerpt.
const fragmentSep = " … "

// humanSize formats a byte count as human-readable (e.g., "1.2K", "3.4M").
func humanSize(bytes int64) string {
	const (
		_        = iota
		KB int64 = 1 << (10 * iota)
		MB
		GB
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1fG", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1fM", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1fK", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

var escaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "#", `\#`,
	"\n", " ", "\r", " ",
)

// escape makes source text inert as markdown.
func escape(s string) string {
	return escaper.Replace(s)
}

// segments writes segs as markdown. Nested spans are already inside bold,
// so only their text is written.
func segments(b *strings.Builder, segs []search.Segment, bold bool) {
	for _, s := range segs {
		if !s.Highlighted {
			b.WriteString(escape(s.Text))
			continue
		}
		if bold {
			segments(b, s.Children, true)
			continue
		}
		var inner strings.Builder
		segments(&inner, s.Children, true)
		if text := strings.TrimSpace(inner.String()); text != "" {
			b.WriteString("**" + text + "**")
		}
	}
}

// Excerpt renders fragments on one line.
func Excerpt(frags []search.Fragment) string {
	parts := make([]string, 0, len(frags))
	for _, f := range frags {
		var b strings.Builder
		segments(&b, f, false)
		if s := strings.TrimSpace(b.String()); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, fragmentSep)
}

func title(r search.Result) string {
	switch {
	case r.Document != nil:
		return escape(r.Document.DisplayName)
	case r.Reply != nil:
		kind := "Answer"
		if r.Kind == search.KindComment {
			kind = "Comment"
		}
		return fmt.Sprintf("%s by %s on %s", kind, escape(r.Reply.AuthorDisplayName), escape(r.Reply.DocumentName))
	}
	return string(r.Kind)
}

// Markdown writes resp as a markdown document.
func Markdown(w io.Writer, resp *search.Response) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Results for \"%s\"\n\n", escape(resp.Term))
	if len(resp.Results) == 0 {
		b.WriteString("No results.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	for i, r := range resp.Results {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, title(r))
		switch {
		case r.Document != nil:
			d := r.Document
			fmt.Fprintf(&b, "*%s · %s · rank %.2f*\n\n", escape(d.CategoryName), escape(d.Filename), r.Rank)
			if ex := Excerpt(r.Highlight); ex != "" {
				fmt.Fprintf(&b, "> %s\n\n", ex)
			}
			for _, p := range d.Pages {
				fmt.Fprintf(&b, "- **Page %d:** %s\n", p.Number, Excerpt(p.Highlight))
			}
			if len(d.Pages) > 0 {
				b.WriteString("\n")
			}
		case r.Reply != nil:
			fmt.Fprintf(&b, "*%s · %s · %s · rank %.2f*\n\n",
				escape(r.Reply.CategoryName), escape(r.Reply.Filename), escape(r.Reply.LongID), r.Rank)
			if ex := Excerpt(r.Highlight); ex != "" {
				fmt.Fprintf(&b, "> %s\n\n", ex)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Terminal writes resp through glamour when w is a terminal, and as plain
// markdown otherwise.
func Terminal(w io.Writer, resp *search.Response) error {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return Markdown(w, resp)
	}

	var buf strings.Builder
	if err := Markdown(&buf, resp); err != nil {
		return err
	}
	width := 80
	if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 20 {
		width = cols
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(width))
	if err != nil {
		return Markdown(w, resp)
	}
	rendered, err := r.Render(buf.String())
	if err != nil {
		return Markdown(w, resp)
	}
	_, err = io.WriteString(w, rendered)
	return err
}

// Timings writes per-kind durations, one line each.
func Timings(w io.Writer, resp *search.Response) {
	for _, t := range resp.Timings {
		fmt.Fprintf(w, "%-8s %3d results  %s\n", t.Kind, t.Count, t.Duration.Round(100*time.Microsecond))
	}
}

// Stats writes archive counts as an aligned table.
func Stats(w io.Writer, st *store.Stats) {
	rows := []struct {
		name string
		n    int64
	}{
		{"categories", st.Categories},
		{"users", st.Users},
		{"payments", st.Payments},
		{"documents", st.Documents},
		{"pages", st.Pages},
		{"answers", st.Answers},
		{"comments", st.Comments},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-11s %d\n", r.name, r.n)
	}
	fmt.Fprintf(w, "%-11s %s\n", "size", humanSize(st.SizeBytes))
}

// SyncCounts writes rows written per index source, in source order.
func SyncCounts(w io.Writer, counts map[index.Source]int) {
	for _, src := range index.Sources() {
		fmt.Fprintf(w, "%-9s %d\n", src, counts[src])
	}
}
