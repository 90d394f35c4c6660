package search

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hlStart = "<s>"
	hlEnd   = "</s>"
	hlDelim = " ... "
)

func TestParseFragment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Fragment
	}{
		{"plain", "just text", Fragment{Plain("just text")}},
		{"single span", "a <s>b</s> c", Fragment{Plain("a "), Highlighted(Plain("b")), Plain(" c")}},
		{"span at edges", "<s>all</s>", Fragment{Highlighted(Plain("all"))}},
		{"nested", "<s>a<s>b</s></s>", Fragment{Highlighted(Plain("a"), Highlighted(Plain("b")))}},
		{"adjacent spans", "<s>a</s><s>b</s>", Fragment{Highlighted(Plain("a")), Highlighted(Plain("b"))}},
		{"unclosed span runs to end", "a<s>b", Fragment{Plain("a"), Highlighted(Plain("b"))}},
		{"stray closer dropped", "a</s>b", Fragment{Plain("a"), Plain("b")}},
		{"empty span kept", "a<s></s>b", Fragment{Plain("a"), Highlighted(), Plain("b")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFragment(tt.in, hlStart, hlEnd))
		})
	}
}

func TestParseFragmentWithoutMarkers(t *testing.T) {
	assert.Equal(t, Fragment{Plain("a <s>b")}, ParseFragment("a <s>b", "", hlEnd))
	assert.Nil(t, ParseFragment("", hlStart, hlEnd))
}

func TestParseFragmentDepthCap(t *testing.T) {
	n := MaxHighlightDepth + 6
	in := strings.Repeat(hlStart, n) + "x" + strings.Repeat(hlEnd, n)

	frag := ParseFragment(in, hlStart, hlEnd)

	depth := 0
	segs := []Segment(frag)
	for len(segs) == 1 && segs[0].Highlighted {
		depth++
		segs = segs[0].Children
	}
	assert.Equal(t, MaxHighlightDepth, depth)
	assert.Equal(t, Fragment{Plain("x")}, Fragment(segs))
	assert.Equal(t, "x", frag.Text())
}

func TestParseFragmentDepthCapKeepsOuterSpans(t *testing.T) {
	n := MaxHighlightDepth + 2
	in := hlStart + "outer" + strings.Repeat(hlStart, n) + "x" + strings.Repeat(hlEnd, n) + " still-outer" + hlEnd + " tail"

	frag := ParseFragment(in, hlStart, hlEnd)

	require.Len(t, frag, 2)
	assert.Equal(t, Plain(" tail"), frag[1])
	outer := frag[0]
	require.True(t, outer.Highlighted)
	require.Len(t, outer.Children, 3)
	assert.Equal(t, Plain("outer"), outer.Children[0])
	assert.Equal(t, Plain(" still-outer"), outer.Children[2])
	assert.Equal(t, "outerx still-outer tail", frag.Text())

	depth := 1
	segs := outer.Children[1:2]
	for len(segs) == 1 && segs[0].Highlighted {
		depth++
		segs = segs[0].Children
	}
	assert.Equal(t, MaxHighlightDepth, depth)
	assert.Equal(t, []Segment{Plain("x")}, segs)
}

func TestParseHeadline(t *testing.T) {
	t.Run("empty input yields no fragments", func(t *testing.T) {
		assert.Empty(t, ParseHeadline("", hlStart, hlEnd, hlDelim))
	})

	t.Run("splits on delimiter", func(t *testing.T) {
		got := ParseHeadline("a <s>b</s> ... <s>c</s> d", hlStart, hlEnd, hlDelim)
		require.Len(t, got, 2)
		assert.Equal(t, Fragment{Plain("a "), Highlighted(Plain("b"))}, got[0])
		assert.Equal(t, Fragment{Highlighted(Plain("c")), Plain(" d")}, got[1])
	})

	t.Run("skips empty pieces", func(t *testing.T) {
		got := ParseHeadline(" ... a ... ", hlStart, hlEnd, hlDelim)
		assert.Equal(t, []Fragment{{Plain("a")}}, got)
	})

	t.Run("span does not cross fragments", func(t *testing.T) {
		got := ParseHeadline("<s>a ... b</s>", hlStart, hlEnd, hlDelim)
		require.Len(t, got, 2)
		assert.Equal(t, Fragment{Highlighted(Plain("a"))}, got[0])
		assert.Equal(t, Fragment{Plain("b")}, got[1])
	})
}

// render writes a fragment back out with markers.
func render(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Highlighted {
			b.WriteString(hlStart)
			b.WriteString(render(s.Children))
			b.WriteString(hlEnd)
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// randomFragment builds a well-formed tree with no two plain segments
// adjacent, which is the shape the parser produces for balanced input.
func randomFragment(r *rand.Rand, depth int) Fragment {
	words := []string{"alpha", "beta ", " gamma", "δέλτα", "x", "  "}
	var out Fragment
	n := r.IntN(5)
	for range n {
		lastPlain := len(out) > 0 && !out[len(out)-1].Highlighted
		if !lastPlain && r.IntN(2) == 0 {
			out = append(out, Plain(words[r.IntN(len(words))]))
			continue
		}
		if depth < 4 {
			out = append(out, Highlighted(randomFragment(r, depth+1)...))
		}
	}
	return out
}

func TestParseFragmentRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		want := randomFragment(r, 0)
		text := render(want)

		got := ParseFragment(text, hlStart, hlEnd)

		assert.Equal(t, text, render(got), "input %q", text)
		assert.Equal(t, want, got, "input %q", text)
		assert.NotContains(t, got.Text(), hlStart)
		assert.NotContains(t, got.Text(), hlEnd)
	}
}

func TestParseHeadlineRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for range 300 {
		want := make([]Fragment, 1+r.IntN(5))
		parts := make([]string, len(want))
		for i := range want {
			for len(want[i]) == 0 {
				want[i] = randomFragment(r, 0)
			}
			parts[i] = render(want[i])
		}
		text := strings.Join(parts, hlDelim)

		got := ParseHeadline(text, hlStart, hlEnd, hlDelim)

		assert.Equal(t, want, got, "input %q", text)
		for _, f := range got {
			assert.NotContains(t, f.Text(), hlDelim)
		}
	}
}

func TestParseFragmentPlainIsIdentity(t *testing.T) {
	for _, s := range []string{"a", "some words here", "ünïcödé text", " spaced "} {
		assert.Equal(t, Fragment{Plain(s)}, ParseFragment(s, hlStart, hlEnd))
	}
}

func TestHighlightedWords(t *testing.T) {
	frags := ParseHeadline("x <s>foo</s> y <s>bar</s> ... <s>baz</s>", hlStart, hlEnd, hlDelim)
	assert.Equal(t, []string{"foo", "bar", "baz"}, HighlightedWords(frags))

	nested := ParseHeadline("<s>a<s>b</s></s>", hlStart, hlEnd, hlDelim)
	assert.Equal(t, []string{"ab"}, HighlightedWords(nested))

	assert.Nil(t, HighlightedWords(ParseHeadline("no match", hlStart, hlEnd, hlDelim)))
	assert.Nil(t, HighlightedWords(ParseHeadline("<s></s>", hlStart, hlEnd, hlDelim)))
}
