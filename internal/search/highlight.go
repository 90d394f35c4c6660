// highlight.go parses the index's marked-up excerpts into segment trees.
//
// The index wraps matches in start/end markers and separates excerpt
// windows with a fragment delimiter. Parsing is a bracket-tree descent over
// each fragment: the nearest upcoming start marker opens a highlighted node,
// the nearest end marker closes the innermost one. Unbalanced input never
// fails: an unclosed span runs to the end of its fragment, and a stray end
// marker at the top level is dropped.

package search

import "strings"

// MaxHighlightDepth caps span nesting. Start markers beyond it are consumed
// without opening a new level, and so are the end markers that match them.
const MaxHighlightDepth = 64

// ParseHeadline splits text on frag and parses each non-empty piece into a
// fragment. The result never contains any of the three markers.
func ParseHeadline(text, start, end, frag string) []Fragment {
	if text == "" {
		return nil
	}
	pieces := []string{text}
	if frag != "" {
		pieces = strings.Split(text, frag)
	}
	var out []Fragment
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		out = append(out, ParseFragment(piece, start, end))
	}
	return out
}

// ParseFragment parses one fragment.
func ParseFragment(s, start, end string) Fragment {
	if start == "" || end == "" {
		return appendPlain(nil, s)
	}
	p := &parser{s: s, start: start, end: end}
	return p.level(0)
}

type parser struct {
	s, start, end string
	pos           int
	skipped       int // opens dropped at the depth cap, still to be closed
}

// level parses segments from the cursor until it consumes an end marker
// (closing this level, unless it is the top level) or reaches the end of
// the input.
func (p *parser) level(depth int) Fragment {
	var out Fragment
	for p.pos < len(p.s) {
		rest := p.s[p.pos:]
		si := strings.Index(rest, p.start)
		ei := strings.Index(rest, p.end)

		switch {
		case si < 0 && ei < 0:
			out = appendPlain(out, rest)
			p.pos = len(p.s)
			return out

		case si >= 0 && (ei < 0 || si < ei):
			out = appendPlain(out, rest[:si])
			p.pos += si + len(p.start)
			if depth >= MaxHighlightDepth {
				p.skipped++
				continue
			}
			children := p.level(depth + 1)
			out = append(out, Highlighted(children...))

		default:
			out = appendPlain(out, rest[:ei])
			p.pos += ei + len(p.end)
			if p.skipped > 0 {
				p.skipped--
				continue
			}
			if depth > 0 {
				return out
			}
		}
	}
	return out
}

func appendPlain(out Fragment, text string) Fragment {
	if text == "" {
		return out
	}
	return append(out, Plain(text))
}

// HighlightedWords returns the text of every highlighted span in order,
// flattened across fragments and nesting.
func HighlightedWords(frags []Fragment) []string {
	var words []string
	for _, f := range frags {
		for _, seg := range f {
			if seg.Highlighted {
				if w := plainText(seg.Children); w != "" {
					words = append(words, w)
				}
			}
		}
	}
	return words
}

// plainText concatenates all text below segs.
func plainText(segs []Segment) string {
	var b strings.Builder
	var walk func([]Segment)
	walk = func(segs []Segment) {
		for _, s := range segs {
			b.WriteString(s.Text)
			walk(s.Children)
		}
	}
	walk(segs)
	return b.String()
}

// Text returns the fragment's text with highlighting removed.
func (f Fragment) Text() string {
	return plainText(f)
}
