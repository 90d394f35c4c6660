// headline.go cuts a fully marked text into excerpt fragments.
//
// Drivers whose engine can only mark every match in the whole text (SQLite
// FTS5's highlight()) use Headline to produce the windowed, multi-fragment
// excerpt the search core expects, the same shape PostgreSQL's ts_headline
// returns with MaxFragments set. Words are whitespace-separated; fragments
// are rejoined with single spaces.

package index

import "strings"

// Headline selects up to opts.MaxFragments windows of opts.MinWords to
// opts.MaxWords words around the marked matches in text, and joins them
// with opts.FragmentDelimiter. Marker pairs cut by a window boundary are
// re-balanced so every fragment is well formed. Without any match the first
// MinWords words are returned as a single fragment.
func Headline(text string, opts ExcerptOptions) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	minWords, maxWords := opts.MinWords, opts.MaxWords
	if minWords < 1 {
		minWords = 1
	}
	if maxWords < minWords {
		maxWords = minWords
	}
	maxFragments := opts.MaxFragments
	if maxFragments < 1 {
		maxFragments = 1
	}

	// open[i] reports whether a match span is open before words[i];
	// open[len(words)] is the state after the last word.
	open := make([]bool, len(words)+1)
	marked := opts.Start != "" && opts.End != ""
	var hits []int
	for i, w := range words {
		if !marked {
			break
		}
		if open[i] || strings.Contains(w, opts.Start) {
			hits = append(hits, i)
		}
		open[i+1] = spanState(w, opts.Start, opts.End, open[i])
	}

	if len(hits) == 0 {
		end := min(minWords, len(words))
		return fragment(words, open, 0, end, opts)
	}

	var frags []string
	covered := 0
	for k := 0; k < len(hits) && len(frags) < maxFragments; k++ {
		h := hits[k]
		if h < covered {
			continue
		}
		start := max(covered, h-(minWords-1)/2)
		end := max(start+minWords, h+1)
		for _, next := range hits[k+1:] {
			if next >= start+maxWords {
				break
			}
			end = max(end, next+1)
		}
		end = min(end, start+maxWords, len(words))
		if end-start < minWords {
			start = max(covered, end-minWords)
		}
		frags = append(frags, fragment(words, open, start, end, opts))
		covered = end
	}
	return strings.Join(frags, opts.FragmentDelimiter)
}

// fragment renders words[start:end], reopening a span that started before
// the window and closing one that continues past it.
func fragment(words []string, open []bool, start, end int, opts ExcerptOptions) string {
	var b strings.Builder
	if open[start] {
		b.WriteString(opts.Start)
	}
	b.WriteString(strings.Join(words[start:end], " "))
	if open[end] {
		b.WriteString(opts.End)
	}
	return b.String()
}

// spanState returns whether a span is open after scanning w, given the
// state before it.
func spanState(w, startMark, endMark string, open bool) bool {
	for w != "" {
		si := strings.Index(w, startMark)
		ei := strings.Index(w, endMark)
		switch {
		case si < 0 && ei < 0:
			return open
		case si >= 0 && (ei < 0 || si < ei):
			open = true
			w = w[si+len(startMark):]
		default:
			open = false
			w = w[ei+len(endMark):]
		}
	}
	return open
}
