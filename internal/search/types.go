// Package search implements federated full-text search over the exam
// archive: documents (with their pages), answers and comments are searched
// independently under the requester's visibility rules, excerpts are parsed
// from the index's marker-laden output into segment trees, and the typed
// result lists are merged into one ranked list.
package search

import (
	"time"
)

// Kind is the entity kind of a result.
type Kind string

const (
	KindDocument Kind = "document"
	KindAnswer   Kind = "answer"
	KindComment  Kind = "comment"
)

// Kinds returns all result kinds in merge order.
func Kinds() []Kind {
	return []Kind{KindDocument, KindAnswer, KindComment}
}

// IsReply reports whether k is a threaded reply (answer or comment).
func (k Kind) IsReply() bool {
	return k == KindAnswer || k == KindComment
}

// Amount bounds.
const (
	DefaultAmount = 15
	MaxAmount     = 30
)

// Requester is the already-authenticated identity a search runs as.
type Requester struct {
	GlobalAdmin     bool
	HasPayment      bool
	AdminCategories map[int64]struct{}
}

// NewRequester builds a requester from the administered category IDs.
// Duplicates collapse; no IDs leaves AdminCategories nil.
func NewRequester(admin, paid bool, cats []int64) Requester {
	r := Requester{GlobalAdmin: admin, HasPayment: paid}
	if len(cats) > 0 {
		r.AdminCategories = make(map[int64]struct{}, len(cats))
		for _, id := range cats {
			r.AdminCategories[id] = struct{}{}
		}
	}
	return r
}

// AdminOf reports whether the requester administers the category.
func (r Requester) AdminOf(categoryID int64) bool {
	_, ok := r.AdminCategories[categoryID]
	return ok
}

// CategoryIDs returns the administered categories as a slice.
func (r Requester) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(r.AdminCategories))
	for id := range r.AdminCategories {
		ids = append(ids, id)
	}
	return ids
}

// Request is one search call.
type Request struct {
	Term      string
	Kinds     []Kind // empty means all kinds
	Amount    int    // per kind; 0 means DefaultAmount
	Requester Requester
}

// wants reports whether the request includes kind k.
func (r Request) wants(k Kind) bool {
	if len(r.Kinds) == 0 {
		return true
	}
	for _, want := range r.Kinds {
		if want == k {
			return true
		}
	}
	return false
}

// Segment is a node of a parsed highlight: plain text, or a highlighted
// span holding child segments.
type Segment struct {
	Text        string    `json:"text,omitempty"`
	Highlighted bool      `json:"highlighted,omitempty"`
	Children    []Segment `json:"children,omitempty"`
}

// Plain returns an unmatched text segment.
func Plain(text string) Segment {
	return Segment{Text: text}
}

// Highlighted returns a matched span.
func Highlighted(children ...Segment) Segment {
	return Segment{Highlighted: true, Children: children}
}

// Fragment is one excerpt window.
type Fragment []Segment

// PageMatch is a matching page of a document.
type PageMatch struct {
	Number    int        `json:"page"`
	Rank      float64    `json:"rank"`
	Highlight []Fragment `json:"highlight"`
}

// DocumentMatch carries the document-specific fields of a result.
type DocumentMatch struct {
	ID           int64       `json:"id"`
	Filename     string      `json:"filename"`
	DisplayName  string      `json:"displayname"`
	CategorySlug string      `json:"category_slug"`
	CategoryName string      `json:"category_displayname"`
	Pages        []PageMatch `json:"pages"`
}

// ReplyMatch carries the fields of an answer or comment result.
type ReplyMatch struct {
	ID                int64    `json:"id"`
	LongID            string   `json:"long_id"`
	Text              string   `json:"text"`
	AuthorUsername    string   `json:"author_username"`
	AuthorDisplayName string   `json:"author_displayname"`
	Filename          string   `json:"filename"`
	DocumentName      string   `json:"exam_displayname"`
	CategorySlug      string   `json:"category_slug"`
	CategoryName      string   `json:"category_displayname"`
	Words             []string `json:"highlighted_words"`
}

// Result is one entry of a search response. Exactly one of Document and
// Reply is set, according to Kind.
type Result struct {
	Kind      Kind           `json:"kind"`
	Rank      float64        `json:"rank"`
	Highlight []Fragment     `json:"highlight"`
	Document  *DocumentMatch `json:"document,omitempty"`
	Reply     *ReplyMatch    `json:"reply,omitempty"`
}

// Timing records how long one kind took.
type Timing struct {
	Kind     Kind          `json:"kind"`
	Duration time.Duration `json:"duration_ns"`
	Count    int           `json:"count"`
}

// Response is the outcome of one search call.
type Response struct {
	ID      string   `json:"id"`
	Term    string   `json:"term"`
	Results []Result `json:"results"`
	Timings []Timing `json:"timings,omitempty"`
}

// Count returns the number of results of kind k.
func (r *Response) Count(k Kind) int {
	n := 0
	for _, res := range r.Results {
		if res.Kind == k {
			n++
		}
	}
	return n
}
