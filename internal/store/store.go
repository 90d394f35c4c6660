// Package store persists the exam archive in SQLite and serves it as a
// full-text index over FTS5. Consumers depend on the Store interface, or on
// the narrower index.Index when all they need is search.
package store

import "time"

// Category groups documents and is the unit of delegated administration.
type Category struct {
	ID          int64
	Slug        string
	DisplayName string
}

// User is an archive account. Usernames are unique.
type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	IsAdmin   bool // global administrator
}

// DisplayName is "first last", or just the last name when the first is empty.
func (u User) DisplayName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// Payment records a user's payment. A refunded payment is never valid.
type Payment struct {
	ID          int64
	UserID      int64
	PaymentTime time.Time
	RefundTime  *time.Time
}

// Document is an exam: a titled file in a category, split into pages.
type Document struct {
	ID           int64
	Filename     string // unique
	DisplayName  string
	CategoryID   int64
	Public       bool
	NeedsPayment bool
}

// Page is the extracted text of one document page. Numbers start at 1.
type Page struct {
	Number int
	Text   string
}

// Answer is a reply attached to a document.
type Answer struct {
	ID         int64
	DocumentID int64
	LongID     string // generated when empty
	AuthorID   int64
	Text       string
}

// Comment is a reply to an answer.
type Comment struct {
	ID       int64
	AnswerID int64
	LongID   string // generated when empty
	AuthorID int64
	Text     string
}

// Stats holds aggregate archive counts.
type Stats struct {
	Categories int64 `json:"categories"`
	Users      int64 `json:"users"`
	Payments   int64 `json:"payments"`
	Documents  int64 `json:"documents"`
	Pages      int64 `json:"pages"`
	Answers    int64 `json:"answers"`
	Comments   int64 `json:"comments"`
	SizeBytes  int64 `json:"size_bytes"`
}
