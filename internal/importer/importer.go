// Package importer loads YAML archive files into the examdex store.
//
// An import runs in two passes. The first resolves every reference
// (category slugs, usernames, filenames, long IDs) against the file and the
// archive and fails with the path of the first bad entry; nothing is written
// until it passes. The second upserts in dependency order, so re-importing a
// file updates the archive in place.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/examdex/internal/progress"
	"github.com/jpl-au/examdex/internal/store"
)

var (
	// ErrReference is returned when an entry names something that exists
	// neither in the file nor in the archive.
	ErrReference = errors.New("unresolved reference")
	// ErrInvalid is returned for an entry missing a required field.
	ErrInvalid = errors.New("invalid entry")
)

// Archive is the part of the store an import needs.
type Archive interface {
	store.Writer
	store.Reader
	store.Accounts
}

// Options configures an import operation.
type Options struct {
	DryRun bool // validate only
}

// Result counts the entries written (or that would be written).
type Result struct {
	Categories int `json:"categories"`
	Users      int `json:"users"`
	Payments   int `json:"payments"`
	Documents  int `json:"documents"`
	Pages      int `json:"pages"`
	Answers    int `json:"answers"`
	Comments   int `json:"comments"`
}

// RunFile imports the archive file at path.
func RunFile(ctx context.Context, w io.Writer, a Archive, path string, opts Options) (Result, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	return Run(ctx, w, a, f, opts)
}

// Run validates f against a and, unless opts.DryRun, writes it.
func Run(ctx context.Context, w io.Writer, a Archive, f *File, opts Options) (Result, error) {
	if err := validate(ctx, a, f); err != nil {
		return Result{}, err
	}
	res := count(f)
	if opts.DryRun {
		fmt.Fprintf(w, "Would import: %d documents (%d pages), %d answers, %d comments, %d users, %d categories\n",
			res.Documents, res.Pages, res.Answers, res.Comments, res.Users, res.Categories)
		return res, nil
	}
	if err := write(ctx, w, a, f); err != nil {
		return Result{}, err
	}
	return res, nil
}

func count(f *File) Result {
	r := Result{
		Categories: len(f.Categories),
		Users:      len(f.Users),
		Documents:  len(f.Documents),
		Answers:    len(f.Answers),
		Comments:   len(f.Comments),
	}
	for _, u := range f.Users {
		r.Payments += len(u.Payments)
	}
	for _, a := range f.Answers {
		r.Comments += len(a.Comments)
	}
	for _, d := range f.Documents {
		r.Pages += len(d.Pages)
		r.Answers += len(d.Answers)
		for _, a := range d.Answers {
			r.Comments += len(a.Comments)
		}
	}
	return r
}

// ids caches natural key to stored ID lookups during the write pass.
type ids struct {
	a          Archive
	categories map[string]int64
	users      map[string]int64
	documents  map[string]int64
	answers    map[string]int64
}

func newIDs(a Archive) *ids {
	return &ids{
		a:          a,
		categories: map[string]int64{},
		users:      map[string]int64{},
		documents:  map[string]int64{},
		answers:    map[string]int64{},
	}
}

func (x *ids) category(ctx context.Context, slug string) (int64, error) {
	if id, ok := x.categories[slug]; ok {
		return id, nil
	}
	c, err := x.a.CategoryBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	x.categories[slug] = c.ID
	return c.ID, nil
}

func (x *ids) user(ctx context.Context, name string) (int64, error) {
	if id, ok := x.users[name]; ok {
		return id, nil
	}
	u, err := x.a.UserByName(ctx, name)
	if err != nil {
		return 0, err
	}
	x.users[name] = u.ID
	return u.ID, nil
}

func (x *ids) document(ctx context.Context, filename string) (int64, error) {
	if id, ok := x.documents[filename]; ok {
		return id, nil
	}
	d, err := x.a.DocumentByFilename(ctx, filename)
	if err != nil {
		return 0, err
	}
	x.documents[filename] = d.ID
	return d.ID, nil
}

func (x *ids) answer(ctx context.Context, longID string) (int64, error) {
	if id, ok := x.answers[longID]; ok {
		return id, nil
	}
	a, err := x.a.AnswerByLongID(ctx, longID)
	if err != nil {
		return 0, err
	}
	x.answers[longID] = a.ID
	return a.ID, nil
}

func write(ctx context.Context, w io.Writer, a Archive, f *File) error {
	x := newIDs(a)

	for i, c := range f.Categories {
		id, err := a.PutCategory(ctx, store.Category{Slug: c.Slug, DisplayName: c.Name})
		if err != nil {
			return fmt.Errorf("categories[%d]: %w", i, err)
		}
		x.categories[c.Slug] = id
	}

	for i, u := range f.Users {
		id, err := a.PutUser(ctx, store.User{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName, IsAdmin: u.Admin})
		if err != nil {
			return fmt.Errorf("users[%d]: %w", i, err)
		}
		x.users[u.Username] = id
	}
	// Grants and payments after all users, so order in the file is free.
	for i, u := range f.Users {
		uid := x.users[u.Username]
		for j, p := range u.Payments {
			if _, err := a.PutPayment(ctx, store.Payment{UserID: uid, PaymentTime: p.Time, RefundTime: p.Refund}); err != nil {
				return fmt.Errorf("users[%d].payments[%d]: %w", i, j, err)
			}
		}
		for j, slug := range u.AdminCategories {
			cid, err := x.category(ctx, slug)
			if err != nil {
				return fmt.Errorf("users[%d].admin_categories[%d]: %w", i, j, err)
			}
			if err := a.PutCategoryAdmin(ctx, cid, uid); err != nil {
				return fmt.Errorf("users[%d].admin_categories[%d]: %w", i, j, err)
			}
		}
	}

	prog := progress.New("Importing", len(f.Documents))
	defer prog.Done()
	for i, d := range f.Documents {
		path := fmt.Sprintf("documents[%d]", i)
		cid, err := x.category(ctx, d.Category)
		if err != nil {
			return fmt.Errorf("%s.category: %w", path, err)
		}
		pages := make([]store.Page, len(d.Pages))
		for n, text := range d.Pages {
			pages[n] = store.Page{Number: n + 1, Text: text}
		}
		did, err := a.PutDocument(ctx, store.Document{
			Filename:     d.Filename,
			DisplayName:  d.Name,
			CategoryID:   cid,
			Public:       d.Public,
			NeedsPayment: d.NeedsPayment,
		}, pages)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		x.documents[d.Filename] = did
		for j, ans := range d.Answers {
			if err := writeAnswer(ctx, a, x, did, ans, fmt.Sprintf("%s.answers[%d]", path, j)); err != nil {
				return err
			}
		}
		prog.Increment()
		prog.Print()
		fmt.Fprintf(w, "Imported: %s (%d pages)\n", d.Filename, len(pages))
	}

	for i, ans := range f.Answers {
		path := fmt.Sprintf("answers[%d]", i)
		did, err := x.document(ctx, ans.Document)
		if err != nil {
			return fmt.Errorf("%s.document: %w", path, err)
		}
		if err := writeAnswer(ctx, a, x, did, ans, path); err != nil {
			return err
		}
	}

	for i, c := range f.Comments {
		path := fmt.Sprintf("comments[%d]", i)
		aid, err := x.answer(ctx, c.Answer)
		if err != nil {
			return fmt.Errorf("%s.answer: %w", path, err)
		}
		if err := writeComment(ctx, a, x, aid, c, path); err != nil {
			return err
		}
	}
	return nil
}

func writeAnswer(ctx context.Context, a Archive, x *ids, documentID int64, ans Answer, path string) error {
	uid, err := x.user(ctx, ans.Author)
	if err != nil {
		return fmt.Errorf("%s.author: %w", path, err)
	}
	aid, err := a.PutAnswer(ctx, store.Answer{DocumentID: documentID, LongID: ans.ID, AuthorID: uid, Text: ans.Text})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if ans.ID != "" {
		x.answers[ans.ID] = aid
	}
	for k, c := range ans.Comments {
		if err := writeComment(ctx, a, x, aid, c, fmt.Sprintf("%s.comments[%d]", path, k)); err != nil {
			return err
		}
	}
	return nil
}

func writeComment(ctx context.Context, a Archive, x *ids, answerID int64, c Comment, path string) error {
	uid, err := x.user(ctx, c.Author)
	if err != nil {
		return fmt.Errorf("%s.author: %w", path, err)
	}
	if _, err := a.PutComment(ctx, store.Comment{AnswerID: answerID, LongID: c.ID, AuthorID: uid, Text: c.Text}); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
