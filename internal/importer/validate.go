package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jpl-au/examdex/internal/store"
)

// names tracks natural keys defined by the file.
type names struct {
	categories map[string]bool
	users      map[string]bool
	documents  map[string]bool
	answers    map[string]bool
}

// validate checks required fields and resolves every reference, first
// against the file, then against the archive.
func validate(ctx context.Context, a Archive, f *File) error {
	n := names{
		categories: map[string]bool{},
		users:      map[string]bool{},
		documents:  map[string]bool{},
		answers:    map[string]bool{},
	}
	for i, c := range f.Categories {
		if c.Slug == "" {
			return fmt.Errorf("categories[%d]: %w: slug is required", i, ErrInvalid)
		}
		n.categories[c.Slug] = true
	}
	for i, u := range f.Users {
		if u.Username == "" {
			return fmt.Errorf("users[%d]: %w: username is required", i, ErrInvalid)
		}
		n.users[u.Username] = true
	}
	for _, d := range f.Documents {
		n.documents[d.Filename] = true
		for _, ans := range d.Answers {
			if ans.ID != "" {
				n.answers[ans.ID] = true
			}
		}
	}
	for _, ans := range f.Answers {
		if ans.ID != "" {
			n.answers[ans.ID] = true
		}
	}

	ref := func(path, kind, key string, inFile map[string]bool, lookup func() error) error {
		if key == "" {
			return fmt.Errorf("%s: %w: %s is required", path, ErrInvalid, kind)
		}
		if inFile[key] {
			return nil
		}
		err := lookup()
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%s: %w: %s %q", path, ErrReference, kind, key)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		inFile[key] = true
		return nil
	}
	category := func(path, slug string) error {
		return ref(path, "category", slug, n.categories, func() error {
			_, err := a.CategoryBySlug(ctx, slug)
			return err
		})
	}
	user := func(path, name string) error {
		return ref(path, "user", name, n.users, func() error {
			_, err := a.UserByName(ctx, name)
			return err
		})
	}
	comment := func(path string, c Comment) error {
		if c.Text == "" {
			return fmt.Errorf("%s: %w: text is required", path, ErrInvalid)
		}
		return user(path+".author", c.Author)
	}
	answer := func(path string, ans Answer) error {
		if ans.Text == "" {
			return fmt.Errorf("%s: %w: text is required", path, ErrInvalid)
		}
		if err := user(path+".author", ans.Author); err != nil {
			return err
		}
		for k, c := range ans.Comments {
			if err := comment(fmt.Sprintf("%s.comments[%d]", path, k), c); err != nil {
				return err
			}
		}
		return nil
	}

	for i, u := range f.Users {
		for j, p := range u.Payments {
			if p.Time.IsZero() {
				return fmt.Errorf("users[%d].payments[%d]: %w: time is required", i, j, ErrInvalid)
			}
		}
		for j, slug := range u.AdminCategories {
			if err := category(fmt.Sprintf("users[%d].admin_categories[%d]", i, j), slug); err != nil {
				return err
			}
		}
	}
	for i, d := range f.Documents {
		path := fmt.Sprintf("documents[%d]", i)
		if d.Filename == "" {
			return fmt.Errorf("%s: %w: filename is required", path, ErrInvalid)
		}
		if err := category(path+".category", d.Category); err != nil {
			return err
		}
		for j, ans := range d.Answers {
			if err := answer(fmt.Sprintf("%s.answers[%d]", path, j), ans); err != nil {
				return err
			}
		}
	}
	for i, ans := range f.Answers {
		path := fmt.Sprintf("answers[%d]", i)
		err := ref(path+".document", "document", ans.Document, n.documents, func() error {
			_, err := a.DocumentByFilename(ctx, ans.Document)
			return err
		})
		if err != nil {
			return err
		}
		if err := answer(path, ans); err != nil {
			return err
		}
	}
	for i, c := range f.Comments {
		path := fmt.Sprintf("comments[%d]", i)
		err := ref(path+".answer", "answer", c.Answer, n.answers, func() error {
			_, err := a.AnswerByLongID(ctx, c.Answer)
			return err
		})
		if err != nil {
			return err
		}
		if err := comment(path, c); err != nil {
			return err
		}
	}
	return nil
}
