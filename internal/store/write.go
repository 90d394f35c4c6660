// write.go implements archive upserts.
//
// Every write is keyed by the entity's natural key so re-importing an
// archive file updates rows in place. Updates fire the FTS5 triggers, so the
// index never needs a separate rebuild step.

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// PutCategory upserts a category by slug. An empty display name defaults to
// the slug.
func (s *SQLiteStore) PutCategory(ctx context.Context, c Category) (int64, error) {
	if c.Slug == "" {
		return 0, fmt.Errorf("%w: category without slug", ErrInvalid)
	}
	if c.DisplayName == "" {
		c.DisplayName = c.Slug
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `INSERT INTO categories (slug, displayname) VALUES (?, ?)
		ON CONFLICT(slug) DO UPDATE SET displayname = excluded.displayname
		RETURNING id`, c.Slug, c.DisplayName).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("put category %s: %w", c.Slug, err)
	}
	return id, nil
}

// PutUser upserts a user by username.
func (s *SQLiteStore) PutUser(ctx context.Context, u User) (int64, error) {
	if u.Username == "" {
		return 0, fmt.Errorf("%w: user without username", ErrInvalid)
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `INSERT INTO users (username, first_name, last_name, is_admin) VALUES (?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			is_admin = excluded.is_admin
		RETURNING id`, u.Username, u.FirstName, u.LastName, u.IsAdmin).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("put user %s: %w", u.Username, err)
	}
	return id, nil
}

// PutPayment records a payment. Times are stored as unix seconds.
func (s *SQLiteStore) PutPayment(ctx context.Context, p Payment) (int64, error) {
	if p.UserID == 0 || p.PaymentTime.IsZero() {
		return 0, fmt.Errorf("%w: payment needs a user and a time", ErrInvalid)
	}
	var refund *int64
	if p.RefundTime != nil {
		r := p.RefundTime.Unix()
		refund = &r
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `INSERT INTO payments (user_id, payment_time, refund_time) VALUES (?, ?, ?)
		ON CONFLICT(user_id, payment_time) DO UPDATE SET refund_time = excluded.refund_time
		RETURNING id`, p.UserID, p.PaymentTime.Unix(), refund).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("put payment: %w", err)
	}
	return id, nil
}

// PutCategoryAdmin grants userID administration of categoryID. Granting
// twice is a no-op.
func (s *SQLiteStore) PutCategoryAdmin(ctx context.Context, categoryID, userID int64) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO category_admins (category_id, user_id) VALUES (?, ?)`,
		categoryID, userID)
	if err != nil {
		return fmt.Errorf("put category admin: %w", err)
	}
	return nil
}

// PutDocument upserts a document by filename and replaces its pages. The
// document row and its pages are written in one transaction so the index
// never sees a document with half its pages.
func (s *SQLiteStore) PutDocument(ctx context.Context, d Document, pages []Page) (int64, error) {
	if d.Filename == "" {
		return 0, fmt.Errorf("%w: document without filename", ErrInvalid)
	}
	if d.DisplayName == "" {
		d.DisplayName = d.Filename
	}
	for _, p := range pages {
		if p.Number < 1 {
			return 0, fmt.Errorf("%w: %s: page number %d", ErrInvalid, d.Filename, p.Number)
		}
	}

	var id int64
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `INSERT INTO documents (filename, displayname, category_id, public, needs_payment)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(filename) DO UPDATE SET
				displayname = excluded.displayname,
				category_id = excluded.category_id,
				public = excluded.public,
				needs_payment = excluded.needs_payment
			RETURNING id`, d.Filename, d.DisplayName, d.CategoryID, d.Public, d.NeedsPayment).Scan(&id)
		if err != nil {
			return fmt.Errorf("upsert document: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE document_id = ?`, id); err != nil {
			return fmt.Errorf("clear pages: %w", err)
		}
		for _, p := range pages {
			_, err := tx.ExecContext(ctx, `INSERT INTO pages (document_id, page_number, text) VALUES (?, ?, ?)`,
				id, p.Number, p.Text)
			if err != nil {
				return fmt.Errorf("insert page %d: %w", p.Number, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("put document %s: %w", d.Filename, err)
	}
	return id, nil
}

// PutAnswer upserts an answer by long ID.
func (s *SQLiteStore) PutAnswer(ctx context.Context, a Answer) (int64, error) {
	if a.DocumentID == 0 || a.AuthorID == 0 {
		return 0, fmt.Errorf("%w: answer needs a document and an author", ErrInvalid)
	}
	longID, err := longIDOrNew(a.LongID)
	if err != nil {
		return 0, err
	}
	var id int64
	err = s.db.QueryRowContext(ctx, `INSERT INTO answers (document_id, long_id, author_id, text) VALUES (?, ?, ?, ?)
		ON CONFLICT(long_id) DO UPDATE SET
			document_id = excluded.document_id,
			author_id = excluded.author_id,
			text = excluded.text
		RETURNING id`, a.DocumentID, longID, a.AuthorID, a.Text).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("put answer %s: %w", longID, err)
	}
	return id, nil
}

// PutComment upserts a comment by long ID.
func (s *SQLiteStore) PutComment(ctx context.Context, c Comment) (int64, error) {
	if c.AnswerID == 0 || c.AuthorID == 0 {
		return 0, fmt.Errorf("%w: comment needs an answer and an author", ErrInvalid)
	}
	longID, err := longIDOrNew(c.LongID)
	if err != nil {
		return 0, err
	}
	var id int64
	err = s.db.QueryRowContext(ctx, `INSERT INTO comments (answer_id, long_id, author_id, text) VALUES (?, ?, ?, ?)
		ON CONFLICT(long_id) DO UPDATE SET
			answer_id = excluded.answer_id,
			author_id = excluded.author_id,
			text = excluded.text
		RETURNING id`, c.AnswerID, longID, c.AuthorID, c.Text).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("put comment %s: %w", longID, err)
	}
	return id, nil
}

func longIDOrNew(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	return genID()
}
