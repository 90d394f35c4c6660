// read.go implements natural-key lookups and the account queries used to
// resolve a search requester.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// notFound converts sql.ErrNoRows to ErrNotFound for consistent error handling.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// CategoryBySlug returns the category with the given slug.
func (s *SQLiteStore) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var c Category
	err := s.db.QueryRowContext(ctx, `SELECT id, slug, displayname FROM categories WHERE slug = ?`, slug).
		Scan(&c.ID, &c.Slug, &c.DisplayName)
	if err != nil {
		return nil, notFound(err, "category "+slug)
	}
	return &c, nil
}

// DocumentByFilename returns the document with the given filename.
func (s *SQLiteStore) DocumentByFilename(ctx context.Context, filename string) (*Document, error) {
	var d Document
	err := s.db.QueryRowContext(ctx, `SELECT id, filename, displayname, category_id, public, needs_payment
		FROM documents WHERE filename = ?`, filename).
		Scan(&d.ID, &d.Filename, &d.DisplayName, &d.CategoryID, &d.Public, &d.NeedsPayment)
	if err != nil {
		return nil, notFound(err, "document "+filename)
	}
	return &d, nil
}

// AnswerByLongID returns the answer with the given long ID.
func (s *SQLiteStore) AnswerByLongID(ctx context.Context, longID string) (*Answer, error) {
	var a Answer
	err := s.db.QueryRowContext(ctx, `SELECT id, document_id, long_id, author_id, text FROM answers WHERE long_id = ?`, longID).
		Scan(&a.ID, &a.DocumentID, &a.LongID, &a.AuthorID, &a.Text)
	if err != nil {
		return nil, notFound(err, "answer "+longID)
	}
	return &a, nil
}

// UserByName returns the user with the given username.
func (s *SQLiteStore) UserByName(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `SELECT id, username, first_name, last_name, is_admin FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.IsAdmin)
	if err != nil {
		return nil, notFound(err, "user "+username)
	}
	return &u, nil
}

// Payments returns a user's payments, oldest first.
func (s *SQLiteStore) Payments(ctx context.Context, userID int64) ([]Payment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, payment_time, refund_time
		FROM payments WHERE user_id = ? ORDER BY payment_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(sc scanner) (Payment, error) {
	var p Payment
	var paid int64
	var refund sql.NullInt64
	if err := sc.Scan(&p.ID, &p.UserID, &paid, &refund); err != nil {
		return p, err
	}
	p.PaymentTime = time.Unix(paid, 0).UTC()
	if refund.Valid {
		t := time.Unix(refund.Int64, 0).UTC()
		p.RefundTime = &t
	}
	return p, nil
}

// AdminCategories returns the IDs of the categories the user administers.
func (s *SQLiteStore) AdminCategories(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category_id FROM category_admins WHERE user_id = ? ORDER BY category_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list admin categories: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
