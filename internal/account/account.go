// Package account resolves a username in the archive into the requester a
// search runs as: global admin flag, payment status and the set of
// administered categories.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jpl-au/examdex/internal/search"
	"github.com/jpl-au/examdex/internal/store"
)

// Resolver builds search requesters from archive accounts.
type Resolver struct {
	accounts store.Accounts
	cache    *Cache
	now      func() time.Time
}

// NewResolver returns a Resolver reading from accounts. Admin-category sets
// are memoised in cache; a nil cache disables memoisation.
func NewResolver(accounts store.Accounts, cache *Cache) *Resolver {
	return &Resolver{accounts: accounts, cache: cache, now: time.Now}
}

// Resolve returns the requester for username. An empty or unknown username
// resolves to the anonymous requester, who sees only public documents that
// need no payment.
func (r *Resolver) Resolve(ctx context.Context, username string) (search.Requester, error) {
	if username == "" {
		return search.Requester{}, nil
	}
	u, err := r.accounts.UserByName(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return search.Requester{}, nil
	}
	if err != nil {
		return search.Requester{}, fmt.Errorf("resolve %s: %w", username, err)
	}

	payments, err := r.accounts.Payments(ctx, u.ID)
	if err != nil {
		return search.Requester{}, fmt.Errorf("resolve %s: %w", username, err)
	}
	paid := HasValidPayment(payments, r.now())

	load := func() ([]int64, error) { return r.accounts.AdminCategories(ctx, u.ID) }
	var cats []int64
	if r.cache != nil {
		cats, err = r.cache.Get(u.ID, load)
	} else {
		cats, err = load()
	}
	if err != nil {
		return search.Requester{}, fmt.Errorf("resolve %s: %w", username, err)
	}
	return search.NewRequester(u.IsAdmin, paid, cats), nil
}
