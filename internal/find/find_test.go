package find

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jpl-au/examdex/internal/importer"
	"github.com/jpl-au/examdex/internal/index"
	"github.com/jpl-au/examdex/internal/search"
	"github.com/jpl-au/examdex/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	users map[string]search.Requester
	req   search.Request
}

func (s *stubService) Close() error    { return nil }
func (s *stubService) DB() *sql.DB     { return nil }
func (s *stubService) Dir() string     { return "" }
func (s *stubService) Backend() string { return "sqlite" }

func (s *stubService) Search(_ context.Context, req search.Request) (*search.Response, error) {
	s.req = req
	return &search.Response{
		ID:   "req",
		Term: req.Term,
		Results: []search.Result{{
			Kind:      search.KindAnswer,
			Rank:      1,
			Highlight: []search.Fragment{{search.Plain("the "), search.Highlighted(search.Plain("trace"))}},
			Reply:     &search.ReplyMatch{ID: 9, AuthorUsername: "bob", DocumentName: "Linear Algebra"},
		}},
		Timings: []search.Timing{{Kind: search.KindAnswer, Duration: time.Millisecond, Count: 1}},
	}, nil
}

func (s *stubService) Requester(_ context.Context, name string) (search.Requester, error) {
	if name == "broken" {
		return search.Requester{}, errors.New("boom")
	}
	return s.users[name], nil
}

func (s *stubService) Import(context.Context, io.Writer, string, importer.Options) (importer.Result, error) {
	return importer.Result{}, nil
}
func (s *stubService) Stats(context.Context) (*store.Stats, error) { return &store.Stats{}, nil }
func (s *stubService) Optimize(context.Context) error              { return nil }
func (s *stubService) SyncIndex(context.Context) (map[index.Source]int, error) {
	return nil, nil
}

func TestRequester(t *testing.T) {
	svc := &stubService{users: map[string]search.Requester{"alice": {HasPayment: true}}}
	ctx := context.Background()

	r, err := Requester(ctx, svc, Options{Username: "alice"})
	require.NoError(t, err)
	assert.True(t, r.HasPayment)

	r, err = Requester(ctx, svc, Options{})
	require.NoError(t, err)
	assert.Equal(t, search.Requester{}, r)

	r4 := search.NewRequester(false, false, []int64{4})
	explicit := &r4
	r, err = Requester(ctx, svc, Options{Requester: explicit})
	require.NoError(t, err)
	assert.True(t, r.AdminOf(4))

	_, err = Requester(ctx, svc, Options{Username: "alice", Requester: explicit})
	assert.ErrorIs(t, err, ErrRequesterConflict)

	_, err = Requester(ctx, svc, Options{Username: "broken"})
	assert.ErrorContains(t, err, `resolve user "broken"`)
}

func TestRun(t *testing.T) {
	svc := &stubService{users: map[string]search.Requester{"admin": {GlobalAdmin: true}}}
	var buf bytes.Buffer

	res, err := Run(context.Background(), &buf, svc, "trace", Options{
		Username: "admin",
		Kinds:    []search.Kind{search.KindAnswer},
		Amount:   3,
		Timings:  true,
	})
	require.NoError(t, err)
	assert.True(t, res.Requester.GlobalAdmin)
	assert.Equal(t, 3, svc.req.Amount)
	assert.Equal(t, []search.Kind{search.KindAnswer}, svc.req.Kinds)
	require.Len(t, res.Response.Results, 1)

	out := buf.String()
	assert.Contains(t, out, "**trace**")
	assert.Contains(t, out, "1 results")
}

func TestRunDiscard(t *testing.T) {
	svc := &stubService{}
	res, err := Run(context.Background(), io.Discard, svc, "trace", Options{})
	require.NoError(t, err)
	assert.NotNil(t, res.Response)
	assert.Nil(t, svc.req.Kinds)
}
