// query.go implements the "examdex search" command.

package search

import (
	"fmt"
	"io"

	"github.com/jpl-au/examdex/cmd"
	"github.com/jpl-au/examdex/extension"
	"github.com/jpl-au/examdex/internal/find"
	"github.com/jpl-au/examdex/internal/log"
	"github.com/jpl-au/examdex/internal/search"
	"github.com/spf13/cobra"
)

func (e *Extension) newSearchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "search <term>",
		Short: "Search exams, answers and comments",
		Long: `Search exams (names and page text), answers and comments.

Results from each kind are capped at --amount and merged by rank. The search
runs as --user (default user.name from config); --admin, --paid and
--admin-category describe a requester directly instead.

  examdex search eigenvalue
  examdex search "trace determinant" --no-comments --amount 5
  examdex search eigenvalue --paid --admin-category 3
  examdex search eigenvalue -o json`,
		Args: cobra.ExactArgs(1),
		RunE: e.runSearch,
	}
	c.Flags().IntP(extension.FlagAmount, "n", 0, "Results per kind (default search.default_amount)")
	c.Flags().Bool(extension.FlagNoDocuments, false, "Exclude exams and their pages")
	c.Flags().Bool(extension.FlagNoAnswers, false, "Exclude answers")
	c.Flags().Bool(extension.FlagNoComments, false, "Exclude comments")
	c.Flags().Bool(extension.FlagAdmin, false, "Search as a global admin")
	c.Flags().Bool(extension.FlagPaid, false, "Search with an active payment")
	c.Flags().Int64Slice(extension.FlagAdminCategory, nil, "Category ID the requester administers (repeatable)")
	c.Flags().BoolP(extension.FlagTimings, "t", false, "Print per-kind timings")
	return c
}

// kindsFromFlags maps the --no-* flags onto the kinds to search. All three
// set is an error rather than an empty search.
func kindsFromFlags(c *cobra.Command) ([]search.Kind, error) {
	skip := map[search.Kind]string{
		search.KindDocument: extension.FlagNoDocuments,
		search.KindAnswer:   extension.FlagNoAnswers,
		search.KindComment:  extension.FlagNoComments,
	}
	var kinds []search.Kind
	excluded := false
	for _, k := range search.Kinds() {
		if off, _ := c.Flags().GetBool(skip[k]); off {
			excluded = true
			continue
		}
		kinds = append(kinds, k)
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("nothing to search: every kind is excluded")
	}
	if !excluded {
		return nil, nil
	}
	return kinds, nil
}

// requesterFromFlags returns an explicit requester when any of --admin,
// --paid or --admin-category is set, and nil otherwise.
func requesterFromFlags(c *cobra.Command) *search.Requester {
	admin, _ := c.Flags().GetBool(extension.FlagAdmin)
	paid, _ := c.Flags().GetBool(extension.FlagPaid)
	cats, _ := c.Flags().GetInt64Slice(extension.FlagAdminCategory)
	if !admin && !paid && len(cats) == 0 {
		return nil
	}
	r := search.NewRequester(admin, paid, cats)
	return &r
}

func (e *Extension) runSearch(c *cobra.Command, args []string) error {
	ctx := c.Context()
	term := args[0]
	amount, _ := c.Flags().GetInt(extension.FlagAmount)
	timings, _ := c.Flags().GetBool(extension.FlagTimings)

	kinds, err := kindsFromFlags(c)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	opts := find.Options{
		Kinds:     kinds,
		Amount:    amount,
		Timings:   timings,
		Requester: requesterFromFlags(c),
	}
	// A configured user.name gives way to explicit requester flags; only
	// --user itself conflicts with them.
	if opts.Requester == nil || cmd.UserExplicit() {
		opts.Username = cmd.User()
	}

	var w io.Writer = cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	res, err := find.Run(ctx, w, e.svc, term, opts)

	b := log.Event("cli:search", "search").Actor(opts.Username).Term(term)
	if res.Response != nil {
		b = b.Detail("request", res.Response.ID).Detail("count", len(res.Response.Results))
	}
	b.Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("search %q: %w", term, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(res.Response)
	}
	return nil
}
