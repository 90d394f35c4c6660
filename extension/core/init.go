// init.go implements the "examdex init" command.
//
// Init runs before an archive exists and creates the database with its
// schema. It does not write config; that is "examdex config".

package core

import (
	"fmt"
	"path/filepath"

	"github.com/jpl-au/examdex/cmd"
	"github.com/jpl-au/examdex/extension"
	"github.com/jpl-au/examdex/internal/archive"
	"github.com/jpl-au/examdex/internal/log"
	"github.com/jpl-au/examdex/internal/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "init",
		Short: "Initialise a new examdex archive",
		Long: `Creates a .examdex/examdex.db archive in the current directory.

Use --db to create additional archives:
  examdex init --db physics    # creates .examdex/examdex-physics.db

Use --dir to create in a different directory:
  examdex init --dir /srv/exams

Use --local to exclude the database from git:
  examdex init --local`,
		RunE: runInit,
	}
	c.Flags().BoolP(extension.FlagLocal, "l", false, "Mark database as local (gitignored)")
	return c
}

func runInit(c *cobra.Command, _ []string) error {
	local, _ := c.Flags().GetBool(extension.FlagLocal)
	db, dir := cmd.DB(), cmd.Dir()

	// --local edits this project's .gitignore, which says nothing about a
	// database created under --dir.
	if local && dir != "" {
		return cmd.PrintJSONError(fmt.Errorf("cannot use --local with --dir"))
	}

	err := archive.Init(cmd.Force(), db, local, dir)

	log.Event("core:init", "init").
		Actor(cmd.User()).
		Detail("db", db).
		Detail("dir", dir).
		Detail("local", local).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("init: %w", err))
	}

	loc := filepath.Join(dir, repo.Dir, repo.DBFileName(db))
	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"path": loc})
	}
	fmt.Fprintf(cmd.Out(), "Initialised examdex archive in %s\n", loc)
	return nil
}
