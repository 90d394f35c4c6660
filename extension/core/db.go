// db.go implements the "examdex db" command.
//
// db is storeless: it edits .gitignore entries without opening databases,
// so it also works on an archive another process holds open.

package core

import (
	"fmt"
	"path/filepath"

	"github.com/jpl-au/examdex/cmd"
	"github.com/jpl-au/examdex/extension"
	"github.com/jpl-au/examdex/internal/log"
	"github.com/jpl-au/examdex/internal/repo"
	"github.com/spf13/cobra"
)

func newDBCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "db [name]",
		Short: "List or manage archive databases",
		Long: `List archive databases or change their local/shared status.

  examdex db                     # list all databases
  examdex db --local             # mark the default database as local
  examdex db physics --share     # mark examdex-physics.db as shared
  examdex db --dir /srv/exams    # list databases in another directory

Local databases are gitignored. Shared databases are committed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDB,
	}
	c.Flags().BoolP(extension.FlagLocal, "l", false, "Mark database as local")
	c.Flags().BoolP(extension.FlagShare, "s", false, "Mark database as shared")
	c.MarkFlagsMutuallyExclusive(extension.FlagLocal, extension.FlagShare)
	return c
}

func runDB(c *cobra.Command, args []string) error {
	local, _ := c.Flags().GetBool(extension.FlagLocal)
	share, _ := c.Flags().GetBool(extension.FlagShare)

	// repo functions take the .examdex directory, not the project root;
	// empty means discover it.
	dir := cmd.Dir()
	archiveDir := ""
	if dir != "" {
		archiveDir = filepath.Join(dir, repo.Dir)
	}

	if len(args) == 0 && !local && !share {
		err := listDBs(archiveDir)
		log.Event("core:db", "list").Actor(cmd.User()).Detail("dir", dir).Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("db list: %w", err))
		}
		return nil
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	var (
		action string
		err    error
	)
	switch {
	case local:
		action = "ignore"
		err = repo.IgnoreDB(name, archiveDir)
	case share:
		action = "unignore"
		err = repo.UnignoreDB(name, archiveDir)
	default:
		action = "status"
		var ignored bool
		ignored, err = repo.IsIgnored(name, archiveDir)
		local = ignored
	}

	log.Event("core:db", action).
		Actor(cmd.User()).
		Detail("db", name).
		Detail("dir", dir).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("db %s %q: %w", action, name, err))
	}

	status := "shared"
	if local {
		status = "local"
	}
	file := repo.DBFileName(name)
	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"file": file, "status": status})
	}
	if action == "status" {
		fmt.Fprintf(cmd.Out(), "%s: %s\n", file, status)
	} else {
		fmt.Fprintf(cmd.Out(), "%s marked as %s\n", file, status)
	}
	return nil
}

// listDBs displays every database in the archive directory with its
// status.
func listDBs(dir string) error {
	dbs, err := repo.ListDBs(dir)
	if err != nil {
		return err
	}
	if cmd.JSON() {
		if dbs == nil {
			dbs = []repo.DBInfo{}
		}
		return cmd.PrintJSON(dbs)
	}

	if len(dbs) == 0 {
		fmt.Fprintln(cmd.Out(), "No databases found")
		return nil
	}
	for _, db := range dbs {
		status := "shared"
		if db.Local {
			status = "local"
		}
		fmt.Fprintf(cmd.Out(), "%s  %s\n", db.File, status)
	}
	return nil
}
