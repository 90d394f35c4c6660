// import.go implements the "examdex import" command.

package admin

import (
	"fmt"
	"io"

	"github.com/jpl-au/examdex/cmd"
	"github.com/jpl-au/examdex/extension"
	"github.com/jpl-au/examdex/internal/importer"
	"github.com/jpl-au/examdex/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newImportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import categories, users, exams and replies from YAML",
		Long: `Import an archive file into the database.

The file may hold categories, users (with payments and category admin
rights), documents with their pages, answers and comments. References are
resolved against the file and then the archive; an unknown reference fails
the whole import and nothing is written.

  examdex import archive.yaml
  examdex import archive.yaml --dry-run

See 'examdex guide import' for the file format.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runImport,
	}
	c.Flags().BoolP(extension.FlagDryRun, "n", false, "Validate and count without importing")
	return c
}

func (e *Extension) runImport(c *cobra.Command, args []string) error {
	path := args[0]
	dryRun, _ := c.Flags().GetBool(extension.FlagDryRun)

	var w io.Writer = cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	res, err := e.svc.Import(c.Context(), w, path, importer.Options{DryRun: dryRun})

	log.Event("admin:import", "import").
		Actor(cmd.User()).
		Detail("file", path).
		Detail("dry_run", dryRun).
		Detail("documents", res.Documents).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("import %q: %w", path, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(res)
	}
	verb := "Imported"
	if dryRun {
		verb = "Would import"
	}
	fmt.Fprintf(cmd.Out(), "\n%s %d document(s), %d page(s), %d answer(s), %d comment(s)\n",
		verb, res.Documents, res.Pages, res.Answers, res.Comments)
	return nil
}
