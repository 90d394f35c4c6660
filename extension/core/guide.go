// guide.go implements the "examdex guide" command.
//
// A terminal gets glamour-rendered markdown; a pipe gets the raw markdown
// so the pages can be fed to an LLM as context.

package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/examdex/cmd"
	"github.com/jpl-au/examdex/guide"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newGuideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide [topic]",
		Short: "Show the examdex usage guide",
		Long: `Outputs the examdex guide.

  examdex guide           # overview
  examdex guide search    # search flags and visibility rules
  examdex guide import    # archive file format`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}

			content, err := guide.Get(name)
			if err != nil {
				available, listErr := guide.List()
				if listErr != nil {
					return listErr
				}
				return cmd.PrintJSONError(fmt.Errorf("guide %q not found. Available: %s", name, strings.Join(available, ", ")))
			}

			if f, ok := cmd.Out().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				rendered, err := glamour.Render(content, "dark")
				if err == nil {
					fmt.Fprint(cmd.Out(), rendered)
					return nil
				}
			}

			fmt.Fprint(cmd.Out(), content)
			return nil
		},
	}
}
