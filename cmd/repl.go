// Copyright © 2026 The elnames authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/elnames/elnames/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Rewrite forms interactively",
	Long: `Start an interactive shell that rewrites entered forms under the
namespace prefix.

Forms accumulate into one growing block: a definition entered now resolves
references in everything entered later, exactly as it would in a batch
rewrite of the whole block.  Line editing and in-session history are
supported via readline.  Use Ctrl-D to exit.

Example session:
  elnames> (defvar bar 1)
  (defvar foo-bar 1)
  elnames> (defun get-bar () bar)
  (defun foo-get-bar () foo-bar)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		return repl.Run(eng, filepath.Base(os.Args[0])+"> ")
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
