// Copyright © 2026 The elnames authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/elnames/elnames/diagnostic"
)

// autoloadsCmd represents the autoloads command
var autoloadsCmd = &cobra.Command{
	Use:   "autoloads [FILE...]",
	Short: "Extract deferred-loading forms, rewritten under the prefix",
	Long: `Extract the top-level forms marked with the ;;;###autoload cookie and
print them rewritten under the namespace prefix.

Only the marked forms participate in the rewrite: discovery runs over the
extracted subset, so an extracted form referencing an unextracted
definition keeps the reference unqualified (pair this command with --known
when those definitions are already installed under the prefix).

The combinator parser discards comments, so this command always uses the
default parser.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if parserFlag != "" && parserFlag != "rd" {
			return fmt.Errorf("autoloads requires the default parser (cookies are comments)")
		}
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		if len(args) == 0 {
			args = []string{"-"}
		}
		w, closeOut, err := openOutput()
		if err != nil {
			return err
		}
		renderer := &diagnostic.Renderer{}
		for _, path := range args {
			forms, err := parseFile(path)
			if err != nil {
				return err
			}
			out, err := eng.RewriteDeferred(forms)
			if err != nil {
				return err
			}
			if err := renderer.RenderAll(os.Stderr, eng.Diagnostics()); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, out); err != nil {
				return err
			}
		}
		return closeOut()
	},
}

func init() {
	rootCmd.AddCommand(autoloadsCmd)

	addRewriteFlags(autoloadsCmd.Flags())
}
