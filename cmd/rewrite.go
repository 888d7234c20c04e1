// Copyright © 2026 The elnames authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/elnames/elnames/diagnostic"
)

// rewriteCmd represents the rewrite command
var rewriteCmd = &cobra.Command{
	Use:   "rewrite [FILE...]",
	Short: "Rewrite source files under a namespace prefix",
	Long: `Rewrite source files under a namespace prefix.

Each file is processed as one block: names the file defines are qualified
with the prefix along with every reference to them, and the result prints as
a single progn.  The path "-" (and no arguments at all) reads standard
input.  Warnings about forms that could not be classified go to standard
error; they never stop the rewrite.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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
			out, err := eng.Rewrite(forms)
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
	rootCmd.AddCommand(rewriteCmd)

	addRewriteFlags(rewriteCmd.Flags())
}
