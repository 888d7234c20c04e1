// Copyright © 2026 The elnames authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "elnames",
	Short: "elnames — prefix namespacing for Lisp source",
	Long: `elnames rewrites Lisp source so that the symbols a file defines, and every
reference to them, carry a namespace prefix.  Write short names; ship
prefixed ones.

Getting started:
  elnames rewrite -p foo- init.el      Rewrite a file under the foo- prefix
  elnames rewrite -p foo- - < init.el  Rewrite standard input
  elnames autoloads -p foo- init.el    Extract ;;;###autoload forms, rewritten
  elnames repl -p foo-                 Experiment with rewriting interactively

How rewriting works:
  Every file is processed as one block in two passes.  The first pass
  collects the names the block defines (defvar, defun, defmacro, modes,
  aliases); the second pass rewrites definitions and references, leaving
  local bindings, external names, and quoted data alone.  A symbol written
  with the protection marker (default "::") is never rewritten.

Options (repeatable --option flags, see each command's help):
  let-vars            also qualify let-bound names known to the block
  external-globals    accept names already bound under the prefix (see --known)
  assume-var-quote    treat 'symbol as a variable reference
  no-fun-quote        leave #'symbol references alone
  verbose             trace rewriting decisions
  protection=MARK     change the protection marker

More information:
  Source code: https://github.com/elnames/elnames`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.elnames.yaml)")
	rootCmd.PersistentFlags().StringP("prefix", "p", "", "namespace prefix to apply, e.g. foo-")
	rootCmd.PersistentFlags().StringArrayP("option", "O", nil, "rewriting option (repeatable)")
	rootCmd.PersistentFlags().String("trace", "off", `span tracing backend: "off", "otel", or "opencensus"`)

	for _, name := range []string{"prefix", "option", "trace"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".elnames" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".elnames")
	}

	viper.SetEnvPrefix("elnames")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
