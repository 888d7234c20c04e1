// Copyright © 2026 The elnames authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/elnames/elnames/annotator"
	"github.com/elnames/elnames/namespace"
	"github.com/elnames/elnames/parser"
	"github.com/elnames/elnames/parser/parsecparser"
	"github.com/elnames/elnames/sexp"
)

// Flags shared by the rewriting subcommands, registered by addRewriteFlags.
var (
	parserFlag string
	knownFile  string
	outFile    string
)

func addRewriteFlags(flags *pflag.FlagSet) {
	flags.StringVar(&parserFlag, "parser", "rd",
		`parser implementation: "rd" (recursive descent) or "parsec"`)
	flags.StringVar(&knownFile, "known", "",
		"file listing globals already bound under the prefix (lines of `var NAME` / `fun NAME`)")
	flags.StringVarP(&outFile, "output", "o", "",
		"write rewritten forms to a file instead of stdout")
}

// newEngine builds a rewriting engine from the persistent flags and config.
func newEngine(ctx context.Context) (*namespace.Engine, error) {
	prefix := viper.GetString("prefix")
	if prefix == "" {
		return nil, fmt.Errorf("a namespace prefix is required (-p)")
	}
	eng, err := namespace.New(prefix, viper.GetStringSlice("option")...)
	if err != nil {
		return nil, err
	}
	if knownFile != "" {
		f, err := os.Open(knownFile)
		if err != nil {
			return nil, err
		}
		defer f.Close() //nolint:errcheck // read-only file
		globals, err := namespace.ReadGlobals(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", knownFile, err)
		}
		eng.SetGlobals(globals)
	}
	switch trace := viper.GetString("trace"); trace {
	case "", "off":
	case "otel":
		eng.SetAnnotator(annotator.NewOpenTelemetry(ctx, prefix))
	case "opencensus":
		eng.SetAnnotator(annotator.NewOpenCensus(ctx, prefix))
	default:
		return nil, fmt.Errorf("unknown trace backend: %q", trace)
	}
	return eng, nil
}

// parseFile reads all forms from path using the selected parser.  The path
// "-" reads standard input.
func parseFile(path string) ([]*sexp.Node, error) {
	var r io.Reader = os.Stdin
	name := "stdin"
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close() //nolint:errcheck // read-only file
		r = f
		name = path
	}
	switch parserFlag {
	case "", "rd":
		return parser.Parse(name, r)
	case "parsec":
		return parsecparser.Parse(name, r)
	default:
		return nil, fmt.Errorf("unknown parser: %q", parserFlag)
	}
}

// openOutput returns the destination for rewritten forms and a cleanup.
func openOutput() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
