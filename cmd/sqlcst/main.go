// Command sqlcst is a small CLI front end over the sqlcst package,
// following the cobra-based CLI layout used elsewhere in the pack (e.g.
// OPA's own cmd tree): a root command with a "parse" subcommand.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/endbase/sqlcst"
	"github.com/endbase/sqlcst/cstconfig"
	"github.com/endbase/sqlcst/internal/trace"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sqlcst",
		Short: "Parse SQL SELECT statements into a concrete syntax tree",
	}
	root.AddCommand(newParseCmd())
	return root
}

func newParseCmd() *cobra.Command {
	var verbose bool
	var jsonOut bool
	var limitsPath string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a SQL file (or stdin) and print its CST events",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limits := cstconfig.DefaultLimits()
			if limitsPath != "" {
				var err error
				limits, err = cstconfig.Load(limitsPath)
				if err != nil {
					return err
				}
			}

			filename := "<stdin>"
			var source []byte
			var err error
			if len(args) == 1 {
				filename = args[0]
				// Stat before reading so an oversized file is rejected
				// without pulling the whole thing into memory first.
				if info, statErr := os.Stat(filename); statErr == nil && limits.MaxInputBytes > 0 && info.Size() > int64(limits.MaxInputBytes) {
					return fmt.Errorf("sqlcst: %s is %d bytes, exceeding the %d byte limit", filename, info.Size(), limits.MaxInputBytes)
				}
				source, err = os.ReadFile(filename)
			} else {
				source, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return fmt.Errorf("sqlcst: reading input: %w", err)
			}

			var events sqlcst.Events
			if verbose {
				logger := logrus.New()
				logger.SetLevel(logrus.DebugLevel)
				tracer := trace.NewLogrusTracer(logger)
				events, err = sqlcst.ParseWithTracerAndLimits(filename, string(source), tracer, limits)
			} else {
				events, err = sqlcst.ParseWithLimits(filename, string(source), limits)
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
				return err
			}

			printEvents(cmd, events, jsonOut)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log rule entry/exit while parsing")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print events as JSON lines instead of an indented tree")
	cmd.Flags().StringVar(&limitsPath, "limits", "", "YAML file of resource limits (default: cstconfig.DefaultLimits)")
	return cmd
}

func printEvents(cmd *cobra.Command, events sqlcst.Events, jsonOut bool) {
	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		for _, e := range events {
			_ = enc.Encode(e)
		}
		return
	}

	depth := 0
	events.Visit(
		func(label string, start int) {
			fmt.Fprintf(out, "%s%s @%d\n", indent(depth), label, start)
			depth++
		},
		func() {
			depth--
		},
		func(e sqlcst.Event) {
			switch e.Kind {
			case sqlcst.KindLiteral:
				fmt.Fprintf(out, "%s%q\n", indent(depth), e.Bytes)
			case sqlcst.KindPattern:
				fmt.Fprintf(out, "%s%s\n", indent(depth), e.PatKind)
			}
		},
	)
}

func indent(depth int) string {
	b := make([]byte, depth*2)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
