package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rewrite/internal/driver"
	"rewrite/internal/match"
)

func newFindCmd(c *cli) *cobra.Command {
	var (
		pattern string
		deps    []string
		index   string
	)
	cmd := &cobra.Command{
		Use:   "find [flags] <file.java>...",
		Short: "List call sites matching a method pattern",
		Example: `  rewrite find --pattern "a.A foo(String, ..)" --dep lib/A.java src/B.java
  rewrite find --pattern "a.* <init>(..)" src/*.java`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := match.Compile(pattern)
			if err != nil {
				return err
			}
			opts := c.driverOptions(nil, deps, index)
			b, err := driver.Load(cmd.Context(), args, opts)
			if err != nil {
				return c.loadFailure(cmd, b, err)
			}
			for _, m := range driver.Find(b, p) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d\t%s\n", m.Path, m.Line, m.Col, m.Signature)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "method pattern, e.g. \"a.A foo(String, ..)\"")
	cmd.Flags().StringArrayVar(&deps, "dep", nil, "dependency source used for name resolution (repeatable)")
	cmd.Flags().StringVar(&index, "index", "", "msgpack declaration index")
	_ = cmd.MarkFlagRequired("pattern")
	addFormatFlag(cmd)
	return cmd
}
