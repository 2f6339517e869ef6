package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rewrite/internal/driver"
)

func newIndexCmd(c *cli) *cobra.Command {
	var (
		out   string
		strip bool
	)
	cmd := &cobra.Command{
		Use:   "index --out <file> [flags] <dep.java>...",
		Short: "Write a declaration index for dependency sources",
		Long: `Collect the class and method declarations of the given sources into a
msgpack index usable with --index. --strip-names drops parameter names, the way
declarations read from compiled classes lack them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := driver.BuildIndex(args, out, strip, c.driverOptions(nil, nil, ""))
			if err != nil {
				return c.loadFailure(cmd, nil, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "indexed %d classes into %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "index file to write")
	cmd.Flags().BoolVar(&strip, "strip-names", false, "omit parameter names")
	_ = cmd.MarkFlagRequired("out")
	addFormatFlag(cmd)
	return cmd
}
