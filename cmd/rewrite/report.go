package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rewrite/internal/diag"
	"rewrite/internal/diagfmt"
	"rewrite/internal/driver"
	"rewrite/internal/parser"
	"rewrite/internal/source"
)

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in JSON output")
}

// printDiagnostics renders bag in the format selected on cmd.
func (c *cli) printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	base, _ := os.Getwd()

	bag.Sort()
	switch strings.ToLower(format) {
	case "pretty":
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{
			Color:     c.color,
			Context:   0,
			PathMode:  diagfmt.PathModeAuto,
			BaseDir:   base,
			ShowNotes: true,
		})
		return nil
	case "json":
		return diagfmt.JSON(cmd.OutOrStdout(), bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeAuto,
			BaseDir:          base,
			IncludeNotes:     withNotes,
		})
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

// loadFailure prints the diagnostics behind a parse failure. Other errors
// are returned unchanged.
func (c *cli) loadFailure(cmd *cobra.Command, b *driver.Batch, err error) error {
	var perr *parser.Error
	if !errors.As(err, &perr) {
		return err
	}
	fs := perr.Files
	if fs == nil && b != nil {
		fs = b.Files
	}
	if fs == nil {
		return err
	}
	if printErr := c.printDiagnostics(cmd, perr.Bag, fs); printErr != nil {
		return printErr
	}
	return errReported
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
