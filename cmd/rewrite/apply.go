package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rewrite/internal/diff"
	"rewrite/internal/driver"
	"rewrite/internal/project"
)

type applyOptions struct {
	recipe  string
	deps    []string
	index   string
	write   bool
	diff    bool
	noCache bool
	ui      string
}

func newApplyCmd(c *cli) *cobra.Command {
	var o applyOptions
	cmd := &cobra.Command{
		Use:   "apply [flags] <file.java>...",
		Short: "Apply a rewrite recipe to Java sources",
		Long: `Parse each file against its dependencies, apply the reorder and literal
rules of the recipe and print the rewritten text, a unified diff, or write the
files in place. Without --recipe the nearest rewrite.toml is used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runApply(cmd, o, args)
		},
	}
	cmd.Flags().StringVar(&o.recipe, "recipe", "", "recipe file (default: nearest "+project.RecipeFile+")")
	cmd.Flags().StringArrayVar(&o.deps, "dep", nil, "dependency source used for name resolution (repeatable)")
	cmd.Flags().StringVar(&o.index, "index", "", "msgpack declaration index")
	cmd.Flags().BoolVarP(&o.write, "write", "w", false, "write results to the source files")
	cmd.Flags().BoolVar(&o.diff, "diff", false, "print unified diffs instead of full text")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "do not use the dependency disk cache")
	cmd.Flags().StringVar(&o.ui, "ui", "auto", "progress view with --write (auto|on|off)")
	cmd.MarkFlagsMutuallyExclusive("write", "diff")
	addFormatFlag(cmd)
	return cmd
}

func (c *cli) runApply(cmd *cobra.Command, o applyOptions, files []string) error {
	mode, err := readUIMode(o.ui)
	if err != nil {
		return err
	}
	recipe, err := loadRecipe(o.recipe)
	if err != nil {
		return err
	}
	opts := c.driverOptions(recipe, o.deps, o.index)
	if !o.noCache {
		cache, err := driver.OpenDiskCache("rewrite")
		if err != nil {
			c.log.Warn("dependency cache disabled", zap.Error(err))
		} else {
			opts.Cache = cache
		}
	}
	ctx := cmd.Context()

	if o.write && shouldUseTUI(mode, cmd.ErrOrStderr()) {
		var b *driver.Batch
		var results []driver.FileResult
		err := runWithProgress(ctx, "rewrite", files, cmd.ErrOrStderr(), func(sink driver.ProgressSink) error {
			opts.Progress = sink
			var err error
			if b, results, err = applyBatch(ctx, files, recipe, opts); err != nil {
				return err
			}
			_, err = driver.WriteChanged(results, opts)
			return err
		})
		if err != nil {
			return c.loadFailure(cmd, b, err)
		}
		return c.reportFailures(cmd, b, results)
	}

	b, results, err := applyBatch(ctx, files, recipe, opts)
	if err != nil {
		return c.loadFailure(cmd, b, err)
	}
	if o.write {
		written, err := driver.WriteChanged(results, opts)
		for _, path := range written {
			fmt.Fprintf(cmd.ErrOrStderr(), "rewrote %s\n", path)
		}
		if err != nil {
			return err
		}
		return c.reportFailures(cmd, b, results)
	}

	out := cmd.OutOrStdout()
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			continue
		}
		if o.diff {
			text, err := diff.Unified(r.Path, r.Original, r.Output, diff.Options{Color: c.color})
			if err != nil {
				return fmt.Errorf("diff %s: %w", r.Path, err)
			}
			if err := writeString(out, text); err != nil {
				return err
			}
			continue
		}
		if len(results) > 1 {
			fmt.Fprintf(out, "// ==> %s <==\n", r.Path)
		}
		if err := writeString(out, r.Output); err != nil {
			return err
		}
	}
	return c.reportFailures(cmd, b, results)
}

// applyBatch loads files and runs the recipe over them.
func applyBatch(ctx context.Context, files []string, recipe *project.Recipe, opts driver.Options) (*driver.Batch, []driver.FileResult, error) {
	b, err := driver.Load(ctx, files, opts)
	if err != nil {
		return b, nil, err
	}
	results, err := driver.Apply(ctx, b, recipe, opts)
	return b, results, err
}

// reportFailures prints the diagnostics of failed files.
func (c *cli) reportFailures(cmd *cobra.Command, b *driver.Batch, results []driver.FileResult) error {
	bag := driver.Diagnostics(b, results)
	if bag.Len() == 0 {
		return nil
	}
	if err := c.printDiagnostics(cmd, bag, b.Files); err != nil {
		return err
	}
	return errReported
}

func loadRecipe(path string) (*project.Recipe, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		found, ok, err := project.FindRecipe(wd)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no %s found; pass --recipe", project.RecipeFile)
		}
		path = found
	}
	return project.LoadRecipe(path)
}

// driverOptions merges recipe-level dependencies with the command line.
// An --index flag replaces the recipe's index.
func (c *cli) driverOptions(r *project.Recipe, deps []string, index string) driver.Options {
	opts := driver.Options{
		Jobs:      c.jobs,
		MaxErrors: c.maxDiags,
		Logger:    c.log,
		Timer:     c.timer,
	}
	if r != nil {
		opts.Deps = append(opts.Deps, r.DepPaths()...)
		opts.IndexPath = r.Resolve(r.Index)
	}
	opts.Deps = append(opts.Deps, deps...)
	if index != "" {
		opts.IndexPath = index
	}
	return opts
}
