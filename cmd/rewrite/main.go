package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"rewrite/internal/observ"
	"rewrite/internal/prof"
	"rewrite/internal/version"
)

// errReported means the command already printed its diagnostics.
var errReported = errors.New("failed with diagnostics")

// cli holds the persistent flags and the state built from them.
type cli struct {
	colorMode string
	verbose   bool
	timings   bool
	jobs      int
	maxDiags  uint

	profile prof.Options

	color    bool
	log      *zap.Logger
	timer    *observ.Timer
	profiler *prof.Profiler
}

// newRootCmd builds the command tree. The caller must call teardown on the
// returned cli once Execute returns, whatever the outcome.
func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{log: zap.NewNop()}
	root := &cobra.Command{
		Use:           "rewrite",
		Short:         "Lossless Java call-site rewriting",
		Long:          `rewrite applies argument reorders and literal changes to Java call sites, keeping every untouched byte of the source`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.StringVar(&c.colorMode, "color", "auto", "colorize output (auto|on|off)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&c.timings, "timings", false, "show timing information")
	pf.IntVar(&c.jobs, "jobs", 0, "max parallel rewrites (0=auto)")
	pf.UintVar(&c.maxDiags, "max-diagnostics", 100, "maximum number of diagnostics to collect")
	pf.StringVar(&c.profile.CPU, "cpu-profile", "", "write CPU profile to file")
	pf.StringVar(&c.profile.Mem, "mem-profile", "", "write heap profile to file")
	pf.StringVar(&c.profile.Trace, "runtime-trace", "", "write runtime trace to file")

	root.AddCommand(newApplyCmd(c))
	root.AddCommand(newFindCmd(c))
	root.AddCommand(newIndexCmd(c))
	root.AddCommand(newVersionCmd())
	return root, c
}

func (c *cli) setup(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	switch strings.ToLower(c.colorMode) {
	case "auto":
		c.color = isTerminal(out)
	case "on":
		c.color = true
	case "off":
		c.color = false
	default:
		return fmt.Errorf("unsupported color mode %q (must be auto, on or off)", c.colorMode)
	}
	color.NoColor = !c.color

	c.log = newLogger(cmd.ErrOrStderr(), c.verbose)
	if c.timings {
		c.timer = observ.NewTimer()
	}
	p, err := prof.Start(c.profile)
	if err != nil {
		return err
	}
	c.profiler = p
	return nil
}

func (c *cli) teardown(errOut io.Writer) {
	if err := c.profiler.Stop(); err != nil {
		c.log.Warn("profiling output incomplete", zap.Error(err))
	}
	if c.timer != nil {
		printTimings(errOut, c.timer)
	}
	_ = c.log.Sync()
}

// newLogger follows the production config: JSON on pipes, console lines on
// a terminal. Warnings and up unless verbose.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	config := zap.NewProductionConfig()
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)

	var enc zapcore.Encoder
	if isTerminal(w) {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	} else {
		enc = zapcore.NewJSONEncoder(config.EncoderConfig)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), config.Level)
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(w)))
}

// main runs the root command with a context cancelled on interrupt.
// Any error exits with status 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root, c := newRootCmd()
	err := root.ExecuteContext(ctx)
	c.teardown(os.Stderr)
	if err == nil {
		return
	}
	if !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	stop()
	os.Exit(1)
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
