package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"rewrite/internal/ast"
	"rewrite/internal/diag"
	"rewrite/internal/observ"
	"rewrite/internal/parser"
	"rewrite/internal/project"
	"rewrite/internal/source"
	"rewrite/internal/types"
)

// Options configures a batch.
type Options struct {
	// Jobs caps parallel rewrites; 0 means GOMAXPROCS.
	Jobs int
	// Deps are dependency sources, used for declarations only.
	Deps []string
	// IndexPath is an optional msgpack dependency index.
	IndexPath string
	// Cache keeps dependency declarations between runs; nil disables it.
	Cache     *DiskCache
	MaxErrors uint
	Logger    *zap.Logger
	// Timer receives phase timings; nil disables them.
	Timer *observ.Timer
	// Progress receives per-file events; nil disables them.
	Progress ProgressSink
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) jobs() int {
	if o.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Jobs
}

func (o Options) begin(name string) int {
	if o.Timer == nil {
		return -1
	}
	return o.Timer.Begin(name)
}

func (o Options) end(idx int, note string) {
	if o.Timer != nil {
		o.Timer.End(idx, note)
	}
}

// Batch is a set of parsed primary files sharing one catalog.
type Batch struct {
	Files       *source.FileSet
	Units       []*ast.Unit
	Diagnostics *diag.Bag
}

// Load reads and parses paths against the configured dependencies. On
// syntax errors the returned error is a *parser.Error and the batch holds
// the diagnostics.
func Load(ctx context.Context, paths []string, opts Options) (*Batch, error) {
	log := opts.logger()
	fs := source.NewFileSet()
	b := &Batch{Files: fs, Diagnostics: diag.NewBag(0)}

	ph := opts.begin("load")
	primary, err := loadFiles(fs, paths, 0)
	if err != nil {
		return b, err
	}
	depIDs, err := loadFiles(fs, opts.Deps, source.FileDependency)
	if err != nil {
		return b, err
	}
	opts.end(ph, fmt.Sprintf("%d files", len(paths)+len(opts.Deps)))
	if err := ctx.Err(); err != nil {
		return b, err
	}

	ph = opts.begin("deps")
	index, err := dependencyIndex(fs, depIDs, opts)
	if err != nil {
		var perr *parser.Error
		if errors.As(err, &perr) {
			b.Diagnostics = perr.Bag
		}
		return b, err
	}
	opts.end(ph, fmt.Sprintf("%d classes", len(index)))
	if err := ctx.Err(); err != nil {
		return b, err
	}

	ph = opts.begin("parse")
	opts.emit(Event{Stage: StageParse, Status: StatusWorking})
	p := parser.New(fs, parser.Options{MaxErrors: opts.MaxErrors, Index: index, Logger: log})
	units, err := p.ParseFiles(primary, nil)
	b.Diagnostics = p.Diagnostics()
	opts.end(ph, fmt.Sprintf("%d units", len(units)))
	if err != nil {
		return b, err
	}
	b.Units = units
	log.Info("batch loaded", zap.Int("files", len(units)), zap.Int("deps", len(depIDs)), zap.Int("classes", len(index)))
	logTimings(log, "load", opts.Timer)
	return b, nil
}

func loadFiles(fs *source.FileSet, paths []string, flags source.FileFlags) ([]source.FileID, error) {
	ids := make([]source.FileID, 0, len(paths))
	for _, path := range paths {
		id, err := fs.Load(path, flags)
		if err != nil {
			return nil, fmt.Errorf("failed to load file: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// dependencyIndex combines the declarations of dependency sources with the
// index file. Sources come first so they shadow stale index entries.
func dependencyIndex(fs *source.FileSet, depIDs []source.FileID, opts Options) ([]*types.ClassInfo, error) {
	log := opts.logger()
	var fromIndex []*types.ClassInfo
	var indexSum project.Digest
	if opts.IndexPath != "" {
		data, err := os.ReadFile(opts.IndexPath)
		if err == nil {
			fromIndex, err = decodeClasses(data)
		}
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", opts.IndexPath, err)
		}
		indexSum = project.Sum(data)
	}
	if len(depIDs) == 0 {
		return fromIndex, nil
	}

	files := make([]*source.File, 0, len(depIDs))
	for _, id := range depIDs {
		files = append(files, fs.Get(id))
	}
	key, paths, hashes := depsKey(files)
	// разрешение имён зависит и от индекса
	key = project.Combine(key, indexSum)

	var cached DiskPayload
	hit, err := opts.Cache.Get(key, &cached)
	if err != nil {
		log.Warn("dependency cache unreadable", zap.Error(err))
	}
	if hit {
		classes, err := decodeClasses(cached.Index)
		if err == nil {
			log.Debug("dependency cache hit", zap.Int("classes", len(classes)))
			return append(classes, fromIndex...), nil
		}
		log.Warn("dependency cache entry corrupt", zap.Error(err))
	}

	p := parser.New(fs, parser.Options{MaxErrors: opts.MaxErrors, Index: fromIndex, Logger: log})
	classes, err := p.Declarations(depIDs)
	if err != nil {
		return nil, err
	}
	if opts.Cache != nil {
		data, err := encodeClasses(classes)
		if err == nil {
			err = opts.Cache.Put(key, &DiskPayload{Paths: paths, Hashes: hashes, Index: data})
		}
		if err != nil {
			log.Warn("dependency cache not updated", zap.Error(err))
		}
	}
	return append(classes, fromIndex...), nil
}

// BuildIndex writes the declarations of deps to out.
func BuildIndex(deps []string, out string, strip bool, opts Options) (int, error) {
	fs := source.NewFileSet()
	ids, err := loadFiles(fs, deps, source.FileDependency)
	if err != nil {
		return 0, err
	}
	p := parser.New(fs, parser.Options{MaxErrors: opts.MaxErrors, Logger: opts.logger()})
	classes, err := p.Declarations(ids)
	if err != nil {
		return 0, err
	}
	if err := types.SaveIndex(out, classes, types.IndexOptions{StripNames: strip}); err != nil {
		return 0, fmt.Errorf("write index: %w", err)
	}
	return len(classes), nil
}

// WriteChanged writes every rewritten result back to its file and returns
// the paths written. Unchanged and failed files are left alone.
func WriteChanged(results []FileResult, opts Options) ([]string, error) {
	var written []string
	for i := range results {
		r := &results[i]
		if !r.Changed() {
			continue
		}
		start := time.Now()
		opts.emit(Event{File: r.Path, Stage: StageWrite, Status: StatusWorking})
		err := WriteResult(r.Path, r.Output)
		opts.emit(outcome(r.Path, StageWrite, err, start))
		if err != nil {
			return written, err
		}
		written = append(written, r.Path)
	}
	return written, nil
}

// WriteResult replaces path with text, keeping its permissions.
func WriteResult(path, text string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, []byte(text), mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
