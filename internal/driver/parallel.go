package driver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rewrite/internal/ast"
	"rewrite/internal/fix"
	"rewrite/internal/match"
	"rewrite/internal/project"
	"rewrite/internal/source"
)

// FileResult содержит результат переписывания одного файла
type FileResult struct {
	Path     string
	Original string
	Output   string // равен Original, если ни одно правило не сработало
	Ops      int    // число поставленных операций
	Err      error
}

// Changed reports whether the file was rewritten to different text.
func (r *FileResult) Changed() bool { return r.Err == nil && r.Output != r.Original }

// Apply runs the recipe over every unit of the batch in parallel. Per-file
// failures are recorded in the results; the returned error is only set when
// ctx is cancelled.
func Apply(ctx context.Context, b *Batch, r *project.Recipe, opts Options) ([]FileResult, error) {
	log := opts.logger()
	if len(b.Units) == 0 {
		return nil, nil
	}
	ph := opts.begin("rewrite")

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(b.Units))

	for _, u := range b.Units {
		opts.emit(Event{File: unitPath(u), Stage: StageRewrite, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.jobs(), len(b.Units)))
	for i, u := range b.Units {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			path := unitPath(u)
			start := time.Now()
			opts.emit(Event{File: path, Stage: StageRewrite, Status: StatusWorking})
			results[i] = rewriteUnit(u, r, log)
			opts.emit(outcome(path, StageRewrite, results[i].Err, start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	changed, failed := 0, 0
	for i := range results {
		switch {
		case results[i].Err != nil:
			failed++
		case results[i].Changed():
			changed++
		}
	}
	opts.end(ph, fmt.Sprintf("%d changed", changed))
	log.Info("recipe applied",
		zap.Int("files", len(results)),
		zap.Int("changed", changed),
		zap.Int("failed", failed))
	logTimings(log, "apply", opts.Timer)
	return results, nil
}

func rewriteUnit(u *ast.Unit, r *project.Recipe, log *zap.Logger) FileResult {
	res := FileResult{Path: unitPath(u), Original: u.Source()}
	res.Output = res.Original

	s := fix.NewSession(u, fix.WithLogger(log.With(zap.String("file", res.Path))))
	n, err := Bind(s, u, r)
	res.Ops = n
	if err != nil {
		res.Err = err
		return res
	}
	if n == 0 {
		return res
	}
	out, err := s.Fix()
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", res.Path, err)
		return res
	}
	res.Output = out
	return res
}

// Bind queues the operations a recipe asks for on u and returns how many
// were queued. Literal rules go first, so their argument positions refer to
// the call as written and later reorders carry the new values along.
func Bind(s *fix.Session, u *ast.Unit, r *project.Recipe) (int, error) {
	queued := 0
	for i := range r.Literal {
		rule := &r.Literal[i]
		for call := range match.Find(u, rule.Matcher()) {
			lit, ok := literalArg(u.Tree, call, rule.Arg)
			if !ok {
				continue
			}
			fn, err := rule.Transform(u.Tree.Literal(lit).Tag)
			if err != nil {
				return queued, fmt.Errorf("%s: %w", position(u, call), &BindError{Section: "literal", Rule: i + 1, Node: call, Err: err})
			}
			s.ChangeLiteral(lit, fn)
			queued++
		}
	}
	for i := range r.Reorder {
		rule := &r.Reorder[i]
		for call := range match.Find(u, rule.Matcher()) {
			op := s.ReorderArguments(call, rule.Order...)
			if len(rule.OriginalNames) > 0 {
				op.WithOriginalNames(rule.OriginalNames...)
			}
			queued++
		}
	}
	return queued, nil
}

// literalArg returns argument i of a call site when it is a plain literal.
func literalArg(t *ast.Tree, call ast.NodeID, i int) (ast.NodeID, bool) {
	var args ast.NodeID
	if inv := t.Invocation(call); inv != nil {
		args = inv.Args
	} else if nc := t.NewClass(call); nc != nil {
		args = nc.Args
	}
	n := t.Node(args)
	if n == nil || i >= len(n.Children) {
		return ast.NoNodeID, false
	}
	arg := n.Children[i]
	if t.Node(arg).Kind != ast.KindLiteral {
		return ast.NoNodeID, false
	}
	return arg, true
}

// Match is one call site found by Find.
type Match struct {
	Path      string
	Line, Col uint32
	Signature string
	Node      ast.NodeID
}

// Find lists the call sites of every unit that match p, in file order.
func Find(b *Batch, p *match.Pattern) []Match {
	var out []Match
	for _, u := range b.Units {
		for id := range match.Find(u, p) {
			lc := lineCol(u, id)
			out = append(out, Match{
				Path:      unitPath(u),
				Line:      lc.Line,
				Col:       lc.Col,
				Signature: match.Resolved(u.Tree, id).Signature(),
				Node:      id,
			})
		}
	}
	return out
}

func unitPath(u *ast.Unit) string {
	if u.File == nil {
		return "<unit>"
	}
	return u.File.Path
}

// lineCol locates a call site by its method name, or by the node start for
// instance creations.
func lineCol(u *ast.Unit, id ast.NodeID) source.LineCol {
	span := u.Tree.Node(id).Span
	if inv := u.Tree.Invocation(id); inv != nil && inv.NameSpan.IsValid() {
		span = inv.NameSpan
	}
	return u.File.LineCol(span.Start)
}

func position(u *ast.Unit, id ast.NodeID) string {
	lc := lineCol(u, id)
	return fmt.Sprintf("%s:%d:%d", unitPath(u), lc.Line, lc.Col)
}
