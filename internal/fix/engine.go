package fix

import (
	"fmt"

	"go.uber.org/zap"

	"rewrite/internal/ast"
	"rewrite/internal/format"
)

// Session collects operations against one unit and folds them in queue
// order. A session is single-use and not safe for concurrent use.
type Session struct {
	unit  *ast.Unit
	ops   []Operation
	log   *zap.Logger
	fixed bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger routes session logging to l.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSession starts an empty session over u.
func NewSession(u *ast.Unit, opts ...Option) *Session {
	s := &Session{unit: u, log: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Add queues op after every operation queued so far.
func (s *Session) Add(op Operation) {
	s.log.Debug("queue operation", zap.Int("index", len(s.ops)), zap.Stringer("op", op))
	s.ops = append(s.ops, op)
}

// ReorderArguments queues a reorder and returns it for further setup.
func (s *Session) ReorderArguments(call ast.NodeID, names ...string) *Reorder {
	r := ReorderArguments(call, names...)
	s.Add(r)
	return r
}

// ChangeLiteral queues a literal change.
func (s *Session) ChangeLiteral(lit ast.NodeID, fn func(ast.Value) ast.Value) *LiteralChange {
	c := ChangeLiteral(lit, fn)
	s.Add(c)
	return c
}

// Len returns the number of queued operations.
func (s *Session) Len() int { return len(s.ops) }

// Fix validates every queued operation, applies them to a copy of the tree
// and renders the result. On any error no text is returned and the unit is
// left as it was.
func (s *Session) Fix() (string, error) {
	if s.fixed {
		return "", ErrAlreadyFixed
	}
	s.fixed = true

	for i, op := range s.ops {
		if err := op.validate(s.unit); err != nil {
			s.log.Debug("operation rejected", zap.Int("index", i), zap.Error(err))
			return "", &Error{Index: i, Op: op.String(), Node: op.Target(), Err: err}
		}
	}

	tree := s.unit.Tree.Clone()
	for i, op := range s.ops {
		if err := op.apply(tree); err != nil {
			s.log.Debug("operation failed", zap.Int("index", i), zap.Error(err))
			return "", &Error{Index: i, Op: op.String(), Node: op.Target(), Err: err}
		}
	}

	out, err := format.Render(tree, tree.Root)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", s.path(), err)
	}
	s.log.Debug("session fixed",
		zap.String("file", s.path()),
		zap.Int("operations", len(s.ops)),
		zap.Int("dirty", tree.DirtyCount()),
	)
	return out, nil
}

func (s *Session) path() string {
	if s.unit.File == nil {
		return "<unit>"
	}
	return s.unit.File.Path
}
