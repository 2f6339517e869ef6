package parser

import (
	"fmt"

	"go.uber.org/zap"

	"rewrite/internal/ast"
	"rewrite/internal/diag"
	"rewrite/internal/lexer"
	"rewrite/internal/source"
	"rewrite/internal/token"
	"rewrite/internal/types"
)

type Options struct {
	// MaxErrors caps reported syntax errors per batch; 0 means no cap.
	MaxErrors uint
	// Reporter receives diagnostics in addition to the internal bag.
	Reporter diag.Reporter
	// Index adds pre-built dependency declarations (e.g. loaded from a
	// msgpack index) to the catalog.
	Index []*types.ClassInfo
	// Logger receives debug traces; nil means zap.NewNop().
	Logger *zap.Logger
}

// Error is returned when parsing produced error diagnostics.
type Error struct {
	Bag   *diag.Bag
	Files *source.FileSet
}

func (e *Error) Error() string {
	var first diag.Diagnostic
	count := 0
	for _, d := range e.Bag.Items() {
		if d.Severity < diag.SevError {
			continue
		}
		if count == 0 {
			first = d
		}
		count++
	}
	where := first.Primary.String()
	if e.Files != nil {
		if f := e.Files.Get(first.Primary.File); f != nil {
			start, _ := e.Files.Resolve(first.Primary)
			where = fmt.Sprintf("%s:%d:%d", f.Path, start.Line, start.Col)
		}
	}
	return fmt.Sprintf("%d syntax error(s); first at %s: [%s] %s", count, where, first.Code.ID(), first.Message)
}

// Parser is the front-end for one batch of files sharing a single catalog.
type Parser struct {
	fs   *source.FileSet
	opts Options
	bag  *diag.Bag
	log  *zap.Logger
}

// New creates a Parser reading files from fs.
func New(fs *source.FileSet, opts Options) *Parser {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{
		fs:   fs,
		opts: opts,
		bag:  diag.NewBag(int(opts.MaxErrors)), //nolint:gosec // small configuration value
		log:  log,
	}
}

// Diagnostics returns every diagnostic reported so far, sorted.
func (p *Parser) Diagnostics() *diag.Bag {
	p.bag.Sort()
	return p.bag
}

// ParseFiles parses primary and dependency files, builds one catalog from
// all of their declarations plus Options.Index, and attributes the primary
// files against it. Only primary files yield units.
func (p *Parser) ParseFiles(primary, deps []source.FileID) ([]*ast.Unit, error) {
	rep := p.reporter()

	all := make([]*fileSyntax, 0, len(primary)+len(deps))
	for _, id := range append(append([]source.FileID(nil), primary...), deps...) {
		f := p.fs.Get(id)
		if f == nil {
			return nil, fmt.Errorf("parser: unknown file id %d", id)
		}
		syn := parseSyntax(f, rep, p.opts.MaxErrors)
		p.log.Debug("parsed file",
			zap.String("path", f.Path),
			zap.Int("nodes", syn.tree.Len()),
			zap.Int("classes", len(syn.classes)))
		all = append(all, syn)
	}
	if p.bag.HasErrors() {
		p.bag.Sort()
		return nil, &Error{Bag: p.bag, Files: p.fs}
	}

	cat, err := buildCatalog(all, p.opts.Index)
	if err != nil {
		return nil, err
	}
	p.log.Debug("catalog built", zap.Int("classes", cat.Len()))

	units := make([]*ast.Unit, 0, len(primary))
	for _, syn := range all[:len(primary)] {
		a := newAttributor(syn, cat, rep, p.log)
		a.run()
		units = append(units, syn.unit(cat))
	}
	if p.bag.HasErrors() {
		p.bag.Sort()
		return nil, &Error{Bag: p.bag, Files: p.fs}
	}
	return units, nil
}

// Declarations parses files for their class declarations only; method
// bodies are not attributed. The result is what an index of these files
// holds, already resolved against Options.Index.
func (p *Parser) Declarations(ids []source.FileID) ([]*types.ClassInfo, error) {
	rep := p.reporter()
	all := make([]*fileSyntax, 0, len(ids))
	for _, id := range ids {
		f := p.fs.Get(id)
		if f == nil {
			return nil, fmt.Errorf("parser: unknown file id %d", id)
		}
		all = append(all, parseSyntax(f, rep, p.opts.MaxErrors))
	}
	if p.bag.HasErrors() {
		p.bag.Sort()
		return nil, &Error{Bag: p.bag, Files: p.fs}
	}
	cat, err := buildCatalog(all, p.opts.Index)
	if err != nil {
		return nil, err
	}
	out := make([]*types.ClassInfo, 0, cat.Len())
	for _, ci := range cat.Classes() {
		if ci.Origin == types.OriginSource {
			out = append(out, ci)
		}
	}
	p.log.Debug("declarations collected", zap.Int("files", len(ids)), zap.Int("classes", len(out)))
	return out, nil
}

func (p *Parser) reporter() diag.Reporter {
	bagRep := diag.BagReporter{Bag: p.bag}
	if p.opts.Reporter == nil {
		return bagRep
	}
	return teeReporter{bagRep, p.opts.Reporter}
}

type teeReporter []diag.Reporter

func (t teeReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	for _, r := range t {
		r.Report(code, sev, primary, msg, notes)
	}
}

// Parse is the Parser capability in its simplest form: one primary source
// text attributed against auxiliary source texts.
func Parse(primary string, aux ...string) (*ast.Unit, error) {
	return ParseWith(Options{}, primary, aux...)
}

// ParseWith is Parse with explicit options.
func ParseWith(opts Options, primary string, aux ...string) (*ast.Unit, error) {
	fs := source.NewFileSet()
	pid := fs.AddVirtual(virtualName(primary, "Primary"), []byte(primary))
	deps := make([]source.FileID, 0, len(aux))
	for i, src := range aux {
		deps = append(deps, fs.AddVirtual(virtualName(src, fmt.Sprintf("Aux%d", i)), []byte(src)))
	}
	units, err := New(fs, opts).ParseFiles([]source.FileID{pid}, deps)
	if err != nil {
		return nil, err
	}
	return units[0], nil
}

// virtualName derives "<Class>.java" from the first class declaration so
// diagnostics point at a recognisable file name.
func virtualName(src, fallback string) string {
	lx := lexer.New(&source.File{Content: []byte(src)}, lexer.Options{Reporter: diag.NopReporter{}})
	prevClass := false
	for _, tok := range lx.All() {
		if prevClass && tok.IsIdent() {
			return tok.Text + ".java"
		}
		prevClass = tok.Kind == token.KwClass || tok.Kind == token.KwInterface || tok.Kind == token.KwEnum
	}
	return fallback + ".java"
}
