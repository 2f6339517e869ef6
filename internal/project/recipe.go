package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"rewrite/internal/match"
)

// Recipe is a declarative list of edits read from a TOML file:
//
//	deps  = ["lib/A.java"]
//	index = "deps.idx"
//
//	[[reorder]]
//	pattern = "a.A foo(..)"
//	order = ["n", "m", "s"]
//
//	[[literal]]
//	pattern = "a.A foo(String, ..)"
//	arg = 0
//	set = "anotherstring"
type Recipe struct {
	// Path is the file the recipe was read from; empty for in-memory recipes.
	Path    string        `toml:"-"`
	Deps    []string      `toml:"deps"`
	Index   string        `toml:"index"`
	Reorder []ReorderRule `toml:"reorder"`
	Literal []LiteralRule `toml:"literal"`
}

// ReorderRule reorders the arguments of every matching call site.
type ReorderRule struct {
	Pattern       string   `toml:"pattern"`
	Order         []string `toml:"order"`
	OriginalNames []string `toml:"original_names"`

	matcher *match.Pattern
}

// Matcher returns the compiled pattern.
func (r *ReorderRule) Matcher() *match.Pattern { return r.matcher }

var (
	// ErrUnknownKey reports keys the recipe schema does not know.
	ErrUnknownKey = errors.New("unknown recipe key")
	// ErrEmptyRecipe is a recipe with no rules.
	ErrEmptyRecipe = errors.New("recipe has no rules")
)

// RuleError points at the offending rule of a recipe.
type RuleError struct {
	Path    string
	Section string
	Index   int
	Err     error
}

func (e *RuleError) Error() string {
	where := e.Path
	if where == "" {
		where = "recipe"
	}
	return fmt.Sprintf("%s: [[%s]] #%d: %v", where, e.Section, e.Index+1, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// LoadRecipe reads and validates a recipe file.
func LoadRecipe(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}
	r, err := parseRecipe(path, string(data))
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ParseRecipe validates an in-memory recipe.
func ParseRecipe(data string) (*Recipe, error) {
	return parseRecipe("", data)
}

func parseRecipe(path, data string) (*Recipe, error) {
	r := &Recipe{Path: path}
	meta, err := toml.Decode(data, r)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", displayPath(path), err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		slices.Sort(keys)
		return nil, fmt.Errorf("%s: %w: %s", displayPath(path), ErrUnknownKey, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("reorder") && !meta.IsDefined("literal") {
		return nil, fmt.Errorf("%s: %w", displayPath(path), ErrEmptyRecipe)
	}
	for i := range r.Reorder {
		if err := r.Reorder[i].compile(); err != nil {
			return nil, &RuleError{Path: path, Section: "reorder", Index: i, Err: err}
		}
	}
	for i := range r.Literal {
		if err := r.Literal[i].compile(); err != nil {
			return nil, &RuleError{Path: path, Section: "literal", Index: i, Err: err}
		}
	}
	return r, nil
}

func (r *ReorderRule) compile() error {
	p, err := compilePattern(r.Pattern)
	if err != nil {
		return err
	}
	if len(r.Order) == 0 {
		return errors.New("order must list at least one parameter")
	}
	r.matcher = p
	return nil
}

func compilePattern(src string) (*match.Pattern, error) {
	if strings.TrimSpace(src) == "" {
		return nil, errors.New("pattern is required")
	}
	return match.Compile(src)
}

// Resolve interprets p relative to the recipe's directory.
func (r *Recipe) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || r.Path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(r.Path), p)
}

// DepPaths returns the dependency sources resolved against the recipe.
func (r *Recipe) DepPaths() []string {
	out := make([]string, 0, len(r.Deps))
	for _, d := range r.Deps {
		out = append(out, r.Resolve(d))
	}
	return out
}

// Rules returns the total number of rules.
func (r *Recipe) Rules() int { return len(r.Reorder) + len(r.Literal) }

func displayPath(path string) string {
	if path == "" {
		return "recipe"
	}
	return path
}
