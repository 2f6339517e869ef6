package types

import (
	"fmt"
	"slices"
	"sort"
)

// Catalog is the read-only set of class declarations visible to one parse.
// It is never mutated after Build, so it may be shared across goroutines.
type Catalog struct {
	classes  map[string]*ClassInfo
	bySimple map[string][]string
	packages map[string]struct{}
	order    []string
}

// CatalogBuilder accumulates declarations until Build freezes them.
type CatalogBuilder struct {
	classes map[string]*ClassInfo
	order   []string
}

// DuplicateClassError is returned when two declarations share one FQN.
type DuplicateClassError struct {
	FQN string
}

func (e *DuplicateClassError) Error() string {
	return fmt.Sprintf("duplicate declaration of class %s", e.FQN)
}

func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{classes: make(map[string]*ClassInfo, 16)}
}

// Add registers a class. Unnamed parameters are given positional names here.
func (b *CatalogBuilder) Add(c *ClassInfo) error {
	if c == nil || c.FQN == "" {
		return fmt.Errorf("catalog: class without a name")
	}
	if _, dup := b.classes[c.FQN]; dup {
		return &DuplicateClassError{FQN: c.FQN}
	}
	// index entries may be shared between batches, so only missing fields are written
	for _, m := range c.Methods {
		if m.Owner != c.FQN {
			m.Owner = c.FQN
		}
		m.fillPlaceholderNames()
	}
	b.classes[c.FQN] = c
	b.order = append(b.order, c.FQN)
	return nil
}

// AddAll registers every class, stopping at the first error.
func (b *CatalogBuilder) AddAll(cs []*ClassInfo) error {
	for _, c := range cs {
		if err := b.Add(c); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether fqn was already added.
func (b *CatalogBuilder) Has(fqn string) bool {
	_, ok := b.classes[fqn]
	return ok
}

// Build freezes the builder into a Catalog. The builder must not be reused.
func (b *CatalogBuilder) Build() *Catalog {
	cat := &Catalog{
		classes:  b.classes,
		bySimple: make(map[string][]string, len(b.classes)),
		packages: make(map[string]struct{}, 4),
		order:    b.order,
	}
	for _, fqn := range b.order {
		s := SimpleName(fqn)
		cat.bySimple[s] = append(cat.bySimple[s], fqn)
		cat.packages[PackageOf(fqn)] = struct{}{}
	}
	b.classes = nil
	b.order = nil
	return cat
}

// Lookup returns the class declared under fqn.
func (c *Catalog) Lookup(fqn string) (*ClassInfo, bool) {
	if c == nil {
		return nil, false
	}
	ci, ok := c.classes[fqn]
	return ci, ok
}

// BySimpleName lists FQNs whose last segment is name, in registration order.
func (c *Catalog) BySimpleName(name string) []string {
	if c == nil {
		return nil
	}
	return c.bySimple[name]
}

// HasPackage reports whether any class lives in pkg.
func (c *Catalog) HasPackage(pkg string) bool {
	if c == nil {
		return false
	}
	_, ok := c.packages[pkg]
	return ok
}

// Len returns the number of classes.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Classes returns all classes sorted by FQN.
func (c *Catalog) Classes() []*ClassInfo {
	if c == nil {
		return nil
	}
	names := slices.Clone(c.order)
	sort.Strings(names)
	out := make([]*ClassInfo, 0, len(names))
	for _, n := range names {
		out = append(out, c.classes[n])
	}
	return out
}

// Methods collects methods named name declared on fqn or any of its
// catalogued supertypes. Overrides in subclasses hide the inherited
// declaration with the same parameter types.
func (c *Catalog) Methods(fqn, name string) []*Method {
	var out []*Method
	seen := make(map[string]struct{}, 4)
	c.walkSupers(fqn, func(ci *ClassInfo) {
		for _, m := range ci.Methods {
			if m.Name != name || m.Constructor {
				continue
			}
			key := erasedKey(m)
			if _, hidden := seen[key]; hidden {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, m)
		}
	})
	return out
}

// Constructors returns the declared constructors of fqn.
func (c *Catalog) Constructors(fqn string) []*Method {
	ci, ok := c.Lookup(fqn)
	if !ok {
		return nil
	}
	var out []*Method
	for _, m := range ci.Methods {
		if m.Constructor {
			out = append(out, m)
		}
	}
	return out
}

// FieldOf resolves a field on fqn or its supertypes.
func (c *Catalog) FieldOf(fqn, name string) (Field, bool) {
	var (
		found Field
		ok    bool
	)
	c.walkSupers(fqn, func(ci *ClassInfo) {
		if ok {
			return
		}
		found, ok = ci.Field(name)
	})
	return found, ok
}

// IsSubclass reports whether sub equals sup or reaches it via extends/implements.
// The java.lang hierarchy is known without being catalogued.
func (c *Catalog) IsSubclass(sub, sup string) bool {
	if sub == sup || sup == ObjectFQN {
		return true
	}
	found := false
	visited := make(map[string]struct{}, 8)
	var visit func(string)
	visit = func(n string) {
		if found {
			return
		}
		if _, done := visited[n]; done {
			return
		}
		visited[n] = struct{}{}
		if n == sup {
			found = true
			return
		}
		for _, s := range c.directSupers(n) {
			visit(s)
		}
	}
	visit(sub)
	return found
}

func (c *Catalog) directSupers(fqn string) []string {
	if ci, ok := c.Lookup(fqn); ok {
		out := make([]string, 0, 1+len(ci.Interfaces))
		if ci.Super != "" {
			out = append(out, ci.Super)
		}
		return append(out, ci.Interfaces...)
	}
	return superOf[fqn]
}

func (c *Catalog) walkSupers(fqn string, fn func(*ClassInfo)) {
	visited := make(map[string]struct{}, 4)
	queue := []string{fqn}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if _, done := visited[n]; done {
			continue
		}
		visited[n] = struct{}{}
		ci, ok := c.Lookup(n)
		if !ok {
			continue
		}
		fn(ci)
		queue = append(queue, c.directSupers(n)...)
	}
}

func erasedKey(m *Method) string {
	key := m.Name + "("
	for _, p := range m.Params {
		key += p.Type.String() + ","
	}
	return key + ")"
}
