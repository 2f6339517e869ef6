package types

// Origin records where a declaration came from.
type Origin uint8

const (
	OriginSource Origin = iota // parsed from a primary or auxiliary source text
	OriginIndex                // loaded from a dependency index
)

// Field is a declared field of a class.
type Field struct {
	Name   string `msgpack:"name"`
	Type   Type   `msgpack:"type"`
	Static bool   `msgpack:"static,omitempty"`
}

// ClassInfo describes one declared class or interface.
type ClassInfo struct {
	FQN        string    `msgpack:"fqn"`
	Super      string    `msgpack:"super,omitempty"`
	Interfaces []string  `msgpack:"ifaces,omitempty"`
	Interface  bool      `msgpack:"iface,omitempty"`
	Fields     []Field   `msgpack:"fields,omitempty"`
	Methods    []*Method `msgpack:"methods,omitempty"`
	Origin     Origin    `msgpack:"-"`
}

// Name returns the simple class name.
func (c *ClassInfo) Name() string { return SimpleName(c.FQN) }

// Package returns the declaring package, "" for the default package.
func (c *ClassInfo) Package() string { return PackageOf(c.FQN) }

// Field looks up a declared field by name.
func (c *ClassInfo) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Type returns the reference type naming this class.
func (c *ClassInfo) Type() Type { return Class(c.FQN) }
