package types

// Conversion classifies how an argument value reaches a parameter type.
// Lower non-zero values are preferred during overload selection.
type Conversion uint8

const (
	ConvNone     Conversion = iota // not convertible
	ConvIdentity                   // same type
	ConvWidening                   // primitive or reference widening
	ConvBoxing                     // boxing or unboxing, possibly followed by widening
)

var primitiveWidening = map[string][]string{
	"byte":  {"short", "int", "long", "float", "double"},
	"short": {"int", "long", "float", "double"},
	"char":  {"int", "long", "float", "double"},
	"int":   {"long", "float", "double"},
	"long":  {"float", "double"},
	"float": {"double"},
}

func widensTo(from, to string) bool {
	for _, w := range primitiveWidening[from] {
		if w == to {
			return true
		}
	}
	return false
}

// Convert reports the cheapest conversion from an argument of type from to
// a parameter of type to. An argument whose type is unknown converts to
// anything at boxing cost, so it never beats a precisely typed match.
func (c *Catalog) Convert(from, to Type) Conversion {
	if !from.IsValid() {
		return ConvBoxing
	}
	if from.Equal(to) {
		return ConvIdentity
	}
	switch {
	case from.Kind == KindNull:
		if to.IsReference() {
			return ConvWidening
		}
		return ConvNone

	case from.IsPrimitive() && to.IsPrimitive():
		if widensTo(from.Name, to.Name) {
			return ConvWidening
		}
		return ConvNone

	case from.IsPrimitive() && to.Kind == KindClass:
		box, ok := Box(from.Name)
		if ok && c.IsSubclass(box, to.Name) {
			return ConvBoxing
		}
		return ConvNone

	case from.Kind == KindClass && to.IsPrimitive():
		prim, ok := Unbox(from.Name)
		if ok && (prim == to.Name || widensTo(prim, to.Name)) {
			return ConvBoxing
		}
		return ConvNone

	case from.Kind == KindClass && to.Kind == KindClass:
		if c.IsSubclass(from.Name, to.Name) {
			return ConvWidening
		}
		return ConvNone

	case from.IsArray() && to.Kind == KindClass:
		if to.Name == ObjectFQN {
			return ConvWidening
		}
		return ConvNone

	case from.IsArray() && to.IsArray():
		fe, te := *from.Elem, *to.Elem
		if fe.IsPrimitive() || te.IsPrimitive() {
			if fe.Equal(te) {
				return ConvIdentity
			}
			return ConvNone
		}
		if conv := c.Convert(fe, te); conv == ConvIdentity || conv == ConvWidening {
			return ConvWidening
		}
		return ConvNone
	}
	return ConvNone
}

// Assignable reports whether from converts to to in any way.
func (c *Catalog) Assignable(from, to Type) bool {
	return c.Convert(from, to) != ConvNone
}

// Subtype reports strict-phase convertibility: identity or widening only.
func (c *Catalog) Subtype(from, to Type) bool {
	conv := c.Convert(from, to)
	return conv == ConvIdentity || conv == ConvWidening
}
