package types

// phase mirrors the three applicability phases of Java overload resolution:
// strict (no boxing), loose (boxing), and variable-arity.
type phase uint8

const (
	phaseStrict phase = iota + 1
	phaseLoose
	phaseVariadic
)

// SelectOverload picks the declaration a call with the given argument types
// invokes. Phases are tried in order; within the first phase that has
// applicable candidates the most specific one wins. ambiguous is true when
// no single candidate is more specific than the others; m is then the first
// maximally specific candidate in declaration order.
func (c *Catalog) SelectOverload(candidates []*Method, args []Type) (m *Method, ambiguous bool) {
	for _, ph := range []phase{phaseStrict, phaseLoose, phaseVariadic} {
		var applicable []*Method
		for _, cand := range candidates {
			if c.applicable(cand, args, ph) {
				applicable = append(applicable, cand)
			}
		}
		switch len(applicable) {
		case 0:
			continue
		case 1:
			return applicable[0], false
		}
		return c.mostSpecific(applicable, len(args), ph)
	}
	return nil, false
}

func (c *Catalog) applicable(m *Method, args []Type, ph phase) bool {
	allow := func(conv Conversion) bool {
		switch conv {
		case ConvIdentity, ConvWidening:
			return true
		case ConvBoxing:
			return ph != phaseStrict
		default:
			return false
		}
	}
	if ph != phaseVariadic {
		if len(args) != len(m.Params) {
			return false
		}
		for i, a := range args {
			if !allow(c.Convert(a, m.Params[i].Type)) {
				return false
			}
		}
		return true
	}
	if !m.IsVariadic() || !m.AcceptsArity(len(args)) {
		return false
	}
	for i, a := range args {
		if !allow(c.Convert(a, expandedParam(m, i))) {
			return false
		}
	}
	return true
}

// expandedParam returns the type the i-th argument is checked against when
// the variadic parameter is spread over the trailing arguments.
func expandedParam(m *Method, i int) Type {
	last := len(m.Params) - 1
	if i < last {
		return m.Params[i].Type
	}
	p := m.Params[last]
	if p.Variadic && p.Type.IsArray() {
		return *p.Type.Elem
	}
	return p.Type
}

func (c *Catalog) mostSpecific(ms []*Method, arity int, ph phase) (*Method, bool) {
	moreSpecific := func(a, b *Method) bool {
		n := len(a.Params)
		if ph == phaseVariadic {
			n = max(arity, len(a.Params), len(b.Params))
		} else if len(b.Params) != n {
			return false
		}
		for i := 0; i < n; i++ {
			var ta, tb Type
			if ph == phaseVariadic {
				ta, tb = expandedParam(a, i), expandedParam(b, i)
			} else {
				ta, tb = a.Params[i].Type, b.Params[i].Type
			}
			if !c.Subtype(ta, tb) {
				return false
			}
		}
		return true
	}

	var maximal []*Method
	for _, a := range ms {
		best := true
		for _, b := range ms {
			if a != b && !moreSpecific(a, b) {
				best = false
				break
			}
		}
		if best {
			maximal = append(maximal, a)
		}
	}
	if len(maximal) == 1 {
		return maximal[0], false
	}
	if len(maximal) == 0 {
		return ms[0], true
	}
	return maximal[0], true
}
