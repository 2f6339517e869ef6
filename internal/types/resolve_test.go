package types_test

import (
	"testing"

	"rewrite/internal/types"
)

func TestConvert(t *testing.T) {
	cat := buildCatalog(t, &types.ClassInfo{FQN: "a.A"}, &types.ClassInfo{FQN: "a.B", Super: "a.A"})
	tests := []struct {
		name     string
		from, to types.Type
		want     types.Conversion
	}{
		{"identity", strT(), strT(), types.ConvIdentity},
		{"int->long", types.Primitive("int"), types.Primitive("long"), types.ConvWidening},
		{"long->int", types.Primitive("long"), types.Primitive("int"), types.ConvNone},
		{"int->Integer", types.Primitive("int"), intBT(), types.ConvBoxing},
		{"int->Object", types.Primitive("int"), objT(), types.ConvBoxing},
		{"int->Number", types.Primitive("int"), types.Class("java.lang.Number"), types.ConvBoxing},
		{"Integer->long", intBT(), types.Primitive("long"), types.ConvBoxing},
		{"int->String", types.Primitive("int"), strT(), types.ConvNone},
		{"null->String", types.Null, strT(), types.ConvWidening},
		{"null->int", types.Null, types.Primitive("int"), types.ConvNone},
		{"String->Object", strT(), objT(), types.ConvWidening},
		{"B->A", types.Class("a.B"), types.Class("a.A"), types.ConvWidening},
		{"A->B", types.Class("a.A"), types.Class("a.B"), types.ConvNone},
		{"String[]->Object[]", types.ArrayOf(strT()), types.ArrayOf(objT()), types.ConvWidening},
		{"int[]->Object", types.ArrayOf(types.Primitive("int")), objT(), types.ConvWidening},
		{"unknown->String", types.Invalid, strT(), types.ConvBoxing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cat.Convert(tt.from, tt.to); got != tt.want {
				t.Errorf("Convert(%s, %s) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestSelectOverload_SwappedParameterTypes(t *testing.T) {
	first := &types.Method{Name: "foo", Params: []types.Param{
		{Name: "s", Type: strT()}, {Name: "m", Type: intBT()}, {Name: "n", Type: intBT()},
	}}
	second := &types.Method{Name: "foo", Params: []types.Param{
		{Name: "n", Type: intBT()}, {Name: "m", Type: intBT()}, {Name: "s", Type: strT()},
	}}
	cat := buildCatalog(t, &types.ClassInfo{FQN: "a.A", Methods: []*types.Method{first, second}})
	cands := cat.Methods("a.A", "foo")

	got, amb := cat.SelectOverload(cands, []types.Type{strT(), types.Primitive("int"), types.Primitive("int")})
	if got != first || amb {
		t.Fatalf("expected first overload, got %v (ambiguous=%v)", got, amb)
	}
	got, _ = cat.SelectOverload(cands, []types.Type{types.Primitive("int"), types.Primitive("int"), strT()})
	if got != second {
		t.Fatalf("expected second overload, got %v", got)
	}
	if got, _ := cat.SelectOverload(cands, []types.Type{strT()}); got != nil {
		t.Fatalf("expected no overload for arity 1, got %v", got)
	}
}

func TestSelectOverload_PrefersFixedArity(t *testing.T) {
	fixed := &types.Method{Name: "foo", Params: []types.Param{{Name: "s", Type: strT()}}}
	vararg := &types.Method{Name: "foo", Params: []types.Param{
		{Name: "s", Type: strT()}, {Name: "o", Type: types.ArrayOf(objT()), Variadic: true},
	}}
	cat := buildCatalog(t, &types.ClassInfo{FQN: "a.A", Methods: []*types.Method{vararg, fixed}})
	cands := cat.Methods("a.A", "foo")

	if got, _ := cat.SelectOverload(cands, []types.Type{strT()}); got != fixed {
		t.Fatalf("expected fixed-arity overload, got %v", got)
	}
	got, _ := cat.SelectOverload(cands, []types.Type{strT(), strT(), types.Primitive("int")})
	if got != vararg {
		t.Fatalf("expected variadic overload, got %v", got)
	}
}

func TestSelectOverload_MostSpecific(t *testing.T) {
	general := &types.Method{Name: "bar", Params: []types.Param{{Name: "o", Type: objT()}}}
	specific := &types.Method{Name: "bar", Params: []types.Param{{Name: "s", Type: strT()}}}
	cat := buildCatalog(t, &types.ClassInfo{FQN: "a.A", Methods: []*types.Method{general, specific}})

	got, amb := cat.SelectOverload(cat.Methods("a.A", "bar"), []types.Type{strT()})
	if got != specific || amb {
		t.Fatalf("expected bar(String), got %v", got)
	}
}
