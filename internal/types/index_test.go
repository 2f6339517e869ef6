package types_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"rewrite/internal/types"
)

func sampleClasses() []*types.ClassInfo {
	return []*types.ClassInfo{{
		FQN: "a.A",
		Methods: []*types.Method{{
			Name: "foo",
			Params: []types.Param{
				{Name: "s", Type: strT()},
				{Name: "n", Type: types.ArrayOf(intBT()), Variadic: true},
			},
			Return: types.Void,
		}},
		Fields: []types.Field{{Name: "x", Type: types.Primitive("int")}},
	}}
}

func TestIndex_StripNamesYieldsPlaceholders(t *testing.T) {
	classes := sampleClasses()
	var buf bytes.Buffer
	if err := types.WriteIndex(&buf, classes, types.IndexOptions{StripNames: true}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if classes[0].Methods[0].Params[0].Name != "s" {
		t.Fatalf("stripping must not touch the source declarations")
	}

	loaded, err := types.ReadIndex(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if loaded[0].Origin != types.OriginIndex {
		t.Errorf("expected OriginIndex")
	}
	cat := buildCatalog(t, loaded...)
	m := cat.Methods("a.A", "foo")[0]
	if got := m.ParamNames(); got[0] != "arg0" || got[1] != "arg1" {
		t.Errorf("ParamNames = %v", got)
	}
	if !m.IsVariadic() || m.Owner != "a.A" {
		t.Errorf("decoded method lost shape: %s", m.Signature())
	}
}

func TestIndex_SaveLoadKeepsNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deps.idx")
	if err := types.SaveIndex(path, sampleClasses(), types.IndexOptions{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := types.LoadIndex(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := loaded[0].Methods[0].ParamNames(); got[0] != "s" || got[1] != "n" {
		t.Errorf("ParamNames = %v", got)
	}
	if f, ok := loaded[0].Field("x"); !ok || f.Type.Name != "int" {
		t.Errorf("field lost: %+v", f)
	}
}

func TestIndex_SchemaMismatch(t *testing.T) {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&types.Index{Schema: 99}); err != nil {
		t.Fatal(err)
	}
	_, err := types.ReadIndex(&buf)
	if !errors.Is(err, types.ErrIndexSchema) {
		t.Fatalf("expected ErrIndexSchema, got %v", err)
	}
}
