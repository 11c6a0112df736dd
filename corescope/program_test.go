package corescope

import (
	"bytes"
	"testing"

	"github.com/corescope/core/coreerr"
	"github.com/corescope/core/coreimage"
	"github.com/corescope/core/ctype"
)

func seedProgram(t *testing.T) *Program {
	t.Helper()
	data := []byte{
		0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00,
		'h', 'e', 'l', 'l', 'o', 0x00, 0x00, 0x00,
	}
	r := coreimage.NewReader(bytes.NewReader(data), []coreimage.Segment{
		{VirtualStart: 0xffff0000, Length: uint64(len(data))},
	})
	cat := ctype.NewStandardCatalogue(8, 8)
	return NewProgram(r, cat)
}

func TestProgramObjectConstruction(t *testing.T) {
	p := seedProgram(t)
	intT := p.Catalogue().MustFind("int")

	addr := uint64(0xffff0000)
	ref, err := p.Object(intT, &addr, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, err := ref.Value()
	if err != nil || v.(int64) != 1 {
		t.Fatalf("ref.Value() = %v, %v, want 1, nil", v, err)
	}

	val, err := p.Object(intT, nil, int64(42))
	if err != nil {
		t.Fatal(err)
	}
	vv, _ := val.Value()
	if vv.(int64) != 42 {
		t.Fatalf("val.Value() = %v, want 42", vv)
	}

	if _, err := p.Object(intT, &addr, int64(1)); !coreerr.Is(err, coreerr.InvalidConstruction) {
		t.Fatalf("expected InvalidConstruction when both address and value given, got %v", err)
	}
}

func TestProgramObjectZeroInit(t *testing.T) {
	p := seedProgram(t)
	intT := p.Catalogue().MustFind("int")
	n2 := int64(2)
	arrT := p.Catalogue().Array(intT, &n2)

	zero, err := p.Object(arrT, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, err := zero.Value()
	if err != nil {
		t.Fatal(err)
	}
	elems := v.([]interface{})
	if len(elems) != 2 || elems[0].(int64) != 0 || elems[1].(int64) != 0 {
		t.Fatalf("zero-initialized array = %v, want [0 0]", elems)
	}
}

func TestVariableWithoutResolver(t *testing.T) {
	p := seedProgram(t)
	if _, err := p.Variable("counter"); !coreerr.Is(err, coreerr.SymbolNotFound) {
		t.Fatalf("expected SymbolNotFound without a resolver, got %v", err)
	}
}

func TestVariableWithResolver(t *testing.T) {
	p := seedProgram(t)
	intT := p.Catalogue().MustFind("int")
	p2 := NewProgram(p.reader, p.cat, WithSymbolResolver(func(name string) (ctype.Type, uint64, error) {
		if name != "counter" {
			return nil, 0, coreerr.New(coreerr.SymbolNotFound, "no symbol %q", name)
		}
		return intT, 0xffff0000, nil
	}))
	obj, err := p2.Variable("counter")
	if err != nil {
		t.Fatal(err)
	}
	v, err := obj.Value()
	if err != nil || v.(int64) != 1 {
		t.Fatalf("counter = %v, %v, want 1, nil", v, err)
	}

	if _, err := p2.Variable("missing"); !coreerr.Is(err, coreerr.SymbolNotFound) {
		t.Fatalf("expected SymbolNotFound, got %v", err)
	}
}

func TestLoadCatalogueEntriesSkipsMalformed(t *testing.T) {
	p := seedProgram(t)
	good := &ctype.Int{TypeName: "good_t", ByteSize: 4, Signed: true}
	bad := &ctype.Int{TypeName: "broken_t", ByteSize: -1, Signed: true}

	loaded := p.LoadCatalogueEntries([]ctype.Entry{
		{Key: "good_t", Type: good},
		{Key: "broken_t", Type: bad},
	})
	if loaded != 1 {
		t.Fatalf("loaded = %d, want 1", loaded)
	}
	if _, err := p.Catalogue().Find("good_t"); err != nil {
		t.Fatalf("good_t was not registered: %v", err)
	}
	if _, err := p.Catalogue().Find("broken_t"); !coreerr.Is(err, coreerr.SymbolNotFound) {
		t.Fatalf("broken_t should have been rejected, not registered")
	}
}
