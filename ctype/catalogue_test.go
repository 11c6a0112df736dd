package ctype

import (
	"testing"

	"github.com/corescope/core/coreerr"
)

func TestStandardCatalogueSizes(t *testing.T) {
	cat := NewStandardCatalogue(8, 8)
	cases := []struct {
		name string
		want int64
	}{
		{"char", 1}, {"short", 2}, {"int", 4}, {"long", 8},
		{"long long", 8}, {"float", 4}, {"double", 8},
		{"ptrdiff_t", 8}, {"size_t", 8},
	}
	for _, c := range cases {
		typ, err := cat.Find(c.name)
		if err != nil {
			t.Fatalf("Find(%q): %v", c.name, err)
		}
		got, err := cat.SizeOf(typ)
		if err != nil {
			t.Fatalf("SizeOf(%q): %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("SizeOf(%q) = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestPointerMemoized(t *testing.T) {
	cat := NewStandardCatalogue(8, 8)
	intT := cat.MustFind("int")
	p1 := cat.Pointer(intT)
	p2 := cat.Pointer(intT)
	if p1 != p2 {
		t.Fatalf("Pointer(int) returned distinct instances: %p != %p", p1, p2)
	}
	if got, _ := cat.SizeOf(p1); got != 8 {
		t.Fatalf("pointer size = %d, want 8", got)
	}
}

func TestArrayMemoizedByLength(t *testing.T) {
	cat := NewStandardCatalogue(8, 8)
	intT := cat.MustFind("int")
	n3 := int64(3)
	n4 := int64(4)
	a1 := cat.Array(intT, &n3)
	a2 := cat.Array(intT, &n3)
	a3 := cat.Array(intT, &n4)
	if a1 != a2 {
		t.Fatalf("Array(int,3) returned distinct instances")
	}
	if a1 == a3 {
		t.Fatalf("Array(int,3) and Array(int,4) must be distinct")
	}
	size, err := cat.SizeOf(a1)
	if err != nil || size != 12 {
		t.Fatalf("SizeOf(int[3]) = %d, %v, want 12, nil", size, err)
	}
}

func TestSizeOfIncompleteArray(t *testing.T) {
	cat := NewStandardCatalogue(8, 8)
	intT := cat.MustFind("int")
	incomplete := cat.Array(intT, nil)
	if _, err := cat.SizeOf(incomplete); !coreerr.Is(err, coreerr.IncompleteType) {
		t.Fatalf("expected IncompleteType for unknown-length array, got %v", err)
	}
}

func TestSizeAndAlignOfStruct(t *testing.T) {
	cat := NewStandardCatalogue(8, 8)
	intT := cat.MustFind("int")
	longT := cat.MustFind("long")

	// struct point { int x; int y; }; no padding, align 4.
	point := &Struct{
		Name: "point",
		Size: 8,
		Fields: []*Field{
			NewField("x", 0, intT),
			NewField("y", 4, intT),
		},
	}
	if size, err := cat.SizeOf(point); err != nil || size != 8 {
		t.Fatalf("SizeOf(point) = %d, %v", size, err)
	}
	if align, err := cat.AlignOf(point); err != nil || align != 4 {
		t.Fatalf("AlignOf(point) = %d, %v, want 4", align, err)
	}

	// struct mixed { int a; long b; }; padded to align 8, size 16.
	mixed := &Struct{
		Name: "mixed",
		Size: 16,
		Fields: []*Field{
			NewField("a", 0, intT),
			NewField("b", 8, longT),
		},
	}
	if align, err := cat.AlignOf(mixed); err != nil || align != 8 {
		t.Fatalf("AlignOf(mixed) = %d, %v, want 8", align, err)
	}
}

func TestSizeOfIncompleteStruct(t *testing.T) {
	incomplete := &Struct{Name: "opaque", Incomplete: true}
	cat := NewStandardCatalogue(8, 8)
	if _, err := cat.SizeOf(incomplete); !coreerr.Is(err, coreerr.IncompleteType) {
		t.Fatalf("expected IncompleteType for forward-declared struct, got %v", err)
	}
	if _, err := cat.AlignOf(incomplete); !coreerr.Is(err, coreerr.IncompleteType) {
		t.Fatalf("expected IncompleteType for forward-declared struct align, got %v", err)
	}
}

func TestLazyFieldMemoizesAndSupportsSelfReference(t *testing.T) {
	var node *Struct
	cat := NewStandardCatalogue(8, 8)
	calls := 0
	next := NewLazyField("next", 8, func() Type {
		calls++
		return cat.Pointer(node)
	})
	node = &Struct{
		Name: "node",
		Size: 16,
		Fields: []*Field{
			NewField("value", 0, cat.MustFind("int")),
			next,
		},
	}
	p1 := next.Type()
	p2 := next.Type()
	if calls != 1 {
		t.Fatalf("lazy field thunk called %d times, want 1 (memoized)", calls)
	}
	if p1 != p2 {
		t.Fatalf("lazy field did not memoize its resolved type")
	}
	if ptr, ok := p1.(*Pointer); !ok || ptr.Elem != Type(node) {
		t.Fatalf("self-referential field did not resolve to pointer-to-node")
	}
}

func TestFindUnknown(t *testing.T) {
	cat := NewStandardCatalogue(8, 8)
	if _, err := cat.Find("struct nonexistent"); !coreerr.Is(err, coreerr.SymbolNotFound) {
		t.Fatalf("expected SymbolNotFound, got %v", err)
	}
}

func TestLoadEntriesSkipsMalformedWithoutAbortingBatch(t *testing.T) {
	cat := NewCatalogue(8)
	badInt := &Int{TypeName: "broken_t", ByteSize: 0, Signed: true}
	goodInt := &Int{TypeName: "good_t", ByteSize: 4, Signed: true}
	dup := &Struct{
		Name: "dup_t",
		Size: 8,
		Fields: []*Field{
			NewField("x", 0, goodInt),
			NewField("x", 4, goodInt),
		},
	}

	var rejected []string
	loaded := cat.LoadEntries([]Entry{
		{Key: "broken_t", Type: badInt},
		{Key: "good_t", Type: goodInt},
		{Key: "dup_t", Type: dup},
	}, func(key string, t Type, err error) {
		rejected = append(rejected, key)
	})

	if loaded != 1 {
		t.Fatalf("loaded = %d, want 1", loaded)
	}
	if _, err := cat.Find("good_t"); err != nil {
		t.Fatalf("good_t was not registered: %v", err)
	}
	if _, err := cat.Find("broken_t"); !coreerr.Is(err, coreerr.SymbolNotFound) {
		t.Fatalf("broken_t should not have been registered")
	}
	if len(rejected) != 2 || rejected[0] != "broken_t" || rejected[1] != "dup_t" {
		t.Fatalf("rejected = %v, want [broken_t dup_t]", rejected)
	}
}

func TestSummarizeCarriesKindSizeSigned(t *testing.T) {
	s := Summarize("int", &Int{TypeName: "int", ByteSize: 4, Signed: true})
	if s.Key != "int" || s.Kind != KindInt || s.Size != 4 || !s.Signed {
		t.Fatalf("Summarize = %+v, unexpected", s)
	}
}
