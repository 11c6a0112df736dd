package ctype

// NewStandardCatalogue builds a Catalogue pre-registered with the base C
// types a LP64 (or ILP32, via a smaller longSize) target provides:
// _Bool, the signed/unsigned char/short/int/long/long long family, float,
// double, void, and the ptrdiff_t/size_t typedefs. pointerWidth and
// longSize are the byte widths of `void *` and `long` on the target
// architecture (8/8 for LP64, 4/4 for ILP32).
//
// Programs with a custom type graph (e.g. parsed from DWARF) should build
// a Catalogue directly with NewCatalogue and Register their own types;
// this constructor exists for tests and for targets with no richer debug
// type information available.
func NewStandardCatalogue(pointerWidth, longSize int64) *Catalogue {
	c := NewCatalogue(pointerWidth)

	c.Register("void", &Void{})
	c.Register("_Bool", &Bool{})

	ints := []*Int{
		{TypeName: "signed char", ByteSize: 1, Signed: true},
		{TypeName: "unsigned char", ByteSize: 1, Signed: false},
		{TypeName: "short", ByteSize: 2, Signed: true},
		{TypeName: "unsigned short", ByteSize: 2, Signed: false},
		{TypeName: "int", ByteSize: 4, Signed: true},
		{TypeName: "unsigned int", ByteSize: 4, Signed: false},
		{TypeName: "long", ByteSize: longSize, Signed: true},
		{TypeName: "unsigned long", ByteSize: longSize, Signed: false},
		{TypeName: "long long", ByteSize: 8, Signed: true},
		{TypeName: "unsigned long long", ByteSize: 8, Signed: false},
	}
	for _, it := range ints {
		c.Register(it.TypeName, it)
	}
	// "char" is a distinct type from both "signed char" and
	// "unsigned char" in C, but shares their representation; this core
	// treats it as signed, matching the common x86-64 Linux ABI this
	// module targets.
	c.Register("char", &Int{TypeName: "char", ByteSize: 1, Signed: true})

	c.Register("float", &Float{TypeName: "float", ByteSize: 4})
	c.Register("double", &Float{TypeName: "double", ByteSize: 8})

	c.IntType = c.named["int"].(*Int)

	ptrdiffT := &Typedef{Name: "ptrdiff_t", Underlying: c.named["long"]}
	sizeT := &Typedef{Name: "size_t", Underlying: c.named["unsigned long"]}
	c.Register("ptrdiff_t", ptrdiffT)
	c.Register("size_t", sizeT)

	return c
}
