package object

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/corescope/core/coreerr"
	"github.com/corescope/core/coreimage"
	"github.com/corescope/core/ctype"
)

// testProgram is the minimal object.Context this package's tests need: a
// reader over the §8 scenario image plus a standard type catalogue.
type testProgram struct {
	reader *coreimage.Reader
	cat    *ctype.Catalogue
}

func (p *testProgram) Read(addr uint64, length int) ([]byte, error) {
	return p.reader.Read(addr, length)
}
func (p *testProgram) ReadCString(addr uint64, maxLen int) ([]byte, error) {
	return p.reader.ReadCString(addr, maxLen)
}
func (p *testProgram) Catalogue() *ctype.Catalogue { return p.cat }
func (p *testProgram) ByteOrder() binary.ByteOrder { return binary.LittleEndian }

func seedProgram(t *testing.T) *testProgram {
	t.Helper()
	data := []byte{
		0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00,
		'h', 'e', 'l', 'l', 'o', 0x00, 0x00, 0x00,
	}
	r := coreimage.NewReader(bytes.NewReader(data), []coreimage.Segment{
		{VirtualStart: 0xffff0000, Length: uint64(len(data))},
	})
	return &testProgram{reader: r, cat: ctype.NewStandardCatalogue(8, 8)}
}

// Scenario 1: two adjacent ints read back their seeded values.
func TestScenarioReadInts(t *testing.T) {
	p := seedProgram(t)
	intT := p.cat.MustFind("int")

	a, err := NewReference(p, intT, 0xffff0000)
	if err != nil {
		t.Fatal(err)
	}
	av, err := a.Value()
	if err != nil || av.(int64) != 1 {
		t.Fatalf("a.Value() = %v, %v, want 1, nil", av, err)
	}

	b, err := NewReference(p, intT, 0xffff0004)
	if err != nil {
		t.Fatal(err)
	}
	bv, err := b.Value()
	if err != nil || bv.(int64) != 2 {
		t.Fatalf("b.Value() = %v, %v, want 2, nil", bv, err)
	}
}

// Scenario 2: indexing an int* reads the third int, spanning into the
// "hello" bytes little-endian as 0x6c6c6568.
func TestScenarioPointerIndex(t *testing.T) {
	p := seedProgram(t)
	intT := p.cat.MustFind("int")
	ptrT := p.cat.Pointer(intT)

	ptr, err := NewValue(p, ptrT, uint64(0xffff0000))
	if err != nil {
		t.Fatal(err)
	}
	elem, err := ptr.Index(2)
	if err != nil {
		t.Fatal(err)
	}
	v, err := elem.Value()
	if err != nil {
		t.Fatal(err)
	}
	if v.(int64) != 0x6c6c6568 {
		t.Fatalf("ptr[2].Value() = %#x, want 0x6c6c6568", v)
	}
}

// Scenario 3: a char* string_() reads "hello".
func TestScenarioCharPointerString(t *testing.T) {
	p := seedProgram(t)
	charT := p.cat.MustFind("char")
	ptrT := p.cat.Pointer(charT)

	ptr, err := NewValue(p, ptrT, uint64(0xffff0008))
	if err != nil {
		t.Fatal(err)
	}
	s, err := ptr.String()
	if err != nil {
		t.Fatal(err)
	}
	if s != "hello" {
		t.Fatalf("string_() = %q, want %q", s, "hello")
	}
}

// Scenario 4: casting -1 (int) to unsigned int yields 0xffffffff.
func TestScenarioCastSignToUnsigned(t *testing.T) {
	p := seedProgram(t)
	intT := p.cat.MustFind("int")
	uintT := p.cat.MustFind("unsigned int")

	obj, err := NewValue(p, intT, int64(-1))
	if err != nil {
		t.Fatal(err)
	}
	cast, err := obj.Cast(uintT)
	if err != nil {
		t.Fatal(err)
	}
	v, err := cast.Value()
	if err != nil {
		t.Fatal(err)
	}
	if v.(uint64) != 0xffffffff {
		t.Fatalf("cast value = %#x, want 0xffffffff", v)
	}
}

// Scenario 5: -1 (int) < 0 (unsigned int) is false, because the usual
// arithmetic conversions make -1 a huge unsigned value.
func TestScenarioSignedUnsignedCompare(t *testing.T) {
	p := seedProgram(t)
	intT := p.cat.MustFind("int")
	uintT := p.cat.MustFind("unsigned int")

	neg1, _ := NewValue(p, intT, int64(-1))
	zero, _ := NewValue(p, uintT, int64(0))
	lt, err := Less(neg1, zero)
	if err != nil {
		t.Fatal(err)
	}
	if lt {
		t.Fatalf("-1 < 0u should be false")
	}
}

// Scenario 6: truncating division and dividend-sign modulo.
func TestScenarioDivMod(t *testing.T) {
	p := seedProgram(t)
	intT := p.cat.MustFind("int")

	three, _ := NewValue(p, intT, int64(3))
	two, _ := NewValue(p, intT, int64(2))
	quotient, err := Div(three, two)
	if err != nil {
		t.Fatal(err)
	}
	qv, _ := quotient.Value()
	if qv.(int64) != 1 {
		t.Fatalf("3/2 = %v, want 1", qv)
	}

	negOne, _ := NewValue(p, intT, int64(-1))
	twentySix, _ := NewValue(p, intT, int64(26))
	mod, err := Mod(negOne, twentySix)
	if err != nil {
		t.Fatal(err)
	}
	mv, _ := mod.Value()
	if mv.(int64) != -1 {
		t.Fatalf("-1 %% 26 = %v, want -1", mv)
	}
}

// Scenario 7: a char* pointing at a lone NUL renders as an empty string.
func TestScenarioDisplayEmptyString(t *testing.T) {
	p := seedProgram(t)
	charT := p.cat.MustFind("char")
	ptrT := p.cat.Pointer(charT)

	ptr, err := NewValue(p, ptrT, uint64(0xffff000f))
	if err != nil {
		t.Fatal(err)
	}
	s, err := ptr.Display()
	if err != nil {
		t.Fatal(err)
	}
	if want := `(char *)0xffff000f = ""`; s != want {
		t.Fatalf("Display() = %q, want %q", s, want)
	}
}

// Scenario 8: round(double, 1.5) with no digits returns plain int 2;
// round(obj, 0) returns a double-typed object holding 2.0.
func TestScenarioRound(t *testing.T) {
	p := seedProgram(t)
	doubleT := p.cat.MustFind("double")

	obj, err := NewValue(p, doubleT, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	r, err := obj.Round()
	if err != nil || r != 2 {
		t.Fatalf("Round() = %v, %v, want 2, nil", r, err)
	}
	rd, err := obj.RoundDigits(0)
	if err != nil {
		t.Fatal(err)
	}
	v, err := rd.Value()
	if err != nil || v.(float64) != 2.0 {
		t.Fatalf("RoundDigits(0).Value() = %v, %v, want 2.0, nil", v, err)
	}
	if !ctype.Equal(rd.Type(), doubleT) {
		t.Fatalf("RoundDigits(0) changed type to %v, want double", rd.Type())
	}
}

func TestMemberAccessAndContainerOf(t *testing.T) {
	p := seedProgram(t)
	intT := p.cat.MustFind("int")
	point := &ctype.Struct{
		Name: "point",
		Size: 8,
		Fields: []*ctype.Field{
			ctype.NewField("x", 0, intT),
			ctype.NewField("y", 4, intT),
		},
	}

	s, err := NewReference(p, point, 0xffff0000)
	if err != nil {
		t.Fatal(err)
	}
	y, err := s.Member("y")
	if err != nil {
		t.Fatal(err)
	}
	yv, _ := y.Value()
	if yv.(int64) != 2 {
		t.Fatalf("s.y = %v, want 2", yv)
	}

	yAddr, err := y.AddressOf()
	if err != nil {
		t.Fatal(err)
	}
	back, err := yAddr.ContainerOf(point, "y")
	if err != nil {
		t.Fatal(err)
	}
	backAddr, err := back.AddressValue()
	if err != nil {
		t.Fatal(err)
	}
	if backAddr != 0xffff0000 {
		t.Fatalf("container_of address = %#x, want 0xffff0000", backAddr)
	}

	if _, err := s.Member("z"); !coreerr.Is(err, coreerr.UnknownMember) {
		t.Fatalf("expected UnknownMember, got %v", err)
	}
}

func TestPointerArithmeticIdentity(t *testing.T) {
	p := seedProgram(t)
	intT := p.cat.MustFind("int")
	ptrT := p.cat.Pointer(intT)

	ptr, _ := NewValue(p, ptrT, uint64(0xffff0000))
	five, _ := NewValue(p, p.cat.MustFind("int"), int64(5))

	advanced, err := Add(ptr, five)
	if err != nil {
		t.Fatal(err)
	}
	diff, err := Sub(advanced, ptr)
	if err != nil {
		t.Fatal(err)
	}
	dv, _ := diff.Value()
	if dv.(int64) != 5 {
		t.Fatalf("(p+5)-p = %v, want 5", dv)
	}
}

func TestUnboundedIteration(t *testing.T) {
	p := seedProgram(t)
	intT := p.cat.MustFind("int")
	ptrT := p.cat.Pointer(intT)
	ptr, _ := NewValue(p, ptrT, uint64(0xffff0000))

	if _, err := ptr.Elements(); !coreerr.Is(err, coreerr.UnboundedIteration) {
		t.Fatalf("Elements() on a pointer should be UnboundedIteration, got %v", err)
	}

	unknownArr := p.cat.Array(intT, nil)
	arrObj, err := NewReference(p, unknownArr, 0xffff0000)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := arrObj.Elements(); !coreerr.Is(err, coreerr.UnboundedIteration) {
		t.Fatalf("expected UnboundedIteration, got %v", err)
	}
}

func TestDivideByZero(t *testing.T) {
	p := seedProgram(t)
	intT := p.cat.MustFind("int")
	one, _ := NewValue(p, intT, int64(1))
	zero, _ := NewValue(p, intT, int64(0))
	if _, err := Div(one, zero); !coreerr.Is(err, coreerr.DivideByZero) {
		t.Fatalf("expected DivideByZero, got %v", err)
	}
	if _, err := Mod(one, zero); !coreerr.Is(err, coreerr.DivideByZero) {
		t.Fatalf("expected DivideByZero, got %v", err)
	}
}

func TestAddressOfNoAddress(t *testing.T) {
	p := seedProgram(t)
	intT := p.cat.MustFind("int")
	v, _ := NewValue(p, intT, int64(1))
	if _, err := v.AddressOf(); !coreerr.Is(err, coreerr.NoAddress) {
		t.Fatalf("expected NoAddress, got %v", err)
	}
}

func TestPromotionIntPlusLong(t *testing.T) {
	p := seedProgram(t)
	intT := p.cat.MustFind("int")
	longT := p.cat.MustFind("long")

	i, _ := NewValue(p, intT, int64(1))
	l, _ := NewValue(p, longT, int64(2))
	sum, err := Add(i, l)
	if err != nil {
		t.Fatal(err)
	}
	if !ctype.Equal(sum.Type(), longT) {
		t.Fatalf("int + long has type %v, want long", sum.Type())
	}
}

func TestUnaryOperators(t *testing.T) {
	p := seedProgram(t)
	intT := p.cat.MustFind("int")
	boolT := p.cat.MustFind("_Bool")

	for _, typ := range []ctype.Type{intT, boolT} {
		obj, err := NewReference(p, typ, 0xffff0000)
		if err != nil {
			t.Fatal(err)
		}
		neg, err := obj.Neg()
		if err != nil {
			t.Fatal(err)
		}
		if !ctype.Equal(neg.Type(), intT) {
			t.Fatalf("-obj has type %v, want int (promotion)", neg.Type())
		}
		nv, _ := neg.Value()
		if nv.(int64) != -1 {
			t.Fatalf("-obj = %v, want -1", nv)
		}

		comp, err := obj.Complement()
		if err != nil {
			t.Fatal(err)
		}
		cv, _ := comp.Value()
		if cv.(int64) != -2 {
			t.Fatalf("~obj = %v, want -2", cv)
		}
	}
}

func TestIdenticalTo(t *testing.T) {
	p := seedProgram(t)
	intT := p.cat.MustFind("int")

	a, _ := NewReference(p, intT, 0xffff0000)
	b, _ := NewReference(p, intT, 0xffff0000)
	c, _ := NewReference(p, intT, 0xffff0004)

	if !a.IdenticalTo(b) {
		t.Fatalf("two reference objects at the same address/type should be identical")
	}
	if a.IdenticalTo(c) {
		t.Fatalf("objects at different addresses should not be identical")
	}
}
