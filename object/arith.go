package object

import (
	"github.com/corescope/core/coreerr"
	"github.com/corescope/core/ctype"
)

// intType returns the catalogue's canonical `int`, the target of integer
// promotion for o's operands.
func (o *Object) intType() *ctype.Int {
	intT := o.ctx.Catalogue().IntType
	return intT
}

// Pos implements unary +: requires an integer or float operand (after
// promotion); the result type is the promoted operand type and the value
// is unchanged.
func (o *Object) Pos() (*Object, error) {
	switch ctype.Strip(o.typ).(type) {
	case *ctype.Float:
		f, err := o.rawFloat()
		if err != nil {
			return nil, err
		}
		return NewValue(o.ctx, o.typ, f)
	case *ctype.Int, *ctype.Bool, *ctype.Enum:
		pt := ctype.Promote(o.typ, o.intType())
		v, err := o.Value()
		if err != nil {
			return nil, err
		}
		return NewValue(o.ctx, pt, mustInt64(v))
	default:
		return nil, coreerr.New(coreerr.TypeMismatch, "unary + requires an arithmetic operand, got %s", o.typ.String())
	}
}

// Neg implements unary -: like Pos, but negates the value. Signed integer
// overflow wraps modulo 2^width rather than erroring.
func (o *Object) Neg() (*Object, error) {
	switch ctype.Strip(o.typ).(type) {
	case *ctype.Float:
		f, err := o.rawFloat()
		if err != nil {
			return nil, err
		}
		return NewValue(o.ctx, o.typ, -f)
	case *ctype.Int, *ctype.Bool, *ctype.Enum:
		pt := ctype.Promote(o.typ, o.intType())
		v, err := o.Value()
		if err != nil {
			return nil, err
		}
		return NewValue(o.ctx, pt, -mustInt64(v))
	default:
		return nil, coreerr.New(coreerr.TypeMismatch, "unary - requires an arithmetic operand, got %s", o.typ.String())
	}
}

// Complement implements unary ~: requires an integer operand.
func (o *Object) Complement() (*Object, error) {
	if !ctype.IsInteger(o.typ) {
		return nil, coreerr.New(coreerr.TypeMismatch, "unary ~ requires an integer operand, got %s", o.typ.String())
	}
	pt := ctype.Promote(o.typ, o.intType())
	v, err := o.Value()
	if err != nil {
		return nil, err
	}
	return NewValue(o.ctx, pt, ^mustInt64(v))
}

func mustInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case uint64:
		return int64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// convergedInts converts a and b to their usual-arithmetic-conversions
// common integer type, returning each operand's value reinterpreted in
// that type plus the common type itself.
func (o *Object) convergedInts(a, b *Object) (av, bv int64, signed bool, common ctype.Type, err error) {
	intT := o.intType()
	common = ctype.UsualArithmeticConversions(a.typ, b.typ, intT)
	size, sgn := ctype.IntRank(common)
	abits, err := a.rawBits()
	if err != nil {
		return 0, 0, false, nil, err
	}
	bbits, err := b.rawBits()
	if err != nil {
		return 0, 0, false, nil, err
	}
	if sgn {
		av = signExtend(abits, size)
		bv = signExtend(bbits, size)
	} else {
		av = int64(truncateBits(abits, size))
		bv = int64(truncateBits(bbits, size))
	}
	return av, bv, sgn, common, nil
}

func isArithmeticKind(t ctype.Type) bool {
	return ctype.IsInteger(t) || ctype.IsFloat(t)
}

// binaryArithmetic is the shared implementation of +, -, *, / between two
// arithmetic (non-pointer) operands: it applies the usual arithmetic
// conversions and dispatches to float or integer math.
func binaryArithmetic(a, b *Object, op string) (*Object, error) {
	if !isArithmeticKind(a.typ) || !isArithmeticKind(b.typ) {
		return nil, coreerr.New(coreerr.TypeMismatch, "%s requires arithmetic operands, got %s and %s", op, a.typ.String(), b.typ.String())
	}
	if ctype.IsFloat(a.typ) || ctype.IsFloat(b.typ) {
		if op == "%" {
			return nil, coreerr.New(coreerr.TypeMismatch, "%% requires integer operands, got %s and %s", a.typ.String(), b.typ.String())
		}
		common := ctype.UsualArithmeticConversions(a.typ, b.typ, a.intType())
		af, err := floatValueOf(a)
		if err != nil {
			return nil, err
		}
		bf, err := floatValueOf(b)
		if err != nil {
			return nil, err
		}
		var r float64
		switch op {
		case "+":
			r = af + bf
		case "-":
			r = af - bf
		case "*":
			r = af * bf
		case "/":
			r = af / bf
		}
		return NewValue(a.ctx, common, r)
	}

	av, bv, signed, common, err := a.convergedInts(a, b)
	if err != nil {
		return nil, err
	}
	switch op {
	case "+":
		return NewValue(a.ctx, common, av+bv)
	case "-":
		return NewValue(a.ctx, common, av-bv)
	case "*":
		return NewValue(a.ctx, common, av*bv)
	case "/":
		if bv == 0 {
			return nil, coreerr.New(coreerr.DivideByZero, "division by zero")
		}
		if signed {
			return NewValue(a.ctx, common, av/bv) // Go's / truncates toward zero, matching C.
		}
		return NewValue(a.ctx, common, int64(uint64(av)/uint64(bv)))
	case "%":
		if bv == 0 {
			return nil, coreerr.New(coreerr.DivideByZero, "modulo by zero")
		}
		if signed {
			return NewValue(a.ctx, common, av%bv) // Go's % takes the sign of the dividend, matching C.
		}
		return NewValue(a.ctx, common, int64(uint64(av)%uint64(bv)))
	default:
		return nil, coreerr.New(coreerr.TypeMismatch, "unsupported operator %q", op)
	}
}

func floatValueOf(o *Object) (float64, error) {
	if ctype.IsFloat(o.typ) {
		return o.rawFloat()
	}
	v, err := o.Value()
	if err != nil {
		return 0, err
	}
	return float64(mustInt64(v)), nil
}

func pointerArith(ptr, idx *Object, negate bool) (*Object, error) {
	pt, ok := ctype.Strip(ptr.typ).(*ctype.Pointer)
	if !ok {
		return nil, coreerr.New(coreerr.TypeMismatch, "%s is not a pointer", ptr.typ.String())
	}
	if !ctype.IsInteger(idx.typ) {
		return nil, coreerr.New(coreerr.TypeMismatch, "pointer arithmetic requires an integer offset, got %s", idx.typ.String())
	}
	base, err := ptr.AddressValue()
	if err != nil {
		return nil, err
	}
	elemSize, err := sizeOf(ptr.ctx, pt.Elem)
	if err != nil {
		return nil, err
	}
	idxVal, err := idx.Value()
	if err != nil {
		return nil, err
	}
	k := mustInt64(idxVal)
	if negate {
		k = -k
	}
	return NewValue(ptr.ctx, ptr.typ, uint64(int64(base)+k*elemSize))
}

// Add implements binary +. Pointer + integer and integer + pointer yield a
// pointer; two arithmetic operands follow the usual arithmetic
// conversions. Any other combination is TypeMismatch.
func Add(a, b *Object) (*Object, error) {
	aIsPtr, bIsPtr := ctype.IsPointer(a.typ), ctype.IsPointer(b.typ)
	switch {
	case aIsPtr && !bIsPtr:
		return pointerArith(a, b, false)
	case bIsPtr && !aIsPtr:
		return pointerArith(b, a, false)
	case aIsPtr && bIsPtr:
		return nil, coreerr.New(coreerr.TypeMismatch, "cannot add two pointers")
	default:
		return binaryArithmetic(a, b, "+")
	}
}

// Sub implements binary -. Pointer - integer yields a pointer; pointer -
// pointer of compatible referent yields a ptrdiff_t-valued signed integer;
// two arithmetic operands follow the usual arithmetic conversions.
func Sub(a, b *Object) (*Object, error) {
	aIsPtr, bIsPtr := ctype.IsPointer(a.typ), ctype.IsPointer(b.typ)
	switch {
	case aIsPtr && bIsPtr:
		pa := ctype.Strip(a.typ).(*ctype.Pointer)
		pb := ctype.Strip(b.typ).(*ctype.Pointer)
		if !ctype.Equal(pa.Elem, pb.Elem) {
			return nil, coreerr.New(coreerr.TypeMismatch, "pointer difference requires compatible referents, got %s and %s",
				a.typ.String(), b.typ.String())
		}
		elemSize, err := sizeOf(a.ctx, pa.Elem)
		if err != nil {
			return nil, err
		}
		addrA, err := a.AddressValue()
		if err != nil {
			return nil, err
		}
		addrB, err := b.AddressValue()
		if err != nil {
			return nil, err
		}
		diff := (int64(addrA) - int64(addrB)) / elemSize
		ptrdiffT, err := a.ctx.Catalogue().Find("ptrdiff_t")
		if err != nil {
			ptrdiffT = a.intType()
		}
		return NewValue(a.ctx, ptrdiffT, diff)
	case aIsPtr && !bIsPtr:
		return pointerArith(a, b, true)
	case bIsPtr && !aIsPtr:
		return nil, coreerr.New(coreerr.TypeMismatch, "cannot subtract a pointer from an integer")
	default:
		return binaryArithmetic(a, b, "-")
	}
}

// Mul implements binary *; pointers are not permitted.
func Mul(a, b *Object) (*Object, error) { return binaryArithmetic(a, b, "*") }

// Div implements binary /: integer division truncates toward zero; fails
// with DivideByZero on a zero divisor. Pointers are not permitted.
func Div(a, b *Object) (*Object, error) { return binaryArithmetic(a, b, "/") }

// Mod implements binary %: the result takes the sign of the dividend;
// fails with DivideByZero on a zero divisor. Only defined for integers.
func Mod(a, b *Object) (*Object, error) { return binaryArithmetic(a, b, "%") }

// Shl implements <<. Shr implements >>. Both require integer operands
// (after promotion); the result type is the promoted left operand's type
// (the usual arithmetic conversions do not apply to the right operand). A
// negative or oversized shift count is masked to operand_width-1, since C
// leaves it undefined and this core prefers deterministic masking.
func Shl(a, b *Object) (*Object, error) { return shift(a, b, true) }
func Shr(a, b *Object) (*Object, error) { return shift(a, b, false) }

func shift(a, b *Object, left bool) (*Object, error) {
	if !ctype.IsInteger(a.typ) || !ctype.IsInteger(b.typ) {
		return nil, coreerr.New(coreerr.TypeMismatch, "shift requires integer operands, got %s and %s", a.typ.String(), b.typ.String())
	}
	pt := ctype.Promote(a.typ, a.intType())
	size, signed := ctype.IntRank(pt)
	abits, err := a.rawBits()
	if err != nil {
		return nil, err
	}
	var av int64
	if signed {
		av = signExtend(abits, size)
	} else {
		av = int64(truncateBits(abits, size))
	}
	bv, err := b.Value()
	if err != nil {
		return nil, err
	}
	count := uint(mustInt64(bv)) & uint(size*8-1)
	var r int64
	if signed {
		if left {
			r = int64(uint64(av) << count)
		} else {
			r = av >> count
		}
	} else {
		if left {
			r = int64(uint64(av) << count)
		} else {
			r = int64(uint64(av) >> count)
		}
	}
	return NewValue(a.ctx, pt, r)
}

// And, Or, Xor implement &, |, ^: integer-only, with the usual arithmetic
// conversions applied to both operands.
func And(a, b *Object) (*Object, error) { return bitwise(a, b, func(x, y int64) int64 { return x & y }) }
func Or(a, b *Object) (*Object, error)  { return bitwise(a, b, func(x, y int64) int64 { return x | y }) }
func Xor(a, b *Object) (*Object, error) { return bitwise(a, b, func(x, y int64) int64 { return x ^ y }) }

func bitwise(a, b *Object, op func(int64, int64) int64) (*Object, error) {
	if !ctype.IsInteger(a.typ) || !ctype.IsInteger(b.typ) {
		return nil, coreerr.New(coreerr.TypeMismatch, "bitwise operators require integer operands, got %s and %s", a.typ.String(), b.typ.String())
	}
	av, bv, _, common, err := a.convergedInts(a, b)
	if err != nil {
		return nil, err
	}
	return NewValue(a.ctx, common, op(av, bv))
}
