package object

import (
	"github.com/corescope/core/coreerr"
	"github.com/corescope/core/ctype"
)

type relOp int

const (
	relLess relOp = iota
	relLessEqual
	relGreater
	relGreaterEqual
	relEqual
	relNotEqual
)

// isNullConstant reports whether o is the integer literal 0, the one case
// in which C permits comparing an integer directly against a pointer.
func isNullConstant(o *Object) bool {
	if o.addr != nil || !ctype.IsInteger(o.typ) {
		return false
	}
	v, err := o.Value()
	if err != nil {
		return false
	}
	return mustInt64(v) == 0
}

func compare(a, b *Object, op relOp) (bool, error) {
	aIsPtr, bIsPtr := ctype.IsPointer(a.typ), ctype.IsPointer(b.typ)

	switch {
	case aIsPtr && bIsPtr:
		pa := ctype.Strip(a.typ).(*ctype.Pointer)
		pb := ctype.Strip(b.typ).(*ctype.Pointer)
		if !ctype.Equal(pa.Elem, pb.Elem) {
			return false, coreerr.New(coreerr.TypeMismatch, "cannot compare pointers to %s and %s", pa.Elem.String(), pb.Elem.String())
		}
		addrA, err := a.AddressValue()
		if err != nil {
			return false, err
		}
		addrB, err := b.AddressValue()
		if err != nil {
			return false, err
		}
		return applyUnsigned(addrA, addrB, op), nil

	case aIsPtr && !bIsPtr:
		if !isNullConstant(b) {
			return false, coreerr.New(coreerr.TypeMismatch, "cannot compare pointer %s to non-pointer %s", a.typ.String(), b.typ.String())
		}
		addrA, err := a.AddressValue()
		if err != nil {
			return false, err
		}
		return applyUnsigned(addrA, 0, op), nil

	case bIsPtr && !aIsPtr:
		if !isNullConstant(a) {
			return false, coreerr.New(coreerr.TypeMismatch, "cannot compare non-pointer %s to pointer %s", a.typ.String(), b.typ.String())
		}
		addrB, err := b.AddressValue()
		if err != nil {
			return false, err
		}
		return applyUnsigned(0, addrB, op), nil
	}

	if !isArithmeticKind(a.typ) || !isArithmeticKind(b.typ) {
		return false, coreerr.New(coreerr.TypeMismatch, "cannot compare %s and %s", a.typ.String(), b.typ.String())
	}
	if ctype.IsFloat(a.typ) || ctype.IsFloat(b.typ) {
		af, err := floatValueOf(a)
		if err != nil {
			return false, err
		}
		bf, err := floatValueOf(b)
		if err != nil {
			return false, err
		}
		return applyFloat(af, bf, op), nil
	}

	av, bv, signed, _, err := a.convergedInts(a, b)
	if err != nil {
		return false, err
	}
	if signed {
		return applySigned(av, bv, op), nil
	}
	return applyUnsigned(uint64(av), uint64(bv), op), nil
}

func applySigned(a, b int64, op relOp) bool {
	switch op {
	case relLess:
		return a < b
	case relLessEqual:
		return a <= b
	case relGreater:
		return a > b
	case relGreaterEqual:
		return a >= b
	case relEqual:
		return a == b
	default:
		return a != b
	}
}

func applyUnsigned(a, b uint64, op relOp) bool {
	switch op {
	case relLess:
		return a < b
	case relLessEqual:
		return a <= b
	case relGreater:
		return a > b
	case relGreaterEqual:
		return a >= b
	case relEqual:
		return a == b
	default:
		return a != b
	}
}

func applyFloat(a, b float64, op relOp) bool {
	switch op {
	case relLess:
		return a < b
	case relLessEqual:
		return a <= b
	case relGreater:
		return a > b
	case relGreaterEqual:
		return a >= b
	case relEqual:
		return a == b
	default:
		return a != b
	}
}

// Less implements <. LessEqual implements <=. Greater implements >.
// GreaterEqual implements >=. EqualValue implements ==. NotEqual
// implements !=. See §4.4/§4.5: integer vs integer applies the usual
// arithmetic conversions (so -1 < 0u is false); pointer vs pointer of
// compatible referent compares addresses unsigned; integer vs pointer is a
// TypeMismatch unless the integer side is the literal 0.
func Less(a, b *Object) (bool, error)         { return compare(a, b, relLess) }
func LessEqual(a, b *Object) (bool, error)    { return compare(a, b, relLessEqual) }
func Greater(a, b *Object) (bool, error)      { return compare(a, b, relGreater) }
func GreaterEqual(a, b *Object) (bool, error) { return compare(a, b, relGreaterEqual) }
func EqualValue(a, b *Object) (bool, error)   { return compare(a, b, relEqual) }
func NotEqual(a, b *Object) (bool, error)     { return compare(a, b, relNotEqual) }

// IdenticalTo implements the equality-congruence testable property: two
// objects are identical iff they belong to the same program, have the
// same type, the same address-ness (both references at equal addresses,
// or both values), and equal underlying values. Unlike EqualValue, this
// never partially-converts mismatched types — any mismatch is simply not
// identical, with no error returned.
func (o *Object) IdenticalTo(other *Object) bool {
	if o.ctx != other.ctx {
		return false
	}
	if !ctype.Equal(o.typ, other.typ) {
		return false
	}
	if (o.addr == nil) != (other.addr == nil) {
		return false
	}
	if o.addr != nil && *o.addr != *other.addr {
		return false
	}
	av, err := o.Value()
	if err != nil {
		return false
	}
	bv, err := other.Value()
	if err != nil {
		return false
	}
	return valuesEqual(av, bv)
}

func valuesEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !valuesEqual(v, bvv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
