package ctype

// conversions.go implements the C11 §6.3 conversion rules the evaluator
// needs: integer promotion, the usual arithmetic conversions, and array
// decay (function types are not modeled). They are collapsed from
// "one case per named C type" to operating purely on (ByteSize, Signed)
// pairs, since that is all arithmetic ever actually depends on.

// IntRank returns the promotion rank of an integer-or-narrower type:
// larger byte sizes rank higher, and at equal size an unsigned type ranks
// above its signed counterpart (matching C's "unsigned wins ties" rule for
// the usual arithmetic conversions).
func IntRank(t Type) (size int64, signed bool) {
	switch tt := Strip(t).(type) {
	case *Bool:
		return 1, false
	case *Int:
		return tt.ByteSize, tt.Signed
	case *Enum:
		return IntRank(tt.Underlying)
	default:
		return 0, false
	}
}

// Promote applies integer promotion: any integer type narrower than
// intType promotes to intType (C guarantees this always fits, since the
// narrower type's full range fits in a strictly wider signed int). Types at
// or above intType's width, and non-integer types, are returned unchanged.
func Promote(t Type, intType *Int) Type {
	if !IsInteger(t) {
		return t
	}
	size, _ := IntRank(t)
	if size < intType.ByteSize {
		return intType
	}
	return t
}

// UsualArithmeticConversions applies C11 §6.3.1.8 to a and b, which must
// already be integer or floating types (the caller is expected to reject
// pointer/aggregate operands before calling this). intType is the
// catalogue's canonical `int`, needed to perform integer promotion first.
func UsualArithmeticConversions(a, b Type, intType *Int) Type {
	if IsFloat(a) || IsFloat(b) {
		af, aok := Strip(a).(*Float)
		bf, bok := Strip(b).(*Float)
		switch {
		case aok && bok:
			if af.ByteSize >= bf.ByteSize {
				return af
			}
			return bf
		case aok:
			return af
		default:
			return bf
		}
	}

	pa, pb := Promote(a, intType), Promote(b, intType)
	sizeA, signedA := IntRank(pa)
	sizeB, signedB := IntRank(pb)

	switch {
	case sizeA == sizeB && signedA == signedB:
		return pa
	case sizeA == sizeB:
		// Same rank, mixed sign: the unsigned type wins.
		if signedA {
			return pb
		}
		return pa
	case sizeA > sizeB:
		return pa
	default:
		return pb
	}
}

// Decay converts an array type to a pointer to its element type, as
// happens whenever an array is used as an rvalue (indexing, arithmetic,
// assignment to a pointer). Non-array types are returned unchanged.
func Decay(t Type, cat *Catalogue) Type {
	if arr, ok := Strip(t).(*Array); ok {
		return cat.Pointer(arr.Elem)
	}
	return t
}
