package object

import (
	"github.com/corescope/core/coreerr"
	"github.com/corescope/core/ctype"
)

// Cast implements cast_(type):
//
//   - integer <-> integer: truncate or sign-extend to the destination width;
//   - integer <-> pointer: reinterpret the bit pattern, truncating if the
//     widths differ;
//   - float <-> integer: C conversion (truncate toward zero);
//   - float <-> pointer: TypeMismatch;
//   - anything -> struct/union: TypeMismatch unless the source type is
//     identical.
func (o *Object) Cast(dst ctype.Type) (*Object, error) {
	srcK, dstK := ctype.Strip(o.typ), ctype.Strip(dst)

	if _, ok := dstK.(*ctype.Struct); ok {
		if !ctype.Equal(o.typ, dst) {
			return nil, coreerr.New(coreerr.TypeMismatch, "cannot cast %s to %s", o.typ.String(), dst.String())
		}
		return o, nil
	}

	switch srcK.(type) {
	case *ctype.Int, *ctype.Bool, *ctype.Enum:
		bits, err := o.rawBits()
		if err != nil {
			return nil, err
		}
		signed, size := signednessAndSize(srcK)
		var asInt64 int64
		if signed {
			asInt64 = signExtend(bits, size)
		} else {
			asInt64 = int64(truncateBits(bits, size))
		}
		switch d := dstK.(type) {
		case *ctype.Int, *ctype.Bool, *ctype.Enum, *ctype.Pointer:
			_ = d
			return NewValue(o.ctx, dst, asInt64)
		case *ctype.Float:
			f := float64(asInt64)
			if !signed {
				f = float64(uint64(bits))
			}
			return NewValue(o.ctx, dst, f)
		default:
			return nil, coreerr.New(coreerr.TypeMismatch, "cannot cast %s to %s", o.typ.String(), dst.String())
		}
	case *ctype.Pointer:
		addr, err := o.AddressValue()
		if err != nil {
			return nil, err
		}
		switch dstK.(type) {
		case *ctype.Int, *ctype.Bool, *ctype.Enum, *ctype.Pointer:
			return NewValue(o.ctx, dst, addr)
		default:
			return nil, coreerr.New(coreerr.TypeMismatch, "cannot cast pointer to %s", dst.String())
		}
	case *ctype.Float:
		f, err := o.rawFloat()
		if err != nil {
			return nil, err
		}
		switch d := dstK.(type) {
		case *ctype.Float:
			return NewValue(o.ctx, dst, f)
		case *ctype.Int, *ctype.Bool, *ctype.Enum:
			_ = d
			return NewValue(o.ctx, dst, int64(f)) // truncates toward zero, per Go's float->int conversion
		default:
			return nil, coreerr.New(coreerr.TypeMismatch, "cannot cast float to %s", dst.String())
		}
	default:
		return nil, coreerr.New(coreerr.TypeMismatch, "cannot cast %s", o.typ.String())
	}
}

// signednessAndSize reports the byte size and signedness an integer-like
// stripped type (Int, Bool, Enum) should be treated with for cast/promote
// purposes.
func signednessAndSize(t ctype.Type) (signed bool, size int64) {
	switch tt := t.(type) {
	case *ctype.Int:
		return tt.Signed, tt.ByteSize
	case *ctype.Bool:
		return false, 1
	case *ctype.Enum:
		s, sz := signednessAndSize(ctype.Strip(tt.Underlying))
		return s, sz
	default:
		return false, 8
	}
}
