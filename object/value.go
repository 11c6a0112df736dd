package object

import (
	"math"

	"github.com/corescope/core/coreerr"
	"github.com/corescope/core/ctype"
)

// rawBits returns the object's integer/bool/enum/pointer bit pattern,
// reading through the reader for a reference object.
func (o *Object) rawBits() (uint64, error) {
	if o.addr == nil {
		return o.bits, nil
	}
	size, err := sizeOf(o.ctx, o.typ)
	if err != nil {
		return 0, err
	}
	buf, err := o.ctx.Read(*o.addr, int(size))
	if err != nil {
		return 0, err
	}
	return decodeUint(buf, o.ctx.ByteOrder()), nil
}

// rawFloat returns the object's floating value, reading through the
// reader for a reference object.
func (o *Object) rawFloat() (float64, error) {
	if o.addr == nil {
		return o.fbits, nil
	}
	ft, ok := ctype.Strip(o.typ).(*ctype.Float)
	if !ok {
		return 0, coreerr.New(coreerr.TypeMismatch, "%s is not a floating type", o.typ.String())
	}
	buf, err := o.ctx.Read(*o.addr, int(ft.ByteSize))
	if err != nil {
		return 0, err
	}
	return decodeFloat(buf, ft.ByteSize, o.ctx.ByteOrder()), nil
}

func decodeUint(buf []byte, order interface {
	Uint16([]byte) uint16
	Uint32([]byte) uint32
	Uint64([]byte) uint64
}) uint64 {
	switch len(buf) {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(order.Uint16(buf))
	case 4:
		return uint64(order.Uint32(buf))
	case 8:
		return order.Uint64(buf)
	default:
		// Unusual width (e.g. a 3-byte type): assemble little-endian,
		// byte by byte. Big-endian images do not produce these in
		// practice (no bitfields are modeled by this core).
		var v uint64
		for i, b := range buf {
			v |= uint64(b) << (uint(i) * 8)
		}
		return v
	}
}

func decodeFloat(buf []byte, size int64, order interface {
	Uint32([]byte) uint32
	Uint64([]byte) uint64
}) float64 {
	if size == 4 {
		return float64(math.Float32frombits(order.Uint32(buf)))
	}
	return math.Float64frombits(order.Uint64(buf))
}

// signExtend reinterprets the low size*8 bits of bits as signed.
func signExtend(bits uint64, size int64) int64 {
	if size >= 8 {
		return int64(bits)
	}
	shift := uint(64 - size*8)
	return int64(bits<<shift) >> shift
}

// Value returns the object's value as a Go representation:
//
//   - integer/enum: int64 (signed) or uint64 (unsigned);
//   - bool: bool;
//   - float: float64;
//   - pointer: uint64 (the address);
//   - array: []interface{} of recursively-extracted element values;
//   - struct/union: map[string]interface{} of member values.
func (o *Object) Value() (interface{}, error) {
	switch st := ctype.Strip(o.typ).(type) {
	case *ctype.Bool:
		bits, err := o.rawBits()
		if err != nil {
			return nil, err
		}
		return bits != 0, nil
	case *ctype.Int:
		bits, err := o.rawBits()
		if err != nil {
			return nil, err
		}
		if st.Signed {
			return signExtend(bits, st.ByteSize), nil
		}
		return truncateBits(bits, st.ByteSize), nil
	case *ctype.Enum:
		bits, err := o.rawBits()
		if err != nil {
			return nil, err
		}
		u := ctype.Strip(st.Underlying)
		if it, ok := u.(*ctype.Int); ok && it.Signed {
			size, _ := sizeOf(o.ctx, st.Underlying)
			return signExtend(bits, size), nil
		}
		return bits, nil
	case *ctype.Float:
		return o.rawFloat()
	case *ctype.Pointer:
		bits, err := o.rawBits()
		if err != nil {
			return nil, err
		}
		return truncateBits(bits, st.TargetWidth), nil
	case *ctype.Array:
		elems, err := o.Elements()
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, len(elems))
		for i, e := range elems {
			v, err := e.Value()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *ctype.Struct:
		out := make(map[string]interface{}, len(st.Fields))
		for _, f := range st.Fields {
			m, err := o.Member(f.Name)
			if err != nil {
				return nil, err
			}
			v, err := m.Value()
			if err != nil {
				return nil, err
			}
			out[f.Name] = v
		}
		return out, nil
	default:
		return nil, coreerr.New(coreerr.TypeMismatch, "no value representation for kind %v", st.Kind())
	}
}

// AddressValue returns a pointer or reference object's address as an
// unsigned integer, without the kind-dependent wrapping Value() performs.
// It is the primitive pointer arithmetic and comparisons are built on.
func (o *Object) AddressValue() (uint64, error) {
	switch ctype.Strip(o.typ).(type) {
	case *ctype.Pointer:
		bits, err := o.rawBits()
		if err != nil {
			return 0, err
		}
		return bits, nil
	default:
		if o.addr != nil {
			return *o.addr, nil
		}
		return 0, coreerr.New(coreerr.TypeMismatch, "%s is not a pointer and has no address", o.typ.String())
	}
}

// Truthy implements bool(obj): integer/float/pointer values are truthy
// when nonzero; a null pointer is false.
func (o *Object) Truthy() (bool, error) {
	switch ctype.Strip(o.typ).(type) {
	case *ctype.Pointer:
		addr, err := o.AddressValue()
		if err != nil {
			return false, err
		}
		return addr != 0, nil
	case *ctype.Float:
		f, err := o.rawFloat()
		if err != nil {
			return false, err
		}
		return f != 0, nil
	case *ctype.Int, *ctype.Bool, *ctype.Enum:
		bits, err := o.rawBits()
		if err != nil {
			return false, err
		}
		return bits != 0, nil
	default:
		return false, coreerr.New(coreerr.TypeMismatch, "%s has no truth value", o.typ.String())
	}
}

// String implements string_(): extracting a Go string from a
// pointer-to-char or array-of-char object.
func (o *Object) String() (string, error) {
	switch st := ctype.Strip(o.typ).(type) {
	case *ctype.Pointer:
		if !isCharType(st.Elem) {
			return "", coreerr.New(coreerr.TypeMismatch, "string_() requires a char pointer, got %s", o.typ.String())
		}
		addr, err := o.AddressValue()
		if err != nil {
			return "", err
		}
		buf, err := o.ctx.ReadCString(addr, 1<<20)
		if err != nil {
			return "", err
		}
		return string(buf), nil
	case *ctype.Array:
		if !isCharType(st.Elem) {
			return "", coreerr.New(coreerr.TypeMismatch, "string_() requires an array of char, got %s", o.typ.String())
		}
		if o.addr != nil {
			if st.Length == nil {
				buf, err := o.ctx.ReadCString(*o.addr, 1<<20)
				if err != nil {
					return "", err
				}
				return string(buf), nil
			}
			buf, err := o.ctx.Read(*o.addr, int(*st.Length))
			if err != nil {
				return "", err
			}
			return string(trimNul(buf)), nil
		}
		bs := make([]byte, len(o.elems))
		for i, e := range o.elems {
			v, err := e.Value()
			if err != nil {
				return "", err
			}
			iv, _ := v.(int64)
			bs[i] = byte(iv)
		}
		return string(trimNul(bs)), nil
	default:
		return "", coreerr.New(coreerr.TypeMismatch, "string_() is not defined for %s", o.typ.String())
	}
}

func trimNul(buf []byte) []byte {
	for i, b := range buf {
		if b == 0 {
			return buf[:i]
		}
	}
	return buf
}

func isCharType(t ctype.Type) bool {
	it, ok := ctype.Strip(t).(*ctype.Int)
	return ok && it.ByteSize == 1
}
