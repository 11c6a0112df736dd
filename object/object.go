// Package object implements ProgramObject: the typed, C-semantics value
// that every evaluation in the core produces and consumes. An Object is
// either a reference object (backed by an address in the image) or a
// value object (a synthesized value with no address); see NewReference
// and NewValue.
package object

import (
	"encoding/binary"

	"github.com/corescope/core/coreerr"
	"github.com/corescope/core/ctype"
)

// Context is the slice of Program an Object needs to read memory and
// consult the type catalogue. It is implemented by *corescope.Program;
// object does not import corescope to avoid a dependency cycle (Program
// itself constructs and returns Objects). Two Objects are considered part
// of the same program when their Context values compare equal, so
// implementations should be a pointer type.
type Context interface {
	Read(addr uint64, length int) ([]byte, error)
	ReadCString(addr uint64, maxLen int) ([]byte, error)
	Catalogue() *ctype.Catalogue
	ByteOrder() binary.ByteOrder
}

// Object is a ProgramObject: a value of a C type, either anchored to an
// address in the image (a reference object) or holding a synthesized
// value (a value object). Objects are immutable after construction; every
// operation below that looks like a mutation returns a new Object.
type Object struct {
	ctx  Context
	typ  ctype.Type
	addr *uint64 // nil for a value object

	// Value-object storage. Exactly one of these is meaningful, selected
	// by ctype.Strip(typ)'s kind; reference objects leave all of them
	// zero and read through ctx instead.
	bits    uint64    // integer/bool/enum/pointer bit pattern (two's complement)
	fbits   float64   // float value
	elems   []*Object // array elements, len == array length
	members []*Object // struct/union member values, parallel to typ's Fields
}

// Type returns the object's C type, exactly as given at construction
// (including any typedef/qualifier wrapping).
func (o *Object) Type() ctype.Type { return o.typ }

// Context returns the Program (or other Context) this object belongs to.
func (o *Object) Context() Context { return o.ctx }

// IsReference reports whether o is a reference object (backed by an
// address), as opposed to a value object.
func (o *Object) IsReference() bool { return o.addr != nil }

func sizeOf(ctx Context, t ctype.Type) (int64, error) {
	return ctx.Catalogue().SizeOf(t)
}

// NewReference builds a reference object of type t at address addr. t
// must be non-void, but need not be complete: an unknown-length array or
// an incomplete struct may be referenced, per spec.md §3 ("every type has
// a well-defined size except unknown-length arrays and incomplete
// structs") — it is only the operations that need a length or a size that
// fail, not construction itself: Len and Elements on an unknown-length
// array fail with UnboundedIteration, and anything that needs the type's
// size fails with IncompleteType.
func NewReference(ctx Context, t ctype.Type, addr uint64) (*Object, error) {
	if _, ok := ctype.Strip(t).(*ctype.Void); ok {
		return nil, coreerr.New(coreerr.TypeMismatch, "cannot construct an object of type void")
	}
	a := addr
	return &Object{ctx: ctx, typ: t, addr: &a}, nil
}

func checkCompleteNonVoid(ctx Context, t ctype.Type) error {
	if _, ok := ctype.Strip(t).(*ctype.Void); ok {
		return coreerr.New(coreerr.TypeMismatch, "cannot construct an object of type void")
	}
	_, err := ctx.Catalogue().SizeOf(t)
	return err
}

// NewValue builds a value object of type t holding v. The accepted Go
// representation of v depends on Strip(t)'s kind:
//
//   - integer, bool, enum: any of the signed/unsigned Go integer kinds,
//     reduced modulo 2^width and reinterpreted per t's signedness;
//   - float: float64 or float32;
//   - pointer: a uint64 (or any Go integer kind) holding the pointee
//     address;
//   - array: []*Object (already-built element objects, len must equal
//     the array's length if known);
//   - struct/union: []*Object in field declaration order (one per
//     t.Fields entry).
func NewValue(ctx Context, t ctype.Type, v interface{}) (*Object, error) {
	if err := checkCompleteNonVoid(ctx, t); err != nil {
		return nil, err
	}
	o := &Object{ctx: ctx, typ: t}
	switch st := ctype.Strip(t).(type) {
	case *ctype.Bool:
		i, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		if i != 0 {
			o.bits = 1
		}
		return o, nil
	case *ctype.Int:
		i, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		o.bits = truncateBits(uint64(i), st.ByteSize)
		return o, nil
	case *ctype.Enum:
		i, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		size, _ := sizeOf(ctx, st.Underlying)
		o.bits = truncateBits(uint64(i), size)
		return o, nil
	case *ctype.Pointer:
		i, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		o.bits = truncateBits(uint64(i), st.TargetWidth)
		return o, nil
	case *ctype.Float:
		f, err := toFloat64(v)
		if err != nil {
			return nil, err
		}
		if st.ByteSize == 4 {
			f = float64(float32(f))
		}
		o.fbits = f
		return o, nil
	case *ctype.Array:
		elems, ok := v.([]*Object)
		if !ok {
			return nil, coreerr.New(coreerr.TypeMismatch, "array value must be []*Object, got %T", v)
		}
		if st.Length != nil && int64(len(elems)) != *st.Length {
			return nil, coreerr.New(coreerr.TypeMismatch,
				"array of length %d given %d elements", *st.Length, len(elems))
		}
		o.elems = elems
		return o, nil
	case *ctype.Struct:
		members, ok := v.([]*Object)
		if !ok {
			return nil, coreerr.New(coreerr.TypeMismatch, "struct value must be []*Object, got %T", v)
		}
		if len(members) != len(st.Fields) {
			return nil, coreerr.New(coreerr.TypeMismatch,
				"%s has %d members, given %d", st.String(), len(st.Fields), len(members))
		}
		o.members = members
		return o, nil
	default:
		return nil, coreerr.New(coreerr.TypeMismatch, "cannot construct a value object of kind %v", st.Kind())
	}
}

// NewZero builds the zero-valued value object of t: every scalar member or
// element is zero, recursively. This is the representation of an array or
// struct object constructed with neither an address nor a value, which
// the catalogue permits for aggregate types (see Program.Object).
func NewZero(ctx Context, t ctype.Type) (*Object, error) {
	switch st := ctype.Strip(t).(type) {
	case *ctype.Array:
		if st.Length == nil {
			return nil, coreerr.New(coreerr.IncompleteType, "cannot zero-initialize an incomplete array")
		}
		elems := make([]*Object, *st.Length)
		for i := range elems {
			e, err := NewZero(ctx, st.Elem)
			if err != nil {
				return nil, err
			}
			elems[i] = e
		}
		return NewValue(ctx, t, elems)
	case *ctype.Struct:
		if st.Incomplete {
			return nil, coreerr.New(coreerr.IncompleteType, "cannot zero-initialize incomplete %s", st.String())
		}
		members := make([]*Object, len(st.Fields))
		for i, f := range st.Fields {
			m, err := NewZero(ctx, f.Type())
			if err != nil {
				return nil, err
			}
			members[i] = m
		}
		return NewValue(ctx, t, members)
	case *ctype.Float:
		return NewValue(ctx, t, float64(0))
	default:
		return NewValue(ctx, t, int64(0))
	}
}

func truncateBits(v uint64, size int64) uint64 {
	if size >= 8 {
		return v
	}
	mask := uint64(1)<<(uint(size)*8) - 1
	return v & mask
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, coreerr.New(coreerr.TypeMismatch, "cannot use %T as an integer value", v)
	}
}

func toFloat64(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, coreerr.New(coreerr.TypeMismatch, "cannot use %T as a float value", v)
	}
}
