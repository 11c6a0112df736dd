package object

import (
	"github.com/corescope/core/coreerr"
	"github.com/corescope/core/ctype"
)

func (o *Object) structType() (*ctype.Struct, error) {
	st, ok := ctype.Strip(o.typ).(*ctype.Struct)
	if !ok {
		return nil, coreerr.New(coreerr.TypeMismatch, "%s is not a struct or union", o.typ.String())
	}
	return st, nil
}

// HasMember reports whether o's type has a member of the given name.
func (o *Object) HasMember(name string) bool {
	st, err := o.structType()
	if err != nil {
		return false
	}
	return st.Field(name) != nil
}

// MemberNames returns the declared member names of o's struct/union type,
// in declaration order.
func (o *Object) MemberNames() ([]string, error) {
	st, err := o.structType()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(st.Fields))
	for i, f := range st.Fields {
		names[i] = f.Name
	}
	return names, nil
}

// Member implements member_(name): struct/union member access that never
// auto-dereferences a pointer. See Attr for the auto-dereferencing variant.
func (o *Object) Member(name string) (*Object, error) {
	st, err := o.structType()
	if err != nil {
		return nil, err
	}
	f := st.Field(name)
	if f == nil {
		return nil, coreerr.New(coreerr.UnknownMember, "%s has no member %q", o.typ.String(), name)
	}
	if o.addr != nil {
		return NewReference(o.ctx, f.Type(), *o.addr+uint64(f.Offset))
	}
	idx := fieldIndex(st, name)
	return o.members[idx], nil
}

func fieldIndex(st *ctype.Struct, name string) int {
	for i, f := range st.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Attr implements attribute-style member access: like Member, but first
// auto-dereferences a single level of pointer-to-struct/union, matching
// C's `->` operator applied implicitly. Attr(o, name) on a plain
// struct/union behaves exactly like Member.
func (o *Object) Attr(name string) (*Object, error) {
	if ptr, ok := ctype.Strip(o.typ).(*ctype.Pointer); ok {
		if _, ok := ctype.Strip(ptr.Elem).(*ctype.Struct); ok {
			deref, err := o.Deref()
			if err != nil {
				return nil, err
			}
			return deref.Member(name)
		}
	}
	return o.Member(name)
}

// Deref dereferences a pointer object, yielding a reference object at the
// pointee address.
func (o *Object) Deref() (*Object, error) {
	ptr, ok := ctype.Strip(o.typ).(*ctype.Pointer)
	if !ok {
		return nil, coreerr.New(coreerr.TypeMismatch, "%s is not a pointer", o.typ.String())
	}
	addr, err := o.AddressValue()
	if err != nil {
		return nil, err
	}
	return NewReference(o.ctx, ptr.Elem, addr)
}

// Index implements obj[i]: defined for pointer and array objects. For a
// reference array, bounds are not checked (matching C), but Elements()
// honors the declared length for iteration. A value array holds only its
// stored elements, so an out-of-range index on it fails with TypeMismatch.
func (o *Object) Index(i int64) (*Object, error) {
	switch st := ctype.Strip(o.typ).(type) {
	case *ctype.Pointer:
		base, err := o.AddressValue()
		if err != nil {
			return nil, err
		}
		elemSize, err := sizeOf(o.ctx, st.Elem)
		if err != nil {
			return nil, err
		}
		return NewReference(o.ctx, st.Elem, uint64(int64(base)+i*elemSize))
	case *ctype.Array:
		if o.addr != nil {
			elemSize, err := sizeOf(o.ctx, st.Elem)
			if err != nil {
				return nil, err
			}
			return NewReference(o.ctx, st.Elem, uint64(int64(*o.addr)+i*elemSize))
		}
		if i < 0 || int(i) >= len(o.elems) {
			return nil, coreerr.New(coreerr.TypeMismatch, "index %d out of range for %d-element value array", i, len(o.elems))
		}
		return o.elems[i], nil
	default:
		return nil, coreerr.New(coreerr.TypeMismatch, "%s is not indexable", o.typ.String())
	}
}

// Len returns an array object's element count. Only arrays of known
// length have a length; a pointer or an unknown-length array fails with
// UnboundedIteration, and any other kind with TypeMismatch.
func (o *Object) Len() (int64, error) {
	arr, ok := ctype.Strip(o.typ).(*ctype.Array)
	if !ok {
		if ctype.IsPointer(o.typ) {
			return 0, coreerr.New(coreerr.UnboundedIteration, "pointer %s has no len()", o.typ.String())
		}
		return 0, coreerr.New(coreerr.TypeMismatch, "%s is not an array", o.typ.String())
	}
	if arr.Length == nil {
		return 0, coreerr.New(coreerr.UnboundedIteration, "array of unknown length has no len()")
	}
	return *arr.Length, nil
}

// Elements returns the array's elements in order. Only arrays of known
// length are iterable; a pointer or unknown-length array fails with
// UnboundedIteration.
func (o *Object) Elements() ([]*Object, error) {
	n, err := o.Len()
	if err != nil {
		return nil, err
	}
	elems := make([]*Object, n)
	for i := range elems {
		e, err := o.Index(int64(i))
		if err != nil {
			return nil, err
		}
		elems[i] = e
	}
	return elems, nil
}

// AddressOf implements address_of_(): a reference object yields a pointer
// value object of type pointer(T) holding its base address. Value objects
// have no address.
func (o *Object) AddressOf() (*Object, error) {
	if o.addr == nil {
		return nil, coreerr.New(coreerr.NoAddress, "value object of type %s has no address", o.typ.String())
	}
	ptrT := o.ctx.Catalogue().Pointer(o.typ)
	return NewValue(o.ctx, ptrT, *o.addr)
}

// ContainerOf implements p.container_of_(structType, member): given a
// pointer p to member of structType, returns a pointer to the enclosing
// struct by subtracting the member's offset from p's address.
func (o *Object) ContainerOf(structType ctype.Type, member string) (*Object, error) {
	ptr, ok := ctype.Strip(o.typ).(*ctype.Pointer)
	if !ok {
		return nil, coreerr.New(coreerr.TypeMismatch, "container_of requires a pointer, got %s", o.typ.String())
	}
	st, ok := ctype.Strip(structType).(*ctype.Struct)
	if !ok {
		return nil, coreerr.New(coreerr.TypeMismatch, "container_of target %s is not a struct", structType.String())
	}
	f := st.Field(member)
	if f == nil {
		return nil, coreerr.New(coreerr.UnknownMember, "%s has no member %q", structType.String(), member)
	}
	if !ctype.Equal(ptr.Elem, f.Type()) {
		return nil, coreerr.New(coreerr.TypeMismatch,
			"pointer referent %s does not match %s.%s's type %s", ptr.Elem.String(), structType.String(), member, f.Type().String())
	}
	addr, err := o.AddressValue()
	if err != nil {
		return nil, err
	}
	outPtr := o.ctx.Catalogue().Pointer(structType)
	return NewValue(o.ctx, outPtr, uint64(int64(addr)-f.Offset))
}

// ContainerOf is the free-function form of (*Object).ContainerOf, matching
// the spec's container_of(obj, struct_type, member) external entry point.
func ContainerOf(o *Object, structType ctype.Type, member string) (*Object, error) {
	return o.ContainerOf(structType, member)
}
