// Package ctype implements the C type system used by the evaluation core:
// a tagged variant of integer, floating, boolean, pointer, array,
// struct/union, enum, typedef and qualified types, plus a Catalogue that
// constructs and memoizes derived types and a set of C11 §6.3 conversion
// rules (see conversions.go).
package ctype

import "fmt"

// Kind discriminates the variant of a Type.
type Kind int

const (
	KindVoid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindPointer
	KindArray
	KindStruct
	KindUnion
	KindEnum
	KindTypedef
	KindQualified
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindEnum:
		return "enum"
	case KindTypedef:
		return "typedef"
	case KindQualified:
		return "qualified"
	default:
		return "unknown"
	}
}

// Qualifier is a bitset of C type qualifiers. Qualifiers are ignored for
// arithmetic but preserved for rendering.
type Qualifier uint8

const (
	Const Qualifier = 1 << iota
	Volatile
	Restrict
	Atomic
)

func (q Qualifier) String() string {
	s := ""
	for _, p := range []struct {
		bit  Qualifier
		name string
	}{{Const, "const"}, {Volatile, "volatile"}, {Restrict, "restrict"}, {Atomic, "_Atomic"}} {
		if q&p.bit != 0 {
			if s != "" {
				s += " "
			}
			s += p.name
		}
	}
	return s
}

// Type is the common interface implemented by every variant.
type Type interface {
	Kind() Kind
	// String renders the type the way a C declaration would spell it,
	// e.g. "int", "struct foo *", "const char [8]".
	String() string
}

// Void represents C's incomplete void type, used only as a pointer
// referent (void *) or a function's return type (not modeled here).
type Void struct{}

func (*Void) Kind() Kind    { return KindVoid }
func (*Void) String() string { return "void" }

// Int is a signed or unsigned integer type of a given byte width.
type Int struct {
	TypeName string // C spelling, e.g. "int", "unsigned long"
	ByteSize int64
	Signed   bool
}

func (t *Int) Kind() Kind { return KindInt }
func (t *Int) String() string {
	if t.TypeName != "" {
		return t.TypeName
	}
	sign := "unsigned"
	if t.Signed {
		sign = "signed"
	}
	return fmt.Sprintf("%s int%d_t", sign, t.ByteSize*8)
}

// Float is an IEEE-754 binary32 or binary64 floating type.
type Float struct {
	TypeName string
	ByteSize int64 // 4 or 8
}

func (t *Float) Kind() Kind { return KindFloat }
func (t *Float) String() string {
	if t.TypeName != "" {
		return t.TypeName
	}
	return fmt.Sprintf("float%d_t", t.ByteSize*8)
}

// Bool is C's one-byte, 0/1-valued _Bool.
type Bool struct{}

func (*Bool) Kind() Kind     { return KindBool }
func (*Bool) String() string { return "_Bool" }

// Pointer is a pointer to a referent type. TargetWidth is the pointer's own
// byte width on the target architecture (usually 4 or 8).
type Pointer struct {
	Elem        Type
	TargetWidth int64
}

func (t *Pointer) Kind() Kind { return KindPointer }
func (t *Pointer) String() string {
	return t.Elem.String() + " *"
}

// Array is an array of a known or unknown number of elements. Length is nil
// for an incomplete (unknown-length) array.
type Array struct {
	Elem   Type
	Length *int64
}

func (t *Array) Kind() Kind { return KindArray }
func (t *Array) String() string {
	if t.Length == nil {
		return t.Elem.String() + " []"
	}
	return fmt.Sprintf("%s [%d]", t.Elem.String(), *t.Length)
}

// Field is one member of a struct or union: a name, a byte offset (always 0
// for union members), and a lazily-resolved type to support cyclic type
// graphs (a struct containing a pointer to its own type).
type Field struct {
	Name   string
	Offset int64

	typeFn   func() Type
	resolved Type
}

// NewField builds a Field whose type is resolved eagerly.
func NewField(name string, offset int64, t Type) *Field {
	return &Field{Name: name, Offset: offset, resolved: t}
}

// NewLazyField builds a Field whose type is resolved on first access and
// memoized, letting the catalogue build recursive/cyclic struct graphs.
func NewLazyField(name string, offset int64, thunk func() Type) *Field {
	return &Field{Name: name, Offset: offset, typeFn: thunk}
}

// Type resolves (and memoizes) the field's type.
func (f *Field) Type() Type {
	if f.resolved == nil {
		f.resolved = f.typeFn()
	}
	return f.resolved
}

// Struct is a struct or union type. Union is true for a union (all members
// share offset 0). Name is optional (anonymous struct/union types have
// Name == ""). Incomplete marks a forward-declared struct with no known
// layout; Size/Align/Fields are meaningless until it is completed.
type Struct struct {
	Name       string
	Union      bool
	Size       int64
	Align      int64 // 0 means "derive from members"
	Fields     []*Field
	Incomplete bool
}

func (t *Struct) Kind() Kind {
	if t.Union {
		return KindUnion
	}
	return KindStruct
}

func (t *Struct) String() string {
	kw := "struct"
	if t.Union {
		kw = "union"
	}
	if t.Name == "" {
		return kw
	}
	return kw + " " + t.Name
}

// Field looks up a member by name, returning nil if absent.
func (t *Struct) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Enum is an enumeration: a named underlying integer type plus named
// constants.
type Enum struct {
	Name       string
	Underlying Type // an *Int (or *Bool, uncommon)
	Constants  []EnumConstant
}

// EnumConstant is one named value of an Enum.
type EnumConstant struct {
	Name  string
	Value int64
}

func (t *Enum) Kind() Kind { return KindEnum }
func (t *Enum) String() string {
	if t.Name == "" {
		return "enum"
	}
	return "enum " + t.Name
}

// Typedef is a named alias for an underlying type.
type Typedef struct {
	Name       string
	Underlying Type
}

func (t *Typedef) Kind() Kind     { return KindTypedef }
func (t *Typedef) String() string { return t.Name }

// Qualified wraps an underlying type with one or more C qualifiers.
// Qualifiers never affect size, alignment or arithmetic; they are preserved
// only for rendering and for round-tripping a declaration's spelling.
type Qualified struct {
	Underlying Type
	Quals      Qualifier
}

func (t *Qualified) Kind() Kind { return KindQualified }
func (t *Qualified) String() string {
	return t.Quals.String() + " " + t.Underlying.String()
}

// Strip removes all Typedef and Qualified layers, returning the underlying
// concrete type. Strip(Strip(t)) == Strip(t) for any t.
func Strip(t Type) Type {
	for {
		switch tt := t.(type) {
		case *Typedef:
			t = tt.Underlying
		case *Qualified:
			t = tt.Underlying
		default:
			return t
		}
	}
}

// Qualifiers returns the accumulated qualifier set on t (possibly 0),
// looking through any Typedef layers above the Qualified one.
func Qualifiers(t Type) Qualifier {
	var q Qualifier
	for {
		switch tt := t.(type) {
		case *Typedef:
			t = tt.Underlying
		case *Qualified:
			q |= tt.Quals
			t = tt.Underlying
		default:
			return q
		}
	}
}

// IsInteger reports whether Strip(t) is an integer, boolean, or enum type
// (all of which participate in integer promotion).
func IsInteger(t Type) bool {
	switch Strip(t).(type) {
	case *Int, *Bool, *Enum:
		return true
	}
	return false
}

// IsFloat reports whether Strip(t) is a floating type.
func IsFloat(t Type) bool {
	_, ok := Strip(t).(*Float)
	return ok
}

// IsArithmetic reports whether Strip(t) is an integer or floating type.
func IsArithmetic(t Type) bool {
	return IsInteger(t) || IsFloat(t)
}

// IsPointer reports whether Strip(t) is a pointer type.
func IsPointer(t Type) bool {
	_, ok := Strip(t).(*Pointer)
	return ok
}

// Equal reports whether a and b are the same C type: structurally equal
// after stripping typedefs/qualifiers for every kind except named
// struct/union/enum types, which compare by catalogue identity.
func Equal(a, b Type) bool {
	a, b = Strip(a), Strip(b)
	switch at := a.(type) {
	case *Void:
		_, ok := b.(*Void)
		return ok
	case *Int:
		bt, ok := b.(*Int)
		return ok && at.ByteSize == bt.ByteSize && at.Signed == bt.Signed
	case *Float:
		bt, ok := b.(*Float)
		return ok && at.ByteSize == bt.ByteSize
	case *Bool:
		_, ok := b.(*Bool)
		return ok
	case *Pointer:
		bt, ok := b.(*Pointer)
		return ok && Equal(at.Elem, bt.Elem)
	case *Array:
		bt, ok := b.(*Array)
		if !ok || !Equal(at.Elem, bt.Elem) {
			return false
		}
		if (at.Length == nil) != (bt.Length == nil) {
			return false
		}
		return at.Length == nil || *at.Length == *bt.Length
	case *Struct:
		bt, ok := b.(*Struct)
		return ok && at == bt
	case *Enum:
		bt, ok := b.(*Enum)
		return ok && at == bt
	default:
		return false
	}
}
