package ctype

import (
	"github.com/corescope/core/coreerr"
	"go.uber.org/zap/zapcore"
)

// ptrKey and arrKey let Catalogue memoize derived Pointer/Array types so
// that two requests for "pointer to struct foo" return the identical
// *Pointer instance (and so compare == under Go's == as well as Equal).
type ptrKey struct{ elem Type }
type arrKey struct {
	elem      Type
	length    int64
	hasLength bool
}

// Catalogue owns the named base and aggregate types visible to the
// evaluator (the TypeCatalogue of the spec) and memoizes derived pointer
// and array types. A Catalogue is built once at program-load time and is
// read-only (and safe for concurrent reads) thereafter; Register must not
// be called after the catalogue is shared across goroutines.
type Catalogue struct {
	pointerWidth int64

	// IntType is the catalogue's canonical `int`, the target of integer
	// promotion (see Promote/UsualArithmeticConversions). It is nil until
	// set by NewStandardCatalogue or by assigning this field directly.
	IntType *Int

	named map[string]Type
	ptrs  map[ptrKey]*Pointer
	arrs  map[arrKey]*Array
}

// NewCatalogue builds an empty Catalogue. pointerWidth is the byte width of
// every pointer type the catalogue constructs (4 or 8).
func NewCatalogue(pointerWidth int64) *Catalogue {
	return &Catalogue{
		pointerWidth: pointerWidth,
		named:        make(map[string]Type),
		ptrs:         make(map[ptrKey]*Pointer),
		arrs:         make(map[arrKey]*Array),
	}
}

// PointerWidth reports the byte width of pointers in this catalogue.
func (c *Catalogue) PointerWidth() int64 { return c.pointerWidth }

// Register adds or replaces a named type, keyed the way Find expects it:
// base types by their bare spelling ("int", "unsigned long"), aggregates
// prefixed by keyword ("struct foo", "union bar", "enum baz"), and typedefs
// by their bare name.
func (c *Catalogue) Register(key string, t Type) {
	c.named[key] = t
}

// Find looks up a named type previously registered with Register.
func (c *Catalogue) Find(key string) (Type, error) {
	t, ok := c.named[key]
	if !ok {
		return nil, coreerr.New(coreerr.SymbolNotFound, "no type named %q in catalogue", key)
	}
	return t, nil
}

// MustFind is Find but panics on failure; intended for wiring up the small,
// always-present set of standard base types at catalogue-construction time.
func (c *Catalogue) MustFind(key string) Type {
	t, err := c.Find(key)
	if err != nil {
		panic(err)
	}
	return t
}

// Pointer returns the (memoized) pointer-to-elem type.
func (c *Catalogue) Pointer(elem Type) *Pointer {
	k := ptrKey{elem: elem}
	if p, ok := c.ptrs[k]; ok {
		return p
	}
	p := &Pointer{Elem: elem, TargetWidth: c.pointerWidth}
	c.ptrs[k] = p
	return p
}

// Array returns the (memoized) array-of-elem type. A nil length builds an
// incomplete (unknown-length) array type.
func (c *Catalogue) Array(elem Type, length *int64) *Array {
	k := arrKey{elem: elem}
	if length != nil {
		k.length = *length
		k.hasLength = true
	}
	if a, ok := c.arrs[k]; ok {
		return a
	}
	a := &Array{Elem: elem, Length: length}
	c.arrs[k] = a
	return a
}

// Entry is a named type pending registration, the unit LoadEntries
// validates and installs one at a time.
type Entry struct {
	Key  string
	Type Type
}

// Summary is a zapcore.ObjectMarshaler summary of a type's kind, size and
// signedness, logged by a caller (see corescope.Program.LoadCatalogueEntries)
// when LoadEntries rejects a malformed entry, so the log line carries
// structured fields instead of a bare string.
type Summary struct {
	Key    string
	Kind   Kind
	Size   int64
	Signed bool
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s Summary) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("key", s.Key)
	enc.AddString("kind", s.Kind.String())
	enc.AddInt64("size", s.Size)
	enc.AddBool("signed", s.Signed)
	return nil
}

// Summarize builds the Summary for a named pending entry.
func Summarize(key string, t Type) Summary {
	size, signed := IntRank(t)
	return Summary{Key: key, Kind: Strip(t).Kind(), Size: size, Signed: signed}
}

// Validate reports whether t is well-formed enough to register: scalar
// byte sizes are positive, floating sizes are 4 or 8 bytes, a known array
// length is non-negative, and struct/union fields don't collide on name.
// It does not require completeness (see NewReference's doc in object) —
// an incomplete struct or unknown-length array is a valid, useful entry.
func (c *Catalogue) Validate(t Type) error {
	switch tt := Strip(t).(type) {
	case *Int:
		if tt.ByteSize <= 0 {
			return coreerr.New(coreerr.InvalidConstruction, "integer type %q has non-positive size %d", tt.TypeName, tt.ByteSize)
		}
	case *Float:
		if tt.ByteSize != 4 && tt.ByteSize != 8 {
			return coreerr.New(coreerr.InvalidConstruction, "floating type %q has unsupported size %d", tt.TypeName, tt.ByteSize)
		}
	case *Array:
		if tt.Length != nil && *tt.Length < 0 {
			return coreerr.New(coreerr.InvalidConstruction, "array has negative length %d", *tt.Length)
		}
	case *Struct:
		seen := make(map[string]bool, len(tt.Fields))
		for _, f := range tt.Fields {
			if seen[f.Name] {
				return coreerr.New(coreerr.InvalidConstruction, "%s declares member %q twice", tt.String(), f.Name)
			}
			seen[f.Name] = true
		}
	}
	return nil
}

// LoadEntries registers every well-formed entry and, for each malformed
// one, calls reject with its key, type, and validation error instead of
// aborting the whole batch — a catalogue built from many DWARF/ELF-derived
// entries should not fail entirely because one entry is corrupt. It
// returns the number of entries successfully registered.
func (c *Catalogue) LoadEntries(entries []Entry, reject func(key string, t Type, err error)) int {
	loaded := 0
	for _, e := range entries {
		if err := c.Validate(e.Type); err != nil {
			if reject != nil {
				reject(e.Key, e.Type, err)
			}
			continue
		}
		c.Register(e.Key, e.Type)
		loaded++
	}
	return loaded
}

// Strip is Catalogue.Strip for API parity with the other per-type
// operations; it forwards to the package-level, state-free Strip.
func (c *Catalogue) Strip(t Type) Type { return Strip(t) }

// SizeOf returns the byte size of t, or IncompleteType if t (after
// stripping typedefs/qualifiers) has no known size: an incomplete struct,
// a forward-declared union, or an array of unknown length.
func (c *Catalogue) SizeOf(t Type) (int64, error) {
	switch tt := Strip(t).(type) {
	case *Void:
		return 0, coreerr.New(coreerr.IncompleteType, "size of void is undefined")
	case *Int:
		return tt.ByteSize, nil
	case *Float:
		return tt.ByteSize, nil
	case *Bool:
		return 1, nil
	case *Pointer:
		return tt.TargetWidth, nil
	case *Enum:
		return c.SizeOf(tt.Underlying)
	case *Array:
		if tt.Length == nil {
			return 0, coreerr.New(coreerr.IncompleteType, "size of incomplete array %s is undefined", tt.String())
		}
		elemSize, err := c.SizeOf(tt.Elem)
		if err != nil {
			return 0, err
		}
		return *tt.Length * elemSize, nil
	case *Struct:
		if tt.Incomplete {
			return 0, coreerr.New(coreerr.IncompleteType, "size of incomplete %s is undefined", tt.String())
		}
		return tt.Size, nil
	default:
		return 0, coreerr.New(coreerr.TypeMismatch, "no size for type kind %v", t.Kind())
	}
}

// AlignOf returns the byte alignment of t, following the same completeness
// rules as SizeOf. A Struct's alignment is its declared Align field if set,
// else the maximum alignment of its members.
func (c *Catalogue) AlignOf(t Type) (int64, error) {
	switch tt := Strip(t).(type) {
	case *Array:
		if tt.Length == nil {
			return 0, coreerr.New(coreerr.IncompleteType, "alignment of incomplete array %s is undefined", tt.String())
		}
		return c.AlignOf(tt.Elem)
	case *Enum:
		return c.AlignOf(tt.Underlying)
	case *Struct:
		if tt.Incomplete {
			return 0, coreerr.New(coreerr.IncompleteType, "alignment of incomplete %s is undefined", tt.String())
		}
		if tt.Align != 0 {
			return tt.Align, nil
		}
		var max int64 = 1
		for _, f := range tt.Fields {
			ft := f.Type()
			if arr, ok := Strip(ft).(*Array); ok {
				// A flexible array member aligns like its element.
				ft = arr.Elem
			}
			a, err := c.AlignOf(ft)
			if err != nil {
				return 0, err
			}
			if a > max {
				max = a
			}
		}
		return max, nil
	default:
		// Every other kind's alignment equals its size on the common
		// architectures this core targets (natural alignment).
		return c.SizeOf(t)
	}
}
