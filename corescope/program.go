// Package corescope assembles the CoreReader, TypeCatalogue and
// ProgramObject layers into the Program facade: the external entry point
// clients use to read variables and construct typed objects out of a
// memory image.
package corescope

import (
	"encoding/binary"

	"go.uber.org/zap"

	"github.com/corescope/core/coreerr"
	"github.com/corescope/core/coreimage"
	"github.com/corescope/core/ctype"
	"github.com/corescope/core/object"
)

// SymbolResolver materializes a global variable's type and address on
// demand, e.g. from a DWARF symbol table. It fails with SymbolNotFound
// when the name is unknown.
type SymbolResolver func(name string) (ctype.Type, uint64, error)

// Program is the evaluation core's external facade: an immutable,
// concurrency-safe combination of a byte image, a type catalogue, a byte
// order, and an optional symbol resolver. Program implements
// object.Context, so every ProgramObject it constructs reads back through
// it.
type Program struct {
	reader  *coreimage.Reader
	cat     *ctype.Catalogue
	order   binary.ByteOrder
	resolve SymbolResolver
	log     *zap.Logger
}

// Option configures a Program at construction time.
type Option func(*Program)

// WithByteOrder sets the Program's multi-byte integer load order. Images
// default to little-endian, the overwhelmingly common case for the
// architectures this core targets.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(p *Program) { p.order = order }
}

// WithSymbolResolver installs the function Program.Variable uses to find
// global variables by name.
func WithSymbolResolver(resolve SymbolResolver) Option {
	return func(p *Program) { p.resolve = resolve }
}

// WithLogger installs a structured logger for best-effort diagnostics
// (e.g. symbol resolution, catalogue population). Operations never
// fail because of a logging problem; the logger is never consulted on the
// hot arithmetic path. Defaults to zap.NewNop().
func WithLogger(log *zap.Logger) Option {
	return func(p *Program) { p.log = log }
}

// NewProgram builds a Program over reader and cat, the pre-parsed image
// segments and type catalogue described in the external interfaces.
func NewProgram(reader *coreimage.Reader, cat *ctype.Catalogue, opts ...Option) *Program {
	p := &Program{
		reader: reader,
		cat:    cat,
		order:  binary.LittleEndian,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Read implements object.Context.
func (p *Program) Read(addr uint64, length int) ([]byte, error) {
	return p.reader.Read(addr, length)
}

// ReadCString implements object.Context.
func (p *Program) ReadCString(addr uint64, maxLen int) ([]byte, error) {
	return p.reader.ReadCString(addr, maxLen)
}

// Catalogue implements object.Context.
func (p *Program) Catalogue() *ctype.Catalogue { return p.cat }

// ByteOrder implements object.Context.
func (p *Program) ByteOrder() binary.ByteOrder { return p.order }

// Variable resolves name to a reference object at its symbol's address.
func (p *Program) Variable(name string) (*object.Object, error) {
	if p.resolve == nil {
		return nil, coreerr.New(coreerr.SymbolNotFound, "program has no symbol resolver configured")
	}
	typ, addr, err := p.resolve(name)
	if err != nil {
		p.log.Debug("symbol resolution failed", zap.String("symbol", name), zap.Error(err))
		return nil, err
	}
	p.log.Debug("resolved global variable", zap.String("symbol", name), zap.Uint64("address", addr))
	return object.NewReference(p, typ, addr)
}

// Object builds a ProgramObject of type t. Exactly one of address or value
// should be non-nil for scalar types; both nil is permitted only for
// array/struct types, which are then zero-initialized (see
// object.NewZero). Passing both address and value, or neither for any
// other type, is InvalidConstruction.
func (p *Program) Object(t ctype.Type, address *uint64, value interface{}) (*object.Object, error) {
	switch {
	case address != nil && value != nil:
		return nil, coreerr.New(coreerr.InvalidConstruction, "object %s given both an address and a value", t.String())
	case address != nil:
		return object.NewReference(p, t, *address)
	case value != nil:
		return object.NewValue(p, t, value)
	default:
		switch ctype.Strip(t).(type) {
		case *ctype.Array, *ctype.Struct:
			return object.NewZero(p, t)
		}
		return nil, coreerr.New(coreerr.InvalidConstruction, "object %s given neither an address nor a value", t.String())
	}
}

// LoadCatalogueEntries registers each entry into the Program's catalogue.
// A malformed entry (see ctype.Catalogue.Validate) is logged as a single
// structured Warn line, carrying a zap.Object summary of its kind, size
// and signedness, and skipped rather than failing the whole load. It
// returns the number of entries successfully registered.
func (p *Program) LoadCatalogueEntries(entries []ctype.Entry) int {
	return p.cat.LoadEntries(entries, func(key string, t ctype.Type, err error) {
		p.log.Warn("skipping malformed catalogue entry",
			zap.Object("type", ctype.Summarize(key, t)),
			zap.Error(err))
	})
}

// ContainerOf is the free-function form of (*object.Object).ContainerOf:
// given a pointer to member of structType, returns a pointer to the
// enclosing struct.
func ContainerOf(o *object.Object, structType ctype.Type, member string) (*object.Object, error) {
	return object.ContainerOf(o, structType, member)
}
