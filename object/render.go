package object

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corescope/core/ctype"
)

// Display implements str(obj): a C-like textual rendering of the object.
//
//   - integer/float: "(T)value";
//   - void* and null pointers: "(T)0x…" with no dereference;
//   - non-null pointer to non-char: "*(T)0x… = <deref>" when the
//     dereference succeeds, else "(T)0x…";
//   - non-null pointer to char: `(char *)0x… = "…"`, a NUL-terminated
//     C string with bytes beyond the NUL elided;
//   - array of char: `(char [N])"…"`, the string truncated to N bytes;
//   - arrays and structs: brace syntax, rendering elements/members
//     recursively.
func (o *Object) Display() (string, error) {
	switch st := ctype.Strip(o.typ).(type) {
	case *ctype.Int, *ctype.Bool, *ctype.Enum:
		v, err := o.Value()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s)%v", o.typ.String(), renderScalar(v)), nil
	case *ctype.Float:
		f, err := o.rawFloat()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s)%s", o.typ.String(), strconv.FormatFloat(f, 'g', -1, 64)), nil
	case *ctype.Pointer:
		return o.displayPointer(st)
	case *ctype.Array:
		return o.displayArray(st)
	case *ctype.Struct:
		return o.displayStruct(st)
	default:
		return "", fmt.Errorf("no rendering for type kind %v", st.Kind())
	}
}

func renderScalar(v interface{}) interface{} {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}

func (o *Object) displayPointer(pt *ctype.Pointer) (string, error) {
	addr, err := o.AddressValue()
	if err != nil {
		return "", err
	}
	header := fmt.Sprintf("(%s)%#x", o.typ.String(), addr)
	if addr == 0 {
		return header, nil
	}
	if _, isVoid := ctype.Strip(pt.Elem).(*ctype.Void); isVoid {
		return header, nil
	}
	if isCharType(pt.Elem) {
		s, err := o.String()
		if err != nil {
			return header, nil
		}
		return fmt.Sprintf("(%s)%#x = %q", o.typ.String(), addr, s), nil
	}
	deref, err := o.Deref()
	if err != nil {
		return header, nil
	}
	inner, err := deref.Display()
	if err != nil {
		return header, nil
	}
	return fmt.Sprintf("*(%s)%#x = %s", o.typ.String(), addr, inner), nil
}

func (o *Object) displayArray(at *ctype.Array) (string, error) {
	if isCharType(at.Elem) {
		s, err := o.String()
		if err != nil {
			return "", err
		}
		n := len(s)
		if at.Length != nil && int(*at.Length) < n {
			n = int(*at.Length)
		}
		return fmt.Sprintf("(%s)%q", o.typ.String(), s[:n]), nil
	}
	elems, err := o.Elements()
	if err != nil {
		return "", err
	}
	parts := make([]string, len(elems))
	for i, e := range elems {
		s, err := e.Display()
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return fmt.Sprintf("(%s){%s}", o.typ.String(), strings.Join(parts, ", ")), nil
}

func (o *Object) displayStruct(st *ctype.Struct) (string, error) {
	parts := make([]string, len(st.Fields))
	for i, f := range st.Fields {
		m, err := o.Member(f.Name)
		if err != nil {
			return "", err
		}
		s, err := m.Display()
		if err != nil {
			return "", err
		}
		parts[i] = fmt.Sprintf(".%s = %s", f.Name, s)
	}
	return fmt.Sprintf("(%s){%s}", o.typ.String(), strings.Join(parts, ", ")), nil
}
