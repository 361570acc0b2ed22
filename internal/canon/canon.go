// Package canon turns raw document text into a canonical form so that
// diffing reflects semantic changes rather than formatting churn from the
// host's own serializer. Text that parses as JSON is re-rendered with fixed
// indentation; key order is kept as encountered (never alphabetized, to
// match source-document intent) and field names are deduplicated
// case-insensitively. Text that does not parse passes through unchanged.
package canon

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Options controls canonical rendering. The zero value renders with the
// default two-space indent.
type Options struct {
	Indent string
}

func (o Options) indent() string {
	if o.Indent == "" {
		return "  "
	}
	return o.Indent
}

// Normalize parses raw as JSON and re-renders it canonically. On parse
// failure it returns raw unchanged and false; parse failure is expected and
// never an error.
func Normalize(raw string) (string, bool) {
	return NormalizeWith(raw, Options{})
}

// NormalizeWith is Normalize with explicit rendering options.
func NormalizeWith(raw string, opt Options) (string, bool) {
	v, err := parse(raw)
	if err != nil {
		return raw, false
	}
	var sb strings.Builder
	render(&sb, v, opt.indent(), 0)
	sb.WriteByte('\n')
	return sb.String(), true
}

// Equal reports deep structural equality of two document texts. Object
// members compare order-insensitively and case-insensitively by name,
// arrays compare elementwise, numbers compare by value. When either text
// does not parse, Equal falls back to raw string comparison.
func Equal(a, b string) bool {
	va, erra := parse(a)
	vb, errb := parse(b)
	if erra != nil || errb != nil {
		return a == b
	}
	return equalValue(va, vb)
}

// ----- parsed representation ------------------------------------------------

// value is one of *object, *array, json.Number, string, bool, nil.
type value any

type member struct {
	name string
	val  value
}

// object keeps members in first-seen order. Insertion deduplicates names
// case-insensitively: the first occurrence keeps its position, the last
// occurrence supplies the value.
type object struct {
	members []member
}

func (o *object) put(name string, v value) {
	for i := range o.members {
		if strings.EqualFold(o.members[i].name, name) {
			o.members[i].val = v
			return
		}
	}
	o.members = append(o.members, member{name: name, val: v})
}

func (o *object) lookup(name string) (value, bool) {
	for i := range o.members {
		if strings.EqualFold(o.members[i].name, name) {
			return o.members[i].val, true
		}
	}
	return nil, false
}

type array struct {
	elems []value
}

// ----- parsing --------------------------------------------------------------

func parse(raw string) (value, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	v, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	// Reject trailing garbage after the first complete value.
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after document")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return nil, errors.New("unexpected delimiter")
	default:
		// string, json.Number, bool, nil
		return t, nil
	}
}

func parseObject(dec *json.Decoder) (value, error) {
	obj := &object{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.New("object key is not a string")
		}
		v, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		obj.put(key, v)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return obj, nil
}

func parseArray(dec *json.Decoder) (value, error) {
	arr := &array{}
	for dec.More() {
		v, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		arr.elems = append(arr.elems, v)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return nil, err
	}
	return arr, nil
}

// ----- rendering ------------------------------------------------------------

func render(sb *strings.Builder, v value, indent string, depth int) {
	switch t := v.(type) {
	case *object:
		if len(t.members) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteByte('{')
		for i, m := range t.members {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
			writeIndent(sb, indent, depth+1)
			writeString(sb, m.name)
			sb.WriteString(": ")
			render(sb, m.val, indent, depth+1)
		}
		sb.WriteByte('\n')
		writeIndent(sb, indent, depth)
		sb.WriteByte('}')
	case *array:
		if len(t.elems) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteByte('[')
		for i, e := range t.elems {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
			writeIndent(sb, indent, depth+1)
			render(sb, e, indent, depth+1)
		}
		sb.WriteByte('\n')
		writeIndent(sb, indent, depth)
		sb.WriteByte(']')
	case json.Number:
		sb.WriteString(t.String())
	case string:
		writeString(sb, t)
	case bool:
		if t {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case nil:
		sb.WriteString("null")
	}
}

func writeIndent(sb *strings.Builder, indent string, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString(indent)
	}
}

// writeString emits a JSON string literal without the HTML escaping that
// encoding/json applies by default.
func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				sb.WriteString(`\u`)
				hex := strconv.FormatInt(int64(r), 16)
				for len(hex) < 4 {
					hex = "0" + hex
				}
				sb.WriteString(hex)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}

// ----- structural equality --------------------------------------------------

func equalValue(a, b value) bool {
	switch x := a.(type) {
	case *object:
		y, ok := b.(*object)
		if !ok || len(x.members) != len(y.members) {
			return false
		}
		for _, m := range x.members {
			w, ok := y.lookup(m.name)
			if !ok || !equalValue(m.val, w) {
				return false
			}
		}
		return true
	case *array:
		y, ok := b.(*array)
		if !ok || len(x.elems) != len(y.elems) {
			return false
		}
		for i := range x.elems {
			if !equalValue(x.elems[i], y.elems[i]) {
				return false
			}
		}
		return true
	case json.Number:
		y, ok := b.(json.Number)
		if !ok {
			return false
		}
		return numberEqual(x, y)
	default:
		return a == b
	}
}

func numberEqual(a, b json.Number) bool {
	if a.String() == b.String() {
		return true
	}
	fa, erra := a.Float64()
	fb, errb := b.Float64()
	if erra != nil || errb != nil {
		return false
	}
	return fa == fb
}
