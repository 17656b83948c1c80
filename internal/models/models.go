package models

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxDepth bounds the nesting depth the parser accepts. It must stay below
// the encoding/json decoder's own limit of 10000 to be reported as such.
const MaxDepth = 1000

// Kind identifies which variant a JSONValue holds.
type Kind int

const (
	Null Kind = iota
	Boolean
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Member is a single key/value pair of a JSON object.
type Member struct {
	Key   string
	Value JSONValue
}

// JSONValue is one node of a parsed JSON document.
// Only the payload matching Kind is meaningful: Bool for Boolean, Text for
// Number (literal text) and String (decoded text), Items for Array and
// Members for Object. Members keep the order they appeared in the source.
type JSONValue struct {
	Kind    Kind
	Bool    bool
	Text    string
	Items   []JSONValue
	Members []Member
}

func NullValue() JSONValue { return JSONValue{Kind: Null} }
func BoolValue(b bool) JSONValue { return JSONValue{Kind: Boolean, Bool: b} }
func NumberValue(lit string) JSONValue { return JSONValue{Kind: Number, Text: lit} }
func StringValue(s string) JSONValue { return JSONValue{Kind: String, Text: s} }
func ArrayValue(items ...JSONValue) JSONValue {
	if items == nil {
		items = []JSONValue{}
	}
	return JSONValue{Kind: Array, Items: items}
}
func ObjectValue(members ...Member) JSONValue {
	if members == nil {
		members = []Member{}
	}
	return JSONValue{Kind: Object, Members: members}
}

// IntermediateRepresentation holds a parsed document ready for analysis.
type IntermediateRepresentation struct {
	Root        JSONValue
	RootIsArray bool // True if the root of the JSON is an array vs an object
	// Source is the raw text Root was built from, after any repair or path selection.
	Source string
}

// NewIntermediateRepresentation wraps an already parsed value.
func NewIntermediateRepresentation(root JSONValue) IntermediateRepresentation {
	return IntermediateRepresentation{
		Root:        root,
		RootIsArray: root.Kind == Array,
	}
}

// DeclarationStyle selects how object types are declared.
type DeclarationStyle string

const (
	StyleInterface DeclarationStyle = "interface"
	StyleTypeAlias DeclarationStyle = "type"
)

// Valid reports whether s is a known declaration style.
func (s DeclarationStyle) Valid() bool {
	return s == StyleInterface || s == StyleTypeAlias
}

// Options is the immutable configuration of a single inference call.
type Options struct {
	Style             DeclarationStyle
	OptionalOnNull    bool
	DetectStringEnums bool
	RootName          string
	ItemName          string
	Export            bool
	Indent            string
}

// DefaultOptions mirrors the defaults of the interactive tool.
func DefaultOptions() Options {
	return Options{
		Style:             StyleInterface,
		OptionalOnNull:    false,
		DetectStringEnums: true,
		RootName:          "Root",
		ItemName:          "Item",
		Indent:            "  ",
	}
}

// TypeKind identifies which variant a TypeInfo holds.
type TypeKind int

const (
	Primitive TypeKind = iota
	NullType
	AnyArray
	Literal
	UnionArray
	HomogeneousArray
	StringEnumArray
	ObjectType
	// Reference names another top-level declaration.
	Reference
)

// Primitive type names.
const (
	TypeNull    = "null"
	TypeBoolean = "boolean"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeAny     = "any"
)

// TypeInfo is the structural type inferred from one JSON position.
type TypeInfo struct {
	Kind TypeKind
	// Name is the primitive name for Primitive, or the declaration name for Reference.
	Name string
	// Literals holds the raw string values for Literal and StringEnumArray.
	Literals []string
	// Alias names the enum alias a root-level StringEnumArray refers to.
	Alias string
	// Element is the representative element type of a HomogeneousArray.
	Element *TypeInfo
	// Members are the distinct element types of a UnionArray, in first-seen order.
	Members []TypeInfo
	// Fields of an ObjectType, in source order.
	Fields []FieldInfo
}

// FieldInfo is a single property of an ObjectType.
type FieldInfo struct {
	Name     string
	Type     TypeInfo
	Optional bool
}

// DeclarationKind selects the keyword a top-level declaration is printed with.
type DeclarationKind int

const (
	AliasDeclaration DeclarationKind = iota
	InterfaceDeclaration
)

// Declaration is one top-level statement of the generated text.
type Declaration struct {
	Kind DeclarationKind
	Name string
	Type TypeInfo
}

// AnalysisResult is the ordered plan the generator prints.
// Enum aliases come first, then the item and root declarations.
type AnalysisResult struct {
	Aliases      []Declaration
	Declarations []Declaration
}

var identifierRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// IsIdentifier reports whether s can be used unquoted as a property or type name.
func IsIdentifier(s string) bool {
	return identifierRegex.MatchString(s)
}

// PropertyName returns key as it must appear on the left of a property signature.
func PropertyName(key string) string {
	if IsIdentifier(key) {
		return key
	}
	return quote(key, '"')
}

// QuoteLiteral renders s as a single-quoted string literal type.
func QuoteLiteral(s string) string {
	return quote(s, '\'')
}

// quote renders s as a TypeScript string literal delimited by q. Control
// characters, line terminators and unprintable runes use \u{...} escapes;
// invalid UTF-8 bytes become U+FFFD.
func quote(s string, q byte) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for i := 0; i < len(s); {
		r, width := utf8.DecodeRuneInString(s[i:])
		i += width
		switch {
		case r == utf8.RuneError && width == 1:
			b.WriteString(`\u{fffd}`)
		case r == '\\' || r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f || r == '\u2028' || r == '\u2029' || !unicode.IsPrint(r):
			fmt.Fprintf(&b, `\u{%x}`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// LiteralUnion renders values as a union of string literal types.
func LiteralUnion(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = QuoteLiteral(v)
	}
	return strings.Join(quoted, " | ")
}

// String renders t on a single line. Two types are considered the same
// type exactly when their String forms are equal.
func (t TypeInfo) String() string {
	switch t.Kind {
	case Primitive, Reference:
		return t.Name
	case NullType:
		return TypeNull
	case AnyArray:
		return TypeAny + "[]"
	case Literal:
		return LiteralUnion(t.Literals)
	case StringEnumArray:
		if t.Alias != "" {
			return t.Alias + "[]"
		}
		return "(" + LiteralUnion(t.Literals) + ")[]"
	case HomogeneousArray:
		return ArrayOf(t.Element.String())
	case UnionArray:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return "(" + strings.Join(parts, " | ") + ")[]"
	case ObjectType:
		if len(t.Fields) == 0 {
			return "{}"
		}
		var b strings.Builder
		b.WriteString("{ ")
		for _, f := range t.Fields {
			b.WriteString(f.Signature())
			b.WriteString("; ")
		}
		b.WriteString("}")
		return b.String()
	default:
		return TypeAny
	}
}

// Signature renders the property part of a field line, without indentation
// or the trailing semicolon.
func (f FieldInfo) Signature() string {
	optional := ""
	if f.Optional {
		optional = "?"
	}
	return PropertyName(f.Name) + optional + ": " + f.Type.String()
}

// ArrayOf appends the array suffix to elem, parenthesising unions so the
// suffix binds to the whole element type.
func ArrayOf(elem string) string {
	if strings.Contains(elem, " | ") && !wrapped(elem) {
		return "(" + elem + ")[]"
	}
	return elem + "[]"
}

// wrapped reports whether the top-level union separators in s are all nested
// inside brackets, braces or parentheses.
func wrapped(s string) bool {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case '|':
			if depth == 0 {
				return false
			}
		}
	}
	return true
}
