package generator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mcncl/tstyper/internal/models"
)

// defaultIndent is used when no indentation unit is configured.
const defaultIndent = "  "

// Generator renders an analysis result as declaration text
type Generator struct {
	indent string
	export bool
}

// NewGenerator creates a new Generator instance
func NewGenerator(opts models.Options) *Generator {
	indent := opts.Indent
	if indent == "" {
		indent = defaultIndent
	}
	return &Generator{indent: indent, export: opts.Export}
}

// Generate renders every declaration in result. Enum aliases are written
// first, one per line, followed by the remaining declarations separated by
// blank lines. The text has no trailing newline.
func (g *Generator) Generate(result models.AnalysisResult) string {
	var buf bytes.Buffer

	for i, alias := range result.Aliases {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(g.Declaration(alias))
	}

	for i, decl := range result.Declarations {
		if i > 0 || len(result.Aliases) > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(g.Declaration(decl))
	}

	return buf.String()
}

// Declaration renders a single top-level declaration.
func (g *Generator) Declaration(decl models.Declaration) string {
	prefix := ""
	if g.export {
		prefix = "export "
	}

	switch decl.Kind {
	case models.InterfaceDeclaration:
		return fmt.Sprintf("%sinterface %s %s", prefix, decl.Name, g.TypeString(decl.Type, 0))
	default:
		return fmt.Sprintf("%stype %s = %s;", prefix, decl.Name, g.TypeString(decl.Type, 0))
	}
}

// TypeString renders t with nested object types spread over several lines.
// depth is the nesting level of the line t starts on.
func (g *Generator) TypeString(t models.TypeInfo, depth int) string {
	switch t.Kind {
	case models.ObjectType:
		return g.objectString(t, depth)
	case models.HomogeneousArray:
		return models.ArrayOf(g.TypeString(*t.Element, depth))
	case models.UnionArray:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = g.TypeString(m, depth)
		}
		return "(" + strings.Join(parts, " | ") + ")[]"
	default:
		return t.String()
	}
}

func (g *Generator) objectString(t models.TypeInfo, depth int) string {
	if len(t.Fields) == 0 {
		return "{}"
	}

	fieldIndent := strings.Repeat(g.indent, depth+1)
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for _, field := range t.Fields {
		optional := ""
		if field.Optional {
			optional = "?"
		}
		buf.WriteString(fmt.Sprintf("%s%s%s: %s;\n",
			fieldIndent,
			models.PropertyName(field.Name),
			optional,
			g.TypeString(field.Type, depth+1)))
	}
	buf.WriteString(strings.Repeat(g.indent, depth))
	buf.WriteString("}")
	return buf.String()
}
