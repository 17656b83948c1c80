package formatter

import (
	"strings"

	"github.com/mcncl/tstyper/internal/errors"
	"github.com/mcncl/tstyper/internal/parser"
	"github.com/tidwall/pretty"
)

// Formatter pretty-prints JSON input and tidies generated declarations
type Formatter struct {
	opts *pretty.Options
}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{
		opts: &pretty.Options{
			// Zero width keeps every non-empty array on multiple lines.
			Width:    0,
			Prefix:   "",
			Indent:   "  ",
			SortKeys: false,
		},
	}
}

// FormatJSON validates raw and returns it pretty-printed with two-space
// indentation. Key order is never changed.
func (f *Formatter) FormatJSON(raw string, opts parser.Options) (string, error) {
	ir, err := parser.ParseStringWithOptions(raw, opts)
	if err != nil {
		return "", err
	}

	formatted := pretty.PrettyOptions([]byte(ir.Source), f.opts)
	if len(formatted) == 0 {
		return "", errors.NewFormatError("pretty-printing produced no output", nil)
	}
	return strings.TrimRight(string(formatted), "\n"), nil
}

// Tidy normalizes generated text for writing: line endings become "\n",
// trailing whitespace is removed from every line, header (if any) is written
// as a leading comment block and the result ends with exactly one newline.
func (f *Formatter) Tidy(code string, header string) string {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	lines := strings.Split(strings.TrimSpace(code), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	var b strings.Builder
	if header = strings.TrimSpace(header); header != "" {
		for _, line := range strings.Split(header, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				b.WriteString("//\n")
				continue
			}
			b.WriteString("// ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	body := strings.Join(lines, "\n")
	if body == "" {
		return b.String()
	}
	b.WriteString(body)
	b.WriteString("\n")
	return b.String()
}
