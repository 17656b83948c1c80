// Package convert is the entry point used by the CLI: it ties the parser,
// analyzer and generator together.
package convert

import (
	"github.com/mcncl/tstyper/internal/analyzer"
	"github.com/mcncl/tstyper/internal/generator"
	"github.com/mcncl/tstyper/internal/models"
	"github.com/mcncl/tstyper/internal/parser"
)

// Infer renders the type declarations for an already parsed value.
// It has no failure mode: every JSON value can be described.
func Infer(value models.JSONValue, opts models.Options) string {
	return InferIR(models.NewIntermediateRepresentation(value), opts)
}

// InferIR is Infer for a parser result.
func InferIR(ir models.IntermediateRepresentation, opts models.Options) string {
	result := analyzer.NewAnalyzer(opts).Analyze(ir)
	return generator.NewGenerator(opts).Generate(result)
}

// Convert parses raw and renders its type declarations. When raw is not
// valid JSON the parsing error is returned together with empty output.
func Convert(raw string, opts models.Options, parseOpts parser.Options) (string, error) {
	ir, err := parser.ParseStringWithOptions(raw, parseOpts)
	if err != nil {
		return "", err
	}
	return InferIR(ir, opts), nil
}
