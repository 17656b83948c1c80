package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/kaptinlin/jsonrepair"
	"github.com/mcncl/tstyper/internal/errors" // Custom errors package
	"github.com/mcncl/tstyper/internal/models"
	"github.com/tidwall/gjson"
)

// Options controls how raw input is turned into a value.
type Options struct {
	// Repair attempts to fix malformed input (trailing commas, single quotes,
	// unquoted keys, comments) before giving up with a parsing error.
	Repair bool
	// Path selects a sub-document using gjson path syntax, e.g. "data.items".
	Path string
}

// Parse reads JSON data from an io.Reader into an IntermediateRepresentation
func Parse(reader io.Reader, opts Options) (models.IntermediateRepresentation, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read input", err)
	}
	return parseBytes(data, opts)
}

func parseBytes(data []byte, opts Options) (models.IntermediateRepresentation, error) {
	raw, err := validate(data)
	if err != nil {
		if !opts.Repair || stderrors.Is(err, errors.ErrEmptyInput) || stderrors.Is(err, errors.ErrTooDeep) {
			return models.IntermediateRepresentation{}, err
		}
		repaired, repairErr := jsonrepair.JSONRepair(string(data))
		if repairErr != nil {
			slog.Debug("JSON repair failed", "error", repairErr)
			return models.IntermediateRepresentation{}, err
		}
		slog.Debug("repaired malformed JSON input", "original_error", err)
		raw, err = validate([]byte(repaired))
		if err != nil {
			return models.IntermediateRepresentation{}, err
		}
	}

	result := gjson.ParseBytes(raw)
	if opts.Path != "" {
		result = result.Get(opts.Path)
		if !result.Exists() {
			return models.IntermediateRepresentation{}, errors.NewParsingError(
				fmt.Sprintf("path '%s' did not match any value", opts.Path),
				errors.ErrPathNotFound,
			)
		}
	}

	root, err := fromResult(result, 0)
	if err != nil {
		return models.IntermediateRepresentation{}, err
	}

	ir := models.NewIntermediateRepresentation(root)
	ir.Source = result.Raw
	return ir, nil
}

// validate checks that data holds exactly one syntactically valid JSON value
// and returns that value's raw bytes.
func validate(data []byte) (json.RawMessage, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	var raw json.RawMessage
	if err := decoder.Decode(&raw); err != nil {
		if stderrors.Is(err, io.EOF) { // nothing but whitespace
			return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			// The decoder stops at its own nesting limit, which lies beyond MaxDepth.
			if strings.Contains(syntaxError.Error(), "exceeded max depth") {
				return nil, errors.NewParsingError(
					fmt.Sprintf("nesting exceeds %d levels", models.MaxDepth),
					errors.ErrTooDeep,
				)
			}
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
		}
		return nil, errors.NewParsingError("failed to decode JSON", stderrors.Join(errors.ErrInvalidJSON, err))
	}

	// Anything other than whitespace after the first value is rejected.
	if decoder.More() {
		var trailing json.RawMessage
		if err := decoder.Decode(&trailing); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
		}
		return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	}

	return raw, nil
}

// fromResult converts a gjson result into a JSONValue, keeping object members
// in document order.
func fromResult(r gjson.Result, depth int) (models.JSONValue, error) {
	if depth >= models.MaxDepth {
		return models.JSONValue{}, errors.NewParsingError(
			fmt.Sprintf("nesting exceeds %d levels", models.MaxDepth),
			errors.ErrTooDeep,
		)
	}

	switch r.Type {
	case gjson.Null:
		return models.NullValue(), nil
	case gjson.False:
		return models.BoolValue(false), nil
	case gjson.True:
		return models.BoolValue(true), nil
	case gjson.Number:
		return models.NumberValue(r.Raw), nil
	case gjson.String:
		return models.StringValue(r.Str), nil
	}

	if r.IsArray() {
		items := make([]models.JSONValue, 0)
		var err error
		r.ForEach(func(_, value gjson.Result) bool {
			var item models.JSONValue
			item, err = fromResult(value, depth+1)
			if err != nil {
				return false
			}
			items = append(items, item)
			return true
		})
		if err != nil {
			return models.JSONValue{}, err
		}
		return models.ArrayValue(items...), nil
	}

	if r.IsObject() {
		members := make([]models.Member, 0)
		index := make(map[string]int)
		var err error
		r.ForEach(func(key, value gjson.Result) bool {
			var v models.JSONValue
			v, err = fromResult(value, depth+1)
			if err != nil {
				return false
			}
			// A repeated key keeps its first position and its last value.
			if i, seen := index[key.Str]; seen {
				members[i].Value = v
				return true
			}
			index[key.Str] = len(members)
			members = append(members, models.Member{Key: key.Str, Value: v})
			return true
		})
		if err != nil {
			return models.JSONValue{}, err
		}
		return models.ObjectValue(members...), nil
	}

	return models.JSONValue{}, errors.NewParsingError(
		fmt.Sprintf("unexpected JSON value %q", r.Raw),
		errors.ErrInvalidJSON,
	)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.IntermediateRepresentation, error) {
	return ParseStringWithOptions(jsonString, Options{})
}

// ParseStringWithOptions parses JSON from a string using opts.
func ParseStringWithOptions(jsonString string, opts Options) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return parseBytes([]byte(jsonString), opts)
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string, opts Options) (models.IntermediateRepresentation, error) {
	data, err := ReadFile(filePath)
	if err != nil {
		return models.IntermediateRepresentation{}, err
	}
	return parseBytes(data, opts)
}

// ReadFile reads an input file, reporting missing and empty files as input errors.
func ReadFile(filePath string) ([]byte, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return data, nil
}
