// Package examples holds the sample documents offered by --example.
package examples

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/mcncl/tstyper/internal/errors"
)

//go:embed data/*.json
var files embed.FS

// Names returns the available example names in sorted order.
func Names() []string {
	entries, err := files.ReadDir("data")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

// Get returns the raw JSON text of the named example.
func Get(name string) (string, error) {
	data, err := files.ReadFile("data/" + strings.ToLower(strings.TrimSpace(name)) + ".json")
	if err != nil {
		return "", errors.NewInputError(
			fmt.Sprintf("unknown example '%s', choose one of: %s", name, strings.Join(Names(), ", ")),
			errors.ErrUnknownExample,
		)
	}
	return string(data), nil
}
