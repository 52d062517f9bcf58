// Package assets carries the built-in panel template.
package assets

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed screen.templ
var DefaultTemplate string

// LoadTemplate returns the template source at path, or the built-in
// template when path is empty.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return DefaultTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	return string(data), nil
}
