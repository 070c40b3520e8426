// Package util provides shared output formatting for CLI commands.
package util

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// OutputResult writes data to w in the requested format ("json" or
// "yaml"). Unsupported formats return an error rather than silently
// falling back.
func OutputResult(data interface{}, format string, w io.Writer) error {
	switch format {
	case "json":
		return outputJSON(data, w)
	case "yaml", "":
		return outputYAML(data, w)
	default:
		return fmt.Errorf("util: unsupported output format %q", format)
	}
}

func outputJSON(data interface{}, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func outputYAML(data interface{}, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(data)
}
