package layout

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

// Decode validates data and returns the layout it describes. Layout problems
// come back as *InvalidError; source names the document in error messages.
func Decode(data []byte, source string) (*Layout, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if !result.Valid {
		return nil, &InvalidError{Source: source, Issues: result.Issues}
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing layout %s: %w", source, err)
	}
	return &l, nil
}

// Load reads and validates a layout file. A path of "-" reads from stdin.
func Load(path string) (*Layout, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, sourceName(path))
}

// LoadReader reads and validates a layout from r.
func LoadReader(r io.Reader, source string) (*Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return Decode(data, source)
}

// Marshal encodes a layout as YAML.
func Marshal(l *Layout) ([]byte, error) {
	data, err := yaml.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encoding layout %s: %w", l.Name, err)
	}
	return data, nil
}

// New builds a layout at the current format version.
func New(name string, paths []string) *Layout {
	return &Layout{
		Version: CurrentVersion,
		Name:    name,
		Paths:   paths,
	}
}

func sourceName(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}

func readFile(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading layout from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout %s: %w", path, err)
	}
	return data, nil
}
