package layout

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed builtins/*.yaml
var builtinFS embed.FS

// Builtin returns the embedded layout with the given name.
func Builtin(name string) (*Layout, error) {
	data, err := BuiltinSource(name)
	if err != nil {
		return nil, err
	}
	return Decode(data, "builtin:"+name)
}

// BuiltinSource returns the raw YAML of an embedded layout.
func BuiltinSource(name string) ([]byte, error) {
	data, err := fs.ReadFile(builtinFS, "builtins/"+name+".yaml")
	if err != nil {
		return nil, fmt.Errorf("no built-in layout %q (available: %s)", name, strings.Join(BuiltinNames(), ", "))
	}
	return data, nil
}

// BuiltinNames returns the names of all embedded layouts, sorted.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFS, "builtins")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
