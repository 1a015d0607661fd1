package layout

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stubtree-labs/stubtree/internal/pathspec"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/layout.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("layout.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("layout.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks raw YAML bytes against the layout schema, then checks the
// format version and every path. The error return is for YAML syntax or
// schema compilation failures; layout problems are reported as issues.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if raw == nil {
		return &ValidationResult{Issues: []ValidationIssue{{Message: "layout document is empty", Keyword: "required"}}}, nil
	}

	jsonData, err := json.Marshal(jsonCompatible(raw))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	if err := schema.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, fmt.Errorf("unexpected validation error type: %w", err)
		}
		// Shape is wrong; semantic checks would only repeat the noise.
		return &ValidationResult{Issues: schemaIssues(ve)}, nil
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decoding layout: %w", err)
	}
	issues := semanticIssues(&l)
	return &ValidationResult{Valid: len(issues) == 0, Issues: issues}, nil
}

// ValidateFile reads a file (or stdin for "-") and validates it.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(data)
}

func semanticIssues(l *Layout) []ValidationIssue {
	var issues []ValidationIssue
	if err := CheckVersion(l.Version); err != nil {
		issues = append(issues, ValidationIssue{Path: "/version", Message: err.Error(), Keyword: "version"})
	}
	for i, p := range l.Paths {
		if err := pathspec.Check(p); err != nil {
			issues = append(issues, ValidationIssue{
				Path:    fmt.Sprintf("/paths/%d", i),
				Message: err.Error(),
				Keyword: "path",
			})
		}
	}
	for _, i := range l.PathSpec().Duplicates() {
		issues = append(issues, ValidationIssue{
			Path:    fmt.Sprintf("/paths/%d", i),
			Message: fmt.Sprintf("duplicate path %q", l.Paths[i]),
			Keyword: "duplicate",
		})
	}
	return issues
}

// schemaIssues flattens a schema failure into one issue per failing leaf,
// in document order, without repeats.
func schemaIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	seen := make(map[ValidationIssue]bool)

	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		if e.ErrorKind == nil {
			return
		}
		keyword := ""
		if kw := e.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
		// allOf and $ref wrap the real failure.
		if keyword == "" || keyword == "allOf" || keyword == "$ref" {
			return
		}
		issue := ValidationIssue{
			Path:    pointer(e.InstanceLocation),
			Message: layoutMessage(e.InstanceLocation, keyword, e.ErrorKind.LocalizedString(printer)),
			Keyword: keyword,
		}
		if !seen[issue] {
			seen[issue] = true
			issues = append(issues, issue)
		}
	}
	walk(ve)

	if len(issues) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}
	return issues
}

// pointer renders an instance location as a JSON pointer ("" for the document).
func pointer(loc []string) string {
	if len(loc) == 0 {
		return ""
	}
	return "/" + strings.Join(loc, "/")
}

// layoutMessage rewords the schema failures a layout author is likely to hit.
// Anything else keeps the validator's message.
func layoutMessage(loc []string, keyword, fallback string) string {
	field := ""
	if len(loc) > 0 {
		field = loc[0]
	}
	switch {
	case field == "paths" && len(loc) == 2 && keyword == "minLength":
		return fmt.Sprintf("path entry %s is empty", loc[1])
	case field == "paths" && len(loc) == 2 && keyword == "type":
		return fmt.Sprintf("path entry %s must be a string: %s", loc[1], fallback)
	case field == "paths" && len(loc) == 1 && keyword == "minItems":
		return "paths must list at least one file"
	case field == "name" && keyword == "pattern":
		return "name must be lowercase letters, digits, and hyphens, starting with a letter or digit"
	case field == "version" && keyword == "type":
		return "version must be a quoted string such as \"1.0.0\""
	default:
		return fallback
	}
}

// jsonCompatible converts decoded YAML into values json.Marshal accepts.
// Non-string map keys become strings so a stray `1: x` still reaches the
// schema as an unknown property.
func jsonCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = jsonCompatible(item)
		}
		return val
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[fmt.Sprint(k)] = jsonCompatible(item)
		}
		return m
	case []any:
		for i, item := range val {
			val[i] = jsonCompatible(item)
		}
		return val
	default:
		return val
	}
}
