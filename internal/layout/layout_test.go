package layout

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validLayout = `version: "1.0.0"
name: demo
description: two files
paths:
  - a/b/c.txt
  - a/d.txt
`

func TestDecodeValid(t *testing.T) {
	l, err := Decode([]byte(validLayout), "demo.yaml")
	require.NoError(t, err)
	assert.Equal(t, "demo", l.Name)
	assert.Equal(t, "1.0.0", l.Version)
	assert.Equal(t, []string{"a/b/c.txt", "a/d.txt"}, l.Paths)
	assert.Len(t, l.PathSpec(), 2)
}

func TestValidateSchemaIssues(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		keyword string
		path    string
	}{
		{"missing paths", "version: \"1.0.0\"\nname: demo\n", "required", ""},
		{"empty paths", "version: \"1.0.0\"\nname: demo\npaths: []\n", "minItems", "/paths"},
		{"bad name", "version: \"1.0.0\"\nname: Demo Layout\npaths: [a.txt]\n", "pattern", "/name"},
		{"unknown field", "version: \"1.0.0\"\nname: demo\nroot: /tmp\npaths: [a.txt]\n", "additionalProperties", ""},
		{"numeric version", "version: 1\nname: demo\npaths: [a.txt]\n", "type", "/version"},
		{"non-string path", "version: \"1.0.0\"\nname: demo\npaths: [[a]]\n", "type", "/paths/0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate([]byte(tt.doc))
			require.NoError(t, err)
			require.False(t, result.Valid)
			require.NotEmpty(t, result.Issues)
			assert.Equal(t, tt.keyword, result.Issues[0].Keyword)
			assert.Equal(t, tt.path, result.Issues[0].Path)
			assert.NotEmpty(t, result.Issues[0].Message)
		})
	}
}

func TestValidateSchemaMessagesNameTheEntry(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
		want string
	}{
		{"empty path entry", "version: \"1.0.0\"\nname: demo\npaths: [a.txt, \"\"]\n", "/paths/1", "path entry 1 is empty"},
		{"non-string path entry", "version: \"1.0.0\"\nname: demo\npaths: [a.txt, [b]]\n", "/paths/1", "path entry 1 must be a string"},
		{"no paths", "version: \"1.0.0\"\nname: demo\npaths: []\n", "/paths", "at least one file"},
		{"bad name", "version: \"1.0.0\"\nname: Demo\npaths: [a.txt]\n", "/name", "lowercase letters"},
		{"unquoted version", "version: 1.0\nname: demo\npaths: [a.txt]\n", "/version", "quoted string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate([]byte(tt.doc))
			require.NoError(t, err)
			require.Len(t, result.Issues, 1)
			assert.Equal(t, tt.path, result.Issues[0].Path)
			assert.Contains(t, result.Issues[0].Message, tt.want)
		})
	}
}

func TestValidateSemanticIssues(t *testing.T) {
	doc := `version: "2.0.0"
name: demo
paths:
  - ok.txt
  - ../escape.txt
  - dir/
  - ok.txt
`
	result, err := Validate([]byte(doc))
	require.NoError(t, err)
	require.False(t, result.Valid)

	var keywords []string
	for _, issue := range result.Issues {
		keywords = append(keywords, issue.Path+"="+issue.Keyword)
	}
	assert.Equal(t, []string{
		"/version=version",
		"/paths/1=path",
		"/paths/2=path",
		"/paths/3=duplicate",
	}, keywords)
	assert.Contains(t, result.Summary(), "escapes the root")
}

func TestValidateEmptyDocument(t *testing.T) {
	result, err := Validate([]byte(""))
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateBadYAML(t *testing.T) {
	_, err := Validate([]byte("paths: [unterminated"))
	assert.Error(t, err)
}

func TestDecodeInvalidReturnsInvalidError(t *testing.T) {
	_, err := Decode([]byte("version: \"1.0.0\"\nname: demo\npaths: [/abs.txt, ../x]\n"), "bad.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	var ie *InvalidError
	require.True(t, errors.As(err, &ie))
	assert.Len(t, ie.Issues, 2)
	assert.True(t, strings.HasPrefix(err.Error(), "bad.yaml: /paths/0:"))
	assert.Contains(t, err.Error(), "and 1 more issues")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validLayout), 0644))

	l, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", l.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadReader(t *testing.T) {
	l, err := LoadReader(strings.NewReader(validLayout), "<test>")
	require.NoError(t, err)
	assert.Equal(t, 2, len(l.Paths))
}

func TestMarshalRoundTripsThroughDecode(t *testing.T) {
	data, err := Marshal(New("fresh", []string{"x/y.go", "z.go"}))
	require.NoError(t, err)

	l, err := Decode(data, "fresh")
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, l.Version)
	assert.Equal(t, []string{"x/y.go", "z.go"}, l.Paths)
}

func TestCheckVersion(t *testing.T) {
	assert.NoError(t, CheckVersion("1.0.0"))
	assert.NoError(t, CheckVersion("1.4.2"))
	assert.ErrorIs(t, CheckVersion("2.0.0"), ErrUnsupportedVersion)
	assert.ErrorIs(t, CheckVersion("0.9.0"), ErrUnsupportedVersion)
	assert.ErrorIs(t, CheckVersion("banana"), ErrUnsupportedVersion)

	assert.True(t, IsNewer("1.1.0"))
	assert.False(t, IsNewer("1.0.0"))
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{"station-finder", "station-finder-ui"}, BuiltinNames())

	l, err := Builtin("station-finder")
	require.NoError(t, err)
	require.Len(t, l.Paths, 12)
	assert.Equal(t, "src/components/EnhancedSearch.tsx", l.Paths[0])
	assert.Equal(t, "src/GasStationsList.tsx", l.Paths[11])

	ui, err := Builtin("station-finder-ui")
	require.NoError(t, err)
	assert.Len(t, ui.Paths, 14)

	_, err = Builtin("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "station-finder")
}
