package convert

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/pkg/logging"
	"github.com/msto63/propkit/pkg/properties"
)

func quiet() properties.Option {
	return properties.WithLogger(logging.Discard())
}

func sample() *properties.Document {
	doc := properties.New(quiet())
	doc.Set("server.port", "8080")
	doc.Set("name", "demo app")
	doc.Set("enabled", "true")
	return doc
}

func TestToMapFromMap(t *testing.T) {
	m := ToMap(sample())
	assert.Equal(t, map[string]string{
		"server.port": "8080",
		"name":        "demo app",
		"enabled":     "true",
	}, m)

	doc, err := FromMap(m, quiet())
	require.NoError(t, err)
	assert.Equal(t, []string{"enabled", "name", "server.port"}, doc.Keys())

	_, err = FromMap(map[string]string{"url": "a=b"}, quiet())
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidFormat))
}

func TestTOMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeTOML(&buf, sample()))
	assert.Contains(t, buf.String(), `"server.port" = "8080"`)

	doc, err := DecodeTOML(&buf, quiet())
	require.NoError(t, err)
	assert.Equal(t, ToMap(sample()), ToMap(doc))
}

func TestDecodeTOMLFlattens(t *testing.T) {
	input := `
title = "demo"
ports = [80, 443]

[server]
host = "localhost"
port = 8080

[server.tls]
enabled = true
`
	doc, err := DecodeTOML(strings.NewReader(input), quiet())
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "ports", "server.host", "server.port", "server.tls.enabled"}, doc.Keys())
	assert.Equal(t, "80,443", doc.Get("ports"))
	assert.Equal(t, "8080", doc.Get("server.port"))
	assert.Equal(t, "true", doc.Get("server.tls.enabled"))
}

func TestDecodeTOMLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"syntax", "a = "},
		{"array of tables", "[[item]]\nname = \"x\"\n"},
		{"separator in value", `url = "a=b"`},
		{"newline in value", "text = \"\"\"\nline1\nline2\"\"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTOML(strings.NewReader(tt.input), quiet())
			require.Error(t, err)
			assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidFormat))
		})
	}
}

func TestEncodeYAMLKeepsOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeYAML(&buf, sample()))

	out := buf.String()
	assert.Less(t, strings.Index(out, "server.port"), strings.Index(out, "name:"))
	assert.Less(t, strings.Index(out, "name:"), strings.Index(out, "enabled:"))
	assert.Contains(t, out, `enabled: "true"`, "values stay strings")

	doc, err := DecodeYAML(&buf, quiet())
	require.NoError(t, err)
	assert.Equal(t, sample().Entries(), doc.Entries())
}

func TestDecodeYAMLFlattens(t *testing.T) {
	input := `
app:
  name: demo
  tags: [a, b]
db:
  host: localhost
  password: ~
`
	doc, err := DecodeYAML(strings.NewReader(input), quiet())
	require.NoError(t, err)
	assert.Equal(t, []string{"app.name", "app.tags", "db.host", "db.password"}, doc.Keys())
	assert.Equal(t, "a,b", doc.Get("app.tags"))
	assert.Equal(t, "", doc.Get("db.password"))
}

func TestDecodeYAMLEmptyAndInvalid(t *testing.T) {
	doc, err := DecodeYAML(strings.NewReader(""), quiet())
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Len())

	_, err = DecodeYAML(strings.NewReader("- a\n- b\n"), quiet())
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidFormat))

	_, err = DecodeYAML(strings.NewReader("list:\n  - {a: 1}\n"), quiet())
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidFormat))
}

func TestCustomSeparatorValidation(t *testing.T) {
	doc, err := DecodeYAML(strings.NewReader("url: \"a=b\"\n"), quiet(), properties.WithSeparator(':'))
	require.NoError(t, err)
	assert.Equal(t, "a=b", doc.Get("url"))

	_, err = DecodeYAML(strings.NewReader("url: \"http://x\"\n"), quiet(), properties.WithSeparator(':'))
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidFormat))
}

func TestDecodeRejectsUnreadableEntries(t *testing.T) {
	inputs := map[string]string{
		"trailing space":      "path: \"/tmp \"\n",
		"continuation marker": "dir: 'C:\\'\n",
		"comment key":         "\"#k\": v\n",
		"leading key space":   "\" k\": v\n",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeYAML(strings.NewReader(input), quiet())
			assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidFormat))
		})
	}

	_, err := FromMap(map[string]string{"k": `a\`}, quiet())
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidFormat))
}
