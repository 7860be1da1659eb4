package properties

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/foundation/utils/filex"
	"github.com/msto63/propkit/pkg/logging"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func quiet() Option {
	return WithLogger(logging.Discard())
}

func TestLoadScenario(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.properties", "a=1\nb=2\n#comment\nc=hello \\\nworld\n")

	doc, err := Open(path, quiet())
	require.NoError(t, err)

	assert.Equal(t, 3, doc.Len())
	assert.Equal(t, []string{"a", "b", "c"}, doc.Keys())
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "hello world"}, doc.Content())
	assert.False(t, doc.Contains("#comment"))
	assert.Equal(t, path, doc.Path())
}

func TestLoadContinuation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    map[string]string
	}{
		{"two lines", "key=part1 \\\npart2\n", map[string]string{"key": "part1 part2"}},
		{"chain", "key=a\\\nb \\\nc\nnext=1\n", map[string]string{"key": "a b c", "next": "1"}},
		{"continuation wins over comment", "key=a \\\n#not a comment\n", map[string]string{"key": "a #not a comment"}},
		{"continuation line with separator", "key=a \\\nx=y\n", map[string]string{"key": "a x=y"}},
		{"empty line ends continuation", "key=a \\\n\nb=2\n", map[string]string{"key": "a", "b": "2"}},
		{"continuation at end of file", "key=a \\\n", map[string]string{"key": "a"}},
		{"crlf line endings", "a=1\r\nb=x \\\r\ny\r\n", map[string]string{"a": "1", "b": "x y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "c.properties", tt.content)
			doc, err := Open(path, quiet())
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Content())
		})
	}
}

func TestLoadCommentSkip(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.properties", "#a=1\n  # b=2\n\n   \nc=3\n")

	doc, err := Open(path, quiet())
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, doc.Keys())
}

func TestLoadCustomMarkers(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.properties", "!note\nhost:localhost\nurl:http://x\n")

	_, err := Open(path, WithSeparator(':'), WithComment('!'), quiet())
	require.Error(t, err, "second colon in url makes the line malformed")

	path = writeFile(t, t.TempDir(), "d.properties", "!note\nhost:localhost\nquery:a=b\n")
	doc, err := Open(path, WithSeparator(':'), WithComment('!'), quiet())
	require.NoError(t, err)
	assert.Equal(t, "localhost", doc.Get("host"))
	assert.Equal(t, "a=b", doc.Get("query"))
	assert.Equal(t, ':', doc.Separator())
	assert.Equal(t, '!', doc.Comment())
}

func TestLoadNoTrimAroundSeparator(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.properties", "key = value\n")

	doc, err := Open(path, quiet())
	require.NoError(t, err)
	assert.Equal(t, " value", doc.Get("key "))
}

func TestLoadMalformedKeepsPriorContent(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.properties", "a=1\n")
	bad := writeFile(t, dir, "bad.properties", "x=1\nnoseparator\n")
	twice := writeFile(t, dir, "twice.properties", "url=a=b\n")

	doc, err := Open(good, quiet())
	require.NoError(t, err)

	err = doc.Load(bad)
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeMalformedLine))
	var perr *mdwerror.Error
	require.ErrorAs(t, err, &perr)
	line, ok := perr.Detail("line")
	require.True(t, ok)
	assert.Equal(t, 2, line)

	assert.Equal(t, map[string]string{"a": "1"}, doc.Content())
	assert.Equal(t, good, doc.Path())

	err = doc.Load(twice)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeMalformedLine))
	assert.Equal(t, "1", doc.Get("a"))
}

func TestLoadMissingFile(t *testing.T) {
	doc := New(quiet())
	doc.Set("kept", "yes")

	err := doc.Load(filepath.Join(t.TempDir(), "missing.properties"))
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNotFound))
	assert.Equal(t, "yes", doc.Get("kept"))
	assert.Empty(t, doc.Path())
}

// recordingFS records the paths written through it
type recordingFS struct {
	filex.OSFS
	writes []string
}

func (f *recordingFS) WriteFile(path string, data []byte) error {
	f.writes = append(f.writes, path)
	return f.OSFS.WriteFile(path, data)
}

func TestFailedLoadKeepsOptions(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.properties", "a=1\n")
	bad := writeFile(t, dir, "bad.properties", "a:1\n")

	doc, err := Open(good, quiet())
	require.NoError(t, err)

	fs := &recordingFS{OSFS: filex.Default()}
	require.Error(t, doc.Load(bad, WithFS(fs), WithComment('!')))
	require.NoError(t, doc.Write(""))
	assert.Empty(t, fs.writes, "a failed load must not switch the filesystem")
	assert.Equal(t, '#', doc.Comment())

	require.NoError(t, doc.Load(good, WithFS(fs)))
	require.NoError(t, doc.Write(""))
	assert.Equal(t, []string{good}, fs.writes)
}

func TestLoadLongValue(t *testing.T) {
	value := strings.Repeat("x", 70*1024)
	path := writeFile(t, t.TempDir(), "long.properties", "k="+value+"\nnext=1\n")

	doc, err := Open(path, quiet())
	require.NoError(t, err)
	assert.Equal(t, value, doc.Get("k"))
	assert.Equal(t, "1", doc.Get("next"))
}

func TestLoadLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Wrap(logging.NewLogger(logging.LoggerConfig{Level: "warn", Output: &buf}), "properties")

	// Missing files are logged below warn
	_, err := Open(filepath.Join(t.TempDir(), "missing.properties"), WithLogger(logger))
	require.Error(t, err)
	assert.Empty(t, buf.String())

	dir := t.TempDir()
	writeFile(t, dir, "bad.properties", "ok=1\nbroken\n")
	_, err = Open(filepath.Join(dir, "bad.properties"), WithLogger(logger))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "failed to load properties")
	assert.Contains(t, buf.String(), "error_code=MALFORMED_LINE")
}

func TestOpenRelativePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rel.properties", "k=v\n")

	doc, err := Open("rel.properties", WithFS(osfsAt(dir)), quiet())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rel.properties"), doc.Path())
}

func TestReload(t *testing.T) {
	path := writeFile(t, t.TempDir(), "r.properties", "a=1\n")
	doc, err := Open(path, quiet())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("a=2\nb=3\n"), 0644))
	require.NoError(t, doc.Reload())
	assert.Equal(t, map[string]string{"a": "2", "b": "3"}, doc.Content())
}

func TestReloadUnbound(t *testing.T) {
	err := New(quiet()).Reload()
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNoSourceBound))
}

func TestGetSentinel(t *testing.T) {
	doc := New(quiet())
	assert.Equal(t, Undefined, doc.Get("missing"))
	assert.Equal(t, "Undefined", doc.Get("missing"))

	_, ok := doc.Lookup("missing")
	assert.False(t, ok)
}

func TestSetOverwrites(t *testing.T) {
	doc := New(quiet())
	doc.Set("a", 1)
	doc.Set("b", true)
	doc.Set("a", 2.5)

	assert.Equal(t, 2, doc.Len())
	assert.Equal(t, []string{"a", "b"}, doc.Keys())
	assert.Equal(t, "2.5", doc.Get("a"))
	assert.Equal(t, "true", doc.Get("b"))
}

func TestReplace(t *testing.T) {
	doc := New(quiet())
	doc.Set("a", "1")

	assert.True(t, doc.Replace("a", "2", false))
	assert.Equal(t, "2", doc.Get("a"))

	assert.False(t, doc.Replace("b", "x", false))
	assert.False(t, doc.Contains("b"))

	assert.True(t, doc.Replace("b", 7, true))
	assert.Equal(t, "7", doc.Get("b"))
	assert.Equal(t, []string{"a", "b"}, doc.Keys())
}

func TestRemove(t *testing.T) {
	doc := New(quiet())
	doc.Set("a", "1")
	doc.Set("b", "2")
	doc.Set("c", "3")

	v, err := doc.Remove("b")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
	assert.Equal(t, []string{"a", "c"}, doc.Keys())
	assert.Equal(t, []string{"1", "3"}, doc.Values())

	_, err = doc.Remove("b")
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeKeyNotFound))
}

func TestRemoveThenSetAppends(t *testing.T) {
	doc := New(quiet())
	doc.Set("a", "1")
	doc.Set("b", "2")
	_, err := doc.Remove("a")
	require.NoError(t, err)
	doc.Set("a", "3")

	assert.Equal(t, []Entry{{"b", "2"}, {"a", "3"}}, doc.Entries())
}

func TestClone(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.properties", "a=1\nb=2\n")
	doc, err := Open(path, WithSeparator('='), quiet())
	require.NoError(t, err)

	clone := doc.Clone()
	clone.Set("a", "changed")
	clone.Set("z", "new")
	_, err = clone.Remove("b")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, doc.Content())
	assert.Equal(t, []string{"a", "b"}, doc.Keys())
	assert.Equal(t, doc.Path(), clone.Path())

	clone.Clear()
	assert.Equal(t, path, doc.Path())
}

func TestContentIsCopy(t *testing.T) {
	doc := New(quiet())
	doc.Set("a", "1")

	content := doc.Content()
	content["a"] = "mutated"
	keys := doc.Keys()
	keys[0] = "mutated"

	assert.Equal(t, "1", doc.Get("a"))
	assert.Equal(t, []string{"a"}, doc.Keys())
}

func TestClear(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.properties", "a=1\n")
	doc, err := Open(path, quiet())
	require.NoError(t, err)

	doc.Clear()
	assert.Equal(t, 0, doc.Len())
	assert.Empty(t, doc.Path())
	assert.Equal(t, "<properties.Document loaded_file: 'None' entries: 0>", doc.String())
}

func TestString(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.properties", "a=1\n")
	doc, err := Open(path, quiet())
	require.NoError(t, err)
	assert.Contains(t, doc.String(), "s.properties")
	assert.Contains(t, doc.String(), "entries: 1")
}
