package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/foundation/utils/filex"
	"github.com/msto63/propkit/pkg/logging"
	"github.com/msto63/propkit/pkg/properties"
)

// checkInvariants asserts the registry's structural guarantees
func checkInvariants(t *testing.T, r *Registry) {
	t.Helper()

	require.Equal(t, len(r.names), len(r.docs), "names and documents out of sync")
	if len(r.names) == 0 {
		assert.Empty(t, r.current, "empty registry must not have a current document")
		assert.Nil(t, r.Current())
	} else {
		assert.Contains(t, r.docs, r.current, "current must name a registered document")
	}

	seen := make(map[*properties.Document]int)
	for _, key := range r.dirOrder {
		for _, tf := range r.directories[key].files {
			seen[tf.doc]++
			assert.NotEmpty(t, r.nameOf(tf.doc), "tracked file %s is not registered", tf.path)
		}
	}
	for doc, n := range seen {
		assert.Equal(t, 1, n, "document %s tracked by %d directories", doc, n)
	}
}

func newTestRegistry(opts ...Option) *Registry {
	base := []Option{
		WithLogger(logging.Discard()),
		WithDocumentOptions(properties.WithLogger(logging.Discard())),
	}
	return New(append(base, opts...)...)
}

func newDoc(key string, value any) *properties.Document {
	doc := properties.New(properties.WithLogger(logging.Discard()))
	doc.Set(key, value)
	return doc
}

func addN(t *testing.T, r *Registry, n int) []*properties.Document {
	t.Helper()
	docs := make([]*properties.Document, n)
	for i := range docs {
		docs[i] = newDoc("i", i)
		_, err := r.Add(docs[i], "")
		require.NoError(t, err)
	}
	return docs
}

func TestAutoNaming(t *testing.T) {
	r := newTestRegistry()
	addN(t, r, 3)
	assert.Equal(t, []string{"prop1", "prop2", "prop3"}, r.Names())

	_, err := r.Remove(ByName("prop2"))
	require.NoError(t, err)

	name, err := r.Add(newDoc("x", "y"), "")
	require.NoError(t, err)
	assert.Equal(t, "prop2", name)
	assert.Equal(t, []string{"prop1", "prop3", "prop2"}, r.Names())
	checkInvariants(t, r)
}

func TestAutoNamingSkipsExplicitNames(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Add(newDoc("a", "1"), "prop1")
	require.NoError(t, err)

	name, err := r.Add(newDoc("b", "2"), "")
	require.NoError(t, err)
	assert.Equal(t, "prop2", name)
}

func TestAddErrors(t *testing.T) {
	r := newTestRegistry()
	doc := newDoc("a", "1")
	_, err := r.Add(doc, "en")
	require.NoError(t, err)

	_, err = r.Add(newDoc("b", "2"), "en")
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeDuplicateEntry))

	_, err = r.Add(doc, "other")
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeDuplicateEntry))

	_, err = r.Add(nil, "")
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidInput))

	assert.Equal(t, 1, r.Len())
}

func TestFirstAddedIsCurrent(t *testing.T) {
	r := newTestRegistry()
	assert.Nil(t, r.Current())
	assert.Empty(t, r.CurrentName())

	docs := addN(t, r, 2)
	assert.Same(t, docs[0], r.Current())
	assert.Equal(t, "prop1", r.CurrentName())
	checkInvariants(t, r)
}

func TestIndexScenario(t *testing.T) {
	r := newTestRegistry()
	docs := addN(t, r, 3)

	require.NoError(t, r.Select(ByIndex(-1)))
	assert.Equal(t, "prop3", r.CurrentName())

	removed, err := r.Remove(ByIndex(-3))
	require.NoError(t, err)
	assert.Same(t, docs[0], removed)
	assert.Equal(t, "prop3", r.CurrentName())
	assert.Equal(t, []string{"prop2", "prop3"}, r.Names())
	checkInvariants(t, r)
}

func TestRemoveCurrentReselection(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		remove      Selector
		wantCurrent string
	}{
		{"first selects next", "prop1", ByIndex(0), "prop2"},
		{"middle selects previous", "prop2", ByName("prop2"), "prop1"},
		{"last selects previous", "prop3", ByIndex(-1), "prop2"},
		{"non-current keeps selection", "prop2", ByName("prop3"), "prop2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry()
			addN(t, r, 3)
			require.NoError(t, r.Select(ByName(tt.current)))

			_, err := r.Remove(tt.remove)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrent, r.CurrentName())
			checkInvariants(t, r)
		})
	}
}

func TestRemoveToEmpty(t *testing.T) {
	r := newTestRegistry()
	docs := addN(t, r, 3)

	for i := 0; i < 3; i++ {
		doc, err := r.Remove(ByIndex(0))
		require.NoError(t, err)
		assert.Same(t, docs[i], doc)
		checkInvariants(t, r)
	}
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.CurrentName())
	assert.Nil(t, r.Current())
}

func TestRemovedDocumentKeepsContent(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Add(newDoc("greeting", "hello"), "en")
	require.NoError(t, err)

	doc, err := r.Remove(ByName("en"))
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Get("greeting"))
}

func TestStrictSelectorErrors(t *testing.T) {
	r := newTestRegistry()
	addN(t, r, 3)

	tests := []struct {
		name string
		sel  Selector
		code mdwerror.Code
	}{
		{"unknown name", ByName("missing"), mdwerror.CodeUnknownName},
		{"index too large", ByIndex(3), mdwerror.CodeIndexOutOfRange},
		{"index too small", ByIndex(-4), mdwerror.CodeIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Get(tt.sel)
			assert.True(t, mdwerror.HasCode(err, tt.code), "Get: %v", err)
			assert.True(t, mdwerror.HasCode(r.Select(tt.sel), tt.code))
			_, err = r.Remove(tt.sel)
			assert.True(t, mdwerror.HasCode(err, tt.code))
			assert.True(t, mdwerror.HasCode(r.Close(tt.sel), tt.code))
		})
	}
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, "prop1", r.CurrentName())
}

func TestIndexBounds(t *testing.T) {
	r := newTestRegistry()
	docs := addN(t, r, 3)

	for i, idx := range []int{0, 1, 2} {
		doc, err := r.Get(ByIndex(idx))
		require.NoError(t, err)
		assert.Same(t, docs[i], doc)
	}
	for i, idx := range []int{-3, -2, -1} {
		doc, err := r.Get(ByIndex(idx))
		require.NoError(t, err)
		assert.Same(t, docs[i], doc)
	}

	_, err := newTestRegistry().Get(ByIndex(0))
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeIndexOutOfRange))
}

func TestPathSelectors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.properties")
	require.NoError(t, os.WriteFile(path, []byte("hello=Hello\n"), 0644))

	r := newTestRegistry(WithFS(filex.OSFS{Cwd: dir}))
	addN(t, r, 1)
	doc, err := properties.Open(path, properties.WithLogger(logging.Discard()))
	require.NoError(t, err)
	_, err = r.Add(doc, "en")
	require.NoError(t, err)

	got, err := r.Get(ByAbsolutePath(path))
	require.NoError(t, err)
	assert.Same(t, doc, got)

	got, err = r.Get(ByRelativePath("en.properties"))
	require.NoError(t, err)
	assert.Same(t, doc, got)

	got, err = r.Get(ByRelativePath("./sub/../en.properties"))
	require.NoError(t, err)
	assert.Same(t, doc, got)

	require.NoError(t, r.Select(ByRelativePath("en.properties")))
	assert.Equal(t, "en", r.CurrentName())
}

func TestPathSelectorsAreSoft(t *testing.T) {
	r := newTestRegistry(WithFS(filex.OSFS{Cwd: t.TempDir()}))
	addN(t, r, 2)
	require.NoError(t, r.Select(ByIndex(1)))

	doc, err := r.Get(ByRelativePath("missing.properties"))
	assert.NoError(t, err)
	assert.Nil(t, doc)

	assert.NoError(t, r.Select(ByAbsolutePath("/nowhere/missing.properties")))
	assert.Equal(t, "prop2", r.CurrentName())

	doc, err = r.Remove(ByRelativePath("missing.properties"))
	assert.NoError(t, err)
	assert.Nil(t, doc)

	assert.NoError(t, r.Close(ByAbsolutePath("/nowhere/missing.properties")))
	assert.Equal(t, 2, r.Len())

	_, err = r.Resolve(ByRelativePath("missing.properties"))
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNoMatch))
}

func TestUnboundDocumentsNeverMatchPaths(t *testing.T) {
	r := newTestRegistry(WithFS(filex.OSFS{Cwd: "/"}))
	addN(t, r, 1)

	doc, err := r.Get(ByAbsolutePath("/"))
	assert.NoError(t, err)
	assert.Nil(t, doc)
}

func TestSwitch(t *testing.T) {
	r := newTestRegistry()
	addN(t, r, 3)

	require.NoError(t, r.SwitchUp())
	assert.Equal(t, "prop2", r.CurrentName())
	require.NoError(t, r.SwitchUp())
	require.NoError(t, r.SwitchUp())
	assert.Equal(t, "prop1", r.CurrentName(), "SwitchUp wraps to the first document")

	require.NoError(t, r.SwitchDown())
	assert.Equal(t, "prop3", r.CurrentName(), "SwitchDown wraps to the last document")
	require.NoError(t, r.SwitchDown())
	assert.Equal(t, "prop2", r.CurrentName())
	checkInvariants(t, r)
}

func TestSwitchEmpty(t *testing.T) {
	r := newTestRegistry()
	assert.True(t, mdwerror.HasCode(r.SwitchUp(), mdwerror.CodeEmptyRegistry))
	assert.True(t, mdwerror.HasCode(r.SwitchDown(), mdwerror.CodeEmptyRegistry))
}

func TestSwitchSingle(t *testing.T) {
	r := newTestRegistry()
	addN(t, r, 1)
	require.NoError(t, r.SwitchUp())
	require.NoError(t, r.SwitchDown())
	assert.Equal(t, "prop1", r.CurrentName())
}

func TestClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.properties")
	require.NoError(t, os.WriteFile(path, []byte("a=1\n"), 0644))

	r := newTestRegistry()
	docs := addN(t, r, 1)
	doc, err := properties.Open(path, properties.WithLogger(logging.Discard()))
	require.NoError(t, err)
	_, err = r.Add(doc, "c")
	require.NoError(t, err)
	require.NoError(t, r.Select(ByName("c")))
	doc.Set("b", "2")

	require.NoError(t, r.Close(ByName("c"), "saved"))
	assert.Equal(t, []string{"prop1", "c"}, r.Names(), "closed documents stay registered")
	assert.Equal(t, "c", r.CurrentName())
	assert.Same(t, doc, r.Current())
	assert.Equal(t, 0, doc.Len())
	assert.Empty(t, doc.Path())
	assert.Equal(t, 1, docs[0].Len())
	checkInvariants(t, r)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#saved\na=1\nb=2\n", string(data))
}

func TestCloseAll(t *testing.T) {
	dir := t.TempDir()
	r := newTestRegistry()
	unbound := addN(t, r, 1)[0]

	var bound []*properties.Document
	for _, name := range []string{"a", "b"} {
		path := filepath.Join(dir, name+".properties")
		require.NoError(t, os.WriteFile(path, []byte(name+"=1\n"), 0644))
		doc, err := properties.Open(path, properties.WithLogger(logging.Discard()))
		require.NoError(t, err)
		_, err = r.Add(doc, name)
		require.NoError(t, err)
		doc.Set("x", "y")
		bound = append(bound, doc)
	}

	err := r.CloseAll()
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNoSourceBound))
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 1, unbound.Len(), "a failed close keeps the content")
	for _, doc := range bound {
		assert.Equal(t, 0, doc.Len())
	}

	data, err := os.ReadFile(filepath.Join(dir, "b.properties"))
	require.NoError(t, err)
	assert.Equal(t, "b=1\nx=y\n", string(data), "a failure must not stop the remaining closes")
}

func TestAddFiles(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.properties")
	colon := filepath.Join(dir, "colon.properties")
	require.NoError(t, os.WriteFile(plain, []byte("a=1\n"), 0644))
	require.NoError(t, os.WriteFile(colon, []byte("!skipped\nb:2\n"), 0644))

	r := newTestRegistry()
	err := r.AddFiles(
		FileSpec{Path: plain},
		FileSpec{Path: filepath.Join(dir, "missing.properties")},
		FileSpec{Path: colon, Name: "colon", Options: []properties.Option{
			properties.WithSeparator(':'),
			properties.WithComment('!'),
		}},
	)
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNotFound))

	assert.Equal(t, []string{"prop1", "colon"}, r.Names())
	doc, err := r.Get(ByName("colon"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b": "2"}, doc.Content())
	assert.Equal(t, ':', doc.Separator())
	checkInvariants(t, r)

	err = r.AddFiles(FileSpec{Path: plain, Name: "colon"})
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeDuplicateEntry))
	assert.Equal(t, 2, r.Len())
}

func TestCloseUnboundKeepsDocument(t *testing.T) {
	r := newTestRegistry()
	addN(t, r, 1)

	err := r.Close(ByIndex(0))
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNoSourceBound))
	assert.Equal(t, 1, r.Len())
}

func TestReloadAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.properties")
	require.NoError(t, os.WriteFile(path, []byte("a=1\n"), 0644))

	r := newTestRegistry()
	addN(t, r, 1)
	bound, err := properties.Open(path, properties.WithLogger(logging.Discard()))
	require.NoError(t, err)
	_, err = r.Add(bound, "bound")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("a=2\n"), 0644))

	err = r.ReloadAll()
	require.Error(t, err)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeNoSourceBound))
	assert.Equal(t, "2", bound.Get("a"), "a failure must not stop the remaining reloads")
}

func TestReloadAllSuccess(t *testing.T) {
	assert.NoError(t, newTestRegistry().ReloadAll())
}

func TestNewWithDocuments(t *testing.T) {
	a, b := newDoc("a", "1"), newDoc("b", "2")
	r := newTestRegistry(WithDocuments(a, nil, b, a))

	assert.Equal(t, []string{"prop1", "prop2"}, r.Names())
	assert.Equal(t, []*properties.Document{a, b}, r.Documents())
	assert.Same(t, a, r.Current())
	checkInvariants(t, r)
}

func TestString(t *testing.T) {
	r := newTestRegistry()
	addN(t, r, 2)
	require.NoError(t, r.SwitchUp())
	assert.Equal(t, "<registry.Registry documents: [prop1 prop2*] directories: 0>", r.String())
}

func TestSelectorString(t *testing.T) {
	assert.Equal(t, "name=en", ByName("en").String())
	assert.Equal(t, "index=-1", ByIndex(-1).String())
	assert.Equal(t, "relative=a.properties", ByRelativePath("a.properties").String())
	assert.Equal(t, "absolute=/a.properties", ByAbsolutePath("/a.properties").String())
	assert.Equal(t, "name=lang", DirByName("lang").String())
	assert.Equal(t, "path=/lang", DirByPath("/lang").String())
}
