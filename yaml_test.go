package yaml_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohporter/go-fyaml"
)

func TestParseDocumentScalars(t *testing.T) {
	tests := []struct {
		data string
		tag  string
		val  string
	}{
		{"true", "!!bool", "true"},
		{"false", "!!bool", "false"},
		{"123", "!!int", "123"},
		{"3.5", "!!float", "3.5"},
		{"null", "!!null", "null"},
		{"~", "!!null", "~"},
		{"hello", "!!str", "hello"},
	}
	for _, tc := range tests {
		doc, err := yaml.ParseDocument("t", []byte(tc.data))
		require.NoError(t, err, tc.data)
		content := doc.Content()
		require.NotNil(t, content, tc.data)
		require.Equal(t, tc.tag, content.ShortTag(), tc.data)
		require.Equal(t, tc.val, content.Value, tc.data)
	}
}

func TestParseDocumentEmpty(t *testing.T) {
	doc, err := yaml.ParseDocument("t", []byte(""))
	require.NoError(t, err)
	require.Nil(t, doc)
}

func TestParseDocumentSequenceAndMapping(t *testing.T) {
	data := `
name: widget
tags:
  - red
  - blue
count: 3
`
	doc, err := yaml.ParseDocument("t", []byte(data))
	require.NoError(t, err)
	root := doc.Content()
	require.Equal(t, yaml.MappingNode, root.Kind)
	require.Len(t, root.Mapping, 3)

	name, err := doc.Lookup("name")
	require.NoError(t, err)
	require.Equal(t, "widget", name.Value)

	tag0, err := doc.Lookup("tags[0]")
	require.NoError(t, err)
	require.Equal(t, "red", tag0.Value)

	tag1, err := doc.Lookup("tags[1]")
	require.NoError(t, err)
	require.Equal(t, "blue", tag1.Value)

	count, err := doc.Lookup("count")
	require.NoError(t, err)
	require.Equal(t, "!!int", count.ShortTag())
}

func TestParseDocumentFlowStyle(t *testing.T) {
	doc, err := yaml.ParseDocument("t", []byte("[1, 2, 3]"))
	require.NoError(t, err)
	root := doc.Content()
	require.Equal(t, yaml.SequenceNode, root.Kind)
	require.NotZero(t, root.Style&yaml.FlowStyle)
	require.Len(t, root.Sequence, 3)

	doc2, err := yaml.ParseDocument("t", []byte("{a: 1, b: 2}"))
	require.NoError(t, err)
	root2 := doc2.Content()
	require.Equal(t, yaml.MappingNode, root2.Kind)
	require.NotZero(t, root2.Style&yaml.FlowStyle)

	// block collections carry no flow bit
	doc3, err := yaml.ParseDocument("t", []byte("- 1\n- 2\n"))
	require.NoError(t, err)
	root3 := doc3.Content()
	require.Zero(t, root3.Style&yaml.FlowStyle)
}

func TestParseDocumentIndentedBlockScalars(t *testing.T) {
	// spec §8 scenario 5: a single blank line between two content lines
	// folds to one line break; adjacent content lines fold to a space.
	data := "folded: >\n  a\n  b\n\n  c\n" +
		"literal: |\n  a\n  b\n\n  c\n"
	doc, err := yaml.ParseDocument("t", []byte(data))
	require.NoError(t, err)

	folded, err := doc.Lookup("folded")
	require.NoError(t, err)
	require.Equal(t, "a b\nc\n", folded.Value)

	literal, err := doc.Lookup("literal")
	require.NoError(t, err)
	require.Equal(t, "a\nb\n\nc\n", literal.Value)
}

func TestParseDocumentAnchorAlias(t *testing.T) {
	data := `
base: &b
  x: 1
  y: 2
other: *b
`
	doc, err := yaml.ParseDocument("t", []byte(data))
	require.NoError(t, err)

	other, err := doc.Lookup("other")
	require.NoError(t, err)
	require.Equal(t, yaml.AliasNode, other.Kind)
	require.NotNil(t, other.Alias)

	base, err := doc.Lookup("base")
	require.NoError(t, err)
	require.True(t, base.Compare(other))
}

func TestParseDocumentAnchorFirstSeenWins(t *testing.T) {
	data := `
a: &x 1
b: &x 2
c: *x
`
	doc, err := yaml.ParseDocument("t", []byte(data))
	require.NoError(t, err)
	c, err := doc.Lookup("c")
	require.NoError(t, err)
	require.Equal(t, "1", c.Alias.Value)
}

func TestParseDocumentMergeKey(t *testing.T) {
	data := `
defaults: &defaults
  adapter: postgres
  host: localhost
development:
  <<: *defaults
  database: dev_db
`
	doc, err := yaml.ParseDocument("t", []byte(data))
	require.NoError(t, err)

	adapter, err := doc.Lookup("development.adapter")
	require.NoError(t, err)
	require.Equal(t, "postgres", adapter.Value)

	host, err := doc.Lookup("development.host")
	require.NoError(t, err)
	require.Equal(t, "localhost", host.Value)

	db, err := doc.Lookup("development.database")
	require.NoError(t, err)
	require.Equal(t, "dev_db", db.Value)
}

func TestParseDocumentMergeKeyDoesNotOverride(t *testing.T) {
	data := `
defaults: &defaults
  host: fromdefault
development:
  host: explicit
  <<: *defaults
`
	doc, err := yaml.ParseDocument("t", []byte(data))
	require.NoError(t, err)
	host, err := doc.Lookup("development.host")
	require.NoError(t, err)
	require.Equal(t, "explicit", host.Value)
}

func TestParseDocumentDuplicateKeyError(t *testing.T) {
	_, err := yaml.ParseDocument("t", []byte("a: 1\na: 2\n"))
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "already defined"))
}

func TestParseDocumentDuplicateCompositeKeyError(t *testing.T) {
	data := "? [1, 2]\n: a\n? [1, 2]\n: b\n"
	_, err := yaml.ParseDocument("t", []byte(data))
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "already defined"))
}

func TestParseDocumentUnknownAnchorError(t *testing.T) {
	_, err := yaml.ParseDocument("t", []byte("a: *missing\n"))
	require.Error(t, err)
}

func TestParseAllDocuments(t *testing.T) {
	data := "a: 1\n---\nb: 2\n"
	docs, err := yaml.ParseAllDocuments("t", []byte(data))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	a, err := docs[0].Lookup("a")
	require.NoError(t, err)
	require.Equal(t, "1", a.Value)
	b, err := docs[1].Lookup("b")
	require.NoError(t, err)
	require.Equal(t, "2", b.Value)
}

func TestLookupErrors(t *testing.T) {
	doc, err := yaml.ParseDocument("t", []byte("a: 1\n"))
	require.NoError(t, err)

	_, err = doc.Lookup("missing")
	require.Error(t, err)
	var yerr *yaml.Error
	require.True(t, errors.As(err, &yerr))
	require.Equal(t, yaml.InterfaceError, yerr.Kind)

	_, err = doc.Lookup("a.b")
	require.Error(t, err)

	_, err = doc.Lookup("a[0]")
	require.Error(t, err)
}

func TestMutate(t *testing.T) {
	doc, err := yaml.ParseDocument("t", []byte("a:\n  b: 1\n"))
	require.NoError(t, err)

	p, err := yaml.ParsePath("a.b")
	require.NoError(t, err)
	err = doc.Root.Mutate(p, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: "99"})
	require.NoError(t, err)

	v, err := doc.Lookup("a.b")
	require.NoError(t, err)
	require.Equal(t, "99", v.Value)
}

func TestPathOfRoundTrip(t *testing.T) {
	doc, err := yaml.ParseDocument("t", []byte("a:\n  b:\n    - x\n    - y\n"))
	require.NoError(t, err)

	n, err := doc.Lookup("a.b[1]")
	require.NoError(t, err)
	require.Equal(t, "y", n.Value)

	p := yaml.PathOf(n)
	require.Equal(t, "a.b[1]", p.String())

	back, err := doc.Root.Lookup(p)
	require.NoError(t, err)
	require.Same(t, n, back)
}

func TestResolveExpandsAliases(t *testing.T) {
	data := `
base: &b
  x: 1
other: *b
`
	doc, err := yaml.ParseDocument("t", []byte(data))
	require.NoError(t, err)

	resolved, err := doc.Resolve()
	require.NoError(t, err)

	other, err := resolved.Lookup("other")
	require.NoError(t, err)
	require.Equal(t, yaml.MappingNode, other.Kind)
	x, err := resolved.Lookup("other.x")
	require.NoError(t, err)
	require.Equal(t, "1", x.Value)
}

func TestResolveDetectsCycle(t *testing.T) {
	// Build a self-referential mapping directly; the event stream can
	// never produce one (events are strictly forward), so the cycle
	// guard is only reachable by hand-constructed graphs.
	m := &yaml.Node{Kind: yaml.MappingNode, Anchor: "self"}
	key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "self"}
	alias := &yaml.Node{Kind: yaml.AliasNode, Value: "self", Alias: m}
	m.Mapping = []*yaml.NodePair{{Key: key, Value: alias}}

	_, err := yaml.Resolve(m)
	require.Error(t, err)
}

func TestCopyAndCompare(t *testing.T) {
	data := `
base: &b
  x: 1
other: *b
`
	doc, err := yaml.ParseDocument("t", []byte(data))
	require.NoError(t, err)

	cp := doc.Root.Copy()
	require.True(t, doc.Root.Compare(cp))
	require.NotSame(t, doc.Root, cp)

	cpOther := cp.Sequence[0].Mapping[1].Value
	require.Equal(t, yaml.AliasNode, cpOther.Kind)
	require.NotSame(t, doc.Content().Mapping[0].Value, cpOther.Alias)
}

func TestInsertAndSort(t *testing.T) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	err := seq.Insert(nil, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: "3"})
	require.NoError(t, err)
	err = seq.Insert(nil, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: "1"})
	require.NoError(t, err)
	err = seq.Insert(nil, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: "2"})
	require.NoError(t, err)
	require.Len(t, seq.Sequence, 3)

	seq.Sort(func(a, b *yaml.Node) bool { return a.Value < b.Value })
	require.Equal(t, []string{"1", "2", "3"}, []string{
		seq.Sequence[0].Value, seq.Sequence[1].Value, seq.Sequence[2].Value,
	})

	m := &yaml.Node{Kind: yaml.MappingNode}
	err = m.Insert(&yaml.Node{Kind: yaml.ScalarNode, Value: "k"}, &yaml.Node{Kind: yaml.ScalarNode, Value: "v"})
	require.NoError(t, err)
	require.Len(t, m.Mapping, 1)

	err = m.Insert(nil, &yaml.Node{Kind: yaml.ScalarNode, Value: "v2"})
	require.Error(t, err)

	scalar := &yaml.Node{Kind: yaml.ScalarNode}
	require.Error(t, scalar.Insert(nil, scalar))
}

func TestMarshalRoundTrip(t *testing.T) {
	data := `name: widget
count: 3
tags:
  - red
  - blue
`
	doc, err := yaml.ParseDocument("t", []byte(data))
	require.NoError(t, err)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)

	doc2, err := yaml.ParseDocument("t2", out)
	require.NoError(t, err)
	require.True(t, doc.Content().Compare(doc2.Content()))
}

func TestMarshalNilContent(t *testing.T) {
	doc := &yaml.Document{Root: &yaml.Node{Kind: yaml.DocumentNode}}
	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(out), "null"))
}

func TestDefaultConfigs(t *testing.T) {
	pc := yaml.DefaultParserConfig()
	require.NotZero(t, pc)
	ec := yaml.DefaultEmitterConfig()
	require.Greater(t, ec.Indent, 0)
}
