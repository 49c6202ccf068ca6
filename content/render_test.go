package content

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, data string) *Document {
	t.Helper()
	doc, err := Decode([]byte(data))
	require.NoError(t, err)
	return doc
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "empty document",
			doc:  `{"type":"doc","content":[]}`,
			want: "",
		},
		{
			name: "paragraph with hard break",
			doc:  `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"a"},{"type":"hardBreak"},{"type":"text","text":"b"}]}]}`,
			want: "<p>a<br>b</p>",
		},
		{
			name: "heading level out of range falls back to h2",
			doc:  `{"type":"doc","content":[{"type":"heading","attrs":{"level":9},"content":[{"type":"text","text":"Title"}]}]}`,
			want: "<h2>Title</h2>",
		},
		{
			name: "heading level as string",
			doc:  `{"type":"doc","content":[{"type":"heading","attrs":{"level":"3"},"content":[{"type":"text","text":"Title"}]}]}`,
			want: "<h3>Title</h3>",
		},
		{
			name: "code block is escaped",
			doc:  `{"type":"doc","content":[{"type":"codeBlock","content":[{"type":"text","text":"<script>alert(1)</script>"}]}]}`,
			want: `<pre><code class="language-text">&lt;script&gt;alert(1)&lt;/script&gt;</code></pre>`,
		},
		{
			name: "code block language",
			doc:  `{"type":"doc","content":[{"type":"codeBlock","attrs":{"language":"go"},"content":[{"type":"text","text":"x := 1"}]}]}`,
			want: `<pre><code class="language-go">x := 1</code></pre>`,
		},
		{
			name: "lists and quotes",
			doc: `{"type":"doc","content":[
				{"type":"bulletList","content":[{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"one"}]}]}]},
				{"type":"orderedList","content":[{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"two"}]}]}]},
				{"type":"blockquote","content":[{"type":"paragraph","content":[{"type":"text","text":"quote"}]}]},
				{"type":"horizontalRule"}]}`,
			want: "<ul><li><p>one</p></li></ul><ol><li><p>two</p></li></ol><blockquote><p>quote</p></blockquote><hr>",
		},
		{
			name: "unknown nodes are skipped",
			doc:  `{"type":"doc","content":[{"type":"callout","content":[{"type":"text","text":"x"}]},{"type":"paragraph","content":[{"type":"text","text":"kept"},{"type":"mention","attrs":{"id":"1"}}]}]}`,
			want: "<p>kept</p>",
		},
		{
			name: "image without src is skipped",
			doc:  `{"type":"doc","content":[{"type":"image","attrs":{"alt":"none"}}]}`,
			want: "",
		},
		{
			name: "image with caption",
			doc:  `{"type":"doc","content":[{"type":"image","attrs":{"src":"/a.png","alt":"A","title":"Cap"}}]}`,
			want: `<figure><img src="/a.png" alt="A" title="Cap" loading="lazy"><figcaption>Cap</figcaption></figure>`,
		},
		{
			name: "link without href defaults to #",
			doc:  `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"x","marks":[{"type":"link"}]}]}]}`,
			want: `<p><a href="#" target="_blank" rel="noopener noreferrer">x</a></p>`,
		},
		{
			name: "script links are neutralised",
			doc:  `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"x","marks":[{"type":"link","attrs":{"href":"javascript:alert(1)"}}]}]}]}`,
			want: `<p><a href="#" target="_blank" rel="noopener noreferrer">x</a></p>`,
		},
		{
			name: "text is escaped",
			doc:  `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"a < b & \"c\""}]}]}`,
			want: "<p>a &lt; b &amp; &#34;c&#34;</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(mustDecode(t, tt.doc)))
		})
	}
}

func TestRenderNilDocument(t *testing.T) {
	assert.Equal(t, "", Render(nil))

	var sb strings.Builder
	assert.NoError(t, RenderTo(&sb, nil))
	assert.Empty(t, sb.String())
}

func TestRenderMarkOrderIndependent(t *testing.T) {
	marks := []string{
		`{"type":"bold"}`,
		`{"type":"italic"}`,
		`{"type":"link","attrs":{"href":"https://example.com"}}`,
	}
	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	want := `<p><a href="https://example.com" target="_blank" rel="noopener noreferrer"><strong><em>hi</em></strong></a></p>`

	for _, p := range perms {
		t.Run(fmt.Sprint(p), func(t *testing.T) {
			list := []string{marks[p[0]], marks[p[1]], marks[p[2]]}
			doc := fmt.Sprintf(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"hi","marks":[%s]}]}]}`,
				strings.Join(list, ","))
			assert.Equal(t, want, Render(mustDecode(t, doc)))
		})
	}
}

func TestRenderDuplicateMarks(t *testing.T) {
	doc := `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"x","marks":[{"type":"code"},{"type":"strike"},{"type":"code"}]}]}]}`
	assert.Equal(t, "<p><s><code>x</code></s></p>", Render(mustDecode(t, doc)))
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		in    string
		image bool
		want  string
	}{
		{"https://example.com/a", false, "https://example.com/a"},
		{"/relative/path", false, "/relative/path"},
		{"#anchor", false, "#anchor"},
		{"mailto:me" + "@example.com", false, "mailto:me" + "@example.com"},
		{"JavaScript:alert(1)", false, "#"},
		{"vbscript:msgbox", false, "#"},
		{"data:text/html;base64,xx", true, "#"},
		{"data:image/png;base64,xx", true, "data:image/png;base64,xx"},
		{"data:image/png;base64,xx", false, "#"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, safeURL(tt.in, tt.image))
		})
	}
}

func TestRenderTolerantKeepsGoodSiblings(t *testing.T) {
	data := []byte(`{"type":"doc","content":[
		{"type":"paragraph","content":[{"type":"text","text":"first"}]},
		{"type":"paragraph","content":[{"text":"no type"}]},
		{"type":"heading","attrs":"oops","content":[{"type":"text","text":"lost"}]},
		{"type":"paragraph","content":[{"type":"text","text":"last"}]}]}`)

	_, err := Decode(data)
	require.ErrorIs(t, err, ErrMalformed)

	doc, err := DecodeTolerant(data)
	require.ErrorIs(t, err, ErrMalformed)
	require.NotNil(t, doc)
	assert.Equal(t, "<p>first</p><p></p><p>last</p>", Render(doc))
}

func TestDecodeTolerant(t *testing.T) {
	doc, err := DecodeTolerant([]byte(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"ok"}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, "<p>ok</p>", Render(doc))

	doc, err = DecodeTolerant([]byte(`{"type":"doc","content":[{"type":"bulletList","content":[{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"a"}]},42]}]}]}`))
	require.ErrorIs(t, err, ErrMalformed)
	assert.Equal(t, "<ul><li><p>a</p></li></ul>", Render(doc))

	doc, err = DecodeTolerant([]byte(`[1,2]`))
	require.ErrorIs(t, err, ErrMalformed)
	assert.Nil(t, doc)

	doc, err = DecodeTolerant(nil)
	require.NoError(t, err)
	assert.True(t, doc.Empty())
}
