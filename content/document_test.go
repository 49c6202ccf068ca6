package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBlank(t *testing.T) {
	for _, input := range []string{"", "null", "{}", "  "} {
		doc, err := Decode([]byte(input))
		require.NoError(t, err)
		assert.True(t, doc.Empty())
	}
}

func TestDecodeTree(t *testing.T) {
	doc := mustDecode(t, `{"type":"doc","content":[
		{"type":"heading","content":[{"type":"text","text":"T"}]},
		{"type":"codeBlock","content":[{"type":"text","text":"a"},{"type":"text","text":"b"}]},
		{"type":"bulletList","content":[{"type":"paragraph","content":[{"type":"text","text":"stray"}]}]},
		{"type":"paragraph","content":[{"type":"text","text":"x","marks":[{"type":"link","attrs":{"href":"/p"}}]}]}]}`)

	require.Len(t, doc.Content, 4)
	assert.Equal(t, Heading{Level: DefaultHeadingLevel, Children: []Inline{Text{Value: "T"}}}, doc.Content[0])
	assert.Equal(t, CodeBlock{Language: "text", Code: "ab"}, doc.Content[1])

	list, ok := doc.Content[2].(BulletList)
	require.True(t, ok)
	require.Len(t, list.Items, 1)
	assert.IsType(t, Paragraph{}, list.Items[0].Children[0])

	p := doc.Content[3].(Paragraph)
	assert.Equal(t, []Mark{{Type: MarkLink, Href: "/p"}}, p.Children[0].(Text).Marks)
}

func TestMarshalKeepsUnknownNodes(t *testing.T) {
	in := `{"type":"doc","content":[{"type":"callout","attrs":{"tone":"info"}},{"type":"paragraph","content":[{"type":"text","text":"hi","marks":[{"type":"bold"}]}]}]}`
	doc := mustDecode(t, in)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))

	var again Document
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, Render(doc), Render(&again))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		strict  bool
		wantErr bool
	}{
		{"blank", "", true, false},
		{"invalid json", `{"type":`, false, true},
		{"unknown kind lenient", `{"type":"doc","content":[{"type":"callout"}]}`, false, false},
		{"unknown kind strict", `{"type":"doc","content":[{"type":"callout"}]}`, true, true},
		{"wrong root", `{"type":"paragraph","content":[]}`, true, true},
		{"list child strict", `{"type":"doc","content":[{"type":"bulletList","content":[{"type":"paragraph"}]}]}`, true, true},
		{"block inside paragraph", `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"blockquote"}]}]}`, true, true},
		{"node without type", `{"type":"doc","content":[{"content":[]}]}`, true, true},
		{
			name:   "valid strict",
			data:   `{"type":"doc","content":[{"type":"orderedList","content":[{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"a"},{"type":"hardBreak"}]}]}]},{"type":"image","attrs":{"src":"/x.png"}}]}`,
			strict: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.data), ValidateOptions{Strict: tt.strict})
			if tt.wantErr {
				var vErr *ValidationError
				assert.ErrorAs(t, err, &vErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNormalizeDropsImagesWithoutSrc(t *testing.T) {
	doc := mustDecode(t, `{"type":"doc","content":[
		{"type":"image","attrs":{"src":""}},
		{"type":"paragraph","content":[{"type":"text","text":"a"},{"type":"image","attrs":{"alt":"x"}}]},
		{"type":"blockquote","content":[{"type":"image","attrs":{"src":"  "}},{"type":"image","attrs":{"src":"/ok.png"}}]}]}`)

	normalized := Normalize(doc)

	require.Len(t, normalized.Content, 2)
	assert.Equal(t, Paragraph{Children: []Inline{Text{Value: "a"}}}, normalized.Content[0])
	assert.Equal(t, Blockquote{Children: []Block{Image{Src: "/ok.png"}}}, normalized.Content[1])

	// input untouched
	assert.Len(t, doc.Content, 3)
	assert.Len(t, doc.Content[1].(Paragraph).Children, 2)
}
