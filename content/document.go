// Package content models the rich-text documents produced by the blog editor and
// provides the pure transformations run over them: decoding, validation,
// normalization, HTML rendering and reading-time estimation.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind names a node type as it appears in the editor JSON.
type Kind string

const (
	KindDoc            Kind = "doc"
	KindParagraph      Kind = "paragraph"
	KindHeading        Kind = "heading"
	KindBulletList     Kind = "bulletList"
	KindOrderedList    Kind = "orderedList"
	KindListItem       Kind = "listItem"
	KindBlockquote     Kind = "blockquote"
	KindCodeBlock      Kind = "codeBlock"
	KindImage          Kind = "image"
	KindHorizontalRule Kind = "horizontalRule"
	KindText           Kind = "text"
	KindHardBreak      Kind = "hardBreak"
)

// Known reports whether k is one of the node kinds this package understands.
func (k Kind) Known() bool {
	switch k {
	case KindDoc, KindParagraph, KindHeading, KindBulletList, KindOrderedList, KindListItem,
		KindBlockquote, KindCodeBlock, KindImage, KindHorizontalRule, KindText, KindHardBreak:
		return true
	}
	return false
}

// MarkType names an inline formatting mark.
type MarkType string

const (
	MarkBold   MarkType = "bold"
	MarkItalic MarkType = "italic"
	MarkStrike MarkType = "strike"
	MarkCode   MarkType = "code"
	MarkLink   MarkType = "link"
)

// DefaultHeadingLevel is used when a heading carries no level attribute.
const DefaultHeadingLevel = 2

// ErrMalformed is returned when stored content cannot be decoded into a document.
var ErrMalformed = errors.New("malformed content")

// Block is a node that may appear at document level or inside lists and quotes.
type Block interface {
	Kind() Kind
	block()
}

// Inline is a leaf node inside paragraphs and headings.
type Inline interface {
	Kind() Kind
	inline()
}

type Paragraph struct {
	Children []Inline
}

type Heading struct {
	Level    int
	Children []Inline
}

type BulletList struct {
	Items []ListItem
}

type OrderedList struct {
	Items []ListItem
}

type ListItem struct {
	Children []Block
}

type Blockquote struct {
	Children []Block
}

type CodeBlock struct {
	Language string
	Code     string
}

type Image struct {
	Src   string
	Alt   string
	Title string
}

type HorizontalRule struct{}

// Unknown keeps a node of a kind this package does not know so that it can be
// written back unchanged. It renders to nothing.
type Unknown struct {
	Type string
	Raw  json.RawMessage
}

type Text struct {
	Value string
	Marks []Mark
}

type InlineImage struct {
	Src string
	Alt string
}

type HardBreak struct{}

type Mark struct {
	Type MarkType
	Href string
}

func (Paragraph) Kind() Kind      { return KindParagraph }
func (Heading) Kind() Kind        { return KindHeading }
func (BulletList) Kind() Kind     { return KindBulletList }
func (OrderedList) Kind() Kind    { return KindOrderedList }
func (ListItem) Kind() Kind       { return KindListItem }
func (Blockquote) Kind() Kind     { return KindBlockquote }
func (CodeBlock) Kind() Kind      { return KindCodeBlock }
func (Image) Kind() Kind          { return KindImage }
func (HorizontalRule) Kind() Kind { return KindHorizontalRule }
func (u Unknown) Kind() Kind      { return Kind(u.Type) }
func (Text) Kind() Kind           { return KindText }
func (InlineImage) Kind() Kind    { return KindImage }
func (HardBreak) Kind() Kind      { return KindHardBreak }

func (Paragraph) block()      {}
func (Heading) block()        {}
func (BulletList) block()     {}
func (OrderedList) block()    {}
func (ListItem) block()       {}
func (Blockquote) block()     {}
func (CodeBlock) block()      {}
func (Image) block()          {}
func (HorizontalRule) block() {}
func (Unknown) block()        {}

func (Text) inline()        {}
func (InlineImage) inline() {}
func (HardBreak) inline()   {}
func (Unknown) inline()     {}

// Document is the root of a content tree. A nil or empty document is valid and
// renders to nothing.
type Document struct {
	Content []Block
}

// Empty reports whether the document has no blocks.
func (d *Document) Empty() bool {
	return d == nil || len(d.Content) == 0
}

// rawNode mirrors the editor's JSON shape.
type rawNode struct {
	Type    string            `json:"type"`
	Attrs   map[string]any    `json:"attrs,omitempty"`
	Content []json.RawMessage `json:"content,omitempty"`
	Text    string            `json:"text,omitempty"`
	Marks   []rawMark         `json:"marks,omitempty"`
}

type rawMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// isBlank reports whether data holds no document at all.
func isBlank(data []byte) bool {
	s := strings.TrimSpace(string(data))
	return s == "" || s == "null" || s == "{}"
}

// Decode parses editor JSON into a Document. Blank input yields an empty
// document. Nodes of unknown kind are preserved as Unknown. Any malformed node
// fails the whole document.
func Decode(data []byte) (*Document, error) {
	if isBlank(data) {
		return &Document{}, nil
	}
	var root rawNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var d decoder
	blocks, err := d.blocks(root.Content)
	if err != nil {
		return nil, err
	}
	return &Document{Content: blocks}, nil
}

// DecodeTolerant is Decode for display. A malformed node is dropped at its own
// level and its siblings are kept. The document is nil only when data is not a
// JSON object with a content array; otherwise the returned error, if any,
// wraps ErrMalformed and reports how many nodes were dropped.
func DecodeTolerant(data []byte) (*Document, error) {
	if isBlank(data) {
		return &Document{}, nil
	}
	var root struct {
		Content []json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	d := decoder{tolerant: true}
	blocks, _ := d.blocks(root.Content)
	doc := &Document{Content: blocks}
	if d.dropped > 0 {
		return doc, fmt.Errorf("%w: dropped %d node(s)", ErrMalformed, d.dropped)
	}
	return doc, nil
}

// decoder walks raw nodes. In tolerant mode errors never propagate: the
// failing node is counted and left out.
type decoder struct {
	tolerant bool
	dropped  int
}

// fail reports whether decoding must stop because of err.
func (d *decoder) fail(err error) bool {
	if err == nil {
		return false
	}
	if d.tolerant {
		d.dropped++
		return false
	}
	return true
}

func decodeNode(data json.RawMessage) (rawNode, error) {
	var n rawNode
	if err := json.Unmarshal(data, &n); err != nil {
		return n, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if n.Type == "" {
		return n, fmt.Errorf("%w: node without type", ErrMalformed)
	}
	return n, nil
}

func (d *decoder) blocks(items []json.RawMessage) ([]Block, error) {
	blocks := make([]Block, 0, len(items))
	for _, item := range items {
		n, err := decodeNode(item)
		if err != nil {
			if d.fail(err) {
				return nil, err
			}
			continue
		}
		b, err := d.block(n, item)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func (d *decoder) block(n rawNode, raw json.RawMessage) (Block, error) {
	switch Kind(n.Type) {
	case KindParagraph:
		children, err := d.inlines(n.Content)
		return Paragraph{Children: children}, err
	case KindHeading:
		children, err := d.inlines(n.Content)
		return Heading{Level: headingLevel(n.Attrs), Children: children}, err
	case KindBulletList:
		items, err := d.listItems(n.Content)
		return BulletList{Items: items}, err
	case KindOrderedList:
		items, err := d.listItems(n.Content)
		return OrderedList{Items: items}, err
	case KindListItem:
		children, err := d.blocks(n.Content)
		return ListItem{Children: children}, err
	case KindBlockquote:
		children, err := d.blocks(n.Content)
		return Blockquote{Children: children}, err
	case KindCodeBlock:
		return d.codeBlock(n)
	case KindImage:
		return Image{
			Src:   attrString(n.Attrs, "src"),
			Alt:   attrString(n.Attrs, "alt"),
			Title: attrString(n.Attrs, "title"),
		}, nil
	case KindHorizontalRule:
		return HorizontalRule{}, nil
	}
	return Unknown{Type: n.Type, Raw: append(json.RawMessage(nil), raw...)}, nil
}

// listItems wraps stray non-item children in a list item so lists stay
// well formed. Strict validation rejects such input before it gets here.
func (d *decoder) listItems(items []json.RawMessage) ([]ListItem, error) {
	blocks, err := d.blocks(items)
	if err != nil {
		return nil, err
	}
	out := make([]ListItem, 0, len(blocks))
	for _, b := range blocks {
		if li, ok := b.(ListItem); ok {
			out = append(out, li)
			continue
		}
		out = append(out, ListItem{Children: []Block{b}})
	}
	return out, nil
}

func (d *decoder) codeBlock(n rawNode) (Block, error) {
	language := attrString(n.Attrs, "language")
	if language == "" {
		language = "text"
	}
	var code strings.Builder
	for _, item := range n.Content {
		child, err := decodeNode(item)
		if err != nil {
			if d.fail(err) {
				return nil, err
			}
			continue
		}
		code.WriteString(child.Text)
	}
	return CodeBlock{Language: language, Code: code.String()}, nil
}

func (d *decoder) inlines(items []json.RawMessage) ([]Inline, error) {
	inlines := make([]Inline, 0, len(items))
	for _, item := range items {
		n, err := decodeNode(item)
		if err != nil {
			if d.fail(err) {
				return nil, err
			}
			continue
		}
		switch Kind(n.Type) {
		case KindText:
			inlines = append(inlines, Text{Value: n.Text, Marks: decodeMarks(n.Marks)})
		case KindImage:
			inlines = append(inlines, InlineImage{Src: attrString(n.Attrs, "src"), Alt: attrString(n.Attrs, "alt")})
		case KindHardBreak:
			inlines = append(inlines, HardBreak{})
		default:
			inlines = append(inlines, Unknown{Type: n.Type, Raw: append(json.RawMessage(nil), item...)})
		}
	}
	return inlines, nil
}

func decodeMarks(raw []rawMark) []Mark {
	if len(raw) == 0 {
		return nil
	}
	marks := make([]Mark, 0, len(raw))
	for _, m := range raw {
		mark := Mark{Type: MarkType(m.Type)}
		if mark.Type == MarkLink {
			mark.Href = attrString(m.Attrs, "href")
		}
		marks = append(marks, mark)
	}
	return marks
}

func headingLevel(attrs map[string]any) int {
	switch v := attrs["level"].(type) {
	case float64:
		if v != 0 {
			return int(v)
		}
	case string:
		if lvl, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && lvl != 0 {
			return lvl
		}
	}
	return DefaultHeadingLevel
}

func attrString(attrs map[string]any, key string) string {
	if s, ok := attrs[key].(string); ok {
		return s
	}
	return ""
}

// MarshalJSON writes the document back in the editor format.
func (d *Document) MarshalJSON() ([]byte, error) {
	root := map[string]any{"type": string(KindDoc)}
	if d != nil {
		root["content"] = encodeBlocks(d.Content)
	} else {
		root["content"] = []any{}
	}
	return json.Marshal(root)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := Decode(data)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

func node(kind Kind) map[string]any {
	return map[string]any{"type": string(kind)}
}

func encodeBlocks(blocks []Block) []any {
	out := make([]any, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, encodeBlock(b))
	}
	return out
}

func encodeBlock(b Block) any {
	switch v := b.(type) {
	case Paragraph:
		n := node(KindParagraph)
		n["content"] = encodeInlines(v.Children)
		return n
	case Heading:
		n := node(KindHeading)
		n["attrs"] = map[string]any{"level": v.Level}
		n["content"] = encodeInlines(v.Children)
		return n
	case BulletList:
		n := node(KindBulletList)
		n["content"] = encodeItems(v.Items)
		return n
	case OrderedList:
		n := node(KindOrderedList)
		n["content"] = encodeItems(v.Items)
		return n
	case ListItem:
		n := node(KindListItem)
		n["content"] = encodeBlocks(v.Children)
		return n
	case Blockquote:
		n := node(KindBlockquote)
		n["content"] = encodeBlocks(v.Children)
		return n
	case CodeBlock:
		n := node(KindCodeBlock)
		n["attrs"] = map[string]any{"language": v.Language}
		if v.Code != "" {
			n["content"] = []any{map[string]any{"type": string(KindText), "text": v.Code}}
		}
		return n
	case Image:
		n := node(KindImage)
		n["attrs"] = map[string]any{"src": v.Src, "alt": v.Alt, "title": v.Title}
		return n
	case HorizontalRule:
		return node(KindHorizontalRule)
	case Unknown:
		return v.Raw
	}
	return nil
}

func encodeItems(items []ListItem) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, encodeBlock(item))
	}
	return out
}

func encodeInlines(inlines []Inline) []any {
	out := make([]any, 0, len(inlines))
	for _, in := range inlines {
		switch v := in.(type) {
		case Text:
			n := node(KindText)
			n["text"] = v.Value
			if len(v.Marks) > 0 {
				marks := make([]any, 0, len(v.Marks))
				for _, m := range v.Marks {
					mark := map[string]any{"type": string(m.Type)}
					if m.Type == MarkLink {
						mark["attrs"] = map[string]any{"href": m.Href}
					}
					marks = append(marks, mark)
				}
				n["marks"] = marks
			}
			out = append(out, n)
		case InlineImage:
			n := node(KindImage)
			n["attrs"] = map[string]any{"src": v.Src, "alt": v.Alt}
			out = append(out, n)
		case HardBreak:
			out = append(out, node(KindHardBreak))
		case Unknown:
			out = append(out, v.Raw)
		}
	}
	return out
}
