package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ValidateOptions struct {
	// Strict rejects unknown node kinds and misplaced list children.
	Strict bool
}

// ValidationError describes why a document was refused. Path points at the
// offending node, e.g. "content[2].content[0]".
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Validate checks raw editor JSON before it is stored. Blank input is accepted.
func Validate(data []byte, opts ValidateOptions) error {
	if isBlank(data) {
		return nil
	}
	if !json.Valid(data) {
		return &ValidationError{Reason: "content is not valid JSON"}
	}
	if !opts.Strict {
		return nil
	}

	var root rawNode
	if err := json.Unmarshal(data, &root); err != nil {
		return &ValidationError{Reason: "content is not a document object"}
	}
	if root.Type != "" && Kind(root.Type) != KindDoc {
		return &ValidationError{Path: "type", Reason: fmt.Sprintf("expected %q, got %q", KindDoc, root.Type)}
	}
	return validateChildren(root.Content, "content", KindDoc)
}

func validateChildren(items []json.RawMessage, path string, parent Kind) error {
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		n, err := decodeNode(item)
		if err != nil {
			return &ValidationError{Path: p, Reason: strings.TrimPrefix(err.Error(), ErrMalformed.Error()+": ")}
		}
		kind := Kind(n.Type)
		if !kind.Known() || kind == KindDoc {
			return &ValidationError{Path: p, Reason: fmt.Sprintf("unknown node type %q", n.Type)}
		}
		if err := checkPlacement(parent, kind); err != nil {
			return &ValidationError{Path: p, Reason: err.Error()}
		}
		if err := validateChildren(n.Content, p+".content", kind); err != nil {
			return err
		}
	}
	return nil
}

func checkPlacement(parent, child Kind) error {
	switch parent {
	case KindBulletList, KindOrderedList:
		if child != KindListItem {
			return fmt.Errorf("%s may only contain %s, got %s", parent, KindListItem, child)
		}
	case KindParagraph, KindHeading:
		if child != KindText && child != KindImage && child != KindHardBreak {
			return fmt.Errorf("%s may only contain inline nodes, got %s", parent, child)
		}
	case KindCodeBlock:
		if child != KindText {
			return fmt.Errorf("%s may only contain text, got %s", parent, child)
		}
	default:
		if child == KindText || child == KindHardBreak || child == KindListItem {
			return fmt.Errorf("%s is not allowed inside %s", child, parent)
		}
	}
	return nil
}

// Normalize returns a copy of doc with every image lacking a src removed.
// The input is left untouched.
func Normalize(doc *Document) *Document {
	if doc == nil {
		return &Document{}
	}
	return &Document{Content: normalizeBlocks(doc.Content)}
}

func normalizeBlocks(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		switch v := b.(type) {
		case Image:
			if strings.TrimSpace(v.Src) == "" {
				continue
			}
			out = append(out, v)
		case Paragraph:
			out = append(out, Paragraph{Children: normalizeInlines(v.Children)})
		case Heading:
			out = append(out, Heading{Level: v.Level, Children: normalizeInlines(v.Children)})
		case BulletList:
			out = append(out, BulletList{Items: normalizeItems(v.Items)})
		case OrderedList:
			out = append(out, OrderedList{Items: normalizeItems(v.Items)})
		case ListItem:
			out = append(out, ListItem{Children: normalizeBlocks(v.Children)})
		case Blockquote:
			out = append(out, Blockquote{Children: normalizeBlocks(v.Children)})
		default:
			out = append(out, b)
		}
	}
	return out
}

func normalizeItems(items []ListItem) []ListItem {
	out := make([]ListItem, 0, len(items))
	for _, item := range items {
		out = append(out, ListItem{Children: normalizeBlocks(item.Children)})
	}
	return out
}

func normalizeInlines(inlines []Inline) []Inline {
	out := make([]Inline, 0, len(inlines))
	for _, in := range inlines {
		if img, ok := in.(InlineImage); ok && strings.TrimSpace(img.Src) == "" {
			continue
		}
		if t, ok := in.(Text); ok && len(t.Marks) > 0 {
			t.Marks = append([]Mark(nil), t.Marks...)
			in = t
		}
		out = append(out, in)
	}
	return out
}
