package content

import "strings"

const (
	WordsPerMinute        = 200
	DefaultReadingMinutes = 5
)

// Estimate returns the reading time of doc in whole minutes. Only text node
// values count towards the total; images, code blocks and structure add
// nothing. Any document with at least one word takes at least a minute.
func Estimate(doc *Document) int {
	if doc.Empty() {
		return 0
	}
	words := 0
	for _, b := range doc.Content {
		words += blockWords(b)
	}
	if words == 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

// EstimateJSON decodes data and estimates it. Undecodable content yields
// DefaultReadingMinutes together with an error wrapping ErrMalformed, which the
// caller is expected to log rather than surface.
func EstimateJSON(data []byte) (int, error) {
	doc, err := Decode(data)
	if err != nil {
		return DefaultReadingMinutes, err
	}
	return Estimate(doc), nil
}

func blockWords(b Block) int {
	switch v := b.(type) {
	case Paragraph:
		return inlineWords(v.Children)
	case Heading:
		return inlineWords(v.Children)
	case BulletList:
		return itemWords(v.Items)
	case OrderedList:
		return itemWords(v.Items)
	case ListItem:
		return itemWords([]ListItem{v})
	case Blockquote:
		n := 0
		for _, c := range v.Children {
			n += blockWords(c)
		}
		return n
	}
	return 0
}

func itemWords(items []ListItem) int {
	n := 0
	for _, item := range items {
		for _, c := range item.Children {
			n += blockWords(c)
		}
	}
	return n
}

func inlineWords(inlines []Inline) int {
	n := 0
	for _, in := range inlines {
		if t, ok := in.(Text); ok {
			n += len(strings.Fields(t.Value))
		}
	}
	return n
}
