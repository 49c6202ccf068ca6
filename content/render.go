package content

import (
	"bufio"
	"fmt"
	"html/template"
	"io"
	"strings"
)

// markOrder fixes the nesting of marks from outermost to innermost so the
// order marks were applied in the editor never changes the output.
var markOrder = []MarkType{MarkLink, MarkBold, MarkItalic, MarkStrike, MarkCode}

var markTags = map[MarkType]string{
	MarkBold:   "strong",
	MarkItalic: "em",
	MarkStrike: "s",
	MarkCode:   "code",
}

// Render returns the HTML for doc. A nil or empty document renders to "".
func Render(doc *Document) string {
	var sb strings.Builder
	_ = RenderTo(&sb, doc)
	return sb.String()
}

// RenderTo streams the HTML for doc into w node by node.
func RenderTo(w io.Writer, doc *Document) error {
	if doc.Empty() {
		return nil
	}
	bw := bufio.NewWriter(w)
	r := renderer{w: bw}
	for _, b := range doc.Content {
		r.block(b)
	}
	return bw.Flush()
}

type renderer struct {
	w *bufio.Writer
}

func (r renderer) write(parts ...string) {
	for _, p := range parts {
		r.w.WriteString(p)
	}
}

func (r renderer) text(s string) {
	r.w.WriteString(template.HTMLEscapeString(s))
}

func (r renderer) block(b Block) {
	switch v := b.(type) {
	case Paragraph:
		r.write("<p>")
		r.inlines(v.Children)
		r.write("</p>")
	case Heading:
		level := v.Level
		if level < 1 || level > 6 {
			level = DefaultHeadingLevel
		}
		r.write(fmt.Sprintf("<h%d>", level))
		r.inlines(v.Children)
		r.write(fmt.Sprintf("</h%d>", level))
	case BulletList:
		r.write("<ul>")
		r.items(v.Items)
		r.write("</ul>")
	case OrderedList:
		r.write("<ol>")
		r.items(v.Items)
		r.write("</ol>")
	case ListItem:
		r.items([]ListItem{v})
	case Blockquote:
		r.write("<blockquote>")
		for _, c := range v.Children {
			r.block(c)
		}
		r.write("</blockquote>")
	case CodeBlock:
		r.write(`<pre><code class="language-`, template.HTMLEscapeString(v.Language), `">`)
		r.text(v.Code)
		r.write("</code></pre>")
	case Image:
		if v.Src == "" {
			return
		}
		r.write("<figure>")
		r.image(v.Src, v.Alt, v.Title)
		if v.Title != "" {
			r.write("<figcaption>")
			r.text(v.Title)
			r.write("</figcaption>")
		}
		r.write("</figure>")
	case HorizontalRule:
		r.write("<hr>")
	}
	// Unknown kinds render nothing.
}

func (r renderer) items(items []ListItem) {
	for _, item := range items {
		r.write("<li>")
		for _, c := range item.Children {
			r.block(c)
		}
		r.write("</li>")
	}
}

func (r renderer) image(src, alt, title string) {
	r.write(`<img src="`, template.HTMLEscapeString(safeURL(src, true)), `" alt="`, template.HTMLEscapeString(alt), `"`)
	if title != "" {
		r.write(` title="`, template.HTMLEscapeString(title), `"`)
	}
	r.write(` loading="lazy">`)
}

func (r renderer) inlines(inlines []Inline) {
	for _, in := range inlines {
		switch v := in.(type) {
		case Text:
			r.markedText(v)
		case InlineImage:
			if v.Src != "" {
				r.image(v.Src, v.Alt, "")
			}
		case HardBreak:
			r.write("<br>")
		}
	}
}

func (r renderer) markedText(t Text) {
	present := make(map[MarkType]Mark, len(t.Marks))
	for _, m := range t.Marks {
		if _, seen := present[m.Type]; !seen {
			present[m.Type] = m
		}
	}

	var closers []string
	for _, mt := range markOrder {
		m, ok := present[mt]
		if !ok {
			continue
		}
		if mt == MarkLink {
			href := m.Href
			if href == "" {
				href = "#"
			}
			r.write(`<a href="`, template.HTMLEscapeString(safeURL(href, false)), `" target="_blank" rel="noopener noreferrer">`)
			closers = append(closers, "</a>")
			continue
		}
		tag := markTags[mt]
		r.write("<", tag, ">")
		closers = append(closers, "</"+tag+">")
	}
	r.text(t.Value)
	for i := len(closers) - 1; i >= 0; i-- {
		r.write(closers[i])
	}
}

// safeURL replaces URLs with a scheme that could execute script by "#".
// Data URLs are only let through for images.
func safeURL(raw string, image bool) string {
	u := strings.TrimSpace(raw)
	lower := strings.ToLower(u)
	if i := strings.IndexAny(lower, ":/?#"); i > 0 && lower[i] == ':' {
		switch scheme := lower[:i]; scheme {
		case "http", "https", "mailto", "tel":
		case "data":
			if !image || !strings.HasPrefix(lower, "data:image/") {
				return "#"
			}
		default:
			return "#"
		}
	}
	return u
}
