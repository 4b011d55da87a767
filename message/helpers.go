package message

// Command returns a segment that suggests cmd when clicked: yellow,
// underlined, with a "Click to execute" hover.
func Command(text, cmd string) *Text {
	return New(text).
		Color(Yellow).
		Underlined().
		OnClick(ClickSuggestCommand, cmd).
		Hover("Click to execute: " + cmd)
}

// Link returns a segment that opens url when clicked: dark blue, underlined,
// with a "Click to open" hover.
func Link(text, url string) *Text {
	return New(text).
		Color(DarkBlue).
		Underlined().
		OnClick(ClickOpenURL, url).
		Hover("Click to open: " + url)
}

// Copyable returns a segment that copies payload when clicked: gold,
// underlined, with a "Click to copy to clipboard" hover.
func Copyable(text, payload string) *Text {
	return New(text).
		Color(Gold).
		Underlined().
		OnClick(ClickCopy, payload).
		Hover("Click to copy to clipboard: " + text)
}

// Join concatenates parts with sep between each pair. Nil parts are skipped,
// and a nil sep joins the parts back to back. Join always returns a fresh
// head segment, so styling it does not restyle the parts.
func Join(sep *Text, parts ...*Text) *Text {
	joined := New("")
	first := true
	for _, p := range parts {
		if p == nil {
			continue
		}
		if !first && sep != nil {
			joined.Append(sep.clone())
		}
		joined.Append(p)
		first = false
	}
	return joined
}

func (t *Text) clone() *Text {
	cp := *t
	cp.extra = append([]*Text(nil), t.extra...)
	return &cp
}
