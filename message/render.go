package message

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Plain renders the full chain without any styling or click metadata.
func (t *Text) Plain() string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	t.renderPlain(&sb)
	return sb.String()
}

func (t *Text) renderPlain(sb *strings.Builder) {
	sb.WriteString(t.content)
	for _, e := range t.extra {
		e.renderPlain(sb)
	}
}

// String renders the same as [Text.Plain].
func (t *Text) String() string {
	return t.Plain()
}

// ANSI renders the full chain with terminal escape sequences. Segments with
// an open-URL click action additionally render as terminal hyperlinks.
func (t *Text) ANSI() string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	t.renderANSI(&sb)
	return sb.String()
}

func (t *Text) renderANSI(sb *strings.Builder) {
	style := lipgloss.NewStyle()
	if t.color != Unstyled {
		style = style.Foreground(lipgloss.Color(ansiIndex[t.color]))
	}
	if t.bold {
		style = style.Bold(true)
	}
	if t.italic {
		style = style.Italic(true)
	}
	if t.underlined {
		style = style.Underline(true)
	}
	if t.strikethrough {
		style = style.Strikethrough(true)
	}
	out := style.Render(t.content)
	if t.click == ClickOpenURL && t.clickArg != "" {
		out = termenv.Hyperlink(t.clickArg, out)
	}
	sb.WriteString(out)
	for _, e := range t.extra {
		e.renderANSI(sb)
	}
}
