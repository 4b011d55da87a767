// Package message builds styled text for command replies.
//
// A [Text] is a chain of styled segments with optional click and hover
// metadata. Construction is fluent and mutates the receiver, so a Text can be
// assembled in one expression and handed to a [Recipient]. Rendering is
// deferred: [Text.Plain] strips all styling, [Text.ANSI] produces terminal
// escape sequences.
package message

import "fmt"

// Color names one of the 16 palette colors used for replies.
// The zero value leaves the segment unstyled.
type Color uint8

const (
	Unstyled Color = iota
	Black
	DarkBlue
	DarkGreen
	DarkAqua
	DarkRed
	DarkPurple
	Gold
	Gray
	DarkGray
	Blue
	Green
	Aqua
	Red
	LightPurple
	Yellow
	White
)

// ansiIndex maps each named color onto the standard 16 ANSI colors.
var ansiIndex = [...]string{
	Black:       "0",
	DarkBlue:    "4",
	DarkGreen:   "2",
	DarkAqua:    "6",
	DarkRed:     "1",
	DarkPurple:  "5",
	Gold:        "3",
	Gray:        "7",
	DarkGray:    "8",
	Blue:        "12",
	Green:       "10",
	Aqua:        "14",
	Red:         "9",
	LightPurple: "13",
	Yellow:      "11",
	White:       "15",
}

// ClickAction describes what activating a segment should do in hosts that
// support interactive text. Hosts without click support ignore it, except
// that [ClickOpenURL] still renders as a terminal hyperlink.
type ClickAction uint8

const (
	ClickNone ClickAction = iota
	ClickRunCommand
	ClickSuggestCommand
	ClickOpenURL
	ClickCopy
)

// Recipient is anything that can receive a rendered reply.
type Recipient interface {
	Reply(msg *Text)
}

// Text is one styled segment plus any segments appended after it.
type Text struct {
	content       string
	color         Color
	bold          bool
	italic        bool
	underlined    bool
	strikethrough bool
	click         ClickAction
	clickArg      string
	hover         string
	extra         []*Text
}

// New returns a Text holding the given content with no styling.
func New(content string) *Text {
	return &Text{content: content}
}

// Newf is [New] with [fmt.Sprintf] formatting.
func Newf(format string, args ...any) *Text {
	return New(fmt.Sprintf(format, args...))
}

// Styled returns a colored Text, a shorthand for New(content).Color(c).
func Styled(content string, c Color) *Text {
	return New(content).Color(c)
}

func (t *Text) Color(c Color) *Text {
	t.color = c
	return t
}

func (t *Text) Bold() *Text {
	t.bold = true
	return t
}

func (t *Text) Italic() *Text {
	t.italic = true
	return t
}

func (t *Text) Underlined() *Text {
	t.underlined = true
	return t
}

func (t *Text) Strikethrough() *Text {
	t.strikethrough = true
	return t
}

// OnClick attaches a click action to this segment only, not to appended ones.
func (t *Text) OnClick(action ClickAction, arg string) *Text {
	t.click = action
	t.clickArg = arg
	return t
}

// Hover attaches hover text to this segment.
func (t *Text) Hover(hover string) *Text {
	t.hover = hover
	return t
}

// Append adds segments after this one. Nil segments are skipped.
func (t *Text) Append(parts ...*Text) *Text {
	for _, p := range parts {
		if p != nil {
			t.extra = append(t.extra, p)
		}
	}
	return t
}

// Content returns this segment's own content, without appended segments.
func (t *Text) Content() string {
	return t.content
}

// Click returns the click action and its argument.
func (t *Text) Click() (ClickAction, string) {
	return t.click, t.clickArg
}

// HoverText returns the hover text, empty when unset.
func (t *Text) HoverText() string {
	return t.hover
}
