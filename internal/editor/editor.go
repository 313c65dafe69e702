// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor is the markdown text-editing engine behind the authoring
// form. Commands are pure functions of (buffer, selection, command); only
// image insertion touches the network.
//
// Positions are rune offsets into Buffer.Text.
package editor

import (
	"fmt"
	"strings"
)

// Selection is the half-open range [Start, End). Start == End is a cursor.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Empty reports whether the selection is a bare cursor.
func (s Selection) Empty() bool {
	return s.Start == s.End
}

// Buffer is the in-progress markdown text with its selection.
type Buffer struct {
	Text      string    `json:"text"`
	Selection Selection `json:"selection"`
}

// Command is a toolbar action.
type Command string

const (
	Bold          Command = "bold"
	Italic        Command = "italic"
	Strikethrough Command = "strikethrough"
	H1            Command = "h1"
	H2            Command = "h2"
	H3            Command = "h3"
	BulletList    Command = "ul"
	OrderedList   Command = "ol"
	Quote         Command = "quote"
	InlineCode    Command = "code"
	CodeBlock     Command = "codeblock"
	Link          Command = "link"
	Table         Command = "table"
)

type markers struct {
	before, after string
}

var commandMarkers = map[Command]markers{
	Bold:          {"**", "**"},
	Italic:        {"*", "*"},
	Strikethrough: {"~~", "~~"},
	H1:            {"# ", ""},
	H2:            {"## ", ""},
	H3:            {"### ", ""},
	BulletList:    {"- ", ""},
	OrderedList:   {"1. ", ""},
	Quote:         {"> ", ""},
	InlineCode:    {"`", "`"},
	CodeBlock:     {"```\n", "\n```"},
	Link:          {"[", "](url)"},
}

// Commands lists the toolbar commands in display order.
var Commands = []Command{
	Bold, Italic, Strikethrough, H1, H2, H3, BulletList, OrderedList,
	Quote, InlineCode, CodeBlock, Link, Table,
}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	if c == Table {
		return true
	}
	_, ok := commandMarkers[c]
	return ok
}

// Apply runs cmd against buf. Out-of-range or inverted selections are
// clamped and ordered first. Unknown commands return the clamped buffer
// unchanged.
func Apply(buf Buffer, cmd Command, loc Locale) Buffer {
	buf = Clamp(buf)

	if cmd == Table {
		return InsertAtCursor(buf, TableSkeleton(loc))
	}
	m, ok := commandMarkers[cmd]
	if !ok {
		return buf
	}
	return InsertText(buf, m.before, m.after, loc.Text(string(cmd)))
}

// InsertText wraps the selection (or placeholder, when the selection is
// empty) with before/after. A wrapped selection collapses the cursor past
// the closing marker; an inserted placeholder ends up selected.
func InsertText(buf Buffer, before, after, placeholder string) Buffer {
	buf = Clamp(buf)
	runes := []rune(buf.Text)
	start, end := buf.Selection.Start, buf.Selection.End

	selected := string(runes[start:end])
	insert := selected
	if insert == "" {
		insert = placeholder
	}

	var b strings.Builder
	b.Grow(len(buf.Text) + len(before) + len(insert) + len(after))
	b.WriteString(string(runes[:start]))
	b.WriteString(before)
	b.WriteString(insert)
	b.WriteString(after)
	b.WriteString(string(runes[end:]))

	out := Buffer{Text: b.String()}
	if selected != "" {
		pos := start + runeLen(before) + runeLen(insert) + runeLen(after)
		out.Selection = Selection{Start: pos, End: pos}
	} else {
		pos := start + runeLen(before)
		out.Selection = Selection{Start: pos, End: pos + runeLen(placeholder)}
	}
	return out
}

// InsertAtCursor inserts text at the selection start, ignoring the rest of
// the selection. The cursor lands after the inserted text.
func InsertAtCursor(buf Buffer, text string) Buffer {
	buf = Clamp(buf)
	runes := []rune(buf.Text)
	start := buf.Selection.Start

	pos := start + runeLen(text)
	return Buffer{
		Text:      string(runes[:start]) + text + string(runes[start:]),
		Selection: Selection{Start: pos, End: pos},
	}
}

// TableSkeleton returns the fixed 3-column, 2-row table template.
func TableSkeleton(loc Locale) string {
	h := loc.Text("table_header")
	c := loc.Text("table_cell")
	return fmt.Sprintf("\n| %[1]s 1 | %[1]s 2 | %[1]s 3 |\n|--------|--------|--------|\n| %[2]s 1 | %[2]s 2 | %[2]s 3 |\n| %[2]s 4 | %[2]s 5 | %[2]s 6 |\n", h, c)
}

// ImageMarkdown returns the line inserted for an uploaded image.
func ImageMarkdown(alt, url string) string {
	return "![" + alt + "](" + url + ")\n"
}

// Clamp forces the selection into [0, len(Text)] with Start <= End.
func Clamp(buf Buffer) Buffer {
	n := runeLen(buf.Text)
	s, e := clampInt(buf.Selection.Start, n), clampInt(buf.Selection.End, n)
	if s > e {
		s, e = e, s
	}
	buf.Selection = Selection{Start: s, End: e}
	return buf
}

// Selected returns the selected text.
func (b Buffer) Selected() string {
	b = Clamp(b)
	return string([]rune(b.Text)[b.Selection.Start:b.Selection.End])
}

func clampInt(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}

func runeLen(s string) int {
	return len([]rune(s))
}
