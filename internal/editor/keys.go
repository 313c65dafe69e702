// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import "strings"

// KeyEvent is a keydown forwarded from the textarea.
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrlKey"`
	Meta  bool   `json:"metaKey"`
	Shift bool   `json:"shiftKey"`
	Alt   bool   `json:"altKey"`
}

// KeyResult is the outcome of HandleKey. PreventDefault tells the browser
// to suppress its own handling of the combination.
type KeyResult struct {
	Buffer         Buffer  `json:"buffer"`
	Command        Command `json:"command,omitempty"`
	PreventDefault bool    `json:"preventDefault"`
}

var shortcuts = map[string]Command{
	"b": Bold,
	"i": Italic,
	"k": Link,
}

// Shortcut maps Mod+B, Mod+I and Mod+K (Mod is Ctrl or Meta) to commands.
func Shortcut(ev KeyEvent) (Command, bool) {
	if !ev.Ctrl && !ev.Meta {
		return "", false
	}
	cmd, ok := shortcuts[strings.ToLower(ev.Key)]
	return cmd, ok
}

// HandleKey applies the shortcut bound to ev, if any.
func HandleKey(buf Buffer, ev KeyEvent, loc Locale) KeyResult {
	cmd, ok := Shortcut(ev)
	if !ok {
		return KeyResult{Buffer: buf}
	}
	return KeyResult{Buffer: Apply(buf, cmd, loc), Command: cmd, PreventDefault: true}
}
