package editor

import (
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// keyString names a key event the way keymaps spell it: "up",
// "shift+down", "q", "ctrl+c".
func keyString(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		name := string(r)
		if r == ' ' {
			name = "space"
		}
		if mods&tcell.ModAlt != 0 {
			return "alt+" + name
		}
		return name
	}

	name := specialKeyName(ev.Key())
	if name == "" {
		return ctrlKeyName(ev.Key())
	}
	prefix := ""
	if mods&tcell.ModCtrl != 0 {
		prefix += "ctrl+"
	}
	if mods&tcell.ModAlt != 0 {
		prefix += "alt+"
	}
	if mods&tcell.ModShift != 0 {
		prefix += "shift+"
	}
	return prefix + name
}

func specialKeyName(key tcell.Key) string {
	switch key {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyDelete:
		return "del"
	case tcell.KeyEscape:
		return "esc"
	}
	return ""
}

func ctrlKeyName(key tcell.Key) string {
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+int(key-tcell.KeyCtrlA)))
	}
	return ""
}

// keyDisplay shortens a keymap key for the help line.
func keyDisplay(key string) string {
	parts := strings.Split(key, "+")
	for i, part := range parts {
		switch part {
		case "up":
			parts[i] = "↑"
		case "down":
			parts[i] = "↓"
		case "left":
			parts[i] = "←"
		case "right":
			parts[i] = "→"
		case "shift":
			parts[i] = "⇧"
		case "ctrl":
			parts[i] = "^"
		}
	}
	return strings.Join(parts, "")
}

// keysFor lists the keys bound to action, in a stable order.
func keysFor(keymap map[string]string, action string) []string {
	var keys []string
	for k, v := range keymap {
		if v == action {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
