package control

import (
	"sort"
	"strings"
)

type Action uint8

const (
	None Action = iota
	Quit
	TogglePause
	ToggleHelp
	Spawn
	Redraw
)

func (a Action) String() string {
	switch a {
	case Quit:
		return "quit"
	case TogglePause:
		return "pause"
	case ToggleHelp:
		return "help"
	case Spawn:
		return "spawn"
	case Redraw:
		return "redraw"
	default:
		return "none"
	}
}

// Source delivers the actions that arrived since the previous Poll. Poll
// must not block.
type Source interface {
	Poll() []Action
}

// Bindings maps key names, as produced by tcell's and bubbletea's key
// stringers (lower-cased), to actions.
type Bindings map[string]Action

func DefaultBindings() Bindings {
	return Bindings{
		"q":      Quit,
		"esc":    Quit,
		"ctrl+c": Quit,
		" ":      TogglePause,
		"space":  TogglePause,
		"p":      TogglePause,
		"?":      ToggleHelp,
		"h":      ToggleHelp,
		"f":      Spawn,
		"enter":  Spawn,
		"r":      Redraw,
		"ctrl+l": Redraw,
	}
}

// Lookup resolves a key name, falling back to its lower-case form.
func (b Bindings) Lookup(key string) Action {
	if a, ok := b[key]; ok {
		return a
	}
	return b[strings.ToLower(key)]
}

// Keys lists the keys bound to a, sorted, for help text.
func (b Bindings) Keys(a Action) []string {
	var keys []string
	for k, v := range b {
		if v == a {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Help is the text shown by the key overlay.
func Help() []string {
	return []string{
		"fireworks",
		"",
		"space  pause / resume",
		"f      launch a firework",
		"r      redraw",
		"?      toggle this help",
		"q      quit",
	}
}
