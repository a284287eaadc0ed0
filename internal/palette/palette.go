// Package palette defines the eight simulation hues and how each maps to a
// bright foreground and a dim background terminal colour.
package palette

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/san-kum/fireworks/internal/grid"
)

type Hue uint8

const (
	Grey Hue = iota
	White
	Red
	Yellow
	Green
	Cyan
	Blue
	Magenta
)

// Count is the number of hues; arrays indexed by Hue use it as length.
const Count = 8

// Hues lists every hue in declaration order.
var Hues = [Count]Hue{Grey, White, Red, Yellow, Green, Cyan, Blue, Magenta}

var names = [Count]string{"grey", "white", "red", "yellow", "green", "cyan", "blue", "magenta"}

// shades[h] = {bright, darkened}
var shades = [Count][2]grid.Color{
	Grey:    {grid.DarkGrey, grid.Black},
	White:   {grid.White, grid.Grey},
	Red:     {grid.Red, grid.DarkRed},
	Yellow:  {grid.Yellow, grid.DarkYellow},
	Green:   {grid.Green, grid.DarkGreen},
	Cyan:    {grid.Cyan, grid.DarkCyan},
	Blue:    {grid.Blue, grid.DarkBlue},
	Magenta: {grid.Magenta, grid.DarkMagenta},
}

func (h Hue) String() string {
	if int(h) < Count {
		return names[h]
	}
	return fmt.Sprintf("hue(%d)", uint8(h))
}

// Color returns the concrete colour for h. The darkened variant is used
// for smoke backgrounds, the bright one for particle glyphs.
func (h Hue) Color(darken bool) grid.Color {
	if int(h) >= Count {
		return grid.White
	}
	if darken {
		return shades[h][1]
	}
	return shades[h][0]
}

// Random picks a hue uniformly.
func Random(rng *rand.Rand) Hue {
	return Hue(rng.Intn(Count))
}

// Parse resolves a hue by name, case-insensitively. "gray" is accepted.
func Parse(name string) (Hue, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "gray" {
		n = "grey"
	}
	for i, s := range names {
		if s == n {
			return Hue(i), nil
		}
	}
	return 0, fmt.Errorf("unknown hue: %q", name)
}

// ParseAll resolves a list of hue names.
func ParseAll(names []string) ([]Hue, error) {
	if len(names) == 0 {
		return nil, nil
	}
	hues := make([]Hue, 0, len(names))
	for _, n := range names {
		h, err := Parse(n)
		if err != nil {
			return nil, err
		}
		hues = append(hues, h)
	}
	return hues, nil
}
