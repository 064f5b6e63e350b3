// Package palette generates the labels and colors of the demo capsules.
package palette

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	saturation = 0.8
	value      = 0.8
	hueStep    = 0.1
)

// Item is one demo capsule.
type Item struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Items returns n capsules labeled "Item 0" to "Item n-1".
func Items(n int) []Item {
	if n <= 0 {
		return []Item{}
	}
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			Index: i,
			Label: Label(i),
			Color: Color(i).Hex(),
		}
	}
	return items
}

// Label returns the display text of capsule i.
func Label(i int) string {
	return fmt.Sprintf("Item %d", i)
}

// Color returns the fill of capsule i: hue i/10 of a full turn, wrapping.
func Color(i int) colorful.Color {
	hue := math.Mod(float64(i)*hueStep, 1)
	if hue < 0 {
		hue++
	}
	return colorful.Hsv(hue*360, saturation, value)
}
