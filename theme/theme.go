// Package theme maps color roles onto a small built-in gradient for
// the terminal renderer.
package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type RGB [3]uint8

// palette is the built-in gradient, dark to bright.
var palette = []RGB{
	{0x1a, 0x10, 0x2a},
	{0x3b, 0x1f, 0x5e},
	{0x7b, 0x2d, 0x8e},
	{0xc4, 0x3c, 0x9a},
	{0xf4, 0x5c, 0x77},
	{0xff, 0x8c, 0x42},
	{0xff, 0xd1, 0x3f},
}

// Color roles as normalized palette positions.
const (
	RoleMuted   = 0.15
	RoleFG      = 0.45
	RoleAccent  = 0.6
	RoleWarning = 0.8
	RoleLevel   = 1.0
)

// Lookup interpolates the gradient at a normalized position 0-1.
func Lookup(norm float64) RGB {
	if norm <= 0 {
		return palette[0]
	}
	if norm >= 1 {
		return palette[len(palette)-1]
	}
	pos := norm * float64(len(palette)-1)
	i := int(pos)
	t := pos - float64(i)
	a, b := palette[i], palette[i+1]
	return RGB{lerp(a[0], b[0], t), lerp(a[1], b[1], t), lerp(a[2], b[2], t)}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func Color(norm float64) lipgloss.Color {
	c := Lookup(norm)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}

func FG() lipgloss.Color      { return Color(RoleFG) }
func Accent() lipgloss.Color  { return Color(RoleAccent) }
func Muted() lipgloss.Color   { return Color(RoleMuted) }
func Warning() lipgloss.Color { return Color(RoleWarning) }
