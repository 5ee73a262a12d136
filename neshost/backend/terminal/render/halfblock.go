package render

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
)

// UpperHalfBlock draws the top pixel in the foreground and the bottom one in the background
const UpperHalfBlock = '▀'

// RGB converts an RGBA pixel to a true-colour terminal colour, ignoring alpha.
func RGB(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// HalfBlock packs two vertically adjacent pixels into one terminal cell.
func HalfBlock(top, bottom color.RGBA) (rune, tcell.Style) {
	if top == bottom {
		return ' ', tcell.StyleDefault.Background(RGB(top))
	}
	return UpperHalfBlock, tcell.StyleDefault.Foreground(RGB(top)).Background(RGB(bottom))
}
