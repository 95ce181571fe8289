// Package ui builds the main window of the desktop shell using Fyne.
package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CompactTheme tightens the default Fyne theme for a data-dense window and
// raises text contrast.
type CompactTheme struct{}

var _ fyne.Theme = (*CompactTheme)(nil)

// NewCompactTheme creates a compact theme.
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{}
}

// ColorNameBanner is the background of the update banner.
const ColorNameBanner fyne.ThemeColorName = "websqlBanner"

// Color returns the color for the specified name and variant.
func (c *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameForeground:
		if variant == theme.VariantLight {
			return color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF}
		}
		return color.RGBA{R: 0xF5, G: 0xF5, B: 0xF5, A: 0xFF}

	case theme.ColorNamePlaceHolder:
		if variant == theme.VariantLight {
			return color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xFF}
		}
		return color.RGBA{R: 0xA0, G: 0xA0, B: 0xA0, A: 0xFF}

	case theme.ColorNameInputBorder:
		if variant == theme.VariantLight {
			return color.RGBA{R: 0xB0, G: 0xB0, B: 0xB0, A: 0xFF}
		}
		return color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xFF}

	case ColorNameBanner:
		if variant == theme.VariantLight {
			return color.RGBA{R: 0xE3, G: 0xF0, B: 0xFF, A: 0xFF}
		}
		return color.RGBA{R: 0x1C, G: 0x33, B: 0x52, A: 0xFF}

	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

// Font returns the font resource for the specified text style.
func (c *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns the icon resource for the specified name.
func (c *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns the size for the specified name.
func (c *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 13
	case theme.SizeNameCaptionText:
		return 11
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNamePadding:
		return 4 // default is 6
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameInputRadius:
		return 4
	default:
		return theme.DefaultTheme().Size(name)
	}
}
