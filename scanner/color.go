package scanner

import (
	"fmt"
	"strings"

	"comptesupport/workbook"
)

// NoFillIndex is the palette index a cell without background reports.
const NoFillIndex = 64

// Color is the background of a cell. The set of implementations is closed:
// RGBColor, ThemeColor, IndexedColor and OpaqueColor.
type Color interface {
	Signature() string
	isColor()
}

type RGBColor struct {
	Hex string
}

type ThemeColor struct {
	Index int
	Tint  float64
}

type IndexedColor struct {
	Index int
}

type OpaqueColor struct {
	Raw string
}

func (RGBColor) isColor()     {}
func (ThemeColor) isColor()   {}
func (IndexedColor) isColor() {}
func (OpaqueColor) isColor()  {}

func (c RGBColor) Signature() string {
	return "#" + c.Hex
}

var themeHex = map[int]string{
	0: "#FFFFFF",
	1: "#000000",
	2: "#E7E6E6",
	3: "#44546A",
	4: "#4472C4",
	5: "#ED7D31",
	6: "#A5A5A5",
	7: "#FFC000",
	8: "#5B9BD5",
	9: "#70AD47",
}

func (c ThemeColor) Signature() string {
	if hex, ok := themeHex[c.Index]; ok {
		return hex
	}
	return fmt.Sprintf("Theme: %d", c.Index)
}

func (c IndexedColor) Signature() string {
	if c.Index == NoFillIndex {
		return "#FFFFFF"
	}
	return fmt.Sprintf("Color Index: %d", c.Index)
}

func (c OpaqueColor) Signature() string {
	return c.Raw
}

// IsNoFill reports whether c is the reserved "white / no fill" palette entry.
func IsNoFill(c Color) bool {
	indexed, ok := c.(IndexedColor)
	return ok && indexed.Index == NoFillIndex
}

// Classify maps a raw cell fill onto the closed Color variant. It never fails:
// anything unrecognized becomes an OpaqueColor.
func Classify(fill workbook.Fill) Color {
	if fill.Gradient {
		return OpaqueColor{Raw: "Gradient"}
	}
	ref := fill.Color
	if ref == nil {
		return IndexedColor{Index: NoFillIndex}
	}
	switch {
	case ref.Theme != nil:
		return ThemeColor{Index: *ref.Theme, Tint: ref.Tint}
	case ref.RGB != "":
		if hex, ok := normalizeHex(ref.RGB); ok {
			return RGBColor{Hex: hex}
		}
		return OpaqueColor{Raw: "RGB: " + ref.RGB}
	case ref.Indexed != nil:
		return IndexedColor{Index: *ref.Indexed}
	case ref.Auto:
		return OpaqueColor{Raw: "Auto"}
	}
	return OpaqueColor{Raw: "Pattern: " + fill.Pattern}
}

func normalizeHex(raw string) (string, bool) {
	hex := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
	if len(hex) == 8 {
		hex = hex[2:]
	}
	if len(hex) != 6 {
		return "", false
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			return "", false
		}
	}
	return hex, true
}
