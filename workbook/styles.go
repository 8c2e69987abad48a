package workbook

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const stylesPart = "xl/styles.xml"

// ColorRef is the raw fill color of a cell, before any theme or palette lookup.
type ColorRef struct {
	RGB     string
	Theme   *int
	Tint    float64
	Indexed *int
	Auto    bool
}

// Fill is the background of a cell style. Color is nil when the cell has no fill.
type Fill struct {
	Pattern  string
	Gradient bool
	Color    *ColorRef
}

type fillTable struct {
	fills   []Fill
	xfFills []int
}

type styleSheetXML struct {
	XMLName xml.Name `xml:"styleSheet"`
	Fills   struct {
		Fill []fillXML `xml:"fill"`
	} `xml:"fills"`
	CellXfs struct {
		Xf []xfXML `xml:"xf"`
	} `xml:"cellXfs"`
}

type fillXML struct {
	PatternFill  *patternFillXML `xml:"patternFill"`
	GradientFill *struct{}       `xml:"gradientFill"`
}

type patternFillXML struct {
	PatternType string    `xml:"patternType,attr"`
	FgColor     *colorXML `xml:"fgColor"`
	BgColor     *colorXML `xml:"bgColor"`
}

type colorXML struct {
	Auto    string  `xml:"auto,attr"`
	RGB     string  `xml:"rgb,attr"`
	Theme   *int    `xml:"theme,attr"`
	Indexed *int    `xml:"indexed,attr"`
	Tint    float64 `xml:"tint,attr"`
}

type xfXML struct {
	FillID int `xml:"fillId,attr"`
}

// readFillTable loads the raw fill definitions of an xlsx package. excelize
// resolves theme and palette colors to RGB on read, which loses the variant.
func readFillTable(path string) (fillTable, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return fillTable{}, fmt.Errorf("open xlsx package %s: %w", path, err)
	}
	defer archive.Close()

	for _, part := range archive.File {
		if !strings.EqualFold(part.Name, stylesPart) {
			continue
		}
		reader, err := part.Open()
		if err != nil {
			return fillTable{}, fmt.Errorf("open %s: %w", stylesPart, err)
		}
		defer reader.Close()
		return parseFillTable(reader)
	}
	return fillTable{}, nil
}

func parseFillTable(r io.Reader) (fillTable, error) {
	var sheet styleSheetXML
	if err := xml.NewDecoder(r).Decode(&sheet); err != nil {
		return fillTable{}, fmt.Errorf("decode %s: %w", stylesPart, err)
	}

	table := fillTable{
		fills:   make([]Fill, 0, len(sheet.Fills.Fill)),
		xfFills: make([]int, 0, len(sheet.CellXfs.Xf)),
	}
	for _, raw := range sheet.Fills.Fill {
		table.fills = append(table.fills, convertFill(raw))
	}
	for _, xf := range sheet.CellXfs.Xf {
		table.xfFills = append(table.xfFills, xf.FillID)
	}
	return table, nil
}

func convertFill(raw fillXML) Fill {
	if raw.GradientFill != nil {
		return Fill{Pattern: "gradient", Gradient: true}
	}
	if raw.PatternFill == nil {
		return Fill{}
	}

	pattern := strings.TrimSpace(raw.PatternFill.PatternType)
	fill := Fill{Pattern: pattern}
	if pattern == "" || pattern == "none" {
		return fill
	}

	color := raw.PatternFill.FgColor
	if color == nil {
		color = raw.PatternFill.BgColor
	}
	if color == nil {
		return fill
	}
	fill.Color = &ColorRef{
		RGB:     strings.ToUpper(strings.TrimSpace(color.RGB)),
		Theme:   color.Theme,
		Tint:    color.Tint,
		Indexed: color.Indexed,
		Auto:    color.Auto == "1" || strings.EqualFold(color.Auto, "true"),
	}
	return fill
}

func (t fillTable) lookup(styleID int) Fill {
	if styleID < 0 || styleID >= len(t.xfFills) {
		return Fill{}
	}
	fillID := t.xfFills[styleID]
	if fillID < 0 || fillID >= len(t.fills) {
		return Fill{}
	}
	return t.fills[fillID]
}
