// Package scrape extracts coordinate tables from Wikipedia pages and
// turns them into GeoJSON point features.
package scrape

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"golang.org/x/net/html"

	"github.com/samirrijal/stacmap/internal/core/domain"
)

// Table is one parsed HTML table: slugified headers plus text rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

var (
	coordPattern = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)°([NS])[ \x{00a0}]([0-9]+(?:\.[0-9]+)?)°([EW])`)
	slugStrip    = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify normalizes a column header into a snake_case key,
// e.g. "Age (million years)" -> "age_million_years".
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = slugStrip.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// ParseCoordinates extracts decimal-degree lat/lon from a coordinate
// cell such as "35.03°N 111.02°W". Southern and western hemispheres
// come out negative.
func ParseCoordinates(s string) (lat, lon float64, err error) {
	m := coordPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("no coordinate match in %q", s)
	}

	lat, err = strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse latitude %q: %w", m[1], err)
	}
	if m[2] == "S" {
		lat = -lat
	}

	lon, err = strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse longitude %q: %w", m[3], err)
	}
	if m[4] == "W" {
		lon = -lon
	}

	return lat, lon, nil
}

// ParseTables reads an HTML document and returns every table whose
// header row contains the match string. Headers are slugified.
func ParseTables(r io.Reader, match string) ([]Table, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var tables []Table
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			if t, ok := parseTable(n, match); ok {
				tables = append(tables, t)
			}
			return // tables do not nest on these pages
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return tables, nil
}

func parseTable(table *html.Node, match string) (Table, bool) {
	var t Table
	matched := false

	var walkRows func(n *html.Node)
	walkRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			cells, header := rowCells(n)
			if header && t.Headers == nil {
				for _, c := range cells {
					if strings.Contains(c, match) {
						matched = true
					}
					t.Headers = append(t.Headers, Slugify(c))
				}
			} else if !header && len(cells) > 0 {
				t.Rows = append(t.Rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkRows(c)
		}
	}
	walkRows(table)

	return t, matched
}

// rowCells collects the text of each td/th in a row; header reports
// whether the row consists of th cells.
func rowCells(tr *html.Node) (cells []string, header bool) {
	header = true
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "th":
			cells = append(cells, strings.TrimSpace(nodeText(c)))
		case "td":
			header = false
			cells = append(cells, strings.TrimSpace(nodeText(c)))
		}
	}
	if len(cells) == 0 {
		header = false
	}
	return cells, header
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// Features converts the tables into point features. The coordinate
// column feeds the geometry; every other column becomes a property.
// Rows without a parseable coordinate are counted in skipped.
func Features(tables []Table, coordColumn string) (fc domain.FeatureCollection, skipped int) {
	for _, t := range tables {
		coordIdx := -1
		for i, h := range t.Headers {
			if h == coordColumn {
				coordIdx = i
				break
			}
		}
		if coordIdx < 0 {
			continue
		}

		for _, row := range t.Rows {
			if coordIdx >= len(row) {
				skipped++
				continue
			}
			lat, lon, err := ParseCoordinates(row[coordIdx])
			if err != nil {
				skipped++
				continue
			}

			props := domain.NewPropertyMap()
			for i, h := range t.Headers {
				if i == coordIdx || i >= len(row) || h == "" {
					continue
				}
				props.Set(h, domain.StringValue(row[i]))
			}
			fc.Features = append(fc.Features, domain.Feature{
				Geometry:   orb.Point{lon, lat},
				Properties: props,
			})
		}
	}
	return fc, skipped
}
