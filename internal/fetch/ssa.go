package fetch

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/gojiplus/lostyears/internal/table"
)

// SSATableURL is the SSA actuarial period life table page.
const SSATableURL = "https://www.ssa.gov/oact/STATS/table4c6.html"

var ssaYearPattern = regexp.MustCompile(`Period Life Table,\s*(\d{4})`)

// ParseSSATable extracts the actuarial life table from the SSA page. Each
// published row carries age plus q(x), l(x) and e(x) for both sexes; only
// age, the two e(x) columns and the table year survive into the reference
// CSV.
func ParseSSATable(page []byte) (*table.Table, error) {
	year, err := ssaTableYear(page)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	out := table.New("age", "male_life_expectancy", "female_life_expectancy", "year")

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			if row, ok := ssaRow(n, year); ok {
				out.Append(row)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if out.Len() == 0 {
		return nil, fmt.Errorf("no life table rows found in SSA page")
	}
	return out, nil
}

// ssaRow converts one <tr> into a reference row when it has the expected
// seven numeric cells: age, then q(x)/l(x)/e(x) per sex.
func ssaRow(tr *html.Node, year string) (table.Row, bool) {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, strings.TrimSpace(nodeText(c)))
		}
	}
	if len(cells) != 7 {
		return nil, false
	}

	age := strings.TrimSuffix(cells[0], "+")
	if _, err := strconv.Atoi(age); err != nil {
		return nil, false
	}
	for _, cell := range cells[1:] {
		if _, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64); err != nil {
			return nil, false
		}
	}

	return table.Row{
		"age":                     age,
		"male_life_expectancy":    cells[3],
		"female_life_expectancy":  cells[6],
		"year":                    year,
	}, true
}

func ssaTableYear(page []byte) (string, error) {
	m := ssaYearPattern.FindSubmatch(page)
	if m == nil {
		return "", fmt.Errorf("no table year found in SSA page")
	}
	return string(m[1]), nil
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}
