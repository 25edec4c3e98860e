package template

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/soccer-rosters/pkg/roster"
)

// columns maps record fields to cell indexes.
type columns map[field]int

// headerCells returns the header cells of a table: thead cells when present,
// otherwise the first row if it is made of th cells.
func headerCells(table *goquery.Selection) *goquery.Selection {
	if h := table.Find("thead tr").Last().Find("th, td"); h.Length() > 0 {
		return h
	}
	row := table.Find("tr").First()
	if row.Find("th").Length() > 0 && row.Find("td").Length() == 0 {
		return row.Find("th")
	}
	if isHeaderRow(row) {
		return row.Children()
	}
	return &goquery.Selection{}
}

// isHeaderRow reports whether most cells of a row are column captions, as in
// tables that put their header in an ordinary td row.
func isHeaderRow(tr *goquery.Selection) bool {
	cells := tr.Children().Filter("td, th")
	if cells.Length() < 2 {
		return false
	}
	captions := 0
	cells.Each(func(_ int, c *goquery.Selection) {
		text := strings.TrimSpace(c.Text())
		if len(text) <= 30 && !strings.Contains(text, ":") && classify(text) != fieldNone {
			captions++
		}
	})
	return captions*2 > cells.Length()
}

// headerColumns classifies header cells. keyFn picks the text classified for
// each cell, e.g. its data-field attribute.
func headerColumns(headers *goquery.Selection, keyFn func(*goquery.Selection) string) columns {
	cols := make(columns)
	headers.Each(func(i int, th *goquery.Selection) {
		f := classify(keyFn(th))
		if f == fieldNone {
			return
		}
		if _, dup := cols[f]; !dup {
			cols[f] = i
		}
	})
	return cols
}

func cellText(th *goquery.Selection) string {
	return th.Text()
}

// bodyRows returns the data rows of a table.
func bodyRows(table *goquery.Selection) *goquery.Selection {
	rows := table.Find("tbody tr")
	if rows.Length() == 0 {
		rows = table.Find("tr")
	}
	return rows.FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Find("td").Length() > 0 && !isHeaderRow(tr)
	})
}

// tableRecords parses rows using a column map. Columns missing from a row are
// left empty. overlay, when non-nil, runs after the column pass for
// templates that also label individual cells.
func tableRecords(table *goquery.Selection, cols columns, team roster.Team, overlay entryFunc) []roster.Record {
	return collect(bodyRows(table), team, func(tr *goquery.Selection, rec *roster.Record) {
		cells := tr.Children().Filter("td, th")
		if i, ok := cols[fieldName]; ok && i < cells.Length() {
			name, profile := nameLink(cells.Eq(i), team)
			rec.Name, rec.ProfileURL = name, profile
		}
		if rec.Name == "" {
			name, profile := rowLink(tr, team)
			rec.Name, rec.ProfileURL = name, profile
		}
		for f, i := range cols {
			if f == fieldName || i >= cells.Length() {
				continue
			}
			set(rec, f, cells.Eq(i).Text())
		}
		if overlay != nil {
			overlay(tr, rec)
		}
	})
}

// rowLink falls back to the first anchor in a row that reads like a name.
func rowLink(tr *goquery.Selection, team roster.Team) (string, string) {
	var name, profile string
	tr.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		n, p := nameLink(a, team)
		if n != "" && looksLikeName(n) {
			name, profile = n, p
			return false
		}
		return true
	})
	return name, profile
}

// attrOverlay classifies every cell of a row by an attribute (data-field,
// data-label) and applies its text, independent of column position.
func attrOverlay(attr string, team roster.Team) entryFunc {
	return func(tr *goquery.Selection, rec *roster.Record) {
		tr.Find("[" + attr + "]").Each(func(_ int, cell *goquery.Selection) {
			key, _ := cell.Attr(attr)
			f := classify(key)
			if f == fieldName {
				name, profile := nameLink(cell, team)
				setIfEmpty(&rec.Name, name)
				setIfEmpty(&rec.ProfileURL, profile)
				return
			}
			set(rec, f, cell.Text())
		})
	}
}

// ExtractFieldTable parses tables whose header cells carry data-field
// attributes naming the column.
func ExtractFieldTable(doc *goquery.Document, team roster.Team) []roster.Record {
	var records []roster.Record
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		headers := table.Find("th[data-field]")
		if headers.Length() == 0 {
			return
		}
		cols := headerColumns(headerCells(table), func(th *goquery.Selection) string {
			if v, ok := th.Attr("data-field"); ok && classify(v) != fieldNone {
				return v
			}
			return th.Text()
		})
		records = append(records, tableRecords(table, cols, team, attrOverlay("data-field", team))...)
	})
	return records
}

// ExtractResultsTable parses a roster table identified by a known id.
func ExtractResultsTable(doc *goquery.Document, team roster.Team) []roster.Record {
	var records []roster.Record
	doc.Find(resultsTableSelector).Each(func(_ int, table *goquery.Selection) {
		cols := headerColumns(headerCells(table), cellText)
		records = append(records, tableRecords(table, cols, team, nil)...)
	})
	return records
}

// ExtractContainerTable parses the PrestoSports layout: a table nested in a
// roster container with td.number, th.name and cells carrying inline
// span.label captions such as "Pos.:" or "Hometown/High School:".
func ExtractContainerTable(doc *goquery.Document, team roster.Team) []roster.Record {
	var records []roster.Record
	doc.Find(containerTableSelector).Each(func(_ int, table *goquery.Selection) {
		cols := headerColumns(headerCells(table), cellText)
		overlay := func(tr *goquery.Selection, rec *roster.Record) {
			if rec.Name == "" {
				applyNameLink(tr, rec, team, "th.name", "td.name", ".name")
			}
			if n := tr.Find("td.number, th.number").First(); n.Length() > 0 {
				set(rec, fieldJersey, n.Text())
			}
			tr.Find("td").Each(func(_ int, td *goquery.Selection) {
				if td.Find("span.label").Length() == 0 {
					return
				}
				label, value := labelledValue(td, "span.label")
				if f := classify(label); f != fieldNone && f != fieldName {
					set(rec, f, value)
				}
			})
		}
		records = append(records, tableRecords(table, cols, team, overlay)...)
	})
	return records
}

// ExtractDataLabelTable parses responsive tables whose cells carry a
// data-label attribute naming their column.
func ExtractDataLabelTable(doc *goquery.Document, team roster.Team) []roster.Record {
	var records []roster.Record
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		if table.Find("td[data-label]").Length() == 0 {
			return
		}
		cols := headerColumns(headerCells(table), cellText)
		records = append(records, tableRecords(table, cols, team, attrOverlay("data-label", team))...)
	})
	return records
}

// ExtractGenericTable scans every table and keeps the one that yields the
// most records. A table qualifies when its header names the player column or
// at least two other roster fields.
func ExtractGenericTable(doc *goquery.Document, team roster.Team) []roster.Record {
	var best []roster.Record
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		cols := headerColumns(headerCells(table), cellText)
		if _, hasName := cols[fieldName]; !hasName && len(cols) < 2 {
			return
		}
		records := tableRecords(table, cols, team, nil)
		if len(records) > len(best) {
			best = records
		}
	})
	if best == nil {
		return []roster.Record{}
	}
	return best
}
