package template

import "github.com/PuerkitoBio/goquery"

func present(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

func detectSidearmList(doc *goquery.Document) bool {
	return present(doc, "li.sidearm-roster-player, div.sidearm-roster-list-item")
}

func detectFieldTable(doc *goquery.Document) bool {
	return present(doc, "table th[data-field]")
}

const resultsTableSelector = "table#roster-table, table#players-table, table#roster_table, table#sortable_roster"

func detectResultsTable(doc *goquery.Document) bool {
	return present(doc, resultsTableSelector)
}

const containerTableSelector = "div.roster table, div.roster-data table, section.roster table"

func detectContainerTable(doc *goquery.Document) bool {
	return present(doc, containerTableSelector)
}

func detectDataLabelTable(doc *goquery.Document) bool {
	return present(doc, "table td[data-label]")
}

const cardSelector = "div.s-person-card, div.roster-card, div.player-card"

func detectCardLayout(doc *goquery.Document) bool {
	return present(doc, cardSelector)
}

const schemaSelector = `[itemtype*="schema.org/Person"]`

func detectSchemaBlock(doc *goquery.Document) bool {
	return present(doc, schemaSelector)
}

const customListSelector = "ul.roster-list > li, li.roster-list__item, div.roster-list-item, li.roster-player"

func detectCustomList(doc *goquery.Document) bool {
	return present(doc, customListSelector)
}
