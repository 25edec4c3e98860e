package roster

import (
	"fmt"
	"strings"
)

// Format identifies a roster page template family. It is re-derived on every
// fetch because a team's site can change template between seasons.
type Format string

const (
	FormatUnknown        Format = "unknown"
	FormatSidearmList    Format = "sidearm-list"     // li.sidearm-roster-player cards
	FormatFieldTable     Format = "field-table"      // th[data-field] headers
	FormatResultsTable   Format = "results-table"    // table with a known roster id
	FormatContainerTable Format = "container-table"  // div.roster > table with labelled cells
	FormatDataLabelTable Format = "data-label-table" // td[data-label] cells
	FormatCardLayout     Format = "card-layout"      // div.s-person-card
	FormatSchemaBlock    Format = "schema-block"     // schema.org/Person microdata
	FormatCustomList     Format = "custom-list"      // custom CMS list items
	FormatGenericTable   Format = "generic-table"    // any table with a usable header
)

// Formats lists every concrete format, excluding FormatUnknown.
var Formats = []Format{
	FormatSidearmList,
	FormatFieldTable,
	FormatResultsTable,
	FormatContainerTable,
	FormatDataLabelTable,
	FormatCardLayout,
	FormatSchemaBlock,
	FormatCustomList,
	FormatGenericTable,
}

// ParseFormat parses a format name. The empty string parses as FormatUnknown.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(FormatUnknown) {
		return FormatUnknown, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unknown template format: %s", s)
}

func (f Format) String() string {
	if f == "" {
		return string(FormatUnknown)
	}
	return string(f)
}
