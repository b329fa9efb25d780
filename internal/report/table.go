// Package report renders exported months as documents: a markdown or text
// table of the transactions and a pie chart of the expense categories.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"ledger/internal/services"
)

// Format selects the table layout.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts "text" and "markdown" ("md").
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown table format %q", s)
	}
}

// WriteTable writes the export as a table. The markdown layout is preceded by
// the document title and month heading.
func WriteTable(w io.Writer, exp services.Export, format Format) error {
	if format == FormatMarkdown {
		if _, err := fmt.Fprintf(w, "# %s\n\nMonth: %s\n\n", exp.Title, exp.Month); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(exp.Header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})
	if format == FormatMarkdown {
		table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
		table.SetCenterSeparator("|")
	}

	for _, row := range exp.Rows {
		values := row.Values()
		if format == FormatMarkdown {
			for i, v := range values {
				values[i] = markdownCell(v)
			}
		}
		table.Append(values)
	}
	table.Render()
	return nil
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// markdownCell keeps a cell on one line and out of the column separators.
func markdownCell(v string) string {
	return markdownEscaper.Replace(v)
}
