package core

import (
	"fmt"
	"strconv"
)

// ExportHeader is the header row handed to document generators.
var ExportHeader = []string{"#", "Date", "Description", "Amount", "Type"}

// Row is one line of an exported month.
type Row struct {
	Index       int // 1-based
	Date        string
	Description string
	Amount      string
	Type        string
}

// Values returns the row cells in ExportHeader order.
func (r Row) Values() []string {
	return []string{strconv.Itoa(r.Index), r.Date, r.Description, r.Amount, r.Type}
}

// ExportRows converts a filtered set into table rows, keeping its order.
func ExportRows(filtered []Transaction) []Row {
	rows := make([]Row, 0, len(filtered))
	for i, tx := range filtered {
		label := "Income"
		if tx.Amount.IsNegative() {
			label = "Expense"
		}
		rows = append(rows, Row{
			Index:       i + 1,
			Date:        tx.Date,
			Description: tx.Description,
			Amount:      FormatAmount(tx.Amount),
			Type:        label,
		})
	}
	return rows
}

// ExportTitle and ExportFileName mirror the naming of generated documents.
const ExportTitle = "Personal Finance Tracker - Transactions"

func ExportFileName(month, ext string) string {
	return fmt.Sprintf("Finance_Transactions_%s.%s", month, ext)
}
