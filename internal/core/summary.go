package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Summary holds the month totals. ExpenseTotal is a non-negative magnitude.
type Summary struct {
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
	NetBalance   decimal.Decimal
}

// CategoryAmount represents an expense magnitude aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// ParseMonth normalizes a month selector ("3", "03") to "01".."12".
func ParseMonth(s string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 12 {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return fmt.Sprintf("%02d", n), nil
}

// MonthOf returns the month component of a YYYY-MM-DD date.
func MonthOf(date string) (string, bool) {
	parts := strings.Split(date, "-")
	if len(parts) < 2 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// FilterByMonth keeps transactions whose date month component equals month.
// Transactions with a missing or malformed date are dropped.
func FilterByMonth(txs []Transaction, month string) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if m, ok := tx.Month(); ok && m == month {
			out = append(out, tx)
		}
	}
	return out
}

// Summarize totals the filtered set in its order.
func Summarize(filtered []Transaction) Summary {
	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range filtered {
		switch {
		case tx.Amount.IsPositive():
			income = income.Add(tx.Amount)
		case tx.Amount.IsNegative():
			expense = expense.Add(tx.Amount)
		}
	}
	return Summary{
		IncomeTotal:  income,
		ExpenseTotal: expense.Abs(),
		NetBalance:   income.Add(expense),
	}
}

// Categorize sums expense magnitudes per category.
func Categorize(filtered []Transaction) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, c := range Breakdown(filtered) {
		out[c.Name] = c.Amount
	}
	return out
}

// Breakdown is Categorize in first-appearance order.
func Breakdown(filtered []Transaction) []CategoryAmount {
	var out []CategoryAmount
	index := make(map[string]int)
	for _, tx := range filtered {
		if !tx.Amount.IsNegative() {
			continue
		}
		name := tx.Category()
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, CategoryAmount{Name: name, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(tx.Magnitude())
	}
	return out
}

// SplitByKind returns the income and expense entries of the set, in order.
func SplitByKind(txs []Transaction) (income, expense []Transaction) {
	for _, tx := range txs {
		if tx.Kind() == Expense {
			expense = append(expense, tx)
		} else {
			income = append(income, tx)
		}
	}
	return income, expense
}
