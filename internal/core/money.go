package core

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percentage returns part as a percentage of whole rounded to one decimal
// place. A zero whole yields zero.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(1)
}

// outstanding is what is still owed on a row: amount - paid, never negative.
func outstanding(amount, paid decimal.Decimal) decimal.Decimal {
	due := amount.Sub(paid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

func isOverdue(status PaymentStatus) bool {
	return status == PaymentUnpaid || status == PaymentPartial || status == ""
}

func sumExpenseItems(items []ExpenseItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

func sumRepairItems(items []RepairItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}
