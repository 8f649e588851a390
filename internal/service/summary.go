package service

import (
	"sort"

	"github.com/shopspring/decimal"
)

// FinanceSummary is derived from the transaction collection on demand and is
// never stored.
type FinanceSummary struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	TotalBalance  decimal.Decimal
}

// CategoryTotal is the summed amount of one category within one type.
type CategoryTotal struct {
	Type     TransactionType
	Category string
	Total    decimal.Decimal
	Count    int
}

// Summarize reduces transactions to their totals. Transactions whose type is
// neither income nor expense count towards neither total.
func Summarize(transactions []Transaction) FinanceSummary {
	income := decimal.Zero
	expenses := decimal.Zero

	for _, tx := range transactions {
		switch tx.Type {
		case TransactionTypeIncome:
			income = income.Add(tx.Amount)
		case TransactionTypeExpense:
			expenses = expenses.Add(tx.Amount)
		}
	}

	return FinanceSummary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		TotalBalance:  income.Sub(expenses),
	}
}

// SummarizeByCategory totals transactions per type and category. Income comes
// before expense; within a type the largest total comes first, ties broken by
// category name.
func SummarizeByCategory(transactions []Transaction) []CategoryTotal {
	type groupKey struct {
		txType   TransactionType
		category string
	}

	index := make(map[groupKey]int)
	var totals []CategoryTotal
	for _, tx := range transactions {
		if tx.Type != TransactionTypeIncome && tx.Type != TransactionTypeExpense {
			continue
		}
		key := groupKey{txType: tx.Type, category: tx.Category}
		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			totals = append(totals, CategoryTotal{Type: tx.Type, Category: tx.Category, Total: decimal.Zero})
		}
		totals[i].Total = totals[i].Total.Add(tx.Amount)
		totals[i].Count++
	}

	sort.SliceStable(totals, func(a, b int) bool {
		if totals[a].Type != totals[b].Type {
			return totals[a].Type == TransactionTypeIncome
		}
		if cmp := totals[a].Total.Cmp(totals[b].Total); cmp != 0 {
			return cmp > 0
		}
		return totals[a].Category < totals[b].Category
	})

	return totals
}
