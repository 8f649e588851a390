// Package prompt renders a transaction collection into the instruction sent
// to language-model advisors.
package prompt

import (
	"fmt"
	"strings"

	"github.com/carson-networks/financas-pro/internal/service"
)

// SystemInstruction frames the model as a personal finance consultant.
const SystemInstruction = "Você é um consultor financeiro pessoal. Responda sempre em português do Brasil, " +
	"de forma curta, direta e encorajadora, sem usar markdown."

// maxListed caps how many transactions are spelled out; the totals always
// cover the whole collection.
const maxListed = 50

// Build renders transactions as the user prompt.
func Build(transactions []service.Transaction) string {
	summary := service.Summarize(transactions)

	var b strings.Builder
	b.WriteString("Analise as minhas finanças e me dê até 3 dicas práticas para melhorar meu orçamento.\n\n")
	fmt.Fprintf(&b, "Receitas totais: R$ %s\n", summary.TotalIncome.StringFixed(2))
	fmt.Fprintf(&b, "Despesas totais: R$ %s\n", summary.TotalExpenses.StringFixed(2))
	fmt.Fprintf(&b, "Saldo: R$ %s\n", summary.TotalBalance.StringFixed(2))

	if totals := service.SummarizeByCategory(transactions); len(totals) > 0 {
		b.WriteString("\nPor categoria:\n")
		for _, total := range totals {
			fmt.Fprintf(&b, "- %s / %s: R$ %s (%d)\n", typeLabel(total.Type), total.Category, total.Total.StringFixed(2), total.Count)
		}
	}

	if len(transactions) == 0 {
		b.WriteString("\nAinda não há transações registradas.\n")
		return b.String()
	}

	b.WriteString("\nTransações:\n")
	for i, tx := range transactions {
		if i == maxListed {
			fmt.Fprintf(&b, "... e mais %d transações\n", len(transactions)-maxListed)
			break
		}
		fmt.Fprintf(&b, "- %s | %s | %s | %s | R$ %s\n", tx.Date, typeLabel(tx.Type), tx.Category, tx.Description, tx.Amount.StringFixed(2))
	}

	return b.String()
}

func typeLabel(t service.TransactionType) string {
	switch t {
	case service.TransactionTypeIncome:
		return "receita"
	case service.TransactionTypeExpense:
		return "despesa"
	default:
		return string(t)
	}
}
