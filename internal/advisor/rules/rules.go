// Package rules produces budgeting advice locally from the transaction
// totals, without calling any external service.
package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/financas-pro/internal/service"
)

var (
	hundred        = decimal.NewFromInt(100)
	targetSavings  = decimal.NewFromInt(20)
	minimumSavings = decimal.NewFromInt(10)
	heavyShare     = decimal.NewFromInt(30)
)

// Advisor is deterministic: the same transactions always yield the same text.
type Advisor struct{}

func NewAdvisor() *Advisor {
	return &Advisor{}
}

func (a *Advisor) Advise(ctx context.Context, transactions []service.Transaction) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(transactions) == 0 {
		return "Adicione algumas transações para receber dicas sobre o seu orçamento.", nil
	}

	summary := service.Summarize(transactions)
	var tips []string

	switch {
	case summary.TotalIncome.IsZero():
		tips = append(tips, "Você ainda não registrou receitas. Registre seus ganhos para acompanhar quanto consegue poupar.")
	case summary.TotalBalance.IsNegative():
		tips = append(tips, fmt.Sprintf(
			"Suas despesas superam suas receitas em %s. Revise os gastos não essenciais antes do próximo mês.",
			FormatBRL(summary.TotalBalance.Abs())))
	default:
		rate := summary.TotalBalance.Div(summary.TotalIncome).Mul(hundred)
		switch {
		case rate.LessThan(minimumSavings):
			tips = append(tips, fmt.Sprintf(
				"Você está poupando %s%% da sua renda. Tente chegar a pelo menos 20%% separando o valor logo ao receber.",
				rate.StringFixed(0)))
		case rate.LessThan(targetSavings):
			tips = append(tips, fmt.Sprintf(
				"Você está poupando %s%% da sua renda. Falta pouco para a meta de 20%%.", rate.StringFixed(0)))
		default:
			tips = append(tips, fmt.Sprintf(
				"Ótimo trabalho: você está poupando %s%% da sua renda. Considere investir o excedente.", rate.StringFixed(0)))
		}
	}

	if top, ok := topExpense(service.SummarizeByCategory(transactions)); ok && summary.TotalExpenses.IsPositive() {
		share := top.Total.Div(summary.TotalExpenses).Mul(hundred)
		tip := fmt.Sprintf("Sua maior despesa é %s, com %s (%s%% das despesas).",
			top.Category, FormatBRL(top.Total), share.StringFixed(0))
		if share.GreaterThan(heavyShare) {
			tip += " Veja se há como reduzir essa categoria."
		}
		tips = append(tips, tip)
	}

	if summary.TotalBalance.IsPositive() {
		tips = append(tips, "Mantenha uma reserva de emergência equivalente a seis meses de despesas.")
	}

	return strings.Join(tips, "\n"), nil
}

// topExpense relies on SummarizeByCategory ordering: within expenses the
// largest total comes first.
func topExpense(totals []service.CategoryTotal) (service.CategoryTotal, bool) {
	for _, total := range totals {
		if total.Type == service.TransactionTypeExpense {
			return total, true
		}
	}
	return service.CategoryTotal{}, false
}

// FormatBRL renders d the Brazilian way, e.g. R$ 1.234,50.
func FormatBRL(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	return fmt.Sprintf("%sR$ %s,%s", sign, grouped.String(), cents)
}
