package transaction

import "github.com/carson-networks/financas-pro/internal/service"

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string `json:"id" doc:"Transaction ID"`
	Description string `json:"description" doc:"What the money was for"`
	Amount      string `json:"amount" doc:"Decimal amount, always a magnitude"`
	Type        string `json:"type" enum:"income,expense" doc:"Direction of the money movement"`
	Category    string `json:"category" doc:"Free-form category"`
	Date        string `json:"date" doc:"Calendar date, YYYY-MM-DD"`
}

func toAPITransaction(tx service.Transaction) Transaction {
	return Transaction{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount.String(),
		Type:        string(tx.Type),
		Category:    tx.Category,
		Date:        tx.Date,
	}
}
