package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction is a single recorded money movement. Amount is a magnitude;
// the direction comes from Type.
type Transaction struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	Category    string
	Date        string
}

// TransactionCreate is a Transaction that has not been assigned an ID yet.
type TransactionCreate struct {
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	Category    string
	Date        string
}

// transactionRecord is the persisted layout. Amount is written as a JSON
// number and read back from either a number or a numeric string.
type transactionRecord struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      json.Number     `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionRecord{
		ID:          t.ID,
		Description: t.Description,
		Amount:      json.Number(t.Amount.String()),
		Type:        t.Type,
		Category:    t.Category,
		Date:        t.Date,
	})
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var record transactionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}

	amount := decimal.Zero
	if record.Amount != "" {
		if len(record.Amount) > maxAmountLength {
			return fmt.Errorf("transaction %q amount: %w: %d characters", record.ID, ErrAmountOutOfRange, len(record.Amount))
		}
		parsed, err := decimal.NewFromString(record.Amount.String())
		if err != nil {
			return fmt.Errorf("transaction %q amount: %w", record.ID, err)
		}
		if err := checkAmount(parsed); err != nil {
			return fmt.Errorf("transaction %q amount: %w", record.ID, err)
		}
		amount = parsed
	}

	*t = Transaction{
		ID:          record.ID,
		Description: record.Description,
		Amount:      canonicalAmount(amount),
		Type:        record.Type,
		Category:    record.Category,
		Date:        record.Date,
	}
	return nil
}

// Amounts are bounded before canonicalAmount expands them to plain digits.
const (
	maxAmountExponent = 18
	minAmountExponent = -18
	maxAmountDigits   = 36
	maxAmountLength   = 64
)

var ErrAmountOutOfRange = errors.New("amount out of range")

func checkAmount(amount decimal.Decimal) error {
	if exp := amount.Exponent(); exp > maxAmountExponent || exp < minAmountExponent {
		return fmt.Errorf("%w: exponent %d", ErrAmountOutOfRange, amount.Exponent())
	}
	if amount.NumDigits() > maxAmountDigits {
		return fmt.Errorf("%w: %d digits", ErrAmountOutOfRange, amount.NumDigits())
	}
	return nil
}

// canonicalAmount gives equal amounts one representation, so a collection
// compares equal to itself after a persist and load. amount must have
// passed checkAmount.
func canonicalAmount(amount decimal.Decimal) decimal.Decimal {
	return decimal.RequireFromString(amount.String())
}

var suggestedCategories = map[TransactionType][]string{
	TransactionTypeIncome:  {"Salário", "Investimentos", "Presente", "Outros"},
	TransactionTypeExpense: {"Alimentação", "Transporte", "Moradia", "Lazer", "Saúde", "Educação", "Outros"},
}

// SuggestedCategories returns the conventional categories for transactionType.
// They are offered to the user but never enforced.
func SuggestedCategories(transactionType TransactionType) []string {
	return append([]string(nil), suggestedCategories[transactionType]...)
}
