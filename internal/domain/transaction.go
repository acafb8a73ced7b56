package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionFailed    TransactionStatus = "failed"
)

// DateLayout is the calendar date format of Transaction.Date.
const DateLayout = "2006-01-02"

const (
	DefaultCategory = "Other"
	DefaultAccount  = "Checking"
)

// Categories lists the labels offered by the transaction form. Stored
// transactions may carry any category.
var Categories = []string{
	"Income",
	"Shopping",
	"Utilities",
	"Investment",
	"Food",
	"Transfer",
	"Entertainment",
	"Transportation",
	"Insurance",
	"Health",
	"Other",
}

// Accounts lists the account labels offered by the transaction form.
var Accounts = []string{"Checking", "Savings", "Credit Card", "Debit Card", "Investment"}

// Transaction is a single ledger entry shown on the transactions page.
type Transaction struct {
	ID          string            `json:"id"`
	Date        string            `json:"date"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Type        TransactionType   `json:"type"`
	Amount      Amount            `json:"amount"`
	Status      TransactionStatus `json:"status"`
	Account     string            `json:"account"`
}

type CreateTransactionInput struct {
	Date        string
	Description string
	Category    string
	Type        TransactionType
	Amount      Amount
	Status      TransactionStatus
	Account     string
}

// UpdateTransactionInput is a partial update with the same nil-means-absent
// rule as UpdateUserInput.
type UpdateTransactionInput struct {
	Date        *string
	Description *string
	Category    *string
	Type        *TransactionType
	Amount      *Amount
	Status      *TransactionStatus
	Account     *string
}

func (t Transaction) Apply(in UpdateTransactionInput) Transaction {
	if in.Date != nil {
		t.Date = *in.Date
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Category != nil {
		t.Category = *in.Category
	}
	if in.Type != nil {
		t.Type = *in.Type
	}
	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Account != nil {
		t.Account = *in.Account
	}
	return t
}

const transactionPrefix = "TXN"

// TransactionID formats a sequence number as TXN001, TXN002, ...
func TransactionID(seq int) string {
	return fmt.Sprintf("%s%03d", transactionPrefix, seq)
}

// TransactionSeq extracts the numeric suffix of a TXN identifier. The
// suffix must be plain ASCII digits.
func TransactionSeq(id string) (int, bool) {
	digits, ok := strings.CutPrefix(id, transactionPrefix)
	if !ok || digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextTransactionID returns max(existing sequence)+1 so identifiers retired by
// deletes are never handed out again while a higher one exists. A sequence of
// math.MaxInt has no successor and is left out of the maximum.
func NextTransactionID(txns []Transaction) string {
	maxSeq := 0
	for _, t := range txns {
		if n, ok := TransactionSeq(t.ID); ok && n < math.MaxInt && n > maxSeq {
			maxSeq = n
		}
	}
	return TransactionID(maxSeq + 1)
}
