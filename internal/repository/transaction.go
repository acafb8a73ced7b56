package repository

import (
	"context"

	"github.com/sirupsen/logrus"

	"financehub/internal/domain"
	"financehub/internal/storage"
)

// DefaultTransactionsKey is the slot holding the transaction collection.
const DefaultTransactionsKey = "financehub_transactions"

// TransactionRepository loads and saves the whole transaction collection,
// most recent first.
type TransactionRepository interface {
	Load(ctx context.Context) ([]domain.Transaction, error)
	Save(ctx context.Context, txns []domain.Transaction) error
}

func NewTransactionRepository(store storage.Store, key string, logger logrus.FieldLogger) TransactionRepository {
	if key == "" {
		key = DefaultTransactionsKey
	}
	return NewCollection(store, key, DefaultTransactions, logger)
}
