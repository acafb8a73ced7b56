package query

import (
	"context"

	"financehub/internal/domain"
	"financehub/internal/service"
)

var TransactionsKey = Key{service.EntityTransactions}

func TransactionKey(id string) Key { return Key{service.EntityTransactions, id} }

type Transactions struct {
	client *Client
	api    service.TransactionService
}

func NewTransactions(client *Client, api service.TransactionService) *Transactions {
	return &Transactions{client: client, api: api}
}

func (t *Transactions) List(ctx context.Context) ([]domain.Transaction, error) {
	return Query(ctx, t.client, TransactionsKey, t.api.GetAll)
}

func (t *Transactions) Get(ctx context.Context, id string) (domain.Transaction, bool, error) {
	res, err := Query(ctx, t.client, TransactionKey(id), func(ctx context.Context) (lookup[domain.Transaction], error) {
		txn, found, err := t.api.GetByID(ctx, id)
		return lookup[domain.Transaction]{value: txn, found: found}, err
	})
	return res.value, res.found, err
}

func (t *Transactions) Create(ctx context.Context, in domain.CreateTransactionInput) (domain.Transaction, error) {
	txn, err := Mutate(ctx, t.client, TransactionsKey, func(ctx context.Context) (domain.Transaction, error) {
		return t.api.Create(ctx, in)
	})
	if err == nil {
		t.client.publish(ctx, Change{Entity: service.EntityTransactions, ID: txn.ID, Op: "create"})
	}
	return txn, err
}

func (t *Transactions) Update(ctx context.Context, id string, in domain.UpdateTransactionInput) (domain.Transaction, error) {
	txn, err := Mutate(ctx, t.client, TransactionsKey, func(ctx context.Context) (domain.Transaction, error) {
		return t.api.Update(ctx, id, in)
	})
	if err == nil {
		t.client.publish(ctx, Change{Entity: service.EntityTransactions, ID: id, Op: "update"})
	}
	return txn, err
}

func (t *Transactions) Delete(ctx context.Context, id string) error {
	_, err := Mutate(ctx, t.client, TransactionsKey, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, t.api.Delete(ctx, id)
	})
	if err == nil {
		t.client.publish(ctx, Change{Entity: service.EntityTransactions, ID: id, Op: "delete"})
	}
	return err
}
