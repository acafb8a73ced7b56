package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"financehub/internal/domain"
	"financehub/internal/repository"
)

// TransactionService is the mock remote API for transactions.
type TransactionService interface {
	GetAll(ctx context.Context) ([]domain.Transaction, error)
	GetByID(ctx context.Context, id string) (txn domain.Transaction, found bool, err error)
	Create(ctx context.Context, input domain.CreateTransactionInput) (domain.Transaction, error)
	Update(ctx context.Context, id string, input domain.UpdateTransactionInput) (domain.Transaction, error)
	Delete(ctx context.Context, id string) error
}

type transactionService struct {
	txns repository.TransactionRepository
	opts Options
	mu   sync.Mutex
}

func NewTransactionService(txns repository.TransactionRepository, opts Options) TransactionService {
	return &transactionService{
		txns: txns,
		opts: opts.withDefaults(),
	}
}

func (s *transactionService) GetAll(ctx context.Context) (_ []domain.Transaction, err error) {
	defer s.observe("getAll", time.Now(), &err)
	if err := s.opts.Delayer.Delay(ctx, s.opts.Latency.GetAll); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txns.Load(ctx)
}

func (s *transactionService) GetByID(ctx context.Context, id string) (_ domain.Transaction, _ bool, err error) {
	defer s.observe("getById", time.Now(), &err)
	if err := s.opts.Delayer.Delay(ctx, s.opts.Latency.GetByID); err != nil {
		return domain.Transaction{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	txns, err := s.txns.Load(ctx)
	if err != nil {
		return domain.Transaction{}, false, err
	}
	for _, t := range txns {
		if t.ID == id {
			return t, true, nil
		}
	}
	return domain.Transaction{}, false, nil
}

// Create prepends the new transaction so the collection stays most recent first.
func (s *transactionService) Create(ctx context.Context, input domain.CreateTransactionInput) (_ domain.Transaction, err error) {
	defer s.observe("create", time.Now(), &err)
	if err := s.opts.Delayer.Delay(ctx, s.opts.Latency.Create); err != nil {
		return domain.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	txns, err := s.txns.Load(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}
	txn := domain.Transaction{
		ID:          domain.NextTransactionID(txns),
		Date:        input.Date,
		Description: input.Description,
		Category:    input.Category,
		Type:        input.Type,
		Amount:      input.Amount,
		Status:      input.Status,
		Account:     input.Account,
	}
	txns = append([]domain.Transaction{txn}, txns...)
	if err := s.txns.Save(ctx, txns); err != nil {
		return domain.Transaction{}, fmt.Errorf("save transactions: %w", err)
	}
	s.opts.Logger.WithField("transaction_id", txn.ID).Info("transaction created")
	return txn, nil
}

func (s *transactionService) Update(ctx context.Context, id string, input domain.UpdateTransactionInput) (_ domain.Transaction, err error) {
	defer s.observe("update", time.Now(), &err)
	if err := s.opts.Delayer.Delay(ctx, s.opts.Latency.Update); err != nil {
		return domain.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	txns, err := s.txns.Load(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}
	index := -1
	for i := range txns {
		if txns[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	txns[index] = txns[index].Apply(input)
	if err := s.txns.Save(ctx, txns); err != nil {
		return domain.Transaction{}, fmt.Errorf("save transactions: %w", err)
	}
	return txns[index], nil
}

func (s *transactionService) Delete(ctx context.Context, id string) (err error) {
	defer s.observe("delete", time.Now(), &err)
	if err := s.opts.Delayer.Delay(ctx, s.opts.Latency.Delete); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	txns, err := s.txns.Load(ctx)
	if err != nil {
		return err
	}
	kept := txns[:0]
	for _, t := range txns {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(txns) {
		return nil
	}
	if err := s.txns.Save(ctx, kept); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	s.opts.Logger.WithField("transaction_id", id).Info("transaction deleted")
	return nil
}

func (s *transactionService) observe(op string, started time.Time, err *error) {
	s.opts.Metrics.ObserveAPI(EntityTransactions, op, started, *err)
}
