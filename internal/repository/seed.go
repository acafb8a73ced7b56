package repository

import (
	"time"

	"financehub/internal/domain"
)

func seedUser(id, name, email string, role domain.Role, status domain.UserStatus, created string) domain.User {
	createdAt, _ := time.Parse(domain.DateLayout, created)
	return domain.User{
		ID:        id,
		Name:      name,
		Email:     email,
		Role:      role,
		Status:    status,
		Avatar:    domain.AvatarURL(name),
		CreatedAt: createdAt.UTC(),
	}
}

// DefaultUsers is the collection written the first time the users slot is read.
func DefaultUsers() []domain.User {
	return []domain.User{
		seedUser("1", "John Doe", "john.doe@example.com", domain.RoleAdmin, domain.UserStatusActive, "2024-01-15"),
		seedUser("2", "Jane Smith", "jane.smith@example.com", domain.RoleEditor, domain.UserStatusActive, "2024-02-20"),
		seedUser("3", "Mike Johnson", "mike.johnson@example.com", domain.RoleUser, domain.UserStatusInactive, "2024-03-10"),
		seedUser("4", "Sarah Williams", "sarah.williams@example.com", domain.RoleUser, domain.UserStatusActive, "2024-04-05"),
		seedUser("5", "Tom Brown", "tom.brown@example.com", domain.RoleEditor, domain.UserStatusActive, "2024-05-12"),
	}
}

// DefaultTransactions is the collection written the first time the
// transactions slot is read, most recent first.
func DefaultTransactions() []domain.Transaction {
	return []domain.Transaction{
		{ID: "TXN001", Date: "2024-12-20", Description: "Salary Deposit", Category: "Income", Type: domain.TransactionCredit, Amount: 850000, Status: domain.TransactionCompleted, Account: "Checking"},
		{ID: "TXN002", Date: "2024-12-19", Description: "Amazon Purchase", Category: "Shopping", Type: domain.TransactionDebit, Amount: 15699, Status: domain.TransactionCompleted, Account: "Credit Card"},
		{ID: "TXN003", Date: "2024-12-19", Description: "Electric Bill", Category: "Utilities", Type: domain.TransactionDebit, Amount: 12450, Status: domain.TransactionCompleted, Account: "Checking"},
		{ID: "TXN004", Date: "2024-12-18", Description: "Stock Dividend", Category: "Investment", Type: domain.TransactionCredit, Amount: 24500, Status: domain.TransactionCompleted, Account: "Investment"},
		{ID: "TXN005", Date: "2024-12-18", Description: "Grocery Store", Category: "Food", Type: domain.TransactionDebit, Amount: 8932, Status: domain.TransactionCompleted, Account: "Debit Card"},
		{ID: "TXN006", Date: "2024-12-17", Description: "Wire Transfer", Category: "Transfer", Type: domain.TransactionCredit, Amount: 250000, Status: domain.TransactionPending, Account: "Savings"},
		{ID: "TXN007", Date: "2024-12-17", Description: "Netflix Subscription", Category: "Entertainment", Type: domain.TransactionDebit, Amount: 1599, Status: domain.TransactionCompleted, Account: "Credit Card"},
		{ID: "TXN008", Date: "2024-12-16", Description: "Gas Station", Category: "Transportation", Type: domain.TransactionDebit, Amount: 4500, Status: domain.TransactionCompleted, Account: "Debit Card"},
		{ID: "TXN009", Date: "2024-12-16", Description: "Freelance Payment", Category: "Income", Type: domain.TransactionCredit, Amount: 120000, Status: domain.TransactionCompleted, Account: "Checking"},
		{ID: "TXN010", Date: "2024-12-15", Description: "Restaurant", Category: "Food", Type: domain.TransactionDebit, Amount: 6750, Status: domain.TransactionCompleted, Account: "Credit Card"},
		{ID: "TXN011", Date: "2024-12-15", Description: "Insurance Premium", Category: "Insurance", Type: domain.TransactionDebit, Amount: 35000, Status: domain.TransactionFailed, Account: "Checking"},
		{ID: "TXN012", Date: "2024-12-14", Description: "Gym Membership", Category: "Health", Type: domain.TransactionDebit, Amount: 4999, Status: domain.TransactionCompleted, Account: "Credit Card"},
	}
}
