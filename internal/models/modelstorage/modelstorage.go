// Package modelstorage provides types for querying relational DB.
package modelstorage

import "database/sql"

type UserStorageEntry struct {
	ID           uint   `db:"id"`
	UserID       string `db:"user_id"`
	Login        string `db:"login"`
	Password     string `db:"password"`
	RegisteredAt string `db:"registered_at"`
}

type AccountStorageEntry struct {
	ID        uint   `db:"id"`
	AccountID string `db:"account_id"`
	UserID    string `db:"user_id"`
	Name      string `db:"name"`
	Color     string `db:"color"`
	CreatedAt string `db:"created_at"`
}

type EntryStorageEntry struct {
	ID        uint   `db:"id"`
	UserID    string `db:"user_id"`
	AccountID string `db:"account_id"`
	EntryDate string `db:"entry_date"`
	Points    int    `db:"points"`
	CreatedAt string `db:"created_at"`
}

type WithdrawalStorageEntry struct {
	ID           uint           `db:"id"`
	WithdrawalID string         `db:"withdrawal_id"`
	UserID       string         `db:"user_id"`
	AccountID    string         `db:"account_id"`
	CardNumber   string         `db:"card_number"`
	Amount       float64        `db:"amount"`
	Status       string         `db:"status"`
	RequestedAt  string         `db:"requested_at"`
	CompletedAt  sql.NullString `db:"completed_at"`
	UpdatedAt    string         `db:"updated_at"`
}

type RecentWithdrawalStorageEntry struct {
	WithdrawalID string         `db:"withdrawal_id"`
	Amount       float64        `db:"amount"`
	Status       string         `db:"status"`
	RequestedAt  string         `db:"requested_at"`
	CompletedAt  sql.NullString `db:"completed_at"`
	AccountName  string         `db:"name"`
	AccountColor string         `db:"color"`
	UpdatedAt    string         `db:"updated_at"`
}
