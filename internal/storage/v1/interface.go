package storage

import (
	"context"
	"time"

	"github.com/Mohammademon02/income-tracking-api/internal/models/modeldto"
	"github.com/Mohammademon02/income-tracking-api/internal/models/modelqueue"
	"github.com/Mohammademon02/income-tracking-api/internal/models/modelstorage"
)

type Register interface {
	AddNewUser(ctx context.Context, credentials modeldto.User, userID string) error
	CheckUser(ctx context.Context, credentials modeldto.User) (string, error)
}

type Accounts interface {
	AddNewAccount(ctx context.Context, userID, accountID string, account modeldto.NewAccount) error
	GetAccounts(ctx context.Context, userID string) ([]modelstorage.AccountStorageEntry, error)
}

type Entries interface {
	AddNewEntry(ctx context.Context, userID string, entry modeldto.NewEntry) error
	GetEntriesByDateRange(ctx context.Context, userID string, from, to time.Time) ([]modelstorage.EntryStorageEntry, error)
	GetTotalPoints(ctx context.Context, userID string) (int, error)
}

type Withdrawals interface {
	AddNewWithdrawal(ctx context.Context, userID, withdrawalID string, withdrawal modeldto.NewWithdrawal) error
	GetWithdrawals(ctx context.Context, userID string) ([]modelstorage.WithdrawalStorageEntry, error)
	GetWithdrawnAmount(ctx context.Context, userID string) (float64, error)
	GetRecentCompletedWithdrawals(ctx context.Context, userID string, since time.Time) ([]modelstorage.RecentWithdrawalStorageEntry, error)
	GetPendingWithdrawals(ctx context.Context) ([]modelstorage.WithdrawalStorageEntry, error)
	SendToQueue(item modelqueue.WithdrawalQueueEntry)
}

type Storage interface {
	Register
	Accounts
	Entries
	Withdrawals
}
