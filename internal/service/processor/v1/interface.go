package processor

import (
	"context"
	"time"

	"github.com/Mohammademon02/income-tracking-api/internal/models/modeldto"
)

type Processor interface {
	GetUserID(accessToken string) (string, error)
	AddNewUser(ctx context.Context, credentials modeldto.User) (string, error)
	LoginUser(ctx context.Context, credentials modeldto.User) (string, error)
	AddNewAccount(ctx context.Context, userID string, account modeldto.NewAccount) error
	GetAccounts(ctx context.Context, userID string) ([]modeldto.Account, error)
	AddNewEntry(ctx context.Context, userID string, entry modeldto.NewEntry) error
	GetCurrentMonthEntries(ctx context.Context, userID string) ([]modeldto.Entry, error)
	EvaluateDailyGoal(ctx context.Context, userID string, date time.Time) (*modeldto.DailyGoal, error)
	GetMonthlyTarget(userID string) *modeldto.MonthlyTarget
	SetMonthlyTarget(userID string, target modeldto.NewMonthlyTarget) (*modeldto.MonthlyTarget, error)
	GetBalance(ctx context.Context, userID string) (*modeldto.Balance, error)
	AddNewWithdrawal(ctx context.Context, userID string, withdrawal modeldto.NewWithdrawal) error
	GetWithdrawals(ctx context.Context, userID string) ([]modeldto.Withdrawal, error)
	GetRecentWithdrawalUpdates(ctx context.Context, userID string, window time.Duration) ([]modeldto.RecentWithdrawal, error)
	GetNotifications(userID string) []modeldto.Notification
	MarkNotificationAsRead(id string)
	MarkAllNotificationsAsRead(userID string, ids []string)
	DeleteNotification(id string)
	SweepNotifications(olderThan time.Duration) int
	ResumePendingWithdrawals(ctx context.Context) error
}
