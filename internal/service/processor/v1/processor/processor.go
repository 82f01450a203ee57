// Package processor provides intermediary layer functionality between the DB and API endpoint handlers.
package processor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Mohammademon02/income-tracking-api/internal/models/modeldto"
	"github.com/Mohammademon02/income-tracking-api/internal/models/modelqueue"
	"github.com/Mohammademon02/income-tracking-api/internal/service/goals/v1"
	"github.com/Mohammademon02/income-tracking-api/internal/service/notifier/v1"
	serviceErrors "github.com/Mohammademon02/income-tracking-api/internal/service/processor/v1/errors"
	"github.com/Mohammademon02/income-tracking-api/internal/service/secretary/v1"
	"github.com/Mohammademon02/income-tracking-api/internal/service/targets/v1"
	targetErrors "github.com/Mohammademon02/income-tracking-api/internal/service/targets/v1/errors"
	"github.com/Mohammademon02/income-tracking-api/internal/service/timing/v1"
	"github.com/Mohammademon02/income-tracking-api/internal/storage/v1"
	"github.com/ShiraazMoollatjie/goluhn"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PointsPerDollar is the survey-platform conversion rate.
const PointsPerDollar = 100

// milestonePoints is the lifetime point step that triggers a milestone notification.
const milestonePoints = 10000

// Processor defines attributes of a struct available to its methods.
type Processor struct {
	storage   storage.Storage
	secretary secretary.Secretary
	targets   *targets.Store
	notifier  *notifier.Registry
	loc       *time.Location
	log       *zerolog.Logger
}

// InitService initializes an intermediary service for data processing.
func InitService(st storage.Storage, sec secretary.Secretary, targetStore *targets.Store, registry *notifier.Registry, log *zerolog.Logger) (*Processor, error) {
	if st == nil {
		return nil, &serviceErrors.ServiceFoundNilArgument{Msg: "nil storage was passed to service initializer"}
	}
	if sec == nil {
		return nil, &serviceErrors.ServiceFoundNilArgument{Msg: "nil secretary was passed to service initializer"}
	}
	if targetStore == nil {
		return nil, &serviceErrors.ServiceFoundNilArgument{Msg: "nil target store was passed to service initializer"}
	}
	if registry == nil {
		return nil, &serviceErrors.ServiceFoundNilArgument{Msg: "nil notification registry was passed to service initializer"}
	}
	processor := &Processor{
		storage:   st,
		secretary: sec,
		targets:   targetStore,
		notifier:  registry,
		loc:       time.UTC,
		log:       log,
	}
	return processor, nil
}

// GetUserID retrieves deciphered user identifier from token.
func (proc *Processor) GetUserID(accessToken string) (string, error) {
	return proc.secretary.ValidateToken(accessToken)
}

// AddNewUser processes user register requests.
func (proc *Processor) AddNewUser(ctx context.Context, credentials modeldto.User) (string, error) {
	accessToken, userID, err := proc.secretary.NewToken()
	if err != nil {
		return "", err
	}
	cipheredCredentials := modeldto.User{
		Login:    proc.secretary.Encode(credentials.Login),
		Password: proc.secretary.Encode(credentials.Password),
	}
	err = proc.storage.AddNewUser(ctx, cipheredCredentials, userID)
	if err != nil {
		return "", err
	}
	return accessToken, nil
}

// LoginUser processes user login requests.
func (proc *Processor) LoginUser(ctx context.Context, credentials modeldto.User) (string, error) {
	cipheredCredentials := modeldto.User{
		Login:    proc.secretary.Encode(credentials.Login),
		Password: proc.secretary.Encode(credentials.Password),
	}
	userID, err := proc.storage.CheckUser(ctx, cipheredCredentials)
	if err != nil {
		return "", err
	}
	return proc.secretary.GetTokenForUser(userID)
}

// AddNewAccount processes new survey account requests.
func (proc *Processor) AddNewAccount(ctx context.Context, userID string, account modeldto.NewAccount) error {
	if account.Name == "" {
		return &serviceErrors.ServiceInvalidEntry{Msg: "account name must not be empty"}
	}
	return proc.storage.AddNewAccount(ctx, userID, uuid.New().String(), account)
}

// GetAccounts processes account query requests.
func (proc *Processor) GetAccounts(ctx context.Context, userID string) ([]modeldto.Account, error) {
	accounts, err := proc.storage.GetAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	var responseAccounts []modeldto.Account
	for _, account := range accounts {
		responseAccounts = append(responseAccounts, modeldto.Account{
			AccountID: account.AccountID,
			Name:      account.Name,
			Color:     account.Color,
			CreatedAt: account.CreatedAt,
		})
	}
	return responseAccounts, nil
}

// AddNewEntry processes new daily point entry requests and emits goal and
// milestone notifications when the entry crosses a threshold.
func (proc *Processor) AddNewEntry(ctx context.Context, userID string, entry modeldto.NewEntry) error {
	if entry.Points < 0 {
		return &serviceErrors.ServiceInvalidEntry{Msg: fmt.Sprintf("points must be non-negative, got %d", entry.Points)}
	}
	if entry.AccountID == "" {
		return &serviceErrors.ServiceInvalidEntry{Msg: "account identifier must not be empty"}
	}
	entryDate, err := time.ParseInLocation("2006-01-02", entry.Date, proc.loc)
	if err != nil {
		return &serviceErrors.ServiceInvalidEntry{Msg: fmt.Sprintf("illegal entry date %s", entry.Date)}
	}
	err = proc.storage.AddNewEntry(ctx, userID, entry)
	if err != nil {
		return err
	}
	proc.emitEntryNotifications(ctx, userID, entryDate, entry.Points)
	return nil
}

// emitEntryNotifications produces daily-goal and lifetime-milestone alerts.
// Notification emission is best-effort and never fails the entry creation.
func (proc *Processor) emitEntryNotifications(ctx context.Context, userID string, entryDate time.Time, points int) {
	from, to := goals.DayWindow(entryDate, proc.loc)
	entries, err := proc.storage.GetEntriesByDateRange(ctx, userID, from, to)
	if err == nil {
		dailyGoal := goals.Evaluate(entryDate, entries)
		if dailyGoal.Achieved && dailyGoal.TodayPoints-points < goals.DailyGoalPoints {
			proc.notifier.Add(userID, notifier.KindGoal, "Daily goal achieved",
				fmt.Sprintf("You reached %d of %d points on %s", dailyGoal.TodayPoints, dailyGoal.GoalPoints, dailyGoal.Date),
				notifier.PriorityNormal)
		}
	}
	totalPoints, err := proc.storage.GetTotalPoints(ctx, userID)
	if err == nil && points > 0 && totalPoints/milestonePoints > (totalPoints-points)/milestonePoints {
		proc.notifier.Add(userID, notifier.KindMilestone, "Milestone reached",
			fmt.Sprintf("Your lifetime total passed %d points", totalPoints/milestonePoints*milestonePoints),
			notifier.PriorityLow)
	}
}

// GetCurrentMonthEntries processes entry query requests for the current calendar month.
func (proc *Processor) GetCurrentMonthEntries(ctx context.Context, userID string) ([]modeldto.Entry, error) {
	from, to := goals.MonthWindow(time.Now(), proc.loc)
	entries, err := proc.storage.GetEntriesByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	var responseEntries []modeldto.Entry
	for _, entry := range entries {
		responseEntries = append(responseEntries, modeldto.Entry{
			AccountID: entry.AccountID,
			Date:      entry.EntryDate,
			Points:    entry.Points,
		})
	}
	return responseEntries, nil
}

// EvaluateDailyGoal processes daily goal evaluation requests for one calendar day.
func (proc *Processor) EvaluateDailyGoal(ctx context.Context, userID string, date time.Time) (*modeldto.DailyGoal, error) {
	from, to := goals.DayWindow(date, proc.loc)
	entries, err := proc.storage.GetEntriesByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	dailyGoal := goals.Evaluate(date.In(proc.loc), entries)
	return &dailyGoal, nil
}

// GetMonthlyTarget processes monthly target query requests.
func (proc *Processor) GetMonthlyTarget(userID string) *modeldto.MonthlyTarget {
	target := proc.targets.Get(userID)
	return &modeldto.MonthlyTarget{
		Points:    target.Points,
		Earnings:  target.Earnings,
		UpdatedAt: target.UpdatedAt.Format(time.RFC3339),
	}
}

// SetMonthlyTarget processes monthly target update requests.
func (proc *Processor) SetMonthlyTarget(userID string, target modeldto.NewMonthlyTarget) (*modeldto.MonthlyTarget, error) {
	if target.Points == nil || target.Earnings == nil {
		return nil, &targetErrors.InvalidTargetError{Msg: "both points and earnings are required"}
	}
	newTarget, err := proc.targets.Set(userID, *target.Points, *target.Earnings)
	if err != nil {
		return nil, err
	}
	return &modeldto.MonthlyTarget{
		Points:    newTarget.Points,
		Earnings:  newTarget.Earnings,
		UpdatedAt: newTarget.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// GetBalance processes balance query requests.
func (proc *Processor) GetBalance(ctx context.Context, userID string) (*modeldto.Balance, error) {
	totalPoints, err := proc.storage.GetTotalPoints(ctx, userID)
	if err != nil {
		return nil, err
	}
	withdrawnAmount, err := proc.storage.GetWithdrawnAmount(ctx, userID)
	if err != nil {
		return nil, err
	}
	balance := modeldto.Balance{
		CurrentAmount:   float64(totalPoints)/PointsPerDollar - withdrawnAmount,
		WithdrawnAmount: withdrawnAmount,
	}
	return &balance, nil
}

// AddNewWithdrawal processes new withdrawal requests.
func (proc *Processor) AddNewWithdrawal(ctx context.Context, userID string, withdrawal modeldto.NewWithdrawal) error {
	err := goluhn.Validate(withdrawal.CardNumber)
	if err != nil {
		return &serviceErrors.ServiceIllegalCardNumber{Msg: fmt.Sprintf("illegal card number %s", withdrawal.CardNumber)}
	}
	if withdrawal.Amount <= 0 {
		return &serviceErrors.ServiceInvalidEntry{Msg: fmt.Sprintf("withdrawal amount must be positive, got %v", withdrawal.Amount)}
	}
	balance, err := proc.GetBalance(ctx, userID)
	if err != nil {
		return err
	}
	if balance.CurrentAmount < withdrawal.Amount {
		return &serviceErrors.ServiceNotEnoughFunds{Msg: fmt.Sprintf("not enough funds are available, present - %v, required - %v", balance.CurrentAmount, withdrawal.Amount)}
	}
	withdrawalID := uuid.New().String()
	err = proc.storage.AddNewWithdrawal(ctx, userID, withdrawalID, withdrawal)
	if err != nil {
		return err
	}
	proc.storage.SendToQueue(modelqueue.WithdrawalQueueEntry{
		UserID:       userID,
		WithdrawalID: withdrawalID,
		Status:       "PENDING",
		Amount:       withdrawal.Amount,
	})
	proc.notifier.Add(userID, notifier.KindWithdrawal, "Withdrawal requested",
		fmt.Sprintf("Withdrawal of $%.2f was submitted for processing", withdrawal.Amount),
		notifier.PriorityNormal)
	return nil
}

// GetWithdrawals processes withdrawal query requests, attaching processing
// speed classification to completed withdrawals.
func (proc *Processor) GetWithdrawals(ctx context.Context, userID string) ([]modeldto.Withdrawal, error) {
	withdrawals, err := proc.storage.GetWithdrawals(ctx, userID)
	if err != nil {
		return nil, err
	}
	var responseWithdrawals []modeldto.Withdrawal
	for _, withdrawal := range withdrawals {
		responseWithdrawal := modeldto.Withdrawal{
			WithdrawalID: withdrawal.WithdrawalID,
			AccountID:    withdrawal.AccountID,
			Amount:       withdrawal.Amount,
			Status:       withdrawal.Status,
			RequestedAt:  withdrawal.RequestedAt,
		}
		if withdrawal.CompletedAt.Valid {
			responseWithdrawal.CompletedAt = withdrawal.CompletedAt.String
			classification, err := timing.Classify(parseStamp(withdrawal.RequestedAt), parseStamp(withdrawal.CompletedAt.String))
			if err != nil {
				// data-integrity defect in the record store, report and keep the row
				proc.log.Error().Err(err).Msg(fmt.Sprintf("timing classification failed for withdrawal %s", withdrawal.WithdrawalID))
			} else {
				responseWithdrawal.ProcessingDays = classification.ProcessingDays
				responseWithdrawal.Speed = classification.Speed
			}
		}
		responseWithdrawals = append(responseWithdrawals, responseWithdrawal)
	}
	sort.Slice(responseWithdrawals, func(i, j int) bool {
		time1 := parseStamp(responseWithdrawals[i].RequestedAt)
		time2 := parseStamp(responseWithdrawals[j].RequestedAt)
		return time2.Before(time1)
	})
	return responseWithdrawals, nil
}

// GetRecentWithdrawalUpdates processes short-poll queries for withdrawals
// completed within a trailing time window.
func (proc *Processor) GetRecentWithdrawalUpdates(ctx context.Context, userID string, window time.Duration) ([]modeldto.RecentWithdrawal, error) {
	since := time.Now().Add(-window)
	withdrawals, err := proc.storage.GetRecentCompletedWithdrawals(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	var responseWithdrawals []modeldto.RecentWithdrawal
	for _, withdrawal := range withdrawals {
		responseWithdrawals = append(responseWithdrawals, modeldto.RecentWithdrawal{
			WithdrawalID: withdrawal.WithdrawalID,
			Amount:       withdrawal.Amount,
			Status:       withdrawal.Status,
			RequestedAt:  withdrawal.RequestedAt,
			CompletedAt:  withdrawal.CompletedAt.String,
			AccountName:  withdrawal.AccountName,
			AccountColor: withdrawal.AccountColor,
			UpdatedAt:    withdrawal.UpdatedAt,
		})
	}
	return responseWithdrawals, nil
}

// GetNotifications processes notification query requests.
func (proc *Processor) GetNotifications(userID string) []modeldto.Notification {
	records := proc.notifier.ListAll(userID)
	var responseNotifications []modeldto.Notification
	for _, record := range records {
		responseNotifications = append(responseNotifications, modeldto.Notification{
			NotificationID: record.ID,
			Kind:           record.Kind,
			Title:          record.Title,
			Message:        record.Message,
			Read:           record.Read,
			Priority:       record.Priority,
			CreatedAt:      record.CreatedAt.Format(time.RFC3339),
		})
	}
	return responseNotifications
}

// MarkNotificationAsRead processes single notification read requests.
func (proc *Processor) MarkNotificationAsRead(id string) {
	proc.notifier.MarkAsRead(id)
}

// MarkAllNotificationsAsRead processes bulk notification read requests.
func (proc *Processor) MarkAllNotificationsAsRead(userID string, ids []string) {
	proc.notifier.MarkAllAsRead(userID, ids)
}

// DeleteNotification processes notification delete requests.
func (proc *Processor) DeleteNotification(id string) {
	proc.notifier.Delete(id)
}

// SweepNotifications removes read notifications older than the retention cutoff.
func (proc *Processor) SweepNotifications(olderThan time.Duration) int {
	return proc.notifier.Sweep(olderThan)
}

// ResumePendingWithdrawals re-submits unfinished withdrawals for status polling on startup.
func (proc *Processor) ResumePendingWithdrawals(ctx context.Context) error {
	withdrawals, err := proc.storage.GetPendingWithdrawals(ctx)
	if err != nil {
		return err
	}
	for _, withdrawal := range withdrawals {
		proc.storage.SendToQueue(modelqueue.WithdrawalQueueEntry{
			UserID:       withdrawal.UserID,
			WithdrawalID: withdrawal.WithdrawalID,
			Status:       withdrawal.Status,
			Amount:       withdrawal.Amount,
		})
	}
	return nil
}

// parseStamp parses a storage timestamp, tolerating fractional seconds.
func parseStamp(stamp string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
