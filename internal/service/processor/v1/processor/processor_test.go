package processor

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Mohammademon02/income-tracking-api/internal/config"
	"github.com/Mohammademon02/income-tracking-api/internal/models/modeldto"
	"github.com/Mohammademon02/income-tracking-api/internal/models/modelqueue"
	"github.com/Mohammademon02/income-tracking-api/internal/models/modelstorage"
	"github.com/Mohammademon02/income-tracking-api/internal/service/notifier/v1"
	serviceErrors "github.com/Mohammademon02/income-tracking-api/internal/service/processor/v1/errors"
	"github.com/Mohammademon02/income-tracking-api/internal/service/secretary/v1/secretary"
	"github.com/Mohammademon02/income-tracking-api/internal/service/targets/v1"
	targetErrors "github.com/Mohammademon02/income-tracking-api/internal/service/targets/v1/errors"
	"github.com/Mohammademon02/income-tracking-api/internal/service/timing/v1"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validCardNumber passes the Luhn check.
const validCardNumber = "4561261212345467"

type stubStorage struct {
	accounts    []modelstorage.AccountStorageEntry
	entries     []modelstorage.EntryStorageEntry
	withdrawals []modelstorage.WithdrawalStorageEntry
	recent      []modelstorage.RecentWithdrawalStorageEntry
	totalPoints int
	withdrawn   float64

	queued       []modelqueue.WithdrawalQueueEntry
	addedEntries []modeldto.NewEntry
	rangeFrom    time.Time
	rangeTo      time.Time
	recentSince  time.Time
}

func (st *stubStorage) AddNewUser(_ context.Context, _ modeldto.User, _ string) error {
	return nil
}

func (st *stubStorage) CheckUser(_ context.Context, _ modeldto.User) (string, error) {
	return "stub-user", nil
}

func (st *stubStorage) AddNewAccount(_ context.Context, _, _ string, _ modeldto.NewAccount) error {
	return nil
}

func (st *stubStorage) GetAccounts(_ context.Context, _ string) ([]modelstorage.AccountStorageEntry, error) {
	return st.accounts, nil
}

func (st *stubStorage) AddNewEntry(_ context.Context, _ string, entry modeldto.NewEntry) error {
	st.addedEntries = append(st.addedEntries, entry)
	return nil
}

func (st *stubStorage) GetEntriesByDateRange(_ context.Context, _ string, from, to time.Time) ([]modelstorage.EntryStorageEntry, error) {
	st.rangeFrom = from
	st.rangeTo = to
	return st.entries, nil
}

func (st *stubStorage) GetTotalPoints(_ context.Context, _ string) (int, error) {
	return st.totalPoints, nil
}

func (st *stubStorage) AddNewWithdrawal(_ context.Context, _, _ string, _ modeldto.NewWithdrawal) error {
	return nil
}

func (st *stubStorage) GetWithdrawals(_ context.Context, _ string) ([]modelstorage.WithdrawalStorageEntry, error) {
	return st.withdrawals, nil
}

func (st *stubStorage) GetWithdrawnAmount(_ context.Context, _ string) (float64, error) {
	return st.withdrawn, nil
}

func (st *stubStorage) GetRecentCompletedWithdrawals(_ context.Context, _ string, since time.Time) ([]modelstorage.RecentWithdrawalStorageEntry, error) {
	st.recentSince = since
	return st.recent, nil
}

func (st *stubStorage) GetPendingWithdrawals(_ context.Context) ([]modelstorage.WithdrawalStorageEntry, error) {
	return st.withdrawals, nil
}

func (st *stubStorage) SendToQueue(item modelqueue.WithdrawalQueueEntry) {
	st.queued = append(st.queued, item)
}

func newTestProcessor(t *testing.T, st *stubStorage) (*Processor, *notifier.Registry) {
	t.Helper()
	secretaryService, err := secretary.NewSecretaryService(&config.SecretConfig{SecretKey: "test_secret_key"})
	require.NoError(t, err)
	registry := notifier.NewRegistry()
	log := zerolog.Nop()
	proc, err := InitService(st, secretaryService, targets.NewStore(), registry, &log)
	require.NoError(t, err)
	return proc, registry
}

func TestInitServiceNilArguments(t *testing.T) {
	t.Parallel()

	log := zerolog.Nop()
	_, err := InitService(nil, nil, targets.NewStore(), notifier.NewRegistry(), &log)
	var nilArgument *serviceErrors.ServiceFoundNilArgument
	require.Error(t, err)
	assert.True(t, errors.As(err, &nilArgument))
}

func TestGetBalance(t *testing.T) {
	t.Parallel()

	st := &stubStorage{totalPoints: 25000, withdrawn: 50}
	proc, _ := newTestProcessor(t, st)

	balance, err := proc.GetBalance(context.Background(), "some-user")
	require.NoError(t, err)
	// 25000 points at 100 points per dollar minus 50 withdrawn
	assert.InDelta(t, 200, balance.CurrentAmount, 1e-9)
	assert.InDelta(t, 50, balance.WithdrawnAmount, 1e-9)
}

func TestAddNewWithdrawal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		withdrawal  modeldto.NewWithdrawal
		totalPoints int
		wantErrAs   interface{}
	}{
		{
			name:        "illegal card number",
			withdrawal:  modeldto.NewWithdrawal{AccountID: "acc", CardNumber: "1234", Amount: 10},
			totalPoints: 100000,
			wantErrAs:   new(*serviceErrors.ServiceIllegalCardNumber),
		},
		{
			name:        "non-positive amount",
			withdrawal:  modeldto.NewWithdrawal{AccountID: "acc", CardNumber: validCardNumber, Amount: 0},
			totalPoints: 100000,
			wantErrAs:   new(*serviceErrors.ServiceInvalidEntry),
		},
		{
			name:        "not enough funds",
			withdrawal:  modeldto.NewWithdrawal{AccountID: "acc", CardNumber: validCardNumber, Amount: 500},
			totalPoints: 10000,
			wantErrAs:   new(*serviceErrors.ServiceNotEnoughFunds),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			st := &stubStorage{totalPoints: tt.totalPoints}
			proc, _ := newTestProcessor(t, st)
			err := proc.AddNewWithdrawal(context.Background(), "some-user", tt.withdrawal)
			require.Error(t, err)
			assert.True(t, errors.As(err, tt.wantErrAs))
			assert.Empty(t, st.queued)
		})
	}
}

func TestAddNewWithdrawalSuccess(t *testing.T) {
	t.Parallel()

	st := &stubStorage{totalPoints: 100000}
	proc, registry := newTestProcessor(t, st)

	err := proc.AddNewWithdrawal(context.Background(), "some-user", modeldto.NewWithdrawal{
		AccountID:  "acc",
		CardNumber: validCardNumber,
		Amount:     100,
	})
	require.NoError(t, err)

	require.Len(t, st.queued, 1)
	assert.Equal(t, "some-user", st.queued[0].UserID)
	assert.Equal(t, "PENDING", st.queued[0].Status)
	assert.InDelta(t, 100, st.queued[0].Amount, 1e-9)
	assert.NotEmpty(t, st.queued[0].WithdrawalID)

	records := registry.ListAll("some-user")
	require.Len(t, records, 1)
	assert.Equal(t, notifier.KindWithdrawal, records[0].Kind)
}

func TestGetWithdrawals(t *testing.T) {
	t.Parallel()

	requestedAt := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	st := &stubStorage{
		withdrawals: []modelstorage.WithdrawalStorageEntry{
			{
				WithdrawalID: "w-pending",
				Amount:       10,
				Status:       "PENDING",
				RequestedAt:  requestedAt.Add(48 * time.Hour).Format(time.RFC3339Nano),
			},
			{
				WithdrawalID: "w-completed",
				Amount:       20,
				Status:       "COMPLETED",
				RequestedAt:  requestedAt.Format(time.RFC3339Nano),
				CompletedAt:  sql.NullString{String: requestedAt.Add(5 * 24 * time.Hour).Format(time.RFC3339Nano), Valid: true},
			},
			{
				WithdrawalID: "w-corrupt",
				Amount:       30,
				Status:       "COMPLETED",
				RequestedAt:  requestedAt.Add(24 * time.Hour).Format(time.RFC3339Nano),
				CompletedAt:  sql.NullString{String: requestedAt.Format(time.RFC3339Nano), Valid: true},
			},
		},
	}
	proc, _ := newTestProcessor(t, st)

	withdrawals, err := proc.GetWithdrawals(context.Background(), "some-user")
	require.NoError(t, err)
	require.Len(t, withdrawals, 3)

	// most recent request first
	assert.Equal(t, "w-pending", withdrawals[0].WithdrawalID)
	assert.Equal(t, "w-corrupt", withdrawals[1].WithdrawalID)
	assert.Equal(t, "w-completed", withdrawals[2].WithdrawalID)

	// pending withdrawals carry no classification
	assert.Empty(t, withdrawals[0].Speed)
	assert.Zero(t, withdrawals[0].ProcessingDays)

	// completed in five days
	assert.Equal(t, 5, withdrawals[2].ProcessingDays)
	assert.Equal(t, timing.SpeedFast, withdrawals[2].Speed)

	// the corrupt record is reported without classification but kept in the listing
	assert.Empty(t, withdrawals[1].Speed)
	assert.Zero(t, withdrawals[1].ProcessingDays)
	assert.NotEmpty(t, withdrawals[1].CompletedAt)
}

func TestGetRecentWithdrawalUpdates(t *testing.T) {
	t.Parallel()

	st := &stubStorage{
		recent: []modelstorage.RecentWithdrawalStorageEntry{
			{
				WithdrawalID: "w1",
				Amount:       25,
				Status:       "COMPLETED",
				RequestedAt:  "2024-01-01T12:00:00Z",
				CompletedAt:  sql.NullString{String: "2024-01-06T12:00:00Z", Valid: true},
				AccountName:  "Survey Site",
				AccountColor: "#ff8800",
				UpdatedAt:    "2024-01-06T12:00:00Z",
			},
		},
	}
	proc, _ := newTestProcessor(t, st)

	window := 5 * time.Minute
	before := time.Now()
	withdrawals, err := proc.GetRecentWithdrawalUpdates(context.Background(), "some-user", window)
	require.NoError(t, err)

	assert.WithinDuration(t, before.Add(-window), st.recentSince, time.Second)
	require.Len(t, withdrawals, 1)
	assert.Equal(t, "w1", withdrawals[0].WithdrawalID)
	assert.Equal(t, "Survey Site", withdrawals[0].AccountName)
	assert.Equal(t, "#ff8800", withdrawals[0].AccountColor)
	assert.Equal(t, "2024-01-06T12:00:00Z", withdrawals[0].CompletedAt)
}

func TestAddNewEntryValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry modeldto.NewEntry
	}{
		{name: "negative points", entry: modeldto.NewEntry{AccountID: "acc", Date: "2024-03-15", Points: -1}},
		{name: "empty account", entry: modeldto.NewEntry{AccountID: "", Date: "2024-03-15", Points: 100}},
		{name: "illegal date", entry: modeldto.NewEntry{AccountID: "acc", Date: "15.03.2024", Points: 100}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			st := &stubStorage{}
			proc, _ := newTestProcessor(t, st)
			err := proc.AddNewEntry(context.Background(), "some-user", tt.entry)
			var invalidEntry *serviceErrors.ServiceInvalidEntry
			require.Error(t, err)
			assert.True(t, errors.As(err, &invalidEntry))
			assert.Empty(t, st.addedEntries)
		})
	}
}

func TestAddNewEntryGoalNotification(t *testing.T) {
	t.Parallel()

	// the day total crosses the goal with this entry
	st := &stubStorage{
		entries: []modelstorage.EntryStorageEntry{
			{Points: 1600},
			{Points: 500},
		},
		totalPoints: 2100,
	}
	proc, registry := newTestProcessor(t, st)

	err := proc.AddNewEntry(context.Background(), "some-user", modeldto.NewEntry{
		AccountID: "acc",
		Date:      "2024-03-15",
		Points:    500,
	})
	require.NoError(t, err)
	require.Len(t, st.addedEntries, 1)

	records := registry.ListAll("some-user")
	require.Len(t, records, 1)
	assert.Equal(t, notifier.KindGoal, records[0].Kind)
}

func TestAddNewEntryMilestoneNotification(t *testing.T) {
	t.Parallel()

	// the lifetime total passes the 10000 point step with this entry
	st := &stubStorage{
		entries:     []modelstorage.EntryStorageEntry{{Points: 500}},
		totalPoints: 10200,
	}
	proc, registry := newTestProcessor(t, st)

	err := proc.AddNewEntry(context.Background(), "some-user", modeldto.NewEntry{
		AccountID: "acc",
		Date:      "2024-03-15",
		Points:    500,
	})
	require.NoError(t, err)

	records := registry.ListAll("some-user")
	require.Len(t, records, 1)
	assert.Equal(t, notifier.KindMilestone, records[0].Kind)
}

func TestEvaluateDailyGoalWindow(t *testing.T) {
	t.Parallel()

	st := &stubStorage{entries: []modelstorage.EntryStorageEntry{{Points: 1000}}}
	proc, _ := newTestProcessor(t, st)

	date := time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC)
	dailyGoal, err := proc.EvaluateDailyGoal(context.Background(), "some-user", date)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), st.rangeFrom)
	assert.Equal(t, 15, st.rangeTo.Day())
	assert.Equal(t, "2024-03-15", dailyGoal.Date)
	assert.Equal(t, 1000, dailyGoal.TodayPoints)
	assert.False(t, dailyGoal.Achieved)
}

func TestSetMonthlyTarget(t *testing.T) {
	t.Parallel()

	st := &stubStorage{}
	proc, _ := newTestProcessor(t, st)

	points := float64(20000)
	earnings := float64(200)
	target, err := proc.SetMonthlyTarget("some-user", modeldto.NewMonthlyTarget{Points: &points, Earnings: &earnings})
	require.NoError(t, err)
	assert.Equal(t, 20000, target.Points)
	assert.InDelta(t, 200, target.Earnings, 1e-9)

	stored := proc.GetMonthlyTarget("some-user")
	assert.Equal(t, 20000, stored.Points)
}

func TestSetMonthlyTargetMissingFields(t *testing.T) {
	t.Parallel()

	st := &stubStorage{}
	proc, _ := newTestProcessor(t, st)

	points := float64(20000)
	_, err := proc.SetMonthlyTarget("some-user", modeldto.NewMonthlyTarget{Points: &points})
	var invalidTargetError *targetErrors.InvalidTargetError
	require.Error(t, err)
	assert.True(t, errors.As(err, &invalidTargetError))
}

func TestGetMonthlyTargetDefault(t *testing.T) {
	t.Parallel()

	st := &stubStorage{}
	proc, _ := newTestProcessor(t, st)

	target := proc.GetMonthlyTarget("some-user")
	assert.Equal(t, targets.DefaultTargetPoints, target.Points)
	assert.InDelta(t, targets.DefaultTargetEarnings, target.Earnings, 1e-9)
	assert.NotEmpty(t, target.UpdatedAt)
}

func TestResumePendingWithdrawals(t *testing.T) {
	t.Parallel()

	st := &stubStorage{
		withdrawals: []modelstorage.WithdrawalStorageEntry{
			{WithdrawalID: "w1", UserID: "some-user", Amount: 10, Status: "PENDING"},
			{WithdrawalID: "w2", UserID: "other-user", Amount: 20, Status: "PENDING"},
		},
	}
	proc, _ := newTestProcessor(t, st)

	err := proc.ResumePendingWithdrawals(context.Background())
	require.NoError(t, err)
	require.Len(t, st.queued, 2)
	assert.Equal(t, "w1", st.queued[0].WithdrawalID)
	assert.Equal(t, "w2", st.queued[1].WithdrawalID)
}
