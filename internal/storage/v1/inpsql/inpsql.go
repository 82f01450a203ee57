// Package inpsql implements the PSQL-backed record store.
package inpsql

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Mohammademon02/income-tracking-api/internal/config"
	"github.com/Mohammademon02/income-tracking-api/internal/models/modeldto"
	"github.com/Mohammademon02/income-tracking-api/internal/models/modelqueue"
	"github.com/Mohammademon02/income-tracking-api/internal/models/modelstorage"
	storageErrors "github.com/Mohammademon02/income-tracking-api/internal/storage/v1/errors"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/rs/zerolog"
)

const (
	WithdrawalStatusPending   = "PENDING"
	WithdrawalStatusCompleted = "COMPLETED"
)

type Storage struct {
	mu       sync.Mutex
	Cfg      *config.StorageConfig
	DB       *sql.DB
	QueueIn  chan modelqueue.WithdrawalQueueEntry
	QueueOut chan modelqueue.WithdrawalQueueEntry
	log      *zerolog.Logger
}

// InitStorage establishes a PSQL DB connection and starts a listener for processed withdrawal updates.
func InitStorage(ctx context.Context, cfg *config.StorageConfig, log *zerolog.Logger, wg *sync.WaitGroup) (*Storage, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	st := Storage{
		Cfg:      cfg,
		DB:       db,
		QueueIn:  make(chan modelqueue.WithdrawalQueueEntry, 1000),
		QueueOut: make(chan modelqueue.WithdrawalQueueEntry, 1000),
		log:      log,
	}
	err = st.createTables(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	st.listenToQueue(wg)
	log.Info().Msg("PSQL DB connection was established")
	return &st, nil
}

// SendToQueue submits a withdrawal for status polling.
func (s *Storage) SendToQueue(item modelqueue.WithdrawalQueueEntry) {
	s.QueueIn <- item
}

// listenToQueue consumes processed withdrawal updates and persists them.
func (s *Storage) listenToQueue(wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.log.Info().Msg("started listening to queue for processed withdrawals")
		for record := range s.QueueOut {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := s.completeWithdrawal(ctx, record.WithdrawalID)
			cancel()
			if err != nil {
				s.log.Error().Err(err).Msg(fmt.Sprintf("completing withdrawal failed for %s", record.WithdrawalID))
			}
		}
		s.log.Info().Msg("stopped listening to queue for processed withdrawals")
	}()
}

func (s *Storage) AddNewUser(ctx context.Context, credentials modeldto.User, userID string) error {
	newUserStmt, err := s.DB.PrepareContext(ctx, "INSERT INTO users (user_id, login, password, registered_at) VALUES ($1, $2, $3, $4)")
	if err != nil {
		return &storageErrors.StatementPSQLError{Err: err}
	}
	defer newUserStmt.Close()
	chanOk := make(chan bool)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, err := newUserStmt.ExecContext(ctx, userID, credentials.Login, credentials.Password, time.Now().Format(time.RFC3339))
		if err != nil {
			if err, ok := err.(*pgconn.PgError); ok && err.Code == pgerrcode.UniqueViolation {
				chanEr <- &storageErrors.AlreadyExistsError{Err: err, ID: credentials.Login}
				return
			}
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		chanOk <- true
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg(fmt.Sprintf("adding new user failed for %s", credentials.Login))
		return &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg(fmt.Sprintf("adding new user failed for %s", credentials.Login))
		return methodErr
	case <-chanOk:
		s.log.Info().Msg(fmt.Sprintf("adding new user done for %s", credentials.Login))
		return nil
	}
}

func (s *Storage) CheckUser(ctx context.Context, credentials modeldto.User) (string, error) {
	selectStmt, err := s.DB.PrepareContext(ctx, "SELECT * FROM users WHERE login = $1")
	if err != nil {
		return "", &storageErrors.StatementPSQLError{Err: err}
	}
	defer selectStmt.Close()
	chanOk := make(chan string)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		var queryOutput modelstorage.UserStorageEntry
		err := selectStmt.QueryRowContext(ctx, credentials.Login).Scan(&queryOutput.ID, &queryOutput.UserID, &queryOutput.Login, &queryOutput.Password, &queryOutput.RegisteredAt)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				chanEr <- &storageErrors.NotFoundError{Err: err}
				return
			default:
				chanEr <- err
				return
			}
		}
		passwordHash := sha256.Sum256([]byte(credentials.Password))
		expectedPasswordHash := sha256.Sum256([]byte(queryOutput.Password))
		passwordMatch := subtle.ConstantTimeCompare(passwordHash[:], expectedPasswordHash[:]) == 1
		if !passwordMatch {
			chanEr <- &storageErrors.NotFoundError{Err: nil}
			return
		}
		chanOk <- queryOutput.UserID
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg("user authentication failed")
		return "", &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg("user authentication failed")
		return "", methodErr
	case userID := <-chanOk:
		s.log.Info().Msg("user authentication done")
		return userID, nil
	}
}

func (s *Storage) AddNewAccount(ctx context.Context, userID, accountID string, account modeldto.NewAccount) error {
	newAccountStmt, err := s.DB.PrepareContext(ctx, "INSERT INTO accounts (account_id, user_id, name, color, created_at) VALUES ($1, $2, $3, $4, $5)")
	if err != nil {
		return &storageErrors.StatementPSQLError{Err: err}
	}
	defer newAccountStmt.Close()
	chanOk := make(chan bool)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, err := newAccountStmt.ExecContext(ctx, accountID, userID, account.Name, account.Color, time.Now().Format(time.RFC3339))
		if err != nil {
			if err, ok := err.(*pgconn.PgError); ok && err.Code == pgerrcode.UniqueViolation {
				chanEr <- &storageErrors.AlreadyExistsError{Err: err, ID: account.Name}
				return
			}
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		chanOk <- true
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg(fmt.Sprintf("adding new account failed for %s", account.Name))
		return &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg(fmt.Sprintf("adding new account failed for %s", account.Name))
		return methodErr
	case <-chanOk:
		s.log.Info().Msg(fmt.Sprintf("adding new account done for %s", account.Name))
		return nil
	}
}

func (s *Storage) GetAccounts(ctx context.Context, userID string) ([]modelstorage.AccountStorageEntry, error) {
	selectStmt, err := s.DB.PrepareContext(ctx, "SELECT * FROM accounts WHERE user_id = $1")
	if err != nil {
		return nil, &storageErrors.StatementPSQLError{Err: err}
	}
	defer selectStmt.Close()
	chanOk := make(chan []modelstorage.AccountStorageEntry)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		rows, err := selectStmt.QueryContext(ctx, userID)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		defer rows.Close()
		var queryOutput []modelstorage.AccountStorageEntry
		for rows.Next() {
			var queryOutputRow modelstorage.AccountStorageEntry
			err = rows.Scan(&queryOutputRow.ID, &queryOutputRow.AccountID, &queryOutputRow.UserID, &queryOutputRow.Name, &queryOutputRow.Color, &queryOutputRow.CreatedAt)
			if err != nil {
				chanEr <- &storageErrors.ScanningPSQLError{Err: err}
				return
			}
			queryOutput = append(queryOutput, queryOutputRow)
		}
		err = rows.Err()
		if err != nil {
			chanEr <- &storageErrors.ScanningPSQLError{Err: err}
			return
		}
		chanOk <- queryOutput
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg("getting accounts failed")
		return nil, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg("getting accounts failed")
		return nil, methodErr
	case accounts := <-chanOk:
		s.log.Info().Msg("getting accounts done")
		return accounts, nil
	}
}

func (s *Storage) AddNewEntry(ctx context.Context, userID string, entry modeldto.NewEntry) error {
	newEntryStmt, err := s.DB.PrepareContext(ctx, "INSERT INTO entries (user_id, account_id, entry_date, points, created_at) VALUES ($1, $2, $3, $4, $5)")
	if err != nil {
		return &storageErrors.StatementPSQLError{Err: err}
	}
	defer newEntryStmt.Close()
	chanOk := make(chan bool)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, err := newEntryStmt.ExecContext(ctx, userID, entry.AccountID, entry.Date, entry.Points, time.Now().Format(time.RFC3339))
		if err != nil {
			if err, ok := err.(*pgconn.PgError); ok && err.Code == pgerrcode.UniqueViolation {
				chanEr <- &storageErrors.AlreadyExistsError{Err: err, ID: entry.Date}
				return
			}
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		chanOk <- true
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg(fmt.Sprintf("adding new entry failed for %s", entry.Date))
		return &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg(fmt.Sprintf("adding new entry failed for %s", entry.Date))
		return methodErr
	case <-chanOk:
		s.log.Info().Msg(fmt.Sprintf("adding new entry done for %s", entry.Date))
		return nil
	}
}

func (s *Storage) GetEntriesByDateRange(ctx context.Context, userID string, from, to time.Time) ([]modelstorage.EntryStorageEntry, error) {
	selectStmt, err := s.DB.PrepareContext(ctx, "SELECT * FROM entries WHERE user_id = $1 AND entry_date >= $2 AND entry_date <= $3 ORDER BY entry_date DESC")
	if err != nil {
		return nil, &storageErrors.StatementPSQLError{Err: err}
	}
	defer selectStmt.Close()
	chanOk := make(chan []modelstorage.EntryStorageEntry)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		rows, err := selectStmt.QueryContext(ctx, userID, from.Format(time.RFC3339), to.Format(time.RFC3339))
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		defer rows.Close()
		var queryOutput []modelstorage.EntryStorageEntry
		for rows.Next() {
			var queryOutputRow modelstorage.EntryStorageEntry
			err = rows.Scan(&queryOutputRow.ID, &queryOutputRow.UserID, &queryOutputRow.AccountID, &queryOutputRow.EntryDate, &queryOutputRow.Points, &queryOutputRow.CreatedAt)
			if err != nil {
				chanEr <- &storageErrors.ScanningPSQLError{Err: err}
				return
			}
			queryOutput = append(queryOutput, queryOutputRow)
		}
		err = rows.Err()
		if err != nil {
			chanEr <- &storageErrors.ScanningPSQLError{Err: err}
			return
		}
		chanOk <- queryOutput
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg("getting entries failed")
		return nil, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg("getting entries failed")
		return nil, methodErr
	case entries := <-chanOk:
		s.log.Info().Msg("getting entries done")
		return entries, nil
	}
}

func (s *Storage) GetTotalPoints(ctx context.Context, userID string) (int, error) {
	selectStmt, err := s.DB.PrepareContext(ctx, "SELECT COALESCE(SUM(points), 0) FROM entries WHERE user_id = $1")
	if err != nil {
		return 0, &storageErrors.StatementPSQLError{Err: err}
	}
	defer selectStmt.Close()
	chanOk := make(chan int)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		var totalPoints int
		err := selectStmt.QueryRowContext(ctx, userID).Scan(&totalPoints)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		chanOk <- totalPoints
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg("getting total points failed")
		return 0, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg("getting total points failed")
		return 0, methodErr
	case totalPoints := <-chanOk:
		s.log.Info().Msg("getting total points done")
		return totalPoints, nil
	}
}

func (s *Storage) AddNewWithdrawal(ctx context.Context, userID, withdrawalID string, withdrawal modeldto.NewWithdrawal) error {
	newWithdrawalStmt, err := s.DB.PrepareContext(ctx, "INSERT INTO withdrawals (withdrawal_id, user_id, account_id, card_number, amount, status, requested_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)")
	if err != nil {
		return &storageErrors.StatementPSQLError{Err: err}
	}
	defer newWithdrawalStmt.Close()
	chanOk := make(chan bool)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		now := time.Now().Format(time.RFC3339)
		_, err := newWithdrawalStmt.ExecContext(ctx, withdrawalID, userID, withdrawal.AccountID, withdrawal.CardNumber, withdrawal.Amount, WithdrawalStatusPending, now, now)
		if err != nil {
			if err, ok := err.(*pgconn.PgError); ok && err.Code == pgerrcode.UniqueViolation {
				chanEr <- &storageErrors.AlreadyExistsError{Err: err, ID: withdrawalID}
				return
			}
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		chanOk <- true
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg(fmt.Sprintf("adding new withdrawal failed for %s", withdrawalID))
		return &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg(fmt.Sprintf("adding new withdrawal failed for %s", withdrawalID))
		return methodErr
	case <-chanOk:
		s.log.Info().Msg(fmt.Sprintf("adding new withdrawal done for %s", withdrawalID))
		return nil
	}
}

func (s *Storage) GetWithdrawals(ctx context.Context, userID string) ([]modelstorage.WithdrawalStorageEntry, error) {
	selectStmt, err := s.DB.PrepareContext(ctx, "SELECT * FROM withdrawals WHERE user_id = $1")
	if err != nil {
		return nil, &storageErrors.StatementPSQLError{Err: err}
	}
	defer selectStmt.Close()
	chanOk := make(chan []modelstorage.WithdrawalStorageEntry)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		rows, err := selectStmt.QueryContext(ctx, userID)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		defer rows.Close()
		var queryOutput []modelstorage.WithdrawalStorageEntry
		for rows.Next() {
			var queryOutputRow modelstorage.WithdrawalStorageEntry
			err = rows.Scan(&queryOutputRow.ID, &queryOutputRow.WithdrawalID, &queryOutputRow.UserID, &queryOutputRow.AccountID, &queryOutputRow.CardNumber, &queryOutputRow.Amount, &queryOutputRow.Status, &queryOutputRow.RequestedAt, &queryOutputRow.CompletedAt, &queryOutputRow.UpdatedAt)
			if err != nil {
				chanEr <- &storageErrors.ScanningPSQLError{Err: err}
				return
			}
			queryOutput = append(queryOutput, queryOutputRow)
		}
		err = rows.Err()
		if err != nil {
			chanEr <- &storageErrors.ScanningPSQLError{Err: err}
			return
		}
		chanOk <- queryOutput
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg("getting withdrawals failed")
		return nil, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg("getting withdrawals failed")
		return nil, methodErr
	case withdrawals := <-chanOk:
		s.log.Info().Msg("getting withdrawals done")
		return withdrawals, nil
	}
}

func (s *Storage) GetWithdrawnAmount(ctx context.Context, userID string) (float64, error) {
	selectStmt, err := s.DB.PrepareContext(ctx, "SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE user_id = $1")
	if err != nil {
		return 0, &storageErrors.StatementPSQLError{Err: err}
	}
	defer selectStmt.Close()
	chanOk := make(chan float64)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		var withdrawnAmount float64
		err := selectStmt.QueryRowContext(ctx, userID).Scan(&withdrawnAmount)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		chanOk <- withdrawnAmount
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg("getting withdrawn balance failed")
		return 0, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg("getting withdrawn balance failed")
		return 0, methodErr
	case amount := <-chanOk:
		s.log.Info().Msg("getting withdrawn balance done")
		return amount, nil
	}
}

func (s *Storage) GetRecentCompletedWithdrawals(ctx context.Context, userID string, since time.Time) ([]modelstorage.RecentWithdrawalStorageEntry, error) {
	selectStmt, err := s.DB.PrepareContext(ctx, `SELECT w.withdrawal_id, w.amount, w.status, w.requested_at, w.completed_at, a.name, a.color, w.updated_at
		FROM withdrawals w JOIN accounts a ON a.account_id = w.account_id
		WHERE w.user_id = $1 AND w.status = $2 AND w.updated_at >= $3
		ORDER BY w.updated_at DESC`)
	if err != nil {
		return nil, &storageErrors.StatementPSQLError{Err: err}
	}
	defer selectStmt.Close()
	chanOk := make(chan []modelstorage.RecentWithdrawalStorageEntry)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		rows, err := selectStmt.QueryContext(ctx, userID, WithdrawalStatusCompleted, since.Format(time.RFC3339))
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		defer rows.Close()
		var queryOutput []modelstorage.RecentWithdrawalStorageEntry
		for rows.Next() {
			var queryOutputRow modelstorage.RecentWithdrawalStorageEntry
			err = rows.Scan(&queryOutputRow.WithdrawalID, &queryOutputRow.Amount, &queryOutputRow.Status, &queryOutputRow.RequestedAt, &queryOutputRow.CompletedAt, &queryOutputRow.AccountName, &queryOutputRow.AccountColor, &queryOutputRow.UpdatedAt)
			if err != nil {
				chanEr <- &storageErrors.ScanningPSQLError{Err: err}
				return
			}
			queryOutput = append(queryOutput, queryOutputRow)
		}
		err = rows.Err()
		if err != nil {
			chanEr <- &storageErrors.ScanningPSQLError{Err: err}
			return
		}
		chanOk <- queryOutput
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg("getting recent withdrawals failed")
		return nil, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg("getting recent withdrawals failed")
		return nil, methodErr
	case withdrawals := <-chanOk:
		s.log.Info().Msg("getting recent withdrawals done")
		return withdrawals, nil
	}
}

func (s *Storage) GetPendingWithdrawals(ctx context.Context) ([]modelstorage.WithdrawalStorageEntry, error) {
	selectStmt, err := s.DB.PrepareContext(ctx, "SELECT * FROM withdrawals WHERE status = $1")
	if err != nil {
		return nil, &storageErrors.StatementPSQLError{Err: err}
	}
	defer selectStmt.Close()
	chanOk := make(chan []modelstorage.WithdrawalStorageEntry)
	chanEr := make(chan error)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		rows, err := selectStmt.QueryContext(ctx, WithdrawalStatusPending)
		if err != nil {
			chanEr <- &storageErrors.ExecutionPSQLError{Err: err}
			return
		}
		defer rows.Close()
		var queryOutput []modelstorage.WithdrawalStorageEntry
		for rows.Next() {
			var queryOutputRow modelstorage.WithdrawalStorageEntry
			err = rows.Scan(&queryOutputRow.ID, &queryOutputRow.WithdrawalID, &queryOutputRow.UserID, &queryOutputRow.AccountID, &queryOutputRow.CardNumber, &queryOutputRow.Amount, &queryOutputRow.Status, &queryOutputRow.RequestedAt, &queryOutputRow.CompletedAt, &queryOutputRow.UpdatedAt)
			if err != nil {
				chanEr <- &storageErrors.ScanningPSQLError{Err: err}
				return
			}
			queryOutput = append(queryOutput, queryOutputRow)
		}
		err = rows.Err()
		if err != nil {
			chanEr <- &storageErrors.ScanningPSQLError{Err: err}
			return
		}
		chanOk <- queryOutput
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Msg("getting pending withdrawals failed")
		return nil, &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		s.log.Error().Err(methodErr).Msg("getting pending withdrawals failed")
		return nil, methodErr
	case withdrawals := <-chanOk:
		s.log.Info().Msg("getting pending withdrawals done")
		return withdrawals, nil
	}
}

// completeWithdrawal marks a withdrawal as completed and refreshes its timestamps.
func (s *Storage) completeWithdrawal(ctx context.Context, withdrawalID string) error {
	updateStmt, err := s.DB.PrepareContext(ctx, "UPDATE withdrawals SET status = $1, completed_at = $2, updated_at = $3 WHERE withdrawal_id = $4")
	if err != nil {
		return &storageErrors.StatementPSQLError{Err: err}
	}
	defer updateStmt.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().Format(time.RFC3339)
	res, err := updateStmt.ExecContext(ctx, WithdrawalStatusCompleted, now, now, withdrawalID)
	if err != nil {
		return &storageErrors.ExecutionPSQLError{Err: err}
	}
	nRows, err := res.RowsAffected()
	if err != nil {
		return &storageErrors.ExecutionPSQLError{Err: err}
	}
	if nRows == 0 {
		return &storageErrors.NotFoundError{Err: nil}
	}
	s.log.Info().Msg(fmt.Sprintf("completing withdrawal done for %s", withdrawalID))
	return nil
}

func (s *Storage) createTables(ctx context.Context) error {
	var queries []string
	query := `CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL   NOT NULL,
		user_id       TEXT        NOT NULL UNIQUE,
		login         TEXT        NOT NULL UNIQUE,
		password      TEXT        NOT NULL,
		registered_at TIMESTAMPTZ NOT NULL
	);`
	queries = append(queries, query)
	query = `CREATE TABLE IF NOT EXISTS accounts (
		id         BIGSERIAL   NOT NULL,
		account_id TEXT        NOT NULL UNIQUE,
		user_id    TEXT        NOT NULL,
		name       TEXT        NOT NULL,
		color      TEXT        NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);`
	queries = append(queries, query)
	query = `CREATE TABLE IF NOT EXISTS entries (
		id         BIGSERIAL   NOT NULL,
		user_id    TEXT        NOT NULL,
		account_id TEXT        NOT NULL,
		entry_date TIMESTAMPTZ NOT NULL,
		points     BIGINT      NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);`
	queries = append(queries, query)
	query = `CREATE TABLE IF NOT EXISTS withdrawals (
		id            BIGSERIAL      NOT NULL,
		withdrawal_id TEXT           NOT NULL UNIQUE,
		user_id       TEXT           NOT NULL,
		account_id    TEXT           NOT NULL,
		card_number   TEXT           NOT NULL,
		amount        NUMERIC(10, 2) NOT NULL,
		status        TEXT           NOT NULL,
		requested_at  TIMESTAMPTZ    NOT NULL,
		completed_at  TIMESTAMPTZ,
		updated_at    TIMESTAMPTZ    NOT NULL
	);`
	queries = append(queries, query)
	for _, subquery := range queries {
		_, err := s.DB.ExecContext(ctx, subquery)
		if err != nil {
			return err
		}
	}
	return nil
}
