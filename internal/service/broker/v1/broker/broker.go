// Package broker implements a worker pool polling the payout provider for withdrawal completions.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Mohammademon02/income-tracking-api/internal/api/rest/client"
	"github.com/Mohammademon02/income-tracking-api/internal/models/modeldto"
	"github.com/Mohammademon02/income-tracking-api/internal/models/modelqueue"
	"github.com/Mohammademon02/income-tracking-api/internal/service/notifier/v1"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// pollInterval is the minimum delay between two polls of the same withdrawal.
const pollInterval = 10 * time.Second

// retryLimit is the number of failed polls after which a withdrawal is abandoned.
const retryLimit = 3

type Broker struct {
	ctx          context.Context
	log          *zerolog.Logger
	queueIn      chan modelqueue.WithdrawalQueueEntry
	queueOut     chan modelqueue.WithdrawalQueueEntry
	wg           *sync.WaitGroup
	client       *client.Client
	registry     *notifier.Registry
	workerNumber int
}

type PayoutStatusWorker struct {
	ID       int
	ctx      context.Context
	log      *zerolog.Logger
	queueIn  chan modelqueue.WithdrawalQueueEntry
	queueOut chan modelqueue.WithdrawalQueueEntry
	client   *client.Client
	registry *notifier.Registry
}

func InitBroker(ctx context.Context, queueIn, queueOut chan modelqueue.WithdrawalQueueEntry, log *zerolog.Logger, wg *sync.WaitGroup, payoutClient *client.Client, registry *notifier.Registry, workerNumber int) *Broker {
	broker := Broker{
		ctx:          ctx,
		log:          log,
		queueIn:      queueIn,
		queueOut:     queueOut,
		wg:           wg,
		client:       payoutClient,
		registry:     registry,
		workerNumber: workerNumber,
	}
	return &broker
}

func (b *Broker) ListenAndProcess() {
	b.wg.Add(1)
	go func() {
		b.log.Info().Msg("started listening to queue for pending withdrawals")
		defer b.wg.Done()
		g, _ := errgroup.WithContext(b.ctx)
		for i := 0; i < b.workerNumber; i++ {
			w := &PayoutStatusWorker{ID: i, ctx: b.ctx, queueIn: b.queueIn, queueOut: b.queueOut, log: b.log, client: b.client, registry: b.registry}
			g.Go(w.processAsync)
		}
		<-b.ctx.Done()
		close(b.queueIn)
		b.log.Info().Msg("closed queue for pending withdrawals")
		close(b.queueOut)
		b.log.Info().Msg("closed queue for processed withdrawals")
		err := g.Wait()
		if err != nil {
			b.log.Fatal().Err(err).Msg("closing errgroup failed")
		}
		b.log.Info().Msg("stopped listening to queue for pending withdrawals")
	}()
}

func (w *PayoutStatusWorker) processAsync() error {
	for record := range w.queueIn {
		// wait out the remainder of the poll interval before querying the same withdrawal again
		if wait := pollInterval - time.Since(record.LastChecked); wait > 0 {
			select {
			case <-w.ctx.Done():
				return nil
			case <-time.After(wait):
			}
		}

		status, err := w.pollStatus(record)
		if err != nil {
			if record.RetryCount >= retryLimit {
				w.log.Warn().Msg(fmt.Sprintf("WID %v, withdrawal %v — abandonment due to retry limit exceeding", w.ID, record.WithdrawalID))
				continue
			}
			w.log.Warn().Msg(fmt.Sprintf("WID %v, withdrawal %v — could not process, sending back to queue", w.ID, record.WithdrawalID))
			record.RetryCount += 1
			record.LastChecked = time.Now()
			w.requeue(record)
			continue
		}

		if status != "COMPLETED" {
			record.LastChecked = time.Now()
			w.requeue(record)
			continue
		}

		w.log.Info().Msg(fmt.Sprintf("WID %v, withdrawal %v — completed, sending to DB", w.ID, record.WithdrawalID))
		select {
		case <-w.ctx.Done():
			return nil
		case w.queueOut <- record:
		}
		w.registry.Add(record.UserID, notifier.KindWithdrawal, "Withdrawal completed",
			fmt.Sprintf("Withdrawal of $%.2f was completed by the payout provider", record.Amount),
			notifier.PriorityHigh)
	}
	return nil
}

// pollStatus queries the payout provider for the current withdrawal status.
func (w *PayoutStatusWorker) pollStatus(record modelqueue.WithdrawalQueueEntry) (string, error) {
	response, err := w.client.GetPayoutStatus(w.ctx, record.WithdrawalID)
	if err != nil {
		return "", err
	}
	if response.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("payout provider responded with status %d", response.StatusCode())
	}
	var payoutStatus modeldto.PayoutStatus
	err = json.Unmarshal(response.Body(), &payoutStatus)
	if err != nil {
		return "", err
	}
	return payoutStatus.Status, nil
}

// requeue puts a record back without blocking shutdown.
func (w *PayoutStatusWorker) requeue(record modelqueue.WithdrawalQueueEntry) {
	select {
	case <-w.ctx.Done():
	case w.queueIn <- record:
	}
}
