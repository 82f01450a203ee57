// Package modelqueue provides types for queueing pieces of data.
package modelqueue

import "time"

type WithdrawalQueueEntry struct {
	UserID       string
	WithdrawalID string
	Status       string
	Amount       float64
	RetryCount   int
	LastChecked  time.Time
}
