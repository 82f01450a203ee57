// Package timing classifies withdrawal processing speed.
package timing

import (
	"fmt"
	"math"
	"time"

	timingErrors "github.com/Mohammademon02/income-tracking-api/internal/service/timing/v1/errors"
)

const (
	SpeedFast     = "fast"
	SpeedNormal   = "normal"
	SpeedSlow     = "slow"
	SpeedVerySlow = "very_slow"
)

// Classification holds elapsed whole processing days and the derived speed tier.
type Classification struct {
	ProcessingDays int
	Speed          string
}

// Classify computes the number of whole days between a withdrawal request and
// its completion and maps it onto a speed tier. A completion timestamp that is
// missing or precedes the request timestamp indicates a data-integrity defect
// upstream and yields an InvalidStateError.
func Classify(requestedAt, completedAt time.Time) (Classification, error) {
	if completedAt.IsZero() {
		return Classification{}, &timingErrors.InvalidStateError{Msg: "withdrawal has no completion timestamp"}
	}
	if completedAt.Before(requestedAt) {
		return Classification{}, &timingErrors.InvalidStateError{Msg: fmt.Sprintf("completion timestamp %s precedes request timestamp %s", completedAt.Format(time.RFC3339), requestedAt.Format(time.RFC3339))}
	}
	processingDays := int(math.Ceil(completedAt.Sub(requestedAt).Hours() / 24))
	var speed string
	switch {
	case processingDays <= 10:
		speed = SpeedFast
	case processingDays <= 20:
		speed = SpeedNormal
	case processingDays <= 30:
		speed = SpeedSlow
	default:
		speed = SpeedVerySlow
	}
	return Classification{ProcessingDays: processingDays, Speed: speed}, nil
}
