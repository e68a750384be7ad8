package inventory

import (
	"fmt"
	"time"

	"github.com/pharmapos/backend/internal/domain/shared"
)

// ExpiryStatus classifies how close a batch is to its expiry date
type ExpiryStatus string

const (
	// ExpiryStatusExpired means the expiry date has passed
	ExpiryStatusExpired ExpiryStatus = "EXPIRED"
	// ExpiryStatusCritical means the batch expires within the critical window
	ExpiryStatusCritical ExpiryStatus = "CRITICAL"
	// ExpiryStatusWarning means the batch expires within the warning window
	ExpiryStatusWarning ExpiryStatus = "WARNING"
	// ExpiryStatusGood means the batch is comfortably within shelf life
	ExpiryStatusGood ExpiryStatus = "GOOD"
)

// String returns the string representation
func (s ExpiryStatus) String() string {
	return string(s)
}

const (
	// CriticalExpiryDays is the window within which a batch is critical
	CriticalExpiryDays = 7
	// WarningExpiryDays is the window within which a batch is in warning
	WarningExpiryDays = 30
	// MaxShelfLifeYears bounds how far in the future an expiry date may lie
	MaxShelfLifeYears = 5
)

// ExpiryClassification is the result of classifying a batch against a reference date
type ExpiryClassification struct {
	Status          ExpiryStatus
	DaysUntilExpiry int // negative when already expired
}

// ShouldQuarantine returns true if the batch must be pulled from saleable stock
func (c ExpiryClassification) ShouldQuarantine() bool {
	return c.Status == ExpiryStatusExpired || c.Status == ExpiryStatusCritical
}

// ClassifyExpiry classifies a batch against a reference date. It is a pure
// function: the same batch and date always yield the same classification.
func ClassifyExpiry(batch *Batch, reference time.Time) ExpiryClassification {
	days := daysBetween(reference, batch.ExpiryDate)

	var status ExpiryStatus
	switch {
	case days < 0:
		status = ExpiryStatusExpired
	case days <= CriticalExpiryDays:
		status = ExpiryStatusCritical
	case days <= WarningExpiryDays:
		status = ExpiryStatusWarning
	default:
		status = ExpiryStatusGood
	}

	return ExpiryClassification{
		Status:          status,
		DaysUntilExpiry: days,
	}
}

// ValidateExpiryDate validates an expiry date at batch-creation time.
// Dates in the past are rejected, as are dates beyond the maximum shelf life.
func ValidateExpiryDate(expiry, reference time.Time) error {
	if daysBetween(reference, expiry) < 0 {
		return shared.NewDomainError("EXPIRY_IN_PAST",
			fmt.Sprintf("Expiry date %s is in the past", expiry.Format("2006-01-02")))
	}
	if expiry.After(reference.AddDate(MaxShelfLifeYears, 0, 0)) {
		return shared.NewDomainError("EXPIRY_TOO_FAR",
			fmt.Sprintf("Expiry date %s is more than %d years in the future", expiry.Format("2006-01-02"), MaxShelfLifeYears))
	}
	return nil
}

// daysBetween returns the number of whole calendar days from a to b,
// ignoring the time-of-day component of both.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	aMidnight := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bMidnight := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bMidnight.Sub(aMidnight).Hours() / 24)
}
