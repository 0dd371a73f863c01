package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MaxSplitAmount caps any single share.
	MaxSplitAmount = "1000000000" // 1 billion

	// MaxDescriptionLength caps the free-text description.
	MaxDescriptionLength = 255
)

// ValidateSplits checks a transaction's split set against its declared
// total before any ledger effect is computed. All validation failures
// happen here, ahead of any store mutation.
func ValidateSplits(payerID int64, splits []Split, totalAmount decimal.Decimal) error {
	if len(splits) == 0 {
		return ErrSplitDetailsRequired
	}

	maxAmount, _ := decimal.NewFromString(MaxSplitAmount)

	seen := make(map[int64]bool, len(splits))
	payerPresent := false
	sum := decimal.Zero

	for _, split := range splits {
		if split.Amount.IsNegative() {
			return fmt.Errorf("%w: user %d has amount %s", ErrInvalidAmount, split.UserID, split.Amount)
		}

		if split.Amount.GreaterThan(maxAmount) {
			return fmt.Errorf("%w: user %d exceeds maximum %s", ErrInvalidAmount, split.UserID, MaxSplitAmount)
		}

		if seen[split.UserID] {
			return fmt.Errorf("%w: user %d", ErrDuplicateSplitUser, split.UserID)
		}
		seen[split.UserID] = true

		if split.UserID == payerID {
			payerPresent = true
		}

		sum = sum.Add(split.Amount)
	}

	if !payerPresent {
		return ErrPayerNotInSplit
	}

	if !sum.Equal(totalAmount) {
		return fmt.Errorf("%w: splits sum to %s, total is %s", ErrSplitMismatch, sum, totalAmount)
	}

	return nil
}

// ValidateDescription bounds the description length.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("description exceeds %d characters", MaxDescriptionLength)
	}

	return nil
}
