package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AccumulateMode selects whether splits are applied or reversed.
type AccumulateMode int

const (
	// AccumulateForward applies splits as written: create and restore.
	AccumulateForward AccumulateMode = iota
	// AccumulateReverse negates every amount and decrements the
	// transaction count: soft delete.
	AccumulateReverse
)

// BalanceDelta is the signed change accumulated for one pair key.
// Fields mirror the Balance aggregate they will be added onto.
type BalanceDelta struct {
	Pair                PairKey
	Balance             decimal.Decimal
	TotalAmountPaid     decimal.Decimal
	TotalAmountReceived decimal.Decimal
	TransactionCount    int64
}

// DeltaEntry is one signed split entry bound to the payer it is
// accounted against. The diff calculator emits these; the accumulator
// folds them. CountDelta is +1 for a participant joining the pair's
// transaction, -1 for leaving it, 0 for an amount-only change.
type DeltaEntry struct {
	PayerID    int64
	UserID     int64
	Amount     decimal.Decimal
	CountDelta int64
}

// Accumulator collects balance deltas keyed by normalized pair.
// Folding is associative and commutative across entries sharing a key,
// so several transactions can be merged before a single store
// reconciliation and entries may arrive in any order.
type Accumulator map[PairKey]*BalanceDelta

// NewAccumulator returns an empty accumulation map.
func NewAccumulator() Accumulator {
	return make(Accumulator)
}

// Add folds a single entry into the map. The payer's own share and
// pure no-ops are skipped, so a self-pair bucket can never appear.
//
// Sign convention: when the payer is the pair's initiator the entry
// amount raises the balance and the paid total; otherwise it lowers
// the balance and raises the received total. Reversals arrive with
// their sign already flipped and net the same fields back down.
func (acc Accumulator) Add(entry DeltaEntry) {
	if entry.UserID == entry.PayerID {
		return
	}

	if entry.Amount.IsZero() && entry.CountDelta == 0 {
		return
	}

	key := NormalizePair(entry.PayerID, entry.UserID)

	delta, ok := acc[key]
	if !ok {
		delta = &BalanceDelta{
			Pair:                key,
			Balance:             decimal.Zero,
			TotalAmountPaid:     decimal.Zero,
			TotalAmountReceived: decimal.Zero,
		}
		acc[key] = delta
	}

	if entry.PayerID == key.InitiatorID {
		delta.Balance = delta.Balance.Add(entry.Amount)
		delta.TotalAmountPaid = delta.TotalAmountPaid.Add(entry.Amount)
	} else {
		delta.Balance = delta.Balance.Sub(entry.Amount)
		delta.TotalAmountReceived = delta.TotalAmountReceived.Add(entry.Amount)
	}

	delta.TransactionCount += entry.CountDelta
}

// AccumulateSplits folds a whole transaction's split set against its
// payer, forward or reversed. Zero-amount splits and the payer's own
// share contribute nothing.
func (acc Accumulator) AccumulateSplits(payerID int64, splits []Split, mode AccumulateMode) {
	for _, split := range splits {
		if split.Amount.IsZero() || split.UserID == payerID {
			continue
		}

		entry := DeltaEntry{
			PayerID:    payerID,
			UserID:     split.UserID,
			Amount:     split.Amount,
			CountDelta: 1,
		}

		if mode == AccumulateReverse {
			entry.Amount = entry.Amount.Neg()
			entry.CountDelta = -1
		}

		acc.Add(entry)
	}
}

// Keys returns the accumulated pair keys in canonical order
// (initiator, then participant). Deterministic ordering keeps the
// store's row locking deadlock free.
func (acc Accumulator) Keys() []PairKey {
	keys := make([]PairKey, 0, len(acc))
	for key := range acc {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].InitiatorID != keys[j].InitiatorID {
			return keys[i].InitiatorID < keys[j].InitiatorID
		}

		return keys[i].ParticipantID < keys[j].ParticipantID
	})

	return keys
}

// IsEmpty reports whether nothing was accumulated. A no-op edit folds
// down to an empty map and must not touch the store.
func (acc Accumulator) IsEmpty() bool {
	return len(acc) == 0
}

// Users returns every user id appearing in the accumulated pairs, in
// ascending order. Used to invalidate per-user caches after commit.
func (acc Accumulator) Users() []int64 {
	seen := make(map[int64]bool)

	var ids []int64
	for key := range acc {
		if !seen[key.InitiatorID] {
			seen[key.InitiatorID] = true
			ids = append(ids, key.InitiatorID)
		}

		if !seen[key.ParticipantID] {
			seen[key.ParticipantID] = true
			ids = append(ids, key.ParticipantID)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
