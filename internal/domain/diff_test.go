package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitemate/ledger/internal/domain"
)

func applyDiff(entries []domain.DeltaEntry) domain.Accumulator {
	acc := domain.NewAccumulator()
	for _, e := range entries {
		acc.Add(e)
	}

	return acc
}

func TestDiffSplits_NoOpEditIsEmpty(t *testing.T) {
	splits := []domain.Split{
		{UserID: 1, Amount: dec("40")},
		{UserID: 2, Amount: dec("30")},
		{UserID: 3, Amount: dec("30")},
	}

	entries := domain.DiffSplits(1, 1, splits, splits)
	assert.Empty(t, entries)
	assert.True(t, applyDiff(entries).IsEmpty())
}

func TestDiffSplits_AmountChangeAndRemoval(t *testing.T) {
	// Payer A(1), splits 40/30/30 with B(2), C(3); edit drops C and
	// raises B to 60.
	oldSplits := []domain.Split{
		{UserID: 1, Amount: dec("40")},
		{UserID: 2, Amount: dec("30")},
		{UserID: 3, Amount: dec("30")},
	}
	newSplits := []domain.Split{
		{UserID: 1, Amount: dec("40")},
		{UserID: 2, Amount: dec("60")},
	}

	acc := applyDiff(domain.DiffSplits(1, 1, oldSplits, newSplits))

	ab := acc[domain.NormalizePair(1, 2)]
	require.NotNil(t, ab)
	assert.True(t, ab.Balance.Equal(dec("30")), "B's share delta is 60-30")
	assert.EqualValues(t, 0, ab.TransactionCount, "same participant, same transaction")

	ac := acc[domain.NormalizePair(1, 3)]
	require.NotNil(t, ac)
	assert.True(t, ac.Balance.Equal(dec("-30")), "C's share fully reversed")
	assert.EqualValues(t, -1, ac.TransactionCount)
}

func TestDiffSplits_AddedParticipant(t *testing.T) {
	oldSplits := []domain.Split{
		{UserID: 1, Amount: dec("50")},
		{UserID: 2, Amount: dec("50")},
	}
	newSplits := []domain.Split{
		{UserID: 1, Amount: dec("40")},
		{UserID: 2, Amount: dec("30")},
		{UserID: 3, Amount: dec("30")},
	}

	acc := applyDiff(domain.DiffSplits(1, 1, oldSplits, newSplits))

	added := acc[domain.NormalizePair(1, 3)]
	require.NotNil(t, added)
	assert.True(t, added.Balance.Equal(dec("30")))
	assert.EqualValues(t, 1, added.TransactionCount)

	changed := acc[domain.NormalizePair(1, 2)]
	require.NotNil(t, changed)
	assert.True(t, changed.Balance.Equal(dec("-20")))
	assert.EqualValues(t, 0, changed.TransactionCount)
}

func TestDiffSplits_AmountDroppedToZeroIsRemoval(t *testing.T) {
	oldSplits := []domain.Split{
		{UserID: 1, Amount: dec("50")},
		{UserID: 2, Amount: dec("50")},
	}
	newSplits := []domain.Split{
		{UserID: 1, Amount: dec("100")},
		{UserID: 2, Amount: dec("0")},
	}

	acc := applyDiff(domain.DiffSplits(1, 1, oldSplits, newSplits))

	delta := acc[domain.NormalizePair(1, 2)]
	require.NotNil(t, delta)
	assert.True(t, delta.Balance.Equal(dec("-50")))
	assert.EqualValues(t, -1, delta.TransactionCount, "stake ended, not a zero-delta no-op")
}

func TestDiffSplits_PayerChange(t *testing.T) {
	// Payer changes from A(1) to B(2), amounts unchanged: the A-keyed
	// accumulation is fully reversed and the set re-accumulates
	// against B.
	splits := []domain.Split{
		{UserID: 1, Amount: dec("20")},
		{UserID: 2, Amount: dec("20")},
		{UserID: 3, Amount: dec("20")},
	}

	acc := applyDiff(domain.DiffSplits(1, 2, splits, splits))

	// Pair (1,2): creation put +20 on it (B owed A); reversal takes
	// -20 -1, re-accumulation keyed to B puts A's own 20 back on it
	// as -20 (A now owes B) with +1.
	ab := acc[domain.NormalizePair(1, 2)]
	require.NotNil(t, ab)
	assert.True(t, ab.Balance.Equal(dec("-40")))
	assert.EqualValues(t, 0, ab.TransactionCount)

	// Pair (1,3): only the reversal touches it.
	ac := acc[domain.NormalizePair(1, 3)]
	require.NotNil(t, ac)
	assert.True(t, ac.Balance.Equal(dec("-20")))
	assert.EqualValues(t, -1, ac.TransactionCount)

	// Pair (2,3): only the fresh accumulation under B touches it.
	bc := acc[domain.NormalizePair(2, 3)]
	require.NotNil(t, bc)
	assert.True(t, bc.Balance.Equal(dec("20")))
	assert.EqualValues(t, 1, bc.TransactionCount)
}

func TestDiffSplits_CreateThenFullRemovalNetsToZero(t *testing.T) {
	// Folding a creation and a diff that empties every non-payer share
	// must return all buckets to zero.
	oldSplits := []domain.Split{
		{UserID: 1, Amount: dec("60")},
		{UserID: 2, Amount: dec("40")},
	}
	newSplits := []domain.Split{
		{UserID: 1, Amount: dec("100")},
	}

	acc := domain.NewAccumulator()
	acc.AccumulateSplits(1, oldSplits, domain.AccumulateForward)

	for _, e := range domain.DiffSplits(1, 1, oldSplits, newSplits) {
		acc.Add(e)
	}

	delta := acc[domain.NormalizePair(1, 2)]
	require.NotNil(t, delta)
	assert.True(t, delta.Balance.IsZero())
	assert.True(t, delta.TotalAmountPaid.IsZero())
	assert.EqualValues(t, 0, delta.TransactionCount)
}
