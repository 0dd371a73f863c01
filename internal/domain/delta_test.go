package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitemate/ledger/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}

	return d
}

func TestAccumulator_ForwardSplits(t *testing.T) {
	// Payer A(1) pays 100, split 40/30/30 with B(2) and C(3).
	acc := domain.NewAccumulator()
	acc.AccumulateSplits(1, []domain.Split{
		{UserID: 1, Amount: dec("40")},
		{UserID: 2, Amount: dec("30")},
		{UserID: 3, Amount: dec("30")},
	}, domain.AccumulateForward)

	require.Len(t, acc, 2, "payer's own 40 must not create a pair")

	ab := acc[domain.NormalizePair(1, 2)]
	require.NotNil(t, ab)
	assert.True(t, ab.Balance.Equal(dec("30")), "balance = %s", ab.Balance)
	assert.True(t, ab.TotalAmountPaid.Equal(dec("30")))
	assert.True(t, ab.TotalAmountReceived.IsZero())
	assert.EqualValues(t, 1, ab.TransactionCount)

	ac := acc[domain.NormalizePair(1, 3)]
	require.NotNil(t, ac)
	assert.True(t, ac.Balance.Equal(dec("30")))
	assert.EqualValues(t, 1, ac.TransactionCount)
}

func TestAccumulator_PayerIsHigherID(t *testing.T) {
	// Payer 5 pays for user 2: payer is the pair's participant, so the
	// balance goes negative and the amount lands in the received total.
	acc := domain.NewAccumulator()
	acc.AccumulateSplits(5, []domain.Split{
		{UserID: 5, Amount: dec("10")},
		{UserID: 2, Amount: dec("25")},
	}, domain.AccumulateForward)

	delta := acc[domain.NormalizePair(2, 5)]
	require.NotNil(t, delta)
	assert.True(t, delta.Balance.Equal(dec("-25")))
	assert.True(t, delta.TotalAmountPaid.IsZero())
	assert.True(t, delta.TotalAmountReceived.Equal(dec("25")))
}

func TestAccumulator_ReverseUndoesForward(t *testing.T) {
	splits := []domain.Split{
		{UserID: 1, Amount: dec("40")},
		{UserID: 2, Amount: dec("30")},
		{UserID: 3, Amount: dec("30")},
	}

	acc := domain.NewAccumulator()
	acc.AccumulateSplits(1, splits, domain.AccumulateForward)
	acc.AccumulateSplits(1, splits, domain.AccumulateReverse)

	for key, delta := range acc {
		assert.True(t, delta.Balance.IsZero(), "pair %+v balance %s", key, delta.Balance)
		assert.True(t, delta.TotalAmountPaid.IsZero())
		assert.True(t, delta.TotalAmountReceived.IsZero())
		assert.EqualValues(t, 0, delta.TransactionCount)
	}
}

func TestAccumulator_SkipsZeroAmounts(t *testing.T) {
	acc := domain.NewAccumulator()
	acc.AccumulateSplits(1, []domain.Split{
		{UserID: 1, Amount: dec("20")},
		{UserID: 2, Amount: dec("0")},
		{UserID: 3, Amount: dec("20")},
	}, domain.AccumulateForward)

	assert.Nil(t, acc[domain.NormalizePair(1, 2)], "zero amount must not create a pair")
	assert.NotNil(t, acc[domain.NormalizePair(1, 3)])
}

func TestAccumulator_CommutativeAcrossTransactions(t *testing.T) {
	// Two transactions touching the same pair, folded in either order,
	// must produce identical buckets.
	first := []domain.Split{{UserID: 1, Amount: dec("50")}, {UserID: 2, Amount: dec("50")}}
	second := []domain.Split{{UserID: 2, Amount: dec("10")}, {UserID: 1, Amount: dec("30")}}

	left := domain.NewAccumulator()
	left.AccumulateSplits(1, first, domain.AccumulateForward)
	left.AccumulateSplits(2, second, domain.AccumulateForward)

	right := domain.NewAccumulator()
	right.AccumulateSplits(2, second, domain.AccumulateForward)
	right.AccumulateSplits(1, first, domain.AccumulateForward)

	require.Equal(t, len(left), len(right))

	for key, want := range left {
		got := right[key]
		require.NotNil(t, got)
		assert.True(t, got.Balance.Equal(want.Balance))
		assert.True(t, got.TotalAmountPaid.Equal(want.TotalAmountPaid))
		assert.True(t, got.TotalAmountReceived.Equal(want.TotalAmountReceived))
		assert.Equal(t, want.TransactionCount, got.TransactionCount)
	}

	// Payer 1 paid 50 for user 2, payer 2 paid 30 for user 1: the pair
	// nets to +20 from user 1's side with both totals populated.
	delta := left[domain.NormalizePair(1, 2)]
	require.NotNil(t, delta)
	assert.True(t, delta.Balance.Equal(dec("20")))
	assert.True(t, delta.TotalAmountPaid.Equal(dec("50")))
	assert.True(t, delta.TotalAmountReceived.Equal(dec("30")))
	assert.EqualValues(t, 2, delta.TransactionCount)
}

func TestAccumulator_KeysSorted(t *testing.T) {
	acc := domain.NewAccumulator()
	acc.Add(domain.DeltaEntry{PayerID: 9, UserID: 4, Amount: dec("1"), CountDelta: 1})
	acc.Add(domain.DeltaEntry{PayerID: 1, UserID: 8, Amount: dec("1"), CountDelta: 1})
	acc.Add(domain.DeltaEntry{PayerID: 1, UserID: 2, Amount: dec("1"), CountDelta: 1})

	keys := acc.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, domain.PairKey{InitiatorID: 1, ParticipantID: 2}, keys[0])
	assert.Equal(t, domain.PairKey{InitiatorID: 1, ParticipantID: 8}, keys[1])
	assert.Equal(t, domain.PairKey{InitiatorID: 4, ParticipantID: 9}, keys[2])
}

func TestAccumulator_Users(t *testing.T) {
	acc := domain.NewAccumulator()
	acc.Add(domain.DeltaEntry{PayerID: 3, UserID: 1, Amount: dec("5"), CountDelta: 1})
	acc.Add(domain.DeltaEntry{PayerID: 3, UserID: 2, Amount: dec("5"), CountDelta: 1})

	assert.Equal(t, []int64{1, 2, 3}, acc.Users())
}
