package domain

// DiffSplits computes the incremental ledger effect of editing a
// transaction from (oldPayer, oldSplits) to (newPayer, newSplits).
// The returned entries, folded through an Accumulator, yield exactly
// the edit's net effect on top of what was already applied at creation
// time; the new state is never recomputed from scratch.
//
// When the payer changes, every old split is fully reversed against
// the old payer (the original accumulation was keyed to them and is no
// longer valid) and the new split set is accumulated fresh against the
// new payer. When the payer is unchanged, per-user deltas are emitted:
// amount changes carry no count change, additions count +1, removals
// (including an amount dropping to exactly zero) count -1.
//
// A no-op edit yields no entries.
func DiffSplits(oldPayerID, newPayerID int64, oldSplits, newSplits []Split) []DeltaEntry {
	var entries []DeltaEntry

	if oldPayerID != newPayerID {
		for _, split := range oldSplits {
			if split.Amount.IsZero() || split.UserID == oldPayerID {
				continue
			}

			entries = append(entries, DeltaEntry{
				PayerID:    oldPayerID,
				UserID:     split.UserID,
				Amount:     split.Amount.Neg(),
				CountDelta: -1,
			})
		}

		for _, split := range newSplits {
			if split.Amount.IsZero() || split.UserID == newPayerID {
				continue
			}

			entries = append(entries, DeltaEntry{
				PayerID:    newPayerID,
				UserID:     split.UserID,
				Amount:     split.Amount,
				CountDelta: 1,
			})
		}

		return entries
	}

	oldByUser := make(map[int64]Split, len(oldSplits))
	for _, split := range oldSplits {
		oldByUser[split.UserID] = split
	}

	seen := make(map[int64]bool, len(newSplits))

	for _, split := range newSplits {
		seen[split.UserID] = true

		if split.UserID == newPayerID {
			continue
		}

		old, existed := oldByUser[split.UserID]

		switch {
		case !existed || old.Amount.IsZero():
			// Added participant (entries that previously carried a
			// zero amount never reached the ledger).
			if !split.Amount.IsZero() {
				entries = append(entries, DeltaEntry{
					PayerID:    newPayerID,
					UserID:     split.UserID,
					Amount:     split.Amount,
					CountDelta: 1,
				})
			}
		case split.Amount.IsZero():
			// Stake ended: full removal, not a zero-delta no-op.
			entries = append(entries, DeltaEntry{
				PayerID:    newPayerID,
				UserID:     split.UserID,
				Amount:     old.Amount.Neg(),
				CountDelta: -1,
			})
		case !split.Amount.Equal(old.Amount):
			entries = append(entries, DeltaEntry{
				PayerID:    newPayerID,
				UserID:     split.UserID,
				Amount:     split.Amount.Sub(old.Amount),
				CountDelta: 0,
			})
		}
	}

	for _, split := range oldSplits {
		if seen[split.UserID] || split.UserID == oldPayerID || split.Amount.IsZero() {
			continue
		}

		entries = append(entries, DeltaEntry{
			PayerID:    oldPayerID,
			UserID:     split.UserID,
			Amount:     split.Amount.Neg(),
			CountDelta: -1,
		})
	}

	return entries
}
