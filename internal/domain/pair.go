package domain

// PairKey identifies the single ledger row kept for an unordered pair
// of users. InitiatorID is always the smaller of the two ids, so the
// same pair always maps to the same row no matter who paid.
type PairKey struct {
	InitiatorID   int64
	ParticipantID int64
}

// NormalizePair canonicalizes two user ids into a PairKey.
// It is commutative: NormalizePair(a, b) == NormalizePair(b, a).
func NormalizePair(a, b int64) PairKey {
	if a > b {
		a, b = b, a
	}

	return PairKey{InitiatorID: a, ParticipantID: b}
}

// IsSelf reports whether the key degenerates to a single user.
// Callers filter self pairs out before any balance is touched; this
// exists as a defensive check at the store boundary.
func (k PairKey) IsSelf() bool {
	return k.InitiatorID == k.ParticipantID
}

// Contains reports whether the pair involves the given user.
func (k PairKey) Contains(userID int64) bool {
	return k.InitiatorID == userID || k.ParticipantID == userID
}

// Other returns the counterparty of userID within the pair.
func (k PairKey) Other(userID int64) int64 {
	if k.InitiatorID == userID {
		return k.ParticipantID
	}

	return k.InitiatorID
}
