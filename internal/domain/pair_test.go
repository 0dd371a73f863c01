package domain_test

import (
	"testing"

	"github.com/splitemate/ledger/internal/domain"
)

func TestNormalizePair(t *testing.T) {
	tests := []struct {
		name            string
		a, b            int64
		wantInitiator   int64
		wantParticipant int64
	}{
		{"ordered", 1, 2, 1, 2},
		{"reversed", 2, 1, 1, 2},
		{"large ids", 9001, 17, 17, 9001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := domain.NormalizePair(tt.a, tt.b)
			if key.InitiatorID != tt.wantInitiator || key.ParticipantID != tt.wantParticipant {
				t.Errorf("NormalizePair(%d, %d) = %+v", tt.a, tt.b, key)
			}
		})
	}
}

func TestNormalizePair_Commutative(t *testing.T) {
	ids := []int64{1, 2, 3, 42, 1000}
	for _, a := range ids {
		for _, b := range ids {
			if domain.NormalizePair(a, b) != domain.NormalizePair(b, a) {
				t.Errorf("NormalizePair(%d, %d) != NormalizePair(%d, %d)", a, b, b, a)
			}
		}
	}
}

func TestPairKey_Other(t *testing.T) {
	key := domain.NormalizePair(3, 7)

	if got := key.Other(3); got != 7 {
		t.Errorf("Other(3) = %d, want 7", got)
	}

	if got := key.Other(7); got != 3 {
		t.Errorf("Other(7) = %d, want 3", got)
	}
}

func TestPairKey_IsSelf(t *testing.T) {
	if !domain.NormalizePair(5, 5).IsSelf() {
		t.Error("expected self pair")
	}

	if domain.NormalizePair(5, 6).IsSelf() {
		t.Error("unexpected self pair")
	}
}
