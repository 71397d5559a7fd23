package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeMatchID computes a deterministic match_id using SHA256.
// Formula: SHA256(tournament_id|round|match_order|code_a|code_b) where
// code_a < code_b lexically, so both perspectives of one match derive
// the same id regardless of winner/loser order in the source.
// Returns hex-encoded hash (64 characters).
func ComputeMatchID(tournamentID, round string, matchOrder int, playerA, playerB string) string {
	if playerB < playerA {
		playerA, playerB = playerB, playerA
	}

	data := fmt.Sprintf("%s|%s|%d|%s|%s",
		tournamentID,
		round,
		matchOrder,
		playerA,
		playerB,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
