package history

import (
	"crypto/sha256"
	"encoding/hex"
)

type VerificationStatus string

const (
	// VerificationPending means the server seed has not been revealed yet.
	// Not an error; the round still displays.
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationMismatch VerificationStatus = "mismatch"
)

// Verification is the provably-fair check result shipped alongside a
// reconstructed round.
type Verification struct {
	Status         VerificationStatus `json:"status"`
	ClientSeed     string             `json:"client_seed"`
	ServerSeedHash string             `json:"server_seed_hash"`
	ServerSeed     string             `json:"server_seed,omitempty"`
	Nonce          int64              `json:"nonce"`
}

// Verify checks the revealed server seed against its commitment. The engine
// never re-derives the winner; it only confirms the seed matches the hash the
// server committed to before the round.
func Verify(rec Record) Verification {
	v := Verification{
		Status:         VerificationPending,
		ClientSeed:     rec.ClientSeed,
		ServerSeedHash: rec.ServerSeedHash,
		ServerSeed:     rec.ServerSeed,
		Nonce:          rec.Nonce,
	}
	if rec.ServerSeed == "" {
		return v
	}
	if HashSeed(rec.ServerSeed) == rec.ServerSeedHash {
		v.Status = VerificationVerified
	} else {
		v.Status = VerificationMismatch
	}
	return v
}

func HashSeed(seed string) string {
	h := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(h[:])
}
