// internal/daily/daily.go
//
// Deterministic daily secret: everyone playing on the same UTC date gets the
// same code. The code is chosen by HMAC(salt, YYYY-MM-DD) modulo the size of
// the code universe, so it cannot be predicted without the salt.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/mastermind/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// CodeIndex returns a deterministic index in [0, space) for a date.
func CodeIndex(date time.Time, salt string, space int) int {
	if space <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// First 8 bytes as uint64 for the modulus.
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(space))
}

// CodeFor returns the day's code index and secret under the given rules.
// Rules must already be valid.
func CodeFor(date time.Time, salt string, rules game.Rules) (int, game.Code) {
	idx := CodeIndex(date, salt, rules.Universe())
	return idx, game.CodeFromIndex(idx, rules.PaletteSize, rules.CodeLength)
}
