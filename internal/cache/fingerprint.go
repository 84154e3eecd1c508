package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint computes the deterministic cache key for a (category,
// parameters) pair. encoding/json emits map keys in sorted order, so two
// parameter maps with the same entries hash identically regardless of
// insertion order.
func Fingerprint(category string, params map[string]any) string {
	h := sha256.New()
	h.Write([]byte(category))
	h.Write([]byte{0})
	if len(params) > 0 {
		// Marshal cannot fail for map[string]any built from decoded JSON;
		// an unmarshalable value degrades to hashing the category alone.
		if b, err := json.Marshal(params); err == nil {
			h.Write(b)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
