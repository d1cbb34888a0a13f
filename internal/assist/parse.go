package assist

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// jsonSpan slices the greedy first-open to last-close span out of raw
// model output, tolerating prose around the JSON value.
func jsonSpan(s, open, close string) (string, bool) {
	i := strings.Index(s, open)
	j := strings.LastIndex(s, close)
	if i == -1 || j == -1 || j < i {
		return "", false
	}
	return s[i : j+1], true
}

func fingerprint(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}
