// Package shortid derives the public identifier of a link.
package shortid

import (
	"crypto/md5"
	"encoding/base64"
)

// skip is the number of leading encoded characters dropped from the digest.
const skip = 9

// Length of every identifier returned by Derive.
var Length = base64.RawURLEncoding.EncodedLen(md5.Size) - skip

// Derive fingerprints originalURL and ownerID into a short identifier.
// The result is deterministic but not collision free and not a secret.
func Derive(originalURL, ownerID string) string {
	sum := md5.Sum([]byte(originalURL + ownerID))
	return base64.RawURLEncoding.EncodeToString(sum[:])[skip:]
}
