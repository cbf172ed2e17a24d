package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// CacheKey derives the answer cache key for a (document id, question)
// pair. The input is length-prefixed before hashing so no choice of
// delimiter inside the question can make two distinct pairs collide.
func CacheKey(documentID, question string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d:%s:%s", len(documentID), documentID, question)))
	return "answer:" + hex.EncodeToString(h[:])
}
