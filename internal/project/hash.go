package project

import (
	"crypto/sha256"
)

// Digest - фиксированный 256 битный хеш содержимого
type Digest [32]byte

// Sum hashes one blob.
func Sum(content []byte) Digest {
	return sha256.Sum256(content)
}

// Combine строит составной хеш: H( first || d1 || d2 ... ).
// Порядок должен быть детерминированным, вызывающий сортирует входы сам.
func Combine(first Digest, rest ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(first[:])
	for _, d := range rest {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
