package gitsource

import (
	"crypto/md5"  //nolint:gosec // content fingerprints, not security
	"crypto/sha1" //nolint:gosec // content fingerprints, not security
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"sort"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// DefaultAlgorithm is used when no hashing algorithm is given.
const DefaultAlgorithm = "md5"

var hashers = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
	"sha3_256": func() hash.Hash {
		return sha3.New256()
	},
	"blake2b_256": func() hash.Hash {
		h, _ := blake2b.New256(nil) // only fails for keys longer than 64 bytes
		return h
	},
}

// Algorithms lists the supported hashing algorithms.
func Algorithms() []string {
	out := make([]string, 0, len(hashers))
	for k := range hashers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CheckAlgorithm fails for unsupported hashing algorithms.
func CheckAlgorithm(alg string) error {
	if _, ok := hashers[alg]; !ok {
		return fmt.Errorf("Unsupported hash type %s", alg)
	}
	return nil
}

// Hash returns the hex digest of data.
func Hash(alg string, data []byte) (string, error) {
	newHash, ok := hashers[alg]
	if !ok {
		return "", fmt.Errorf("Unsupported hash type %s", alg)
	}
	h := newHash()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
