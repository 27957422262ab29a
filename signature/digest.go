package signature

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/goliatone/go-wxmp/core"
)

const (
	AlgorithmSHA1   = "sha1"
	AlgorithmSHA256 = "sha256"
	AlgorithmMD5    = "md5"
)

// Digest hashes payload with algorithm and returns lowercase hex.
func Digest(algorithm string, payload string) (string, error) {
	var h hash.Hash
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case AlgorithmSHA1, "":
		h = sha1.New()
	case AlgorithmSHA256:
		h = sha256.New()
	case AlgorithmMD5:
		h = md5.New()
	default:
		return "", core.ConfigurationError("signature: unsupported digest algorithm " + algorithm)
	}
	_, _ = h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil)), nil
}

func SHA1(payload string) string {
	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}
