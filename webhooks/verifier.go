package webhooks

import (
	"crypto/subtle"

	"github.com/goliatone/go-wxmp/core"
	"github.com/goliatone/go-wxmp/signature"
)

// VerifyFailed is returned by VerifyToken instead of the echo string when
// the signature does not match.
const VerifyFailed = "error"

type Verifier struct {
	Token string
}

func NewVerifier(token string) Verifier {
	return Verifier{Token: token}
}

// CheckSignature reports whether signature is the SHA-1 of the sorted
// token, timestamp and nonce. The comparison is case-sensitive.
func (v Verifier) CheckSignature(sig, timestamp, nonce string) (bool, error) {
	if v.Token == "" {
		return false, core.ConfigurationError("webhooks: server token is required")
	}
	return matches(v.expected(timestamp, nonce), sig), nil
}

// VerifyToken answers the server handshake: echostr on success, VerifyFailed
// otherwise. A verifier without a token never matches.
func (v Verifier) VerifyToken(sig, echostr, timestamp, nonce string) string {
	ok, err := v.CheckSignature(sig, timestamp, nonce)
	if err != nil || !ok {
		return VerifyFailed
	}
	return echostr
}

func (v Verifier) expected(timestamp, nonce string) string {
	return signature.SHA1(signature.SortedJoin(v.Token, timestamp, nonce))
}

func matches(expected, actual string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
