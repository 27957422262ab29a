package core

import (
	"strings"

	"github.com/google/uuid"
)

// NewNonce returns 32 lowercase hex characters, within the platform's
// 32-character noncestr limit.
func NewNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
