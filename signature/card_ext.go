package signature

import (
	"github.com/goccy/go-json"
	"github.com/goliatone/go-wxmp/core"
)

// CardExt is the per-card payload passed as a JSON string to the JS-SDK
// addCard call.
type CardExt struct {
	Code                string `json:"code,omitempty"`
	OpenID              string `json:"openid,omitempty"`
	Timestamp           string `json:"timestamp"`
	NonceStr            string `json:"nonce_str,omitempty"`
	FixedBeginTimestamp string `json:"fixed_begintimestamp,omitempty"`
	OuterStr            string `json:"outer_str,omitempty"`
	Signature           string `json:"signature"`
}

func NewCardExt(sig CardSignature) CardExt {
	return CardExt{
		Code:      sig.Code,
		OpenID:    sig.OpenID,
		Timestamp: sig.Timestamp,
		NonceStr:  sig.NonceStr,
		Signature: sig.Signature,
	}
}

// String encodes the payload. The JS-SDK expects it as a string, not an
// object.
func (c CardExt) String() (string, error) {
	body, err := json.Marshal(c)
	if err != nil {
		return "", core.BadInputError("signature: encode card ext: " + err.Error())
	}
	return string(body), nil
}
