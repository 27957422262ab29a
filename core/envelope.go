package core

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

// Envelope is the errcode/errmsg pair every platform JSON body may carry.
type Envelope struct {
	ErrCode int    `json:"errcode,omitempty"`
	ErrMsg  string `json:"errmsg,omitempty"`
}

func (e Envelope) Failed() bool {
	return e.ErrCode != 0
}

// DecodeResponse validates status and envelope of res, then decodes the body
// into out when out is non-nil.
func DecodeResponse(operation string, res TransportResponse, out any) error {
	if res.StatusCode != http.StatusOK {
		return TransportError(operation, res.StatusCode, nil)
	}
	var envelope Envelope
	if err := json.Unmarshal(res.Body, &envelope); err != nil {
		return DecodeError(operation, err)
	}
	if envelope.Failed() {
		return NewPlatformError(operation, envelope.ErrCode, envelope.ErrMsg)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		return DecodeError(operation, err)
	}
	return nil
}

// EncodeJSON marshals a request payload.
func EncodeJSON(operation string, payload any) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, BadInputError(fmt.Sprintf("%s: encode request: %v", operation, err))
	}
	return body, nil
}
