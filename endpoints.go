package wxmp

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/goliatone/go-wxmp/core"
)

var errUnexpectedJSON = errors.New("expected binary body, got json")

const (
	code2SessionPath     = "/sns/jscode2session"
	userPhoneNumberPath  = "/wxa/business/getuserphonenumber"
	wxaCodePath          = "/wxa/getwxacode"
	createQRCodePath     = "/cgi-bin/qrcode/create"
	subscribeMessagePath = "/cgi-bin/message/subscribe/bizsend"
)

type Session struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
	UnionID    string `json:"unionid,omitempty"`
}

type PhoneWatermark struct {
	Timestamp int64  `json:"timestamp"`
	AppID     string `json:"appid"`
}

type PhoneInfo struct {
	PhoneNumber     string         `json:"phoneNumber"`
	PurePhoneNumber string         `json:"purePhoneNumber"`
	CountryCode     string         `json:"countryCode"`
	Watermark       PhoneWatermark `json:"watermark"`
}

type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

type WxaCodeRequest struct {
	Path       string `json:"path"`
	Width      int    `json:"width,omitempty"`
	AutoColor  bool   `json:"auto_color,omitempty"`
	LineColor  *Color `json:"line_color,omitempty"`
	IsHyaline  bool   `json:"is_hyaline,omitempty"`
	EnvVersion string `json:"env_version,omitempty"`
}

type QRScene struct {
	SceneID  int    `json:"scene_id,omitempty"`
	SceneStr string `json:"scene_str,omitempty"`
}

type QRActionInfo struct {
	Scene QRScene `json:"scene"`
}

const (
	QRActionScene         = "QR_SCENE"
	QRActionStrScene      = "QR_STR_SCENE"
	QRActionLimitScene    = "QR_LIMIT_SCENE"
	QRActionLimitStrScene = "QR_LIMIT_STR_SCENE"

	maxQRCodeExpireSeconds = 2592000
)

type QRCodeRequest struct {
	ExpireSeconds int          `json:"expire_seconds,omitempty"`
	ActionName    string       `json:"action_name"`
	ActionInfo    QRActionInfo `json:"action_info"`
}

type QRCode struct {
	Ticket        string `json:"ticket"`
	ExpireSeconds int    `json:"expire_seconds"`
	URL           string `json:"url"`
}

type MiniProgramPage struct {
	AppID    string `json:"appid"`
	PagePath string `json:"pagepath"`
}

type MessageValue struct {
	Value any `json:"value"`
}

type SubscriptionMessage struct {
	ToUser      string                  `json:"touser"`
	TemplateID  string                  `json:"template_id"`
	Page        string                  `json:"page,omitempty"`
	MiniProgram *MiniProgramPage        `json:"miniprogram,omitempty"`
	Data        map[string]MessageValue `json:"data"`
}

// Code2Session exchanges a mini program login code for the session key.
func (c *Client) Code2Session(ctx context.Context, jsCode string) (session Session, err error) {
	startedAt := time.Now()
	defer func() { c.observe(ctx, startedAt, "endpoint.code2session", err) }()

	if strings.TrimSpace(jsCode) == "" {
		return Session{}, core.BadInputError("wxmp: js_code is required")
	}
	err = c.callJSON(ctx, "wxmp: code2session", http.MethodGet, code2SessionPath, url.Values{
		"appid":      {c.config.AppID},
		"secret":     {c.config.AppSecret},
		"grant_type": {"authorization_code"},
		"js_code":    {jsCode},
	}, nil, &session)
	return session, err
}

func (c *Client) UserPhoneNumber(ctx context.Context, code string) (info PhoneInfo, err error) {
	startedAt := time.Now()
	defer func() { c.observe(ctx, startedAt, "endpoint.user_phone_number", err) }()

	if strings.TrimSpace(code) == "" {
		return PhoneInfo{}, core.BadInputError("wxmp: phone code is required")
	}
	query, err := c.accessTokenQuery(ctx)
	if err != nil {
		return PhoneInfo{}, err
	}
	var body struct {
		PhoneInfo PhoneInfo `json:"phone_info"`
	}
	err = c.callJSON(ctx, "wxmp: get user phone number", http.MethodPost, userPhoneNumberPath, query,
		map[string]string{"code": code}, &body)
	return body.PhoneInfo, err
}

// WxaCode returns the image bytes of a mini program code. The platform
// answers failures with a JSON envelope instead of an image.
func (c *Client) WxaCode(ctx context.Context, req WxaCodeRequest) (image []byte, err error) {
	startedAt := time.Now()
	defer func() { c.observe(ctx, startedAt, "endpoint.wxacode", err) }()

	const operation = "wxmp: get wxacode"
	if strings.TrimSpace(req.Path) == "" {
		return nil, core.BadInputError("wxmp: wxacode path is required")
	}
	query, err := c.accessTokenQuery(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := core.EncodeJSON(operation, req)
	if err != nil {
		return nil, err
	}
	res, err := c.transport.Do(ctx, core.TransportRequest{
		Method: http.MethodPost,
		Path:   wxaCodePath,
		Query:  query,
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, core.TransportError(operation, res.StatusCode, nil)
	}
	if isJSONBody(res) {
		var envelope core.Envelope
		if err := json.Unmarshal(res.Body, &envelope); err != nil {
			return nil, core.DecodeError(operation, err)
		}
		if envelope.Failed() {
			return nil, core.NewPlatformError(operation, envelope.ErrCode, envelope.ErrMsg)
		}
		return nil, core.DecodeError(operation, errUnexpectedJSON)
	}
	return res.Body, nil
}

func (c *Client) CreateQRCode(ctx context.Context, req QRCodeRequest) (code QRCode, err error) {
	startedAt := time.Now()
	defer func() { c.observe(ctx, startedAt, "endpoint.create_qrcode", err) }()

	switch req.ActionName {
	case QRActionScene, QRActionStrScene, QRActionLimitScene, QRActionLimitStrScene:
	default:
		return QRCode{}, core.BadInputError("wxmp: unsupported qrcode action " + req.ActionName)
	}
	if req.ExpireSeconds < 0 || req.ExpireSeconds > maxQRCodeExpireSeconds {
		return QRCode{}, core.BadInputError("wxmp: qrcode expire_seconds out of range")
	}
	query, err := c.accessTokenQuery(ctx)
	if err != nil {
		return QRCode{}, err
	}
	err = c.callJSON(ctx, "wxmp: create qrcode", http.MethodPost, createQRCodePath, query, req, &code)
	return code, err
}

func (c *Client) SendSubscriptionMessage(ctx context.Context, msg SubscriptionMessage) (err error) {
	startedAt := time.Now()
	defer func() { c.observe(ctx, startedAt, "endpoint.subscription_message", err) }()

	if strings.TrimSpace(msg.ToUser) == "" || strings.TrimSpace(msg.TemplateID) == "" {
		return core.BadInputError("wxmp: touser and template_id are required")
	}
	query, err := c.accessTokenQuery(ctx)
	if err != nil {
		return err
	}
	return c.callJSON(ctx, "wxmp: send subscription message", http.MethodPost, subscribeMessagePath, query, msg, nil)
}

func (c *Client) accessTokenQuery(ctx context.Context) (url.Values, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return url.Values{"access_token": {token}}, nil
}

func (c *Client) callJSON(ctx context.Context, operation, method, path string, query url.Values, payload any, out any) error {
	body, err := core.EncodeJSON(operation, payload)
	if err != nil {
		return err
	}
	res, err := c.transport.Do(ctx, core.TransportRequest{
		Method: method,
		Path:   path,
		Query:  query,
		Body:   body,
	})
	if err != nil {
		return err
	}
	return core.DecodeResponse(operation, res, out)
}

func isJSONBody(res core.TransportResponse) bool {
	for key, value := range res.Headers {
		if strings.EqualFold(key, "Content-Type") && strings.Contains(strings.ToLower(value), "json") {
			return true
		}
	}
	return bytes.HasPrefix(bytes.TrimSpace(res.Body), []byte("{"))
}
