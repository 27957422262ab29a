package oauth

type Scope string

const (
	ScopeBase     Scope = "snsapi_base"
	ScopeUserInfo Scope = "snsapi_userinfo"
)

const DefaultLang = "zh_CN"

// Token is a user-scoped grant. It is handed to the caller and never cached.
type Token struct {
	AccessToken    string `json:"access_token"`
	ExpiresIn      int64  `json:"expires_in"`
	RefreshToken   string `json:"refresh_token"`
	OpenID         string `json:"openid"`
	Scope          string `json:"scope"`
	IsSnapshotUser int    `json:"is_snapshotuser,omitempty"`
	UnionID        string `json:"unionid,omitempty"`
}

type UserInfo struct {
	OpenID     string   `json:"openid"`
	Nickname   string   `json:"nickname"`
	Sex        int      `json:"sex"`
	Province   string   `json:"province"`
	City       string   `json:"city"`
	Country    string   `json:"country"`
	HeadImgURL string   `json:"headimgurl"`
	Privilege  []string `json:"privilege"`
	UnionID    string   `json:"unionid,omitempty"`
}

type AuthorizationRequest struct {
	Scope       Scope
	RedirectURL string
	State       string
	ForcePopup  bool
}

// Authorization is the result of Begin: the redirect target and the state
// that must come back on the callback.
type Authorization struct {
	URL   string
	State string
}

type UserInfoRequest struct {
	AccessToken string
	OpenID      string
	Lang        string
}

type IntrospectRequest struct {
	AccessToken string
	OpenID      string
}
