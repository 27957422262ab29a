package signature

import (
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/goliatone/go-wxmp/core"
	"github.com/goliatone/go-wxmp/credentials"
)

const testJSAPITicket = "sM4AOVdWfPE4DxkXGEs8VMCPGGVi4C3VM0P37wVUCFvkVAy_90u5h9nbSlYy3-Sl-HhTdfl2fzFy1AOcHKP7qg"

func TestSortedValues(t *testing.T) {
	if got := SortedValues(map[string]string{"b": "2", "a": "1"}); got != "12" {
		t.Fatalf("expected 12, got %q", got)
	}
	if got := SortedValues(map[string]string{"x": "b", "y": "a", "z": "c"}); got != "abc" {
		t.Fatalf("expected values sorted regardless of keys, got %q", got)
	}
	if got := SortedValues(nil); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestSortedJoin(t *testing.T) {
	if got := SortedJoin("thisisave", "1688384379", "1616797381"); got != "16167973811688384379thisisave" {
		t.Fatalf("unexpected join %q", got)
	}
	input := []string{"b", "a"}
	SortedJoin(input...)
	if input[0] != "b" {
		t.Fatalf("expected input slice to be left unsorted")
	}
}

func TestCanonicalQuery(t *testing.T) {
	got := CanonicalQuery(map[string]string{"url": "http://x?y=1", "noncestr": "n", "timestamp": "1"})
	if got != "noncestr=n&timestamp=1&url=http://x?y=1" {
		t.Fatalf("unexpected canonical query %q", got)
	}
}

func TestDigest(t *testing.T) {
	cases := map[string]string{
		"sha1":   "a9993e364706816aba3e25717850c26c9cd0d89d",
		"SHA1":   "a9993e364706816aba3e25717850c26c9cd0d89d",
		"sha256": "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		"md5":    "900150983cd24fb0d6963f7d28e17f72",
	}
	for algorithm, want := range cases {
		got, err := Digest(algorithm, "abc")
		if err != nil {
			t.Fatalf("digest %s: %v", algorithm, err)
		}
		if got != want {
			t.Fatalf("digest %s: expected %s, got %s", algorithm, want, got)
		}
	}
	if _, err := Digest("crc32", "abc"); !core.IsConfigurationError(err) {
		t.Fatalf("expected configuration error for unsupported algorithm, got %v", err)
	}
}

func TestEngine_URLSignatureVector(t *testing.T) {
	engine := NewEngine(nil)
	got, err := engine.URL(URLSignatureRequest{
		URL:         "http://mp.weixin.qq.com?params=value",
		NonceStr:    "Wm3WZYTPz0wzccnW",
		Timestamp:   "1414587457",
		JSAPITicket: testJSAPITicket,
	})
	if err != nil {
		t.Fatalf("url signature: %v", err)
	}
	if got.Signature != "0f9de62fce790f9a083d5c99e95740ceb90c27ed" {
		t.Fatalf("unexpected signature %s", got.Signature)
	}
	if got.NonceStr != "Wm3WZYTPz0wzccnW" || got.Timestamp != "1414587457" || got.URL != "http://mp.weixin.qq.com?params=value" {
		t.Fatalf("expected inputs to be echoed, got %#v", got)
	}
}

func TestEngine_URLSignatureIgnoresFragment(t *testing.T) {
	engine := NewEngine(nil)
	req := URLSignatureRequest{
		URL:         "http://mp.weixin.qq.com?params=value#section",
		NonceStr:    "Wm3WZYTPz0wzccnW",
		Timestamp:   "1414587457",
		JSAPITicket: testJSAPITicket,
	}
	got, err := engine.URL(req)
	if err != nil {
		t.Fatalf("url signature: %v", err)
	}
	if got.Signature != "0f9de62fce790f9a083d5c99e95740ceb90c27ed" {
		t.Fatalf("expected fragment to be ignored, got %s", got.Signature)
	}
	if strings.Contains(got.URL, "#") {
		t.Fatalf("expected normalized url, got %q", got.URL)
	}
}

func TestEngine_URLSignatureDefaults(t *testing.T) {
	clk := clock.NewMock()
	clk.Set(time.Unix(1414587457, 0))
	store := credentials.NewStore(clk)
	store.Set(credentials.KindJSAPITicket, testJSAPITicket, time.Hour)

	engine := NewEngine(store, WithClock(clk), WithNonce(func() string { return "Wm3WZYTPz0wzccnW" }))
	got, err := engine.URL(URLSignatureRequest{URL: "http://mp.weixin.qq.com?params=value"})
	if err != nil {
		t.Fatalf("url signature: %v", err)
	}
	if got.Timestamp != "1414587457" || got.NonceStr != "Wm3WZYTPz0wzccnW" {
		t.Fatalf("expected defaults from clock and nonce source, got %#v", got)
	}
	if got.Signature != "0f9de62fce790f9a083d5c99e95740ceb90c27ed" {
		t.Fatalf("expected cached ticket to be used, got %s", got.Signature)
	}
}

func TestEngine_URLSignatureRequiresURL(t *testing.T) {
	if _, err := NewEngine(nil).URL(URLSignatureRequest{URL: "  "}); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestEngine_CardSignatureVector(t *testing.T) {
	engine := NewEngine(nil)
	got, err := engine.Card(CardSignatureRequest{
		APITicket: "ojZ8YtyVyr30HheH3CM73y7h4jJE",
		Code:      "1434008071",
		Timestamp: "1404896688",
		CardID:    "pjZ8Yt1XGILfi-FUsewpnnolGgZk",
		NonceStr:  "123",
	})
	if err != nil {
		t.Fatalf("card signature: %v", err)
	}
	if got.Signature != "f137ab68b7f8112d20ee528ab6074564e2796250" {
		t.Fatalf("unexpected signature %s", got.Signature)
	}
	if got.Code != "1434008071" || got.OpenID != "" || got.NonceStr != "123" || got.Timestamp != "1404896688" {
		t.Fatalf("unexpected echoed fields %#v", got)
	}
}

func TestEngine_CardSignatureEmptyTicketStillSigns(t *testing.T) {
	engine := NewEngine(credentials.NewStore(clock.NewMock()), WithNonce(func() string { return "n" }))
	got, err := engine.Card(CardSignatureRequest{Timestamp: "1"})
	if err != nil {
		t.Fatalf("card signature: %v", err)
	}
	if got.Signature != SHA1("1n") {
		t.Fatalf("expected signature over empty ticket, got %s", got.Signature)
	}
}

func TestEngine_CardSignatureSignType(t *testing.T) {
	engine := NewEngine(nil)
	got, err := engine.Card(CardSignatureRequest{APITicket: "t", Timestamp: "1", NonceStr: "n", SignType: "SHA256"})
	if err != nil {
		t.Fatalf("card signature: %v", err)
	}
	want, _ := Digest(AlgorithmSHA256, SortedJoin("t", "1", "n"))
	if got.Signature != want {
		t.Fatalf("expected sha256 signature, got %s", got.Signature)
	}
	if _, err := engine.Card(CardSignatureRequest{SignType: "HMAC"}); !core.IsConfigurationError(err) {
		t.Fatalf("expected configuration error for unknown sign type, got %v", err)
	}
}

func TestCardExt_String(t *testing.T) {
	ext := NewCardExt(CardSignature{Code: "c", Timestamp: "1", NonceStr: "n", Signature: "s"})
	ext.OuterStr = "menu"
	got, err := ext.String()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"code":"c","timestamp":"1","nonce_str":"n","outer_str":"menu","signature":"s"}`
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		" http://a/b?c=d#e ": "http://a/b?c=d",
		"http://a/#":         "http://a/",
		"http://a":           "http://a",
	}
	for in, want := range cases {
		if got := NormalizeURL(in); got != want {
			t.Fatalf("NormalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}
