package webhooks

import (
	"net/http"

	"github.com/goliatone/go-wxmp/core"
	glog "github.com/goliatone/go-logger/glog"
)

// HandshakeHandler answers the GET request the platform sends when the
// server URL is configured, writing the VerifyToken result as plain text.
func HandshakeHandler(verifier Verifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		result := verifier.VerifyToken(
			query.Get("signature"),
			query.Get("echostr"),
			query.Get("timestamp"),
			query.Get("nonce"),
		)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if result == VerifyFailed {
			w.WriteHeader(http.StatusForbidden)
		}
		_, _ = w.Write([]byte(result))
	})
}

// RequireSignature rejects requests whose signature query parameters do not
// verify. A verifier without a token fails closed with 500.
func RequireSignature(verifier Verifier, logger core.Logger) func(http.Handler) http.Handler {
	logger = glog.Ensure(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			ok, err := verifier.CheckSignature(query.Get("signature"), query.Get("timestamp"), query.Get("nonce"))
			if err != nil {
				logger.Error("webhook verification misconfigured", "error", err.Error())
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if !ok {
				logger.Warn("webhook signature rejected", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
