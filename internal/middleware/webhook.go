// Package middleware provides HTTP middleware shared across routers.
package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
)

// WebhookHMAC returns middleware that validates HMAC-SHA256 webhook
// signatures. The secret is resolved per request, so hot-reloaded
// secrets take effect without a restart; an empty secret disables
// verification (local development). The header parameter names the
// HTTP header carrying the signature; GitHub uses "X-Hub-Signature-256".
func WebhookHMAC(secret func() string, header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := secret()
			if s != "" && !checkSignature(w, r, s, header) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// checkSignature verifies the request body against the signature
// header, replaying the body for the downstream handler. On failure it
// writes the error response and returns false.
func checkSignature(w http.ResponseWriter, r *http.Request, secret, header string) bool {
	sig := r.Header.Get(header)
	if sig == "" {
		http.Error(w, "missing webhook signature", http.StatusUnauthorized)
		return false
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return false
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if !verifyHMAC(body, sig, secret) {
		http.Error(w, "invalid webhook signature", http.StatusForbidden)
		return false
	}
	return true
}

// verifyHMAC checks an HMAC-SHA256 signature. Supports both raw hex and
// "sha256=<hex>" prefix formats (GitHub style).
func verifyHMAC(payload []byte, signature, secret string) bool {
	sig := strings.TrimPrefix(signature, "sha256=")
	sigBytes, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := mac.Sum(nil)

	return hmac.Equal(sigBytes, expected)
}
