// SPDX-License-Identifier: GPL-3.0-only

package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the provider's HMAC over the raw webhook body.
const SignatureHeader = "X-Billing-Signature"

// VerifySignature checks the provider signature over the raw, unparsed
// request body. Any JSON decoding before this point breaks the contract.
// The comparison is constant-time.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	// Providers commonly prefix the hex digest with a scheme tag.
	signature = strings.TrimPrefix(signature, "sha256=")

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// Sign computes the signature a provider would send for body. Used by tests
// and the local webhook replay tooling.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
