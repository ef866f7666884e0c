// SPDX-License-Identifier: GPL-3.0-only

package billing

import (
	"strings"
	"testing"
)

func TestVerifySignatureRoundTrip(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"id": "evt_1", "type": "subscription.updated"}`)

	signature := Sign(secret, body)
	if !VerifySignature(secret, body, signature) {
		t.Error("A freshly computed signature must verify")
	}
}

func TestVerifySignatureAcceptsSchemePrefix(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`payload`)

	signature := "sha256=" + Sign(secret, body)
	if !VerifySignature(secret, body, signature) {
		t.Error("Signature with sha256= prefix must verify")
	}
}

func TestVerifySignatureAcceptsUppercaseHex(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`payload`)

	signature := strings.ToUpper(Sign(secret, body))
	if !VerifySignature(secret, body, signature) {
		t.Error("Uppercase hex digest must verify")
	}
}

func TestVerifySignatureRejectsTamperedBody(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"plan": "free"}`)

	signature := Sign(secret, body)
	tampered := []byte(`{"plan": "enterprise"}`)
	if VerifySignature(secret, tampered, signature) {
		t.Error("Signature must not verify over a modified body")
	}
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	body := []byte(`payload`)
	signature := Sign("whsec_a", body)
	if VerifySignature("whsec_b", body, signature) {
		t.Error("Signature from a different secret must not verify")
	}
}

func TestVerifySignatureRejectsEmptyInputs(t *testing.T) {
	body := []byte(`payload`)
	if VerifySignature("", body, Sign("", body)) {
		t.Error("Empty secret must never verify")
	}
	if VerifySignature("whsec_test", body, "") {
		t.Error("Empty signature must never verify")
	}
}
