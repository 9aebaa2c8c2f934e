package domain

import "time"

// VerificationResult is the verdict of the bill verification service for one
// evidence upload. It lives only in the short-lived verdict store.
type VerificationResult struct {
	IsAppropriate bool    `json:"is_appropriate"`
	BillTotal     float64 `json:"bill_total"`
	VendorName    string  `json:"vendor_name"`
	Reasoning     string  `json:"reasoning"`

	// Fallback is set when the verdict was synthesized by policy because the
	// verification service could not be reached or answered garbage.
	Fallback    bool      `json:"fallback"`
	EvidenceURL string    `json:"evidence_url"`
	VerifiedAt  time.Time `json:"verified_at"`
}
