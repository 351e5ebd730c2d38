// Package qr encodes and decodes the QR payload strings printed on unit
// labels and transaction slips. Payloads are plain "KIND:token" strings;
// image rendering is handled by clients.
package qr

import (
	"fmt"
	"regexp"
)

// PayloadKind discriminates what a scanned QR payload refers to.
type PayloadKind string

const (
	KindUnit        PayloadKind = "UNIT"
	KindTransaction PayloadKind = "TRANS"
)

// ErrInvalidPayload is returned for content that is not a recognized payload.
var ErrInvalidPayload = fmt.Errorf("invalid QR payload format")

var payloadPattern = regexp.MustCompile(`^(UNIT|TRANS):([0-9a-fA-F-]{36})$`)

// Parse maps a scanned content string to its (kind, token) pair.
func Parse(content string) (PayloadKind, string, error) {
	matches := payloadPattern.FindStringSubmatch(content)
	if matches == nil {
		return "", "", ErrInvalidPayload
	}
	return PayloadKind(matches[1]), matches[2], nil
}

// UnitContent builds the payload string for a unit QR token.
func UnitContent(token string) string {
	return fmt.Sprintf("%s:%s", KindUnit, token)
}

// TransactionContent builds the payload string for a transaction QR token.
func TransactionContent(token string) string {
	return fmt.Sprintf("%s:%s", KindTransaction, token)
}
