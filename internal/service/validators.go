package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/benx421/payment-gateway/escrow/internal/models"
)

const (
	maxReasonLength   = 500
	defaultListLimit  = 50
	maxListLimit      = 500
	maxCaptureIDBytes = 128
)

// ValidateReason trims and checks a free-text reason for reject or refund.
func ValidateReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", fmt.Errorf("reason is required")
	}
	if utf8.RuneCountInString(reason) > maxReasonLength {
		return "", fmt.Errorf("reason must be at most %d characters", maxReasonLength)
	}
	return reason, nil
}

// ValidateActor checks that an actor carries an identity and a known role.
func ValidateActor(actor models.Actor) error {
	if actor.ID == uuid.Nil {
		return fmt.Errorf("actor id is required")
	}
	if !actor.Role.Valid() {
		return fmt.Errorf("unknown actor role %q", actor.Role)
	}
	return nil
}

// NormalizeLimit applies the default page size and caps it.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func validateCaptureID(captureID *string) error {
	if captureID == nil {
		return nil
	}
	if strings.TrimSpace(*captureID) == "" {
		return fmt.Errorf("capture id cannot be blank")
	}
	if len(*captureID) > maxCaptureIDBytes {
		return fmt.Errorf("capture id must be at most %d bytes", maxCaptureIDBytes)
	}
	return nil
}
