package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benx421/payment-gateway/escrow/internal/models"
)

func TestServiceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ServiceError
		expected string
	}{
		{
			name:     "error without underlying cause",
			err:      forbidden("only the provider can approve"),
			expected: "only the provider can approve",
		},
		{
			name:     "error with underlying cause",
			err:      internalError("failed to load offer", errors.New("connection reset")),
			expected: "failed to load offer: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestServiceError_Unwrap(t *testing.T) {
	underlying := errors.New("gateway timeout")
	err := gatewayUnavailable("capture", underlying)

	assert.ErrorIs(t, err, underlying)
	assert.Equal(t, ErrCodeGatewayUnavailable, err.Code)
}

func TestStateErrorsCarryCurrentStatus(t *testing.T) {
	offerErr := invalidOfferState(&models.Offer{Status: models.OfferStatusApproved})
	assert.Equal(t, "APPROVED", offerErr.CurrentStatus)
	assert.Equal(t, ErrCodeInvalidOfferState, offerErr.Code)

	txErr := invalidTransactionState(&models.Transaction{Status: models.TransactionStatusCancelled}, "already cancelled")
	assert.Equal(t, "CANCELLED", txErr.CurrentStatus)

	conflict := stateConflict("funds already released", "COMPLETED")
	assert.Equal(t, ErrCodeStateConflict, conflict.Code)
	assert.Equal(t, "COMPLETED", conflict.CurrentStatus)
}
