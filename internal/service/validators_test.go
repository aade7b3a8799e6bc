package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benx421/payment-gateway/escrow/internal/models"
)

func TestValidateReason(t *testing.T) {
	tests := []struct {
		name    string
		reason  string
		want    string
		wantErr bool
	}{
		{"trimmed", "  out of stock\n", "out of stock", false},
		{"empty", "", "", true},
		{"whitespace only", " \t ", "", true},
		{"at limit", strings.Repeat("é", 500), strings.Repeat("é", 500), false},
		{"over limit", strings.Repeat("a", 501), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateReason(tt.reason)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateActor(t *testing.T) {
	assert.NoError(t, ValidateActor(models.Actor{ID: uuid.New(), Role: models.RoleProvider}))
	assert.Error(t, ValidateActor(models.Actor{Role: models.RoleClient}))
	assert.Error(t, ValidateActor(models.Actor{ID: uuid.New(), Role: "owner"}))
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, 50, NormalizeLimit(0))
	assert.Equal(t, 50, NormalizeLimit(-3))
	assert.Equal(t, 20, NormalizeLimit(20))
	assert.Equal(t, 500, NormalizeLimit(10000))
}

func TestValidateCaptureID(t *testing.T) {
	assert.NoError(t, validateCaptureID(nil))
	assert.NoError(t, validateCaptureID(strPtr("CAP-123")))
	assert.Error(t, validateCaptureID(strPtr("  ")))
	assert.Error(t, validateCaptureID(strPtr(strings.Repeat("x", 129))))
}
