package pagination_test

import (
	"testing"
	"time"

	"github.com/SterilFlow/cssd_tracking_app/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 6, 3, 10, 30, 0, 123456789, time.UTC)
	id := "txn-42"

	token := pagination.EncodeToken(createdAt, id)
	gotTime, gotID, err := pagination.DecodeToken(token)

	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, id, gotID)
}

func TestDecodeToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"missing separator", "bm8tc2VwYXJhdG9y"}, // "no-separator"
		{"bad timestamp", "bm90LWEtdGltZXw0Mg=="}, // "not-a-time|42"
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := pagination.DecodeToken(tt.token)
			assert.Error(t, err)
		})
	}
}
