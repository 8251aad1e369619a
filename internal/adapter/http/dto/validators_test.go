package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func TestWalletIDValidation(t *testing.T) {
	tests := []struct {
		name     string
		walletID string
		wantErr  bool
	}{
		{"valid generated id", "WP-ABC234", false},
		{"valid long id", "WP-ABCDEF234567", false},
		{"missing prefix", "ABC234", true},
		{"lowercase body", "WP-abc234", true},
		{"too short", "WP-AB", true},
		{"embedded space", "WP-ABC 234", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := SyncRequest{WalletID: tt.walletID, Name: "Amadou", Phone: "+22462000"}
			err := binding.Validator.ValidateStruct(&req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateWalletRequest_EmptyWalletIDAllowed(t *testing.T) {
	req := CreateWalletRequest{Name: "Fatou Barry", Phone: "+22462000"}
	assert.NoError(t, binding.Validator.ValidateStruct(&req))
}

func TestInquiryStatusRequest_OneOf(t *testing.T) {
	assert.NoError(t, binding.Validator.ValidateStruct(&InquiryStatusRequest{Status: "Active"}))
	assert.NoError(t, binding.Validator.ValidateStruct(&InquiryStatusRequest{Status: "Pending"}))
	assert.Error(t, binding.Validator.ValidateStruct(&InquiryStatusRequest{Status: "Closed"}))
}

func TestSanitizeStruct(t *testing.T) {
	phone := "  +224 620 <x>  "
	req := UpdateWalletRequest{Phone: &phone}
	SanitizeStruct(&req)
	assert.Equal(t, "+224 620 &lt;x&gt;", *req.Phone)

	sync := SyncRequest{WalletID: " WP-ABC234 ", Name: "<b>Amadou</b>", Phone: "x"}
	SanitizeStruct(&sync)
	assert.Equal(t, "WP-ABC234", sync.WalletID)
	assert.Equal(t, "&lt;b&gt;Amadou&lt;/b&gt;", sync.Name)
}
