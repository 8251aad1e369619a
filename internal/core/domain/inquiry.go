package domain

import (
	"time"

	"github.com/google/uuid"
)

// InquiryStatus is the lifecycle state of a booking inquiry.
type InquiryStatus string

const (
	InquiryStatusPending InquiryStatus = "Pending"
	InquiryStatusActive  InquiryStatus = "Active"
)

// Inquiry is the artifact created when a wallet holder submits the paid
// appointment-booking request. It references the wallet but carries no
// monetary effect: submission gates on balance, it does not debit it.
type Inquiry struct {
	ID        uuid.UUID     `json:"id"`
	WalletID  string        `json:"wallet_id"`
	Name      string        `json:"name"`
	Phone     string        `json:"phone"`
	Portal    string        `json:"portal"`
	Country   string        `json:"country"`
	Plan      string        `json:"plan"`
	Status    InquiryStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// PublicInquiry is the redacted feed entry: no wallet id, no phone.
type PublicInquiry struct {
	Country   string    `json:"country"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the redacted feed view of the inquiry.
func (i *Inquiry) Public() PublicInquiry {
	return PublicInquiry{
		Country:   i.Country,
		Plan:      i.Plan,
		Status:    string(i.Status),
		CreatedAt: i.CreatedAt,
	}
}
