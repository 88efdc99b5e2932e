package models

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Inquiry kinds
const (
	InquiryKindContact = "contact"
	InquiryKindPrint   = "print-inquiry"
)

// Inquiry is a contact-form or print-inquiry submission. Submissions are
// archived locally so the admin panel can list them even when outbound mail
// is simulated.
type Inquiry struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// InquiryForm is the submitted payload before validation
type InquiryForm struct {
	Kind    string `json:"kind,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate returns field-level validation problems, empty when the form is
// acceptable
func (f *InquiryForm) Validate() map[string]string {
	problems := make(map[string]string)

	if len(strings.TrimSpace(f.Name)) < 2 {
		problems["name"] = "Name must be at least 2 characters"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(f.Email)); err != nil {
		problems["email"] = "Please enter a valid email address"
	}
	if len(strings.TrimSpace(f.Subject)) < 2 {
		problems["subject"] = "Subject must be at least 2 characters"
	}
	if len(strings.TrimSpace(f.Message)) < 10 {
		problems["message"] = "Message must be at least 10 characters"
	}

	return problems
}

// NewInquiry builds an Inquiry from a validated form. Kind defaults to a
// plain contact message.
func NewInquiry(form *InquiryForm) *Inquiry {
	kind := form.Kind
	if kind != InquiryKindPrint {
		kind = InquiryKindContact
	}

	return &Inquiry{
		ID:         uuid.New().String(),
		Kind:       kind,
		Name:       strings.TrimSpace(form.Name),
		Email:      strings.TrimSpace(form.Email),
		Subject:    strings.TrimSpace(form.Subject),
		Message:    strings.TrimSpace(form.Message),
		ReceivedAt: time.Now().UTC(),
	}
}
