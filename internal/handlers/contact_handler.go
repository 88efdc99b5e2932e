package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/barelands/server/internal/models"
	"github.com/barelands/server/internal/observability"
	"github.com/barelands/server/internal/repository"
	"github.com/barelands/server/internal/services"
)

// ContactHandler handles contact and print-inquiry submissions
type ContactHandler struct {
	inquiryRepo repository.InquiryRepo
	mailService *services.MailService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(inquiryRepo repository.InquiryRepo, mailService *services.MailService) *ContactHandler {
	return &ContactHandler{
		inquiryRepo: inquiryRepo,
		mailService: mailService,
	}
}

// Submit handles a contact form submission
// @Summary Submit a contact or print inquiry
// @Description Validate the form, archive the inquiry, and notify the site owner by email. Delivery is simulated when no SMTP password is configured.
// @Tags contact
// @Accept json
// @Produce json
// @Param form body models.InquiryForm true "Inquiry form"
// @Success 200 {object} models.ContactResponse
// @Failure 400 {object} models.ErrorResponse "Validation failure with per-field problems"
// @Failure 500 {object} models.ErrorResponse "Server error"
// @Router /api/contact [post]
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form models.InquiryForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, models.KindValidation, "Invalid JSON body.")
		return
	}

	if problems := form.Validate(); len(problems) > 0 {
		respondFieldErrors(w, "Please correct the highlighted fields.", problems)
		return
	}

	inquiry := models.NewInquiry(&form)

	// Archive first so a mail failure never loses the submission
	if err := h.inquiryRepo.Add(r.Context(), inquiry); err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to archive inquiry: %v", err)
		respondError(w, http.StatusInternalServerError, models.KindStorage, "Failed to record your message. Please try again.")
		return
	}

	if err := h.mailService.SendInquiryNotification(r.Context(), inquiry); err != nil {
		// The inquiry is archived; surface the mail problem but still ack
		observability.WithContext(r.Context()).WithField("inquiry_id", inquiry.ID).
			Errorf("Failed to send inquiry notification: %v", err)
	}

	respondJSON(w, http.StatusOK, models.ContactResponse{
		Success: true,
		Message: "Thank you for your message. I will get back to you soon.",
	})
}

// List handles stored-inquiry listing for the admin panel
// @Summary List archived inquiries
// @Description List archived contact and print inquiries, newest first. Admin only.
// @Tags contact
// @Produce json
// @Param limit query int false "Maximum number of inquiries to return (default 100)"
// @Success 200 {object} models.InquiryListResponse
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Server error"
// @Router /api/inquiries [get]
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	inquiries, err := h.inquiryRepo.GetAll(r.Context(), limit)
	if err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to list inquiries: %v", err)
		respondError(w, http.StatusInternalServerError, models.KindStorage, "Failed to load inquiries.")
		return
	}

	total, err := h.inquiryRepo.GetCount(r.Context())
	if err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to count inquiries: %v", err)
		respondError(w, http.StatusInternalServerError, models.KindStorage, "Failed to load inquiries.")
		return
	}

	respondJSON(w, http.StatusOK, models.InquiryListResponse{
		Success:   true,
		Inquiries: inquiries,
		Count:     len(inquiries),
		Total:     total,
	})
}
