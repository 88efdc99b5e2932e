package repository

import (
	"context"
	"database/sql"

	"github.com/barelands/server/internal/models"
)

// InquiryRepository handles contact/print-inquiry persistence
type InquiryRepository struct {
	db *sql.DB
}

// NewInquiryRepository creates a new InquiryRepository
func NewInquiryRepository(db *sql.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

// Add stores a new inquiry
func (r *InquiryRepository) Add(ctx context.Context, inquiry *models.Inquiry) error {
	query := `
		INSERT INTO inquiries (id, kind, name, email, subject, message, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		inquiry.ID,
		inquiry.Kind,
		inquiry.Name,
		inquiry.Email,
		inquiry.Subject,
		inquiry.Message,
		inquiry.ReceivedAt,
	)
	return err
}

// GetAll retrieves inquiries newest first, capped at limit (0 means no cap)
func (r *InquiryRepository) GetAll(ctx context.Context, limit int) ([]*models.Inquiry, error) {
	query := `
		SELECT id, kind, name, email, subject, message, received_at
		FROM inquiries ORDER BY received_at DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inquiries := []*models.Inquiry{}
	for rows.Next() {
		var inquiry models.Inquiry
		if err := rows.Scan(
			&inquiry.ID,
			&inquiry.Kind,
			&inquiry.Name,
			&inquiry.Email,
			&inquiry.Subject,
			&inquiry.Message,
			&inquiry.ReceivedAt,
		); err != nil {
			return nil, err
		}
		inquiries = append(inquiries, &inquiry)
	}

	return inquiries, rows.Err()
}

// GetCount returns the total number of stored inquiries
func (r *InquiryRepository) GetCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM inquiries").Scan(&count)
	return count, err
}
