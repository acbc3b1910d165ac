package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/wafam/salesbot/internal/domain"
)

// LeadRepository handles lead persistence. Uniqueness of phone and email
// is enforced inside a single transaction so that two near-simultaneous
// additions of the same contact cannot both slip past the check.
type LeadRepository struct {
	db *DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Add persists a new lead and reports whether it was stored. A lead
// sharing a non-empty phone or a non-empty email with an existing one
// is rejected without a write. Product defaults to "nieznany".
func (r *LeadRepository) Add(phone, email, product, sessionID string) (bool, error) {
	if phone == "" && email == "" {
		return false, nil
	}
	if product == "" {
		product = "nieznany"
	}

	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var dupes int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM leads
		WHERE (? != '' AND phone = ?) OR (? != '' AND email = ?)
	`, phone, phone, email, email).Scan(&dupes)
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicate lead: %w", err)
	}
	if dupes > 0 {
		return false, nil
	}

	_, err = tx.Exec(`
		INSERT INTO leads (phone, email, product, session_id, created_at, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, nullable(phone), nullable(email), product, sessionID,
		time.Now().Format("2006-01-02 15:04"), domain.LeadStatusNew)
	if err != nil {
		return false, fmt.Errorf("failed to insert lead: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit lead: %w", err)
	}

	return true, nil
}

// List retrieves all leads in insertion order, optionally filtered by
// exact status match.
func (r *LeadRepository) List(status string) ([]*domain.Lead, error) {
	q := `SELECT id, phone, email, product, session_id, created_at, status FROM leads`
	args := []any{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY id ASC`

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*domain.Lead
	for rows.Next() {
		lead := &domain.Lead{}
		var phone, email, sessionID sql.NullString

		if err := rows.Scan(&lead.ID, &phone, &email, &lead.Product,
			&sessionID, &lead.CreatedAt, &lead.Status); err != nil {
			return nil, err
		}

		if phone.Valid {
			lead.Phone = &phone.String
		}
		if email.Valid {
			lead.Email = &email.String
		}
		lead.SessionID = sessionID.String
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

// Count returns the total number of stored leads.
func (r *LeadRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM leads`).Scan(&count)
	return count, err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
