package exchange

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

var _ Store = (*Repository)(nil)

// SQLSTATE codes the repository translates into domain errors
const (
	pqUniqueViolation = "23505"
	pqInvalidTextRepr = "22P02"
)

// Repository handles exchange data persistence in PostgreSQL
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new exchange repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// withTx runs fn inside a transaction, committing on success and rolling back otherwise
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// lockOpenExchange takes a row lock on the exchange and fails if it is missing or assigned
func lockOpenExchange(ctx context.Context, tx *sql.Tx, exchangeID string) error {
	var generated bool
	err := tx.QueryRowContext(ctx,
		`SELECT assignments_generated FROM exchanges WHERE id = $1 FOR UPDATE`,
		exchangeID,
	).Scan(&generated)
	if err != nil {
		if err == sql.ErrNoRows || isMalformedID(err) {
			return ErrExchangeNotFound
		}
		return fmt.Errorf("failed to lock exchange: %w", err)
	}
	if generated {
		return ErrExchangeClosed
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return hasCode(err, pqUniqueViolation)
}

// isMalformedID reports a value the uuid column could not parse
func isMalformedID(err error) bool {
	return hasCode(err, pqInvalidTextRepr)
}

func hasCode(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

// CreateExchange inserts a new exchange and its creator's participant row
func (r *Repository) CreateExchange(ctx context.Context, ex *Exchange) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO exchanges (id, name, gift_budget, created_by, assignments_generated, created_at)
			VALUES ($1, $2, $3, $4, FALSE, $5)
		`, ex.ID, ex.Name, ex.GiftBudget, ex.CreatedBy, ex.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create exchange: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO exchange_participants (exchange_id, user_id, joined_at)
			VALUES ($1, $2, $3)
		`, ex.ID, ex.CreatedBy, ex.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to enroll creator: %w", err)
		}
		return nil
	})
}

// GetExchange retrieves an exchange by its ID
func (r *Repository) GetExchange(ctx context.Context, id string) (*Exchange, error) {
	query := `
		SELECT id, name, gift_budget, created_by, assignments_generated, created_at
		FROM exchanges
		WHERE id = $1
	`

	ex := &Exchange{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ex.ID,
		&ex.Name,
		&ex.GiftBudget,
		&ex.CreatedBy,
		&ex.AssignmentsGenerated,
		&ex.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows || isMalformedID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exchange: %w", err)
	}

	return ex, nil
}

// ListExchangesByUser retrieves the exchanges a user participates in
func (r *Repository) ListExchangesByUser(ctx context.Context, userID int64, limit, offset int) ([]*Exchange, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM exchange_participants WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count exchanges: %w", err)
	}

	query := `
		SELECT e.id, e.name, e.gift_budget, e.created_by, e.assignments_generated, e.created_at
		FROM exchanges e
		JOIN exchange_participants p ON e.id = p.exchange_id
		WHERE p.user_id = $1
		ORDER BY e.created_at DESC, e.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list exchanges: %w", err)
	}
	defer rows.Close()

	exchanges := []*Exchange{}
	for rows.Next() {
		ex := &Exchange{}
		if err := rows.Scan(
			&ex.ID,
			&ex.Name,
			&ex.GiftBudget,
			&ex.CreatedBy,
			&ex.AssignmentsGenerated,
			&ex.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan exchange: %w", err)
		}
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list exchanges: %w", err)
	}

	return exchanges, total, nil
}

// DeleteExchange removes an exchange; foreign keys cascade to its records
func (r *Repository) DeleteExchange(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM exchanges WHERE id = $1`, id)
	if err != nil {
		if isMalformedID(err) {
			return ErrExchangeNotFound
		}
		return fmt.Errorf("failed to delete exchange: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrExchangeNotFound
	}

	return nil
}

// ListParticipants retrieves the roster in join order
func (r *Repository) ListParticipants(ctx context.Context, exchangeID string) ([]*Participant, error) {
	return listParticipants(ctx, r.db, exchangeID)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listParticipants(ctx context.Context, q queryer, exchangeID string) ([]*Participant, error) {
	query := `
		SELECT exchange_id, user_id, joined_at
		FROM exchange_participants
		WHERE exchange_id = $1
		ORDER BY joined_at, user_id
	`

	rows, err := q.QueryContext(ctx, query, exchangeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	participants := []*Participant{}
	for rows.Next() {
		p := &Participant{}
		if err := rows.Scan(&p.ExchangeID, &p.UserID, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	return participants, nil
}

// GetParticipant retrieves one roster entry
func (r *Repository) GetParticipant(ctx context.Context, exchangeID string, userID int64) (*Participant, error) {
	query := `
		SELECT exchange_id, user_id, joined_at
		FROM exchange_participants
		WHERE exchange_id = $1 AND user_id = $2
	`

	p := &Participant{}
	err := r.db.QueryRowContext(ctx, query, exchangeID, userID).Scan(&p.ExchangeID, &p.UserID, &p.JoinedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	return p, nil
}

// RemoveParticipant deletes a roster entry while the exchange is open
func (r *Repository) RemoveParticipant(ctx context.Context, exchangeID string, userID int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockOpenExchange(ctx, tx, exchangeID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM exchange_participants WHERE exchange_id = $1 AND user_id = $2`,
			exchangeID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to remove participant: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrNotParticipant
		}
		return nil
	})
}

// ListPendingRequests retrieves open join requests, oldest first
func (r *Repository) ListPendingRequests(ctx context.Context, exchangeID string) ([]*PendingRequest, error) {
	query := `
		SELECT exchange_id, user_id, requested_at
		FROM exchange_pending_requests
		WHERE exchange_id = $1
		ORDER BY requested_at, user_id
	`

	rows, err := r.db.QueryContext(ctx, query, exchangeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending requests: %w", err)
	}
	defer rows.Close()

	requests := []*PendingRequest{}
	for rows.Next() {
		req := &PendingRequest{}
		if err := rows.Scan(&req.ExchangeID, &req.UserID, &req.RequestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get pending requests: %w", err)
	}

	return requests, nil
}

// GetPendingRequest retrieves the open request for (exchange, user)
func (r *Repository) GetPendingRequest(ctx context.Context, exchangeID string, userID int64) (*PendingRequest, error) {
	query := `
		SELECT exchange_id, user_id, requested_at
		FROM exchange_pending_requests
		WHERE exchange_id = $1 AND user_id = $2
	`

	req := &PendingRequest{}
	err := r.db.QueryRowContext(ctx, query, exchangeID, userID).Scan(&req.ExchangeID, &req.UserID, &req.RequestedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pending request: %w", err)
	}

	return req, nil
}

// CreatePendingRequest records a join request; duplicates are rejected by the primary key
func (r *Repository) CreatePendingRequest(ctx context.Context, req *PendingRequest) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockOpenExchange(ctx, tx, req.ExchangeID); err != nil {
			return err
		}

		var isParticipant bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM exchange_participants WHERE exchange_id = $1 AND user_id = $2)`,
			req.ExchangeID, req.UserID,
		).Scan(&isParticipant)
		if err != nil {
			return fmt.Errorf("failed to check participant: %w", err)
		}
		if isParticipant {
			return ErrAlreadyParticipant
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO exchange_pending_requests (exchange_id, user_id, requested_at)
			VALUES ($1, $2, $3)
		`, req.ExchangeID, req.UserID, req.RequestedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyPending
			}
			return fmt.Errorf("failed to create pending request: %w", err)
		}
		return nil
	})
}

// ApprovePendingRequest deletes the request and inserts the participant in one transaction
func (r *Repository) ApprovePendingRequest(ctx context.Context, exchangeID string, userID int64, joinedAt time.Time) (*Participant, error) {
	var p *Participant
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockOpenExchange(ctx, tx, exchangeID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM exchange_pending_requests WHERE exchange_id = $1 AND user_id = $2`,
			exchangeID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete pending request: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrNoPendingRequest
		}

		p = &Participant{}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO exchange_participants (exchange_id, user_id, joined_at)
			VALUES ($1, $2, $3)
			RETURNING exchange_id, user_id, joined_at
		`, exchangeID, userID, joinedAt).Scan(&p.ExchangeID, &p.UserID, &p.JoinedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyParticipant
			}
			return fmt.Errorf("failed to add participant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePendingRequest removes an open request while the exchange is open
func (r *Repository) DeletePendingRequest(ctx context.Context, exchangeID string, userID int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockOpenExchange(ctx, tx, exchangeID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM exchange_pending_requests WHERE exchange_id = $1 AND user_id = $2`,
			exchangeID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete pending request: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrNoPendingRequest
		}
		return nil
	})
}

// GenerateAssignments flips the flag with a conditional update, which also
// locks the row against admission changes, then stores the pairing.
func (r *Repository) GenerateAssignments(ctx context.Context, exchangeID string, pair PairFunc) ([]*Assignment, error) {
	var created []*Assignment
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE exchanges
			SET assignments_generated = TRUE
			WHERE id = $1 AND assignments_generated = FALSE
		`, exchangeID)
		if err != nil {
			if isMalformedID(err) {
				return ErrExchangeNotFound
			}
			return fmt.Errorf("failed to mark exchange assigned: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM exchanges WHERE id = $1)`, exchangeID,
			).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check exchange: %w", err)
			}
			if !exists {
				return ErrExchangeNotFound
			}
			return ErrAlreadyGenerated
		}

		roster, err := listParticipants(ctx, tx, exchangeID)
		if err != nil {
			return err
		}
		ids := make([]int64, len(roster))
		for i, p := range roster {
			ids[i] = p.UserID
		}

		created, err = pair(ids)
		if err != nil {
			return err
		}

		for _, a := range created {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO assignments (id, exchange_id, giver_id, recipient_id, created_at)
				VALUES ($1, $2, $3, $4, $5)
			`, a.ID, a.ExchangeID, a.GiverID, a.RecipientID, a.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to create assignment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListAssignments retrieves every assignment of an exchange
func (r *Repository) ListAssignments(ctx context.Context, exchangeID string) ([]*Assignment, error) {
	query := `
		SELECT id, exchange_id, giver_id, recipient_id, created_at
		FROM assignments
		WHERE exchange_id = $1
		ORDER BY giver_id
	`

	rows, err := r.db.QueryContext(ctx, query, exchangeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	assignments := []*Assignment{}
	for rows.Next() {
		a := &Assignment{}
		if err := rows.Scan(&a.ID, &a.ExchangeID, &a.GiverID, &a.RecipientID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	return assignments, nil
}

// GetAssignmentByGiver retrieves the single assignment a giver holds
func (r *Repository) GetAssignmentByGiver(ctx context.Context, exchangeID string, giverID int64) (*Assignment, error) {
	query := `
		SELECT id, exchange_id, giver_id, recipient_id, created_at
		FROM assignments
		WHERE exchange_id = $1 AND giver_id = $2
	`

	a := &Assignment{}
	err := r.db.QueryRowContext(ctx, query, exchangeID, giverID).Scan(
		&a.ID,
		&a.ExchangeID,
		&a.GiverID,
		&a.RecipientID,
		&a.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return a, nil
}

// CountAssignments returns how many assignments an exchange holds
func (r *Repository) CountAssignments(ctx context.Context, exchangeID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM assignments WHERE exchange_id = $1`
	if err := r.db.QueryRowContext(ctx, query, exchangeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return count, nil
}
