package exchange

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/giftexchange/pkg/validate"
)

// MinParticipants is the smallest roster assignments can be generated for.
// Two people would be forced into a mutual swap.
const MinParticipants = 3

// Common errors
var (
	ErrInvalidInput               = errors.New("invalid input")
	ErrExchangeNotFound           = errors.New("exchange not found")
	ErrUserNotFound               = errors.New("user not found")
	ErrAlreadyParticipant         = errors.New("user is already a participant of this exchange")
	ErrAlreadyPending             = errors.New("user already has a pending request for this exchange")
	ErrNoPendingRequest           = errors.New("no pending request for this user")
	ErrNotParticipant             = errors.New("user is not a participant of this exchange")
	ErrExchangeClosed             = errors.New("assignments have been generated; the exchange is closed")
	ErrInsufficientParticipants   = errors.New("at least 3 participants are required to generate assignments")
	ErrAlreadyGenerated           = errors.New("assignments have already been generated for this exchange")
	ErrAssignmentGenerationFailed = errors.New("failed to generate a valid assignment set")
	ErrNotOrganizer               = errors.New("only the organizer can perform this action")

	ErrCannotRemoveOrganizer = fmt.Errorf("%w: the organizer cannot be removed from their exchange", ErrInvalidInput)
)

// UserDirectory answers whether a user id refers to a known user
type UserDirectory interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

// Service owns the exchange lifecycle and the admission workflow
type Service struct {
	store    Store
	users    UserDirectory
	validate *validate.Validator
	now      func() time.Time
}

// NewService creates a new exchange service
func NewService(store Store, users UserDirectory) *Service {
	return &Service{
		store:    store,
		users:    users,
		validate: validate.New(),
		now:      time.Now,
	}
}

func (s *Service) validateRequest(req any) error {
	if msg := s.validate.Struct(req); msg != "" {
		return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
	}
	return nil
}

func (s *Service) requireUser(ctx context.Context, userID int64) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// ValidID reports whether id can name an exchange. Exchange ids are UUIDs, and
// anything else is treated as an unknown exchange before reaching the store.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Service) getExchange(ctx context.Context, id string) (*Exchange, error) {
	if !ValidID(id) {
		return nil, ErrExchangeNotFound
	}
	ex, err := s.store.GetExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	if ex == nil {
		return nil, ErrExchangeNotFound
	}
	return ex, nil
}

func (s *Service) snapshot(ctx context.Context, ex *Exchange) (*Snapshot, error) {
	participants, err := s.store.ListParticipants(ctx, ex.ID)
	if err != nil {
		return nil, err
	}
	pending, err := s.store.ListPendingRequests(ctx, ex.ID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Exchange: ex, Participants: participants, PendingRequests: pending}, nil
}

func (s *Service) reload(ctx context.Context, id string) (*Snapshot, error) {
	ex, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, ex)
}

// Create creates a new exchange and enrolls the creator as its first participant
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateExchangeRequest) (*Snapshot, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, creatorID); err != nil {
		return nil, err
	}

	ex := &Exchange{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		GiftBudget: strings.TrimSpace(req.GiftBudget),
		CreatedBy:  creatorID,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.CreateExchange(ctx, ex); err != nil {
		return nil, err
	}

	return s.snapshot(ctx, ex)
}

// Get retrieves an exchange with its participants and pending requests
func (s *Service) Get(ctx context.Context, id string) (*Snapshot, error) {
	return s.reload(ctx, id)
}

// ListForUser retrieves the exchanges a user participates in
func (s *Service) ListForUser(ctx context.Context, userID int64, page, perPage int) ([]*Exchange, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.store.ListExchangesByUser(ctx, userID, perPage, offset)
}

// Delete removes an exchange together with everything recorded under it
func (s *Service) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrExchangeNotFound
	}
	return s.store.DeleteExchange(ctx, id)
}

// RequireOrganizer fails unless actorID created the exchange
func (s *Service) RequireOrganizer(ctx context.Context, id string, actorID int64) (*Exchange, error) {
	ex, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	if ex.CreatedBy != actorID {
		return nil, ErrNotOrganizer
	}
	return ex, nil
}

// RequestJoin records a user's request to join an open exchange
func (s *Service) RequestJoin(ctx context.Context, id string, userID int64) (*Snapshot, error) {
	ex, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if ex.AssignmentsGenerated {
		return nil, ErrExchangeClosed
	}
	if ex.CreatedBy == userID {
		return nil, ErrAlreadyParticipant
	}

	// The store repeats these checks atomically.
	existing, err := s.store.GetParticipant(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyParticipant
	}
	pending, err := s.store.GetPendingRequest(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrAlreadyPending
	}

	err = s.store.CreatePendingRequest(ctx, &PendingRequest{
		ExchangeID:  id,
		UserID:      userID,
		RequestedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, id)
}

// ApprovePending turns a pending request into a participant
func (s *Service) ApprovePending(ctx context.Context, id string, userID int64) (*Snapshot, error) {
	ex, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	if ex.AssignmentsGenerated {
		return nil, ErrExchangeClosed
	}

	if _, err := s.store.ApprovePendingRequest(ctx, id, userID, s.now().UTC()); err != nil {
		return nil, err
	}

	return s.reload(ctx, id)
}

// DeclinePending discards a pending request. Declining again reports ErrNoPendingRequest.
func (s *Service) DeclinePending(ctx context.Context, id string, userID int64) (*Snapshot, error) {
	ex, err := s.getExchange(ctx, id)
	if err != nil {
		return nil, err
	}
	if ex.AssignmentsGenerated {
		return nil, ErrExchangeClosed
	}

	if err := s.store.DeletePendingRequest(ctx, id, userID); err != nil {
		return nil, err
	}

	return s.reload(ctx, id)
}

// RemoveParticipant drops a user from the roster while the exchange is open
func (s *Service) RemoveParticipant(ctx context.Context, id string, userID int64) error {
	ex, err := s.getExchange(ctx, id)
	if err != nil {
		return err
	}
	if ex.AssignmentsGenerated {
		return ErrExchangeClosed
	}
	if ex.CreatedBy == userID {
		return ErrCannotRemoveOrganizer
	}

	return s.store.RemoveParticipant(ctx, id, userID)
}

// CanGenerate reports whether the exchange is open with enough participants
func (s *Service) CanGenerate(ctx context.Context, id string) (bool, error) {
	ex, err := s.getExchange(ctx, id)
	if err != nil {
		return false, err
	}
	if ex.Status() != StatusOpen {
		return false, nil
	}

	participants, err := s.store.ListParticipants(ctx, id)
	if err != nil {
		return false, err
	}
	return len(participants) >= MinParticipants, nil
}
