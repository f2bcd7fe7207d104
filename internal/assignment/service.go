package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/giftexchange/internal/exchange"
)

// MinParticipants mirrors the lifecycle threshold for generation
const MinParticipants = exchange.MinParticipants

// Service generates and serves secret assignments
type Service struct {
	store exchange.Store
	src   Source
	now   func() time.Time
}

// NewService creates a new assignment service backed by the exchange store
func NewService(store exchange.Store) *Service {
	return &Service{
		store: store,
		src:   globalSource{},
		now:   time.Now,
	}
}

func (s *Service) getExchange(ctx context.Context, exchangeID string) (*exchange.Exchange, error) {
	if !exchange.ValidID(exchangeID) {
		return nil, exchange.ErrExchangeNotFound
	}
	ex, err := s.store.GetExchange(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if ex == nil {
		return nil, exchange.ErrExchangeNotFound
	}
	return ex, nil
}

// Generate produces the one and only assignment set for an exchange.
// A second call, concurrent or not, fails with exchange.ErrAlreadyGenerated.
func (s *Service) Generate(ctx context.Context, exchangeID string) ([]*exchange.Assignment, error) {
	ex, err := s.getExchange(ctx, exchangeID)
	if err != nil {
		return nil, err
	}

	participants, err := s.store.ListParticipants(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if len(participants) < MinParticipants {
		return nil, exchange.ErrInsufficientParticipants
	}
	if ex.AssignmentsGenerated {
		return nil, exchange.ErrAlreadyGenerated
	}

	return s.store.GenerateAssignments(ctx, exchangeID, s.pair(exchangeID))
}

// pair runs against the roster the store has locked, which may differ from
// the one read in Generate if admissions landed in between.
func (s *Service) pair(exchangeID string) exchange.PairFunc {
	return func(givers []int64) ([]*exchange.Assignment, error) {
		if len(givers) < MinParticipants {
			return nil, exchange.ErrInsufficientParticipants
		}

		recipients, err := Derange(givers, s.src)
		if err != nil {
			return nil, err
		}

		createdAt := s.now().UTC()
		assignments := make([]*exchange.Assignment, len(givers))
		for i, giver := range givers {
			assignments[i] = &exchange.Assignment{
				ID:          uuid.NewString(),
				ExchangeID:  exchangeID,
				GiverID:     giver,
				RecipientID: recipients[i],
				CreatedAt:   createdAt,
			}
		}
		return assignments, nil
	}
}

// AssignmentForGiver returns the assignment held by userID, or nil if there is none
func (s *Service) AssignmentForGiver(ctx context.Context, exchangeID string, userID int64) (*exchange.Assignment, error) {
	ex, err := s.getExchange(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if !ex.AssignmentsGenerated {
		return nil, nil
	}

	return s.store.GetAssignmentByGiver(ctx, exchangeID, userID)
}

// Summary returns assignment counts without revealing any pairing
func (s *Service) Summary(ctx context.Context, exchangeID string) (*Summary, error) {
	ex, err := s.getExchange(ctx, exchangeID)
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountAssignments(ctx, exchangeID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		ExchangeID:           exchangeID,
		AssignmentsGenerated: ex.AssignmentsGenerated,
		AssignmentCount:      count,
	}, nil
}
