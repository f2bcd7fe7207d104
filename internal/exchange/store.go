package exchange

import (
	"context"
	"time"
)

// PairFunc builds the assignment set for a roster that the store holds locked.
// Returning an error aborts generation and leaves the exchange open.
type PairFunc func(participantIDs []int64) ([]*Assignment, error)

// Store is the persistence contract for exchanges and their records.
//
// Getters return (nil, nil) when the record does not exist. Mutations that
// touch the roster check the exchange status inside the same atomic unit as
// the write, so they cannot interleave with GenerateAssignments.
type Store interface {
	// CreateExchange inserts the exchange and enrolls its creator as the first participant.
	CreateExchange(ctx context.Context, ex *Exchange) error
	GetExchange(ctx context.Context, id string) (*Exchange, error)
	ListExchangesByUser(ctx context.Context, userID int64, limit, offset int) ([]*Exchange, int, error)
	// DeleteExchange removes the exchange and cascades to every record under it.
	DeleteExchange(ctx context.Context, id string) error

	ListParticipants(ctx context.Context, exchangeID string) ([]*Participant, error)
	GetParticipant(ctx context.Context, exchangeID string, userID int64) (*Participant, error)
	RemoveParticipant(ctx context.Context, exchangeID string, userID int64) error

	ListPendingRequests(ctx context.Context, exchangeID string) ([]*PendingRequest, error)
	GetPendingRequest(ctx context.Context, exchangeID string, userID int64) (*PendingRequest, error)
	CreatePendingRequest(ctx context.Context, req *PendingRequest) error
	// ApprovePendingRequest moves the request into the roster atomically.
	ApprovePendingRequest(ctx context.Context, exchangeID string, userID int64, joinedAt time.Time) (*Participant, error)
	DeletePendingRequest(ctx context.Context, exchangeID string, userID int64) error

	// GenerateAssignments flips assignments_generated from false to true, hands
	// the locked roster to pair and persists its output, all or nothing.
	GenerateAssignments(ctx context.Context, exchangeID string, pair PairFunc) ([]*Assignment, error)
	ListAssignments(ctx context.Context, exchangeID string) ([]*Assignment, error)
	GetAssignmentByGiver(ctx context.Context, exchangeID string, giverID int64) (*Assignment, error)
	CountAssignments(ctx context.Context, exchangeID string) (int, error)
}
