package exchange

import "time"

// Status is derived from AssignmentsGenerated and never stored
type Status string

const (
	StatusOpen     Status = "open"
	StatusAssigned Status = "assigned"
)

// Exchange represents a single gift exchange event
type Exchange struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	GiftBudget           string    `json:"gift_budget"`
	CreatedBy            int64     `json:"created_by"`
	AssignmentsGenerated bool      `json:"assignments_generated"`
	CreatedAt            time.Time `json:"created_at"`
}

// Status reports whether the exchange still accepts admission changes
func (e *Exchange) Status() Status {
	if e.AssignmentsGenerated {
		return StatusAssigned
	}
	return StatusOpen
}

// Participant is a user approved into an exchange's roster
type Participant struct {
	ExchangeID string    `json:"exchange_id"`
	UserID     int64     `json:"user_id"`
	JoinedAt   time.Time `json:"joined_at"`
}

// PendingRequest is a join request awaiting the organizer
type PendingRequest struct {
	ExchangeID  string    `json:"exchange_id"`
	UserID      int64     `json:"user_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// Assignment pairs a giver with the recipient they buy for.
// Records are written once, at generation time.
type Assignment struct {
	ID          string    `json:"id"`
	ExchangeID  string    `json:"exchange_id"`
	GiverID     int64     `json:"giver_id"`
	RecipientID int64     `json:"recipient_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Snapshot is an exchange together with its roster and open requests
type Snapshot struct {
	Exchange        *Exchange
	Participants    []*Participant
	PendingRequests []*PendingRequest
}

// ParticipantIDs returns the roster user ids in store order
func (s *Snapshot) ParticipantIDs() []int64 {
	ids := make([]int64, len(s.Participants))
	for i, p := range s.Participants {
		ids[i] = p.UserID
	}
	return ids
}

// PendingUserIDs returns the user ids with an open join request
func (s *Snapshot) PendingUserIDs() []int64 {
	ids := make([]int64, len(s.PendingRequests))
	for i, p := range s.PendingRequests {
		ids[i] = p.UserID
	}
	return ids
}
