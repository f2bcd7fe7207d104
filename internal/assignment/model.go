package assignment

import "github.com/fkhayef/giftexchange/internal/exchange"

// Summary is the aggregate view of an exchange's assignments.
// It carries no giver or recipient ids.
type Summary struct {
	ExchangeID           string `json:"exchange_id"`
	AssignmentsGenerated bool   `json:"assignments_generated"`
	AssignmentCount      int    `json:"assignment_count"`
}

// AssignmentResponse is one giver's view of their own assignment
type AssignmentResponse struct {
	ExchangeID  string `json:"exchange_id"`
	GiverID     int64  `json:"giver_id"`
	RecipientID int64  `json:"recipient_id"`
	CreatedAt   string `json:"created_at"`
}

// GenerateResponse is returned to the organizer after generation
type GenerateResponse struct {
	Summary
	MyAssignment *AssignmentResponse `json:"my_assignment,omitempty"`
}

func toResponse(a *exchange.Assignment) *AssignmentResponse {
	return &AssignmentResponse{
		ExchangeID:  a.ExchangeID,
		GiverID:     a.GiverID,
		RecipientID: a.RecipientID,
		CreatedAt:   a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
