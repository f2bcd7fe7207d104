package exchange

import "time"

const timeLayout = "2006-01-02T15:04:05Z"

// CreateExchangeRequest represents the request to create a new exchange
type CreateExchangeRequest struct {
	Name       string `json:"name" validate:"required,notblank,max=100"`
	GiftBudget string `json:"gift_budget" validate:"required,notblank,max=100"`
}

// ExchangeResponse represents the response for an exchange
type ExchangeResponse struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	GiftBudget           string             `json:"gift_budget"`
	CreatedBy            int64              `json:"created_by"`
	Status               Status             `json:"status"`
	AssignmentsGenerated bool               `json:"assignments_generated"`
	CreatedAt            string             `json:"created_at"`
	Participants         []*ParticipantInfo `json:"participants,omitempty"`
	PendingRequests      []*PendingInfo     `json:"pending_requests,omitempty"`
}

// ParticipantInfo represents a roster entry in an exchange response
type ParticipantInfo struct {
	UserID   int64  `json:"user_id"`
	JoinedAt string `json:"joined_at"`
}

// PendingInfo represents an open join request in an exchange response
type PendingInfo struct {
	UserID      int64  `json:"user_id"`
	RequestedAt string `json:"requested_at"`
}

// CanGenerateResponse reports whether the organizer may generate assignments
type CanGenerateResponse struct {
	ExchangeID  string `json:"exchange_id"`
	CanGenerate bool   `json:"can_generate"`
}

// ToResponse converts an Exchange model to an ExchangeResponse DTO
func (e *Exchange) ToResponse() *ExchangeResponse {
	return &ExchangeResponse{
		ID:                   e.ID,
		Name:                 e.Name,
		GiftBudget:           e.GiftBudget,
		CreatedBy:            e.CreatedBy,
		Status:               e.Status(),
		AssignmentsGenerated: e.AssignmentsGenerated,
		CreatedAt:            formatTime(e.CreatedAt),
	}
}

// ToResponse converts a Snapshot to an ExchangeResponse including roster and requests
func (s *Snapshot) ToResponse() *ExchangeResponse {
	resp := s.Exchange.ToResponse()
	resp.Participants = make([]*ParticipantInfo, len(s.Participants))
	for i, p := range s.Participants {
		resp.Participants[i] = &ParticipantInfo{UserID: p.UserID, JoinedAt: formatTime(p.JoinedAt)}
	}
	resp.PendingRequests = make([]*PendingInfo, len(s.PendingRequests))
	for i, p := range s.PendingRequests {
		resp.PendingRequests[i] = &PendingInfo{UserID: p.UserID, RequestedAt: formatTime(p.RequestedAt)}
	}
	return resp
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
