package exchange

import (
	"context"
	"sort"
	"sync"
	"time"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps exchanges in process memory. A single mutex makes every
// method one atomic unit.
type MemoryStore struct {
	mu           sync.Mutex
	exchanges    map[string]*Exchange
	participants map[string][]*Participant
	pending      map[string][]*PendingRequest
	assignments  map[string][]*Assignment
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		exchanges:    make(map[string]*Exchange),
		participants: make(map[string][]*Participant),
		pending:      make(map[string][]*PendingRequest),
		assignments:  make(map[string][]*Assignment),
	}
}

func (m *MemoryStore) CreateExchange(ctx context.Context, ex *Exchange) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *ex
	m.exchanges[ex.ID] = &stored
	m.participants[ex.ID] = []*Participant{{
		ExchangeID: ex.ID,
		UserID:     ex.CreatedBy,
		JoinedAt:   ex.CreatedAt,
	}}
	return nil
}

func (m *MemoryStore) GetExchange(ctx context.Context, id string) (*Exchange, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ex, ok := m.exchanges[id]
	if !ok {
		return nil, nil
	}
	out := *ex
	return &out, nil
}

func (m *MemoryStore) ListExchangesByUser(ctx context.Context, userID int64, limit, offset int) ([]*Exchange, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*Exchange
	for id, roster := range m.participants {
		if indexOfParticipant(roster, userID) >= 0 {
			ex := *m.exchanges[id]
			matched = append(matched, &ex)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset >= total {
		return []*Exchange{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (m *MemoryStore) DeleteExchange(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.exchanges[id]; !ok {
		return ErrExchangeNotFound
	}
	delete(m.exchanges, id)
	delete(m.participants, id)
	delete(m.pending, id)
	delete(m.assignments, id)
	return nil
}

func (m *MemoryStore) ListParticipants(ctx context.Context, exchangeID string) ([]*Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	roster := m.participants[exchangeID]
	out := make([]*Participant, len(roster))
	for i, p := range roster {
		cp := *p
		out[i] = &cp
	}
	return out, nil
}

func (m *MemoryStore) GetParticipant(ctx context.Context, exchangeID string, userID int64) (*Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	roster := m.participants[exchangeID]
	if i := indexOfParticipant(roster, userID); i >= 0 {
		cp := *roster[i]
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryStore) RemoveParticipant(ctx context.Context, exchangeID string, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen(exchangeID); err != nil {
		return err
	}
	roster := m.participants[exchangeID]
	i := indexOfParticipant(roster, userID)
	if i < 0 {
		return ErrNotParticipant
	}
	m.participants[exchangeID] = append(roster[:i:i], roster[i+1:]...)
	return nil
}

func (m *MemoryStore) ListPendingRequests(ctx context.Context, exchangeID string) ([]*PendingRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	reqs := m.pending[exchangeID]
	out := make([]*PendingRequest, len(reqs))
	for i, r := range reqs {
		cp := *r
		out[i] = &cp
	}
	return out, nil
}

func (m *MemoryStore) GetPendingRequest(ctx context.Context, exchangeID string, userID int64) (*PendingRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	reqs := m.pending[exchangeID]
	if i := indexOfPending(reqs, userID); i >= 0 {
		cp := *reqs[i]
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryStore) CreatePendingRequest(ctx context.Context, req *PendingRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen(req.ExchangeID); err != nil {
		return err
	}
	if indexOfParticipant(m.participants[req.ExchangeID], req.UserID) >= 0 {
		return ErrAlreadyParticipant
	}
	if indexOfPending(m.pending[req.ExchangeID], req.UserID) >= 0 {
		return ErrAlreadyPending
	}
	stored := *req
	m.pending[req.ExchangeID] = append(m.pending[req.ExchangeID], &stored)
	return nil
}

func (m *MemoryStore) ApprovePendingRequest(ctx context.Context, exchangeID string, userID int64, joinedAt time.Time) (*Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen(exchangeID); err != nil {
		return nil, err
	}
	reqs := m.pending[exchangeID]
	i := indexOfPending(reqs, userID)
	if i < 0 {
		return nil, ErrNoPendingRequest
	}
	if indexOfParticipant(m.participants[exchangeID], userID) >= 0 {
		return nil, ErrAlreadyParticipant
	}

	m.pending[exchangeID] = append(reqs[:i:i], reqs[i+1:]...)
	p := &Participant{ExchangeID: exchangeID, UserID: userID, JoinedAt: joinedAt}
	m.participants[exchangeID] = append(m.participants[exchangeID], p)

	out := *p
	return &out, nil
}

func (m *MemoryStore) DeletePendingRequest(ctx context.Context, exchangeID string, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen(exchangeID); err != nil {
		return err
	}
	reqs := m.pending[exchangeID]
	i := indexOfPending(reqs, userID)
	if i < 0 {
		return ErrNoPendingRequest
	}
	m.pending[exchangeID] = append(reqs[:i:i], reqs[i+1:]...)
	return nil
}

func (m *MemoryStore) GenerateAssignments(ctx context.Context, exchangeID string, pair PairFunc) ([]*Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ex, ok := m.exchanges[exchangeID]
	if !ok {
		return nil, ErrExchangeNotFound
	}
	if ex.AssignmentsGenerated {
		return nil, ErrAlreadyGenerated
	}

	roster := m.participants[exchangeID]
	ids := make([]int64, len(roster))
	for i, p := range roster {
		ids[i] = p.UserID
	}

	created, err := pair(ids)
	if err != nil {
		return nil, err
	}

	stored := make([]*Assignment, len(created))
	for i, a := range created {
		cp := *a
		stored[i] = &cp
	}
	m.assignments[exchangeID] = stored
	ex.AssignmentsGenerated = true

	return created, nil
}

func (m *MemoryStore) ListAssignments(ctx context.Context, exchangeID string) ([]*Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.assignments[exchangeID]
	out := make([]*Assignment, len(stored))
	for i, a := range stored {
		cp := *a
		out[i] = &cp
	}
	return out, nil
}

func (m *MemoryStore) GetAssignmentByGiver(ctx context.Context, exchangeID string, giverID int64) (*Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.assignments[exchangeID] {
		if a.GiverID == giverID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) CountAssignments(ctx context.Context, exchangeID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.assignments[exchangeID]), nil
}

// checkOpen must be called with mu held
func (m *MemoryStore) checkOpen(exchangeID string) error {
	ex, ok := m.exchanges[exchangeID]
	if !ok {
		return ErrExchangeNotFound
	}
	if ex.AssignmentsGenerated {
		return ErrExchangeClosed
	}
	return nil
}

func indexOfParticipant(roster []*Participant, userID int64) int {
	for i, p := range roster {
		if p.UserID == userID {
			return i
		}
	}
	return -1
}

func indexOfPending(reqs []*PendingRequest, userID int64) int {
	for i, r := range reqs {
		if r.UserID == userID {
			return i
		}
	}
	return -1
}
