package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[int64]bool

func (f fakeUsers) Exists(_ context.Context, id int64) (bool, error) {
	return f[id], nil
}

const (
	alice int64 = 1
	bob   int64 = 2
	carol int64 = 3
	dave  int64 = 4
)

func newTestService() (*Service, *MemoryStore) {
	store := NewMemoryStore()
	svc := NewService(store, fakeUsers{alice: true, bob: true, carol: true, dave: true})
	clock := time.Date(2026, 12, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, store
}

func createExchange(t *testing.T, svc *Service) *Snapshot {
	t.Helper()
	snap, err := svc.Create(context.Background(), alice, &CreateExchangeRequest{
		Name:       "Office Party",
		GiftBudget: "$25",
	})
	require.NoError(t, err)
	return snap
}

func admit(t *testing.T, svc *Service, id string, users ...int64) {
	t.Helper()
	ctx := context.Background()
	for _, u := range users {
		_, err := svc.RequestJoin(ctx, id, u)
		require.NoError(t, err)
		_, err = svc.ApprovePending(ctx, id, u)
		require.NoError(t, err)
	}
}

func TestCreateEnrollsCreator(t *testing.T) {
	svc, _ := newTestService()

	snap := createExchange(t, svc)

	assert.NotEmpty(t, snap.Exchange.ID)
	assert.Equal(t, "Office Party", snap.Exchange.Name)
	assert.Equal(t, "$25", snap.Exchange.GiftBudget)
	assert.Equal(t, alice, snap.Exchange.CreatedBy)
	assert.False(t, snap.Exchange.AssignmentsGenerated)
	assert.Equal(t, StatusOpen, snap.Exchange.Status())
	assert.Equal(t, []int64{alice}, snap.ParticipantIDs())
	assert.Empty(t, snap.PendingUserIDs())
}

func TestCreateTrimsFields(t *testing.T) {
	svc, _ := newTestService()

	snap, err := svc.Create(context.Background(), alice, &CreateExchangeRequest{
		Name:       "  Family  ",
		GiftBudget: " 50 EUR ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Family", snap.Exchange.Name)
	assert.Equal(t, "50 EUR", snap.Exchange.GiftBudget)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name string
		req  *CreateExchangeRequest
	}{
		{"empty name", &CreateExchangeRequest{Name: "", GiftBudget: "$25"}},
		{"blank name", &CreateExchangeRequest{Name: "   ", GiftBudget: "$25"}},
		{"empty budget", &CreateExchangeRequest{Name: "Party", GiftBudget: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), alice, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateRejectsUnknownCreator(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), 99, &CreateExchangeRequest{Name: "Party", GiftBudget: "$25"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUnknownExchange(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrExchangeNotFound)
}

func TestAdmissionFlow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	id := createExchange(t, svc).Exchange.ID

	snap, err := svc.RequestJoin(ctx, id, bob)
	require.NoError(t, err)
	assert.Equal(t, []int64{bob}, snap.PendingUserIDs())
	assert.Equal(t, []int64{alice}, snap.ParticipantIDs())

	snap, err = svc.ApprovePending(ctx, id, bob)
	require.NoError(t, err)
	assert.Empty(t, snap.PendingUserIDs())
	assert.Equal(t, []int64{alice, bob}, snap.ParticipantIDs())

	_, err = svc.RequestJoin(ctx, id, bob)
	assert.ErrorIs(t, err, ErrAlreadyParticipant)
}

func TestRequestJoinErrors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	id := createExchange(t, svc).Exchange.ID

	_, err := svc.RequestJoin(ctx, "missing", bob)
	assert.ErrorIs(t, err, ErrExchangeNotFound)

	_, err = svc.RequestJoin(ctx, id, 99)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.RequestJoin(ctx, id, alice)
	assert.ErrorIs(t, err, ErrAlreadyParticipant)

	_, err = svc.RequestJoin(ctx, id, bob)
	require.NoError(t, err)
	_, err = svc.RequestJoin(ctx, id, bob)
	assert.ErrorIs(t, err, ErrAlreadyPending)
}

func TestDeclineThenRequestAgain(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	id := createExchange(t, svc).Exchange.ID

	_, err := svc.RequestJoin(ctx, id, dave)
	require.NoError(t, err)

	snap, err := svc.DeclinePending(ctx, id, dave)
	require.NoError(t, err)
	assert.Empty(t, snap.PendingUserIDs())
	assert.Equal(t, []int64{alice}, snap.ParticipantIDs())

	_, err = svc.DeclinePending(ctx, id, dave)
	assert.ErrorIs(t, err, ErrNoPendingRequest)

	snap, err = svc.RequestJoin(ctx, id, dave)
	require.NoError(t, err)
	assert.Equal(t, []int64{dave}, snap.PendingUserIDs())
}

func TestApproveWithoutRequest(t *testing.T) {
	svc, _ := newTestService()
	id := createExchange(t, svc).Exchange.ID

	_, err := svc.ApprovePending(context.Background(), id, carol)
	assert.ErrorIs(t, err, ErrNoPendingRequest)
}

func TestRemoveParticipant(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	id := createExchange(t, svc).Exchange.ID
	admit(t, svc, id, bob, carol)

	require.NoError(t, svc.RemoveParticipant(ctx, id, bob))

	snap, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int64{alice, carol}, snap.ParticipantIDs())

	assert.ErrorIs(t, svc.RemoveParticipant(ctx, id, bob), ErrNotParticipant)
	assert.ErrorIs(t, svc.RemoveParticipant(ctx, id, alice), ErrCannotRemoveOrganizer)
	assert.ErrorIs(t, svc.RemoveParticipant(ctx, id, alice), ErrInvalidInput)
}

func TestCanGenerate(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	id := createExchange(t, svc).Exchange.ID

	admit(t, svc, id, bob)
	ok, err := svc.CanGenerate(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	admit(t, svc, id, carol)
	ok, err = svc.CanGenerate(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = store.GenerateAssignments(ctx, id, rotate(id))
	require.NoError(t, err)

	ok, err = svc.CanGenerate(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdmissionClosedAfterGeneration(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	id := createExchange(t, svc).Exchange.ID
	admit(t, svc, id, bob, carol)

	_, err := svc.RequestJoin(ctx, id, dave)
	require.NoError(t, err)

	_, err = store.GenerateAssignments(ctx, id, rotate(id))
	require.NoError(t, err)

	snap, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusAssigned, snap.Exchange.Status())

	_, err = svc.ApprovePending(ctx, id, dave)
	assert.ErrorIs(t, err, ErrExchangeClosed)
	_, err = svc.DeclinePending(ctx, id, dave)
	assert.ErrorIs(t, err, ErrExchangeClosed)
	assert.ErrorIs(t, svc.RemoveParticipant(ctx, id, bob), ErrExchangeClosed)

	_, err = svc.RequestJoin(ctx, id, dave)
	assert.ErrorIs(t, err, ErrExchangeClosed)

	snap, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int64{alice, bob, carol}, snap.ParticipantIDs())
	assert.Equal(t, []int64{dave}, snap.PendingUserIDs())
}

func TestRequireOrganizer(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	id := createExchange(t, svc).Exchange.ID

	ex, err := svc.RequireOrganizer(ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, id, ex.ID)

	_, err = svc.RequireOrganizer(ctx, id, bob)
	assert.ErrorIs(t, err, ErrNotOrganizer)

	_, err = svc.RequireOrganizer(ctx, "missing", alice)
	assert.ErrorIs(t, err, ErrExchangeNotFound)
}

func TestListForUser(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	first := createExchange(t, svc).Exchange.ID
	second := createExchange(t, svc).Exchange.ID
	admit(t, svc, first, bob)

	list, total, err := svc.ListForUser(ctx, alice, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)

	list, total, err = svc.ListForUser(ctx, bob, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, first, list[0].ID)

	list, total, err = svc.ListForUser(ctx, alice, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, first, list[0].ID)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	id := createExchange(t, svc).Exchange.ID

	require.NoError(t, svc.Delete(ctx, id))
	_, err := svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrExchangeNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, id), ErrExchangeNotFound)
}

// rotate pairs each participant with the next one in roster order
func rotate(exchangeID string) PairFunc {
	return func(ids []int64) ([]*Assignment, error) {
		if len(ids) < MinParticipants {
			return nil, ErrInsufficientParticipants
		}
		out := make([]*Assignment, len(ids))
		for i, id := range ids {
			out[i] = &Assignment{
				ID:          "a" + string(rune('0'+i)),
				ExchangeID:  exchangeID,
				GiverID:     id,
				RecipientID: ids[(i+1)%len(ids)],
			}
		}
		return out, nil
	}
}

func TestErrCannotRemoveOrganizerWrapsInvalidInput(t *testing.T) {
	assert.True(t, errors.Is(ErrCannotRemoveOrganizer, ErrInvalidInput))
}
