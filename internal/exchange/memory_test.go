package exchange

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMemoryStore(t *testing.T, members ...int64) (*MemoryStore, string) {
	t.Helper()
	ctx := context.Background()
	store := NewMemoryStore()
	ex := &Exchange{ID: "ex-1", Name: "Party", GiftBudget: "$20", CreatedBy: alice, CreatedAt: time.Now()}
	require.NoError(t, store.CreateExchange(ctx, ex))
	for _, u := range members {
		require.NoError(t, store.CreatePendingRequest(ctx, &PendingRequest{ExchangeID: ex.ID, UserID: u}))
		_, err := store.ApprovePendingRequest(ctx, ex.ID, u, time.Now())
		require.NoError(t, err)
	}
	return store, ex.ID
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store, id := seedMemoryStore(t)
	ctx := context.Background()

	ex, err := store.GetExchange(ctx, id)
	require.NoError(t, err)
	ex.AssignmentsGenerated = true
	ex.Name = "changed"

	again, err := store.GetExchange(ctx, id)
	require.NoError(t, err)
	assert.False(t, again.AssignmentsGenerated)
	assert.Equal(t, "Party", again.Name)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	ex, err := store.GetExchange(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, ex)

	p, err := store.GetParticipant(ctx, "nope", alice)
	require.NoError(t, err)
	assert.Nil(t, p)

	a, err := store.GetAssignmentByGiver(ctx, "nope", alice)
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestMemoryStoreGenerateOnce(t *testing.T) {
	store, id := seedMemoryStore(t, bob, carol)
	ctx := context.Background()

	created, err := store.GenerateAssignments(ctx, id, rotate(id))
	require.NoError(t, err)
	assert.Len(t, created, 3)

	_, err = store.GenerateAssignments(ctx, id, rotate(id))
	assert.ErrorIs(t, err, ErrAlreadyGenerated)

	count, err := store.CountAssignments(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	a, err := store.GetAssignmentByGiver(ctx, id, bob)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, carol, a.RecipientID)
}

func TestMemoryStoreGenerateFailureLeavesExchangeOpen(t *testing.T) {
	store, id := seedMemoryStore(t, bob, carol)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := store.GenerateAssignments(ctx, id, func([]int64) ([]*Assignment, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	ex, err := store.GetExchange(ctx, id)
	require.NoError(t, err)
	assert.False(t, ex.AssignmentsGenerated)

	count, err := store.CountAssignments(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryStoreGenerateUnknownExchange(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GenerateAssignments(context.Background(), "nope", rotate("nope"))
	assert.ErrorIs(t, err, ErrExchangeNotFound)
}

func TestMemoryStorePairSeesRosterInJoinOrder(t *testing.T) {
	store, id := seedMemoryStore(t, carol, bob)

	var seen []int64
	_, err := store.GenerateAssignments(context.Background(), id, func(ids []int64) ([]*Assignment, error) {
		seen = append(seen, ids...)
		return rotate(id)(ids)
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{alice, carol, bob}, seen)
}

func TestMemoryStoreConcurrentGenerate(t *testing.T) {
	store, id := seedMemoryStore(t, bob, carol)
	ctx := context.Background()

	const callers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.GenerateAssignments(ctx, id, rotate(id))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrAlreadyGenerated):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, conflicts)

	count, err := store.CountAssignments(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMemoryStoreCreatePendingRequestErrors(t *testing.T) {
	store, id := seedMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePendingRequest(ctx, &PendingRequest{ExchangeID: id, UserID: bob}))
	assert.ErrorIs(t,
		store.CreatePendingRequest(ctx, &PendingRequest{ExchangeID: id, UserID: bob}),
		ErrAlreadyPending)
	assert.ErrorIs(t,
		store.CreatePendingRequest(ctx, &PendingRequest{ExchangeID: id, UserID: alice}),
		ErrAlreadyParticipant)
	assert.ErrorIs(t,
		store.CreatePendingRequest(ctx, &PendingRequest{ExchangeID: "nope", UserID: bob}),
		ErrExchangeNotFound)
}

func TestMemoryStoreDeleteExchange(t *testing.T) {
	store, id := seedMemoryStore(t, bob, carol)
	ctx := context.Background()
	_, err := store.GenerateAssignments(ctx, id, rotate(id))
	require.NoError(t, err)

	require.NoError(t, store.DeleteExchange(ctx, id))

	participants, err := store.ListParticipants(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, participants)
	assignments, err := store.ListAssignments(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, assignments)
	assert.ErrorIs(t, store.DeleteExchange(ctx, id), ErrExchangeNotFound)
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.GetExchange(ctx, "ex-1")
	assert.ErrorIs(t, err, context.Canceled)
}
