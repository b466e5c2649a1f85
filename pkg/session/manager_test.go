package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/robofsm/pkg/adapters/memory"
	"github.com/aretw0/robofsm/pkg/domain"
	"github.com/aretw0/robofsm/pkg/dsl"
	"github.com/aretw0/robofsm/pkg/ports"
	"github.com/aretw0/robofsm/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, id string, s *domain.Snapshot) error {
	return m.Called(ctx, id, s).Error(0)
}

func (m *mockStore) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Snapshot)
	return s, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

type mockLocker struct {
	mock.Mock
}

func (m *mockLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	args := m.Called(ctx, key, ttl)
	fn, _ := args.Get(0).(ports.UnlockFunc)
	return fn, args.Error(1)
}

type positioner interface {
	session.Positioner
	ProcessEvent(string) bool
	History() []string
}

func newMachine(t *testing.T) positioner {
	t.Helper()
	b := dsl.New("A")
	b.Add("A").On("B", "GO")
	b.Add("B").On("C", "GO")
	b.Add("C").Final(true)
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func TestManager_ResumeRoundTrip(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	first := newMachine(t)
	resumed, err := mgr.Resume(ctx, "s1", first)
	require.NoError(t, err)
	assert.False(t, resumed)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids, "a new session is reserved immediately")

	first.ProcessEvent("GO")
	require.NoError(t, mgr.Save(ctx, "s1", first.Snapshot()))

	second := newMachine(t)
	resumed, err = mgr.Resume(ctx, "s1", second)
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, "B", second.Snapshot().Current)
	assert.Equal(t, []string{"A"}, second.History())

	stored, err := mgr.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", stored.SessionID)
	assert.False(t, stored.UpdatedAt.IsZero())
}

func TestManager_ResumeIncompatibleSnapshot(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s1", &domain.Snapshot{Current: "NOPE"}))

	_, err := session.NewManager(store).Resume(ctx, "s1", newMachine(t))
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestManager_ResumeStoreFailure(t *testing.T) {
	store := &mockStore{}
	boom := errors.New("disk on fire")
	store.On("Load", mock.Anything, "s1").Return(nil, boom)

	_, err := session.NewManager(store).Resume(context.Background(), "s1", newMachine(t))
	assert.ErrorIs(t, err, boom)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestManager_DistributedLock(t *testing.T) {
	store := &mockStore{}
	store.On("Delete", mock.Anything, "s1").Return(nil)

	unlocked := false
	locker := &mockLocker{}
	locker.On("Lock", mock.Anything, "s1", 5*time.Second).
		Return(ports.UnlockFunc(func(context.Context) error { unlocked = true; return nil }), nil)

	mgr := session.NewManager(store, session.WithLocker(locker), session.WithLockTTL(5*time.Second))
	require.NoError(t, mgr.Delete(context.Background(), "s1"))

	assert.True(t, unlocked)
	locker.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestManager_DistributedLockFailure(t *testing.T) {
	store := &mockStore{}
	locker := &mockLocker{}
	locker.On("Lock", mock.Anything, "s1", session.DefaultLockTTL).Return(nil, context.DeadlineExceeded)

	err := session.NewManager(store, session.WithLocker(locker)).Delete(context.Background(), "s1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestManager_ConcurrentSaves(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, mgr.Save(ctx, "race", domain.Snapshot{Current: "A"}))
		}()
	}
	wg.Wait()

	s, err := mgr.Load(ctx, "race")
	require.NoError(t, err)
	assert.Equal(t, "A", s.Current)
}

func TestNewID(t *testing.T) {
	a, b := session.NewID(), session.NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
