package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"task-tracker-api/internal/collection"
	"task-tracker-api/internal/models"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

// closeTracker wraps a ListCollection to observe Close calls.
type closeTracker struct {
	*collection.ListCollection
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return c.ListCollection.Close()
}

type trackingFactory struct {
	mu      sync.Mutex
	created []*closeTracker
}

func (f *trackingFactory) build() (collection.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &closeTracker{ListCollection: collection.NewListCollection()}
	f.created = append(f.created, c)
	return c, nil
}

type fakeClient struct{ closed bool }

func (f *fakeClient) Send([]byte) bool { return true }
func (f *fakeClient) Close()           { f.closed = true }

func addTask(priority int) func(collection.Collection) error {
	return func(tasks collection.Collection) error {
		_, err := tasks.Add(collection.AddRequest{
			Description: "task",
			Category:    models.CategoryWork,
			DueDate:     testutil.Date(2024, 1, 1),
			Priority:    priority,
		})
		return err
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	f := &trackingFactory{}
	m := NewManager(f.build, time.Hour, nil)

	a, err := m.Create()
	require.NoError(t, err)
	b, err := m.Create()
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)

	require.NoError(t, a.Do(addTask(1)))
	// Same priority in another session is fine
	require.NoError(t, b.Do(addTask(1)))

	require.NoError(t, a.Do(func(tasks collection.Collection) error {
		list, err := tasks.List()
		require.NoError(t, err)
		require.Len(t, list, 1)
		return nil
	}))
	require.Equal(t, 2, m.Len())
}

func TestGetAndEnd(t *testing.T) {
	f := &trackingFactory{}
	hub := realtime.NewHub()
	m := NewManager(f.build, time.Hour, hub)

	s, err := m.Create()
	require.NoError(t, err)
	client := &fakeClient{}
	hub.Register(s.ID, client)

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	require.Same(t, s, got)

	require.True(t, m.End(s.ID))
	require.False(t, m.End(s.ID))
	require.True(t, f.created[0].closed)
	require.True(t, client.closed)

	_, ok = m.Get(s.ID)
	require.False(t, ok)
	require.ErrorIs(t, s.Do(addTask(1)), ErrClosed)
}

func TestPurgeExpired(t *testing.T) {
	f := &trackingFactory{}
	m := NewManager(f.build, 20*time.Millisecond, nil)

	s, err := m.Create()
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)
	_, ok := m.Get(s.ID)
	require.False(t, ok)

	require.Equal(t, 1, m.PurgeExpired())
	require.True(t, f.created[0].closed)
	require.Equal(t, 0, m.PurgeExpired())
}

func TestGetExtendsTTL(t *testing.T) {
	f := &trackingFactory{}
	m := NewManager(f.build, 200*time.Millisecond, nil)

	s, err := m.Create()
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		time.Sleep(100 * time.Millisecond)
		_, ok := m.Get(s.ID)
		require.True(t, ok, "session should stay alive while in use")
	}
}

func TestRunDisposesOnShutdown(t *testing.T) {
	f := &trackingFactory{}
	m := NewManager(f.build, time.Hour, nil)
	_, err := m.Create()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.True(t, f.created[0].closed)
	require.Equal(t, 0, m.Len())
}

func TestCreatePropagatesFactoryError(t *testing.T) {
	m := NewManager(func() (collection.Collection, error) {
		return nil, errors.New("no database")
	}, time.Hour, nil)

	_, err := m.Create()
	require.ErrorContains(t, err, "no database")
	require.Equal(t, 0, m.Len())
}

func TestDoSerialisesConcurrentCallers(t *testing.T) {
	m := NewManager((&trackingFactory{}).build, time.Hour, nil)
	s, err := m.Create()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for p := 1; p <= 50; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Do(addTask(p))
		}()
	}
	wg.Wait()

	require.NoError(t, s.Do(func(tasks collection.Collection) error {
		list, err := tasks.List()
		require.NoError(t, err)
		require.Len(t, list, 50)
		return nil
	}))
}
