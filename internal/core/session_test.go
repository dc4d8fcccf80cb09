package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_GetOrCreate(t *testing.T) {
	st := NewSessionStore(time.Minute)

	sess, created := st.GetOrCreate("")
	require.True(t, created)
	_, err := uuid.Parse(sess.ID())
	require.NoError(t, err)
	assert.Nil(t, sess.Current())

	again, created := st.GetOrCreate(sess.ID())
	assert.False(t, created)
	assert.Same(t, sess, again)

	other, created := st.GetOrCreate("not-a-uuid")
	assert.True(t, created)
	assert.NotEqual(t, sess.ID(), other.ID())

	unknown, created := st.GetOrCreate(uuid.NewString())
	assert.True(t, created)
	assert.NotEqual(t, sess.ID(), unknown.ID())

	assert.Equal(t, 3, st.Len())
}

func TestSession_ApplyReplacesOnSuccess(t *testing.T) {
	st := NewSessionStore(time.Minute)
	sess, _ := st.GetOrCreate("")
	ctx := context.Background()

	first := mustDataset(t, "a,b\n1,2\n3,4")
	got, err := sess.Apply(ctx, func(context.Context) (*Dataset, error) { return first, nil })
	require.NoError(t, err)
	assert.Same(t, first, got)
	assert.Same(t, first, sess.Current())

	second := mustDataset(t, "x\n9")
	_, err = sess.Apply(ctx, func(context.Context) (*Dataset, error) { return second, nil })
	require.NoError(t, err)
	assert.Same(t, second, sess.Current())
	assert.Equal(t, []string{"x"}, sess.Current().ColumnNames())
}

func TestSession_FailedLoadLeavesStateUnchanged(t *testing.T) {
	l := NewLoader(LoaderConfig{})
	st := NewSessionStore(time.Minute)
	sess, _ := st.GetOrCreate("")
	ctx := context.Background()

	_, err := sess.Apply(ctx, func(ctx context.Context) (*Dataset, error) {
		return l.LoadFile(ctx, "data.csv", strings.NewReader("a,b\n1,2\n3,4"))
	})
	require.NoError(t, err)
	before := sess.Current()

	_, err = sess.Apply(ctx, func(ctx context.Context) (*Dataset, error) {
		return l.LoadFile(ctx, "broken.csv", strings.NewReader("a,b\n1,2,3"))
	})
	require.ErrorIs(t, err, ErrParse)
	assert.Same(t, before, sess.Current())

	_, err = sess.Apply(ctx, func(ctx context.Context) (*Dataset, error) {
		return l.LoadFile(ctx, "photo.png", strings.NewReader("\x89PNG"))
	})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Same(t, before, sess.Current())
}

func TestSession_CancelledLoadIsDiscarded(t *testing.T) {
	st := NewSessionStore(time.Minute)
	sess, _ := st.GetOrCreate("")
	ds := mustDataset(t, "a\n1")

	ctx, cancel := context.WithCancel(context.Background())
	_, err := sess.Apply(ctx, func(context.Context) (*Dataset, error) {
		cancel()
		return ds, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, sess.Current())
}

func TestSession_NilDataset(t *testing.T) {
	st := NewSessionStore(time.Minute)
	sess, _ := st.GetOrCreate("")

	_, err := sess.Apply(context.Background(), func(context.Context) (*Dataset, error) { return nil, nil })
	assert.True(t, errors.Is(err, ErrNilDataset))

	sess.Replace(nil)
	assert.Nil(t, sess.Current())
}

func TestSession_ApplySerialised(t *testing.T) {
	st := NewSessionStore(time.Minute)
	sess, _ := st.GetOrCreate("")
	ds := mustDataset(t, "a\n1")

	var (
		mu      sync.Mutex
		running int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = sess.Apply(context.Background(), func(context.Context) (*Dataset, error) {
				mu.Lock()
				running++
				if running > maxSeen {
					maxSeen = running
				}
				mu.Unlock()
				time.Sleep(5 * time.Millisecond)
				mu.Lock()
				running--
				mu.Unlock()
				return ds, nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestSessionStore_EvictIdle(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewSessionStore(10 * time.Minute)
	st.now = func() time.Time { return now }

	old, _ := st.GetOrCreate("")
	now = now.Add(8 * time.Minute)
	fresh, _ := st.GetOrCreate("")

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, st.EvictIdle())

	_, err := st.Get(old.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	got, err := st.Get(fresh.ID())
	require.NoError(t, err)
	assert.Same(t, fresh, got)
}

func TestSessionStore_Janitor(t *testing.T) {
	st := NewSessionStore(time.Millisecond)
	st.GetOrCreate("")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.StartJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return st.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}

func TestSessionStore_Delete(t *testing.T) {
	st := NewSessionStore(0)
	sess, _ := st.GetOrCreate("")
	st.Delete(sess.ID())
	assert.Equal(t, 0, st.Len())
}

func TestSessionContext(t *testing.T) {
	st := NewSessionStore(time.Minute)
	sess, _ := st.GetOrCreate("")

	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	got, ok := SessionFromContext(ContextWithSession(context.Background(), sess))
	require.True(t, ok)
	assert.Same(t, sess, got)
}
