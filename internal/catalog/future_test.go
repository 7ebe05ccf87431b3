package catalog

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFutureResolve(t *testing.T) {
	f := Go(func() (int, error) { return 42, nil })

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, v)

	select {
	case <-f.Done():
	default:
		t.Fatal("Done should be closed after Await returned a value")
	}
}

func TestFutureReject(t *testing.T) {
	boom := stdErrors.New("boom")
	f := Go(func() (string, error) { return "ignored", boom })

	v, err := f.Await(context.Background())
	require.ErrorIs(t, err, boom)
	require.Empty(t, v)
}

func TestFutureSettlesOnce(t *testing.T) {
	f := newFuture[int]()
	f.resolve(1)
	f.reject(stdErrors.New("late"))
	f.resolve(2)

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestFutureAwaitGivesUpOnContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	f := Go(func() (int, error) {
		<-block
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFutureThenNilHandlers(t *testing.T) {
	f := Go(func() (int, error) { return 0, stdErrors.New("ignored") })

	select {
	case <-f.Then(nil, nil):
	case <-time.After(5 * time.Second):
		t.Fatal("Then never finished")
	}
}
