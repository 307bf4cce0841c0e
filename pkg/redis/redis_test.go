package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type closer struct {
	err    error
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name string
		url  string
		want error
	}{
		{name: "empty", url: "", want: ErrNoURL},
		{name: "http scheme", url: "http://localhost:6379", want: ErrInvalidURL},
		{name: "no scheme", url: "localhost:6379", want: ErrInvalidURL},
		{name: "bad db number", url: "redis://localhost:6379/abc", want: ErrInvalidURL},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, err := Open(ctx, tc.url)
			require.ErrorIs(t, err, tc.want)
			require.Nil(t, client)
		})
	}

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Open(ctx, "redis://127.0.0.1:1/0", WithRetry(5, time.Hour), WithTimeout(50*time.Millisecond))
		require.ErrorIs(t, err, ErrUnreachable)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestOptions(t *testing.T) {
	t.Parallel()

	o := defaultOptions()
	require.Equal(t, 10, o.poolSize)
	require.Equal(t, 3, o.retryAttempts)

	for _, opt := range []Option{WithPoolSize(4), WithRetry(1, time.Second), WithTimeout(time.Second)} {
		opt(o)
	}
	require.Equal(t, 4, o.poolSize)
	require.Equal(t, 1, o.retryAttempts)
	require.Equal(t, time.Second, o.retryInterval)
	require.Equal(t, time.Second, o.timeout)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	err := Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, ErrUnhealthy)
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	c := &closer{}
	require.NoError(t, Shutdown(c)(context.Background()))
	require.True(t, c.closed)

	boom := errors.New("boom")
	require.ErrorIs(t, Shutdown(&closer{err: boom})(context.Background()), boom)
}
