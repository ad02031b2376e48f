package internal

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingQueue() *Queue {
	q := NewQueue("test", WithErrorPolicy(ReportErrors, nil))
	q.Push(nil, NewTask(func([]any) error { return errors.New("boom") }))
	return q
}

func TestLogger(t *testing.T) {
	t.Run("reported failures are logged", func(t *testing.T) {
		defer SetLogger(nil)

		var buf bytes.Buffer
		SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

		require.NoError(t, failingQueue().Go(false))

		assert.Contains(t, buf.String(), "pro: task failed")
		assert.Contains(t, buf.String(), "queue=test")
	})

	t.Run("nil restores the default logger", func(t *testing.T) {
		SetLogger(slog.New(slog.DiscardHandler))
		SetLogger(nil)

		assert.Same(t, slog.Default(), logger())
	})

	t.Run("can be swapped while other goroutines log", func(t *testing.T) {
		defer SetLogger(nil)
		SetLogger(slog.New(slog.DiscardHandler))

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 50 {
					assert.NoError(t, failingQueue().Go(false))
				}
			}()
		}

		for range 50 {
			SetLogger(slog.New(slog.DiscardHandler))
		}
		wg.Wait()
	})
}
