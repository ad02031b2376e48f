package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueues(t *testing.T) {
	t.Run("defaults to a single stage", func(t *testing.T) {
		qs := NewQueues(nil)

		assert.Equal(t, []string{DefaultStage}, qs.Names())
		assert.Same(t, qs.Stage(DefaultStage), qs.Stage(""))
	})

	t.Run("drops pushes to unknown stages", func(t *testing.T) {
		log := []string{}
		qs := NewQueues([]string{"a"})

		qs.Push("nope", nil, logTask(&log, "task"))
		qs.PushOnce("nope", nil, logTask(&log, "task"))

		assert.True(t, qs.IsEmpty())
		require.NoError(t, qs.Go(""))
		assert.Empty(t, log)
	})

	t.Run("drains stages in order", func(t *testing.T) {
		log := []string{}
		qs := NewQueues([]string{"a", "b"})

		qs.Push("b", nil, logTask(&log, "b"))
		qs.Push("a", nil, logTask(&log, "a"))

		require.NoError(t, qs.Go(""))

		assert.Equal(t, []string{"a", "b"}, log)
		assert.True(t, qs.IsEmpty())
	})

	t.Run("push once targets the named stage", func(t *testing.T) {
		qs := NewQueues([]string{"a", "b"})
		task := NewTask(func([]any) error { return nil })

		qs.PushOnce("b", nil, task)
		qs.PushOnce("b", nil, task)

		assert.True(t, qs.Stage("a").IsEmpty())
		priority, ok := qs.Stage("b").Priority(nil, task)
		require.True(t, ok)
		assert.Equal(t, 2, priority)
	})

	t.Run("resumes at an earlier stage that received work", func(t *testing.T) {
		log := []string{}
		qs := NewQueues([]string{"a", "b", "c"})

		qs.Push("a", nil, logTask(&log, "a1"))
		qs.Push("b", nil, NewTask(func([]any) error {
			log = append(log, "b1")
			qs.Push("a", nil, logTask(&log, "a2"))
			return nil
		}))
		qs.Push("c", nil, logTask(&log, "c1"))

		require.NoError(t, qs.Go(""))

		assert.Equal(t, []string{"a1", "b1", "a2", "c1"}, log)
	})

	t.Run("settles a stage before moving on", func(t *testing.T) {
		log := []string{}
		qs := NewQueues([]string{"a", "b"})

		qs.Push("a", nil, NewTask(func([]any) error {
			log = append(log, "a1")
			qs.Push("a", nil, logTask(&log, "a2"))
			return nil
		}))
		qs.Push("b", nil, logTask(&log, "b1"))

		require.NoError(t, qs.Go(""))

		assert.Equal(t, []string{"a1", "a2", "b1"}, log)
	})

	t.Run("starts at the named stage", func(t *testing.T) {
		log := []string{}
		qs := NewQueues([]string{"a", "b"})

		qs.Push("a", nil, logTask(&log, "a"))
		qs.Push("b", nil, logTask(&log, "b"))

		require.NoError(t, qs.Go("b"))

		assert.Equal(t, []string{"b", "a"}, log)
		assert.True(t, qs.IsEmpty())
	})

	t.Run("drains work pushed before the start stage", func(t *testing.T) {
		log := []string{}
		qs := NewQueues([]string{"a", "b", "c"})

		qs.Push("b", nil, NewTask(func([]any) error {
			log = append(log, "b1")
			qs.Push("a", nil, logTask(&log, "a1"))
			return nil
		}))
		qs.Push("c", nil, logTask(&log, "c1"))

		require.NoError(t, qs.Go("b"))

		assert.Equal(t, []string{"b1", "a1", "c1"}, log)
		assert.True(t, qs.IsEmpty())
	})
}
