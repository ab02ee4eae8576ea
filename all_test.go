package async

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	t.Run("all succeed", func(t *testing.T) {
		p1 := New[int]()
		p2 := New[int]()
		p3 := FromValue(3)

		all := All(p1, p2, p3)
		require.False(t, all.IsCompleted())

		p2.SetResult(2)
		require.False(t, all.IsCompleted())

		p1.SetResult(1)
		require.True(t, all.IsCompletedSuccessfully())
		assert.Equal(t, []int{1, 2, 3}, all.Value())
	})

	t.Run("first fault wins", func(t *testing.T) {
		failErr := newStrError()
		p1 := New[int]()
		p2 := New[int]()

		all := All(p1, p2)
		p2.SetError(failErr)

		require.True(t, all.IsFaulted())
		assert.ErrorIs(t, all.Err(), failErr)

		// a late success doesn't disturb the settled outcome
		p1.SetResult(1)
		assert.True(t, all.IsFaulted())
	})

	t.Run("cancellation propagates", func(t *testing.T) {
		p1 := New[int]()
		p2 := FromCanceled[int]()

		all := All(p1, p2)
		require.True(t, all.IsCanceled())
	})

	t.Run("no operations", func(t *testing.T) {
		all := All[int]()
		require.True(t, all.IsCompletedSuccessfully())
		assert.Empty(t, all.Value())
	})

	t.Run("nil operation", func(t *testing.T) {
		assert.Panics(t, func() { All(New[int](), nil) })
	})
}

func TestAny(t *testing.T) {
	t.Run("first settled wins", func(t *testing.T) {
		p1 := New[int]()
		p2 := New[int]()
		p3 := New[int]()

		any := Any(p1, p2, p3)
		require.False(t, any.IsCompleted())

		p2.SetResult(20)
		require.True(t, any.IsCompletedSuccessfully())
		got := any.Value()
		assert.Equal(t, 1, got.Idx)
		assert.Equal(t, 20, got.Val)

		// later completions are ignored
		p1.SetResult(10)
		assert.Equal(t, 20, any.Value().Val)
	})

	t.Run("first failure wins", func(t *testing.T) {
		failErr := newPtrError()
		p1 := New[int]()
		p2 := New[int]()

		any := Any(p1, p2)
		p1.SetError(failErr)

		require.True(t, any.IsFaulted())
		assert.ErrorIs(t, any.Err(), failErr)
	})

	t.Run("pre-settled operation", func(t *testing.T) {
		p1 := New[int]()
		p2 := FromValue(7)

		any := Any(p1, p2)
		require.True(t, any.IsCompletedSuccessfully())
		assert.Equal(t, IdxVal[int]{Idx: 1, Val: 7}, any.Value())
	})

	t.Run("no operations", func(t *testing.T) {
		any := Any[int]()
		require.True(t, any.IsCanceled())
	})
}

func TestWaitAll(t *testing.T) {
	assert.False(t, WaitAll[int]())

	p1 := Run(func() (int, error) { return 1, nil })
	p2 := Run(func() (int, error) { return 2, nil })
	require.True(t, WaitAll(p1, p2))
	assert.True(t, p1.IsCompleted())
	assert.True(t, p2.IsCompleted())
}

func TestIdxVal_String(t *testing.T) {
	assert.Equal(t, "[2]7", IdxVal[int]{Idx: 2, Val: 7}.String())
}
