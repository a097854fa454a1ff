package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	t.Parallel()

	a := New()
	b := New()
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}

func TestNewAtEncodesTime(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	got, err := Time(NewAt(ts))
	require.NoError(t, err)
	assert.True(t, got.Equal(ts))
}

func TestNewAtClampsOutOfRangeTimes(t *testing.T) {
	t.Parallel()

	var before string
	require.NotPanics(t, func() { before = NewAt(time.Date(1965, 6, 1, 0, 0, 0, 0, time.UTC)) })
	got, err := Time(before)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Unix(0, 0)))

	var after string
	require.NotPanics(t, func() { after = NewAt(time.Date(12000, 1, 1, 0, 0, 0, 0, time.UTC)) })
	_, err = Time(after)
	require.NoError(t, err)
	assert.Greater(t, after, before)
}

func TestTimeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Time("not-a-ulid")
	assert.Error(t, err)
}
