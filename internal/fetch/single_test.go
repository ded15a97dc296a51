package fetch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleLoad(t *testing.T) {
	s := NewSingle(func(ctx context.Context) (string, error) {
		return "value", nil
	})

	_, ok := s.Value()
	assert.False(t, ok, "nothing loaded yet")

	s.Load(context.Background())
	require.NoError(t, s.Err())

	v, ok := s.Value()
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestSingleFailedReloadKeepsValue(t *testing.T) {
	fail := false
	s := NewSingle(func(ctx context.Context) (int, error) {
		if fail {
			return 0, errors.New("backend down")
		}
		return 42, nil
	})
	ctx := context.Background()

	s.Load(ctx)
	require.NoError(t, s.Err())

	fail = true
	s.Load(ctx)
	assert.Error(t, s.Err())

	v, ok := s.Value()
	assert.True(t, ok, "previous value survives a failed reload")
	assert.Equal(t, 42, v)
}
