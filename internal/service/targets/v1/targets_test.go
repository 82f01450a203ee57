package targets

import (
	"errors"
	"testing"

	targetErrors "github.com/Mohammademon02/income-tracking-api/internal/service/targets/v1/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefault(t *testing.T) {
	t.Parallel()

	store := NewStore()
	target := store.Get("some-user")
	assert.Equal(t, DefaultTargetPoints, target.Points)
	assert.Equal(t, float64(DefaultTargetEarnings), target.Earnings)
	assert.False(t, target.UpdatedAt.IsZero())

	// the default is never persisted, so a second read yields a timestamp
	// at least as fresh as the first one
	second := store.Get("some-user")
	assert.False(t, second.UpdatedAt.Before(target.UpdatedAt))
}

func TestSetAndGet(t *testing.T) {
	t.Parallel()

	store := NewStore()
	target, err := store.Set("some-user", 20000, 200)
	require.NoError(t, err)
	assert.Equal(t, 20000, target.Points)
	assert.Equal(t, float64(200), target.Earnings)

	stored := store.Get("some-user")
	assert.Equal(t, target, stored)

	// other users still see the default
	other := store.Get("other-user")
	assert.Equal(t, DefaultTargetPoints, other.Points)
}

func TestSetValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		points   float64
		earnings float64
		wantErr  bool
	}{
		{name: "points at lower bound", points: 1000, earnings: 100, wantErr: false},
		{name: "points at upper bound", points: 100000, earnings: 100, wantErr: false},
		{name: "points below lower bound", points: 999, earnings: 100, wantErr: true},
		{name: "points above upper bound", points: 100001, earnings: 100, wantErr: true},
		{name: "earnings at lower bound", points: 14000, earnings: 10, wantErr: false},
		{name: "earnings at upper bound", points: 14000, earnings: 1000, wantErr: false},
		{name: "earnings below lower bound", points: 14000, earnings: 9.99, wantErr: true},
		{name: "earnings above upper bound", points: 14000, earnings: 1000.01, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := NewStore()
			_, err := store.Set("some-user", tt.points, tt.earnings)
			if tt.wantErr {
				var invalidTargetError *targetErrors.InvalidTargetError
				require.Error(t, err)
				assert.True(t, errors.As(err, &invalidTargetError))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSetFailureLeavesStoreUnchanged(t *testing.T) {
	t.Parallel()

	store := NewStore()
	stored, err := store.Set("some-user", 20000, 200)
	require.NoError(t, err)

	_, err = store.Set("some-user", 50, 200)
	require.Error(t, err)

	assert.Equal(t, stored, store.Get("some-user"))
}
