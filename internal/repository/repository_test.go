package repository

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	repos, err := Open(ctx, &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverMemory}})
	require.NoError(t, err)
	defer repos.Close(ctx)

	_, err = repos.Branches.Create(ctx, branch.Branch{ID: "br-1", Name: "Pune", PasswordHash: "x"})
	require.NoError(t, err)

	got, err := repos.Branches.GetByName(ctx, "Pune")
	require.NoError(t, err)
	assert.Equal(t, "br-1", got.ID)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "sqlite"}})
	assert.ErrorContains(t, err, "sqlite")
}
