package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/courtside-data/internal/config"
	"github.com/albapepper/courtside-data/internal/logging"
	"github.com/albapepper/courtside-data/internal/store"
)

func TestOpenMemory(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, &config.Config{StoreDriver: config.DriverMemory}, logging.Discard())
	require.NoError(t, err)
	defer st.Close(ctx)

	assert.NoError(t, st.Ping(ctx))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreDriver: "cassandra"}, logging.Discard())
	assert.ErrorIs(t, err, store.ErrUnsupportedDriver)
}
