package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/albapepper/courtside-data/internal/config"
	"github.com/albapepper/courtside-data/internal/model"
)

func TestNameFilterEscapesInput(t *testing.T) {
	f := nameFilter("J.R. (Smith)")
	re, ok := f["name"].(primitive.Regex)
	assert.True(t, ok)
	assert.Equal(t, `J\.R\. \(Smith\)`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, isDuplicate(11000))
	assert.True(t, isDuplicate(11001))
	assert.False(t, isDuplicate(121))
}

func TestToDocs(t *testing.T) {
	docs := toDocs([]model.Game{{GameID: "a"}, {GameID: "b"}})
	assert.Len(t, docs, 2)
	assert.Equal(t, "b", docs[1].(model.Game).GameID)
}

func TestObjectIDDecodesIntoStringID(t *testing.T) {
	oid := primitive.NewObjectID()
	raw, err := bson.Marshal(bson.M{"_id": oid, "name": "LeBron James", "gameLogs": bson.A{}})
	require.NoError(t, err)

	var p model.Player
	require.NoError(t, bson.Unmarshal(raw, &p))
	assert.Equal(t, oid.Hex(), p.ID)
	assert.Equal(t, "LeBron James", p.Name)
}

func TestClientOptions(t *testing.T) {
	cfg := &config.Config{
		DatabaseURL:    "mongodb://localhost:27017",
		DBPoolMinConns: 1,
		DBPoolMaxConns: 10,
		DBPoolMaxLife:  30 * time.Minute,
		DBPoolMaxIdle:  5 * time.Minute,
	}
	opts := clientOptions(cfg, 3*time.Second)

	require.NotNil(t, opts.MaxConnIdleTime)
	assert.Equal(t, 5*time.Minute, *opts.MaxConnIdleTime)
	require.NotNil(t, opts.ConnectTimeout)
	assert.Equal(t, 3*time.Second, *opts.ConnectTimeout)
	require.NotNil(t, opts.MaxPoolSize)
	assert.Equal(t, uint64(10), *opts.MaxPoolSize)

	cfg.DBPoolMaxIdle = 0
	assert.Nil(t, clientOptions(cfg, time.Second).MaxConnIdleTime)
}
