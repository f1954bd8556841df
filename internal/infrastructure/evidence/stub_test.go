package evidence

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubEvidenceStore_Put(t *testing.T) {
	store := NewStubEvidenceStore()
	ownerID := uuid.New()

	t.Run("stores clip and returns owner-scoped key", func(t *testing.T) {
		key, err := store.Put(context.Background(), ownerID, []byte("audio-bytes"))

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(key, "stub/"+ownerID.String()+"/"))
		assert.True(t, strings.HasSuffix(key, ".ogg"))

		clip, ok := store.Get(key)
		require.True(t, ok)
		assert.Equal(t, []byte("audio-bytes"), clip)
	})

	t.Run("rejects empty payload", func(t *testing.T) {
		_, err := store.Put(context.Background(), ownerID, nil)
		require.Error(t, err)
	})

	t.Run("keys are unique per clip", func(t *testing.T) {
		k1, err := store.Put(context.Background(), ownerID, []byte("one"))
		require.NoError(t, err)
		k2, err := store.Put(context.Background(), ownerID, []byte("two"))
		require.NoError(t, err)
		assert.NotEqual(t, k1, k2)
	})
}
