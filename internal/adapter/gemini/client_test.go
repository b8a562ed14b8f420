package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestNew_DefaultsEmbeddingModel(t *testing.T) {
	c, err := New(context.Background(), Config{APIKey: "test-key", ChatModel: "gemini-1.5-flash"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-embedding-001", c.embedModel)
}

func TestClient_Embed_EmptyText(t *testing.T) {
	c, err := New(context.Background(), Config{APIKey: "test-key"})
	require.NoError(t, err)

	// must short-circuit before any network call
	v, err := c.Embed(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestClient_EmbedBatch_Empty(t *testing.T) {
	c, err := New(context.Background(), Config{APIKey: "test-key"})
	require.NoError(t, err)

	rows, err := c.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
