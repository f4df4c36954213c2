package corpus

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/CTAG07/wordchain/pkg/markov"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSchemaIdempotent(t *testing.T) {
	db, _ := setupTestStore(t)
	require.NoError(t, SetupSchema(db))
}

func TestStoreDocuments(t *testing.T) {
	ctx := context.Background()
	_, s := setupTestStore(t)

	first, err := s.AddDocument(ctx, "first", strings.NewReader("the cat"))
	require.NoError(t, err)
	assert.Equal(t, "first", first.Name)
	assert.Equal(t, 7, first.Size)

	second, err := s.AddDocument(ctx, "second", strings.NewReader("sat down"))
	require.NoError(t, err)
	assert.Greater(t, second.Id, first.Id)

	t.Run("List in insertion order", func(t *testing.T) {
		docs, err := s.ListDocuments(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "first", docs[0].Name)
		assert.Equal(t, "second", docs[1].Name)
	})

	t.Run("Replace keeps position", func(t *testing.T) {
		replaced, err := s.AddDocument(ctx, "first", strings.NewReader("a dog"))
		require.NoError(t, err)
		assert.Equal(t, first.Id, replaced.Id)
		assert.Equal(t, 5, replaced.Size)

		docs, err := s.ListDocuments(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, Document{Id: first.Id, Name: "first", Size: 5}, docs[0])
	})

	t.Run("Empty name rejected", func(t *testing.T) {
		_, err := s.AddDocument(ctx, "", strings.NewReader("x"))
		assert.Error(t, err)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, s.RemoveDocument(ctx, "second"))

		err := s.RemoveDocument(ctx, "second")
		assert.True(t, errors.Is(err, ErrDocumentNotFound), "expected ErrDocumentNotFound, got %v", err)

		docs, err := s.ListDocuments(ctx)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})
}

func TestStoreSource(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty store", func(t *testing.T) {
		_, s := setupTestStore(t)
		rc, err := s.Source().Open(ctx)
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Empty(t, data)
		require.NoError(t, rc.Close())
	})

	t.Run("Documents joined by newline", func(t *testing.T) {
		_, s := setupTestStore(t)
		_, err := s.AddDocument(ctx, "a", strings.NewReader("the cat"))
		require.NoError(t, err)
		_, err = s.AddDocument(ctx, "b", strings.NewReader("sat down"))
		require.NoError(t, err)

		rc, err := s.Source().Open(ctx)
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "the cat\nsat down\n", string(data))
		require.NoError(t, rc.Close())
	})

	t.Run("Early close", func(t *testing.T) {
		_, s := setupTestStore(t)
		_, err := s.AddDocument(ctx, "a", strings.NewReader(strings.Repeat("word ", 10000)))
		require.NoError(t, err)

		rc, err := s.Source().Open(ctx)
		require.NoError(t, err)
		buf := make([]byte, 16)
		_, err = io.ReadFull(rc, buf)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
	})

	t.Run("Trains across documents", func(t *testing.T) {
		_, s := setupTestStore(t)
		_, err := s.AddDocument(ctx, "a", strings.NewReader("the cat"))
		require.NoError(t, err)
		_, err = s.AddDocument(ctx, "b", strings.NewReader("sat down"))
		require.NoError(t, err)

		g := markov.NewGenerator(nil)
		graph, err := g.TrainFrom(ctx, s.Source())
		require.NoError(t, err)
		assert.Same(t, graph, g.Graph())

		assert.Equal(t, 4, graph.Len())
		node, err := graph.Lookup("cat")
		require.NoError(t, err)
		assert.Equal(t, 1, node.Count("sat"))
	})
}
