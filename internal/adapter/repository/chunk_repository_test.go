package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

func TestCandidateLimit(t *testing.T) {
	for _, k := range []int{1, 5, 10, 50} {
		pool := candidateLimit(k)
		assert.Greater(t, pool, k, "k=%d", k)
		assert.GreaterOrEqual(t, pool, 2*k, "k=%d", k)
	}
}

func TestChunkRepository_RejectsDimensionBeforeQuerying(t *testing.T) {
	// nil db: the dimension check must fail before any SQL runs
	repo := NewChunkRepository(nil, 4)

	_, err := repo.MatchChunks(context.Background(), uuid.New(), []float32{1, 0}, 5, entities.ChunkFilter{})
	var dimErr *entities.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 4, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)
}
