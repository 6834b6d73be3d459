package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
)

// ivfflatLists matches the lists option of chunks_embedding_ivfflat_idx.
// Probing every list makes the index scan exact, so a meeting filter never
// drops rows that a sequential scan would have returned.
const ivfflatLists = 100

// candidateSlack pads the approximate scan so rows whose fp16 distance
// rounds past the k-th place still reach the exact ranking.
const candidateSlack = 20

// candidateLimit is how many rows the halfvec scan hands to the exact ranking
func candidateLimit(k int) int {
	return 2*k + candidateSlack
}

type chunkRepository struct {
	db  *gorm.DB
	dim int
}

// NewChunkRepository creates a chunk repository for vectors of size dim
func NewChunkRepository(db *gorm.DB, dim int) repositories.ChunkRepository {
	return &chunkRepository{db: db, dim: dim}
}

func (r *chunkRepository) Dimension() int {
	return r.dim
}

func (r *chunkRepository) checkDimension(n int) error {
	if n != r.dim {
		return &entities.DimensionError{Expected: r.dim, Got: n}
	}
	return nil
}

func (r *chunkRepository) ReplaceForMeeting(ctx context.Context, meetingID uuid.UUID, source entities.ChunkSource, chunks []entities.Chunk) error {
	if !source.IsValid() {
		return entities.ErrInvalidSource
	}
	for i := range chunks {
		chunks[i].MeetingID = meetingID
		chunks[i].Source = source
		if chunks[i].Embedding != nil {
			if err := r.checkDimension(len(chunks[i].Embedding.Slice())); err != nil {
				return err
			}
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("meeting_id = ? AND source = ?", meetingID, string(source)).
			Delete(&entities.Chunk{}).Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		return tx.CreateInBatches(chunks, insertBatchSize).Error
	})
}

func (r *chunkRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID, source entities.ChunkSource) ([]entities.Chunk, error) {
	query := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID)
	if source != "" {
		query = query.Where("source = ?", string(source))
	}

	var chunks []entities.Chunk
	if err := query.Order("start_seconds ASC, id ASC").Find(&chunks).Error; err != nil {
		return nil, err
	}
	return chunks, nil
}

func (r *chunkRepository) MatchChunks(ctx context.Context, meetingID uuid.UUID, query []float32, k int, filter entities.ChunkFilter) ([]entities.MatchedChunk, error) {
	if err := r.checkDimension(len(query)); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = entities.DefaultMatchCount
	}

	// The halfvec expression matches the ivfflat index and only picks
	// candidates. fp16 rounding can swap near ties, so the candidate set is
	// padded and the outer query ranks on the exact vector distance.
	approx := fmt.Sprintf("(embedding::halfvec(%d)) <=> @query::halfvec(%d)", r.dim, r.dim)
	exact := "embedding <=> @query::vector"

	args := map[string]interface{}{
		"meeting_id": meetingID,
		"query":      pgvector.NewVector(query),
		"k":          k,
		"pool":       candidateLimit(k),
	}

	var where strings.Builder
	where.WriteString("meeting_id = @meeting_id AND embedding IS NOT NULL")
	if filter.Speaker != "" {
		where.WriteString(" AND speaker = @speaker")
		args["speaker"] = filter.Speaker
	}
	if filter.TimeStart != nil {
		where.WriteString(" AND end_seconds >= @time_start")
		args["time_start"] = *filter.TimeStart
	}
	if filter.TimeEnd != nil {
		where.WriteString(" AND start_seconds <= @time_end")
		args["time_end"] = *filter.TimeEnd
	}
	if filter.Source != "" {
		where.WriteString(" AND source = @source")
		args["source"] = string(filter.Source)
	}

	sql := fmt.Sprintf(`
		SELECT id, meeting_id, speaker, start_seconds, end_seconds, topic, text, source, embedding, created_at,
			1 - (%[3]s) AS similarity
		FROM (
			SELECT id, meeting_id, speaker, start_seconds, end_seconds, topic, text, source, embedding, created_at
			FROM chunks
			WHERE %[2]s
			ORDER BY %[1]s, id ASC
			LIMIT @pool
		) AS candidates
		ORDER BY %[3]s, id ASC
		LIMIT @k
	`, approx, where.String(), exact)

	var matches []entities.MatchedChunk
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf("SET LOCAL ivfflat.probes = %d", ivfflatLists)).Error; err != nil {
			return err
		}
		return tx.Raw(sql, args).Scan(&matches).Error
	})
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []entities.MatchedChunk{}
	}
	return matches, nil
}

func (r *chunkRepository) ColumnDimension(ctx context.Context) (int, error) {
	var dim int
	err := r.db.WithContext(ctx).Raw(`
		SELECT atttypmod
		FROM pg_attribute
		WHERE attrelid = 'chunks'::regclass AND attname = 'embedding'
	`).Scan(&dim).Error
	if err != nil {
		return 0, err
	}
	return dim, nil
}
