// Package testutil holds in-memory stand-ins for the repositories and
// providers so usecases and handlers can be tested without Postgres.
package testutil

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
)

// DB is a shared in-memory backing store. Deleting a meeting cascades to
// every dependent record like the real foreign keys do.
type DB struct {
	mu         sync.Mutex
	dim        int
	meetings   map[uuid.UUID]*entities.Meeting
	utterances map[uuid.UUID][]entities.Utterance
	chunks     []entities.Chunk
	summaries  map[uuid.UUID]*entities.Summary
	jobs       map[string]*entities.AsrJob
	files      []entities.File
	nextID     int64

	Meetings   *MeetingRepo
	Utterances *UtteranceRepo
	Chunks     *ChunkRepo
	Summaries  *SummaryRepo
	AsrJobs    *AsrJobRepo
	Files      *FileRepo
}

// NewDB creates an empty store whose chunk column has dimension dim
func NewDB(dim int) *DB {
	db := &DB{
		dim:        dim,
		meetings:   make(map[uuid.UUID]*entities.Meeting),
		utterances: make(map[uuid.UUID][]entities.Utterance),
		summaries:  make(map[uuid.UUID]*entities.Summary),
		jobs:       make(map[string]*entities.AsrJob),
	}
	db.Meetings = &MeetingRepo{db}
	db.Utterances = &UtteranceRepo{db}
	db.Chunks = &ChunkRepo{db}
	db.Summaries = &SummaryRepo{db}
	db.AsrJobs = &AsrJobRepo{db}
	db.Files = &FileRepo{db}
	return db
}

func (db *DB) id() int64 {
	db.nextID++
	return db.nextID
}

// AddMeeting inserts a meeting in the given status and returns it
func (db *DB) AddMeeting(status entities.MeetingStatus) *entities.Meeting {
	m := entities.NewMeeting("test meeting", true)
	m.Status = status
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := *m
	db.meetings[m.ID] = &cp
	return m
}

// Status returns the stored status of a meeting
func (db *DB) Status(id uuid.UUID) entities.MeetingStatus {
	db.mu.Lock()
	defer db.mu.Unlock()
	if m, ok := db.meetings[id]; ok {
		return m.Status
	}
	return ""
}

// MeetingRepo implements repositories.MeetingRepository
type MeetingRepo struct{ db *DB }

var _ repositories.MeetingRepository = (*MeetingRepo)(nil)

func (r *MeetingRepo) Create(_ context.Context, meeting *entities.Meeting) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if meeting.ID == uuid.Nil {
		meeting.ID = uuid.New()
	}
	cp := *meeting
	r.db.meetings[meeting.ID] = &cp
	return nil
}

func (r *MeetingRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.meetings[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *MeetingRepo) List(_ context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*entities.Meeting, 0, len(r.db.meetings))
	for _, m := range r.db.meetings {
		if filters.Status != nil && m.Status != *filters.Status {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			return []*entities.Meeting{}, nil
		}
		out = out[filters.Offset:]
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (r *MeetingRepo) TransitionStatus(_ context.Context, id uuid.UUID, status entities.MeetingStatus, errMsg *string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.meetings[id]
	if !ok || !m.Status.CanTransitionTo(status) {
		return false, nil
	}
	m.Status = status
	m.UpdatedAt = time.Now()
	if status == entities.MeetingStatusError {
		m.Error = errMsg
	} else {
		m.Error = nil
	}
	return true, nil
}

func (r *MeetingRepo) UpdateVideoURL(_ context.Context, id uuid.UUID, url string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if m, ok := r.db.meetings[id]; ok {
		m.VideoURL = &url
	}
	return nil
}

func (r *MeetingRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.meetings[id]; !ok {
		return false, nil
	}
	delete(r.db.meetings, id)
	delete(r.db.utterances, id)
	delete(r.db.summaries, id)
	r.db.chunks = filterChunks(r.db.chunks, func(c entities.Chunk) bool { return c.MeetingID != id })
	kept := r.db.files[:0]
	for _, f := range r.db.files {
		if f.MeetingID != id {
			kept = append(kept, f)
		}
	}
	r.db.files = kept
	for k, j := range r.db.jobs {
		if j.MeetingID == id {
			delete(r.db.jobs, k)
		}
	}
	return true, nil
}

func (r *MeetingRepo) Stats(_ context.Context, id uuid.UUID) (*entities.MeetingStats, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stats := &entities.MeetingStats{
		Utterances: int64(len(r.db.utterances[id])),
	}
	for _, c := range r.db.chunks {
		if c.MeetingID == id {
			stats.Chunks++
		}
	}
	for _, f := range r.db.files {
		if f.MeetingID == id {
			stats.Files++
		}
	}
	for _, j := range r.db.jobs {
		if j.MeetingID == id {
			stats.AsrJobs++
		}
	}
	_, stats.HasSummary = r.db.summaries[id]
	return stats, nil
}

// UtteranceRepo implements repositories.UtteranceRepository
type UtteranceRepo struct{ db *DB }

var _ repositories.UtteranceRepository = (*UtteranceRepo)(nil)

func (r *UtteranceRepo) ReplaceForMeeting(_ context.Context, meetingID uuid.UUID, utterances []entities.Utterance) error {
	rows := make([]entities.Utterance, len(utterances))
	for i, u := range utterances {
		if err := u.Validate(); err != nil {
			return err
		}
		u.MeetingID = meetingID
		rows[i] = u
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range rows {
		rows[i].ID = r.db.id()
	}
	r.db.utterances[meetingID] = rows
	return nil
}

func (r *UtteranceRepo) ListByMeeting(_ context.Context, meetingID uuid.UUID, filter entities.UtteranceFilter) ([]entities.Utterance, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []entities.Utterance{}
	for _, u := range r.db.utterances[meetingID] {
		if filter.Speaker != "" && u.Speaker != filter.Speaker {
			continue
		}
		if filter.Start != nil && u.EndSeconds < *filter.Start {
			continue
		}
		if filter.End != nil && u.StartSeconds > *filter.End {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(u.Text), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, u)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartSeconds < out[j].StartSeconds })
	return out, nil
}

// ChunkRepo implements repositories.ChunkRepository with brute force search
type ChunkRepo struct{ db *DB }

var _ repositories.ChunkRepository = (*ChunkRepo)(nil)

func (r *ChunkRepo) Dimension() int { return r.db.dim }

func (r *ChunkRepo) ColumnDimension(context.Context) (int, error) { return r.db.dim, nil }

func (r *ChunkRepo) ReplaceForMeeting(_ context.Context, meetingID uuid.UUID, source entities.ChunkSource, chunks []entities.Chunk) error {
	if !source.IsValid() {
		return entities.ErrInvalidSource
	}
	for _, c := range chunks {
		if c.Embedding != nil && len(c.Embedding.Slice()) != r.db.dim {
			return &entities.DimensionError{Expected: r.db.dim, Got: len(c.Embedding.Slice())}
		}
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.chunks = filterChunks(r.db.chunks, func(c entities.Chunk) bool {
		return c.MeetingID != meetingID || c.Source != source
	})
	for _, c := range chunks {
		c.ID = r.db.id()
		c.MeetingID = meetingID
		c.Source = source
		r.db.chunks = append(r.db.chunks, c)
	}
	return nil
}

// Put stores a chunk as is, for seeding search tests
func (r *ChunkRepo) Put(c entities.Chunk) int64 {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c.ID = r.db.id()
	if c.Source == "" {
		c.Source = entities.ChunkSourceTranscript
	}
	r.db.chunks = append(r.db.chunks, c)
	return c.ID
}

func (r *ChunkRepo) ListByMeeting(_ context.Context, meetingID uuid.UUID, source entities.ChunkSource) ([]entities.Chunk, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []entities.Chunk{}
	for _, c := range r.db.chunks {
		if c.MeetingID == meetingID && (source == "" || c.Source == source) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartSeconds < out[j].StartSeconds })
	return out, nil
}

func (r *ChunkRepo) MatchChunks(_ context.Context, meetingID uuid.UUID, query []float32, k int, filter entities.ChunkFilter) ([]entities.MatchedChunk, error) {
	if len(query) != r.db.dim {
		return nil, &entities.DimensionError{Expected: r.db.dim, Got: len(query)}
	}
	if k <= 0 {
		k = entities.DefaultMatchCount
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := []entities.MatchedChunk{}
	for _, c := range r.db.chunks {
		if c.MeetingID != meetingID || c.Embedding == nil {
			continue
		}
		if filter.Speaker != "" && c.SpeakerLabel() != filter.Speaker {
			continue
		}
		if filter.TimeStart != nil && c.EndSeconds < *filter.TimeStart {
			continue
		}
		if filter.TimeEnd != nil && c.StartSeconds > *filter.TimeEnd {
			continue
		}
		if filter.Source != "" && c.Source != filter.Source {
			continue
		}
		out = append(out, entities.MatchedChunk{Chunk: c, Similarity: Cosine(query, c.Embedding.Slice())})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// SummaryRepo implements repositories.SummaryRepository
type SummaryRepo struct{ db *DB }

var _ repositories.SummaryRepository = (*SummaryRepo)(nil)

func (r *SummaryRepo) Upsert(_ context.Context, summary *entities.Summary) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *summary
	cp.UpdatedAt = time.Now()
	r.db.summaries[summary.MeetingID] = &cp
	return nil
}

func (r *SummaryRepo) FindByMeetingID(_ context.Context, meetingID uuid.UUID) (*entities.Summary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.summaries[meetingID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// AsrJobRepo implements repositories.AsrJobRepository
type AsrJobRepo struct{ db *DB }

var _ repositories.AsrJobRepository = (*AsrJobRepo)(nil)

func (r *AsrJobRepo) Create(_ context.Context, job *entities.AsrJob) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.jobs[job.ID]; ok {
		return errors.New("duplicate asr job")
	}
	cp := *job
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now()
	}
	r.db.jobs[job.ID] = &cp
	return nil
}

func (r *AsrJobRepo) FindByID(_ context.Context, id string) (*entities.AsrJob, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	j, ok := r.db.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (r *AsrJobRepo) ListStale(_ context.Context, before time.Time, limit int) ([]entities.AsrJob, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []entities.AsrJob{}
	for _, j := range r.db.jobs {
		if !j.Status.IsTerminal() && j.UpdatedAt.Before(before) {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].UpdatedAt.Before(out[k].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AsrJobRepo) UpdateStatus(_ context.Context, id string, status entities.AsrJobStatus, errMsg *string, raw []byte) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	j, ok := r.db.jobs[id]
	if !ok {
		return entities.ErrAsrJobNotFound
	}
	j.Status = status
	j.Error = errMsg
	if len(raw) > 0 {
		j.Raw = raw
	}
	j.UpdatedAt = time.Now()
	return nil
}

func (r *AsrJobRepo) Touch(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if j, ok := r.db.jobs[id]; ok {
		j.UpdatedAt = time.Now()
	}
	return nil
}

// Age moves a job's updated_at into the past so pollers pick it up
func (r *AsrJobRepo) Age(id string, by time.Duration) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if j, ok := r.db.jobs[id]; ok {
		j.UpdatedAt = j.UpdatedAt.Add(-by)
	}
}

// FileRepo implements repositories.FileRepository
type FileRepo struct{ db *DB }

var _ repositories.FileRepository = (*FileRepo)(nil)

func (r *FileRepo) Create(_ context.Context, file *entities.File) error {
	if !file.Kind.IsValid() {
		return errors.New("invalid file kind")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	file.ID = r.db.id()
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now()
	}
	r.db.files = append(r.db.files, *file)
	return nil
}

func (r *FileRepo) Replace(ctx context.Context, file *entities.File) error {
	if !file.Kind.IsValid() {
		return errors.New("invalid file kind")
	}
	r.db.mu.Lock()
	kept := r.db.files[:0]
	for _, f := range r.db.files {
		if f.MeetingID != file.MeetingID || f.Kind != file.Kind {
			kept = append(kept, f)
		}
	}
	r.db.files = kept
	r.db.mu.Unlock()
	return r.Create(ctx, file)
}

func (r *FileRepo) ListByMeeting(_ context.Context, meetingID uuid.UUID, kind entities.FileKind) ([]entities.File, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []entities.File{}
	for i := len(r.db.files) - 1; i >= 0; i-- {
		f := r.db.files[i]
		if f.MeetingID == meetingID && (kind == "" || f.Kind == kind) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *FileRepo) LatestByKind(ctx context.Context, meetingID uuid.UUID, kind entities.FileKind) (*entities.File, error) {
	files, _ := r.ListByMeeting(ctx, meetingID, kind)
	if len(files) == 0 {
		return nil, nil
	}
	return &files[0], nil
}

func filterChunks(in []entities.Chunk, keep func(entities.Chunk) bool) []entities.Chunk {
	out := in[:0]
	for _, c := range in {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Cosine returns the cosine similarity of a and b
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Vec is shorthand for an embedding pointer
func Vec(values ...float32) *pgvector.Vector {
	v := pgvector.NewVector(values)
	return &v
}
