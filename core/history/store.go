package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no execution has the requested id.
var ErrNotFound = errors.New("execution not found")

// Store persists execution records.
type Store interface {
	Save(ctx context.Context, rec *ExecutionRecord) error
	// List returns the newest records first. An empty workflow matches all
	// workflows; limit <= 0 returns every record.
	List(ctx context.Context, workflow string, limit int) ([]ExecutionRecord, error)
	Get(ctx context.Context, id string) (*ExecutionRecord, error)
}

// NewStore returns a gorm backed store, or an in-memory store when db is nil.
func NewStore(db *gorm.DB) Store {
	if db == nil {
		return NewMemoryStore()
	}
	return &gormStore{db: db}
}

// Migrate creates or updates the history table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&ExecutionRecord{}); err != nil {
		return fmt.Errorf("failed to migrate execution history: %w", err)
	}
	return nil
}

type gormStore struct {
	db *gorm.DB
}

func (s *gormStore) Save(ctx context.Context, rec *ExecutionRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save execution %s: %w", rec.ID, err)
	}
	return nil
}

func (s *gormStore) List(ctx context.Context, workflow string, limit int) ([]ExecutionRecord, error) {
	q := s.db.WithContext(ctx).Model(&ExecutionRecord{})
	if workflow != "" {
		q = q.Where("workflow = ?", workflow)
	}
	q = q.Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recs []ExecutionRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	return recs, nil
}

func (s *gormStore) Get(ctx context.Context, id string) (*ExecutionRecord, error) {
	var rec ExecutionRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load execution %s: %w", id, err)
	}
	return &rec, nil
}

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]ExecutionRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]ExecutionRecord)}
}

func (s *MemoryStore) Save(_ context.Context, rec *ExecutionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = *rec
	return nil
}

func (s *MemoryStore) List(_ context.Context, workflow string, limit int) ([]ExecutionRecord, error) {
	s.mu.RLock()
	out := make([]ExecutionRecord, 0, len(s.records))
	for _, rec := range s.records {
		if workflow == "" || rec.Workflow == workflow {
			out = append(out, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*ExecutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &rec, nil
}
