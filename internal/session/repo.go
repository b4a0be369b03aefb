package session

import (
	"encoding/json"
	"fmt"
	"sync"
)

// KV is the durable key-value provider the core persists through. The sqlite
// store satisfies it in production; MemoryKV stands in for tests.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

const (
	activeKey          = "session/active"
	milestoneKeyPrefix = "session/milestone/"
)

// Repository reads and writes the active session record and its milestone
// dedup flag. At most one record exists at a time.
type Repository struct {
	kv KV
}

func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

// Load returns the active record, or nil when none exists.
func (r *Repository) Load() (*Record, error) {
	data, ok, err := r.kv.Get(activeKey)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &rec, nil
}

func (r *Repository) Save(rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.kv.Set(activeKey, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear deletes the record and its milestone flag. A later tick observes no
// active session and becomes a no-op, which keeps completion exactly-once.
func (r *Repository) Clear(rec *Record) error {
	if err := r.kv.Delete(activeKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if err := r.kv.Delete(milestoneKey(rec.ID)); err != nil {
		return fmt.Errorf("clear milestone flag: %w", err)
	}
	return nil
}

// MilestoneSent reports whether the progress milestone already fired for the
// session with the given ID. The flag is keyed by ID rather than the time
// anchor so that a resume, which rewrites the anchor, cannot re-arm it.
func (r *Repository) MilestoneSent(id string) (bool, error) {
	_, ok, err := r.kv.Get(milestoneKey(id))
	if err != nil {
		return false, fmt.Errorf("read milestone flag: %w", err)
	}
	return ok, nil
}

func (r *Repository) MarkMilestone(id string) error {
	if err := r.kv.Set(milestoneKey(id), []byte("1")); err != nil {
		return fmt.Errorf("mark milestone: %w", err)
	}
	return nil
}

func milestoneKey(id string) string {
	return milestoneKeyPrefix + id
}

// MemoryKV is an in-process KV for tests and ephemeral runs.
type MemoryKV struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: make(map[string][]byte)}
}

func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.m[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.m[key] = v
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.m, key)
	return nil
}
