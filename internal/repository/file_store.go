package repository

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/shinyyama/checkin-points/internal/model"
	"github.com/shinyyama/checkin-points/internal/reqctx"
	log "github.com/sirupsen/logrus"
)

// snapshot is the on-disk layout of the file store.
type snapshot struct {
	Members        map[string]*model.Member        `json:"members"`
	Teams          map[string]*model.Team          `json:"teams"`
	Events         map[string]*model.Event         `json:"events"`
	CheckInRecords map[string]*model.CheckInRecord `json:"checkin_records"`
}

func newSnapshot() *snapshot {
	s := &snapshot{}
	s.fill()
	return s
}

func (s *snapshot) fill() {
	if s.Members == nil {
		s.Members = map[string]*model.Member{}
	}
	if s.Teams == nil {
		s.Teams = map[string]*model.Team{}
	}
	if s.Events == nil {
		s.Events = map[string]*model.Event{}
	}
	if s.CheckInRecords == nil {
		s.CheckInRecords = map[string]*model.CheckInRecord{}
	}
}

func (s *snapshot) clone() *snapshot {
	return &snapshot{
		Members:        cloneMap(s.Members),
		Teams:          cloneMap(s.Teams),
		Events:         cloneMap(s.Events),
		CheckInRecords: cloneMap(s.CheckInRecords),
	}
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

type fileStore struct {
	path string
	mu   sync.RWMutex
	data *snapshot
}

// NewFileStore keeps all records in memory and writes the full state to path after
// every successful Update. A missing file starts an empty store.
func NewFileStore(path string) (Store, error) {
	s := &fileStore{path: path, data: newSnapshot()}
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	data, err := decodeSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	s.data = data
	return s, nil
}

// zonelessLayout matches timestamps written without an offset, such as
// 2026-01-27T09:00:00.123456. They are read as local time.
const zonelessLayout = "2006-01-02T15:04:05"

var timestampFields = []string{"created_at", "checked_in_at"}

func decodeSnapshot(raw []byte) (*snapshot, error) {
	var doc map[string]map[string]map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	for name, coll := range doc {
		for id, rec := range coll {
			for _, field := range timestampFields {
				if err := normalizeTimestamp(rec, field); err != nil {
					return nil, fmt.Errorf("%s/%s: %w", name, id, err)
				}
			}
		}
	}
	norm, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var data snapshot
	if err := json.Unmarshal(norm, &data); err != nil {
		return nil, err
	}
	data.fill()
	return &data, nil
}

// normalizeTimestamp rewrites a zoneless or empty timestamp so time.Time can decode it.
func normalizeTimestamp(rec map[string]json.RawMessage, field string) error {
	v, ok := rec[field]
	if !ok {
		return nil
	}
	var str string
	if err := json.Unmarshal(v, &str); err != nil {
		// not a string; the typed decode reports it
		return nil
	}
	if str == "" {
		rec[field] = json.RawMessage("null")
		return nil
	}
	if _, err := time.Parse(time.RFC3339Nano, str); err == nil {
		return nil
	}
	t, err := time.ParseInLocation(zonelessLayout, str, time.Local)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	out, err := json.Marshal(t)
	if err != nil {
		return err
	}
	rec[field] = out
	return nil
}

// NewMemoryStore returns a file store that never touches disk.
func NewMemoryStore() Store {
	s, _ := NewFileStore("")
	return s
}

func (s *fileStore) View(ctx context.Context, fn func(Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(memTx{data: s.data})
}

func (s *fileStore) Update(ctx context.Context, fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	backup := s.data.clone()
	if err := fn(memTx{data: s.data}); err != nil {
		s.data = backup
		return err
	}
	if err := s.writeLocked(); err != nil {
		log.WithError(err).
			WithField("rid", reqctx.RequestID(ctx)).
			WithField("path", s.path).
			Warn("snapshot write failed; keeping in-memory state")
	}
	return nil
}

func (s *fileStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked()
}

func (s *fileStore) Close() error {
	return s.Persist(context.Background())
}

func (s *fileStore) writeLocked() error {
	if s.path == "" {
		return nil
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

type memTx struct {
	data *snapshot
}

func (t memTx) Members() Collection[model.Member] {
	return memCollection[model.Member]{
		items: t.data.Members,
		key:   func(m *model.Member) string { return m.ID },
		order: func(a, b *model.Member) int { return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID)) },
	}
}

func (t memTx) Teams() Collection[model.Team] {
	return memCollection[model.Team]{
		items: t.data.Teams,
		key:   func(m *model.Team) string { return m.ID },
		order: func(a, b *model.Team) int { return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID)) },
	}
}

func (t memTx) Events() Collection[model.Event] {
	return memCollection[model.Event]{
		items: t.data.Events,
		key:   func(m *model.Event) string { return m.ID },
		order: func(a, b *model.Event) int { return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID)) },
	}
}

func (t memTx) CheckIns() CheckInRepository {
	return memCheckIns{memCollection[model.CheckInRecord]{
		items: t.data.CheckInRecords,
		key:   func(r *model.CheckInRecord) string { return r.ID },
		order: func(a, b *model.CheckInRecord) int {
			return cmp.Or(a.CheckedInAt.Compare(b.CheckedInAt), cmp.Compare(a.ID, b.ID))
		},
	}}
}

type memCollection[T any] struct {
	items map[string]*T
	key   func(*T) string
	order func(a, b *T) int
}

func (c memCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	v, ok := c.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (c memCollection[T]) Put(ctx context.Context, v *T) error {
	cp := *v
	c.items[c.key(v)] = &cp
	return nil
}

func (c memCollection[T]) Delete(ctx context.Context, id string) error {
	if _, ok := c.items[id]; !ok {
		return ErrNotFound
	}
	delete(c.items, id)
	return nil
}

func (c memCollection[T]) List(ctx context.Context) ([]T, error) {
	return c.filter(func(*T) bool { return true }), nil
}

func (c memCollection[T]) Clear(ctx context.Context) (int64, error) {
	n := int64(len(c.items))
	clear(c.items)
	return n, nil
}

func (c memCollection[T]) filter(keep func(*T) bool) []T {
	ptrs := make([]*T, 0, len(c.items))
	for _, v := range c.items {
		if keep(v) {
			ptrs = append(ptrs, v)
		}
	}
	slices.SortFunc(ptrs, c.order)
	out := make([]T, 0, len(ptrs))
	for _, p := range ptrs {
		out = append(out, *p)
	}
	return out
}

type memCheckIns struct {
	memCollection[model.CheckInRecord]
}

func (r memCheckIns) Put(ctx context.Context, rec *model.CheckInRecord) error {
	if _, ok := r.items[rec.ID]; ok {
		return ErrDuplicateCheckIn
	}
	if _, err := r.FindByEventMember(ctx, rec.EventID, rec.MemberID); err == nil {
		return ErrDuplicateCheckIn
	}
	return r.memCollection.Put(ctx, rec)
}

func (r memCheckIns) FindByEventMember(ctx context.Context, eventID, memberID string) (*model.CheckInRecord, error) {
	for _, rec := range r.items {
		if rec.EventID == eventID && rec.MemberID == memberID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r memCheckIns) ListByEvent(ctx context.Context, eventID string) ([]model.CheckInRecord, error) {
	return r.filter(func(rec *model.CheckInRecord) bool { return rec.EventID == eventID }), nil
}

func (r memCheckIns) ListByMember(ctx context.Context, memberID string) ([]model.CheckInRecord, error) {
	return r.filter(func(rec *model.CheckInRecord) bool { return rec.MemberID == memberID }), nil
}

func (r memCheckIns) DeleteByMember(ctx context.Context, memberID string) (int64, error) {
	var n int64
	for id, rec := range r.items {
		if rec.MemberID == memberID {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}
