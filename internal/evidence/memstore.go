package evidence

import "time"

type memRecord struct {
	content   string
	writtenAt time.Time
}

// MemStore is an in-memory Store keyed by kind, with an injected clock.
// It is used by tests to exercise freshness windows without real files.
type MemStore struct {
	now     func() time.Time
	records map[Kind]memRecord
	stderr  []memRecord
}

// NewMemStore creates a MemStore. A nil now defaults to time.Now.
func NewMemStore(now func() time.Time) *MemStore {
	if now == nil {
		now = time.Now
	}
	return &MemStore{
		now:     now,
		records: make(map[Kind]memRecord),
	}
}

func (s *MemStore) Write(kind Kind, content string) error {
	s.records[kind] = memRecord{content: content, writtenAt: s.now()}
	return nil
}

// WriteAt stores a record with an explicit write time, letting tests create
// records of arbitrary age.
func (s *MemStore) WriteAt(kind Kind, content string, writtenAt time.Time) {
	s.records[kind] = memRecord{content: content, writtenAt: writtenAt}
}

func (s *MemStore) Read(kind Kind) (string, bool) {
	record, ok := s.records[kind]
	if !ok || record.content == "" {
		return "", false
	}
	return record.content, true
}

func (s *MemStore) Age(kind Kind) (time.Duration, bool) {
	record, ok := s.records[kind]
	if !ok {
		return 0, false
	}
	return s.now().Sub(record.writtenAt), true
}

func (s *MemStore) Purge(kinds ...Kind) {
	for _, kind := range kinds {
		delete(s.records, kind)
	}
}

// AddStderrCapture records a stderr capture with an explicit write time.
func (s *MemStore) AddStderrCapture(content string, writtenAt time.Time) {
	s.stderr = append(s.stderr, memRecord{content: content, writtenAt: writtenAt})
}

func (s *MemStore) LatestStderrCapture() (StderrCapture, bool) {
	var latest *memRecord
	for i := range s.stderr {
		record := &s.stderr[i]
		if record.content == "" {
			continue
		}
		if latest == nil || record.writtenAt.After(latest.writtenAt) {
			latest = record
		}
	}
	if latest == nil {
		return StderrCapture{}, false
	}
	return StderrCapture{
		Content: latest.content,
		Age:     s.now().Sub(latest.writtenAt),
	}, true
}
