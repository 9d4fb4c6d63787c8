package store

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Datastore used by tests and for running the
// gateway without a backend. Rows are held as decoded JSON objects so the
// filter semantics match the string comparisons PostgREST performs.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string][]map[string]interface{}
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][]map[string]interface{})}
}

func (s *MemoryStore) Insert(table string, record interface{}, into interface{}) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}

	// Accept a single record or a slice of records, like the remote API does.
	var rows []map[string]interface{}
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	} else {
		var row map[string]interface{}
		if err := json.Unmarshal(raw, &row); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
		rows = []map[string]interface{}{row}
	}

	s.mu.Lock()
	s.tables[table] = append(s.tables[table], rows...)
	s.mu.Unlock()

	return remarshal(rows, into)
}

func (s *MemoryStore) Select(table string, filters Filters, into interface{}) error {
	s.mu.Lock()
	matched := make([]map[string]interface{}, 0)
	for _, row := range s.tables[table] {
		if rowMatches(row, filters) {
			matched = append(matched, row)
		}
	}
	s.mu.Unlock()

	raw, err := json.Marshal(matched)
	if err != nil {
		return fmt.Errorf("select from %s: %w", table, err)
	}
	return json.Unmarshal(raw, into)
}

func (s *MemoryStore) Update(table string, filters Filters, changes map[string]interface{}, into interface{}) error {
	s.mu.Lock()
	updated := make([]map[string]interface{}, 0)
	for _, row := range s.tables[table] {
		if !rowMatches(row, filters) {
			continue
		}
		// Round-trip the changes through JSON so stored values keep the same
		// shapes a remote representation response would have.
		raw, err := json.Marshal(changes)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("update %s: %w", table, err)
		}
		var normalized map[string]interface{}
		if err := json.Unmarshal(raw, &normalized); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("update %s: %w", table, err)
		}
		for column, value := range normalized {
			row[column] = value
		}
		updated = append(updated, row)
	}
	s.mu.Unlock()

	return remarshal(updated, into)
}

func (s *MemoryStore) Delete(table string, filters Filters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tables[table][:0]
	for _, row := range s.tables[table] {
		if !rowMatches(row, filters) {
			kept = append(kept, row)
		}
	}
	s.tables[table] = kept
	return nil
}

// Count returns the number of rows matching the filters, handy in tests.
func (s *MemoryStore) Count(table string, filters Filters) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, row := range s.tables[table] {
		if rowMatches(row, filters) {
			n++
		}
	}
	return n
}

func rowMatches(row map[string]interface{}, filters Filters) bool {
	for column, want := range filters {
		value, ok := row[column]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", value) != want {
			return false
		}
	}
	return true
}

func remarshal(rows []map[string]interface{}, into interface{}) error {
	if into == nil {
		return nil
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, into)
}
