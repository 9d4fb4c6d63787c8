package store

import (
	"encoding/json"
	"fmt"

	supa "github.com/supabase-community/supabase-go"
)

// PostgrestStore is the production Datastore: every operation is an
// auto-generated query/mutation call against the managed Postgres tables.
type PostgrestStore struct {
	client *supa.Client
}

// NewPostgrestStore wraps an initialized Supabase client.
func NewPostgrestStore(client *supa.Client) *PostgrestStore {
	return &PostgrestStore{client: client}
}

func (s *PostgrestStore) Insert(table string, record interface{}, into interface{}) error {
	body, _, err := s.client.From(table).
		Insert(record, false, "", "representation", "").
		Execute()
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	if into == nil {
		return nil
	}
	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("unmarshal %s insert response: %w", table, err)
	}
	return nil
}

func (s *PostgrestStore) Select(table string, filters Filters, into interface{}) error {
	query := s.client.From(table).Select("*", "", false)
	for column, value := range filters {
		query = query.Eq(column, value)
	}
	body, _, err := query.Execute()
	if err != nil {
		return fmt.Errorf("select from %s: %w", table, err)
	}
	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("unmarshal %s rows: %w", table, err)
	}
	return nil
}

func (s *PostgrestStore) Update(table string, filters Filters, changes map[string]interface{}, into interface{}) error {
	query := s.client.From(table).Update(changes, "representation", "")
	for column, value := range filters {
		query = query.Eq(column, value)
	}
	body, _, err := query.Execute()
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if into == nil {
		return nil
	}
	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("unmarshal %s update response: %w", table, err)
	}
	return nil
}

func (s *PostgrestStore) Delete(table string, filters Filters) error {
	query := s.client.From(table).Delete("", "")
	for column, value := range filters {
		query = query.Eq(column, value)
	}
	if _, _, err := query.Execute(); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}
