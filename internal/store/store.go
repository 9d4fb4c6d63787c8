// Package store is the data-access capability handed to handlers and
// processors. All business data lives in remotely-managed tables; this package
// only shuttles JSON rows in and out of them. Consistency, conflict handling
// and row-level authorization are owned by the backend platform.
package store

// Filters restricts an operation to rows whose column equals the given value.
// Values are compared as strings, matching how PostgREST takes them.
type Filters map[string]string

// Datastore exposes read/write/query operations over named collections. It is
// injected into each component rather than accessed as ambient global state,
// which also lets tests run against the in-memory implementation.
type Datastore interface {
	// Insert writes one record (or a slice of records) into a table. When into
	// is non-nil the backend's representation of the inserted rows is
	// unmarshalled into it.
	Insert(table string, record interface{}, into interface{}) error

	// Select reads every row matching the filters into the slice pointed to by
	// into. An empty filter set reads the whole table.
	Select(table string, filters Filters, into interface{}) error

	// Update applies the column changes to every row matching the filters.
	// When into is non-nil the updated rows are unmarshalled into it.
	Update(table string, filters Filters, changes map[string]interface{}, into interface{}) error

	// Delete removes every row matching the filters.
	Delete(table string, filters Filters) error
}
