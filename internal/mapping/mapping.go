// Package mapping associates template field keys with row-set column names and
// resolves a field's value against a data row.
package mapping

import "strings"

// Reserved names used when picking display/delivery columns out of a header.
const (
	identityKey      = "name"
	addressSubstring = "email"
	addressFallback  = "email"
)

// Mapping is the per-session association from field_key to a column name.
type Mapping map[string]string

// AutoMap builds the best-effort default mapping: for each field key, the first
// header whose value equals the key case-insensitively. Exact matches only; a
// key with no matching header is simply absent from the result.
func AutoMap(fieldKeys []string, headers []string) Mapping {
	m := make(Mapping, len(fieldKeys))
	for _, key := range fieldKeys {
		for _, h := range headers {
			if strings.EqualFold(h, key) {
				m[key] = h
				break
			}
		}
	}
	return m
}

// Placeholder returns the visible token rendered for an unmapped or empty
// field value, the field key wrapped in double braces.
func Placeholder(fieldKey string) string {
	return "{{" + fieldKey + "}}"
}

// Resolve returns the row's value for the column mapped to fieldKey. An
// unmapped key, a column missing from the row, or an empty value all fall back
// to the placeholder token so the gap is visually obvious instead of blank.
func Resolve(fieldKey string, m Mapping, row map[string]string) string {
	column, ok := m[fieldKey]
	if !ok {
		return Placeholder(fieldKey)
	}
	value := row[column]
	if value == "" {
		return Placeholder(fieldKey)
	}
	return value
}

// IdentityColumn picks the column used as the recipient's display identity:
// a case-insensitive match on the reserved "name" key, else the first header.
func IdentityColumn(headers []string) string {
	for _, h := range headers {
		if strings.EqualFold(h, identityKey) {
			return h
		}
	}
	if len(headers) > 0 {
		return headers[0]
	}
	return ""
}

// AddressColumn picks the delivery-address column: the first header containing
// "email" (case-insensitive), else the fixed fallback name.
func AddressColumn(headers []string) string {
	for _, h := range headers {
		if strings.Contains(strings.ToLower(h), addressSubstring) {
			return h
		}
	}
	return addressFallback
}
