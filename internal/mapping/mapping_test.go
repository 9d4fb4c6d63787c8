package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutoMapCaseInsensitiveExactMatch(t *testing.T) {
	m := AutoMap([]string{"name", "COURSE"}, []string{"Name", "email", "course"})

	assert.Equal(t, "Name", m["name"])
	assert.Equal(t, "course", m["COURSE"])
}

func TestAutoMapDoesNotFuzzyMatch(t *testing.T) {
	// A whitespace variant of the key must not map; matching is exact only.
	m := AutoMap([]string{"Name "}, []string{"name", "email"})
	_, ok := m["Name "]
	assert.False(t, ok)

	// Substrings do not count either.
	m = AutoMap([]string{"mail"}, []string{"email"})
	_, ok = m["mail"]
	assert.False(t, ok)
}

func TestAutoMapFirstHeaderWins(t *testing.T) {
	m := AutoMap([]string{"name"}, []string{"NAME", "Name"})
	assert.Equal(t, "NAME", m["name"])
}

func TestResolveMappedValue(t *testing.T) {
	m := Mapping{"name": "Name"}
	row := map[string]string{"Name": "Ada Lovelace"}
	assert.Equal(t, "Ada Lovelace", Resolve("name", m, row))
}

func TestResolveFallsBackToPlaceholder(t *testing.T) {
	row := map[string]string{"Name": "Ada Lovelace", "course": ""}

	// Unmapped key.
	assert.Equal(t, "{{course}}", Resolve("course", Mapping{}, row))
	// Mapped but empty value.
	assert.Equal(t, "{{course}}", Resolve("course", Mapping{"course": "course"}, row))
	// Mapped to a column the row does not carry.
	assert.Equal(t, "{{course}}", Resolve("course", Mapping{"course": "missing"}, row))
}

func TestIdentityColumn(t *testing.T) {
	assert.Equal(t, "NAME", IdentityColumn([]string{"email", "NAME"}))
	assert.Equal(t, "student", IdentityColumn([]string{"student", "email"}))
	assert.Equal(t, "", IdentityColumn(nil))
}

func TestAddressColumn(t *testing.T) {
	assert.Equal(t, "Email Address", AddressColumn([]string{"name", "Email Address"}))
	assert.Equal(t, "work_email", AddressColumn([]string{"name", "work_email", "home_email"}))
	assert.Equal(t, "email", AddressColumn([]string{"name", "course"}))
}
