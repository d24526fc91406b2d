package search

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterRoundTrip(t *testing.T) {
	f := Filter{Category: "audio", Query: "noise cancelling"}

	parsed := ParseFilter(f.Values())
	assert.Equal(t, f, parsed)
}

func TestParseFilterIgnoresUnknownParams(t *testing.T) {
	values := url.Values{}
	values.Set("category", "audio")
	values.Set("page", "3")
	values.Set("utm_source", "ad")

	f := ParseFilter(values)
	assert.Equal(t, Filter{Category: "audio"}, f)
}

func TestEncodeOmitsEmptyFields(t *testing.T) {
	assert.Equal(t, "", Filter{}.Encode())
	assert.Equal(t, "q=lamp", Filter{Query: "lamp"}.Encode())
	assert.Equal(t, "category=home", Filter{Category: "home"}.Encode())
}

func TestIsZero(t *testing.T) {
	assert.True(t, Filter{}.IsZero())
	assert.False(t, Filter{Query: "x"}.IsZero())
}
