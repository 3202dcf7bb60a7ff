package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePopulation(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"2.1 млн", 2_100_000, true},
		{"13.9 млн", 13_900_000, true},
		{"10.5 млн", 10_500_000, true},
		{"67.4 млн", 67_400_000, true},
		{"2,5 млн", 2_500_000, true},
		{"8 млн", 8_000_000, true},
		{"Не указано", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePopulation(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArea(t *testing.T) {
	got, ok := ParseArea("643,801 км²")
	assert.True(t, ok)
	assert.Equal(t, int64(643801), got)

	got, ok = ParseArea("9,833,520 км²")
	assert.True(t, ok)
	assert.Equal(t, int64(9833520), got)

	_, ok = ParseArea("unknown")
	assert.False(t, ok)
}

func TestProvider_EmbeddedData(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	assert.Len(t, p.Countries(), 6)
	assert.Len(t, p.Cities(), 6)
	assert.Len(t, p.Attractions(), 6)
	assert.NotEmpty(t, p.Continents())

	paris, ok := p.City("1")
	require.True(t, ok)
	assert.Equal(t, "Париж", paris.Name)
	assert.Equal(t, "Франция", paris.Country)
	require.NotNil(t, paris.Latitude)
	assert.InDelta(t, 48.8566, *paris.Latitude, 1e-9)

	france, ok := p.Country("ФРАНЦИЯ")
	require.True(t, ok)
	assert.Equal(t, "Париж", france.Capital)
	assert.Equal(t, "FR", france.Code)

	usa, ok := p.CountryByName("сша")
	require.True(t, ok)
	assert.Equal(t, "сша", usa.Slug)

	_, ok = p.City("42")
	assert.False(t, ok)

	for _, c := range p.Cities() {
		_, ok := p.Country(c.CountrySlug)
		assert.True(t, ok, "city %s references unknown country %s", c.Name, c.CountrySlug)
	}
}
