// Package fallback serves the static travel records shown when the database
// has no matching row, and used to backfill it.
package fallback

import (
	_ "embed"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var embedded []byte

// Continent is a static continent record.
type Continent struct {
	Name        string `yaml:"name" json:"name"`
	Code        string `yaml:"code" json:"code"`
	Description string `yaml:"description" json:"description"`
}

// Country is a static country record keyed by slug.
type Country struct {
	Slug        string   `yaml:"slug" json:"slug"`
	Name        string   `yaml:"name" json:"name"`
	Code        string   `yaml:"code" json:"code"`
	Flag        string   `yaml:"flag" json:"flag,omitempty"`
	Capital     string   `yaml:"capital" json:"capital"`
	Description string   `yaml:"description" json:"description"`
	Image       string   `yaml:"image" json:"image"`
	Continent   string   `yaml:"continent" json:"continent"`
	Currency    string   `yaml:"currency" json:"currency"`
	Language    string   `yaml:"language" json:"language"`
	Population  string   `yaml:"population" json:"population"`
	Area        string   `yaml:"area" json:"area"`
	VisaInfo    string   `yaml:"visaInfo" json:"visaInfo"`
	BestTime    string   `yaml:"bestTime" json:"bestTime"`
	Attractions []string `yaml:"attractions" json:"attractions"`
	Tips        []string `yaml:"tips" json:"tips"`
}

// Highlight is a named sight listed on a static city page.
type Highlight struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// City is a static city record. Its ID doubles as the primary key when reconciled.
type City struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Country     string      `yaml:"country" json:"country"`
	CountrySlug string      `yaml:"countrySlug" json:"countrySlug"`
	Image       string      `yaml:"image" json:"image"`
	Description string      `yaml:"description" json:"description"`
	Population  string      `yaml:"population" json:"population"`
	BestTime    string      `yaml:"bestTime" json:"bestTime,omitempty"`
	Climate     string      `yaml:"climate" json:"climate,omitempty"`
	Latitude    *float64    `yaml:"latitude" json:"latitude,omitempty"`
	Longitude   *float64    `yaml:"longitude" json:"longitude,omitempty"`
	Attractions []Highlight `yaml:"attractions" json:"attractions,omitempty"`
}

// Attraction is a static attraction record.
type Attraction struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	City         string   `yaml:"city" json:"city"`
	Country      string   `yaml:"country" json:"country"`
	CountrySlug  string   `yaml:"countrySlug" json:"countrySlug"`
	Image        string   `yaml:"image" json:"image"`
	Description  string   `yaml:"description" json:"description"`
	Rating       float64  `yaml:"rating" json:"rating"`
	Latitude     *float64 `yaml:"latitude" json:"latitude,omitempty"`
	Longitude    *float64 `yaml:"longitude" json:"longitude,omitempty"`
	Address      string   `yaml:"address" json:"address,omitempty"`
	OpeningHours string   `yaml:"openingHours" json:"openingHours,omitempty"`
	Price        string   `yaml:"price" json:"price,omitempty"`
	Currency     string   `yaml:"currency" json:"currency,omitempty"`
	Tips         []string `yaml:"tips" json:"tips,omitempty"`
}

type dataset struct {
	Continents  []Continent  `yaml:"continents"`
	Countries   []Country    `yaml:"countries"`
	Cities      []City       `yaml:"cities"`
	Attractions []Attraction `yaml:"attractions"`
}

// Provider is the single source of static data for both views and reconciliation.
type Provider struct {
	data        dataset
	countries   map[string]Country
	cities      map[string]City
	attractions map[string]Attraction
}

// New parses the embedded data set.
func New() (*Provider, error) {
	return Parse(embedded)
}

// MustNew is New for program start-up, panicking on malformed embedded data.
func MustNew() *Provider {
	p, err := New()
	if err != nil {
		panic(err)
	}
	return p
}

// Parse builds a provider from YAML.
func Parse(raw []byte) (*Provider, error) {
	var data dataset
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse fallback data: %w", err)
	}

	p := &Provider{
		data:        data,
		countries:   make(map[string]Country, len(data.Countries)),
		cities:      make(map[string]City, len(data.Cities)),
		attractions: make(map[string]Attraction, len(data.Attractions)),
	}
	for _, c := range data.Countries {
		if c.Slug == "" {
			c.Slug = strings.ToLower(strings.TrimSpace(c.Name))
		}
		p.countries[c.Slug] = c
	}
	for _, c := range data.Cities {
		p.cities[c.ID] = c
	}
	for _, a := range data.Attractions {
		p.attractions[a.ID] = a
	}
	return p, nil
}

// Continents returns every static continent.
func (p *Provider) Continents() []Continent {
	return append([]Continent(nil), p.data.Continents...)
}

// Countries returns every static country in file order.
func (p *Provider) Countries() []Country {
	out := make([]Country, 0, len(p.data.Countries))
	for _, c := range p.data.Countries {
		out = append(out, p.countries[slugOf(c)])
	}
	return out
}

// Country looks a country up by slug, case-insensitively.
func (p *Provider) Country(slug string) (Country, bool) {
	c, ok := p.countries[strings.ToLower(strings.TrimSpace(slug))]
	return c, ok
}

// CountryByName looks a country up by its display name.
func (p *Provider) CountryByName(name string) (Country, bool) {
	for _, c := range p.data.Countries {
		if strings.EqualFold(c.Name, name) {
			return p.countries[slugOf(c)], true
		}
	}
	return Country{}, false
}

// Cities returns every static city in file order.
func (p *Provider) Cities() []City {
	return append([]City(nil), p.data.Cities...)
}

// City looks a city up by its static id.
func (p *Provider) City(id string) (City, bool) {
	c, ok := p.cities[id]
	return c, ok
}

// Attractions returns every static attraction in file order.
func (p *Provider) Attractions() []Attraction {
	return append([]Attraction(nil), p.data.Attractions...)
}

// Attraction looks an attraction up by its static id.
func (p *Provider) Attraction(id string) (Attraction, bool) {
	a, ok := p.attractions[id]
	return a, ok
}

func slugOf(c Country) string {
	if c.Slug != "" {
		return c.Slug
	}
	return strings.ToLower(strings.TrimSpace(c.Name))
}

var leadingNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ParsePopulation converts strings such as "2.1 млн" into an absolute count.
// The leading number is taken as millions.
func ParsePopulation(s string) (int64, bool) {
	token := leadingNumber.FindString(s)
	if token == "" {
		return 0, false
	}
	x, err := strconv.ParseFloat(strings.Replace(token, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return int64(math.Round(x * 1_000_000)), true
}

var areaNumber = regexp.MustCompile(`\d[\d,\s]*`)

// ParseArea converts strings such as "643,801 км²" into square kilometres.
func ParseArea(s string) (int64, bool) {
	token := areaNumber.FindString(s)
	if token == "" {
		return 0, false
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, token)
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
