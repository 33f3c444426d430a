// Package data holds the embedded word lists used to synthesize customer
// fixtures.
package data

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed names/*.json addresses/*.json
var dataFiles embed.FS

// ReferenceData holds all loaded reference data for the generator
type ReferenceData struct {
	FirstNames NamesData
	LastNames  NamesData
	Countries  CountriesData
	Cities     CityPartsData

	// Cumulative weights for CountryByWeight
	cumulative  []int
	totalWeight int
}

// NamesData represents first_names.json and last_names.json
type NamesData struct {
	Names []string `json:"names"`
}

// CountriesData represents the structure of countries.json
type CountriesData struct {
	Countries []Country `json:"countries"`
}

// Country is a country name with its relative frequency in generated data
type Country struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// CityPartsData holds the pieces city names are assembled from
type CityPartsData struct {
	Prefixes []string `json:"prefixes"`
	Suffixes []string `json:"suffixes"`
}

var (
	instance *ReferenceData
	once     sync.Once
	loadErr  error
)

// Load loads all reference data from embedded files
// This is thread-safe and will only load data once
func Load() (*ReferenceData, error) {
	once.Do(func() {
		instance = &ReferenceData{}
		loadErr = instance.loadAll()
	})

	if loadErr != nil {
		return nil, loadErr
	}
	return instance, nil
}

func (r *ReferenceData) loadAll() error {
	files := []struct {
		path string
		dest any
	}{
		{"names/first_names.json", &r.FirstNames},
		{"names/last_names.json", &r.LastNames},
		{"addresses/countries.json", &r.Countries},
		{"addresses/cities.json", &r.Cities},
	}
	for _, f := range files {
		if err := readJSON(f.path, f.dest); err != nil {
			return err
		}
	}

	if len(r.FirstNames.Names) == 0 || len(r.LastNames.Names) == 0 || len(r.Countries.Countries) == 0 {
		return fmt.Errorf("reference data is incomplete")
	}

	r.buildLookups()
	return nil
}

func readJSON(path string, dest any) error {
	raw, err := dataFiles.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// buildLookups prepares the weighted country table
func (r *ReferenceData) buildLookups() {
	r.totalWeight = 0
	r.cumulative = make([]int, len(r.Countries.Countries))
	for i, c := range r.Countries.Countries {
		w := c.Weight
		if w <= 0 {
			w = 1
		}
		r.totalWeight += w
		r.cumulative[i] = r.totalWeight
	}
}

// TotalWeight returns the sum of all country weights for weighted selection
func (r *ReferenceData) TotalWeight() int {
	return r.totalWeight
}

// CountryByWeight returns the country for a given weight value (for weighted random selection)
// weightValue should be in range [1, TotalWeight()]
func (r *ReferenceData) CountryByWeight(weightValue int) Country {
	for i, cum := range r.cumulative {
		if weightValue <= cum {
			return r.Countries.Countries[i]
		}
	}
	return r.Countries.Countries[len(r.Countries.Countries)-1]
}

// CountryNames returns every country name in file order
func (r *ReferenceData) CountryNames() []string {
	names := make([]string, len(r.Countries.Countries))
	for i, c := range r.Countries.Countries {
		names[i] = c.Name
	}
	return names
}
