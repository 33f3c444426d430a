// Package generator writes synthetic customer datasets in the 12-column CSV
// layout the importer reads. Output is reproducible for a given seed.
package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/willfong/custdb/internal/data"
	"github.com/willfong/custdb/internal/models"
	"github.com/willfong/custdb/internal/utils"
)

// customerIDLength matches the ids in the published dataset
const customerIDLength = 15

// CustomerGenerator creates customers that look like the published dataset
type CustomerGenerator struct {
	rng     *utils.Random
	refData *data.ReferenceData
	config  CustomerGeneratorConfig
	seen    map[string]struct{}
}

// CustomerGeneratorConfig holds settings for customer generation
type CustomerGeneratorConfig struct {
	// Subscription dates fall in [From, To]
	From time.Time
	To   time.Time
}

// NewCustomerGenerator creates a new customer generator
func NewCustomerGenerator(rng *utils.Random, refData *data.ReferenceData, config CustomerGeneratorConfig) *CustomerGenerator {
	return &CustomerGenerator{
		rng:     rng,
		refData: refData,
		config:  config,
		seen:    make(map[string]struct{}),
	}
}

// Generate creates the customer at the given 1-based index. Customer ids
// are unique across all calls on the same generator.
func (g *CustomerGenerator) Generate(index int) models.Customer {
	first := g.rng.PickString(g.refData.FirstNames.Names)
	last := g.rng.PickString(g.refData.LastNames.Names)
	domain := g.generateDomain()

	return models.Customer{
		Index:            index,
		CustomerID:       g.generateCustomerID(),
		FirstName:        first,
		LastName:         last,
		Company:          g.generateCompany(),
		City:             g.generateCity(),
		Country:          g.pickCountry(),
		Phone1:           g.generatePhone(),
		Phone2:           g.generatePhone(),
		Email:            g.generateEmail(first, last),
		SubscriptionDate: g.rng.Day(g.config.From, g.config.To),
		Website:          g.generateWebsite(domain),
	}
}

func (g *CustomerGenerator) generateCustomerID() string {
	for {
		id := g.rng.Hex(customerIDLength)
		if _, dup := g.seen[id]; !dup {
			g.seen[id] = struct{}{}
			return id
		}
	}
}

// pickCountry selects a country by weight
func (g *CustomerGenerator) pickCountry() string {
	pick := g.rng.IntRange(1, g.refData.TotalWeight())
	return g.refData.CountryByWeight(pick).Name
}

// generateCompany uses the dataset's three company shapes
func (g *CustomerGenerator) generateCompany() string {
	names := g.refData.LastNames.Names
	switch g.rng.IntN(3) {
	case 0:
		return g.rng.PickString(names) + "-" + g.rng.PickString(names)
	case 1:
		return fmt.Sprintf("%s, %s and %s",
			g.rng.PickString(names), g.rng.PickString(names), g.rng.PickString(names))
	default:
		suffixes := []string{"Group", "Inc", "LLC", "Ltd", "PLC"}
		return g.rng.PickString(names) + " " + g.rng.PickString(suffixes)
	}
}

// generateCity builds names like "East Leonard" or "Isabelborough"
func (g *CustomerGenerator) generateCity() string {
	parts := g.refData.Cities
	base := g.rng.PickString(g.refData.FirstNames.Names)
	if g.rng.Probability(0.5) {
		base = g.rng.PickString(g.refData.LastNames.Names)
	}

	prefix := g.rng.PickString(parts.Prefixes)
	if prefix != "" {
		return prefix + base
	}
	return base + g.rng.PickString(parts.Suffixes)
}

// generatePhone mixes the number formats found in the dataset
func (g *CustomerGenerator) generatePhone() string {
	area, exch, line := g.rng.Digits(3), g.rng.Digits(3), g.rng.Digits(4)

	var phone string
	switch g.rng.IntN(6) {
	case 0:
		phone = area + "." + exch + "." + line
	case 1:
		phone = area + exch + line
	case 2:
		phone = area + "-" + exch + "-" + line
	case 3:
		phone = "+1-" + area + "-" + exch + "-" + line
	case 4:
		phone = "(" + area + ")" + exch + "-" + line
	default:
		phone = "001-" + area + "-" + exch + "-" + line
	}

	if g.rng.Probability(0.4) {
		phone += "x" + g.rng.Digits(g.rng.IntRange(3, 5))
	}
	return phone
}

func (g *CustomerGenerator) generateDomain() string {
	tlds := []string{"com", "com", "net", "org", "info", "biz"}
	name := strings.ToLower(g.rng.PickString(g.refData.LastNames.Names))
	if g.rng.Probability(0.2) {
		name += "-" + strings.ToLower(g.rng.PickString(g.refData.LastNames.Names))
	}
	return name + "." + g.rng.PickString(tlds)
}

// generateEmail pairs a name-based local part with an unrelated domain
func (g *CustomerGenerator) generateEmail(first, last string) string {
	first = strings.ToLower(first)
	last = strings.ToLower(last)

	var local string
	switch g.rng.IntN(4) {
	case 0:
		local = last + first
	case 1:
		local = first + g.rng.Digits(2)
	case 2:
		local = first[:1] + last
	default:
		local = first + last
	}
	return local + "@" + g.generateDomain()
}

func (g *CustomerGenerator) generateWebsite(domain string) string {
	switch g.rng.IntN(3) {
	case 0:
		return "http://www." + domain + "/"
	case 1:
		return "https://www." + domain + "/"
	default:
		return "https://" + domain + "/"
	}
}
