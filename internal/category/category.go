// Package category assigns notices to a fixed taxonomy from their titles.
package category

import (
	"strings"

	"aytoleon_scraper/internal/domain"
)

const (
	Traffic        = "Tráfico"
	Utilities      = "Suministros"
	Infrastructure = "Infraestructuras"
)

// Rule maps a title predicate to a category.
type Rule struct {
	Category string
	Match    func(lowerTitle string) bool
}

func containsAny(words ...string) func(string) bool {
	return func(title string) bool {
		for _, w := range words {
			if strings.Contains(title, w) {
				return true
			}
		}
		return false
	}
}

// DefaultRules are evaluated in order; the first match wins.
var DefaultRules = []Rule{
	{Category: Traffic, Match: containsAny("tráfico", "circulación")},
	{Category: Utilities, Match: containsAny("agua")},
	{Category: Infrastructure, Match: containsAny("infraestructura")},
}

type Categorizer struct {
	rules []Rule
}

func New(rules []Rule) *Categorizer {
	return &Categorizer{rules: rules}
}

// Categorize returns the first matching category, or domain.DefaultCategory.
func (c *Categorizer) Categorize(title string) string {
	lower := strings.ToLower(title)
	for _, r := range c.rules {
		if r.Match(lower) {
			return r.Category
		}
	}
	return domain.DefaultCategory
}
