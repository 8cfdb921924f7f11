package models

import "time"

// Allowed values for SearchType.Source
const (
	SourceDatabase = "database"
	SourceExternal = "external"
)

// SearchSources lists the valid SearchType sources in display order.
var SearchSources = []string{SourceDatabase, SourceExternal}

// SearchField is a named, labeled input parameter that search types can require or accept.
type SearchField struct {
	ID        string
	Name      string
	Label     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (f *SearchField) String() string {
	return f.Label
}

// SearchType describes a search endpoint and the fields it takes.
// RequiredFields and OptionalFields hold SearchField ids in display order.
type SearchType struct {
	ID             string
	Source         string
	Label          string
	Endpoint       string
	RequiredFields []string
	OptionalFields []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (t *SearchType) String() string {
	return t.Label
}

// IsValidSource reports whether source is one of SearchSources.
func IsValidSource(source string) bool {
	for _, s := range SearchSources {
		if s == source {
			return true
		}
	}
	return false
}
