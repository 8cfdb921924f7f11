package models

// MaxListLimit is the largest page a repository listing returns.
const MaxListLimit = 500

// ListFilter narrows a repository listing. Column names are checked against
// each repository's own whitelist; unknown columns are rejected.
type ListFilter struct {
	Search        string
	SearchColumns []string
	Equals        map[string]string
	Limit         int
	Offset        int
}

// Option is an id/label pair used by reference pickers.
type Option struct {
	ID    string
	Label string
}
