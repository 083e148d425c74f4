package search

import (
	"strings"

	"estatehub/internal/models/db_models"
)

// MatchLocation keeps the listings whose address contains location,
// ignoring case. An empty location keeps everything. Order is preserved.
func MatchLocation(listings []db_models.Listing, location string) []db_models.Listing {
	needle := strings.ToLower(strings.TrimSpace(location))
	if needle == "" {
		return listings
	}

	out := make([]db_models.Listing, 0, len(listings))
	for _, l := range listings {
		if strings.Contains(strings.ToLower(l.Address), needle) {
			out = append(out, l)
		}
	}
	return out
}
