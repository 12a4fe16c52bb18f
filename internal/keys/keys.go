package keys

import (
	"sort"
	"strings"

	"github.com/opark001/vertex-gemini-web/internal/game"
)

// TeamKeyFromNames produces a canonical key for a list of entry names:
// trimmed, lower-cased, spaces replaced with underscores, sorted and joined
// with underscore. Submission order does not affect the key.
func TeamKeyFromNames(names []string) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		s := strings.TrimSpace(n)
		if s == "" {
			continue
		}
		s = strings.ToLower(strings.Join(strings.Fields(s), "_"))
		parts = append(parts, s)
	}
	sort.Strings(parts)
	return strings.Join(parts, "_")
}

// TeamKey is TeamKeyFromNames over the names of team.
func TeamKey(team []game.RosterEntry) string {
	names := make([]string, len(team))
	for i, e := range team {
		names[i] = e.Name
	}
	return TeamKeyFromNames(names)
}
