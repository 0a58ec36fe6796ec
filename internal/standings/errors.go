package standings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const maxSuggestions = 3

// TeamNotFoundError is returned when a requested team is not in the table.
type TeamNotFoundError struct {
	Team        string
	Suggestions []string
}

func (e *TeamNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("team %q not found in standings", e.Team)
	}
	return fmt.Sprintf("team %q not found in standings (did you mean %s?)",
		e.Team, strings.Join(e.Suggestions, ", "))
}

// suggest ranks the known team names by fuzzy closeness to name.
func suggest(name string, teams []string) []string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(trimmed, teams)
	sort.Sort(ranks)

	suggestions := make([]string, 0, maxSuggestions)
	for _, rank := range ranks {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, rank.Target)
	}
	return suggestions
}
