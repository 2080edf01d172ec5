package catalog

import "fmt"

// Profile is a named viewer-preference preset.
type Profile struct {
	ID                string   `json:"id"`
	PreferredEmotions []string `json:"preferred_emotions"`
	PreferredTags     []string `json:"preferred_tags"`
}

// presets are the built-in viewer profiles. The tag vocabulary follows the
// vision collaborator's label set.
var presets = map[string]Profile{
	"action": {
		ID:                "action",
		PreferredEmotions: []string{"Anger", "Fear", "Surprise"},
		PreferredTags:     []string{"explosion", "chase", "fight", "vehicle", "weapon"},
	},
	"heartfelt": {
		ID:                "heartfelt",
		PreferredEmotions: []string{"Joy", "Sadness"},
		PreferredTags:     []string{"family", "embrace", "smile", "reunion", "tears"},
	},
	"comedy": {
		ID:                "comedy",
		PreferredEmotions: []string{"Joy", "Surprise"},
		PreferredTags:     []string{"laugh", "party", "dance", "prank"},
	},
	"thriller": {
		ID:                "thriller",
		PreferredEmotions: []string{"Fear", "Surprise", "Anger"},
		PreferredTags:     []string{"night", "shadow", "pursuit", "confrontation"},
	},
}

// LookupProfile resolves a preset by ID.
func LookupProfile(id string) (Profile, error) {
	p, ok := presets[id]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile: %s", id)
	}
	return p, nil
}

// ProfileIDs lists the available preset IDs.
func ProfileIDs() []string {
	ids := make([]string, 0, len(presets))
	for id := range presets {
		ids = append(ids, id)
	}
	return ids
}
