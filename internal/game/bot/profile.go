package bot

import "fmt"

// Profile holds the tunable weights of a Policy.
type Profile struct {
	Aggression float64 `json:"aggression" yaml:"aggression" mapstructure:"aggression"` // 0.0–1.0: value placed on removing opposing characters
	Greed      float64 `json:"greed" yaml:"greed" mapstructure:"greed"`                // 0.0–1.0: value placed on lore now over board later
	Caution    float64 `json:"caution" yaml:"caution" mapstructure:"caution"`          // 0.0–1.0: reluctance to lose own characters
	// MulliganCost puts back every opening card costing more than this.
	MulliganCost int     `json:"mulliganCost" yaml:"mulligan_cost" mapstructure:"mulligan_cost"`
	Randomness   float64 `json:"randomness" yaml:"randomness" mapstructure:"randomness"` // 0.0–1.0: score noise
}

var profiles = map[string]Profile{
	"balanced": {Aggression: 0.5, Greed: 0.5, Caution: 0.5, MulliganCost: 4, Randomness: 0.1},
	"aggro":    {Aggression: 0.85, Greed: 0.3, Caution: 0.2, MulliganCost: 3, Randomness: 0.1},
	"quester":  {Aggression: 0.2, Greed: 0.9, Caution: 0.6, MulliganCost: 4, Randomness: 0.1},
	"control":  {Aggression: 0.7, Greed: 0.2, Caution: 0.8, MulliganCost: 5, Randomness: 0.05},
}

// DefaultProfile is the profile used when none is named.
const DefaultProfile = "balanced"

// LookupProfile returns a built-in profile by name.
func LookupProfile(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown bot profile %q", name)
	}
	return p, nil
}

// ProfileNames lists the built-in profiles.
func ProfileNames() []string {
	return []string{"aggro", "balanced", "control", "quester"}
}
