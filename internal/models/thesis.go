package models

// WeightFactor is one named multiplicative signal behind a thesis confidence.
type WeightFactor struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// Thesis is a scored hypothesis for one player and market.
type Thesis struct {
	PlayerID      string         `json:"player_id"`
	PlayerName    string         `json:"player_name"`
	Team          string         `json:"team"`
	Position      Position       `json:"position"`
	RotationRole  RotationRole   `json:"rotation_role"`
	Type          ThesisType     `json:"thesis_type"`
	Market        Market         `json:"market"`
	Confidence    float64        `json:"confidence"`
	Evidence      []string       `json:"evidence"`
	SuggestedLine *float64       `json:"suggested_line"`
	Weights       []WeightFactor `json:"weights"`
	IsRisk        bool           `json:"is_risk,omitempty"`
}

// Factor returns the recorded value of a named factor.
func (t Thesis) Factor(name string) (float64, bool) {
	for _, w := range t.Weights {
		if w.Name == name {
			return w.Value, true
		}
	}
	return 0, false
}

// Key matches PlayerContext.Key for the same player.
func (t Thesis) Key() string {
	if t.PlayerID != "" {
		return t.PlayerID
	}
	return t.Team + ":" + t.PlayerName
}
