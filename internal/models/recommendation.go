package models

import "time"

// Recommendation is a thesis owned by exactly one bucket.
type Recommendation struct {
	Thesis
	GameID             string   `json:"game_id"`
	Status             string   `json:"status,omitempty"`
	Bucket             Bucket   `json:"category"`
	PriorityScore      float64  `json:"priority_score"`
	AdjustedConfidence float64  `json:"adjusted_confidence"`
	ScoreAdjustment    float64  `json:"score_adjustment"`
	Adjustments        []string `json:"adjustments,omitempty"`
	IdentifiedStrategy string   `json:"identified_strategy,omitempty"`
	Spread             float64  `json:"spread"`
	Total              float64  `json:"total"`
	GamePace           float64  `json:"game_pace"`
}

// Score is the value buckets and tickets compare on.
func (r Recommendation) Score() float64 { return r.AdjustedConfidence }

// StrategyKind names the combination pattern found inside a bucket.
type StrategyKind string

const (
	StrategyGlassBangerPair  StrategyKind = "GLASS_BANGER_PAIR"
	StrategyGlassBangersTrio StrategyKind = "GLASS_BANGERS_TRIO"
	StrategyBattery          StrategyKind = "THE_BATTERY"
	StrategyBenchMob         StrategyKind = "BENCH_MOB"
	StrategyShootoutPair     StrategyKind = "SHOOTOUT_PAIR"
	StrategyBlowoutSpecial   StrategyKind = "BLOWOUT_SPECIAL"
	StrategyCuratedCombo     StrategyKind = "CURATED_COMBO"
	StrategyIndividualPlay   StrategyKind = "INDIVIDUAL_PLAY"
)

type BucketSelection struct {
	Bucket              Bucket           `json:"bucket"`
	Recommendations     []Recommendation `json:"recommendations"`
	Strategy            StrategyKind     `json:"strategy"`
	StrategyDescription string           `json:"strategy_description"`
}

func (b BucketSelection) Len() int { return len(b.Recommendations) }

// Composition is the result of composing one game.
type Composition struct {
	ID          string            `json:"id"`
	Game        GameContext       `json:"game"`
	Buckets     []BucketSelection `json:"buckets"`
	Risks       []Thesis          `json:"risks,omitempty"`
	Contexts    []PlayerContext   `json:"-"`
	ThesisCount int               `json:"thesis_count"`
	Error       string            `json:"error,omitempty"`
	ComposedAt  time.Time         `json:"composed_at"`
}

// Bucket returns the selection for b, or an empty one.
func (c Composition) Bucket(b Bucket) BucketSelection {
	for _, s := range c.Buckets {
		if s.Bucket == b {
			return s
		}
	}
	return BucketSelection{Bucket: b, Strategy: StrategyIndividualPlay}
}

func (c Composition) IsEmpty() bool {
	for _, s := range c.Buckets {
		if len(s.Recommendations) > 0 {
			return false
		}
	}
	return true
}

// All returns every selected recommendation in bucket order.
func (c Composition) All() []Recommendation {
	var out []Recommendation
	for _, s := range c.Buckets {
		out = append(out, s.Recommendations...)
	}
	return out
}
