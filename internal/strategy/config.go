package strategy

import "github.com/stitts-dev/courtside/internal/models"

// BucketConfig holds the eligibility and capacity rules of one bucket.
type BucketConfig struct {
	Bucket        models.Bucket
	MinConfidence float64
	Capacity      int
	Markets       []models.Market
	Roles         []models.RotationRole
	Priority      []models.ThesisType
	Description   string
}

func (c BucketConfig) allowsMarket(m models.Market) bool {
	return len(c.Markets) == 0 || containsMarket(c.Markets, m)
}

func (c BucketConfig) allowsRole(r models.RotationRole) bool {
	return len(c.Roles) == 0 || containsRole(c.Roles, r)
}

func (c BucketConfig) isPriority(t models.ThesisType) bool {
	return containsType(c.Priority, t)
}

// CorrelationConfig tunes the per-recommendation score adjustment.
type CorrelationConfig struct {
	CrowdLimit           int
	TeamPenalty          float64
	MarketPenalty        float64
	BlowoutSpread        float64
	BlowoutPenalty       float64
	DiversityMin         int
	TeamDiversityBonus   float64
	MarketDiversityBonus float64
	CloseSpread          float64
	CloseGameBonus       float64
	MaxAdjustment        float64
}

type Config struct {
	Buckets            []BucketConfig
	PriorityBoost      float64
	FallbackConfidence float64
	// ProfileCap bounds how many picks in one bucket may share a
	// rotation role and market.
	ProfileCap  int
	Correlation CorrelationConfig
	Tickets     TicketConfigs
}

// DefaultConfig returns the production bucket table. Bucket order is the
// order buckets are filled in and the order routing rules are tried in.
func DefaultConfig() Config {
	return Config{
		Buckets: []BucketConfig{
			{
				Bucket:        models.BucketConservadora,
				MinConfidence: 0.65,
				Capacity:      4,
				Markets:       []models.Market{models.MarketPTS, models.MarketREB},
				Roles:         []models.RotationRole{models.RotationStarter},
				Priority:      []models.ThesisType{models.ThesisBigRebound, models.ThesisScorerLine},
				Description:   "Safe play: low-volatility starters",
			},
			{
				Bucket:        models.BucketOusada,
				MinConfidence: 0.6,
				Capacity:      3,
				Markets:       []models.Market{models.MarketPRA, models.MarketRebAst, models.MarketPtsReb},
				Roles:         []models.RotationRole{models.RotationStarter, models.RotationRotation},
				Priority:      []models.ThesisType{models.ThesisAssistMatchup, models.ThesisPaceBoost},
				Description:   "Upside play: combo markets with more variance",
			},
			{
				Bucket:        models.BucketBanco,
				MinConfidence: 0.55,
				Capacity:      3,
				Markets:       []models.Market{models.MarketPRA, models.MarketPTS, models.MarketREB},
				Roles:         []models.RotationRole{models.RotationBench, models.RotationRotation},
				Priority:      []models.ThesisType{models.ThesisValueHunter},
				Description:   "Value play: bench minutes at a discount",
			},
			{
				Bucket:        models.BucketExplosao,
				MinConfidence: 0.6,
				Capacity:      2,
				Markets:       []models.Market{models.MarketAST, models.MarketPTS, models.MarketREB},
				Roles:         []models.RotationRole{models.RotationStarter, models.RotationRotation, models.RotationBench},
				Priority:      []models.ThesisType{models.ThesisPaceBoost, models.ThesisAssistMatchup, models.ThesisScorerLine},
				Description:   "Boost play: situational spikes",
			},
		},
		PriorityBoost:      1.2,
		FallbackConfidence: 0.7,
		ProfileCap:         2,
		Correlation: CorrelationConfig{
			CrowdLimit:           2,
			TeamPenalty:          0.15,
			MarketPenalty:        0.10,
			BlowoutSpread:        10,
			BlowoutPenalty:       0.10,
			DiversityMin:         3,
			TeamDiversityBonus:   0.10,
			MarketDiversityBonus: 0.08,
			CloseSpread:          5,
			CloseGameBonus:       0.05,
			MaxAdjustment:        0.3,
		},
		Tickets: DefaultTicketConfigs(),
	}
}

// BucketConfig looks up the rules for b.
func (c Config) BucketConfig(b models.Bucket) (BucketConfig, bool) {
	for _, bc := range c.Buckets {
		if bc.Bucket == b {
			return bc, true
		}
	}
	return BucketConfig{}, false
}
