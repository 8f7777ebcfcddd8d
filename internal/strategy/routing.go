package strategy

import "github.com/stitts-dev/courtside/internal/models"

type route struct {
	bucket  models.Bucket
	minConf float64
	roles   []models.RotationRole
	markets []models.Market
	types   []models.ThesisType
}

// routes are tried in order; the first match wins.
var routes = []route{
	{
		bucket:  models.BucketConservadora,
		minConf: 0.65,
		roles:   []models.RotationRole{models.RotationStarter},
		markets: []models.Market{models.MarketPTS, models.MarketREB},
		types:   []models.ThesisType{models.ThesisBigRebound, models.ThesisScorerLine},
	},
	{
		bucket:  models.BucketOusada,
		minConf: 0.6,
		roles:   []models.RotationRole{models.RotationStarter, models.RotationRotation},
		markets: []models.Market{models.MarketPRA, models.MarketRebAst, models.MarketPtsReb},
		types:   []models.ThesisType{models.ThesisAssistMatchup, models.ThesisPaceBoost},
	},
	{
		bucket:  models.BucketBanco,
		minConf: 0.55,
		roles:   []models.RotationRole{models.RotationBench, models.RotationRotation},
		types:   []models.ThesisType{models.ThesisValueHunter},
	},
	{
		bucket:  models.BucketExplosao,
		minConf: 0.6,
		types:   []models.ThesisType{models.ThesisPaceBoost, models.ThesisAssistMatchup},
	},
}

func (r route) matches(t models.Thesis) bool {
	if t.Confidence < r.minConf {
		return false
	}
	if len(r.roles) > 0 && !containsRole(r.roles, t.RotationRole) {
		return false
	}
	if len(r.markets) > 0 && !containsMarket(r.markets, t.Market) {
		return false
	}
	return containsType(r.types, t.Type)
}

// Route picks the candidate pool for a thesis. Risk theses are never routed.
func (e *Engine) Route(t models.Thesis) (models.Bucket, bool) {
	if t.IsRisk || t.Type == models.ThesisBlowoutRisk {
		return "", false
	}
	for _, r := range routes {
		if r.matches(t) {
			return r.bucket, true
		}
	}

	if t.Confidence >= e.cfg.FallbackConfidence {
		switch t.RotationRole {
		case models.RotationStarter:
			return models.BucketConservadora, true
		case models.RotationRotation, models.RotationBench:
			return models.BucketBanco, true
		}
	}
	return "", false
}

// Categorize splits theses into candidate pools, keeping input order.
func (e *Engine) Categorize(theses []models.Thesis) map[models.Bucket][]models.Thesis {
	pools := make(map[models.Bucket][]models.Thesis, len(models.AllBuckets))
	for _, t := range theses {
		if b, ok := e.Route(t); ok {
			pools[b] = append(pools[b], t)
		}
	}
	return pools
}

func containsRole(list []models.RotationRole, r models.RotationRole) bool {
	for _, v := range list {
		if v == r {
			return true
		}
	}
	return false
}

func containsMarket(list []models.Market, m models.Market) bool {
	for _, v := range list {
		if v == m {
			return true
		}
	}
	return false
}

func containsType(list []models.ThesisType, t models.ThesisType) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}
