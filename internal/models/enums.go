package models

import (
	"fmt"
	"strings"
)

// Position is the normalized five-slot basketball position.
type Position string

const (
	PositionPG      Position = "PG"
	PositionSG      Position = "SG"
	PositionSF      Position = "SF"
	PositionPF      Position = "PF"
	PositionC       Position = "C"
	PositionUnknown Position = ""
)

var positionAliases = map[string]Position{
	"pg":      PositionPG,
	"guard":   PositionPG,
	"sg":      PositionSG,
	"g":       PositionSG,
	"sf":      PositionSF,
	"forward": PositionSF,
	"pf":      PositionPF,
	"f":       PositionPF,
	"c":       PositionC,
	"center":  PositionC,

	"point guard":    PositionPG,
	"shooting guard": PositionSG,
	"small forward":  PositionSF,
	"power forward":  PositionPF,
}

// NormalizePosition maps provider position strings onto a Position. Hybrid
// listings such as "G-F" or "F/C" resolve to their first slot.
func NormalizePosition(raw string) Position {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return PositionUnknown
	}
	if p, ok := positionAliases[s]; ok {
		return p
	}
	if i := strings.IndexAny(s, "-/"); i > 0 {
		if p, ok := positionAliases[s[:i]]; ok {
			return p
		}
	}
	return PositionUnknown
}

func (p Position) IsGuard() bool { return p == PositionPG || p == PositionSG }
func (p Position) IsBig() bool   { return p == PositionPF || p == PositionC }

// Role is the context builder's starter/usage classification.
type Role string

const (
	RoleStar        Role = "star"
	RoleStarter     Role = "starter"
	RoleBenchScorer Role = "bench_scorer"
	RoleRotation    Role = "rotation"
	RoleDeepBench   Role = "deep_bench"
)

// RotationRole is the minutes-based role used by thesis gates and bucket routing.
type RotationRole string

const (
	RotationStarter   RotationRole = "starter"
	RotationRotation  RotationRole = "rotation"
	RotationBench     RotationRole = "bench"
	RotationDeepBench RotationRole = "deep_bench"
)

func ParseRotationRole(s string) (RotationRole, error) {
	switch r := RotationRole(strings.ToLower(strings.TrimSpace(s))); r {
	case RotationStarter, RotationRotation, RotationBench, RotationDeepBench:
		return r, nil
	}
	return "", fmt.Errorf("unknown rotation role %q", s)
}

type Style string

const (
	StyleRebounder Style = "rebounder"
	StylePlaymaker Style = "playmaker"
	StyleScorer    Style = "scorer"
	StyleHustle    Style = "hustle"
	StyleRole      Style = "role"
)

type Availability string

const (
	AvailabilityOut       Availability = "out"
	AvailabilityAvailable Availability = "available"
	AvailabilityProbable  Availability = "probable"
	AvailabilityUnknown   Availability = "unknown"
)

// Tier is a three-level bucket shared by usage, volatility and garbage-time profiles.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

type MatchupTier string

const (
	MatchupVeryFavorable   MatchupTier = "very_favorable"
	MatchupFavorable       MatchupTier = "favorable"
	MatchupNeutral         MatchupTier = "neutral"
	MatchupUnfavorable     MatchupTier = "unfavorable"
	MatchupVeryUnfavorable MatchupTier = "very_unfavorable"
)

type Market string

const (
	MarketPTS    Market = "PTS"
	MarketREB    Market = "REB"
	MarketAST    Market = "AST"
	MarketPRA    Market = "PRA"
	MarketRebAst Market = "REB+AST"
	MarketPtsReb Market = "PTS+REB"
	MarketPtsAst Market = "PTS+AST"
	Market3PTM   Market = "3PTM"
	MarketBLK    Market = "BLK"
	MarketSTL    Market = "STL"
	MarketRisk   Market = "RISK"
)

var knownMarkets = map[Market]bool{
	MarketPTS: true, MarketREB: true, MarketAST: true, MarketPRA: true,
	MarketRebAst: true, MarketPtsReb: true, MarketPtsAst: true,
	Market3PTM: true, MarketBLK: true, MarketSTL: true, MarketRisk: true,
}

func ParseMarket(s string) (Market, error) {
	m := Market(strings.ToUpper(strings.TrimSpace(s)))
	if !knownMarkets[m] {
		return "", fmt.Errorf("unknown market %q", s)
	}
	return m, nil
}

type ThesisType string

const (
	ThesisBigRebound    ThesisType = "BigRebound"
	ThesisAssistMatchup ThesisType = "AssistMatchup"
	ThesisScorerLine    ThesisType = "ScorerLine"
	ThesisValueHunter   ThesisType = "ValueHunter"
	ThesisPaceBoost     ThesisType = "PaceBoost"
	ThesisBlowoutRisk   ThesisType = "BlowoutRisk"
)

var AllThesisTypes = []ThesisType{
	ThesisBigRebound, ThesisAssistMatchup, ThesisScorerLine,
	ThesisValueHunter, ThesisPaceBoost, ThesisBlowoutRisk,
}

func ParseThesisType(s string) (ThesisType, error) {
	for _, t := range AllThesisTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown thesis type %q", s)
}

// Bucket is one of the four strategy tiers.
type Bucket string

const (
	BucketConservadora Bucket = "conservadora"
	BucketOusada       Bucket = "ousada"
	BucketBanco        Bucket = "banco"
	BucketExplosao     Bucket = "explosao"
)

// AllBuckets is the fixed evaluation and display order.
var AllBuckets = []Bucket{BucketConservadora, BucketOusada, BucketBanco, BucketExplosao}

func ParseBucket(s string) (Bucket, error) {
	for _, b := range AllBuckets {
		if string(b) == strings.ToLower(strings.TrimSpace(s)) {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown bucket %q", s)
}

type PaceCategory string

const (
	PaceFast    PaceCategory = "FAST"
	PaceSlow    PaceCategory = "SLOW"
	PaceAverage PaceCategory = "AVERAGE"
)

// StatKey indexes per-stat ceiling and hit-rate maps.
type StatKey string

const (
	StatPoints   StatKey = "pts"
	StatRebounds StatKey = "reb"
	StatAssists  StatKey = "ast"
	StatPRA      StatKey = "pra"
)

var CeilingStats = []StatKey{StatPoints, StatRebounds, StatAssists, StatPRA}

// Metric is a defense-vs-position category.
type Metric string

const (
	MetricPoints   Metric = "points"
	MetricRebounds Metric = "rebounds"
	MetricAssists  Metric = "assists"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeveritySoft     Severity = "soft"
)
