// Package narrative renders compositions and tickets as display text.
package narrative

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/internal/strategy"
)

const EmptyGameMessage = "No recommendations available for this game."

type ConfidenceLevel string

const (
	ConfidenceVeryHigh ConfidenceLevel = "very_high"
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceMedium   ConfidenceLevel = "medium"
	ConfidenceLow      ConfidenceLevel = "low"
)

func LevelFor(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= 0.75:
		return ConfidenceVeryHigh
	case confidence >= 0.65:
		return ConfidenceHigh
	case confidence >= 0.55:
		return ConfidenceMedium
	}
	return ConfidenceLow
}

type bucketCopy struct {
	title string
	intro string
}

var bucketText = map[models.Bucket]bucketCopy{
	models.BucketConservadora: {"Conservative (Safe Play)", "Low-volatility starters with a favorable matchup."},
	models.BucketOusada:       {"Upside Play", "More risk for more return, built around combo markets."},
	models.BucketBanco:        {"Value Play", "Bench minutes priced below their production."},
	models.BucketExplosao:     {"Boost Play", "Situational spikes unlocked by game context."},
}

var thesisExplanations = map[models.ThesisType]string{
	models.ThesisBigRebound:    "Dominant big with a favorable rebounding matchup",
	models.ThesisAssistMatchup: "High-assist creator in a competitive game against a soft defense",
	models.ThesisScorerLine:    "Volume scorer against a weak perimeter defense",
	models.ThesisValueHunter:   "Bench player with strong production per minute and rising minutes",
	models.ThesisPaceBoost:     "Player who benefits from a fast game",
	models.ThesisBlowoutRisk:   "Blowout risk warning",
}

var narrativeTemplates = map[models.ThesisType][]string{
	models.ThesisBigRebound: {
		"Take {line} for {player}, who owns the paint against a vulnerable frontcourt.",
		"{player} has a favorable rebounding matchup, with the pace adding extra chances.",
		"Conservative look at {player} on the boards against a thin interior defense.",
	},
	models.ThesisAssistMatchup: {
		"Play {line} for {player} in a close game built on ball movement.",
		"{player} runs the offense in a competitive game against a defense that allows assists.",
		"Back {player} for extra assists in an up-tempo game against a leaky defense.",
	},
	models.ThesisScorerLine: {
		"{player} is a solid option for {line}, attacking a weak perimeter defense.",
		"Volume scorer in form, with a favorable scoring matchup against {opponent}.",
		"Take {line} for {player}, a high-usage scorer facing a fragile defense.",
	},
	models.ThesisValueHunter: {
		"A small stake on {player}, a bench piece with garbage-time upside in {market}.",
		"Value play on {player}, who has made the most of limited minutes off the bench.",
		"Bench bet on {player}, efficient per minute and in line for extra run.",
	},
	models.ThesisPaceBoost: {
		"Back {player} for {line} in a fast, close game.",
		"{player} thrives at a high pace and has produced in quick games.",
		"Ride the tempo with {player}, built for transition basketball.",
	},
}

var marketWords = map[models.Market]string{
	models.MarketPTS: "points",
	models.MarketREB: "rebounds",
	models.MarketAST: "assists",
}

var positionNames = map[models.Position]string{
	models.PositionPG: "Point Guard",
	models.PositionSG: "Shooting Guard",
	models.PositionSF: "Small Forward",
	models.PositionPF: "Power Forward",
	models.PositionC:  "Center",
}

// Recommendation is the display form of one pick.
type Recommendation struct {
	Player      string          `json:"player"`
	Team        string          `json:"team"`
	Position    string          `json:"position"`
	Bucket      models.Bucket   `json:"category"`
	MarketLine  string          `json:"market_line"`
	Confidence  float64         `json:"confidence"`
	Level       ConfidenceLevel `json:"level"`
	Explanation string          `json:"explanation"`
	Strategy    string          `json:"strategy"`
	Validation  string          `json:"validation"`
	Narrative   string          `json:"narrative"`
}

type Bucket struct {
	Bucket          models.Bucket    `json:"category"`
	Title           string           `json:"title"`
	Intro           string           `json:"intro"`
	Recommendations []Recommendation `json:"recommendations"`
}

type Formatter struct{}

func NewFormatter() *Formatter { return &Formatter{} }

// MarketLine renders the market with the suggested line, e.g.
// "Over 9.5 rebounds".
func (f *Formatter) MarketLine(t models.Thesis) string {
	if t.Market == models.MarketRisk {
		return "Risk signal"
	}
	word, ok := marketWords[t.Market]
	if !ok {
		word = string(t.Market)
	}
	if t.SuggestedLine == nil {
		return word
	}
	return fmt.Sprintf("Over %.1f %s", *t.SuggestedLine, word)
}

// Explanation joins the thesis summary with its first two pieces of evidence.
func (f *Formatter) Explanation(t models.Thesis) string {
	base, ok := thesisExplanations[t.Type]
	if !ok {
		base = string(t.Type)
	}
	if len(t.Evidence) == 0 {
		return base
	}
	n := len(t.Evidence)
	if n > 2 {
		n = 2
	}
	return fmt.Sprintf("%s (%s)", base, strings.Join(t.Evidence[:n], "; "))
}

// ValidationSummary counts the correlation bonuses and penalties of a pick.
func (f *Formatter) ValidationSummary(r models.Recommendation) string {
	if len(r.Adjustments) == 0 {
		return "Validation OK, no critical violations"
	}
	var bonuses, penalties int
	for _, a := range r.Adjustments {
		switch {
		case strings.HasPrefix(a, "Bonus"):
			bonuses++
		case strings.HasPrefix(a, "Penalty"):
			penalties++
		}
	}

	var parts []string
	if bonuses > 0 {
		parts = append(parts, fmt.Sprintf("%d bonus(es) applied", bonuses))
	}
	if penalties > 0 {
		parts = append(parts, fmt.Sprintf("%d penalty(ies)", penalties))
	}
	switch {
	case r.ScoreAdjustment > 0:
		parts = append(parts, fmt.Sprintf("score adjusted +%.0f%%", r.ScoreAdjustment*100))
	case r.ScoreAdjustment < 0:
		parts = append(parts, fmt.Sprintf("score adjusted %.0f%%", r.ScoreAdjustment*100))
	}
	if len(parts) == 0 {
		return "Standard validation"
	}
	return strings.Join(parts, "; ")
}

// Narrative picks a template by player name so output is stable between runs.
func (f *Formatter) Narrative(r models.Recommendation, game models.GameContext) string {
	line := f.MarketLine(r.Thesis)
	templates := narrativeTemplates[r.Type]
	if len(templates) == 0 {
		return fmt.Sprintf("Take %s for %s on the %s thesis.", line, r.PlayerName, r.Type)
	}

	opponent := game.OpponentOf(r.Team)
	if opponent == "" {
		opponent = "the opponent"
	}
	text := strings.NewReplacer(
		"{player}", r.PlayerName,
		"{line}", line,
		"{market}", string(r.Market),
		"{opponent}", opponent,
	).Replace(templates[templateIndex(r.PlayerName, len(templates))])

	for _, a := range r.Adjustments {
		if strings.HasPrefix(a, "Bonus") {
			if i := strings.Index(a, "("); i >= 0 {
				text += " " + strings.TrimSuffix(strings.TrimSpace(a[i+1:]), ")") + "."
			}
			return text
		}
	}
	if r.ScoreAdjustment < 0 {
		text += " Watch the risk factors."
	}
	return text
}

func templateIndex(name string, n int) int {
	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	return sum % n
}

func (f *Formatter) FormatRecommendation(r models.Recommendation, game models.GameContext) Recommendation {
	pos, ok := positionNames[r.Position]
	if !ok {
		pos = string(r.Position)
	}
	strategyText := strategy.StrategyDescriptions[models.StrategyKind(r.IdentifiedStrategy)]
	if strategyText == "" {
		strategyText = "Custom strategy"
	}
	return Recommendation{
		Player:      r.PlayerName,
		Team:        r.Team,
		Position:    pos,
		Bucket:      r.Bucket,
		MarketLine:  f.MarketLine(r.Thesis),
		Confidence:  r.Score(),
		Level:       LevelFor(r.Score()),
		Explanation: f.Explanation(r.Thesis),
		Strategy:    strategyText,
		Validation:  f.ValidationSummary(r),
		Narrative:   f.Narrative(r, game),
	}
}

// FormatComposition renders every non-empty bucket in bucket order.
func (f *Formatter) FormatComposition(comp models.Composition) []Bucket {
	var out []Bucket
	for _, b := range comp.Buckets {
		if b.Len() == 0 {
			continue
		}
		text := bucketText[b.Bucket]
		fb := Bucket{Bucket: b.Bucket, Title: text.title, Intro: text.intro}
		for _, r := range b.Recommendations {
			fb.Recommendations = append(fb.Recommendations, f.FormatRecommendation(r, comp.Game))
		}
		out = append(out, fb)
	}
	return out
}

func (f *Formatter) GameSummary(game models.GameContext) string {
	return fmt.Sprintf("%s @ %s | Spread: %.1f | Total: %.1f | Pace: %.1f",
		game.AwayTeam, game.HomeTeam, game.Spread, game.Total, game.Pace)
}

// CompositionMarkdown renders a full game report.
func (f *Formatter) CompositionMarkdown(comp models.Composition) string {
	var builder strings.Builder

	builder.WriteString("# Strategic Recommendations\n\n")
	builder.WriteString(fmt.Sprintf("**Matchup:** %s\n\n", f.GameSummary(comp.Game)))

	buckets := f.FormatComposition(comp)
	if len(buckets) == 0 {
		builder.WriteString(EmptyGameMessage + "\n")
		return builder.String()
	}
	for _, b := range buckets {
		f.writeBucketSection(&builder, b)
	}
	f.writeRiskSection(&builder, comp.Risks)

	return builder.String()
}

func (f *Formatter) writeBucketSection(builder *strings.Builder, b Bucket) {
	builder.WriteString(fmt.Sprintf("## %s\n", b.Title))
	builder.WriteString(fmt.Sprintf("*%s*\n\n", b.Intro))
	for _, r := range b.Recommendations {
		builder.WriteString(fmt.Sprintf("**%s** (%s, %s)\n", r.Player, r.Position, r.Team))
		builder.WriteString(fmt.Sprintf("- Market: **%s**\n", r.MarketLine))
		builder.WriteString(fmt.Sprintf("- Confidence: **%.0f%%** (%s)\n", r.Confidence*100, r.Level))
		builder.WriteString(fmt.Sprintf("- Thesis: %s\n", r.Explanation))
		builder.WriteString(fmt.Sprintf("- Strategy: %s\n", r.Strategy))
		builder.WriteString(fmt.Sprintf("- Validation: %s\n", r.Validation))
		builder.WriteString(fmt.Sprintf("- Narrative: \"%s\"\n\n", r.Narrative))
	}
}

func (f *Formatter) writeRiskSection(builder *strings.Builder, risks []models.Thesis) {
	if len(risks) == 0 {
		return
	}
	builder.WriteString("## Risk Signals\n")
	for _, t := range risks {
		builder.WriteString(fmt.Sprintf("- %s (%s): %s\n", t.PlayerName, t.Team, strings.Join(t.Evidence, "; ")))
	}
	builder.WriteString("\n")
}

// MultipleMarkdown renders both daily tickets.
func (f *Formatter) MultipleMarkdown(dm models.DailyMultiple) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("# Daily Multiple %s\n\n", dm.Date))
	f.writeTicketSection(&builder, dm.Conservative)
	f.writeTicketSection(&builder, dm.Aggressive)

	return builder.String()
}

func (f *Formatter) writeTicketSection(builder *strings.Builder, t models.Ticket) {
	title, desc := "Conservative Multiple", "Highest-confidence picks spread across matchups."
	if t.Kind == models.TicketAggressive {
		title, desc = "Aggressive Multiple", "More upside in exchange for more risk."
	}
	builder.WriteString(fmt.Sprintf("## %s\n", title))
	builder.WriteString(fmt.Sprintf("*%s*\n\n", desc))

	if t.IsEmpty() {
		builder.WriteString("No ticket could be built from today's picks.\n\n")
		return
	}

	builder.WriteString(fmt.Sprintf("**Legs:** %d | **Approx. odds:** %.2f | **Average confidence:** %.0f%%\n\n",
		len(t.Legs), t.CombinedOdds, t.AverageConfidence*100))
	builder.WriteString("| Player | Market | Line | Confidence | Strategy |\n")
	builder.WriteString("|--------|--------|------|------------|----------|\n")
	for _, l := range t.Legs {
		line := "N/A"
		if l.SuggestedLine != nil {
			line = fmt.Sprintf("%.1f", *l.SuggestedLine)
		}
		builder.WriteString(fmt.Sprintf("| %s | %s | %s | %.2f | %s |\n",
			l.PlayerName, l.Market, line, l.Score(), l.IdentifiedStrategy))
	}
	builder.WriteString("\n")
	builder.WriteString(f.TicketSummary(t))
	builder.WriteString("\n")

	if len(t.Violations) > 0 {
		builder.WriteString("**Warnings:**\n")
		for _, v := range t.Violations {
			builder.WriteString(fmt.Sprintf("- %s: %s\n", v.Rule, v.Message))
		}
		builder.WriteString("\n")
	}
}

// TicketSummary lists market and team spread of a ticket.
func (f *Formatter) TicketSummary(t models.Ticket) string {
	markets := make(map[models.Market]int)
	var order []models.Market
	teams := make(map[string]bool)
	for _, l := range t.Legs {
		if markets[l.Market] == 0 {
			order = append(order, l.Market)
		}
		markets[l.Market]++
		teams[l.Team] = true
	}

	marketParts := make([]string, 0, len(order))
	for _, m := range order {
		marketParts = append(marketParts, fmt.Sprintf("%dx%s", markets[m], m))
	}
	teamList := make([]string, 0, len(teams))
	for team := range teams {
		teamList = append(teamList, team)
	}
	sort.Strings(teamList)

	return fmt.Sprintf("**Markets:** %s | **Teams:** %s | Spread across %d teams and %d markets.\n",
		strings.Join(marketParts, ", "), strings.Join(teamList, ", "), len(teamList), len(order))
}
