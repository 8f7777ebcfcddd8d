package dvp

import (
	"math"
	"sort"

	"github.com/stitts-dev/courtside/internal/models"
)

// Sample is one player's recent per-game production, tagged with their team.
type Sample struct {
	Team     string
	Points   float64
	Rebounds float64
	Assists  float64
}

// quantiles picks, per position, which percentile of a team's recent player
// averages stands in for the production that position sees.
var quantiles = map[models.Position][3]float64{
	models.PositionPG: {0.8, 0.3, 0.9},
	models.PositionSG: {0.7, 0.4, 0.6},
	models.PositionSF: {0.6, 0.5, 0.4},
	models.PositionPF: {0.5, 0.7, 0.3},
	models.PositionC:  {0.4, 0.9, 0.2},
}

// SamplesFromSlate collects the recent averages of every rostered player
// that has stats.
func SamplesFromSlate(slate models.Slate) []Sample {
	var out []Sample
	for _, gs := range slate.Games {
		for _, entry := range gs.Roster {
			stats, ok := gs.Stats[entry.Key()]
			if !ok || entry.Team == "" || stats.GamesPlayed == 0 {
				continue
			}
			out = append(out, Sample{
				Team:     entry.Team,
				Points:   stats.PointsAvg,
				Rebounds: stats.ReboundsAvg,
				Assists:  stats.AssistsAvg,
			})
		}
	}
	return out
}

// Generate builds a table from recent player averages: each team's row is
// a set of percentiles over its own players, rounded to one decimal. It
// returns nil when there are no samples.
func Generate(samples []Sample) Table {
	byTeam := make(map[string][]Sample)
	for _, s := range samples {
		byTeam[s.Team] = append(byTeam[s.Team], s)
	}
	if len(byTeam) == 0 {
		return nil
	}

	table := make(Table, len(byTeam))
	for team, rows := range byTeam {
		points := make([]float64, len(rows))
		rebounds := make([]float64, len(rows))
		assists := make([]float64, len(rows))
		for i, r := range rows {
			points[i], rebounds[i], assists[i] = r.Points, r.Rebounds, r.Assists
		}
		sort.Float64s(points)
		sort.Float64s(rebounds)
		sort.Float64s(assists)

		row := make(map[models.Position]Allowed, len(quantiles))
		for pos, q := range quantiles {
			row[pos] = Allowed{
				Points:   models.Round(quantile(points, q[0]), 1),
				Rebounds: models.Round(quantile(rebounds, q[1]), 1),
				Assists:  models.Round(quantile(assists, q[2]), 1),
			}
		}
		table[team] = row
	}
	return table
}

// quantile interpolates linearly between the closest ranks of sorted xs.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
