package enhancers

import (
	"github.com/stitts-dev/courtside/internal/models"
)

type Options struct {
	Pace     bool
	Vacuum   bool
	Rotation bool
	Ceiling  bool
}

func AllEnabled() Options {
	return Options{Pace: true, Vacuum: true, Rotation: true, Ceiling: true}
}

// Pipeline applies the enabled enhancers in the order
// pace, vacancy, rotation, ceiling.
type Pipeline struct {
	opts     Options
	pace     *PaceAdjuster
	vacuum   *VacuumAnalyzer
	rotation *RotationEnhancer
	ceiling  *CeilingEstimator
}

func NewPipeline(opts Options, pace *PaceAdjuster) *Pipeline {
	if pace == nil {
		pace = NewPaceAdjuster(nil)
	}
	return &Pipeline{
		opts:     opts,
		pace:     pace,
		vacuum:   NewVacuumAnalyzer(),
		rotation: NewRotationEnhancer(),
		ceiling:  NewCeilingEstimator(),
	}
}

func (p *Pipeline) Options() Options { return p.opts }

// Enhance runs the pipeline over every player in one game. The input slice
// is not modified.
func (p *Pipeline) Enhance(players []models.PlayerContext, game models.GameContext, signals map[string]models.LineupSignal) []models.PlayerContext {
	out := make([]models.PlayerContext, len(players))
	copy(out, players)

	if p.opts.Pace {
		for i := range out {
			out[i] = p.pace.Apply(out[i], game)
		}
	}

	if p.opts.Vacuum {
		for _, idx := range groupByTeam(out) {
			team := make([]models.PlayerContext, len(idx))
			for j, i := range idx {
				team[j] = out[i]
			}
			for j, enhanced := range p.vacuum.Apply(team) {
				out[idx[j]] = enhanced
			}
		}
	}

	if p.opts.Rotation {
		byTeam := groupByTeam(out)
		snapshot := make([]models.PlayerContext, len(out))
		copy(snapshot, out)
		for i := range out {
			var signal *models.LineupSignal
			if s, ok := signals[out[i].Key()]; ok {
				signal = &s
			}
			teammates := make([]models.PlayerContext, 0, len(byTeam[out[i].Team]))
			for _, j := range byTeam[out[i].Team] {
				teammates = append(teammates, snapshot[j])
			}
			out[i] = p.rotation.Apply(out[i], signal, teammates)
		}
	}

	if p.opts.Ceiling {
		for i := range out {
			out[i] = p.ceiling.Apply(out[i], game)
		}
	}

	return out
}

func groupByTeam(players []models.PlayerContext) map[string][]int {
	groups := make(map[string][]int)
	for i, p := range players {
		groups[p.Team] = append(groups[p.Team], i)
	}
	return groups
}
