package services

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/courtside/internal/enhancers"
	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/internal/pipeline"
	"github.com/stitts-dev/courtside/internal/playerctx"
	"github.com/stitts-dev/courtside/pkg/config"
)

// Publisher receives composed results for fan-out to subscribers.
type Publisher interface {
	Broadcast(topic, messageType string, data interface{}) error
}

// PipelineOptions maps configuration toggles onto composer options.
func PipelineOptions(t config.PipelineToggles) pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Enhancers = enhancers.Options{
		Pace:     t.Pace,
		Vacuum:   t.Vacuum,
		Rotation: t.Rotation,
		Ceiling:  t.Ceiling,
	}
	opts.Context = playerctx.Options{TreatUnknownAsAvailable: t.TreatUnknownAsAvailable}
	return opts
}

// RecommendationService composes games concurrently and publishes results.
type RecommendationService struct {
	composer  *pipeline.Composer
	workers   int
	publisher Publisher
	tickets   *TicketStore
	logger    *logrus.Logger
}

// NewRecommendationService wires the composer. publisher and tickets may be nil.
func NewRecommendationService(composer *pipeline.Composer, workers int, publisher Publisher, tickets *TicketStore, logger *logrus.Logger) *RecommendationService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if workers < 1 {
		workers = 1
	}
	return &RecommendationService{
		composer:  composer,
		workers:   workers,
		publisher: publisher,
		tickets:   tickets,
		logger:    logger,
	}
}

func (s *RecommendationService) ComposeGame(ctx context.Context, gs models.GameSlate) (models.Composition, error) {
	if err := ctx.Err(); err != nil {
		return models.Composition{}, err
	}
	comp := s.composer.ComposeGame(gs)
	s.publish(TopicCompositions, MessageComposition, comp)
	return comp, nil
}

// ComposeSlate fans games out to the worker pool and returns compositions in
// slate order. Cancelling ctx stops dispatch; games already running finish.
func (s *RecommendationService) ComposeSlate(ctx context.Context, slate models.Slate) ([]models.Composition, error) {
	results := make([]models.Composition, len(slate.Games))
	jobs := make(chan int)

	var wg sync.WaitGroup
	workers := s.workers
	if workers > len(slate.Games) {
		workers = len(slate.Games)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.composer.ComposeGame(slate.Games[i])
			}
		}()
	}

	var dispatchErr error
dispatch:
	for i := range slate.Games {
		if err := ctx.Err(); err != nil {
			dispatchErr = err
			break
		}
		select {
		case <-ctx.Done():
			dispatchErr = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if dispatchErr != nil {
		s.logger.WithFields(logrus.Fields{
			"date":  slate.Date,
			"error": dispatchErr,
		}).Warn("Slate composition cancelled")
		return nil, dispatchErr
	}

	for _, comp := range results {
		s.publish(TopicCompositions, MessageComposition, comp)
	}
	return results, nil
}

// DailyMultiple composes the slate and assembles its two tickets, storing
// them when persist is set and a ticket store is configured.
func (s *RecommendationService) DailyMultiple(ctx context.Context, slate models.Slate, persist bool) (models.DailyMultiple, []models.Composition, error) {
	comps, err := s.ComposeSlate(ctx, slate)
	if err != nil {
		return models.DailyMultiple{}, nil, err
	}

	dm := s.composer.AssembleMultiple(slate.Date, comps)

	if persist && s.tickets != nil {
		if _, err := s.tickets.SaveMultiple(ctx, dm); err != nil {
			return dm, comps, err
		}
	}

	s.publish(TopicMultiples, MessageMultiple, dm)
	return dm, comps, nil
}

func (s *RecommendationService) publish(topic, messageType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Broadcast(topic, messageType, data); err != nil {
		s.logger.WithFields(logrus.Fields{
			"topic": topic,
			"error": err,
		}).Warn("Failed to publish")
	}
}
