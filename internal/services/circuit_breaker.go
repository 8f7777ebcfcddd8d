package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Upstream names guarded by the breaker service.
const (
	UpstreamESPN        = "espn"
	UpstreamBallDontLie = "balldontlie"
)

type CircuitBreakerService struct {
	breakers map[string]*gobreaker.CircuitBreaker
	logger   *logrus.Logger
}

func NewCircuitBreakerService(threshold int, timeout time.Duration, logger *logrus.Logger) *CircuitBreakerService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if threshold < 1 {
		threshold = 1
	}

	settings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name,
			MaxRequests: uint32(threshold),
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.WithFields(logrus.Fields{
					"component": "circuit_breaker",
					"service":   name,
					"from":      from.String(),
					"to":        to.String(),
				}).Info("Circuit breaker state changed")
			},
		}
	}

	breakers := map[string]*gobreaker.CircuitBreaker{
		UpstreamESPN:        gobreaker.NewCircuitBreaker(settings(UpstreamESPN)),
		UpstreamBallDontLie: gobreaker.NewCircuitBreaker(settings(UpstreamBallDontLie)),
	}

	return &CircuitBreakerService{
		breakers: breakers,
		logger:   logger,
	}
}

// Execute wraps a function call with circuit breaker protection
func (cb *CircuitBreakerService) Execute(service string, fn func() (interface{}, error)) (interface{}, error) {
	breaker, exists := cb.breakers[service]
	if !exists {
		cb.logger.WithFields(logrus.Fields{
			"component": "circuit_breaker",
			"service":   service,
		}).Warn("No circuit breaker found for service, executing without protection")
		return fn()
	}

	return breaker.Execute(fn)
}

// Guard runs fn behind the named breaker for callers that return no value.
func (cb *CircuitBreakerService) Guard(service string, fn func() error) error {
	_, err := cb.Execute(service, func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// GetState returns the current state of a circuit breaker
func (cb *CircuitBreakerService) GetState(service string) gobreaker.State {
	if breaker, exists := cb.breakers[service]; exists {
		return breaker.State()
	}
	return gobreaker.StateClosed
}

func (cb *CircuitBreakerService) GetCounts(service string) gobreaker.Counts {
	if breaker, exists := cb.breakers[service]; exists {
		return breaker.Counts()
	}
	return gobreaker.Counts{}
}

// States reports every breaker's state by name, for health checks.
func (cb *CircuitBreakerService) States() map[string]string {
	out := make(map[string]string, len(cb.breakers))
	for name, b := range cb.breakers {
		out[name] = b.State().String()
	}
	return out
}
