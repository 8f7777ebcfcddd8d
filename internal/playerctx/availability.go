package playerctx

import (
	"math"
	"strings"

	"github.com/stitts-dev/courtside/internal/models"
)

var outMarkers = []string{"out", "ir", "injur"}

// IsUnavailableStatus reports whether a free-text status rules a player out.
func IsUnavailableStatus(status string) bool {
	s := strings.ToLower(status)
	if strings.Contains(s, "unavailable") {
		return true
	}
	for _, m := range outMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// IsQuestionableStatus flags players excluded from the safe ticket pool.
func IsQuestionableStatus(status string) bool {
	return strings.Contains(strings.ToLower(status), "questionable")
}

func isActiveStatus(status string) bool {
	s := strings.ToLower(status)
	return strings.Contains(s, "active") || strings.Contains(s, "available")
}

// DeriveAvailability returns availability and expected minutes. Minutes are
// never negative and are zero whenever the player is out.
func DeriveAvailability(status string, isStarter bool, minutesAvg, lastMinutes float64, treatUnknownAsAvailable bool) (models.Availability, float64) {
	if IsUnavailableStatus(status) {
		return models.AvailabilityOut, 0
	}

	var availability models.Availability
	var minutes float64
	switch {
	case isStarter:
		availability = models.AvailabilityAvailable
		minutes = math.Max(math.Max(minutesAvg, lastMinutes), 28)
	case isActiveStatus(status):
		availability = models.AvailabilityAvailable
		minutes = math.Max(minutesAvg*0.8, lastMinutes*0.9)
	case treatUnknownAsAvailable:
		availability = models.AvailabilityProbable
		minutes = math.Max(minutesAvg*0.8, lastMinutes*0.6)
	default:
		availability = models.AvailabilityProbable
		minutes = minutesAvg * 0.6
	}

	return availability, math.Max(0, models.Round(minutes, 1))
}
