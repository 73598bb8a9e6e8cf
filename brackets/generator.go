package brackets

import (
	"github.com/Dosada05/swiss-tournament/models"
)

// PairingGenerator turns the current standings into next-round matchups.
type PairingGenerator interface {
	Pair(standings []models.PlayerStanding) []models.Pairing

	GetName() string
}
