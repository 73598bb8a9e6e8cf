package brackets

import (
	"github.com/Dosada05/swiss-tournament/models"
)

type SwissGenerator struct{}

func NewSwissGenerator() PairingGenerator {
	return &SwissGenerator{}
}

func (g *SwissGenerator) GetName() string {
	return "Swiss"
}

// Pair matches rank-adjacent players: 1st with 2nd, 3rd with 4th and so on.
// With an odd number of players the last one is left out; no bye is created.
// Previous opponents are not taken into account.
func (g *SwissGenerator) Pair(standings []models.PlayerStanding) []models.Pairing {
	pairings := make([]models.Pairing, 0, len(standings)/2)
	for i := 0; i+1 < len(standings); i += 2 {
		p1, p2 := standings[i], standings[i+1]
		pairings = append(pairings, models.Pairing{
			ID1:   p1.ID,
			Name1: p1.Name,
			ID2:   p2.ID,
			Name2: p2.Name,
		})
	}
	return pairings
}
