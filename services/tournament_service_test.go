package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
)

func registerAll(t *testing.T, svc TournamentService, names ...string) []models.Player {
	t.Helper()
	players := make([]models.Player, 0, len(names))
	for _, name := range names {
		p, err := svc.RegisterPlayer(context.Background(), name)
		require.NoError(t, err)
		players = append(players, *p)
	}
	return players
}

func TestCountPlayersTracksRegistrationsSinceDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTournament(nil)

	n, err := svc.CountPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	registerAll(t, svc, "Ann", "Ann", "")
	n, err = svc.CountPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "duplicate and empty names are accepted")

	require.NoError(t, svc.DeletePlayers(ctx))
	registerAll(t, svc, "Bob")
	n, err = svc.CountPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStandingsFourPlayerScenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTournament(nil)
	p := registerAll(t, svc, "A", "B", "C", "D")
	a, b, c, d := p[0], p[1], p[2], p[3]

	_, err := svc.ReportMatch(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = svc.ReportMatch(ctx, c.ID, d.ID)
	require.NoError(t, err)

	standings, err := svc.Standings(ctx)
	require.NoError(t, err)
	require.Len(t, standings, 4)

	winners := map[int]bool{a.ID: true, c.ID: true}
	for i, s := range standings {
		assert.Equal(t, 1, s.Matches)
		if i < 2 {
			assert.True(t, winners[s.ID], "winners rank first")
			assert.Equal(t, 1, s.Wins)
		} else {
			assert.False(t, winners[s.ID])
			assert.Equal(t, 0, s.Wins)
		}
	}

	pairings, err := svc.Pairings(ctx)
	require.NoError(t, err)
	require.Len(t, pairings, 2)

	// Rank-adjacent pairing of the 2-2 split: winners meet winners.
	assert.Equal(t, models.Pairing{ID1: a.ID, Name1: "A", ID2: c.ID, Name2: "C"}, pairings[0])
	assert.Equal(t, models.Pairing{ID1: b.ID, Name1: "B", ID2: d.ID, Name2: "D"}, pairings[1])
}

func TestPairingsOddCountDropsLastPlayer(t *testing.T) {
	svc, _ := newTestTournament(nil)
	p := registerAll(t, svc, "A", "B", "C")

	pairings, err := svc.Pairings(context.Background())
	require.NoError(t, err)
	require.Len(t, pairings, 1)
	for _, pair := range pairings {
		assert.NotEqual(t, p[2].ID, pair.ID1)
		assert.NotEqual(t, p[2].ID, pair.ID2)
	}
}

func TestPairingsAllowRematch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTournament(nil)
	p := registerAll(t, svc, "A", "B")

	_, err := svc.ReportMatch(ctx, p[0].ID, p[1].ID)
	require.NoError(t, err)

	pairings, err := svc.Pairings(ctx)
	require.NoError(t, err)
	require.Len(t, pairings, 1)
	assert.Equal(t, p[0].ID, pairings[0].ID1)
	assert.Equal(t, p[1].ID, pairings[0].ID2)
}

func TestStandingsInvariants(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTournament(nil)
	p := registerAll(t, svc, "A", "B", "C", "D", "E", "F")

	results := [][2]int{{0, 1}, {2, 3}, {4, 5}, {0, 2}, {5, 1}, {3, 4}, {0, 5}}
	for _, r := range results {
		_, err := svc.ReportMatch(ctx, p[r[0]].ID, p[r[1]].ID)
		require.NoError(t, err)
	}

	standings, err := svc.Standings(ctx)
	require.NoError(t, err)
	require.Len(t, standings, len(p))

	totalWins, totalPlayed := 0, 0
	for i, s := range standings {
		assert.LessOrEqual(t, s.Wins, s.Matches)
		if i > 0 {
			assert.GreaterOrEqual(t, standings[i-1].Wins, s.Wins, "ordered by wins descending")
		}
		totalWins += s.Wins
		totalPlayed += s.Matches
	}
	assert.Equal(t, len(results), totalWins)
	assert.Equal(t, 2*len(results), totalPlayed)
}

func TestDeleteMatchesTwiceZeroesStandings(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTournament(nil)
	p := registerAll(t, svc, "A", "B")

	_, err := svc.ReportMatch(ctx, p[0].ID, p[1].ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMatches(ctx))
	require.NoError(t, svc.DeleteMatches(ctx))

	matches, err := svc.ListMatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, matches)

	standings, err := svc.Standings(ctx)
	require.NoError(t, err)
	require.Len(t, standings, 2)
	for _, s := range standings {
		assert.Zero(t, s.Wins)
		assert.Zero(t, s.Matches)
	}
}

func TestStandingsIncludePlayersWithoutMatches(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTournament(nil)
	p := registerAll(t, svc, "A", "B", "Idle")

	_, err := svc.ReportMatch(ctx, p[1].ID, p[0].ID)
	require.NoError(t, err)

	standings, err := svc.Standings(ctx)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, models.PlayerStanding{ID: p[1].ID, Name: "B", Wins: 1, Matches: 1}, standings[0])
	assert.Equal(t, models.PlayerStanding{ID: p[0].ID, Name: "A", Wins: 0, Matches: 1}, standings[1])
	assert.Equal(t, models.PlayerStanding{ID: p[2].ID, Name: "Idle", Wins: 0, Matches: 0}, standings[2])
}

func TestDeletePlayersWithMatchesFails(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestTournament(nil)
	p := registerAll(t, svc, "A", "B")

	_, err := svc.ReportMatch(ctx, p[0].ID, p[1].ID)
	require.NoError(t, err)

	err = svc.DeletePlayers(ctx)
	assert.ErrorIs(t, err, ErrStorage)

	require.NoError(t, svc.ResetTournament(ctx))
	n, err := svc.CountPlayers(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResetTournamentIsNotAtomic(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestTournament(nil)
	p := registerAll(t, svc, "A", "B")
	_, err := svc.ReportMatch(ctx, p[0].ID, p[1].ID)
	require.NoError(t, err)

	store.failOn["delete players"] = errors.New("connection lost")

	err = svc.ResetTournament(ctx)
	require.ErrorIs(t, err, ErrStorage)

	matches, err := svc.ListMatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, matches, "matches were deleted before the failure")

	n, err := svc.CountPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestTournament(nil)
	cause := errors.New("connection refused")
	store.failOn["register player"] = cause
	store.failOn["report match"] = cause
	store.failOn["player standings"] = cause

	_, err := svc.RegisterPlayer(ctx, "A")
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)

	_, err = svc.ReportMatch(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrStorage)

	_, err = svc.Standings(ctx)
	assert.ErrorIs(t, err, ErrStorage)

	_, err = svc.Pairings(ctx)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestMutationsPublishStandings(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc, _ := newTestTournament(pub)

	p := registerAll(t, svc, "A", "B")
	_, err := svc.ReportMatch(ctx, p[0].ID, p[1].ID)
	require.NoError(t, err)

	require.Len(t, pub.messages, 3)
	last := pub.messages[2]
	assert.Equal(t, MessageStandingsUpdated, last.Type)
	assert.Equal(t, brackets.StandingsRoom, last.RoomID)

	standings, ok := last.Payload.([]models.PlayerStanding)
	require.True(t, ok)
	require.Len(t, standings, 2)
	assert.Equal(t, 1, standings[0].Wins)

	require.NoError(t, svc.ResetTournament(ctx))
	assert.Len(t, pub.messages, 4, "reset publishes once")
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("hub down")}
	svc, _ := newTestTournament(pub)

	_, err := svc.RegisterPlayer(context.Background(), "A")
	assert.NoError(t, err)
}
