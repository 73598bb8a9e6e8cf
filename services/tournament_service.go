package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

const MessageStandingsUpdated = "STANDINGS_UPDATED"

// Publisher delivers messages to live subscribers. *brackets.Hub implements it.
type Publisher interface {
	BroadcastToRoom(roomID string, message interface{}) error
}

type TournamentService interface {
	RegisterPlayer(ctx context.Context, name string) (*models.Player, error)
	CountPlayers(ctx context.Context) (int, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	// DeletePlayers removes every player. Call DeleteMatches first, otherwise
	// the foreign keys on matches make it fail.
	DeletePlayers(ctx context.Context) error

	ReportMatch(ctx context.Context, winner, loser int) (*models.Match, error)
	ListMatches(ctx context.Context) ([]models.Match, error)
	DeleteMatches(ctx context.Context) error

	// ResetTournament deletes matches, then players. The two deletes are not
	// atomic: a failure on the second leaves the players in place.
	ResetTournament(ctx context.Context) error

	Standings(ctx context.Context) ([]models.PlayerStanding, error)
	Pairings(ctx context.Context) ([]models.Pairing, error)
}

type tournamentService struct {
	playerRepo   repositories.PlayerRepository
	matchRepo    repositories.MatchRepository
	standingRepo repositories.StandingRepository
	generator    brackets.PairingGenerator
	publisher    Publisher // nil disables live updates
	logger       *slog.Logger
}

func NewTournamentService(
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	generator brackets.PairingGenerator,
	publisher Publisher,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		playerRepo:   playerRepo,
		matchRepo:    matchRepo,
		standingRepo: standingRepo,
		generator:    generator,
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *tournamentService) RegisterPlayer(ctx context.Context, name string) (*models.Player, error) {
	player, err := s.playerRepo.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("player registered", slog.Int("player_id", player.ID))
	s.publishStandings(ctx)
	return player, nil
}

func (s *tournamentService) CountPlayers(ctx context.Context) (int, error) {
	return s.playerRepo.Count(ctx)
}

func (s *tournamentService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	return s.playerRepo.List(ctx)
}

func (s *tournamentService) DeletePlayers(ctx context.Context) error {
	if err := s.playerRepo.DeleteAll(ctx); err != nil {
		return err
	}
	s.logger.Info("all players deleted")
	s.publishStandings(ctx)
	return nil
}

func (s *tournamentService) ReportMatch(ctx context.Context, winner, loser int) (*models.Match, error) {
	match, err := s.matchRepo.Create(ctx, winner, loser)
	if err != nil {
		return nil, err
	}
	s.logger.Info("match reported", slog.Int("winner", winner), slog.Int("loser", loser))
	s.publishStandings(ctx)
	return match, nil
}

func (s *tournamentService) ListMatches(ctx context.Context) ([]models.Match, error) {
	return s.matchRepo.List(ctx)
}

func (s *tournamentService) DeleteMatches(ctx context.Context) error {
	if err := s.matchRepo.DeleteAll(ctx); err != nil {
		return err
	}
	s.logger.Info("all matches deleted")
	s.publishStandings(ctx)
	return nil
}

func (s *tournamentService) ResetTournament(ctx context.Context) error {
	if err := s.matchRepo.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.playerRepo.DeleteAll(ctx); err != nil {
		// Matches are already gone at this point.
		s.logger.Warn("tournament reset left players in place", slog.Any("error", err))
		return err
	}
	s.logger.Info("tournament reset")
	s.publishStandings(ctx)
	return nil
}

func (s *tournamentService) Standings(ctx context.Context) ([]models.PlayerStanding, error) {
	return s.standingRepo.List(ctx)
}

func (s *tournamentService) Pairings(ctx context.Context) ([]models.Pairing, error) {
	standings, err := s.standingRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(standings)%2 != 0 {
		s.logger.Warn("odd number of players, last one is not paired",
			slog.Int("players", len(standings)),
			slog.Int("unpaired_id", standings[len(standings)-1].ID))
	}
	return s.generator.Pair(standings), nil
}

// publishStandings pushes fresh standings to subscribers. Failures are logged only;
// the mutation that triggered it has already been committed.
func (s *tournamentService) publishStandings(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	standings, err := s.standingRepo.List(ctx)
	if err != nil {
		s.logger.Error("failed to load standings for broadcast", slog.Any("error", err))
		return
	}
	msg := brackets.WebSocketMessage{
		Type:    MessageStandingsUpdated,
		Payload: standings,
		RoomID:  brackets.StandingsRoom,
	}
	if err := s.publisher.BroadcastToRoom(brackets.StandingsRoom, msg); err != nil {
		s.logger.Error("failed to broadcast standings", slog.Any("error", err))
	}
}
