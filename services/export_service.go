package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/storage"
)

// StandingsSnapshot is the document uploaded by ExportStandings.
type StandingsSnapshot struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Standings   []models.PlayerStanding `json:"standings"`
	Pairings    []models.Pairing        `json:"pairings"`
	Matches     []models.Match          `json:"matches"`
}

type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type ExportService interface {
	ExportStandings(ctx context.Context) (*ExportResult, error)
}

type exportService struct {
	standingRepo repositories.StandingRepository
	generator    brackets.PairingGenerator
	uploader     storage.FileUploader // nil when export is not configured
	now          func() time.Time
	logger       *slog.Logger
}

func NewExportService(
	standingRepo repositories.StandingRepository,
	generator brackets.PairingGenerator,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ExportService {
	return &exportService{
		standingRepo: standingRepo,
		generator:    generator,
		uploader:     uploader,
		now:          time.Now,
		logger:       logger,
	}
}

func (s *exportService) ExportStandings(ctx context.Context) (*ExportResult, error) {
	if s.uploader == nil {
		return nil, ErrExportDisabled
	}

	// Standings and matches come from one transaction, so they always agree.
	standings, matches, err := s.standingRepo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := StandingsSnapshot{
		GeneratedAt: s.now().UTC(),
		Standings:   standings,
		Pairings:    s.generator.Pair(standings),
		Matches:     matches,
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: encode snapshot: %w", ErrExportFailed, err)
	}

	key := fmt.Sprintf("standings/%d.json", snapshot.GeneratedAt.UnixNano())
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	s.logger.Info("standings exported", slog.String("key", result.Key), slog.Int("players", len(snapshot.Standings)))
	return &ExportResult{Key: result.Key, URL: result.Location}, nil
}
