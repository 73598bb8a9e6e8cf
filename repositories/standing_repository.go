package repositories

import (
	"context"
	"database/sql"

	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/models"
)

type StandingRepository interface {
	// List returns one row per registered player ordered by wins, most first.
	List(ctx context.Context) ([]models.PlayerStanding, error)
	// Snapshot reads standings and the match log from one consistent view.
	Snapshot(ctx context.Context) ([]models.PlayerStanding, []models.Match, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

// Correlated count(*) yields 0 for players without matches, so every player gets a row.
// A match where host = guest is counted once by the OR predicate; no distinctness is enforced.
// Ties on wins are ordered by id so that pairings are reproducible.
const standingsQuery = `
	SELECT p.id, p.name,
	       (SELECT count(*) FROM matches m WHERE m.winner = p.id) AS wins,
	       (SELECT count(*) FROM match_players mp WHERE p.id = mp.host OR p.id = mp.guest) AS num
	FROM players p
	ORDER BY wins DESC, p.id ASC`

func (r *postgresStandingRepository) List(ctx context.Context) ([]models.PlayerStanding, error) {
	var standings []models.PlayerStanding
	err := db.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		var err error
		standings, err = queryStandings(ctx, conn)
		return err
	})
	if err != nil {
		return nil, storageError("player standings", err)
	}
	return standings, nil
}

var snapshotTxOptions = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

func (r *postgresStandingRepository) Snapshot(ctx context.Context) ([]models.PlayerStanding, []models.Match, error) {
	var (
		standings []models.PlayerStanding
		matches   []models.Match
	)
	err := db.WithTxOptions(ctx, r.db, snapshotTxOptions, func(tx *sql.Tx) error {
		var err error
		if standings, err = queryStandings(ctx, tx); err != nil {
			return err
		}
		matches, err = queryMatches(ctx, tx)
		return err
	})
	if err != nil {
		return nil, nil, storageError("standings snapshot", err)
	}
	return standings, matches, nil
}

func queryStandings(ctx context.Context, q queryer) ([]models.PlayerStanding, error) {
	rows, err := q.QueryContext(ctx, standingsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]models.PlayerStanding, 0)
	for rows.Next() {
		var s models.PlayerStanding
		if err := rows.Scan(&s.ID, &s.Name, &s.Wins, &s.Matches); err != nil {
			return nil, err
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}
