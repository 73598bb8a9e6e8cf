package repositories

import (
	"context"
	"database/sql"

	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/models"
)

type MatchRepository interface {
	// Create records winner as both host and winner, loser as guest.
	// Player existence and rematches are not checked here.
	Create(ctx context.Context, winner, loser int) (*models.Match, error)
	List(ctx context.Context) ([]models.Match, error)
	DeleteAll(ctx context.Context) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, winner, loser int) (*models.Match, error) {
	query := `INSERT INTO matches (host, guest, winner) VALUES ($1, $2, $3)`

	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, winner, loser, winner)
		return err
	})
	if err != nil {
		return nil, storageError("report match", err)
	}
	return &models.Match{Host: winner, Guest: loser, Winner: winner}, nil
}

const listMatchesQuery = `SELECT host, guest, winner FROM matches ORDER BY id ASC`

func (r *postgresMatchRepository) List(ctx context.Context) ([]models.Match, error) {
	var matches []models.Match
	err := db.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		var err error
		matches, err = queryMatches(ctx, conn)
		return err
	})
	if err != nil {
		return nil, storageError("list matches", err)
	}
	return matches, nil
}

func queryMatches(ctx context.Context, q queryer) ([]models.Match, error) {
	rows, err := q.QueryContext(ctx, listMatchesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.Host, &m.Guest, &m.Winner); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) DeleteAll(ctx context.Context) error {
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM matches`)
		return err
	})
	return storageError("delete matches", err)
}
