package repositories

import (
	"context"
	"database/sql"

	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/models"
)

type PlayerRepository interface {
	Create(ctx context.Context, name string) (*models.Player, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]models.Player, error)
	// DeleteAll fails with a foreign key violation while matches still reference players.
	DeleteAll(ctx context.Context) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, name string) (*models.Player, error) {
	query := `INSERT INTO players (name) VALUES ($1) RETURNING id, name`

	player := &models.Player{}
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, name).Scan(&player.ID, &player.Name)
	})
	if err != nil {
		return nil, storageError("register player", err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT count(*) AS number FROM players`

	var count int
	err := db.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, query).Scan(&count)
	})
	if err != nil {
		return 0, storageError("count players", err)
	}
	return count, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	query := `SELECT id, name FROM players ORDER BY id ASC`

	players := make([]models.Player, 0)
	err := db.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p models.Player
			if err := rows.Scan(&p.ID, &p.Name); err != nil {
				return err
			}
			players = append(players, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, storageError("list players", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) DeleteAll(ctx context.Context) error {
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM players`)
		return err
	})
	return storageError("delete players", err)
}
