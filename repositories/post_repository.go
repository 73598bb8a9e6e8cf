package repositories

import (
	"context"
	"database/sql"

	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/models"
)

type PostRepository interface {
	// List returns every post, newest first.
	List(ctx context.Context) ([]models.Post, error)
	// Create stores content as given; callers sanitize it beforehand.
	Create(ctx context.Context, content string) (*models.Post, error)
}

type postgresPostRepository struct {
	db *sql.DB
}

func NewPostgresPostRepository(db *sql.DB) PostRepository {
	return &postgresPostRepository{db: db}
}

func (r *postgresPostRepository) List(ctx context.Context) ([]models.Post, error) {
	// id DESC keeps posts with identical timestamps in reverse insertion order
	query := `SELECT time, content FROM posts ORDER BY time DESC, id DESC`

	posts := make([]models.Post, 0)
	err := db.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p models.Post
			if err := rows.Scan(&p.PostedAt, &p.Content); err != nil {
				return err
			}
			posts = append(posts, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, storageError("list posts", err)
	}
	return posts, nil
}

func (r *postgresPostRepository) Create(ctx context.Context, content string) (*models.Post, error) {
	query := `INSERT INTO posts (content) VALUES ($1) RETURNING time, content`

	post := &models.Post{}
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, content).Scan(&post.PostedAt, &post.Content)
	})
	if err != nil {
		return nil, storageError("add post", err)
	}
	return post, nil
}
