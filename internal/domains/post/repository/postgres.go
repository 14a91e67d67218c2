package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"edunews-backend/internal/domains/post/model"
)

// postgresRepository stores posts in a single table:
//
//	CREATE TABLE posts (
//	    id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
//	    title       text NOT NULL,
//	    category    text NOT NULL,
//	    description text NOT NULL,
//	    image_url   text,
//	    author      text NOT NULL,
//	    user_id     text NOT NULL,
//	    post_date   text NOT NULL,
//	    edited      boolean NOT NULL DEFAULT false,
//	    edit_date   text NOT NULL DEFAULT ''
//	);
//	CREATE INDEX posts_user_date_idx ON posts (user_id, post_date DESC);
//	CREATE INDEX posts_category_date_idx ON posts (category, post_date DESC);
//
// post_date stays a text column on purpose: the stored layout sorts
// lexicographically in chronological order, and the feed layer owns the
// tolerant parsing.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) PostRepository {
	return &postgresRepository{pool: pool}
}

const postColumns = `id, title, category, description, COALESCE(image_url, ''), author, user_id, post_date, edited, edit_date`

func (r *postgresRepository) Create(ctx context.Context, p *model.Post) (string, error) {
	query := `
		INSERT INTO posts (title, category, description, image_url, author, user_id, post_date, edited, edit_date)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id string
	err := r.pool.QueryRow(ctx, query,
		p.Title,
		p.Category,
		p.Description,
		p.ImageURL,
		p.Author,
		p.UserID,
		p.PostDate,
		p.Edited,
		p.EditDate,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert post: %w", err)
	}
	return id, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.ErrPostNotFound
	}

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	var p model.Post
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Category, &p.Description, &p.ImageURL,
		&p.Author, &p.UserID, &p.PostDate, &p.Edited, &p.EditDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return &p, nil
}

// Update writes the full candidate field set. There is no version predicate:
// concurrent edits of the same post are last-write-wins, relying on the row
// write being atomic.
func (r *postgresRepository) Update(ctx context.Context, id string, u model.PostUpdate) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.ErrPostNotFound
	}

	query := `
		UPDATE posts
		SET title = $2, category = $3, description = $4, image_url = NULLIF($5, ''),
		    edited = $6, edit_date = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, u.Title, u.Category, u.Description, u.ImageURL, u.Edited, u.EditDate)
	if err != nil {
		return fmt.Errorf("update post %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.ErrPostNotFound
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 ORDER BY post_date DESC, id DESC`
	return r.list(ctx, query, userID)
}

func (r *postgresRepository) ListByCategory(ctx context.Context, category string, limit int) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE category = $1 ORDER BY post_date DESC, id DESC LIMIT $2`
	return r.list(ctx, query, category, limit)
}

func (r *postgresRepository) ListLatest(ctx context.Context, limit int) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY post_date DESC, id DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

// ListPage pages with a row-value comparison so posts sharing a post_date
// are never skipped across a page boundary.
func (r *postgresRepository) ListPage(ctx context.Context, limit int, afterDate, afterID string) ([]model.Post, error) {
	if afterID != "" {
		if _, err := uuid.Parse(afterID); err != nil {
			afterID = ""
		}
	}

	switch {
	case afterDate == "":
		query := `SELECT ` + postColumns + ` FROM posts ORDER BY post_date DESC, id DESC LIMIT $1`
		return r.list(ctx, query, limit)
	case afterID == "":
		query := `
			SELECT ` + postColumns + `
			FROM posts
			WHERE post_date < $2
			ORDER BY post_date DESC, id DESC
			LIMIT $1
		`
		return r.list(ctx, query, limit, afterDate)
	default:
		query := `
			SELECT ` + postColumns + `
			FROM posts
			WHERE (post_date, id) < ($2, $3::uuid)
			ORDER BY post_date DESC, id DESC
			LIMIT $1
		`
		return r.list(ctx, query, limit, afterDate, afterID)
	}
}

func (r *postgresRepository) ListImageURLs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT image_url FROM posts WHERE image_url IS NOT NULL AND image_url <> ''`)
	if err != nil {
		return nil, fmt.Errorf("list image urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan image url: %w", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return urls, nil
}

func (r *postgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Post, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		var p model.Post
		err := rows.Scan(
			&p.ID, &p.Title, &p.Category, &p.Description, &p.ImageURL,
			&p.Author, &p.UserID, &p.PostDate, &p.Edited, &p.EditDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return posts, nil
}
