package persistent

import (
	"context"
	"errors"
	"fmt"
	"permablog/storage"
	"permablog/storage/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	insertPostQuery = `INSERT INTO posts (title, body) VALUES ($1, $2) RETURNING id, created_at`
	selectPostQuery = `SELECT id, title, body, created_at FROM posts WHERE id = $1`
	selectAllQuery  = `SELECT id, title, body, created_at FROM posts ORDER BY created_at DESC, id DESC`
)

type PostgresStorage struct {
	pool *pgxpool.Pool
}

func (s *PostgresStorage) AddPost(ctx context.Context, title string, body string) (*models.Post, error) {
	if err := storage.ValidatePost(title, body); err != nil {
		return nil, err
	}
	post := models.Post{Title: title, Body: body}
	err := s.pool.QueryRow(ctx, insertPostQuery, title, body).Scan(&post.Id, &post.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %s %w", err.Error(), storage.InternalError)
	}
	post.CreatedAt = post.CreatedAt.UTC()
	return &post, nil
}

func (s *PostgresStorage) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := s.pool.QueryRow(ctx, selectPostQuery, id).Scan(&post.Id, &post.Title, &post.Body, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no row with id %v: %w", id, storage.NotFoundError)
		}
		return nil, fmt.Errorf("failed to find post: %s %w", err.Error(), storage.InternalError)
	}
	post.CreatedAt = post.CreatedAt.UTC()
	return &post, nil
}

func (s *PostgresStorage) GetPosts(ctx context.Context) ([]models.Post, error) {
	rows, err := s.pool.Query(ctx, selectAllQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %s, %w", err.Error(), storage.InternalError)
	}
	posts, err := pgx.CollectRows(rows, scanPost)
	if err != nil {
		return nil, fmt.Errorf("failed to scan posts: %s, %w", err.Error(), storage.InternalError)
	}
	if posts == nil {
		posts = make([]models.Post, 0)
	}
	return posts, nil
}

func scanPost(row pgx.CollectableRow) (models.Post, error) {
	var post models.Post
	err := row.Scan(&post.Id, &post.Title, &post.Body, &post.CreatedAt)
	post.CreatedAt = post.CreatedAt.UTC()
	return post, err
}

func (s *PostgresStorage) Close() {
	s.pool.Close()
}

func CreatePostgresStorage(ctx context.Context, dsn string) (*PostgresStorage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConns = 20
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	err = ensurePostgresSchema(ctx, func(ctx context.Context, sql string) error {
		_, err := pool.Exec(ctx, sql)
		return err
	})
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStorage{pool: pool}, nil
}
