package persistent

import (
	"context"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"time"
)

func ensurePostsIndexes(ctx context.Context, posts *mongo.Collection) error {
	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "createdAt", Value: -1},
				{Key: "_id", Value: -1},
			},
		},
	}
	opts := options.CreateIndexes().SetMaxTime(10 * time.Second)

	_, err := posts.Indexes().CreateMany(ctx, indexModels, opts)
	if err != nil {
		return fmt.Errorf("posts: failed to ensure indexes %w", err)
	}
	return nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS posts (
		id         BIGSERIAL PRIMARY KEY,
		title      TEXT NOT NULL CHECK (title <> ''),
		body       TEXT NOT NULL CHECK (body <> ''),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC, id DESC)`,
}

func ensurePostgresSchema(ctx context.Context, exec func(ctx context.Context, sql string) error) error {
	for _, stmt := range postgresSchema {
		if err := exec(ctx, stmt); err != nil {
			return fmt.Errorf("posts: failed to ensure schema %w", err)
		}
	}
	return nil
}
