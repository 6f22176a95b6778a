package persistent

import (
	"context"
	"errors"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"permablog/storage"
	"permablog/storage/models"
	"time"
)

const postsCounterId = "posts"

type counter struct {
	Id  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

var ensureIndexes = ensurePostsIndexes

type MongoStorage struct {
	client   *mongo.Client
	posts    *mongo.Collection
	counters *mongo.Collection
}

// nextPostId atomically reserves the next post id. Ids left behind by failed
// inserts are never reused.
func (s *MongoStorage) nextPostId(ctx context.Context) (int64, error) {
	var c counter
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	err := s.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postsCounterId},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("failed to reserve post id: %s %w", err.Error(), storage.InternalError)
	}
	return c.Seq, nil
}

func (s *MongoStorage) AddPost(ctx context.Context, title string, body string) (*models.Post, error) {
	if err := storage.ValidatePost(title, body); err != nil {
		return nil, err
	}
	id, err := s.nextPostId(ctx)
	if err != nil {
		return nil, err
	}
	post := models.Post{
		Id:    id,
		Title: title,
		Body:  body,
		// BSON datetimes keep milliseconds only
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err = s.posts.InsertOne(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to insert post: %s %w", err.Error(), storage.InternalError)
	}
	return &post, nil
}

func (s *MongoStorage) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var result models.Post
	err := s.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("no document with id %v: %w", id, storage.NotFoundError)
		}
		return nil, fmt.Errorf("failed to find post: %s %w", err.Error(), storage.InternalError)
	}
	result.CreatedAt = result.CreatedAt.UTC()
	return &result, nil
}

func (s *MongoStorage) GetPosts(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	})
	cursor, err := s.posts.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find posts: %s, %w", err.Error(), storage.InternalError)
	}

	posts := make([]models.Post, 0)
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode error: %s, %w", err, storage.InternalError)
	}
	for i := range posts {
		posts[i].CreatedAt = posts[i].CreatedAt.UTC()
	}
	return posts, nil
}

func (s *MongoStorage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func CreateMongoStorage(ctx context.Context, dbUrl, dbName string) (*MongoStorage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dbUrl))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	db := client.Database(dbName)
	posts := db.Collection("posts")
	if err = ensureIndexes(ctx, posts); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStorage{
		client:   client,
		posts:    posts,
		counters: db.Collection("counters"),
	}, nil
}
