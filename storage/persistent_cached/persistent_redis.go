package persistent_cached

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"permablog/storage"
	"permablog/storage/models"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	postKeyPrefix     = "post:"
	postListKeyPrefix = "posts:all:"
	generationKey     = "posts:generation"
)

// PostListWarmer rebuilds the cached post list out of band.
type PostListWarmer interface {
	WarmPostList(ctx context.Context) error
}

func postKey(id int64) string {
	return postKeyPrefix + strconv.FormatInt(id, 10)
}

func postListKey(generation int64) string {
	return postListKeyPrefix + strconv.FormatInt(generation, 10)
}

func saveToCache(ctx context.Context, client *redis.Client, key string, value interface{}, ttl time.Duration) {
	j, err := json.Marshal(value)
	if err != nil {
		log.Printf("Failed to encode %s for redis: %s", key, err.Error())
		return
	}
	if err = client.Set(ctx, key, j, ttl).Err(); err != nil {
		log.Printf("Failed to save %s to redis: %s", key, err.Error())
	}
}

func getFromCache(ctx context.Context, client *redis.Client, key string, dst interface{}) bool {
	val, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Failed to get %s from redis: %s", key, err.Error())
		}
		return false
	}
	if err = json.Unmarshal(val, dst); err != nil {
		log.Printf("Failed to decode %s from redis: %s", key, err.Error())
		return false
	}
	return true
}

func CreatePersistentStorageCachedWithRedis(persistentStorage storage.Storage, redisAddr string, ttl time.Duration) *PersistentStorageWithCache {
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	return &PersistentStorageWithCache{
		client:            redisClient,
		persistentStorage: persistentStorage,
		ttl:               ttl,
	}
}

// PersistentStorageWithCache serves reads from redis and falls back to the
// persistent storage. Posts are immutable, so a cached post never goes stale.
// The post list is cached per generation; every added post starts a new one.
type PersistentStorageWithCache struct {
	client            *redis.Client
	persistentStorage storage.Storage
	ttl               time.Duration
	warmer            PostListWarmer
}

func (s *PersistentStorageWithCache) UseWarmer(warmer PostListWarmer) {
	s.warmer = warmer
}

func (s *PersistentStorageWithCache) AddPost(ctx context.Context, title string, body string) (*models.Post, error) {
	post, err := s.persistentStorage.AddPost(ctx, title, body)
	if err != nil {
		return nil, err
	}
	saveToCache(ctx, s.client, postKey(post.Id), post, s.ttl)

	if err = s.client.Incr(ctx, generationKey).Err(); err != nil {
		log.Printf("Failed to bump post list generation: %s", err.Error())
	}
	if s.warmer != nil {
		if err = s.warmer.WarmPostList(ctx); err != nil {
			log.Printf("Failed to schedule post list warm up: %s", err.Error())
		}
	}
	return post, nil
}

func (s *PersistentStorageWithCache) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var cached models.Post
	if getFromCache(ctx, s.client, postKey(id), &cached) {
		return &cached, nil
	}
	post, err := s.persistentStorage.GetPost(ctx, id)
	if err == nil {
		saveToCache(ctx, s.client, postKey(id), post, s.ttl)
	}
	return post, err
}

func (s *PersistentStorageWithCache) GetPosts(ctx context.Context) ([]models.Post, error) {
	generation, err := s.generation(ctx)
	if err != nil {
		log.Printf("Failed to read post list generation: %s", err.Error())
		return s.persistentStorage.GetPosts(ctx)
	}
	posts := make([]models.Post, 0)
	if getFromCache(ctx, s.client, postListKey(generation), &posts) {
		return posts, nil
	}
	return s.loadPostList(ctx, generation)
}

// RefreshPostList caches the current post list and returns its length.
func (s *PersistentStorageWithCache) RefreshPostList(ctx context.Context) (int, error) {
	generation, err := s.generation(ctx)
	if err != nil {
		return 0, err
	}
	posts, err := s.loadPostList(ctx, generation)
	if err != nil {
		return 0, err
	}
	return len(posts), nil
}

// Callers read the generation before the list, so a list that misses a
// concurrent insert is stored under a generation nobody reads anymore.
func (s *PersistentStorageWithCache) loadPostList(ctx context.Context, generation int64) ([]models.Post, error) {
	posts, err := s.persistentStorage.GetPosts(ctx)
	if err == nil {
		saveToCache(ctx, s.client, postListKey(generation), posts, s.ttl)
	}
	return posts, err
}

func (s *PersistentStorageWithCache) generation(ctx context.Context) (int64, error) {
	generation, err := s.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

func (s *PersistentStorageWithCache) Close() error {
	return s.client.Close()
}
