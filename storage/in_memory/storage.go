package in_memory

import (
	"context"
	"fmt"
	"permablog/storage"
	"permablog/storage/models"
	"sort"
	"sync"
	"time"
)

type InMemoryStorage struct {
	mut    sync.RWMutex
	lastId int64
	posts  map[int64]models.Post
	// creation order; re-sorted on read since timestamps may tie or step back
	postIds []int64
	now     func() time.Time
}

func (s *InMemoryStorage) AddPost(_ context.Context, title string, body string) (*models.Post, error) {
	if err := storage.ValidatePost(title, body); err != nil {
		return nil, err
	}

	s.mut.Lock()
	defer s.mut.Unlock()

	s.lastId++
	p := models.Post{
		Id:        s.lastId,
		Title:     title,
		Body:      body,
		CreatedAt: s.now().UTC(),
	}
	s.posts[p.Id] = p
	s.postIds = append(s.postIds, p.Id)
	return &p, nil
}

func (s *InMemoryStorage) GetPost(_ context.Context, id int64) (*models.Post, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	post, found := s.posts[id]
	if !found {
		return nil, fmt.Errorf("no post with id %d: %w", id, storage.NotFoundError)
	}
	return &post, nil
}

func (s *InMemoryStorage) GetPosts(_ context.Context) ([]models.Post, error) {
	s.mut.RLock()
	posts := make([]models.Post, 0, len(s.postIds))
	for _, id := range s.postIds {
		posts = append(posts, s.posts[id])
	}
	s.mut.RUnlock()

	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].Id > posts[j].Id
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func CreateInMemoryStorage() storage.Storage {
	return newInMemoryStorage(time.Now)
}

func newInMemoryStorage(now func() time.Time) *InMemoryStorage {
	return &InMemoryStorage{
		posts: make(map[int64]models.Post),
		now:   now,
	}
}
