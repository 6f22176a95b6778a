package persistent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"permablog/storage"
	"permablog/storage/models"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// Integration tests against live databases; skipped unless
// MONGO_TEST_URL or POSTGRES_TEST_URL is set.

type StorageSuite struct {
	suite.Suite

	storage  storage.Storage
	teardown func()
}

func TestMongoStorage(t *testing.T) {
	url, found := os.LookupEnv("MONGO_TEST_URL")
	if !found {
		t.Skip("MONGO_TEST_URL not set")
	}
	ctx := context.Background()
	dbName := fmt.Sprintf("permablog_test_%d", time.Now().UnixNano())
	s, err := CreateMongoStorage(ctx, url, dbName)
	if err != nil {
		t.Fatal(err)
	}
	suite.Run(t, &StorageSuite{
		storage: s,
		teardown: func() {
			_ = s.client.Database(dbName).Drop(ctx)
			_ = s.Close(ctx)
		},
	})
}

func TestPostgresStorage(t *testing.T) {
	url, found := os.LookupEnv("POSTGRES_TEST_URL")
	if !found {
		t.Skip("POSTGRES_TEST_URL not set")
	}
	s, err := CreatePostgresStorage(context.Background(), url)
	if err != nil {
		t.Fatal(err)
	}
	suite.Run(t, &StorageSuite{storage: s, teardown: s.Close})
}

func (s *StorageSuite) TearDownSuite() {
	s.teardown()
}

func (s *StorageSuite) TestAddThenGet() {
	ctx := context.Background()
	start := time.Now().UTC().Add(-time.Second)

	post, err := s.storage.AddPost(ctx, "Hello", "World")
	s.Require().NoError(err)

	got, err := s.storage.GetPost(ctx, post.Id)
	s.Require().NoError(err)
	s.Equal("Hello", got.Title)
	s.Equal("World", got.Body)
	s.False(got.CreatedAt.Before(start))
	s.True(got.CreatedAt.Equal(post.CreatedAt))
}

func (s *StorageSuite) TestAddPostRejectsEmptyFields() {
	ctx := context.Background()
	before, err := s.storage.GetPosts(ctx)
	s.Require().NoError(err)

	_, err = s.storage.AddPost(ctx, "", "body")
	s.True(errors.Is(err, storage.ValidationError))
	_, err = s.storage.AddPost(ctx, "title", "")
	s.True(errors.Is(err, storage.ValidationError))

	after, err := s.storage.GetPosts(ctx)
	s.Require().NoError(err)
	s.Len(after, len(before))
}

func (s *StorageSuite) TestGetUnknownPost() {
	_, err := s.storage.GetPost(context.Background(), 1<<62)
	s.True(errors.Is(err, storage.NotFoundError))
}

func (s *StorageSuite) TestGetPostsNewestFirst() {
	ctx := context.Background()
	older, err := s.storage.AddPost(ctx, "older", "body")
	s.Require().NoError(err)
	time.Sleep(10 * time.Millisecond)
	newer, err := s.storage.AddPost(ctx, "newer", "body")
	s.Require().NoError(err)

	posts, err := s.storage.GetPosts(ctx)
	s.Require().NoError(err)
	s.Less(indexOf(posts, newer.Id), indexOf(posts, older.Id))
	for i := 1; i < len(posts); i++ {
		s.False(posts[i].CreatedAt.After(posts[i-1].CreatedAt))
	}

	again, err := s.storage.GetPosts(ctx)
	s.Require().NoError(err)
	s.Equal(len(posts), len(again))
	for i := range posts {
		s.Equal(posts[i].Id, again[i].Id)
	}
}

func (s *StorageSuite) TestConcurrentAddPost() {
	const writers = 100
	ctx := context.Background()
	before, err := s.storage.GetPosts(ctx)
	s.Require().NoError(err)

	var (
		wg  sync.WaitGroup
		mut sync.Mutex
		ids = make(map[int64]bool)
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := s.storage.AddPost(ctx, "title", "body")
			if err != nil {
				s.T().Error(err)
				return
			}
			mut.Lock()
			ids[p.Id] = true
			mut.Unlock()
		}()
	}
	wg.Wait()
	s.Len(ids, writers)

	after, err := s.storage.GetPosts(ctx)
	s.Require().NoError(err)
	s.Len(after, len(before)+writers)
}

func indexOf(posts []models.Post, id int64) int {
	for i, p := range posts {
		if p.Id == id {
			return i
		}
	}
	return -1
}
