package service

import (
	"context"
	"testing"

	"github.com/BloggingApp/blog-service/internal/cache"
	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakePostRepo embeds the interface so only the methods a test exercises
// need real bodies.
type fakePostRepo struct {
	postgres.Post

	nextID int64
	slugs map[string]struct{}
	tagsByPost map[int64][]string
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		slugs: make(map[string]struct{}),
		tagsByPost: make(map[int64][]string),
	}
}

func (f *fakePostRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, ok := f.slugs[slug]
	return ok, nil
}

func (f *fakePostRepo) Create(ctx context.Context, post model.Post, tags []string) (*model.Post, error) {
	if _, ok := f.slugs[post.Slug]; ok {
		return nil, postgres.ErrSlugTaken
	}

	f.nextID++
	post.ID = f.nextID
	f.slugs[post.Slug] = struct{}{}
	f.tagsByPost[post.ID] = tags

	return &post, nil
}

func newPostServiceForTest(posts *fakePostRepo, tags *fakeTagRepo) Post {
	repo := &repository.Repository{
		Postgres: &postgres.PostgresRepository{
			Post: posts,
			Tag: tags,
		},
		Cache: cache.NewMemory(cache.DefaultMaxEntries),
	}

	logger := zap.NewNop()
	return newPostService(logger, repo, newTagService(logger, repo), nil, nil, nil)
}

func TestPostCreate_SlugCollisionSuffixes(t *testing.T) {
	posts := newFakePostRepo()
	svc := newPostServiceForTest(posts, newFakeTagRepo())
	ctx := context.Background()
	authorID := uuid.New()

	var slugs []string
	for i := 0; i < 4; i++ {
		post, err := svc.Create(ctx, authorID, dto.CreatePostRequest{
			Title: "My First Post",
			Content: "Some content long enough to pass validation.",
		})
		require.NoError(t, err)
		slugs = append(slugs, post.Slug)
	}

	assert.Equal(t, []string{
		"my-first-post",
		"my-first-post-1",
		"my-first-post-2",
		"my-first-post-3",
	}, slugs)
}

func TestPostCreate_EmptyTitleFallsBack(t *testing.T) {
	posts := newFakePostRepo()
	svc := newPostServiceForTest(posts, newFakeTagRepo())

	post, err := svc.Create(context.Background(), uuid.New(), dto.CreatePostRequest{
		Title: "!!!",
		Content: "Some content long enough to pass validation.",
	})
	require.NoError(t, err)
	assert.Equal(t, "post", post.Slug)
}

func TestPostCreate_AppliesTagDelta(t *testing.T) {
	posts := newFakePostRepo()
	tags := newFakeTagRepo()
	svc := newPostServiceForTest(posts, tags)

	post, err := svc.Create(context.Background(), uuid.New(), dto.CreatePostRequest{
		Title: "Tagged",
		Content: "Some content long enough to pass validation.",
		Tags: []string{"Go", "go", "Databases", ""},
	})
	require.NoError(t, err)

	// Duplicates and empties collapse before they reach storage.
	assert.Equal(t, []string{"go", "databases"}, posts.tagsByPost[post.ID])
	assert.Equal(t, int64(1), tags.counts["go"])
	assert.Equal(t, int64(1), tags.counts["databases"])
}

func TestTagSetDiff(t *testing.T) {
	tests := []struct {
		name string
		previous []string
		current []string
		wantAdded []string
		wantRemoved []string
	}{
		{
			name: "no change",
			previous: []string{"go", "db"},
			current: []string{"go", "db"},
		},
		{
			name: "add and remove",
			previous: []string{"go", "db"},
			current: []string{"go", "web"},
			wantAdded: []string{"web"},
			wantRemoved: []string{"db"},
		},
		{
			name: "from empty",
			current: []string{"go"},
			wantAdded: []string{"go"},
		},
		{
			name: "to empty",
			previous: []string{"go"},
			wantRemoved: []string{"go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, removed := tagSetDiff(tt.previous, tt.current)
			assert.Equal(t, tt.wantAdded, added)
			assert.Equal(t, tt.wantRemoved, removed)
		})
	}
}
