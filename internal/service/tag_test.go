package service

import (
	"context"
	"testing"

	"github.com/BloggingApp/blog-service/internal/cache"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTagRepo struct {
	counts map[string]int64
	liveRefs map[string]int64
	deleted []string
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{
		counts: make(map[string]int64),
		liveRefs: make(map[string]int64),
	}
}

func (f *fakeTagRepo) IncrementUsage(ctx context.Context, name string, displayName string) (bool, error) {
	_, existed := f.counts[name]
	f.counts[name]++
	return !existed, nil
}

func (f *fakeTagRepo) DecrementUsage(ctx context.Context, name string) error {
	if f.counts[name] > 0 {
		f.counts[name]--
	}
	return nil
}

func (f *fakeTagRepo) FindByName(ctx context.Context, name string) (*model.Tag, error) {
	count, ok := f.counts[name]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &model.Tag{Name: name, PostCount: count}, nil
}

func (f *fakeTagRepo) List(ctx context.Context, limit int, offset int) ([]*model.Tag, error) {
	var tags []*model.Tag
	for name, count := range f.counts {
		tags = append(tags, &model.Tag{Name: name, PostCount: count})
	}
	return tags, nil
}

func (f *fakeTagRepo) Trending(ctx context.Context, days int, limit int) ([]*model.Tag, error) {
	return nil, nil
}

func (f *fakeTagRepo) LiveRefCount(ctx context.Context, name string) (int64, error) {
	return f.liveRefs[name], nil
}

func (f *fakeTagRepo) Delete(ctx context.Context, name string) error {
	delete(f.counts, name)
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeTagRepo) Merge(ctx context.Context, sources []string, target string, targetDisplayName string) error {
	var merged int64
	for _, source := range sources {
		merged += f.counts[source]
		delete(f.counts, source)
	}
	f.counts[target] += merged
	return nil
}

func (f *fakeTagRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.counts)), nil
}

func newTagServiceForTest(fake *fakeTagRepo) Tag {
	repo := &repository.Repository{
		Postgres: &postgres.PostgresRepository{Tag: fake},
		Cache: cache.NewMemory(cache.DefaultMaxEntries),
	}
	return newTagService(zap.NewNop(), repo)
}

func TestApplyTagDelta_CountsFollowMembership(t *testing.T) {
	fake := newFakeTagRepo()
	svc := newTagServiceForTest(fake)
	ctx := context.Background()

	svc.ApplyTagDelta(ctx, []string{"Go", "databases"}, nil)
	svc.ApplyTagDelta(ctx, []string{"go"}, nil)

	assert.Equal(t, int64(2), fake.counts["go"])
	assert.Equal(t, int64(1), fake.counts["databases"])

	svc.ApplyTagDelta(ctx, nil, []string{"go"})
	assert.Equal(t, int64(1), fake.counts["go"])

	// Over-removal never drives a count negative.
	svc.ApplyTagDelta(ctx, nil, []string{"databases", "databases"})
	assert.Equal(t, int64(0), fake.counts["databases"])
}

func TestApplyTagDelta_SkipsEmptyNames(t *testing.T) {
	fake := newFakeTagRepo()
	svc := newTagServiceForTest(fake)

	svc.ApplyTagDelta(context.Background(), []string{"", "   ", "!!!"}, nil)

	assert.Empty(t, fake.counts)
}

func TestTagDelete_RefusesLiveReferences(t *testing.T) {
	fake := newFakeTagRepo()
	fake.counts["go"] = 3
	fake.liveRefs["go"] = 3
	svc := newTagServiceForTest(fake)

	err := svc.Delete(context.Background(), "go")
	assert.ErrorIs(t, err, ErrTagInUse)
	assert.Empty(t, fake.deleted)
}

func TestTagDelete_RemovesUnreferencedTag(t *testing.T) {
	fake := newFakeTagRepo()
	// Stale counter but no live membership: deletion must go through.
	fake.counts["go"] = 2
	fake.liveRefs["go"] = 0
	svc := newTagServiceForTest(fake)

	require.NoError(t, svc.Delete(context.Background(), "go"))
	assert.Equal(t, []string{"go"}, fake.deleted)
}

func TestTagDelete_NotFound(t *testing.T) {
	svc := newTagServiceForTest(newFakeTagRepo())

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestTagMerge_NormalizesAndSkipsTarget(t *testing.T) {
	fake := newFakeTagRepo()
	fake.counts["golang"] = 2
	fake.counts["go-lang"] = 1
	fake.counts["go"] = 1
	svc := newTagServiceForTest(fake)

	require.NoError(t, svc.Merge(context.Background(), []string{"GoLang", "Go Lang", "go"}, "Go"))

	assert.Equal(t, int64(4), fake.counts["go"])
	_, golangRemains := fake.counts["golang"]
	assert.False(t, golangRemains)
}
