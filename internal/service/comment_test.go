package service

import (
	"testing"
	"time"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatComment(id int64, parentID *int64) *model.FullComment {
	return &model.FullComment{
		Comment: model.Comment{
			ID: id,
			ParentID: parentID,
			PostID: 1,
			CreatedAt: time.Now(),
		},
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestBuildCommentTree(t *testing.T) {
	// A is top-level, B replies to A, C replies to B, D's parent is not
	// in the page.
	comments := []*model.FullComment{
		flatComment(1, nil),
		flatComment(2, int64Ptr(1)),
		flatComment(3, int64Ptr(2)),
		flatComment(4, int64Ptr(999)),
	}

	roots := buildCommentTree(comments)

	require.Len(t, roots, 2)

	assert.Equal(t, int64(1), roots[0].Comment.ID)
	require.Len(t, roots[0].Replies, 1)
	assert.Equal(t, int64(2), roots[0].Replies[0].Comment.ID)
	require.Len(t, roots[0].Replies[0].Replies, 1)
	assert.Equal(t, int64(3), roots[0].Replies[0].Replies[0].Comment.ID)

	assert.Equal(t, int64(4), roots[1].Comment.ID)
	assert.Empty(t, roots[1].Replies)
}

func TestBuildCommentTree_Empty(t *testing.T) {
	assert.Empty(t, buildCommentTree(nil))
}

func TestBuildCommentTree_SelfReference(t *testing.T) {
	comments := []*model.FullComment{
		flatComment(1, int64Ptr(1)),
	}

	roots := buildCommentTree(comments)

	require.Len(t, roots, 1)
	assert.Equal(t, int64(1), roots[0].Comment.ID)
	assert.Empty(t, roots[0].Replies)
}

func TestBuildCommentTree_PreservesOrder(t *testing.T) {
	comments := []*model.FullComment{
		flatComment(10, nil),
		flatComment(11, nil),
		flatComment(12, int64Ptr(10)),
		flatComment(13, int64Ptr(10)),
	}

	roots := buildCommentTree(comments)

	require.Len(t, roots, 2)
	assert.Equal(t, int64(10), roots[0].Comment.ID)
	assert.Equal(t, int64(11), roots[1].Comment.ID)

	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, int64(12), roots[0].Replies[0].Comment.ID)
	assert.Equal(t, int64(13), roots[0].Replies[1].Comment.ID)
}
