package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type commentRepo struct {
	db *pgxpool.Pool
}

func newCommentRepo(db *pgxpool.Pool) Comment {
	return &commentRepo{
		db: db,
	}
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	comment.CreatedAt = time.Now()
	comment.Likes = 0
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO comments(parent_id, post_id, author_id, content, created_at) VALUES($1, $2, $3, $4, $5) RETURNING id",
		comment.ParentID,
		comment.PostID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
	).Scan(&comment.ID); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.QueryRow(
		ctx,
		"SELECT id, parent_id, post_id, author_id, content, likes, created_at FROM comments WHERE id = $1",
		id,
	).Scan(
		&comment.ID,
		&comment.ParentID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.Likes,
		&comment.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &comment, nil
}

// FindPostComments returns the flat list in creation order; the service
// assembles the reply tree from it.
func (r *commentRepo) FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.FullComment, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT
		c.id, c.parent_id, c.post_id, c.author_id, c.content, c.likes, c.created_at, u.username, u.display_name, u.avatar_url
		FROM comments c
		JOIN cached_users u ON c.author_id = u.id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
		LIMIT $2
		OFFSET $3`,
		postID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFullComments(rows)
}

func (r *commentRepo) FindAll(ctx context.Context, limit int, offset int) ([]*model.FullComment, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT
		c.id, c.parent_id, c.post_id, c.author_id, c.content, c.likes, c.created_at, u.username, u.display_name, u.avatar_url
		FROM comments c
		JOIN cached_users u ON c.author_id = u.id
		ORDER BY c.created_at ASC
		LIMIT $1
		OFFSET $2`,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFullComments(rows)
}

func scanFullComments(rows pgx.Rows) ([]*model.FullComment, error) {
	var comments []*model.FullComment
	for rows.Next() {
		var comment model.FullComment
		if err := rows.Scan(
			&comment.Comment.ID,
			&comment.Comment.ParentID,
			&comment.Comment.PostID,
			&comment.Comment.AuthorID,
			&comment.Comment.Content,
			&comment.Comment.Likes,
			&comment.Comment.CreatedAt,
			&comment.Author.Username,
			&comment.Author.DisplayName,
			&comment.Author.AvatarURL,
		); err != nil {
			return nil, err
		}

		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

// Delete removes the comment and its direct replies. Replies-of-replies
// stay behind pointing at the deleted parent; the tree assembler
// resurfaces them as top-level on the next read.
func (r *commentRepo) Delete(ctx context.Context, commentID int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM comments WHERE id = $1 OR parent_id = $1", commentID)
	return err
}

func (r *commentRepo) Like(ctx context.Context, commentID int64, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "INSERT INTO comment_likes(comment_id, user_id) VALUES($1, $2) ON CONFLICT DO NOTHING", commentID, userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return nil
	}

	_, err = r.db.Exec(ctx, "UPDATE comments SET likes = likes + 1 WHERE id = $1", commentID)
	return err
}

func (r *commentRepo) Unlike(ctx context.Context, commentID int64, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2", commentID, userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return nil
	}

	_, err = r.db.Exec(ctx, "UPDATE comments SET likes = GREATEST(likes - 1, 0) WHERE id = $1", commentID)
	return err
}

func (r *commentRepo) IsLiked(ctx context.Context, commentID int64, userID uuid.UUID) (bool, error) {
	var isLiked bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM comment_likes WHERE comment_id = $1 AND user_id = $2)", commentID, userID).Scan(&isLiked); err != nil {
		return false, err
	}

	return isLiked, nil
}

func (r *commentRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM comments").Scan(&count)
	return count, err
}
