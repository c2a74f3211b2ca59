package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

// Create inserts the post and its tag memberships in one transaction.
// The posts_slug_key unique index is the authoritative guard against two
// concurrent writes committing the same slug; a violation surfaces as
// ErrSlugTaken so the caller can retry with the next suffix.
func (r *postRepo) Create(ctx context.Context, post model.Post, tags []string) (*model.Post, error) {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Views = 0
	post.Likes = 0

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(
		ctx,
		"INSERT INTO posts(author_id, title, slug, content, is_draft, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6, $7) RETURNING id",
		post.AuthorID,
		post.Title,
		post.Slug,
		post.Content,
		post.IsDraft,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "posts_slug_key" {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	for _, tag := range tags {
		if _, err := tx.Exec(ctx, "INSERT INTO post_tags(post_id, tag) VALUES($1, $2) ON CONFLICT DO NOTHING", post.ID, tag); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	allowedFields := []string{"title", "slug", "content", "is_draft"}
	allowedFieldsSet := make(map[string]struct{}, len(allowedFields))
	for _, field := range allowedFields {
		allowedFieldsSet[field] = struct{}{}
	}

	for field := range updates {
		if _, ok := allowedFieldsSet[field]; !ok {
			return ErrFieldsNotAllowedToUpdate
		}
	}

	query := "UPDATE posts SET "
	args := []interface{}{}
	i := 1

	for column, value := range updates {
		query += (column + " = $" + strconv.Itoa(i) + ", ")
		args = append(args, value)
		i++
	}

	query += "updated_at = now() WHERE id = $" + strconv.Itoa(i)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "posts_slug_key" {
		return ErrSlugTaken
	}

	return err
}

func (r *postRepo) UpdateTags(ctx context.Context, postID int64, added []string, removed []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, tag := range added {
		if _, err := tx.Exec(ctx, "INSERT INTO post_tags(post_id, tag) VALUES($1, $2) ON CONFLICT DO NOTHING", postID, tag); err != nil {
			return err
		}
	}

	if len(removed) > 0 {
		if _, err := tx.Exec(ctx, "DELETE FROM post_tags WHERE post_id = $1 AND tag = ANY($2)", postID, removed); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

const fullPostQuery = `SELECT
	p.id, p.author_id, p.title, p.slug, p.content, p.is_draft, p.views, p.likes, p.created_at, p.updated_at,
	u.username, u.display_name, u.avatar_url, t.tag
	FROM posts p
	JOIN cached_users u ON p.author_id = u.id
	LEFT JOIN post_tags t ON p.id = t.post_id`

func (r *postRepo) scanFullPosts(rows pgx.Rows) ([]*model.FullPost, error) {
	defer rows.Close()

	postMap := make(map[int64]*model.FullPost)
	var order []int64
	for rows.Next() {
		var (
			post model.Post
			author model.UserAuthor
			tag *string
		)
		if err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.Title,
			&post.Slug,
			&post.Content,
			&post.IsDraft,
			&post.Views,
			&post.Likes,
			&post.CreatedAt,
			&post.UpdatedAt,
			&author.Username,
			&author.DisplayName,
			&author.AvatarURL,
			&tag,
		); err != nil {
			return nil, err
		}

		full, exists := postMap[post.ID]
		if !exists {
			full = &model.FullPost{
				Post: post,
				Author: author,
				Tags: []string{},
			}
			postMap[post.ID] = full
			order = append(order, post.ID)
		}

		if tag != nil {
			full.Tags = append(full.Tags, *tag)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	posts := make([]*model.FullPost, 0, len(order))
	for _, id := range order {
		posts = append(posts, postMap[id])
	}

	return posts, nil
}

func (r *postRepo) FindByID(ctx context.Context, id int64) (*model.FullPost, error) {
	rows, err := r.db.Query(ctx, fullPostQuery+" WHERE p.id = $1", id)
	if err != nil {
		return nil, err
	}

	posts, err := r.scanFullPosts(rows)
	if err != nil {
		return nil, err
	}

	if len(posts) == 0 {
		return nil, pgx.ErrNoRows
	}

	return posts[0], nil
}

func (r *postRepo) FindManyByID(ctx context.Context, ids []int64) ([]*model.FullPost, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, fullPostQuery+" WHERE p.id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}

	posts, err := r.scanFullPosts(rows)
	if err != nil {
		return nil, err
	}

	// Preserve the requested order; bleve ranked these.
	byID := make(map[int64]*model.FullPost, len(posts))
	for _, post := range posts {
		byID[post.Post.ID] = post
	}

	ordered := make([]*model.FullPost, 0, len(posts))
	for _, id := range ids {
		if post, ok := byID[id]; ok {
			ordered = append(ordered, post)
		}
	}

	return ordered, nil
}

func (r *postRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, includeDrafts bool, limit int, offset int) ([]*model.AuthorPost, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT
		p.id, p.author_id, p.title, p.slug, p.content, p.is_draft, p.views, p.likes, p.created_at, p.updated_at, t.tag
		FROM (
			SELECT * FROM posts
			WHERE author_id = $1 AND (is_draft = FALSE OR $2)
			ORDER BY created_at DESC
			LIMIT $3
			OFFSET $4
		) p
		LEFT JOIN post_tags t ON p.id = t.post_id
		ORDER BY p.created_at DESC`,
		authorID,
		includeDrafts,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	postMap := make(map[int64]*model.AuthorPost)
	var order []int64
	for rows.Next() {
		var (
			post model.Post
			tag *string
		)
		if err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.Title,
			&post.Slug,
			&post.Content,
			&post.IsDraft,
			&post.Views,
			&post.Likes,
			&post.CreatedAt,
			&post.UpdatedAt,
			&tag,
		); err != nil {
			return nil, err
		}

		authorPost, exists := postMap[post.ID]
		if !exists {
			authorPost = &model.AuthorPost{
				Post: post,
				Tags: []string{},
			}
			postMap[post.ID] = authorPost
			order = append(order, post.ID)
		}

		if tag != nil {
			authorPost.Tags = append(authorPost.Tags, *tag)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	posts := make([]*model.AuthorPost, 0, len(order))
	for _, id := range order {
		posts = append(posts, postMap[id])
	}

	return posts, nil
}

func (r *postRepo) FindUserLikes(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		fullPostQuery+`
		JOIN post_likes l ON p.id = l.post_id
		WHERE l.user_id = $1
		LIMIT $2
		OFFSET $3`,
		userID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}

	return r.scanFullPosts(rows)
}

func (r *postRepo) FindTrending(ctx context.Context, hours int, limit int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT
		p.id, p.author_id, p.title, p.slug, p.content, p.is_draft, p.views, p.likes, p.created_at, p.updated_at,
		u.username, u.display_name, u.avatar_url, t.tag
		FROM (
			SELECT * FROM posts
			WHERE is_draft = FALSE AND created_at > now() - ($1 * interval '1 hour')
			ORDER BY views DESC
			LIMIT $2
		) p
		JOIN cached_users u ON p.author_id = u.id
		LEFT JOIN post_tags t ON p.id = t.post_id
		ORDER BY p.views DESC`,
		hours,
		limit,
	)
	if err != nil {
		return nil, err
	}

	return r.scanFullPosts(rows)
}

func (r *postRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)", slug).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *postRepo) GetTags(ctx context.Context, postID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, "SELECT tag FROM post_tags WHERE post_id = $1", postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	return err
}

func (r *postRepo) IncrViews(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "UPDATE posts SET views = views + 1 WHERE id = $1", id)
	return err
}

func (r *postRepo) Like(ctx context.Context, postID int64, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "INSERT INTO post_likes(post_id, user_id) VALUES($1, $2) ON CONFLICT DO NOTHING", postID, userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return nil
	}

	_, err = r.db.Exec(ctx, "UPDATE posts SET likes = likes + 1 WHERE id = $1", postID)
	return err
}

func (r *postRepo) Unlike(ctx context.Context, postID int64, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2", postID, userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return nil
	}

	_, err = r.db.Exec(ctx, "UPDATE posts SET likes = GREATEST(likes - 1, 0) WHERE id = $1", postID)
	return err
}

func (r *postRepo) IsLiked(ctx context.Context, postID int64, userID uuid.UUID) (bool, error) {
	var isLiked bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)", postID, userID).Scan(&isLiked); err != nil {
		return false, err
	}

	return isLiked, nil
}

func (r *postRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM posts WHERE is_draft = FALSE").Scan(&count)
	return count, err
}
