package postgres

import (
	"context"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type tagRepo struct {
	db *pgxpool.Pool
}

func newTagRepo(db *pgxpool.Pool) Tag {
	return &tagRepo{
		db: db,
	}
}

// IncrementUsage finds-or-creates the tag and bumps its usage count in a
// single atomic upsert, so concurrent posts referencing the same tag
// cannot lose updates. Returns whether the tag record was created.
func (r *tagRepo) IncrementUsage(ctx context.Context, name string, displayName string) (bool, error) {
	var created bool
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO tags(name, display_name, post_count, last_used_at)
		VALUES($1, $2, 1, now())
		ON CONFLICT (name) DO UPDATE SET post_count = tags.post_count + 1, last_used_at = now()
		RETURNING (xmax = 0)`,
		name,
		displayName,
	).Scan(&created); err != nil {
		return false, err
	}

	return created, nil
}

func (r *tagRepo) DecrementUsage(ctx context.Context, name string) error {
	_, err := r.db.Exec(ctx, "UPDATE tags SET post_count = GREATEST(post_count - 1, 0) WHERE name = $1", name)
	return err
}

const tagColumns = "id, name, display_name, color, category, post_count, active, last_used_at, created_at"

func (r *tagRepo) FindByName(ctx context.Context, name string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.QueryRow(
		ctx,
		"SELECT "+tagColumns+" FROM tags WHERE name = $1",
		name,
	).Scan(
		&tag.ID,
		&tag.Name,
		&tag.DisplayName,
		&tag.Color,
		&tag.Category,
		&tag.PostCount,
		&tag.Active,
		&tag.LastUsedAt,
		&tag.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &tag, nil
}

func (r *tagRepo) List(ctx context.Context, limit int, offset int) ([]*model.Tag, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		"SELECT "+tagColumns+" FROM tags ORDER BY post_count DESC, name ASC LIMIT $1 OFFSET $2",
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*model.Tag
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(
			&tag.ID,
			&tag.Name,
			&tag.DisplayName,
			&tag.Color,
			&tag.Category,
			&tag.PostCount,
			&tag.Active,
			&tag.LastUsedAt,
			&tag.CreatedAt,
		); err != nil {
			return nil, err
		}

		tags = append(tags, &tag)
	}

	return tags, rows.Err()
}

func (r *tagRepo) Trending(ctx context.Context, days int, limit int) ([]*model.Tag, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+tagColumns+` FROM tags
		WHERE last_used_at > now() - ($1 * interval '1 day') AND post_count > 0
		ORDER BY post_count DESC
		LIMIT $2`,
		days,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*model.Tag
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(
			&tag.ID,
			&tag.Name,
			&tag.DisplayName,
			&tag.Color,
			&tag.Category,
			&tag.PostCount,
			&tag.Active,
			&tag.LastUsedAt,
			&tag.CreatedAt,
		); err != nil {
			return nil, err
		}

		tags = append(tags, &tag)
	}

	return tags, rows.Err()
}

// LiveRefCount re-derives the number of non-draft posts referencing the
// tag from the membership table. The delete gate uses this, never the
// denormalized post_count.
func (r *tagRepo) LiveRefCount(ctx context.Context, name string) (int64, error) {
	var count int64
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM post_tags pt
		JOIN posts p ON p.id = pt.post_id
		WHERE pt.tag = $1`,
		name,
	).Scan(&count)
	return count, err
}

func (r *tagRepo) Delete(ctx context.Context, name string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM tags WHERE name = $1", name)
	return err
}

// Merge rewrites every post's membership from the source names to the
// target (set semantics, so a post holding both a source and the target
// ends up with one row), recounts the target from live membership, then
// drops the source records. One transaction: either the whole merge
// lands or none of it does.
func (r *tagRepo) Merge(ctx context.Context, sources []string, target string, targetDisplayName string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(
		ctx,
		`INSERT INTO tags(name, display_name, post_count, last_used_at)
		VALUES($1, $2, 0, now())
		ON CONFLICT (name) DO UPDATE SET last_used_at = now()`,
		target,
		targetDisplayName,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(
		ctx,
		`INSERT INTO post_tags(post_id, tag)
		SELECT DISTINCT post_id, $1 FROM post_tags WHERE tag = ANY($2)
		ON CONFLICT DO NOTHING`,
		target,
		sources,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM post_tags WHERE tag = ANY($1)", sources); err != nil {
		return err
	}

	if _, err := tx.Exec(
		ctx,
		`UPDATE tags SET post_count = (
			SELECT COUNT(*) FROM post_tags pt
			JOIN posts p ON p.id = pt.post_id
			WHERE pt.tag = $1
		) WHERE name = $1`,
		target,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM tags WHERE name = ANY($1)", sources); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *tagRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM tags").Scan(&count)
	return count, err
}
