package repository

import (
	"github.com/BloggingApp/blog-service/internal/cache"
	"github.com/BloggingApp/blog-service/internal/repository/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	Postgres *postgres.PostgresRepository
	Cache cache.Cache
}

func New(db *pgxpool.Pool, c cache.Cache) *Repository {
	return &Repository{
		Postgres: postgres.New(db),
		Cache: c,
	}
}
