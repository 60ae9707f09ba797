package service

import (
	"papyr/internal/model"
	"papyr/internal/repository"
	"papyr/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolationErr fabricates the driver error Postgres raises when a
// unique constraint breaks under a race the pre-check missed.
func uniqueViolationErr() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "documents_title_key"}
}

func storageObjectInfo(key string, size int64) storage.ObjectInfo {
	return storage.ObjectInfo{Key: key, Size: size, ContentType: "application/pdf"}
}

func pageResult(n int) *repository.PageResult[model.Document] {
	items := make([]model.Document, n)
	return &repository.PageResult[model.Document]{Items: items, Total: n}
}
