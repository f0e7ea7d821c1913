package repositories

import (
	"bijouterie_server/database"
	"bijouterie_server/lib"
	"bijouterie_server/structs/tables"
	"context"

	"github.com/google/uuid"
)

type PhotoRepository struct {
	db *database.DB
}

func NewPhotoRepository(db *database.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (pr *PhotoRepository) Create(ctx context.Context, photo *tables.Photo) error {
	stamp(&photo.Id, &photo.CreatedAt)

	if _, err := database.Create(pr.db, ctx, photo); err != nil {
		return lib.Persistence("insert photo", err)
	}
	return nil
}

func (pr *PhotoRepository) ListByItems(ctx context.Context, itemIDs []uuid.UUID) ([]tables.Photo, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	photos, err := database.Query[tables.Photo](pr.db).
		WhereIn("item_id", toAny(itemIDs)).
		OrderBy("created_at", database.ASC).
		All(ctx)
	if err != nil {
		return nil, lib.Persistence("list photos", err)
	}
	return photos, nil
}

func (pr *PhotoRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := database.Query[tables.Photo](pr.db).WhereIn("id", toAny(ids)).Delete(ctx); err != nil {
		return lib.Persistence("delete photos", err)
	}
	return nil
}
