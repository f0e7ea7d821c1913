package repositories

import (
	"bijouterie_server/database"
	"bijouterie_server/lib"
	"bijouterie_server/structs/tables"
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ItemRepository struct {
	db *database.DB
}

func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (ir *ItemRepository) Create(ctx context.Context, item *tables.Item) error {
	stamp(&item.Id, &item.CreatedAt)

	if _, err := database.Create(ir.db, ctx, item); err != nil {
		return lib.Persistence("insert item", err)
	}
	return nil
}

func (ir *ItemRepository) ListByRepair(ctx context.Context, repairID uuid.UUID) ([]tables.Item, error) {
	items, err := database.Query[tables.Item](ir.db).
		Where("repair_id", repairID).
		OrderBy("created_at", database.ASC).
		All(ctx)
	if err != nil {
		return nil, lib.Persistence("list items", err)
	}
	return items, nil
}

func (ir *ItemRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := database.Query[tables.Item](ir.db).WhereIn("id", toAny(ids)).Delete(ctx); err != nil {
		return lib.Persistence("delete items", err)
	}
	return nil
}

func (ir *ItemRepository) CountByRepair(ctx context.Context, repairID uuid.UUID) (int, error) {
	n, err := database.Query[tables.Item](ir.db).Where("repair_id", repairID).Count(ctx)
	if err != nil {
		return 0, lib.Persistence("count items", err)
	}
	return n, nil
}

// CountByRepairs returns the item count of each repair. Repairs without items are absent.
func (ir *ItemRepository) CountByRepairs(ctx context.Context, repairIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(repairIDs))
	if len(repairIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		RepairId uuid.UUID `bun:"repair_id"`
		Count    int       `bun:"count"`
	}
	err := database.WithRetry(ctx, func() error {
		rows = nil
		return ir.db.NewSelect().
			Model((*tables.Item)(nil)).
			Column("repair_id").
			ColumnExpr("count(*) AS count").
			Where("repair_id IN (?)", bun.In(toAny(repairIDs))).
			Group("repair_id").
			Scan(ctx, &rows)
	})
	if err != nil {
		return nil, lib.Persistence("count items", err)
	}

	for _, row := range rows {
		out[row.RepairId] = row.Count
	}
	return out, nil
}
