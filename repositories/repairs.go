package repositories

import (
	"bijouterie_server/database"
	"bijouterie_server/lib"
	"bijouterie_server/structs/tables"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type RepairRepository struct {
	db *database.DB
}

func NewRepairRepository(db *database.DB) *RepairRepository {
	return &RepairRepository{db: db}
}

func (rr *RepairRepository) Create(ctx context.Context, repair *tables.Repair) error {
	stamp(&repair.Id, &repair.CreatedAt)
	repair.UpdatedAt = repair.CreatedAt

	if _, err := database.Query[tables.Repair](rr.db).Insert(ctx, repair); err != nil {
		return lib.Persistence("insert repair", err)
	}
	return nil
}

// Update writes every mutable column. Reference, created_by and created_at are left untouched.
func (rr *RepairRepository) Update(ctx context.Context, repair *tables.Repair) error {
	repair.UpdatedAt = time.Now().UTC()

	n, err := database.Query[tables.Repair](rr.db).
		Where("id", repair.Id).
		Update(ctx, map[string]any{
			"client_id":                   repair.ClientId,
			"workshop":                    repair.Workshop,
			"date_received":               repair.DateReceived,
			"date_returned_from_workshop": repair.DateReturnedFromWorkshop,
			"date_delivered":              repair.DateDelivered,
			"price":                       repair.Price,
			"urgent":                      repair.Urgent,
			"status":                      repair.Status,
			"updated_at":                  repair.UpdatedAt,
		})
	if err != nil {
		return lib.Persistence("update repair", err)
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}

func (rr *RepairRepository) GetByID(ctx context.Context, id uuid.UUID) (*tables.Repair, error) {
	repair, err := database.FindByID[tables.Repair](rr.db, ctx, id)
	if err != nil {
		return nil, lib.Persistence("get repair", err)
	}
	return repair, nil
}

func (rr *RepairRepository) Delete(ctx context.Context, id uuid.UUID) (int, error) {
	n, err := database.DeleteByID[tables.Repair](rr.db, ctx, id)
	if err != nil {
		return 0, lib.Persistence("delete repair", err)
	}
	return n, nil
}

func (rr *RepairRepository) ListByStatus(ctx context.Context, status tables.RepairStatus) ([]tables.Repair, error) {
	repairs, err := database.Query[tables.Repair](rr.db).
		Where("status", status).
		OrderBy("date_received", database.DESC).
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, lib.Persistence("list repairs by status", err)
	}
	return repairs, nil
}

func (rr *RepairRepository) ListAll(ctx context.Context) ([]tables.Repair, error) {
	repairs, err := database.Query[tables.Repair](rr.db).
		OrderBy("date_received", database.DESC).
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, lib.Persistence("list repairs", err)
	}
	return repairs, nil
}

func (rr *RepairRepository) ListRecent(ctx context.Context, limit int) ([]tables.Repair, error) {
	repairs, err := database.Query[tables.Repair](rr.db).
		OrderBy("created_at", database.DESC).
		Limit(limit).
		All(ctx)
	if err != nil {
		return nil, lib.Persistence("list recent repairs", err)
	}
	return repairs, nil
}

// CountReceivedOn counts repairs received on the calendar day of day.
func (rr *RepairRepository) CountReceivedOn(ctx context.Context, day time.Time) (int, error) {
	n, err := database.Query[tables.Repair](rr.db).
		Where("date_received", day.Format(time.DateOnly)).
		Count(ctx)
	if err != nil {
		return 0, lib.Persistence("count repairs", err)
	}
	return n, nil
}

// CountReceivedSince counts repairs whose reception date is on or after since.
func (rr *RepairRepository) CountReceivedSince(ctx context.Context, since time.Time) (int, error) {
	n, err := database.Query[tables.Repair](rr.db).
		WhereOp("date_received", ">=", since.Format(time.DateOnly)).
		Count(ctx)
	if err != nil {
		return 0, lib.Persistence("count repairs", err)
	}
	return n, nil
}

func (rr *RepairRepository) CountAll(ctx context.Context) (int, error) {
	n, err := database.Query[tables.Repair](rr.db).Count(ctx)
	if err != nil {
		return 0, lib.Persistence("count repairs", err)
	}
	return n, nil
}

func (rr *RepairRepository) CountByStatus(ctx context.Context) (map[tables.RepairStatus]int, error) {
	rows, err := rr.countBy(ctx, "status")
	if err != nil {
		return nil, err
	}

	out := make(map[tables.RepairStatus]int, len(tables.RepairStatuses))
	for _, s := range tables.RepairStatuses {
		out[s] = 0
	}
	for _, row := range rows {
		out[tables.RepairStatus(row.Key)] = row.Count
	}
	return out, nil
}

func (rr *RepairRepository) CountByWorkshop(ctx context.Context) (map[tables.Workshop]int, error) {
	rows, err := rr.countBy(ctx, "workshop")
	if err != nil {
		return nil, err
	}

	out := make(map[tables.Workshop]int, len(tables.Workshops))
	for _, w := range tables.Workshops {
		out[w] = 0
	}
	for _, row := range rows {
		out[tables.Workshop(row.Key)] = row.Count
	}
	return out, nil
}

func (rr *RepairRepository) countBy(ctx context.Context, column string) ([]keyCount, error) {
	var rows []keyCount
	err := database.WithRetry(ctx, func() error {
		rows = nil
		return rr.db.NewSelect().
			Model((*tables.Repair)(nil)).
			ColumnExpr("? AS key", bun.Ident(column)).
			ColumnExpr("count(*) AS count").
			GroupExpr("?", bun.Ident(column)).
			Scan(ctx, &rows)
	})
	if err != nil {
		return nil, lib.Persistence("count repairs by "+column, err)
	}
	return rows, nil
}
