package services

import (
	"bijouterie_server/lib"
	"bijouterie_server/structs"
	"bijouterie_server/structs/tables"
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	unknownClient = "Client inconnu"
	recentLimit   = 8
	historySheet  = "Historique"
)

type RepairReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*tables.Repair, error)
	ListByStatus(ctx context.Context, status tables.RepairStatus) ([]tables.Repair, error)
	ListAll(ctx context.Context) ([]tables.Repair, error)
	ListRecent(ctx context.Context, limit int) ([]tables.Repair, error)
	CountReceivedOn(ctx context.Context, day time.Time) (int, error)
	CountReceivedSince(ctx context.Context, since time.Time) (int, error)
	CountAll(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[tables.RepairStatus]int, error)
	CountByWorkshop(ctx context.Context) (map[tables.Workshop]int, error)
}

type ClientReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*tables.Client, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]tables.Client, error)
}

type ItemReader interface {
	ListByRepair(ctx context.Context, repairID uuid.UUID) ([]tables.Item, error)
	CountByRepairs(ctx context.Context, repairIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type PhotoReader interface {
	ListByItems(ctx context.Context, itemIDs []uuid.UUID) ([]tables.Photo, error)
}

// StatsCache holds the dashboard read models between mutations.
type StatsCache interface {
	GetDashboardStats() (*structs.DashboardStats, error)
	SetDashboardStats(stats *structs.DashboardStats) error
	GetStatistics() (*structs.Statistics, error)
	SetStatistics(stats *structs.Statistics) error
}

type RepairQueryService struct {
	logger   *gecho.Logger
	shopName string
	repairs  RepairReader
	clients  ClientReader
	items    ItemReader
	photos   PhotoReader
	cache    StatsCache
	now      func() time.Time
}

func NewRepairQueryService(logger *gecho.Logger, shopName string, repairs RepairReader, clients ClientReader, items ItemReader, photos PhotoReader, cache StatsCache) *RepairQueryService {
	return &RepairQueryService{
		logger:   logger,
		shopName: shopName,
		repairs:  repairs,
		clients:  clients,
		items:    items,
		photos:   photos,
		cache:    cache,
		now:      time.Now,
	}
}

// ListByStatus returns the repairs in one status, newest reception date first.
func (qs *RepairQueryService) ListByStatus(ctx context.Context, status tables.RepairStatus) ([]structs.RepairSummary, error) {
	if !status.IsValid() {
		return nil, (&lib.ValidationError{}).Add("status", "must be one of: en cours, prêt, livré")
	}

	repairs, err := qs.repairs.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return qs.summarize(ctx, repairs)
}

func (qs *RepairQueryService) History(ctx context.Context) ([]structs.RepairSummary, error) {
	repairs, err := qs.repairs.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return qs.summarize(ctx, repairs)
}

func (qs *RepairQueryService) Recent(ctx context.Context) ([]structs.RepairSummary, error) {
	repairs, err := qs.repairs.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	return qs.summarize(ctx, repairs)
}

// GetForEdit loads the whole aggregate for the edit form.
func (qs *RepairQueryService) GetForEdit(ctx context.Context, id uuid.UUID) (*structs.RepairDetail, error) {
	repair, client, items, err := qs.load(ctx, id)
	if err != nil {
		return nil, err
	}

	photos, err := qs.photos.ListByItems(ctx, itemIDs(items))
	if err != nil {
		return nil, err
	}
	urls := make(map[uuid.UUID][]string, len(items))
	for _, p := range photos {
		urls[p.ItemId] = append(urls[p.ItemId], p.PublicUrl)
	}

	details := make([]structs.ItemDetail, len(items))
	for i, item := range items {
		details[i] = structs.ItemDetail{Item: item, PhotoUrls: urls[item.Id]}
		if details[i].PhotoUrls == nil {
			details[i].PhotoUrls = []string{}
		}
	}

	return &structs.RepairDetail{Repair: *repair, Client: *client, Items: details}, nil
}

// Receipt builds the deposit receipt handed to the client.
func (qs *RepairQueryService) Receipt(ctx context.Context, id uuid.UUID) (*structs.Receipt, error) {
	repair, client, items, err := qs.load(ctx, id)
	if err != nil {
		return nil, err
	}

	lines := make([]structs.ReceiptLine, len(items))
	for i, item := range items {
		line := structs.ReceiptLine{
			Type:        item.DisplayType(),
			Description: item.Description,
			Price:       item.ItemPrice,
		}
		if item.WeightGrams != nil {
			line.WeightGrams = item.WeightGrams.String() + " g"
		}
		lines[i] = line
	}

	return &structs.Receipt{
		ShopName:     qs.shopName,
		Reference:    repair.Reference,
		RepairId:     repair.Id,
		ClientName:   client.FullName,
		ClientPhone:  client.Phone,
		DateReceived: repair.DateReceived,
		Workshop:     repair.Workshop,
		Status:       repair.Status,
		Lines:        lines,
		Total:        ItemsTotal(items),
	}, nil
}

// DashboardStats counts repairs received today, this month, over the last three calendar months and overall.
func (qs *RepairQueryService) DashboardStats(ctx context.Context) (*structs.DashboardStats, error) {
	if qs.cache != nil {
		if cached, err := qs.cache.GetDashboardStats(); err != nil {
			qs.logger.Warn("Failed to read dashboard stats from cache", gecho.Field("error", err))
		} else if cached != nil {
			return cached, nil
		}
	}

	now := qs.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	threeMonthsStart := monthStart.AddDate(0, -2, 0)

	stats := &structs.DashboardStats{}
	var err error
	if stats.Today, err = qs.repairs.CountReceivedOn(ctx, today); err != nil {
		return nil, err
	}
	if stats.ThisMonth, err = qs.repairs.CountReceivedSince(ctx, monthStart); err != nil {
		return nil, err
	}
	if stats.ThreeMonths, err = qs.repairs.CountReceivedSince(ctx, threeMonthsStart); err != nil {
		return nil, err
	}
	if stats.Total, err = qs.repairs.CountAll(ctx); err != nil {
		return nil, err
	}

	if qs.cache != nil {
		if err := qs.cache.SetDashboardStats(stats); err != nil {
			qs.logger.Warn("Failed to cache dashboard stats", gecho.Field("error", err))
		}
	}
	return stats, nil
}

func (qs *RepairQueryService) Statistics(ctx context.Context) (*structs.Statistics, error) {
	if qs.cache != nil {
		if cached, err := qs.cache.GetStatistics(); err != nil {
			qs.logger.Warn("Failed to read statistics from cache", gecho.Field("error", err))
		} else if cached != nil {
			return cached, nil
		}
	}

	byStatus, err := qs.repairs.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byWorkshop, err := qs.repairs.CountByWorkshop(ctx)
	if err != nil {
		return nil, err
	}

	stats := &structs.Statistics{ByStatus: byStatus, ByWorkshop: byWorkshop}
	for _, n := range byStatus {
		stats.Total += n
	}

	if qs.cache != nil {
		if err := qs.cache.SetStatistics(stats); err != nil {
			qs.logger.Warn("Failed to cache statistics", gecho.Field("error", err))
		}
	}
	return stats, nil
}

// ExportHistory renders the repair history as an xlsx workbook.
func (qs *RepairQueryService) ExportHistory(ctx context.Context) ([]byte, error) {
	rows, err := qs.History(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E7E6E6"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	headers := []string{"Référence", "Client", "Téléphone", "Atelier", "Statut", "Urgent", "Prix", "Date de réception", "Bijoux"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(historySheet, cell, header)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(historySheet, "A1", lastHeader, headerStyle)
	f.SetColWidth(historySheet, "A", "I", 18)

	for i, row := range rows {
		price, _ := row.Price.Float64()
		urgent := "non"
		if row.Urgent {
			urgent = "oui"
		}

		values := []any{
			row.Reference,
			row.ClientName,
			row.ClientPhone,
			string(row.Workshop),
			string(row.Status),
			urgent,
			price,
			row.DateReceived.Format(time.DateOnly),
			row.ItemCount,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(historySheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

func (qs *RepairQueryService) load(ctx context.Context, id uuid.UUID) (*tables.Repair, *tables.Client, []tables.Item, error) {
	repair, err := qs.repairs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	if repair == nil {
		return nil, nil, nil, lib.ErrNotFound
	}

	client, err := qs.clients.GetByID(ctx, repair.ClientId)
	if err != nil {
		return nil, nil, nil, err
	}
	if client == nil {
		client = &tables.Client{Id: repair.ClientId, FullName: unknownClient}
	}

	items, err := qs.items.ListByRepair(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	return repair, client, items, nil
}

func (qs *RepairQueryService) summarize(ctx context.Context, repairs []tables.Repair) ([]structs.RepairSummary, error) {
	out := make([]structs.RepairSummary, 0, len(repairs))
	if len(repairs) == 0 {
		return out, nil
	}

	repairIDs := make([]uuid.UUID, len(repairs))
	clientIDs := make([]uuid.UUID, 0, len(repairs))
	seen := make(map[uuid.UUID]bool)
	for i, r := range repairs {
		repairIDs[i] = r.Id
		if !seen[r.ClientId] {
			seen[r.ClientId] = true
			clientIDs = append(clientIDs, r.ClientId)
		}
	}

	clients, err := qs.clients.ListByIDs(ctx, clientIDs)
	if err != nil {
		return nil, err
	}
	counts, err := qs.items.CountByRepairs(ctx, repairIDs)
	if err != nil {
		return nil, err
	}

	for _, r := range repairs {
		summary := structs.RepairSummary{
			Id:           r.Id,
			Reference:    r.Reference,
			ClientName:   unknownClient,
			Workshop:     r.Workshop,
			Status:       r.Status,
			Urgent:       r.Urgent,
			Price:        r.Price,
			DateReceived: r.DateReceived,
			ItemCount:    counts[r.Id],
		}
		if c, ok := clients[r.ClientId]; ok {
			summary.ClientName = c.FullName
			summary.ClientPhone = c.Phone
		}
		out = append(out, summary)
	}
	return out, nil
}
