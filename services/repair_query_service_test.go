package services

import (
	"bijouterie_server/lib"
	"bijouterie_server/structs"
	"bijouterie_server/structs/tables"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seed(t *testing.T, f *repairFixture, name string, received string, st tables.RepairStatus, ws tables.Workshop) *tables.Repair {
	t.Helper()
	input := ringInput(st)
	input.Client.FullName = name
	input.DateReceived = received
	input.Workshop = ws

	repair, err := f.service.SubmitRepair(context.Background(), employee, input, nil)
	require.NoError(t, err)
	return repair
}

func TestListByStatus(t *testing.T) {
	f := newRepairFixture()
	ctx := context.Background()

	older := seed(t, f, "Ahmed Tazi", "2025-01-10", tables.StatusInProgress, tables.WorkshopCentral)
	newer := seed(t, f, "Salma Bennani", "2025-02-10", tables.StatusInProgress, tables.WorkshopSetting)
	seed(t, f, "Youssef Alami", "2025-02-11", tables.StatusReady, tables.WorkshopCentral)

	// orphaned repair
	orphan := f.repairs.rows[older.Id]
	delete(f.clients.rows, orphan.ClientId)

	rows, err := f.query.ListByStatus(ctx, tables.StatusInProgress)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.Id, rows[0].Id)
	assert.Equal(t, "Salma Bennani", rows[0].ClientName)
	assert.Equal(t, unknownClient, rows[1].ClientName)
	assert.Equal(t, 1, rows[0].ItemCount)

	_, err = f.query.ListByStatus(ctx, "perdu")
	assert.ErrorIs(t, err, lib.ErrValidation)
}

func TestGetForEditAndReceipt(t *testing.T) {
	f := newRepairFixture()
	ctx := context.Background()

	input := ringInput(tables.StatusInProgress)
	input.Items[0].NewPhotos = []structs.PhotoUpload{photo("a.jpg")}
	input.Items = append(input.Items, structs.ItemInput{
		ProductType:       tables.ProductOther,
		CustomProductType: "broche",
		WeightGrams:       price("4.2"),
		ItemPrice:         price("120"),
	})
	repair, err := f.service.SubmitRepair(ctx, employee, input, nil)
	require.NoError(t, err)

	detail, err := f.query.GetForEdit(ctx, repair.Id)
	require.NoError(t, err)
	assert.Equal(t, "Ahmed Tazi", detail.Client.FullName)
	require.Len(t, detail.Items, 2)
	assert.Len(t, detail.Items[0].PhotoUrls, 1)
	assert.Empty(t, detail.Items[1].PhotoUrls)

	receipt, err := f.query.Receipt(ctx, repair.Id)
	require.NoError(t, err)
	assert.Equal(t, "Ben Daoud Bijouterie", receipt.ShopName)
	assert.Equal(t, repair.Reference, receipt.Reference)
	require.Len(t, receipt.Lines, 2)
	assert.Equal(t, "broche", receipt.Lines[1].Type)
	assert.Equal(t, "4.2 g", receipt.Lines[1].WeightGrams)
	assert.True(t, receipt.Total.Equal(decimal.NewFromInt(370)))

	_, err = f.query.Receipt(ctx, uuid.New())
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestDashboardStatsIsCachedUntilInvalidated(t *testing.T) {
	f := newRepairFixture()
	ctx := context.Background()
	f.query.now = func() time.Time { return time.Date(2025, 3, 15, 16, 0, 0, 0, time.UTC) }

	seed(t, f, "A", "2025-03-15", tables.StatusInProgress, tables.WorkshopCentral)
	seed(t, f, "B", "2025-03-02", tables.StatusInProgress, tables.WorkshopCentral)
	seed(t, f, "C", "2025-01-20", tables.StatusReady, tables.WorkshopExternal)
	seed(t, f, "D", "2024-12-31", tables.StatusDelivered, tables.WorkshopExternal)
	seed(t, f, "F", "2025-03-20", tables.StatusInProgress, tables.WorkshopCentral)

	stats, err := f.query.DashboardStats(ctx)
	require.NoError(t, err)
	// a reception date after today is not counted as today
	assert.Equal(t, structs.DashboardStats{Today: 1, ThisMonth: 3, ThreeMonths: 4, Total: 5}, *stats)
	assert.Same(t, stats, f.cache.dashboard)

	seed(t, f, "E", "2025-03-15", tables.StatusInProgress, tables.WorkshopCentral)
	assert.Nil(t, f.cache.dashboard)

	stats, err = f.query.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Today)
}

func TestStatistics(t *testing.T) {
	f := newRepairFixture()

	seed(t, f, "A", "2025-03-15", tables.StatusInProgress, tables.WorkshopCentral)
	seed(t, f, "B", "2025-03-02", tables.StatusReady, tables.WorkshopCentral)
	seed(t, f, "C", "2025-01-20", tables.StatusReady, tables.WorkshopExternal)

	stats, err := f.query.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[tables.StatusReady])
	assert.Equal(t, 0, stats.ByStatus[tables.StatusDelivered])
	assert.Equal(t, 0, stats.ByWorkshop[tables.WorkshopSetting])
	assert.Equal(t, 2, stats.ByWorkshop[tables.WorkshopCentral])
}

func TestExportHistory(t *testing.T) {
	f := newRepairFixture()
	repair := seed(t, f, "Ahmed Tazi", "2025-03-01", tables.StatusInProgress, tables.WorkshopCentral)

	data, err := f.query.ExportHistory(context.Background())
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(historySheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Référence", rows[0][0])
	assert.Equal(t, repair.Reference, rows[1][0])
	assert.Equal(t, "Ahmed Tazi", rows[1][1])
	assert.Equal(t, "2025-03-01", rows[1][7])
}
