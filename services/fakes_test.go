package services

import (
	"bijouterie_server/structs"
	"bijouterie_server/structs/tables"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

func testLogger() *gecho.Logger {
	return gecho.NewDefaultLogger()
}

type fakeClients struct {
	rows      map[uuid.UUID]tables.Client
	createErr error
}

func newFakeClients() *fakeClients {
	return &fakeClients{rows: map[uuid.UUID]tables.Client{}}
}

func (f *fakeClients) Create(_ context.Context, c *tables.Client) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.Id = uuid.New()
	f.rows[c.Id] = *c
	return nil
}

func (f *fakeClients) Update(_ context.Context, c *tables.Client) error {
	f.rows[c.Id] = *c
	return nil
}

func (f *fakeClients) GetByID(_ context.Context, id uuid.UUID) (*tables.Client, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeClients) ListByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]tables.Client, error) {
	out := map[uuid.UUID]tables.Client{}
	for _, id := range ids {
		if c, ok := f.rows[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

type fakeRepairs struct {
	rows      map[uuid.UUID]tables.Repair
	updateErr error
	deleteErr error
}

func newFakeRepairs() *fakeRepairs {
	return &fakeRepairs{rows: map[uuid.UUID]tables.Repair{}}
}

func (f *fakeRepairs) Create(_ context.Context, r *tables.Repair) error {
	r.Id = uuid.New()
	r.CreatedAt = time.Now()
	f.rows[r.Id] = *r
	return nil
}

func (f *fakeRepairs) Update(_ context.Context, r *tables.Repair) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.rows[r.Id] = *r
	return nil
}

func (f *fakeRepairs) GetByID(_ context.Context, id uuid.UUID) (*tables.Repair, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeRepairs) Delete(_ context.Context, id uuid.UUID) (int, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

func (f *fakeRepairs) list(match func(tables.Repair) bool) []tables.Repair {
	var out []tables.Repair
	for _, r := range f.rows {
		if match(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateReceived.After(out[j].DateReceived) })
	return out
}

func (f *fakeRepairs) ListByStatus(_ context.Context, status tables.RepairStatus) ([]tables.Repair, error) {
	return f.list(func(r tables.Repair) bool { return r.Status == status }), nil
}

func (f *fakeRepairs) ListAll(_ context.Context) ([]tables.Repair, error) {
	return f.list(func(tables.Repair) bool { return true }), nil
}

func (f *fakeRepairs) ListRecent(_ context.Context, limit int) ([]tables.Repair, error) {
	all := f.list(func(tables.Repair) bool { return true })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeRepairs) CountReceivedOn(_ context.Context, day time.Time) (int, error) {
	return len(f.list(func(r tables.Repair) bool { return r.DateReceived.Equal(day) })), nil
}

func (f *fakeRepairs) CountReceivedSince(_ context.Context, since time.Time) (int, error) {
	return len(f.list(func(r tables.Repair) bool { return !r.DateReceived.Before(since) })), nil
}

func (f *fakeRepairs) CountAll(_ context.Context) (int, error) {
	return len(f.rows), nil
}

func (f *fakeRepairs) CountByStatus(_ context.Context) (map[tables.RepairStatus]int, error) {
	out := map[tables.RepairStatus]int{}
	for _, s := range tables.RepairStatuses {
		out[s] = 0
	}
	for _, r := range f.rows {
		out[r.Status]++
	}
	return out, nil
}

func (f *fakeRepairs) CountByWorkshop(_ context.Context) (map[tables.Workshop]int, error) {
	out := map[tables.Workshop]int{}
	for _, w := range tables.Workshops {
		out[w] = 0
	}
	for _, r := range f.rows {
		out[r.Workshop]++
	}
	return out, nil
}

type fakeItems struct {
	rows  []tables.Item
	clock time.Time
}

func (f *fakeItems) Create(_ context.Context, item *tables.Item) error {
	f.clock = f.clock.Add(time.Second)
	item.Id = uuid.New()
	item.CreatedAt = f.clock
	f.rows = append(f.rows, *item)
	return nil
}

func (f *fakeItems) ListByRepair(_ context.Context, repairID uuid.UUID) ([]tables.Item, error) {
	var out []tables.Item
	for _, item := range f.rows {
		if item.RepairId == repairID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeItems) DeleteByIDs(_ context.Context, ids []uuid.UUID) error {
	drop := toSet(ids)
	kept := f.rows[:0]
	for _, item := range f.rows {
		if !drop[item.Id] {
			kept = append(kept, item)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeItems) CountByRepairs(_ context.Context, repairIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	want := toSet(repairIDs)
	out := map[uuid.UUID]int{}
	for _, item := range f.rows {
		if want[item.RepairId] {
			out[item.RepairId]++
		}
	}
	return out, nil
}

type fakePhotos struct {
	rows []tables.Photo
}

func (f *fakePhotos) Create(_ context.Context, p *tables.Photo) error {
	p.Id = uuid.New()
	f.rows = append(f.rows, *p)
	return nil
}

func (f *fakePhotos) ListByItems(_ context.Context, itemIDs []uuid.UUID) ([]tables.Photo, error) {
	want := toSet(itemIDs)
	var out []tables.Photo
	for _, p := range f.rows {
		if want[p.ItemId] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePhotos) DeleteByIDs(_ context.Context, ids []uuid.UUID) error {
	drop := toSet(ids)
	kept := f.rows[:0]
	for _, p := range f.rows {
		if !drop[p.Id] {
			kept = append(kept, p)
		}
	}
	f.rows = kept
	return nil
}

type fakeBlobs struct {
	objects   map[string][]byte
	uploadErr error
	removeErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}}
}

func (f *fakeBlobs) Upload(_ context.Context, objectPath string, body io.Reader, _ int64, _ string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[objectPath] = data
	return nil
}

func (f *fakeBlobs) PublicURL(objectPath string) string {
	return "https://photos.test/" + objectPath
}

func (f *fakeBlobs) Remove(_ context.Context, objectPaths []string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	for _, p := range objectPaths {
		delete(f.objects, p)
	}
	return nil
}

func (f *fakeBlobs) under(prefix string) []string {
	var out []string
	for p := range f.objects {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}

type sentMessage struct {
	Phone   string
	Message string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, phone, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{Phone: phone, Message: message})
	return f.err
}

type fakeCache struct {
	invalidations int
	dashboard     *structs.DashboardStats
	statistics    *structs.Statistics
	err           error
}

func (f *fakeCache) InvalidateRepairCaches(context.Context) error {
	f.invalidations++
	f.dashboard = nil
	f.statistics = nil
	return f.err
}

func (f *fakeCache) GetDashboardStats() (*structs.DashboardStats, error) { return f.dashboard, nil }

func (f *fakeCache) SetDashboardStats(s *structs.DashboardStats) error {
	f.dashboard = s
	return nil
}

func (f *fakeCache) GetStatistics() (*structs.Statistics, error) { return f.statistics, nil }

func (f *fakeCache) SetStatistics(s *structs.Statistics) error {
	f.statistics = s
	return nil
}

var errBoom = errors.New("boom")

func toSet(ids []uuid.UUID) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

// repairFixture wires a RepairService and a RepairQueryService over the same fakes.
type repairFixture struct {
	clients  *fakeClients
	repairs  *fakeRepairs
	items    *fakeItems
	photos   *fakePhotos
	blobs    *fakeBlobs
	notifier *fakeNotifier
	cache    *fakeCache
	service  *RepairService
	query    *RepairQueryService
}

func newRepairFixture() *repairFixture {
	f := &repairFixture{
		clients:  newFakeClients(),
		repairs:  newFakeRepairs(),
		items:    &fakeItems{clock: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
		photos:   &fakePhotos{},
		blobs:    newFakeBlobs(),
		notifier: &fakeNotifier{},
		cache:    &fakeCache{},
	}
	f.service = NewRepairService(testLogger(), "Ben Daoud Bijouterie",
		f.clients, f.repairs, f.items, f.photos, f.blobs, f.notifier, f.cache)
	f.query = NewRepairQueryService(testLogger(), "Ben Daoud Bijouterie",
		f.repairs, f.clients, f.items, f.photos, f.cache)
	return f
}
