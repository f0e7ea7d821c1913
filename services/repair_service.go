package services

import (
	"bijouterie_server/lib"
	"bijouterie_server/storage"
	"bijouterie_server/structs"
	"bijouterie_server/structs/tables"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuthContext is the authenticated caller, resolved by the HTTP layer and passed to every mutation.
type AuthContext struct {
	UserID uuid.UUID
	Role   tables.Role
}

func (a AuthContext) IsAuthenticated() bool {
	return a.UserID != uuid.Nil
}

func (a AuthContext) IsAdmin() bool {
	return a.Role == tables.RoleAdmin
}

type ClientStore interface {
	Create(ctx context.Context, client *tables.Client) error
	Update(ctx context.Context, client *tables.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*tables.Client, error)
}

type RepairStore interface {
	Create(ctx context.Context, repair *tables.Repair) error
	Update(ctx context.Context, repair *tables.Repair) error
	GetByID(ctx context.Context, id uuid.UUID) (*tables.Repair, error)
	Delete(ctx context.Context, id uuid.UUID) (int, error)
}

type ItemStore interface {
	Create(ctx context.Context, item *tables.Item) error
	ListByRepair(ctx context.Context, repairID uuid.UUID) ([]tables.Item, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

type PhotoStore interface {
	Create(ctx context.Context, photo *tables.Photo) error
	ListByItems(ctx context.Context, itemIDs []uuid.UUID) ([]tables.Photo, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

// Notifier delivers a text message to a phone number.
type Notifier interface {
	Send(ctx context.Context, phone, message string) error
}

type RepairCacheInvalidator interface {
	InvalidateRepairCaches(ctx context.Context) error
}

// RepairService runs the create/update/delete sequences of a repair and its clients, items and photos.
// The steps are not wrapped in a transaction: a failing step stops the sequence and what was
// already written stays written. Re-submitting the form completes the aggregate.
type RepairService struct {
	logger   *gecho.Logger
	shopName string
	clients  ClientStore
	repairs  RepairStore
	items    ItemStore
	photos   PhotoStore
	blobs    storage.Store
	notifier Notifier
	cache    RepairCacheInvalidator
}

func NewRepairService(
	logger *gecho.Logger,
	shopName string,
	clients ClientStore,
	repairs RepairStore,
	items ItemStore,
	photos PhotoStore,
	blobs storage.Store,
	notifier Notifier,
	cache RepairCacheInvalidator,
) *RepairService {
	return &RepairService{
		logger:   logger,
		shopName: shopName,
		clients:  clients,
		repairs:  repairs,
		items:    items,
		photos:   photos,
		blobs:    blobs,
		notifier: notifier,
		cache:    cache,
	}
}

type itemDraft struct {
	item    tables.Item
	keep    []string
	uploads []structs.PhotoUpload
}

type repairDraft struct {
	client tables.Client
	repair tables.Repair
	items  []itemDraft
}

// SubmitRepair creates a repair, or replaces the one identified by editingID.
// Items and photos of an edited repair are inserted again from the input before the previous
// rows are deleted; photos listed in existing_photo_urls keep their blob and are linked to the new item.
func (rs *RepairService) SubmitRepair(ctx context.Context, auth AuthContext, input *structs.RepairInput, editingID *uuid.UUID) (*tables.Repair, error) {
	draft, err := validateRepairInput(input)
	if err != nil {
		return nil, err
	}

	if !auth.IsAuthenticated() {
		return nil, lib.ErrAuth
	}

	var previous *tables.Repair
	if editingID != nil {
		previous, err = rs.repairs.GetByID(ctx, *editingID)
		if err != nil {
			return nil, err
		}
		if previous == nil {
			return nil, lib.ErrNotFound
		}
	}

	client := draft.client
	if previous != nil && previous.ClientId != uuid.Nil {
		client.Id = previous.ClientId
		if err := rs.clients.Update(ctx, &client); err != nil {
			return nil, err
		}
	} else if err := rs.clients.Create(ctx, &client); err != nil {
		return nil, err
	}

	repair := draft.repair
	repair.ClientId = client.Id
	if previous != nil {
		repair.Id = previous.Id
		repair.Reference = previous.Reference
		repair.CreatedBy = previous.CreatedBy
		repair.CreatedAt = previous.CreatedAt
		if err := rs.repairs.Update(ctx, &repair); err != nil {
			return nil, err
		}
	} else {
		repair.Reference = lib.GenerateRepairReference()
		repair.CreatedBy = auth.UserID
		if err := rs.repairs.Create(ctx, &repair); err != nil {
			return nil, err
		}
	}

	var (
		oldItems  []tables.Item
		oldPhotos []tables.Photo
	)
	if previous != nil {
		oldItems, oldPhotos, err = rs.loadItems(ctx, repair.Id)
		if err != nil {
			return nil, err
		}
	}
	kept, dropped := splitKept(oldPhotos, draft.keptURLs())

	// previous rows are removed only once the new items reference the kept blobs
	saved := make([]tables.Item, 0, len(draft.items))
	for _, d := range draft.items {
		item := d.item
		item.RepairId = repair.Id
		if err := rs.items.Create(ctx, &item); err != nil {
			return nil, err
		}

		if err := rs.relinkPhotos(ctx, item, d.keep, kept); err != nil {
			return nil, err
		}
		if err := rs.uploadPhotos(ctx, item, d.uploads); err != nil {
			return nil, err
		}
		saved = append(saved, item)
	}

	if previous != nil {
		if err := rs.clearPrevious(ctx, oldItems, oldPhotos, dropped); err != nil {
			return nil, err
		}
	}

	rs.logger.Info("Repair saved",
		gecho.Field("repair_id", repair.Id),
		gecho.Field("reference", repair.Reference),
		gecho.Field("items", len(saved)),
		gecho.Field("edit", previous != nil),
	)

	rs.invalidateCaches(ctx)

	var previousStatus *tables.RepairStatus
	if previous != nil {
		previousStatus = &previous.Status
	}
	rs.notify(ctx, DecideNotification(previousStatus, repair.Status, client.Phone), &repair, &client, saved)

	return &repair, nil
}

// DeleteRepair removes a repair with its items, photo records and photo blobs.
// A blob that cannot be removed is logged and left behind; the records are deleted regardless.
func (rs *RepairService) DeleteRepair(ctx context.Context, auth AuthContext, id uuid.UUID) error {
	if !auth.IsAuthenticated() {
		return lib.ErrAuth
	}

	repair, err := rs.repairs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if repair == nil {
		return lib.ErrNotFound
	}

	items, err := rs.items.ListByRepair(ctx, id)
	if err != nil {
		return err
	}
	photos, err := rs.photos.ListByItems(ctx, itemIDs(items))
	if err != nil {
		return err
	}

	if err := rs.removeBlobs(ctx, photos); err != nil {
		rs.logger.Warn("Failed to remove photo blobs, deleting records anyway",
			gecho.Field("repair_id", id),
			gecho.Field("photos", len(photos)),
			gecho.Field("error", err),
		)
	}

	if err := rs.photos.DeleteByIDs(ctx, photoIDs(photos)); err != nil {
		return err
	}
	if err := rs.items.DeleteByIDs(ctx, itemIDs(items)); err != nil {
		return err
	}

	n, err := rs.repairs.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}

	rs.logger.Info("Repair deleted", gecho.Field("repair_id", id), gecho.Field("items", len(items)), gecho.Field("photos", len(photos)))
	rs.invalidateCaches(ctx)
	return nil
}

// NotifyReady sends the ready-for-pickup message for a stored repair and reports the dispatch result.
func (rs *RepairService) NotifyReady(ctx context.Context, auth AuthContext, id uuid.UUID) error {
	if !auth.IsAuthenticated() {
		return lib.ErrAuth
	}

	repair, err := rs.repairs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if repair == nil {
		return lib.ErrNotFound
	}

	client, err := rs.clients.GetByID(ctx, repair.ClientId)
	if err != nil {
		return err
	}
	if client == nil || strings.TrimSpace(client.Phone) == "" {
		return (&lib.ValidationError{}).Add("telephone", "is required")
	}

	items, err := rs.items.ListByRepair(ctx, id)
	if err != nil {
		return err
	}

	return rs.notifier.Send(ctx, client.Phone, ReadyMessage(rs.shopName, client.FullName, ItemsTotal(items)))
}

func (rs *RepairService) loadItems(ctx context.Context, repairID uuid.UUID) ([]tables.Item, []tables.Photo, error) {
	items, err := rs.items.ListByRepair(ctx, repairID)
	if err != nil {
		return nil, nil, err
	}
	photos, err := rs.photos.ListByItems(ctx, itemIDs(items))
	if err != nil {
		return nil, nil, err
	}
	return items, photos, nil
}

// splitKept indexes the photos whose public URL is in keep and returns the others as dropped.
func splitKept(photos []tables.Photo, keep map[string]bool) (map[string]tables.Photo, []tables.Photo) {
	kept := make(map[string]tables.Photo)
	var dropped []tables.Photo
	for _, p := range photos {
		if keep[p.PublicUrl] {
			kept[p.PublicUrl] = p
			continue
		}
		dropped = append(dropped, p)
	}
	return kept, dropped
}

// clearPrevious deletes the items an edit replaced. Blobs of dropped photos go first,
// then every previous photo row, then the previous item rows.
func (rs *RepairService) clearPrevious(ctx context.Context, items []tables.Item, photos, dropped []tables.Photo) error {
	if err := rs.removeBlobs(ctx, dropped); err != nil {
		return err
	}
	if err := rs.photos.DeleteByIDs(ctx, photoIDs(photos)); err != nil {
		return err
	}
	return rs.items.DeleteByIDs(ctx, itemIDs(items))
}

func (rs *RepairService) relinkPhotos(ctx context.Context, item tables.Item, urls []string, kept map[string]tables.Photo) error {
	for _, url := range urls {
		old, ok := kept[url]
		if !ok {
			rs.logger.Warn("Ignoring unknown photo URL", gecho.Field("item_id", item.Id), gecho.Field("url", url))
			continue
		}
		// a blob is linked to one item only
		delete(kept, url)

		photo := tables.Photo{
			ItemId:      item.Id,
			StoragePath: old.StoragePath,
			PublicUrl:   old.PublicUrl,
		}
		if err := rs.photos.Create(ctx, &photo); err != nil {
			return err
		}
	}
	return nil
}

func (rs *RepairService) uploadPhotos(ctx context.Context, item tables.Item, uploads []structs.PhotoUpload) error {
	for _, upload := range uploads {
		objectPath := storage.PhotoPath(item.RepairId, item.Id, upload.FileName)

		if err := rs.blobs.Upload(ctx, objectPath, upload.Body, upload.Size, upload.ContentType); err != nil {
			return lib.Storage("upload photo", err)
		}

		photo := tables.Photo{
			ItemId:      item.Id,
			StoragePath: objectPath,
			PublicUrl:   rs.blobs.PublicURL(objectPath),
		}
		if err := rs.photos.Create(ctx, &photo); err != nil {
			return err
		}
	}
	return nil
}

func (rs *RepairService) removeBlobs(ctx context.Context, photos []tables.Photo) error {
	if len(photos) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(photos))
	paths := make([]string, 0, len(photos))
	for _, p := range photos {
		if seen[p.StoragePath] {
			continue
		}
		seen[p.StoragePath] = true
		paths = append(paths, p.StoragePath)
	}

	if err := rs.blobs.Remove(ctx, paths); err != nil {
		return lib.Storage("remove photos", err)
	}
	return nil
}

func (rs *RepairService) notify(ctx context.Context, kind NotificationKind, repair *tables.Repair, client *tables.Client, items []tables.Item) {
	var message string
	switch kind {
	case NotifyIntake:
		message = IntakeMessage(client.FullName)
	case NotifyReady:
		message = ReadyMessage(rs.shopName, client.FullName, ItemsTotal(items))
	default:
		return
	}

	if err := rs.notifier.Send(ctx, client.Phone, message); err != nil {
		rs.logger.Warn("WhatsApp notification failed",
			gecho.Field("repair_id", repair.Id),
			gecho.Field("kind", kind.String()),
			gecho.Field("error", err),
		)
		return
	}
	rs.logger.Info("WhatsApp notification sent", gecho.Field("repair_id", repair.Id), gecho.Field("kind", kind.String()))
}

func (rs *RepairService) invalidateCaches(ctx context.Context) {
	if rs.cache == nil {
		return
	}
	if err := rs.cache.InvalidateRepairCaches(ctx); err != nil {
		rs.logger.Warn("Failed to invalidate repair caches", gecho.Field("error", err))
	}
}

func (d *repairDraft) keptURLs() map[string]bool {
	urls := make(map[string]bool)
	for _, item := range d.items {
		for _, url := range item.keep {
			urls[url] = true
		}
	}
	return urls
}

// validateRepairInput checks the whole submission before anything is written.
func validateRepairInput(input *structs.RepairInput) (*repairDraft, error) {
	verr := &lib.ValidationError{}
	if input == nil {
		return nil, verr.Add("body", "is required")
	}

	name := strings.TrimSpace(input.Client.FullName)
	if name == "" {
		verr.Add("client.full_name", "is required")
	}

	if !input.Workshop.IsValid() {
		verr.Add("workshop", "must be one of the shop workshops")
	}

	status := input.Status
	if status == "" {
		status = tables.StatusInProgress
	}
	if !status.IsValid() {
		verr.Add("status", "must be one of: en cours, prêt, livré")
	}

	var received time.Time
	if strings.TrimSpace(input.DateReceived) == "" {
		verr.Add("date_received", "is required")
	} else if d, err := parseDate(input.DateReceived); err != nil {
		verr.Add("date_received", "must be a date (YYYY-MM-DD)")
	} else {
		received = *d
	}

	returned, err := parseDate(input.DateReturnedFromWorkshop)
	if err != nil {
		verr.Add("date_returned_from_workshop", "must be a date (YYYY-MM-DD)")
	}
	delivered, err := parseDate(input.DateDelivered)
	if err != nil {
		verr.Add("date_delivered", "must be a date (YYYY-MM-DD)")
	}

	if input.Price.IsNegative() {
		verr.Add("price", "must not be negative")
	}

	if len(input.Items) == 0 {
		verr.Add("items", "must contain at least one item")
	}

	items := make([]itemDraft, 0, len(input.Items))
	for i, in := range input.Items {
		field := fmt.Sprintf("items[%d]", i)

		if !in.ProductType.IsValid() {
			verr.Add(field+".product_type", "is invalid")
		}

		custom := strings.TrimSpace(in.CustomProductType)
		if in.ProductType == tables.ProductOther && custom == "" {
			verr.Add(field+".custom_product_type", "is required when the type is autre")
		}
		if in.ProductType != tables.ProductOther {
			custom = ""
		}

		if in.WeightGrams != nil && in.WeightGrams.IsNegative() {
			verr.Add(field+".weight_grams", "must not be negative")
		}

		price := decimal.Zero
		if in.ItemPrice != nil {
			price = *in.ItemPrice
		}
		if price.IsNegative() {
			verr.Add(field+".item_price", "must not be negative")
		}

		for _, upload := range in.NewPhotos {
			if !storage.IsAllowedContentType(upload.ContentType) {
				verr.Add(field+".photos", "must be jpeg, png or webp images")
				break
			}
		}

		items = append(items, itemDraft{
			item: tables.Item{
				ProductType:       in.ProductType,
				CustomProductType: custom,
				WeightGrams:       in.WeightGrams,
				Description:       strings.TrimSpace(in.Description),
				ItemPrice:         price,
			},
			keep:    in.ExistingPhotoUrls,
			uploads: in.NewPhotos,
		})
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &repairDraft{
		client: tables.Client{
			FullName: name,
			Phone:    strings.TrimSpace(input.Client.Phone),
		},
		repair: tables.Repair{
			Workshop:                 input.Workshop,
			DateReceived:             received,
			DateReturnedFromWorkshop: returned,
			DateDelivered:            delivered,
			Price:                    input.Price,
			Urgent:                   input.Urgent,
			Status:                   status,
		},
		items: items,
	}, nil
}

// parseDate returns nil for an empty value.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func itemIDs(items []tables.Item) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.Id
	}
	return ids
}

func photoIDs(photos []tables.Photo) []uuid.UUID {
	ids := make([]uuid.UUID, len(photos))
	for i, p := range photos {
		ids[i] = p.Id
	}
	return ids
}
