package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Client struct {
	bun.BaseModel `bun:"table:clients,alias:c"`
	Id        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	FullName  string    `bun:"full_name,notnull" json:"full_name"`
	Phone     string    `bun:"phone,nullzero" json:"phone,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

type Repair struct {
	bun.BaseModel `bun:"table:repairs,alias:r"`
	Id        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Reference string    `bun:"reference,notnull,unique" json:"reference"`
	ClientId  uuid.UUID `bun:"client_id,notnull,type:uuid" json:"client_id"`
	Workshop  Workshop  `bun:"workshop,notnull" json:"workshop"`

	DateReceived             time.Time  `bun:"date_received,notnull,type:date" json:"date_received"`
	DateReturnedFromWorkshop *time.Time `bun:"date_returned_from_workshop,type:date,nullzero" json:"date_returned_from_workshop,omitempty"`
	DateDelivered            *time.Time `bun:"date_delivered,type:date,nullzero" json:"date_delivered,omitempty"`

	Price     decimal.Decimal `bun:"price,notnull,type:numeric(12,2)" json:"price"`
	Urgent    bool            `bun:"urgent,notnull" json:"urgent"`
	Status    RepairStatus    `bun:"status,notnull" json:"status"`
	CreatedBy uuid.UUID       `bun:"created_by,notnull,type:uuid" json:"created_by"`
	CreatedAt time.Time       `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time       `bun:"updated_at,notnull" json:"updated_at"`
}

// Item is one jewelry piece ("bijou") deposited within a repair.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`
	Id                uuid.UUID        `bun:"id,pk,type:uuid" json:"id"`
	RepairId          uuid.UUID        `bun:"repair_id,notnull,type:uuid" json:"repair_id"`
	ProductType       ProductType      `bun:"product_type,notnull" json:"product_type"`
	CustomProductType string           `bun:"custom_product_type,nullzero" json:"custom_product_type,omitempty"`
	WeightGrams       *decimal.Decimal `bun:"weight_grams,type:numeric(10,2)" json:"weight_grams,omitempty"`
	Description       string           `bun:"description,nullzero" json:"description,omitempty"`
	ItemPrice         decimal.Decimal  `bun:"item_price,notnull,type:numeric(12,2)" json:"item_price"`
	CreatedAt         time.Time        `bun:"created_at,notnull" json:"created_at"`
}

// DisplayType is the label shown on lists and receipts.
func (i *Item) DisplayType() string {
	if i.ProductType == ProductOther && i.CustomProductType != "" {
		return i.CustomProductType
	}
	return string(i.ProductType)
}

type Photo struct {
	bun.BaseModel `bun:"table:photos,alias:p"`
	Id          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	ItemId      uuid.UUID `bun:"item_id,notnull,type:uuid" json:"item_id"`
	StoragePath string    `bun:"storage_path,notnull" json:"storage_path"`
	PublicUrl   string    `bun:"public_url,notnull" json:"public_url"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`
}
