package structs

import (
	"bijouterie_server/structs/tables"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RepairInput is the full payload of a repair submission. Dates are ISO calendar dates (2006-01-02).
type RepairInput struct {
	Client                   ClientInput         `json:"client"`
	Workshop                 tables.Workshop     `json:"workshop"`
	DateReceived             string              `json:"date_received"`
	DateReturnedFromWorkshop string              `json:"date_returned_from_workshop,omitempty"`
	DateDelivered            string              `json:"date_delivered,omitempty"`
	Price                    decimal.Decimal     `json:"price"`
	Urgent                   bool                `json:"urgent"`
	Status                   tables.RepairStatus `json:"status"`
	Items                    []ItemInput         `json:"items"`
}

type ClientInput struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}

type ItemInput struct {
	ProductType       tables.ProductType `json:"product_type"`
	CustomProductType string             `json:"custom_product_type,omitempty"`
	WeightGrams       *decimal.Decimal   `json:"weight_grams,omitempty"`
	Description       string             `json:"description,omitempty"`
	ItemPrice         *decimal.Decimal   `json:"item_price,omitempty"`
	ExistingPhotoUrls []string           `json:"existing_photo_urls,omitempty"`
	NewPhotos         []PhotoUpload      `json:"-"`
}

// PhotoUpload is a newly attached file, read once during submission.
type PhotoUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type DeleteRepairRequest struct {
	Id string `json:"id"`
}

// RepairSummary is one row of the status, history and recent lists.
type RepairSummary struct {
	Id           uuid.UUID           `json:"id"`
	Reference    string              `json:"reference"`
	ClientName   string              `json:"client_name"`
	ClientPhone  string              `json:"client_phone,omitempty"`
	Workshop     tables.Workshop     `json:"workshop"`
	Status       tables.RepairStatus `json:"status"`
	Urgent       bool                `json:"urgent"`
	Price        decimal.Decimal     `json:"price"`
	DateReceived time.Time           `json:"date_received"`
	ItemCount    int                 `json:"item_count"`
}

type ItemDetail struct {
	tables.Item
	PhotoUrls []string `json:"photo_urls"`
}

// RepairDetail is the full aggregate used by the edit form.
type RepairDetail struct {
	Repair tables.Repair `json:"repair"`
	Client tables.Client `json:"client"`
	Items  []ItemDetail  `json:"items"`
}

type ReceiptLine struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	WeightGrams string          `json:"weight_grams,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

type Receipt struct {
	ShopName     string              `json:"shop_name"`
	Reference    string              `json:"reference"`
	RepairId     uuid.UUID           `json:"repair_id"`
	ClientName   string              `json:"client_name"`
	ClientPhone  string              `json:"client_phone,omitempty"`
	DateReceived time.Time           `json:"date_received"`
	Workshop     tables.Workshop     `json:"workshop"`
	Status       tables.RepairStatus `json:"status"`
	Lines        []ReceiptLine       `json:"lines"`
	Total        decimal.Decimal     `json:"total"`
}

type DashboardStats struct {
	Today       int `json:"today"`
	ThisMonth   int `json:"this_month"`
	ThreeMonths int `json:"three_months"`
	Total       int `json:"total"`
}

type Statistics struct {
	ByStatus   map[tables.RepairStatus]int `json:"by_status"`
	ByWorkshop map[tables.Workshop]int     `json:"by_workshop"`
	Total      int                         `json:"total"`
}

type WhatsAppRequest struct {
	Telephone string `json:"telephone"`
	Message   string `json:"message"`
}
