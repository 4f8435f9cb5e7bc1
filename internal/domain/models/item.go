package models

import (
	"fmt"
	"strings"
	"time"
)

// Category classifies an inventory item.
type Category string

// Known item categories.
const (
	CategoryAccessories Category = "Accessories"
	CategoryElectronics Category = "Electronics"
	CategoryFurniture   Category = "Furniture"
	CategoryPrinting    Category = "Printing"
	CategoryAudio       Category = "Audio"
	CategoryOffice      Category = "Office"
	CategoryStorage     Category = "Storage"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryAccessories,
		CategoryElectronics,
		CategoryFurniture,
		CategoryPrinting,
		CategoryAudio,
		CategoryOffice,
		CategoryStorage,
	}
}

// StockStatus indicates whether an item is currently in stock.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "InStock"
	StockStatusOutOfStock StockStatus = "OutOfStock"
)

// MaxCostPerUnit is the upper bound accepted for an item's unit cost.
const MaxCostPerUnit = 1_000_000

// InventoryItem is a single tracked inventory record. Every item belongs to
// exactly one owner; DisplayID is unique within that owner and immutable once
// assigned.
type InventoryItem struct {
	ID            string      `bson:"_id,omitempty" json:"id"`
	DisplayID     string      `bson:"display_id" json:"displayId"`
	ProductName   string      `bson:"product_name" json:"productName"`
	Category      Category    `bson:"category" json:"category"`
	Supplier      string      `bson:"supplier" json:"supplier"`
	StockStatus   StockStatus `bson:"stock_status" json:"stockStatus"`
	CostPerUnit   float64     `bson:"cost_per_unit" json:"costPerUnit"`
	WarehouseCode string      `bson:"warehouse_code" json:"warehouseCode"`
	LastUpdated   time.Time   `bson:"last_updated" json:"lastUpdated"`
	OwnerID       string      `bson:"owner_id" json:"ownerId"`
}

// SequenceCounter is the per-owner counter document backing display identifier
// allocation. Created lazily on first use, never deleted, never decremented.
type SequenceCounter struct {
	OwnerKey string `bson:"_id"`
	Value    int64  `bson:"value"`
}

// FormatDisplayID renders a sequence number as the human-facing identifier.
// The numeric part is zero-padded to a minimum of three digits and grows
// naturally past 999.
func FormatDisplayID(seq int64) string {
	return fmt.Sprintf("INV-%03d", seq)
}

// CreateItemInput carries the caller-supplied fields for a new item. The
// validator tags are the canonical field rule set shared by the server and the
// client SDK.
type CreateItemInput struct {
	ProductName   string  `json:"productName" validate:"required,max=100"`
	Category      string  `json:"category" validate:"required,oneof=Accessories Electronics Furniture Printing Audio Office Storage"`
	Supplier      string  `json:"supplier" validate:"required,max=100"`
	StockStatus   string  `json:"stockStatus" validate:"omitempty,oneof=InStock OutOfStock"`
	CostPerUnit   float64 `json:"costPerUnit" validate:"required,gt=0,lte=1000000"`
	WarehouseCode string  `json:"warehouseCode" validate:"required,max=20"`
}

// Normalize trims surrounding whitespace and uppercases the warehouse code.
// Runs before validation so the "non-empty after trimming" rules hold.
func (in *CreateItemInput) Normalize() {
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.Category = strings.TrimSpace(in.Category)
	in.Supplier = strings.TrimSpace(in.Supplier)
	in.StockStatus = strings.TrimSpace(in.StockStatus)
	in.WarehouseCode = strings.ToUpper(strings.TrimSpace(in.WarehouseCode))
}

// UpdateItemInput carries a partial patch for an existing item. Only non-nil
// fields are validated and applied. The display identifier is deliberately not
// a patch field; it can never change after creation.
type UpdateItemInput struct {
	ProductName   *string  `json:"productName,omitempty" validate:"omitnil,min=1,max=100"`
	Category      *string  `json:"category,omitempty" validate:"omitnil,oneof=Accessories Electronics Furniture Printing Audio Office Storage"`
	Supplier      *string  `json:"supplier,omitempty" validate:"omitnil,min=1,max=100"`
	StockStatus   *string  `json:"stockStatus,omitempty" validate:"omitnil,oneof=InStock OutOfStock"`
	CostPerUnit   *float64 `json:"costPerUnit,omitempty" validate:"omitnil,gt=0,lte=1000000"`
	WarehouseCode *string  `json:"warehouseCode,omitempty" validate:"omitnil,min=1,max=20"`
}

// Normalize trims and uppercases the fields present in the patch.
func (in *UpdateItemInput) Normalize() {
	if in.ProductName != nil {
		*in.ProductName = strings.TrimSpace(*in.ProductName)
	}
	if in.Category != nil {
		*in.Category = strings.TrimSpace(*in.Category)
	}
	if in.Supplier != nil {
		*in.Supplier = strings.TrimSpace(*in.Supplier)
	}
	if in.StockStatus != nil {
		*in.StockStatus = strings.TrimSpace(*in.StockStatus)
	}
	if in.WarehouseCode != nil {
		*in.WarehouseCode = strings.ToUpper(strings.TrimSpace(*in.WarehouseCode))
	}
}

// Empty reports whether the patch carries no fields at all.
func (in *UpdateItemInput) Empty() bool {
	return in.ProductName == nil &&
		in.Category == nil &&
		in.Supplier == nil &&
		in.StockStatus == nil &&
		in.CostPerUnit == nil &&
		in.WarehouseCode == nil
}
