package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/marlowpress/storefront-backend/pkg/enums"
)

// OrderItem is the per-edition snapshot stored with an order.
type OrderItem struct {
	EditionID      string            `json:"editionId"`
	DocumentID     string            `json:"documentId"`
	EditionType    enums.EditionType `json:"editionType"`
	Quantity       int               `json:"quantity"`
	PrintSize      enums.PrintSize   `json:"printSize"`
	NumPages       []int             `json:"numPages"`
	Title          string            `json:"title"`
	Author         string            `json:"author"`
	DisplayTitle   string            `json:"displayTitle"`
	UnitPriceCents int               `json:"unitPriceCents"`
}

// OrderItems serializes as a JSON column.
type OrderItems []OrderItem

// Order persists one completed checkout. The primary key is the
// client-generated order id, which is what makes creation idempotent:
// resubmitting the same id cannot produce a second row.
type Order struct {
	ID                 uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Email              string               `gorm:"column:email;not null"`
	AddressName        string               `gorm:"column:address_name;not null"`
	AddressStreet      string               `gorm:"column:address_street;not null"`
	AddressStreet2     string               `gorm:"column:address_street2"`
	AddressCity        string               `gorm:"column:address_city;not null"`
	AddressState       string               `gorm:"column:address_state;not null"`
	AddressCountry     string               `gorm:"column:address_country;not null"`
	AddressZip         string               `gorm:"column:address_zip;not null"`
	AmountCents        int                  `gorm:"column:amount_cents;not null"`
	ShippingCents      int                  `gorm:"column:shipping_cents;not null"`
	TaxesCents         int                  `gorm:"column:taxes_cents;not null"`
	CCFeeOffsetCents   int                  `gorm:"column:cc_fee_offset_cents;not null"`
	PaymentID          string               `gorm:"column:payment_id;not null"`
	ShippingLevel      enums.ShippingLevel  `gorm:"column:shipping_level;not null"`
	Lang               string               `gorm:"column:lang;not null;default:'en'"`
	Source             enums.OrderSource    `gorm:"column:source;not null"`
	PrintJobStatus     enums.PrintJobStatus `gorm:"column:print_job_status;not null;default:'pending'"`
	PrintJobID         *int64               `gorm:"column:print_job_id"`
	FreeOrderRequestID *uuid.UUID           `gorm:"column:free_order_request_id;type:uuid"`
	Items              OrderItems           `gorm:"column:items;type:jsonb;serializer:json"`
	CreatedAt          time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
