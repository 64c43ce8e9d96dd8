package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an operator account with access to the reconciliation backoffice.
type User struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Email             string     `db:"email" json:"email"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	FullName          string     `db:"full_name" json:"full_name"`
	Role              UserRole   `db:"role" json:"role"`
	IsActive          bool       `db:"is_active" json:"is_active"`
	ResetTokenHash    *string    `db:"reset_token_hash" json:"-"`
	ResetTokenExpires *time.Time `db:"reset_token_expires" json:"-"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// TariffEntry is one row of the commercial tariff catalog. A route is keyed
// by client, origin, destination and material; unit prices are per tonne
// without IGV, with the taxed columns kept alongside for reporting.
type TariffEntry struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Client           string    `db:"client" json:"client"`
	Origin           string    `db:"origin" json:"origin"`
	Destination      string    `db:"destination" json:"destination"`
	Material         string    `db:"material" json:"material"`
	SellUnitPrice    *float64  `db:"sell_unit_price" json:"sell_unit_price"`
	SellUnitPriceIGV *float64  `db:"sell_unit_price_igv" json:"sell_unit_price_igv"`
	SellCurrency     string    `db:"sell_currency" json:"sell_currency"`
	CostUnitPrice    *float64  `db:"cost_unit_price" json:"cost_unit_price"`
	CostUnitPriceIGV *float64  `db:"cost_unit_price_igv" json:"cost_unit_price_igv"`
	CostCurrency     string    `db:"cost_currency" json:"cost_currency"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// VehicleUnit is a registered transport unit. CarrierName is the company
// operating the unit and is copied onto waybills matched to the plate.
type VehicleUnit struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	Plate       string        `db:"plate" json:"plate"`
	CarrierName string        `db:"carrier_name" json:"carrier_name"`
	Status      VehicleStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// Waybill is a reconciled transport document. Nullable fields stay nil when
// neither the extractor nor the catalog could supply a trustworthy value.
type Waybill struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	FileKey      string        `db:"file_key" json:"file_key"`
	OriginalName string        `db:"original_name" json:"original_name"`
	Status       ParsingStatus `db:"status" json:"status"`

	Code           *string  `db:"code" json:"code"`
	IssueDate      *string  `db:"issue_date" json:"issue_date"`
	Month          *string  `db:"month" json:"month"`
	Week           *string  `db:"week" json:"week"`
	DriverName     *string  `db:"driver_name" json:"driver_name"`
	Plate          *string  `db:"plate" json:"plate"`
	CarrierName    *string  `db:"carrier_name" json:"carrier_name"`
	GrossWeight    *float64 `db:"gross_weight" json:"gross_weight"`
	ReceivedWeight *float64 `db:"received_weight" json:"received_weight"`
	SenderCode     *string  `db:"sender_code" json:"sender_code"`
	Client         *string  `db:"client" json:"client"`
	Origin         *string  `db:"origin" json:"origin"`
	Destination    *string  `db:"destination" json:"destination"`
	Material       *string  `db:"material" json:"material"`

	UnitPrice    *float64 `db:"unit_price" json:"unit_price"`
	Currency     *string  `db:"currency" json:"currency"`
	FinalPrice   *float64 `db:"final_price" json:"final_price"`
	UnitCost     *float64 `db:"unit_cost" json:"unit_cost"`
	CostCurrency *string  `db:"cost_currency" json:"cost_currency"`
	FinalCost    *float64 `db:"final_cost" json:"final_cost"`
	Margin       *float64 `db:"margin" json:"margin"`

	VehicleID         *uuid.UUID `db:"vehicle_id" json:"vehicle_id"`
	PlateUnregistered bool       `db:"plate_unregistered" json:"plate_unregistered"`
	TariffMissing     bool       `db:"tariff_missing" json:"tariff_missing"`
	Voided            bool       `db:"voided" json:"voided"`

	UploadedBy uuid.UUID  `db:"uploaded_by" json:"uploaded_by"`
	UpdatedBy  *uuid.UUID `db:"updated_by" json:"updated_by"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// CarrierNameCount is a historical carrier or driver name with the number of
// accepted waybills carrying it. Higher counts win resolution ties.
type CarrierNameCount struct {
	Name  string `db:"name" json:"name"`
	Count int    `db:"count" json:"count"`
}

// PlateCount is a historical plate with its accepted-waybill frequency.
type PlateCount struct {
	Plate string `db:"plate" json:"plate"`
	Count int    `db:"count" json:"count"`
}

// WaybillFilter narrows waybill listings. Zero values mean no constraint.
type WaybillFilter struct {
	Client   string
	Origin   string
	Month    string
	Status   ParsingStatus
	Voided   *bool
	Page     int
	PageSize int
}
