package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemMaster maps apcms_item_master.
type ItemMaster struct {
	ItemID   int64  `gorm:"column:item_id;primaryKey;autoIncrement"`
	ItemCode string `gorm:"column:item_code;size:50;not null;uniqueIndex:uk_apcms_item_master_code"`
	Category string `gorm:"column:category;size:100;not null"`
	ItemName string `gorm:"column:item_name;size:200;not null"`
}

// TableName implements gorm's Tabler.
func (ItemMaster) TableName() string { return "apcms_item_master" }

// SocietyMaster maps apcms_society_master.
type SocietyMaster struct {
	SocietyID   int64  `gorm:"column:society_id;primaryKey;autoIncrement"`
	SocietyCode string `gorm:"column:society_code;size:50;not null;uniqueIndex:uk_apcms_society_master_code"`
	SocietyName string `gorm:"column:society_name;size:200;not null"`
	Status      string `gorm:"column:status;size:20;not null;default:active"`
}

// TableName implements gorm's Tabler.
func (SocietyMaster) TableName() string { return "apcms_society_master" }

// TransactionKey is the natural key shared by every transactional table.
type TransactionKey struct {
	RowID       int64     `gorm:"column:row_id;primaryKey;autoIncrement"`
	EntryDate   time.Time `gorm:"column:entry_date;type:timestamp;not null;index:,unique,composite:natural_key,priority:1"`
	SocietyID   int64     `gorm:"column:society_id;not null;index:,unique,composite:natural_key,priority:2"`
	AccType     string    `gorm:"column:acc_type;size:20;not null;index:,unique,composite:natural_key,priority:3"`
	AccSubType  string    `gorm:"column:acc_sub_type;size:50;not null;index:,unique,composite:natural_key,priority:4"`
	ItemID      int64     `gorm:"column:item_id;not null;index:,unique,composite:natural_key,priority:5"`
	SystemName  *string   `gorm:"column:system_name;size:100"`
	CreatedDate time.Time `gorm:"column:created_date;type:timestamp"`
}

// MemberLoanDeposit maps apcms_member_loan_deposit.
type MemberLoanDeposit struct {
	TransactionKey
	MemberCount    decimal.Decimal `gorm:"column:member_count;type:decimal(18,3);not null;default:0"`
	OpeningQty     decimal.Decimal `gorm:"column:opening_qty;type:decimal(18,3);not null;default:0"`
	IssuedQty      decimal.Decimal `gorm:"column:issued_qty;type:decimal(18,3);not null;default:0"`
	CollectedQty   decimal.Decimal `gorm:"column:collected_qty;type:decimal(18,3);not null;default:0"`
	BalanceQty     decimal.Decimal `gorm:"column:balance_qty;type:decimal(18,3);not null;default:0"`
	OpeningValue   decimal.Decimal `gorm:"column:opening_value;type:decimal(18,2);not null;default:0"`
	IssuedValue    decimal.Decimal `gorm:"column:issued_value;type:decimal(18,2);not null;default:0"`
	CollectedValue decimal.Decimal `gorm:"column:collected_value;type:decimal(18,2);not null;default:0"`
	BalanceValue   decimal.Decimal `gorm:"column:balance_value;type:decimal(18,2);not null;default:0"`
}

// TableName implements gorm's Tabler.
func (MemberLoanDeposit) TableName() string { return "apcms_member_loan_deposit" }

// SalesPurchase maps apcms_sales_purchase.
type SalesPurchase struct {
	TransactionKey
	TotalQty    decimal.Decimal `gorm:"column:total_qty;type:decimal(18,3);not null;default:0"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(18,2);not null;default:0"`
}

// TableName implements gorm's Tabler.
func (SalesPurchase) TableName() string { return "apcms_sales_purchase" }

// Marketing maps apcms_marketing.
type Marketing struct {
	TransactionKey
	NoOfLots    decimal.Decimal `gorm:"column:no_of_lots;type:decimal(18,3);not null;default:0"`
	TotalQty    decimal.Decimal `gorm:"column:total_qty;type:decimal(18,3);not null;default:0"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(18,2);not null;default:0"`
}

// TableName implements gorm's Tabler.
func (Marketing) TableName() string { return "apcms_marketing" }

// GodownUtilization maps apcms_godown_utilization.
type GodownUtilization struct {
	TransactionKey
	NoOfBags   decimal.Decimal `gorm:"column:no_of_bags;type:decimal(18,3);not null;default:0"`
	QuantityKg decimal.Decimal `gorm:"column:quantity_kg;type:decimal(18,3);not null;default:0"`
	CapacityKg decimal.Decimal `gorm:"column:capacity_kg;type:decimal(18,3);not null;default:0"`
}

// TableName implements gorm's Tabler.
func (GodownUtilization) TableName() string { return "apcms_godown_utilization" }

// All returns one zero value per table, reference tables first.
func All() []any {
	return []any{
		&ItemMaster{},
		&SocietyMaster{},
		&MemberLoanDeposit{},
		&SalesPurchase{},
		&Marketing{},
		&GodownUtilization{},
	}
}
