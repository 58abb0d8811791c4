// Package apcms declares the cooperative-society entities served by the API.
package apcms

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/record"
)

// Entity names, as used in routes and the last-record lookup.
const (
	ItemMaster        = "item_master"
	SocietyMaster     = "society_master"
	MemberLoanDeposit = "member_loan_deposit"
	SalesPurchase     = "sales_purchase"
	Marketing         = "marketing"
	GodownUtilization = "godown_utilization"
)

// Account types per transactional family.
var (
	MemberLoanDepositTypes = []string{"MEMBER", "LOAN", "DEPOSIT"}
	SalesPurchaseTypes     = []string{"SALES", "PURCHASE"}
)

// Reference tables and their id columns.
const (
	itemTable    = "apcms_item_master"
	societyTable = "apcms_society_master"
)

// transactionalKey is shared by every transactional family.
var transactionalKey = []string{"entry_date", "society_id", "acc_type", "acc_sub_type", "item_id"}

var referenceJoins = []record.Join{
	{Table: societyTable, Alias: "s", LocalColumn: "society_id", ForeignColumn: "society_id", Columns: []string{"society_name", "society_code"}},
	{Table: itemTable, Alias: "i", LocalColumn: "item_id", ForeignColumn: "item_id", Columns: []string{"item_name", "item_code", "category"}},
}

var transactionalFilters = record.FilterSpec{
	Exact: []record.ExactFilter{
		{Param: "type", Column: "acc_type"},
		{Param: "society_id", Column: "society_id", AllowAll: true},
		{Param: "item_id", Column: "item_id", AllowAll: true},
		{Param: "acc_sub_type", Column: "acc_sub_type"},
	},
	Ranges: []record.RangeFilter{
		{FromParam: "startdate", ToParam: "enddate", Column: "entry_date"},
	},
}

func amount(name string) record.Field {
	return record.Field{Name: name, Kind: record.KindNumber, Default: decimal.Zero}
}

func transactional(name, table string, accTypes []string, policy record.Policy, measures ...string) *record.Schema {
	fields := []record.Field{
		{Name: "entry_date", Kind: record.KindDateTime},
		{Name: "society_id", Kind: record.KindInteger},
		{Name: "acc_type", Kind: record.KindString, Enum: accTypes},
		{Name: "acc_sub_type", Kind: record.KindString},
		{Name: "item_id", Kind: record.KindInteger},
	}
	mutable := make([]string, 0, len(measures)+1)
	for _, m := range measures {
		fields = append(fields, amount(m))
		mutable = append(mutable, m)
	}
	fields = append(fields, record.Field{Name: "system_name", Kind: record.KindString})
	mutable = append(mutable, "system_name")

	return &record.Schema{
		Name:          name,
		Table:         table,
		IDColumn:      "row_id",
		Fields:        fields,
		Key:           transactionalKey,
		Required:      transactionalKey,
		Mutable:       mutable,
		Policy:        policy,
		FreshRead:     true,
		Joins:         referenceJoins,
		CreatedColumn: "created_date",
		OrderBy:       "row_id",
		Filters:       transactionalFilters,
	}
}

var registry = map[string]*record.Schema{
	ItemMaster: {
		Name:     ItemMaster,
		Table:    itemTable,
		IDColumn: "item_id",
		Fields: []record.Field{
			{Name: "item_code", Kind: record.KindString},
			{Name: "category", Kind: record.KindString},
			{Name: "item_name", Kind: record.KindString},
		},
		Key:       []string{"item_code"},
		Required:  []string{"item_code", "category", "item_name"},
		Mutable:   []string{"category", "item_name"},
		Policy:    record.PolicyUpdate,
		FreshRead: true,
		OrderBy:   "item_id",
		Filters: record.FilterSpec{
			Exact: []record.ExactFilter{{Param: "category", Column: "category"}},
		},
	},
	SocietyMaster: {
		Name:     SocietyMaster,
		Table:    societyTable,
		IDColumn: "society_id",
		Fields: []record.Field{
			{Name: "society_code", Kind: record.KindString},
			{Name: "society_name", Kind: record.KindString},
			{Name: "status", Kind: record.KindString, Default: "active"},
		},
		Key:       []string{"society_code"},
		Required:  []string{"society_name", "society_code"},
		Mutable:   []string{"society_name", "status"},
		Policy:    record.PolicyUpdate,
		FreshRead: true,
		OrderBy:   "society_name",
		Filters: record.FilterSpec{
			Exact: []record.ExactFilter{{Param: "status", Column: "status"}},
		},
	},
	MemberLoanDeposit: transactional(MemberLoanDeposit, "apcms_member_loan_deposit", MemberLoanDepositTypes, record.PolicyUpdate,
		"member_count",
		"opening_qty", "issued_qty", "collected_qty", "balance_qty",
		"opening_value", "issued_value", "collected_value", "balance_value",
	),
	SalesPurchase: transactional(SalesPurchase, "apcms_sales_purchase", SalesPurchaseTypes, record.PolicyUpdate,
		"total_qty", "total_amount",
	),
	Marketing: transactional(Marketing, "apcms_marketing", nil, record.PolicyUpdate,
		"no_of_lots", "total_qty", "total_amount",
	),
	GodownUtilization: transactional(GodownUtilization, "apcms_godown_utilization", nil, record.PolicyNoOp,
		"no_of_bags", "quantity_kg", "capacity_kg",
	),
}

func init() {
	for name, s := range registry {
		if err := s.Validate(); err != nil {
			panic(fmt.Sprintf("apcms: invalid schema %s: %v", name, err))
		}
	}
}

// Lookup returns the schema registered under name.
func Lookup(name string) (*record.Schema, bool) {
	s, ok := registry[name]
	return s, ok
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) *record.Schema {
	s, ok := registry[name]
	if !ok {
		panic("apcms: unknown entity " + name)
	}
	return s
}

// Names lists the registered entities in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
