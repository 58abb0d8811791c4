package apcms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/record"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{
		GodownUtilization, ItemMaster, Marketing, MemberLoanDeposit, SalesPurchase, SocietyMaster,
	}, Names())

	for _, name := range Names() {
		s := MustLookup(name)
		assert.NoError(t, s.Validate(), name)
		assert.True(t, s.FreshRead, name)
	}

	_, ok := Lookup("ledger")
	assert.False(t, ok)
}

func TestTransactionalSchemas(t *testing.T) {
	for _, name := range []string{MemberLoanDeposit, SalesPurchase, Marketing, GodownUtilization} {
		s := MustLookup(name)
		assert.Equal(t, []string{"entry_date", "society_id", "acc_type", "acc_sub_type", "item_id"}, s.Key, name)
		assert.Equal(t, s.Key, s.Required, name)
		assert.True(t, s.Joined(), name)
		for _, m := range s.Mutable {
			assert.False(t, s.IsKey(m), name)
		}
	}

	assert.Equal(t, record.PolicyNoOp, MustLookup(GodownUtilization).Policy)
	assert.Equal(t, record.PolicyUpdate, MustLookup(Marketing).Policy)
}

func TestSocietyMasterDefaultsStatus(t *testing.T) {
	s := MustLookup(SocietyMaster)
	rec, err := s.Normalize(record.Record{"society_name": "Alpha Coop", "society_code": "ALP01"})
	require.NoError(t, err)

	values := s.InsertValues(rec, time.Now())
	assert.Equal(t, "active", values["status"])
	assert.Equal(t, "ALP01", values["society_code"])
}

func TestMemberLoanDepositRejectsSalesType(t *testing.T) {
	s := MustLookup(MemberLoanDeposit)
	_, err := s.Normalize(record.Record{
		"entry_date": "2024-01-05", "society_id": 1, "acc_type": "SALES", "acc_sub_type": "KCC", "item_id": 2,
	})
	assert.Error(t, err)
}
