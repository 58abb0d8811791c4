//go:build integration

package persistence_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/application/upsert"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/apcms"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/record"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/persistence"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/persistence/models"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/persistence/persistencetest"
)

func newPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("apcms_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func TestPostgres_ConcurrentUpsertsConvergeOnOneRow(t *testing.T) {
	db := newPostgres(t)
	societyID, itemID := persistencetest.SeedReferences(t, db)

	repo := persistence.NewGormRecordRepository(db)
	resolver := upsert.NewResolver(repo)
	schema := apcms.MustLookup(apcms.MemberLoanDeposit)

	const writers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		actions = map[upsert.Action]int{}
		ids     = map[any]struct{}{}
		errs    []error
	)
	start := make(chan struct{})
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			out, err := resolver.Resolve(context.Background(), schema, record.Record{
				"entry_date":    "2024-04-01",
				"society_id":    societyID,
				"acc_type":      "LOAN",
				"acc_sub_type":  "KCC",
				"item_id":       itemID,
				"balance_value": "1500.50",
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			actions[out.Action]++
			ids[out.ID] = struct{}{}
		}()
	}
	close(start)
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, 1, actions[upsert.ActionInsert])
	assert.Equal(t, writers-1, actions[upsert.ActionUpdate])
	assert.Len(t, ids, 1)

	var count int64
	require.NoError(t, db.Model(&models.MemberLoanDeposit{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPostgres_SearchJoinsAndFilters(t *testing.T) {
	db := newPostgres(t)
	societyID, itemID := persistencetest.SeedReferences(t, db)

	repo := persistence.NewGormRecordRepository(db)
	resolver := upsert.NewResolver(repo)
	schema := apcms.MustLookup(apcms.SalesPurchase)
	ctx := context.Background()

	for _, rec := range []record.Record{
		{"entry_date": "2024-04-01", "society_id": societyID, "acc_type": "SALES", "acc_sub_type": "RETAIL", "item_id": itemID, "total_qty": 10},
		{"entry_date": "2024-04-02", "society_id": societyID, "acc_type": "SALES", "acc_sub_type": "RETAIL", "item_id": itemID, "total_qty": 12},
		{"entry_date": "2024-04-03", "society_id": societyID, "acc_type": "PURCHASE", "acc_sub_type": "BULK", "item_id": itemID, "total_qty": 40},
	} {
		_, err := resolver.Resolve(ctx, schema, rec)
		require.NoError(t, err)
	}

	page, err := repo.Search(ctx, schema, record.Query{
		Criteria: record.Criteria{
			"type":       "SALES",
			"society_id": "all",
			"startdate":  "2024-04-02",
			"enddate":    "2024-04-02",
		},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Alpha Coop", page.Rows[0]["society_name"])
	assert.Equal(t, "Paddy", page.Rows[0]["item_name"])
}
