package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker not available, skipping dao tests: %v", err)
		os.Exit(0)
	}

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_USER=postgres",
		"POSTGRES_PASSWORD=secret",
		"POSTGRES_DB=stockchat_test",
	})
	if err != nil {
		log.Fatalf("could not start postgres: %v", err)
	}

	if err = pool.Retry(func() error {
		dsn := fmt.Sprintf(
			"host=localhost port=%s user=postgres password=secret dbname=stockchat_test sslmode=disable",
			resource.GetPort("5432/tcp"),
		)
		db, openErr := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if openErr != nil {
			return openErr
		}
		sqlDB, openErr := db.DB()
		if openErr != nil {
			return openErr
		}
		if openErr = sqlDB.Ping(); openErr != nil {
			return openErr
		}
		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("could not purge resource: %v", err)
	}
	os.Exit(code)
}

func newTestDAO(t *testing.T) *LedgerDAO {
	t.Helper()

	tables := []string{
		"sales", "shipments", "network_stocks", "prompt_flags",
		"processed_messages", "plans_monthly", "people_last_sale",
		"product_aliases", "products", "network_meta",
	}
	for _, table := range tables {
		require.NoError(t, testDB.Exec("TRUNCATE TABLE "+table+" CASCADE").Error)
	}

	return NewLedgerDAO(testDB)
}

func mustInsertProduct(t *testing.T, d *LedgerDAO, name string) Product {
	t.Helper()

	p, err := d.InsertProduct(context.Background(), Product{Name: name})
	require.NoError(t, err)

	return p
}

func TestMarkMessageProcessed(t *testing.T) {
	d := newTestDAO(t)
	ctx := context.Background()

	seen, err := d.MarkMessageProcessed(ctx, "m1", time.Now())
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = d.MarkMessageProcessed(ctx, "m1", time.Now())
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = d.MarkMessageProcessed(ctx, "m2", time.Now())
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestPromptNeededToday(t *testing.T) {
	d := newTestDAO(t)
	ctx := context.Background()

	need, err := d.PromptNeededToday(ctx, "alpha", "2026-09-01", "negative")
	require.NoError(t, err)
	assert.True(t, need)

	need, err = d.PromptNeededToday(ctx, "alpha", "2026-09-01", "negative")
	require.NoError(t, err)
	assert.False(t, need)

	// Other networks and other days throttle independently.
	need, err = d.PromptNeededToday(ctx, "beta", "2026-09-01", "negative")
	require.NoError(t, err)
	assert.True(t, need)

	need, err = d.PromptNeededToday(ctx, "alpha", "2026-09-02", "negative")
	require.NoError(t, err)
	assert.True(t, need)

	require.NoError(t, d.ClearPromptFlags(ctx, "alpha", "2026-09-01"))

	need, err = d.PromptNeededToday(ctx, "alpha", "2026-09-01", "negative")
	require.NoError(t, err)
	assert.True(t, need)
}

func TestAddStockDelta(t *testing.T) {
	d := newTestDAO(t)
	ctx := context.Background()
	p := mustInsertProduct(t, d, "reno 11f")

	qty, err := d.AddStockDelta(ctx, "alpha", p.ID, 128, -3)
	require.NoError(t, err)
	assert.Equal(t, -3, qty)

	qty, err = d.AddStockDelta(ctx, "alpha", p.ID, 128, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)

	// Cells are keyed by capacity too.
	qty, err = d.AddStockDelta(ctx, "alpha", p.ID, 256, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, qty)
}

func TestReplaceStockSnapshot(t *testing.T) {
	d := newTestDAO(t)
	ctx := context.Background()
	reno := mustInsertProduct(t, d, "reno 11f")
	redmi := mustInsertProduct(t, d, "redmi 12")

	_, err := d.AddStockDelta(ctx, "alpha", reno.ID, 128, -2)
	require.NoError(t, err)

	need, err := d.PromptNeededToday(ctx, "alpha", "2026-09-01", "negative")
	require.NoError(t, err)
	require.True(t, need)

	err = d.ReplaceStockSnapshot(ctx, "alpha", "2026-09-01", []NetworkStock{
		{ProductID: reno.ID, MemoryGB: 128, Qty: 5},
		{ProductID: redmi.ID, MemoryGB: 256, Qty: 3},
	})
	require.NoError(t, err)

	initialized, err := d.IsNetworkInitialized(ctx, "alpha")
	require.NoError(t, err)
	assert.True(t, initialized)

	rows, err := d.StockTable(ctx, "alpha")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, StockTableRow{ProductID: redmi.ID, Name: "redmi 12", MemoryGB: 256, Qty: 3}, rows[0])
	assert.Equal(t, StockTableRow{ProductID: reno.ID, Name: "reno 11f", MemoryGB: 128, Qty: 5}, rows[1])

	// The day's prompt flag went away with the snapshot.
	need, err = d.PromptNeededToday(ctx, "alpha", "2026-09-01", "negative")
	require.NoError(t, err)
	assert.True(t, need)
}

func TestEnsureNetworkKeepsKnownMeta(t *testing.T) {
	d := newTestDAO(t)
	ctx := context.Background()

	require.NoError(t, d.EnsureNetwork(ctx, "alpha", "Almaty", "Abay 10"))
	require.NoError(t, d.EnsureNetwork(ctx, "alpha", "", ""))

	var meta NetworkMeta
	require.NoError(t, testDB.First(&meta, "network = ?", "alpha").Error)
	assert.Equal(t, "Almaty", meta.City)
	assert.Equal(t, "Abay 10", meta.Address)
	assert.False(t, meta.Initialized)

	initialized, err := d.IsNetworkInitialized(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, initialized)
}

func TestGetCandidates(t *testing.T) {
	d := newTestDAO(t)
	ctx := context.Background()
	reno := mustInsertProduct(t, d, "reno 11f")
	redmi := mustInsertProduct(t, d, "redmi 12")
	require.NoError(t, d.InsertAlias(ctx, reno.ID, "реношка"))

	_, err := d.AddStockDelta(ctx, "alpha", reno.ID, 256, 1)
	require.NoError(t, err)
	_, err = d.AddStockDelta(ctx, "alpha", reno.ID, 128, 2)
	require.NoError(t, err)
	_, err = d.AddStockDelta(ctx, "beta", redmi.ID, 128, 4)
	require.NoError(t, err)

	stock, err := d.GetStockCandidates(ctx, "alpha")
	require.NoError(t, err)
	require.Len(t, stock, 2)
	assert.Equal(t, CandidateRow{ProductID: reno.ID, Name: "reno 11f", MemoryGB: 128}, stock[0])
	assert.Equal(t, CandidateRow{ProductID: reno.ID, Name: "reno 11f", MemoryGB: 256}, stock[1])

	catalog, err := d.GetCatalogCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 3)
	assert.Equal(t, "reno 11f", catalog[0].Name)
	assert.Equal(t, "redmi 12", catalog[1].Name)
	assert.Equal(t, CandidateRow{ProductID: reno.ID, Name: "реношка"}, catalog[2])
}

func TestSalesTotalsByNetwork(t *testing.T) {
	d := newTestDAO(t)
	ctx := context.Background()
	p := mustInsertProduct(t, d, "reno 11f")

	insert := func(network, day string, qty int) {
		require.NoError(t, d.InsertSale(ctx, Sale{
			OccurredAt: time.Now(),
			Day:        day,
			Person:     "madina",
			Network:    network,
			ProductID:  p.ID,
			MemoryGB:   128,
			Qty:        qty,
		}))
	}

	insert("alpha", "2026-09-01", 2)
	insert("alpha", "2026-09-02", 3)
	insert("beta", "2026-09-01", 1)
	insert("alpha", "2026-09-03", 10) // outside [from, to)

	totals, err := d.SalesTotalsByNetwork(ctx, "2026-09-01", "2026-09-03", "")
	require.NoError(t, err)
	assert.Equal(t, []NetworkTotal{{Network: "alpha", Qty: 5}, {Network: "beta", Qty: 1}}, totals)

	totals, err = d.SalesTotalsByNetwork(ctx, "2026-09-01", "2026-09-03", "beta")
	require.NoError(t, err)
	assert.Equal(t, []NetworkTotal{{Network: "beta", Qty: 1}}, totals)
}

func TestMonthlyPlans(t *testing.T) {
	d := newTestDAO(t)
	ctx := context.Background()

	require.NoError(t, d.UpsertMonthlyPlan(ctx, "alpha", "2026-09", 80))
	require.NoError(t, d.UpsertMonthlyPlan(ctx, "alpha", "2026-09", 100))
	require.NoError(t, d.UpsertMonthlyPlan(ctx, "beta", "2026-10", 50))

	plans, err := d.GetMonthlyPlans(ctx, "2026-09")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, MonthlyPlan{Network: "alpha", YearMonth: "2026-09", Plan: 100}, plans[0])
}

func TestStaleSellers(t *testing.T) {
	d := newTestDAO(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, d.TouchLastSale(ctx, "madina", "alpha", now.AddDate(0, 0, -10)))
	require.NoError(t, d.TouchLastSale(ctx, "aruzhan", "alpha", now))
	require.NoError(t, d.TouchLastSale(ctx, "madina", "beta", now.AddDate(0, 0, -9)))

	rows, err := d.StaleSellers(ctx, now.AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "madina", rows[0].Person)
	assert.Equal(t, "beta", rows[0].Network)
}

func TestInsertProductAndAlias(t *testing.T) {
	d := newTestDAO(t)
	ctx := context.Background()

	p := mustInsertProduct(t, d, "reno 11f")
	assert.NotZero(t, p.ID)

	_, err := d.InsertProduct(ctx, Product{Name: "reno 11f"})
	assert.ErrorIs(t, err, ErrProductExists)

	err = d.InsertAlias(ctx, p.ID+100, "реношка")
	assert.ErrorIs(t, err, ErrProductNotFound)

	require.NoError(t, d.InsertAlias(ctx, p.ID, "реношка"))
}
