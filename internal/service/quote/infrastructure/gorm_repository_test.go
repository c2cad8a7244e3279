package infrastructure

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"quoteengine/internal/service/quote/domain"
)

var storeNow = time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC)

// newSQLiteStore 使用内存 sqlite，表结构与 MySQL 一样来自 AutoMigrate
func newSQLiteStore(t *testing.T) (*GormPricingStore, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: 每个连接是独立的库
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(AllModels()...))

	store := NewGormPricingStore(db, 0)
	store.now = func() time.Time { return storeNow }
	return store, db
}

// deactivate 绕开 active 列的 default:true，GORM 创建时会忽略零值
func deactivate(t *testing.T, db *gorm.DB, model any) {
	t.Helper()
	require.NoError(t, db.Model(model).Update("active", false).Error)
}

func validAt(t time.Time) sql.NullTime { return sql.NullTime{Time: t, Valid: true} }

func TestGormPricingStore_FindRate(t *testing.T) {
	store, db := newSQLiteStore(t)
	ctx := context.Background()

	_, err := store.FindRate(ctx, domain.ServiceJunkRemoval, domain.TierHalf)
	assert.ErrorIs(t, err, domain.ErrRateNotFound)

	require.NoError(t, db.Create(&PricingRateModel{ServiceType: "junk_removal", Tier: "half", BaseRate: 349}).Error)
	stale := &PricingRateModel{ServiceType: "junk_removal", Tier: "half", BaseRate: 999}
	require.NoError(t, db.Create(stale).Error)
	deactivate(t, db, stale)

	rate, err := store.FindRate(ctx, domain.ServiceJunkRemoval, domain.TierHalf)
	require.NoError(t, err)
	assert.Equal(t, &domain.Rate{ServiceType: domain.ServiceJunkRemoval, Tier: domain.TierHalf, BaseRate: 349}, rate)

	_, err = store.FindRate(ctx, domain.ServiceJunkRemoval, domain.TierFull)
	assert.ErrorIs(t, err, domain.ErrRateNotFound)
}

func TestGormPricingStore_CurrentSurgeMultiplier(t *testing.T) {
	store, db := newSQLiteStore(t)
	ctx := context.Background()

	// 没有任何行时 MAX 为 NULL
	m, err := store.CurrentSurgeMultiplier(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, m)

	require.NoError(t, db.Create(&SurgeModifierModel{Reason: "off-peak", Multiplier: 0.8}).Error)
	m, err = store.CurrentSurgeMultiplier(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, m, "multipliers below 1 never discount")

	require.NoError(t, db.Create(&SurgeModifierModel{
		Reason:     "holiday",
		Multiplier: 1.5,
		StartsAt:   validAt(storeNow.Add(-time.Hour)),
		EndsAt:     validAt(storeNow.Add(time.Hour)),
	}).Error)
	require.NoError(t, db.Create(&SurgeModifierModel{
		Reason:     "expired storm",
		Multiplier: 3,
		StartsAt:   validAt(storeNow.Add(-48 * time.Hour)),
		EndsAt:     validAt(storeNow.Add(-24 * time.Hour)),
	}).Error)
	paused := &SurgeModifierModel{Reason: "paused", Multiplier: 2}
	require.NoError(t, db.Create(paused).Error)
	deactivate(t, db, paused)

	m, err = store.CurrentSurgeMultiplier(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.5, m)
}

func TestGormPricingStore_FindPromoCode(t *testing.T) {
	store, db := newSQLiteStore(t)
	ctx := context.Background()

	_, err := store.FindPromoCode(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrPromoNotFound)

	require.NoError(t, db.Create(&PromoCodeModel{
		Code:           "SPRING25",
		DiscountType:   "percent",
		DiscountAmount: 25,
		AppOnly:        true,
		ValidUntil:     validAt(storeNow.Add(30 * 24 * time.Hour)),
		MaxUses:        100,
	}).Error)

	promo, err := store.FindPromoCode(ctx, " spring25 ")
	require.NoError(t, err)
	assert.Equal(t, "SPRING25", promo.Code)
	assert.Equal(t, domain.DiscountPercent, promo.DiscountType)
	assert.True(t, promo.Active)
	assert.True(t, promo.AppOnly)
	assert.Nil(t, promo.ValidFrom)
	require.NotNil(t, promo.ValidUntil)
	assert.True(t, promo.ValidUntil.Equal(storeNow.Add(30*24*time.Hour)))
}

func TestGormPricingStore_CustomerHistory(t *testing.T) {
	store, db := newSQLiteStore(t)
	ctx := context.Background()

	first, err := store.IsFirstTimeCustomer(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, first)

	used, err := store.HasRedeemedPromo(ctx, 7, "u-1")
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, db.Create(&ServiceRequestModel{UserID: "u-1", ServiceType: "junk_removal", Status: "completed"}).Error)
	require.NoError(t, db.Create(&PromoCodeUsageModel{PromoCodeID: 7, UserID: "u-1", UsedAt: storeNow}).Error)

	first, err = store.IsFirstTimeCustomer(ctx, "u-1")
	require.NoError(t, err)
	assert.False(t, first)

	used, err = store.HasRedeemedPromo(ctx, 7, "u-1")
	require.NoError(t, err)
	assert.True(t, used)

	used, err = store.HasRedeemedPromo(ctx, 7, "u-2")
	require.NoError(t, err)
	assert.False(t, used)
}

func TestGormPricingStore_DriverErrorsAreNotSentinels(t *testing.T) {
	store, db := newSQLiteStore(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = store.FindRate(context.Background(), domain.ServiceJunkRemoval, domain.TierHalf)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRateNotFound)

	_, err = store.FindPromoCode(context.Background(), "SPRING25")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPromoNotFound)
}
