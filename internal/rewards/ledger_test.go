package rewards

import (
	"testing"
	"time"

	"tiketku/internal/shared/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func lot(amount int64, expiresIn time.Duration) PointLot {
	return PointLot{
		ID:        uuid.New(),
		Amount:    amount,
		ExpiresAt: time.Now().Add(expiresIn),
	}
}

func TestPlanDebit_ConsumesOldestExpiryFirst(t *testing.T) {
	first := lot(300, 24*time.Hour)
	second := lot(500, 48*time.Hour)
	third := lot(1000, 72*time.Hour)

	plan, err := planDebit([]PointLot{first, second, third}, 600)
	require.NoError(t, err)
	require.Len(t, plan, 2)

	assert.Equal(t, first.ID, plan[0].LotID)
	assert.Equal(t, int64(300), plan[0].Amount)
	assert.Equal(t, second.ID, plan[1].LotID)
	assert.Equal(t, int64(300), plan[1].Amount)
}

func TestPlanDebit_ExactSingleLot(t *testing.T) {
	only := lot(500, 24*time.Hour)

	plan, err := planDebit([]PointLot{only}, 500)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, int64(500), plan[0].Amount)
}

func TestPlanDebit_SpansAllLots(t *testing.T) {
	lots := []PointLot{lot(100, time.Hour), lot(100, 2*time.Hour), lot(100, 3*time.Hour)}

	plan, err := planDebit(lots, 300)
	require.NoError(t, err)
	require.Len(t, plan, 3)

	var total int64
	for _, d := range plan {
		total += d.Amount
	}
	assert.Equal(t, int64(300), total)
}

func TestPlanDebit_InsufficientBalanceTouchesNothing(t *testing.T) {
	lots := []PointLot{lot(100, time.Hour), lot(150, 2*time.Hour)}

	plan, err := planDebit(lots, 300)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInsufficientPoints))
	assert.Nil(t, plan)
}

func TestPlanDebit_ZeroAmountIsNoop(t *testing.T) {
	plan, err := planDebit([]PointLot{lot(100, time.Hour)}, 0)
	require.NoError(t, err)
	assert.Empty(t, plan)
}

func TestPlanDebit_NoLots(t *testing.T) {
	_, err := planDebit(nil, 1)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInsufficientPoints))
}

func TestVoucherWindowAndExhaustion(t *testing.T) {
	now := time.Now()
	voucher := Voucher{
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		MaxUsage:  2,
		UsedCount: 1,
	}

	assert.True(t, voucher.InWindow(now))
	assert.False(t, voucher.InWindow(now.Add(2*time.Hour)))
	assert.False(t, voucher.InWindow(now.Add(-2*time.Hour)))

	assert.False(t, voucher.Exhausted())
	voucher.UsedCount = 2
	assert.True(t, voucher.Exhausted())
}

func TestCouponUsable(t *testing.T) {
	now := time.Now()
	coupon := Coupon{ExpiresAt: now.Add(time.Hour)}

	assert.True(t, coupon.Usable(now))

	coupon.IsUsed = true
	assert.False(t, coupon.Usable(now))

	coupon.IsUsed = false
	assert.False(t, coupon.Usable(now.Add(2*time.Hour)))
}

func TestPointLotUsable(t *testing.T) {
	now := time.Now()

	active := PointLot{Amount: 100, ExpiresAt: now.Add(time.Hour)}
	assert.True(t, active.Usable(now))

	drained := PointLot{Amount: 0, ExpiresAt: now.Add(time.Hour)}
	assert.False(t, drained.Usable(now))

	flagged := PointLot{Amount: 100, IsExpired: true, ExpiresAt: now.Add(time.Hour)}
	assert.False(t, flagged.Usable(now))

	past := PointLot{Amount: 100, ExpiresAt: now.Add(-time.Minute)}
	assert.False(t, past.Usable(now))
}

func TestLockedLotScanLocksAndOrders(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)

	var lots []PointLot
	stmt := lockedLotScan(db, uuid.New(), time.Now()).Find(&lots).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, "FOR UPDATE")
	assert.Contains(t, sql, "expires_at ASC")
}
