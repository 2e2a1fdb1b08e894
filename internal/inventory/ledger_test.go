package inventory

import (
	"testing"

	"tiketku/internal/shared/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)
	return db
}

func TestReserveRejectsNonPositiveQuantity(t *testing.T) {
	l := NewLedger()
	err := l.Reserve(dryRunDB(t), uuid.New(), uuid.New(), 0)
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	err = l.Reserve(dryRunDB(t), uuid.New(), uuid.New(), -3)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestReserveGuardMissMapsToInsufficientInventory(t *testing.T) {
	// A guarded update that touches no row means the capacity check failed.
	l := NewLedger()
	err := l.Reserve(dryRunDB(t), uuid.New(), uuid.New(), 2)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInsufficientInventory))
}

func TestReleaseGuardMissIsInvariantViolation(t *testing.T) {
	l := NewLedger()
	err := l.Release(dryRunDB(t), uuid.New(), uuid.New(), 2)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindInvariantViolation))

	err = l.Release(dryRunDB(t), uuid.New(), uuid.New(), 0)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}
