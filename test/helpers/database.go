package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/factorycore/internal/infrastructure/database"
)

// NewTestDB opens a private migrated sqlite database closed at test cleanup.
// Each call gets its own ":memory:" database, so tests never see each other's rows.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewTestConnection()
	require.NoError(t, err, "failed to create test database")
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// CountRows returns the number of rows of a model, failing the test on error
func CountRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
