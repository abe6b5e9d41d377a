package store_test

import (
	"context"
	"testing"

	"catalog-manager/feature/catalog/models"
	"catalog-manager/feature/catalog/store"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockStore opens the store against a sqlmock connection using the
// MySQL dialector, so statement-level behavior (transactions, driver error
// translation) can be asserted without a live server.
func setupMockStore(t *testing.T) (*store.Gorm, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	return store.NewGorm(gormDB), mock
}

func TestApplyEmptyBatchTouchesNothing(t *testing.T) {
	g, mock := setupMockStore(t)

	err := g.Apply(context.Background(), &store.Batch{})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRollsBackOnInsertFailure(t *testing.T) {
	g, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `parts`").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := g.Apply(context.Background(), &store.Batch{
		PartAdds: []models.Part{
			{ACRSku: "ACR-100", PartType: "Brake Pad", WorkflowStatus: models.StatusActive},
		},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTranslatesMySQLDuplicateEntry(t *testing.T) {
	g, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `parts`").WillReturnError(&mysqldrv.MySQLError{
		Number:  1062,
		Message: "Duplicate entry 'ACR-100' for key 'parts.acr_sku'",
	})
	mock.ExpectRollback()

	err := g.Apply(context.Background(), &store.Batch{
		PartAdds: []models.Part{
			{ACRSku: "ACR-100", PartType: "Brake Pad", WorkflowStatus: models.StatusActive},
		},
	})
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSnapshotMissingRowMapsToNotFound(t *testing.T) {
	g, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `import_snapshots`").
		WithArgs("no-such-import").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := g.DeleteSnapshot(context.Background(), "no-such-import")
	assert.ErrorIs(t, err, store.ErrSnapshotNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
