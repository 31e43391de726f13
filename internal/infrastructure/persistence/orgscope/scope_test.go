package orgscope

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type scopedModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"size:100"`
}

func (scopedModel) TableName() string {
	return "scoped_models"
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestScope(t *testing.T) {
	organizationID := uuid.New()

	t.Run("applies organization filter to query", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "scoped_models" WHERE organization_id = \$1`).
			WithArgs(organizationID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name"}))

		var results []scopedModel
		err := db.Scopes(Scope(organizationID)).Find(&results).Error
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies organization filter to count", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "scoped_models" WHERE organization_id = \$1`).
			WithArgs(organizationID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		var count int64
		err := db.Model(&scopedModel{}).Scopes(Scope(organizationID)).Count(&count).Error
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("combines with additional conditions", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "scoped_models" WHERE organization_id = \$1 AND name = \$2`).
			WithArgs(organizationID.String(), "acme").
			WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name"}))

		var results []scopedModel
		err := db.Scopes(Scope(organizationID)).Where("name = ?", "acme").Find(&results).Error
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a nil organization instead of widening the query", func(t *testing.T) {
		db, _, mockDB := setupMockDB(t)
		defer mockDB.Close()

		var results []scopedModel
		err := db.Scopes(Scope(uuid.Nil)).Find(&results).Error
		assert.ErrorIs(t, err, ErrOrganizationRequired)
	})
}
