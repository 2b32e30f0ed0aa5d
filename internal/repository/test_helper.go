package repository

import (
	"os"
	"reflect"
	"testing"

	"github.com/ayushi2311/loyalty-rewards-api/pkg/pg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testDB struct {
	*pg.DB
	rawDB *gorm.DB
}

func setupTestDB(t *testing.T) *testDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	migrateTestSchema(t, db)
	return wrapTestDB(db)
}

// setupPostgresTestDB opens the database named by TEST_POSTGRES_DSN for tests
// that need real concurrent writes, and truncates all tables. Without the env
// var the test is skipped.
func setupPostgresTestDB(t *testing.T) *testDB {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("Skipping concurrent test - SQLite doesn't handle concurrent writes reliably in tests. Set TEST_POSTGRES_DSN to run against PostgreSQL.")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	migrateTestSchema(t, db)
	err = db.Exec("TRUNCATE users, wallets, apps, point_transactions, rewards, redemptions RESTART IDENTITY CASCADE").Error
	require.NoError(t, err)

	return wrapTestDB(db)
}

func migrateTestSchema(t *testing.T, db *gorm.DB) {
	err := db.AutoMigrate(
		&UserEntity{},
		&WalletEntity{},
		&AppEntity{},
		&TransactionEntity{},
		&RewardEntity{},
		&RedemptionEntity{},
	)
	require.NoError(t, err)
}

func wrapTestDB(db *gorm.DB) *testDB {
	pgDB := &pg.DB{}
	pgDBValue := reflect.ValueOf(pgDB).Elem()

	readField := pgDBValue.FieldByName("read")
	writeField := pgDBValue.FieldByName("write")

	readField = reflect.NewAt(readField.Type(), readField.Addr().UnsafePointer()).Elem()
	writeField = reflect.NewAt(writeField.Type(), writeField.Addr().UnsafePointer()).Elem()

	readField.Set(reflect.ValueOf(db))
	writeField.Set(reflect.ValueOf(db))

	return &testDB{
		DB:    pgDB,
		rawDB: db,
	}
}
