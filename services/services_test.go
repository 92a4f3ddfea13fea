package services

import (
	"fmt"
	"testing"
	"time"

	"OdontoSystem/apperrors"
	"OdontoSystem/database"
	"OdontoSystem/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	utils.BcryptCost = bcrypt.MinCost
}

func newTestStore(t *testing.T) database.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return database.NewGormStore(db, time.Second)
}

func requireCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := apperrors.As(err)
	require.NotNil(t, typed, "expected an app error, got %v", err)
	require.Equal(t, code, typed.Code(), typed.Error())
}

func ptr[T any](v T) *T {
	return &v
}
