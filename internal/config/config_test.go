package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdminIDs(t *testing.T) {
	t.Run("empty input yields no admins", func(t *testing.T) {
		ids, err := ParseAdminIDs("")
		require.NoError(t, err)
		assert.Empty(t, ids)

		ids, err = ParseAdminIDs("  ")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("comma separated list with spaces", func(t *testing.T) {
		ids, err := ParseAdminIDs("123, 456 ,789,")
		require.NoError(t, err)
		assert.Equal(t, []int64{123, 456, 789}, ids)
	})

	t.Run("non-numeric entry fails", func(t *testing.T) {
		_, err := ParseAdminIDs("123,abc")
		assert.Error(t, err)
	})
}

func TestDialogConfig_IsAdmin(t *testing.T) {
	cfg := DialogConfig{AdminIDs: []int64{10, 20}}
	assert.True(t, cfg.IsAdmin(10))
	assert.True(t, cfg.IsAdmin(20))
	assert.False(t, cfg.IsAdmin(30))
	assert.False(t, DialogConfig{}.IsAdmin(10))
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ModePolling, cfg.Telegram.Mode)
		assert.Equal(t, StorePostgres, cfg.Dialog.StoreDriver)
		assert.Equal(t, 5, cfg.Dialog.PageSize)
		assert.Equal(t, 4, cfg.Dialog.ConfirmCodeLen)
		assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	})

	t.Run("admin ids from environment", func(t *testing.T) {
		t.Setenv("ADMIN_IDS", "111,222")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []int64{111, 222}, cfg.Dialog.AdminIDs)
	})

	t.Run("rejects unknown telegram mode", func(t *testing.T) {
		t.Setenv("TELEGRAM_MODE", "carrier-pigeon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects unknown store driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "sqlite")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects non-positive page size", func(t *testing.T) {
		t.Setenv("PAGE_SIZE", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}
