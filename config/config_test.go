package config

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	t.Run("with environment variables", func(t *testing.T) {
		t.Setenv("VALID_TIME_PERIOD", "120")
		t.Setenv("SINGLE_UPDATE_FEE_WEI", "5")
		t.Setenv("ADDR", ":9090")

		cfg, err := NewConfig()
		assert.NoError(t, err)
		assert.NotNil(t, cfg)

		assert.Equal(t, "120", cfg.ValidTimePeriod)
		assert.Equal(t, "5", cfg.SingleUpdateFee)
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, 2*time.Minute, cfg.ValidDuration())
		assert.Equal(t, big.NewInt(5), cfg.SingleUpdateFeeWei())
	})

	t.Run("with defaults", func(t *testing.T) {
		t.Setenv("VALID_TIME_PERIOD", "")
		t.Setenv("SINGLE_UPDATE_FEE_WEI", "")
		t.Setenv("ADDR", "")

		cfg, err := NewConfig()
		assert.NoError(t, err)
		assert.Equal(t, "60", cfg.ValidTimePeriod)
		assert.Equal(t, "1", cfg.SingleUpdateFee)
		assert.Equal(t, ":8080", cfg.Addr)
	})

	t.Run("with options over environment", func(t *testing.T) {
		t.Setenv("VALID_TIME_PERIOD", "60")
		t.Setenv("SINGLE_UPDATE_FEE_WEI", "1")
		t.Setenv("ADDR", ":8080")

		cfg, err := NewConfig(
			WithValidTimePeriod("30"),
			WithSingleUpdateFee("1000000000"),
		)
		assert.NoError(t, err)
		assert.Equal(t, "30", cfg.ValidTimePeriod)
		assert.Equal(t, big.NewInt(1000000000), cfg.SingleUpdateFeeWei())
	})

	t.Run("with invalid fee amount", func(t *testing.T) {
		t.Setenv("VALID_TIME_PERIOD", "60")
		t.Setenv("SINGLE_UPDATE_FEE_WEI", "not-a-number")
		t.Setenv("ADDR", ":8080")

		cfg, err := NewConfig()
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})
}
