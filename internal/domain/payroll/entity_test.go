package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSystemConfigFromSettings(t *testing.T) {
	t.Run("parses brackets in order", func(t *testing.T) {
		cfg, err := SystemConfigFromSettings(Settings{
			KeyPersonalDeduction:  d("11000000"),
			KeyDependentDeduction: d("4400000"),
			KeyInsuranceCapBase:   d("36000000"),
			"tax.bracket.1.up_to": d("5000000"),
			"tax.bracket.1.rate":  d("0.05"),
			"tax.bracket.2.up_to": d("10000000"),
			"tax.bracket.2.rate":  d("0.10"),
			"tax.bracket.3.rate":  d("0.15"),
		})
		require.NoError(t, err)

		require.Len(t, cfg.TaxBrackets, 3)
		assert.True(t, cfg.TaxBrackets[0].UpTo.Equal(d("5000000")))
		assert.True(t, cfg.TaxBrackets[1].Rate.Equal(d("0.10")))
		assert.True(t, cfg.TaxBrackets[2].UpTo.IsZero(), "last bracket is unbounded")
		assert.True(t, cfg.PersonalDeduction.Equal(d("11000000")))
	})

	t.Run("stops at first missing rate", func(t *testing.T) {
		cfg, err := SystemConfigFromSettings(Settings{
			"tax.bracket.1.rate": d("0.05"),
			"tax.bracket.3.rate": d("0.15"), // gap at 2, never reached
		})
		require.NoError(t, err)
		assert.Len(t, cfg.TaxBrackets, 1)
	})

	t.Run("no brackets at all", func(t *testing.T) {
		_, err := SystemConfigFromSettings(Settings{
			KeyPersonalDeduction: d("11000000"),
		})
		assert.ErrorIs(t, err, ErrSystemConfigMissing)
	})

	t.Run("rate out of range", func(t *testing.T) {
		_, err := SystemConfigFromSettings(Settings{
			"tax.bracket.1.rate": d("1.5"),
		})
		assert.ErrorIs(t, err, ErrInvalidSystemConfig)
	})

	t.Run("thresholds must increase", func(t *testing.T) {
		_, err := SystemConfigFromSettings(Settings{
			"tax.bracket.1.up_to": d("10000000"),
			"tax.bracket.1.rate":  d("0.05"),
			"tax.bracket.2.up_to": d("5000000"),
			"tax.bracket.2.rate":  d("0.10"),
		})
		assert.ErrorIs(t, err, ErrInvalidSystemConfig)
	})

	t.Run("only last bracket may be unbounded", func(t *testing.T) {
		_, err := SystemConfigFromSettings(Settings{
			"tax.bracket.1.rate":  d("0.05"),
			"tax.bracket.2.up_to": d("10000000"),
			"tax.bracket.2.rate":  d("0.10"),
		})
		assert.ErrorIs(t, err, ErrInvalidSystemConfig)
	})
}
