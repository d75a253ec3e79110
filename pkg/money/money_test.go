package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/morvic-api/pkg/money"
)

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"0":          "S/ 0.00",
		"18":         "S/ 18.00",
		"118.5":      "S/ 118.50",
		"1234.5":     "S/ 1,234.50",
		"1000000.25": "S/ 1,000,000.25",
	}
	for in, want := range cases {
		assert.Equal(t, want, money.Format(decimal.RequireFromString(in)), in)
	}
}

func TestPlain_Redondea(t *testing.T) {
	assert.Equal(t, "1.85", money.Plain(decimal.RequireFromString("1.845")))
}
