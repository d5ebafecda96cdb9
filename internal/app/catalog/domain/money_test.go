package domain

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid money creation", func(t *testing.T) {
		m, err := NewMoney(249900, 100)
		require.NoError(t, err)
		assert.Equal(t, "2499.00", m.String())
	})

	t.Run("zero denominator returns error", func(t *testing.T) {
		_, err := NewMoney(100, 0)
		assert.Error(t, err)
	})

	t.Run("negative denominator returns error", func(t *testing.T) {
		_, err := NewMoney(100, -1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "positive")
	})
}

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("19.99")
	require.NoError(t, err)
	assert.Equal(t, int64(1999), m.Cents())

	_, err = ParseMoney("abc")
	assert.Error(t, err)
}

func TestMoney_Cents(t *testing.T) {
	cases := []struct {
		name string
		num  int64
		den  int64
		want int64
	}{
		{"exact", 1999, 100, 1999},
		{"rounds half up", 10005, 1000, 1001},
		{"rounds down", 10004, 1000, 1000},
		{"negative rounds away from zero", -10005, 1000, -1001},
		{"whole", 20, 1, 2000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := NewMoney(tc.num, tc.den)
			require.NoError(t, err)
			assert.Equal(t, tc.want, m.Cents())
		})
	}
}

func TestMoney_FromRatCopies(t *testing.T) {
	r := big.NewRat(5, 2)
	m := NewMoneyFromRat(r)
	r.SetInt64(7)

	assert.Equal(t, "2.50", m.String())
	assert.Equal(t, "0.00", NewMoneyFromRat(nil).String())
}

func TestMoney_Equals(t *testing.T) {
	a, _ := NewMoney(150, 100)
	b, _ := NewMoney(3, 2)

	assert.True(t, a.Equals(b))
	assert.Equal(t, 1.5, a.Float64())
}

func TestMoney_MarshalJSON(t *testing.T) {
	m, _ := NewMoney(1234567, 100)

	out, err := json.Marshal(struct {
		Price *Money `json:"price"`
	}{m})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"12345.67"}`, string(out))
}
