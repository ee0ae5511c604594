package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/optionstrat/src/positive"
)

type fixedPricer struct {
	price decimal.Decimal
}

func (p fixedPricer) Price(Option) (decimal.Decimal, error) {
	return p.price, nil
}

func newTestPosition(side Side, style OptionStyle, strike, premium, fee float64, qty int64) *Position {
	option := NewOption(side, style, "AAPL", positive.MustFromFloat(strike), Days(positive.MustFromInt(30)),
		positive.MustFromFloat(0.2), positive.MustFromInt(qty), positive.MustFromInt(100), decimal.NewFromFloat(0.05), positive.Zero)

	return NewPosition(option, positive.MustFromFloat(premium), time.Now(), positive.MustFromFloat(fee), positive.MustFromFloat(fee))
}

func TestPositionCosts(t *testing.T) {
	t.Run("long position", func(t *testing.T) {
		p := newTestPosition(Long, Call, 100, 5, 0.5, 2)

		assert.Equal(t, "12", p.TotalCost().String())
		assert.Equal(t, "2", p.Fees().String())
		assert.True(t, p.PremiumReceived().IsZero())
		assert.Equal(t, "12", p.NetCost().String())
	})

	t.Run("short position", func(t *testing.T) {
		p := newTestPosition(Short, Put, 100, 5, 0.5, 2)

		assert.Equal(t, "2", p.TotalCost().String())
		assert.Equal(t, "10", p.PremiumReceived().String())
		assert.Equal(t, "-8", p.NetCost().String())
		assert.Equal(t, "8", p.NetPremiumReceived().String())
	})
}

func TestPositionPnLAtExpiration(t *testing.T) {
	t.Run("long put in the money", func(t *testing.T) {
		p := newTestPosition(Long, Put, 105, 4, 0, 1)
		price := positive.MustFromInt(90)
		assert.Equal(t, "11", p.PnLAtExpiration(&price).String())
	})

	t.Run("short put out of the money keeps premium", func(t *testing.T) {
		p := newTestPosition(Short, Put, 95, 2, 0, 1)
		price := positive.MustFromInt(110)
		assert.Equal(t, "2", p.PnLAtExpiration(&price).String())
	})

	t.Run("defaults to underlying price", func(t *testing.T) {
		p := newTestPosition(Long, Call, 90, 3, 0, 1)
		assert.Equal(t, "7", p.PnLAtExpiration(nil).String())
	})
}

func TestPositionBreakEven(t *testing.T) {
	t.Run("long call", func(t *testing.T) {
		be, err := newTestPosition(Long, Call, 100, 5, 0, 1).BreakEven()
		require.NoError(t, err)
		assert.Equal(t, "105", be.String())
	})

	t.Run("short call", func(t *testing.T) {
		be, err := newTestPosition(Short, Call, 100, 5, 0.5, 1).BreakEven()
		require.NoError(t, err)
		assert.Equal(t, "104", be.String())
	})

	t.Run("long put", func(t *testing.T) {
		be, err := newTestPosition(Long, Put, 100, 5, 0, 1).BreakEven()
		require.NoError(t, err)
		assert.Equal(t, "95", be.String())
	})

	t.Run("short put", func(t *testing.T) {
		be, err := newTestPosition(Short, Put, 100, 5, 0, 1).BreakEven()
		require.NoError(t, err)
		assert.Equal(t, "95", be.String())
	})
}

func TestPositionValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, newTestPosition(Long, Call, 100, 5, 0.5, 1).Validate())
	})

	t.Run("short premium must cover fees", func(t *testing.T) {
		err := newTestPosition(Short, Call, 100, 0.5, 0.5, 1).Validate()
		require.ErrorIs(t, err, ErrInvalidPosition)
		require.ErrorIs(t, err, ErrPosition)
	})

	t.Run("zero quantity", func(t *testing.T) {
		p := newTestPosition(Long, Call, 100, 5, 0, 1)
		p.Option.Quantity = positive.Zero
		require.ErrorIs(t, p.Validate(), ErrInvalidPosition)
	})
}

func TestPositionCalculatePnL(t *testing.T) {
	p := newTestPosition(Long, Call, 100, 5, 0.5, 1)

	pnl, err := p.CalculatePnL(fixedPricer{price: decimal.NewFromInt(8)}, positive.MustFromInt(104), Days(positive.MustFromInt(10)), positive.MustFromFloat(0.25))
	require.NoError(t, err)
	require.NotNil(t, pnl.Unrealized)
	assert.Equal(t, "2", pnl.Unrealized.String())
	assert.Equal(t, "6", pnl.InitialCosts.String())

	atExpiry := p.CalculatePnLAtExpiration(positive.MustFromInt(110))
	require.NotNil(t, atExpiry.Realized)
	assert.Equal(t, "4", atExpiry.Realized.String())

	total := pnl.Add(atExpiry)
	assert.Equal(t, "6", total.Total().String())
}

func TestTradeEncoding(t *testing.T) {
	p := newTestPosition(Short, Put, 95, 2, 0.1, 1)
	trade := p.OpenTrade()
	assert.Equal(t, TradeActionSell, trade.Action)

	data, err := json.Marshal(trade)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	_, isNumber := raw["timestamp"].(float64)
	assert.True(t, isNumber)

	var decoded Trade
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, trade.ID, decoded.ID)
	assert.Equal(t, trade.Timestamp.UnixNano(), decoded.Timestamp.UnixNano())
	assert.True(t, trade.Strike.Equal(decoded.Strike))

	trades := Trades{}
	trades.Add(&trade)
	closing := p.CloseTrade(positive.MustFromFloat(0.5))
	trades.Add(&closing)
	assert.Equal(t, "1.3", trades.NetPremium().String())
	assert.Len(t, trades.ToRows(), 2)
}

func TestExpirationDate(t *testing.T) {
	t.Run("days", func(t *testing.T) {
		exp := Days(positive.MustFromInt(73))
		assert.Equal(t, "0.2", exp.GetYears().String())

		data, err := json.Marshal(exp)
		require.NoError(t, err)
		assert.JSONEq(t, `{"days":"73"}`, string(data))

		var decoded ExpirationDate
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, exp.Equal(decoded))
	})

	t.Run("absolute", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		exp := Absolute(now.Add(48 * time.Hour))
		assert.Equal(t, "2", exp.GetDaysAt(now).String())
		assert.True(t, Absolute(now.Add(-time.Hour)).GetDaysAt(now).IsZero())
	})
}
