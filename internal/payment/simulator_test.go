package payment

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/MaximoGamba/DemoEcommers/internal/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSimulator(successRate float64, roll float64) *Simulator {
	sim := NewSimulator(&config.PaymentSim{
		SuccessRate:     successRate,
		ProcessingDelay: 3 * time.Second,
		WalletBalance:   150000,
	}, testLogger())

	sim.randFloat = func() float64 { return roll }
	sim.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	return sim
}

func TestSimulator_Charge(t *testing.T) {
	t.Run("Roll Under Rate - Approved With Reference", func(t *testing.T) {
		sim := newTestSimulator(0.95, 0.5)

		result, err := sim.Charge(context.Background(), ChargeRequest{
			Amount: decimal.NewFromInt(10000),
			Method: MethodCredit,
		})

		require.NoError(t, err)
		assert.True(t, result.Approved)
		assert.Regexp(t, regexp.MustCompile(`^MP-\d+-[0-9A-F]{6}$`), result.Reference)
	})

	t.Run("Roll At Or Over Rate - Declined", func(t *testing.T) {
		sim := newTestSimulator(0.95, 0.95)

		result, err := sim.Charge(context.Background(), ChargeRequest{
			Amount: decimal.NewFromInt(10000),
			Method: MethodCredit,
		})

		require.NoError(t, err)
		assert.False(t, result.Approved)
		assert.NotEmpty(t, result.Reason)
		assert.Empty(t, result.Reference)
	})

	t.Run("Wallet Over Balance - Refused Without Delay", func(t *testing.T) {
		sim := newTestSimulator(1.0, 0.0)
		slept := false
		sim.sleep = func(ctx context.Context, d time.Duration) error {
			slept = true
			return nil
		}

		result, err := sim.Charge(context.Background(), ChargeRequest{
			Amount: decimal.NewFromInt(150001),
			Method: MethodAccountMoney,
		})

		require.NoError(t, err)
		assert.False(t, result.Approved)
		assert.True(t, result.InsufficientFunds)
		assert.False(t, slept)
	})

	t.Run("Wallet Exactly At Balance - Allowed", func(t *testing.T) {
		sim := newTestSimulator(1.0, 0.0)

		result, err := sim.Charge(context.Background(), ChargeRequest{
			Amount: decimal.NewFromInt(150000),
			Method: MethodAccountMoney,
		})

		require.NoError(t, err)
		assert.True(t, result.Approved)
	})

	t.Run("Context Cancelled During Processing", func(t *testing.T) {
		sim := newTestSimulator(1.0, 0.0)
		sim.sleep = sleepCtx

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := sim.Charge(ctx, ChargeRequest{
			Amount: decimal.NewFromInt(10000),
			Method: MethodCredit,
		})

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewReference(t *testing.T) {
	first := NewReference()
	second := NewReference()

	pattern := regexp.MustCompile(`^MP-\d+-[0-9A-F]{6}$`)
	assert.Regexp(t, pattern, first)
	assert.Regexp(t, pattern, second)
	assert.NotEqual(t, first, second)
}

func TestMapMethod(t *testing.T) {
	assert.Equal(t, "MERCADO_PAGO", string(MapMethod(MethodAccountMoney)))
	assert.Equal(t, "TARJETA_CREDITO", string(MapMethod(MethodCredit)))
	assert.Equal(t, "TARJETA_DEBITO", string(MapMethod(MethodDebit)))
	assert.Equal(t, "TRANSFERENCIA", string(MapMethod(MethodTransfer)))
}
