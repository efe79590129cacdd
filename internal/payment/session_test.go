package payment

import (
	"context"
	"testing"

	appErrors "github.com/MaximoGamba/DemoEcommers/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var demoCard = CardDetails{
	Number:     "4509 9535 6623 3704",
	HolderName: "JUAN PEREZ",
	Expiry:     "11/26",
	CVV:        "123",
}

func TestSession_HappyPathWithCard(t *testing.T) {
	sim := newTestSimulator(1.0, 0.0)
	session := NewSession(sim, decimal.NewFromInt(10000), testLogger())

	require.Equal(t, StateSelectMethod, session.State())

	result, err := session.SelectMethod(MethodCredit)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, StateCardForm, session.State())

	require.NoError(t, session.SubmitCard(demoCard, 3))

	charge, err := session.ConfirmPayment(context.Background())
	require.NoError(t, err)
	assert.True(t, charge.Approved)
	assert.NotEmpty(t, charge.Reference)
	assert.Equal(t, StateApproved, session.State())
}

func TestSession_WalletFlow(t *testing.T) {
	t.Run("Sufficient Balance Skips Card Form", func(t *testing.T) {
		sim := newTestSimulator(1.0, 0.0)
		session := NewSession(sim, decimal.NewFromInt(10000), testLogger())

		result, err := session.SelectMethod(MethodAccountMoney)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, StateSelectMethod, session.State())

		charge, err := session.ConfirmPayment(context.Background())
		require.NoError(t, err)
		assert.True(t, charge.Approved)
		assert.Equal(t, StateApproved, session.State())
	})

	t.Run("Insufficient Balance Refused At Selection", func(t *testing.T) {
		sim := newTestSimulator(1.0, 0.0)
		session := NewSession(sim, decimal.NewFromInt(150001), testLogger())

		result, err := session.SelectMethod(MethodAccountMoney)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Saldo insuficiente en tu cuenta", result.Message)
		assert.Equal(t, StateSelectMethod, session.State())
	})
}

func TestSession_DeclineAndRetry(t *testing.T) {
	sim := newTestSimulator(0.95, 0.99)
	session := NewSession(sim, decimal.NewFromInt(10000), testLogger())

	_, err := session.SelectMethod(MethodCredit)
	require.NoError(t, err)
	require.NoError(t, session.SubmitCard(demoCard, 1))

	charge, err := session.ConfirmPayment(context.Background())
	require.NoError(t, err)
	assert.False(t, charge.Approved)
	assert.Equal(t, StateDeclined, session.State())

	require.NoError(t, session.Retry())
	assert.Equal(t, StateSelectMethod, session.State())
	assert.Empty(t, session.Result().Reason)

	// approve on the second attempt
	sim.randFloat = func() float64 { return 0.0 }
	_, err = session.SelectMethod(MethodCredit)
	require.NoError(t, err)
	require.NoError(t, session.SubmitCard(demoCard, 1))

	charge, err = session.ConfirmPayment(context.Background())
	require.NoError(t, err)
	assert.True(t, charge.Approved)
}

func TestSession_Guards(t *testing.T) {
	t.Run("Confirm Without Method", func(t *testing.T) {
		session := NewSession(newTestSimulator(1.0, 0.0), decimal.NewFromInt(100), testLogger())

		_, err := session.ConfirmPayment(context.Background())

		require.Error(t, err)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
	})

	t.Run("Confirm Card Method Without Card", func(t *testing.T) {
		session := NewSession(newTestSimulator(1.0, 0.0), decimal.NewFromInt(100), testLogger())

		_, err := session.SelectMethod(MethodDebit)
		require.NoError(t, err)

		_, err = session.ConfirmPayment(context.Background())
		require.Error(t, err)
	})

	t.Run("Submit Card Outside Card Form", func(t *testing.T) {
		session := NewSession(newTestSimulator(1.0, 0.0), decimal.NewFromInt(100), testLogger())

		err := session.SubmitCard(demoCard, 1)

		require.Error(t, err)
	})

	t.Run("Retry Without Decline", func(t *testing.T) {
		session := NewSession(newTestSimulator(1.0, 0.0), decimal.NewFromInt(100), testLogger())

		require.Error(t, session.Retry())
	})
}

func TestSession_Cancel(t *testing.T) {
	t.Run("Allowed Before Processing", func(t *testing.T) {
		session := NewSession(newTestSimulator(1.0, 0.0), decimal.NewFromInt(100), testLogger())

		require.NoError(t, session.Cancel())
		assert.Equal(t, StateCancelled, session.State())
	})

	t.Run("Allowed From Card Form", func(t *testing.T) {
		session := NewSession(newTestSimulator(1.0, 0.0), decimal.NewFromInt(100), testLogger())

		_, err := session.SelectMethod(MethodCredit)
		require.NoError(t, err)

		require.NoError(t, session.Cancel())
	})

	t.Run("Refused After Approval", func(t *testing.T) {
		session := NewSession(newTestSimulator(1.0, 0.0), decimal.NewFromInt(100), testLogger())

		_, err := session.SelectMethod(MethodTransfer)
		require.NoError(t, err)
		_, err = session.ConfirmPayment(context.Background())
		require.NoError(t, err)
		require.Equal(t, StateApproved, session.State())

		require.Error(t, session.Cancel())
	})
}
