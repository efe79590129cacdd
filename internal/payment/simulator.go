package payment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/MaximoGamba/DemoEcommers/internal/config"
	"github.com/MaximoGamba/DemoEcommers/internal/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Simulator is a fake gateway that approves a configurable fraction of
// charges after a realistic processing delay. Wallet payments check a fixed
// demo balance; insufficient funds is decided locally before any delay.
type Simulator struct {
	successRate     float64
	processingDelay time.Duration
	approvalDelay   time.Duration
	walletBalance   decimal.Decimal
	logger          *slog.Logger

	// injectable for deterministic tests
	randFloat func() float64
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewSimulator(cfg *config.PaymentSim, logger *slog.Logger) *Simulator {
	return &Simulator{
		successRate:     cfg.SuccessRate,
		processingDelay: cfg.ProcessingDelay,
		approvalDelay:   cfg.ApprovalDelay,
		walletBalance:   decimal.NewFromInt(cfg.WalletBalance),
		logger:          logger,
		randFloat:       rand.Float64,
		sleep:           sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Simulator) WalletBalance() decimal.Decimal {
	return s.walletBalance
}

// Charge runs one simulated payment attempt. Wallet charges above the demo
// balance are declined immediately; everything else waits out the processing
// delay and then rolls against the success rate.
func (s *Simulator) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if req.Method == MethodAccountMoney && req.Amount.GreaterThan(s.walletBalance) {
		metrics.RecordPaymentOutcome(string(req.Method), "insufficient_funds")

		return ChargeResult{
			Reason:            "Saldo insuficiente en tu cuenta",
			InsufficientFunds: true,
		}, nil
	}

	if err := s.sleep(ctx, s.processingDelay); err != nil {
		return ChargeResult{}, err
	}

	if s.randFloat() >= s.successRate {
		metrics.RecordPaymentOutcome(string(req.Method), "declined")
		s.logger.Info("simulated charge declined",
			slog.String("method", string(req.Method)),
			slog.String("amount", req.Amount.String()),
		)

		return ChargeResult{
			Reason: "El pago fue rechazado. Intentá con otro medio de pago.",
		}, nil
	}

	// the approval screen lingers before handing control back
	if err := s.sleep(ctx, s.approvalDelay); err != nil {
		return ChargeResult{}, err
	}

	reference := NewReference()

	metrics.RecordPaymentOutcome(string(req.Method), "approved")
	s.logger.Info("simulated charge approved",
		slog.String("method", string(req.Method)),
		slog.String("amount", req.Amount.String()),
		slog.String("reference", reference),
	)

	return ChargeResult{Approved: true, Reference: reference}, nil
}

// NewReference builds a gateway payment reference: "MP-<unix millis>-<6
// uppercase hex chars>".
func NewReference() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]

	return fmt.Sprintf("MP-%d-%s", time.Now().UnixMilli(), suffix)
}
