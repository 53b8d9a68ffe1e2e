package service

import (
	"context"
	"errors"
	"time"

	"github.com/JorgeKerilima19/app-management-sub000/internal/apierror"
	"github.com/JorgeKerilima19/app-management-sub000/internal/dto"
	"github.com/JorgeKerilima19/app-management-sub000/internal/model"
	"github.com/JorgeKerilima19/app-management-sub000/internal/repository"
	"github.com/JorgeKerilima19/app-management-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentReconciler settles checks. The tendered amount must match the total
// recomputed inside the settlement transaction, within epsilon, so a stale
// client total can never close a check for the wrong amount.
type PaymentReconciler interface {
	// CanPay reports whether the check is settleable: at least one live item
	// and every live item READY.
	CanPay(ctx context.Context, checkID uuid.UUID) (*dto.CanPayResponse, error)
	CloseCheck(ctx context.Context, staffID uuid.UUID, req dto.CloseCheckRequest) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, checkID uuid.UUID) ([]dto.PaymentResponse, error)
}

type paymentReconciler struct {
	checks     repository.CheckRepository
	payments   repository.PaymentRepository
	tables     repository.TableRepository
	ledger     CheckLedger
	dispatcher *worker.Dispatcher
	epsilon    decimal.Decimal
}

func NewPaymentReconciler(
	checks repository.CheckRepository,
	payments repository.PaymentRepository,
	tables repository.TableRepository,
	ledger CheckLedger,
	dispatcher *worker.Dispatcher,
	epsilon decimal.Decimal,
) PaymentReconciler {
	if epsilon.IsZero() {
		epsilon = decimal.NewFromFloat(0.01)
	}
	return &paymentReconciler{
		checks:     checks,
		payments:   payments,
		tables:     tables,
		ledger:     ledger,
		dispatcher: dispatcher,
		epsilon:    epsilon,
	}
}

func (s *paymentReconciler) CanPay(ctx context.Context, checkID uuid.UUID) (*dto.CanPayResponse, error) {
	c, err := s.checks.FindByID(ctx, checkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("cuenta no encontrada")
		}
		return nil, err
	}
	if c.Status != model.CheckOpen {
		return &dto.CanPayResponse{CanPay: false, Reason: "la cuenta no está abierta"}, nil
	}

	tx := s.checks.DB()
	if tx != nil {
		tx = tx.WithContext(ctx)
	}
	stats, err := s.checks.LiveItemStatsTx(tx, checkID)
	if err != nil {
		return nil, err
	}
	switch {
	case stats.Live == 0:
		return &dto.CanPayResponse{CanPay: false, Reason: "la cuenta no tiene artículos"}, nil
	case stats.Unready > 0:
		return &dto.CanPayResponse{CanPay: false, Reason: "hay artículos sin preparar"}, nil
	}
	return &dto.CanPayResponse{CanPay: true}, nil
}

func (s *paymentReconciler) CloseCheck(ctx context.Context, staffID uuid.UUID, req dto.CloseCheckRequest) (*dto.PaymentResponse, error) {
	checkID, err := uuid.Parse(req.CheckID)
	if err != nil {
		return nil, apierror.ValidationFailed("check_id inválido")
	}

	// Only the amounts the method uses count toward the tendered total.
	var cash, mobile decimal.Decimal
	switch req.Method {
	case model.PayCash:
		cash = req.CashAmount
	case model.PayMobilePay:
		mobile = req.MobilePayAmount
	case model.PayMixed:
		cash, mobile = req.CashAmount, req.MobilePayAmount
	default:
		return nil, apierror.ValidationFailed("método de pago desconocido")
	}
	if cash.IsNegative() || mobile.IsNegative() {
		return nil, apierror.ValidationFailed("los montos no pueden ser negativos")
	}
	tendered := cash.Add(mobile)

	var payment model.Payment
	err = runTx(ctx, s.checks.DB(), func(tx *gorm.DB) error {
		c, err := s.checks.FindByIDTx(tx, checkID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("cuenta no encontrada")
			}
			return err
		}
		if c.Status != model.CheckOpen {
			return apierror.PreconditionFailed("la cuenta ya está cerrada")
		}

		// Authoritative total, never the client's copy.
		total, err := s.ledger.RecomputeTotalTx(tx, checkID)
		if err != nil {
			return err
		}

		if tendered.Sub(total).Abs().GreaterThan(s.epsilon) {
			return apierror.AmountMismatch(
				"el monto entregado (S/ " + tendered.StringFixed(2) + ") no coincide con el total (S/ " + total.StringFixed(2) + ")")
		}

		stats, err := s.checks.LiveItemStatsTx(tx, checkID)
		if err != nil {
			return err
		}
		if stats.Live == 0 {
			return apierror.NotPayable("la cuenta no tiene artículos")
		}
		if stats.Unready > 0 {
			return apierror.NotPayable("hay artículos sin preparar")
		}

		payment = model.Payment{
			CheckID:         checkID,
			Method:          req.Method,
			Amount:          tendered,
			CashAmount:      cash,
			MobilePayAmount: mobile,
			Status:          model.PaymentCompleted,
			ReceivedByID:    staffID,
		}
		if err := s.payments.CreateTx(tx, &payment); err != nil {
			return err
		}
		if err := s.checks.CloseTx(tx, checkID, model.CheckClosed, time.Now()); err != nil {
			return err
		}
		return s.tables.FreeTablesForCheckTx(tx, checkID)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("check_id", checkID.String()).
		Str("method", req.Method).
		Str("amount", tendered.StringFixed(2)).
		Str("staff_id", staffID.String()).
		Msg("check closed")

	if s.dispatcher != nil {
		payload := worker.ShiftSummaryPayload{
			CheckID:  checkID.String(),
			Total:    tendered.StringFixed(2),
			Method:   req.Method,
			ClosedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.dispatcher.EnqueueShiftSummary(ctx, payload); err != nil {
			log.Error().Err(err).Str("check_id", checkID.String()).Msg("failed to enqueue shift summary")
		}
	}

	return paymentToResponse(&payment), nil
}

func (s *paymentReconciler) ListPayments(ctx context.Context, checkID uuid.UUID) ([]dto.PaymentResponse, error) {
	rows, err := s.payments.ListByCheck(ctx, checkID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *paymentToResponse(&rows[i]))
	}
	return out, nil
}

func paymentToResponse(p *model.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:              p.ID.String(),
		CheckID:         p.CheckID.String(),
		Method:          p.Method,
		Amount:          p.Amount,
		CashAmount:      p.CashAmount,
		MobilePayAmount: p.MobilePayAmount,
		Status:          p.Status,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
}
