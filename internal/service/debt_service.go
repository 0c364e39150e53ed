package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/debtfree/engine/internal/amortization"
	"github.com/debtfree/engine/internal/config"
	"github.com/debtfree/engine/internal/domain"
	"github.com/debtfree/engine/internal/notify"
	"github.com/debtfree/engine/internal/repository"
	customError "github.com/debtfree/engine/pkg/errors"
	"github.com/debtfree/engine/pkg/utils"
)

const scheduleCacheTTL = time.Hour

type DebtService struct {
	debtRepo    repository.DebtRepository
	paymentRepo repository.PaymentRepository
	redis       *redis.Client
	notifier    notify.Notifier
	config      *config.Config
}

func NewDebtService(
	debtRepo repository.DebtRepository,
	paymentRepo repository.PaymentRepository,
	redisClient *redis.Client,
	notifier notify.Notifier,
	cfg *config.Config,
) *DebtService {
	return &DebtService{
		debtRepo:    debtRepo,
		paymentRepo: paymentRepo,
		redis:       redisClient,
		notifier:    notifier,
		config:      cfg,
	}
}

// CreateDebt creates a debt and persists its full payment schedule in one
// transaction. The schedule covers every installment from the first payment
// date until the projected balance clears.
func (s *DebtService) CreateDebt(ctx context.Context, request *domain.CreateDebtRequest) (*domain.Debt, []*domain.Payment, error) {
	now := time.Now()

	debt := &domain.Debt{
		ID:               uuid.New(),
		OwnerID:          request.OwnerID,
		Name:             request.Name,
		DebtType:         request.DebtType,
		Lender:           request.Lender,
		Notes:            request.Notes,
		CurrentBalance:   request.CurrentBalance.Round(2),
		APR:              request.APR,
		MinimumPayment:   request.MinimumPayment.Round(2),
		MinPaymentCalc:   defaultString(request.MinPaymentCalc, domain.MinPaymentCalcFixed),
		PaymentFrequency: defaultString(request.PaymentFrequency, domain.FrequencyMonthly),
		NextPaymentDate:  request.NextPaymentDate,
		PaidAmount:       decimal.Zero,
		RemindersEnabled: request.RemindersEnabled,
		Status:           domain.DebtStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	schedule, err := s.generateSchedule(debt)
	if err != nil {
		return nil, nil, err
	}

	if err = s.debtRepo.CreateWithSchedule(ctx, debt, schedule); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	return debt, schedule, nil
}

// GetDebt retrieves a single debt
func (s *DebtService) GetDebt(ctx context.Context, debtID uuid.UUID) (*domain.Debt, error) {
	debt, err := s.debtRepo.GetByID(ctx, debtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtNotFound(debtID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return debt, nil
}

// ListDebts retrieves all debts for an owner
func (s *DebtService) ListDebts(ctx context.Context, ownerID string) ([]*domain.Debt, error) {
	debts, err := s.debtRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return debts, nil
}

// UpdateDebtTerms applies edited terms and regenerates the schedule. The old
// upcoming installments are replaced in the same transaction so at most one
// live schedule exists per debt; completed payments are kept as history.
func (s *DebtService) UpdateDebtTerms(ctx context.Context, debtID uuid.UUID, request *domain.UpdateDebtTermsRequest) (*domain.Debt, []*domain.Payment, error) {
	debt, err := s.GetDebt(ctx, debtID)
	if err != nil {
		return nil, nil, err
	}

	if request.Name != "" {
		debt.Name = request.Name
	}
	if request.Lender != "" {
		debt.Lender = request.Lender
	}
	if request.Notes != "" {
		debt.Notes = request.Notes
	}
	debt.CurrentBalance = request.CurrentBalance.Round(2)
	debt.APR = request.APR
	debt.MinimumPayment = request.MinimumPayment.Round(2)
	debt.PaymentFrequency = defaultString(request.PaymentFrequency, debt.PaymentFrequency)
	debt.NextPaymentDate = request.NextPaymentDate
	debt.RemindersEnabled = request.RemindersEnabled

	schedule, err := s.generateSchedule(debt)
	if err != nil {
		return nil, nil, err
	}

	if err = s.debtRepo.ReplaceSchedule(ctx, debt, schedule); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	s.invalidateScheduleCache(ctx, debtID)

	return debt, schedule, nil
}

// DeleteDebt removes a debt and all of its payments
func (s *DebtService) DeleteDebt(ctx context.Context, debtID uuid.UUID) error {
	if _, err := s.GetDebt(ctx, debtID); err != nil {
		return err
	}

	if err := s.debtRepo.Delete(ctx, debtID); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.invalidateScheduleCache(ctx, debtID)

	return nil
}

// GetSchedule returns a debt's payments ordered by installment sequence,
// served from the cache when possible.
func (s *DebtService) GetSchedule(ctx context.Context, debtID uuid.UUID) ([]*domain.Payment, error) {
	if cached := s.cachedSchedule(ctx, debtID); cached != nil {
		return cached, nil
	}

	if _, err := s.GetDebt(ctx, debtID); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.GetByDebtID(ctx, debtID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.cacheSchedule(ctx, debtID, payments)

	return payments, nil
}

// ListPayments retrieves an owner's payments, optionally filtered by status.
func (s *DebtService) ListPayments(ctx context.Context, ownerID, status string) ([]*domain.Payment, error) {
	if status == "" {
		status = domain.PaymentStatusUpcoming
	}
	if status != domain.PaymentStatusUpcoming && status != domain.PaymentStatusCompleted {
		return nil, customError.WrapInvalidDebtTerms("status must be upcoming or completed")
	}

	payments, err := s.paymentRepo.GetByOwnerAndStatus(ctx, ownerID, status)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return payments, nil
}

// CompletePayment transitions an upcoming payment to completed, recording the
// amount and paid date, and rolls the amount into the debt's paid total. The
// transition is one-way. Newly crossed payoff milestones are notified once.
func (s *DebtService) CompletePayment(ctx context.Context, debtID, paymentID uuid.UUID, amount decimal.Decimal) (*domain.Payment, error) {
	if !amount.IsPositive() {
		return nil, customError.WrapInvalidPaymentAmount(amount.String())
	}

	debt, err := s.GetDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapPaymentNotFound(paymentID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if payment.DebtID != debtID {
		return nil, customError.WrapPaymentNotFound(paymentID.String())
	}

	if payment.Status == domain.PaymentStatusCompleted {
		return nil, customError.WrapPaymentAlreadyCompleted(paymentID.String())
	}

	paidDate := time.Now()
	payment.AmountPaid = amount.Round(2)
	payment.PaidDate = &paidDate
	payment.Status = domain.PaymentStatusCompleted

	if err = s.paymentRepo.Complete(ctx, payment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	debt.PaidAmount = debt.PaidAmount.Add(payment.AmountPaid)
	progress := utils.Progress(debt.PaidAmount, debt.CurrentBalance)
	if progress.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		debt.Status = domain.DebtStatusPaidOff
	}

	if err = s.debtRepo.Update(ctx, debt); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateScheduleCache(ctx, debtID)
	s.notifyMilestones(ctx, debt, progress)

	return payment, nil
}

// GetProjection computes the payoff date and period count from a debt's
// stored terms.
func (s *DebtService) GetProjection(ctx context.Context, debtID uuid.UUID) (*domain.PayoffProjection, error) {
	debt, err := s.GetDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}

	projection, err := amortization.PayoffProjection(debt.CurrentBalance, debt.MinimumPayment, debt.APR, time.Now())
	if err != nil {
		return nil, s.translateAmortizationError(err, debt)
	}

	return projection, nil
}

// GetCostBreakdown splits the debt's lifetime cost into principal and
// interest.
func (s *DebtService) GetCostBreakdown(ctx context.Context, debtID uuid.UUID) (*domain.CostBreakdown, error) {
	debt, err := s.GetDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}

	breakdown, err := amortization.CostBreakdown(debt.CurrentBalance, debt.MinimumPayment, debt.APR)
	if err != nil {
		return nil, s.translateAmortizationError(err, debt)
	}

	return breakdown, nil
}

// GetMonthlyBreakdown returns the per-period principal/interest split for the
// first months periods. months <= 0 uses the configured default.
func (s *DebtService) GetMonthlyBreakdown(ctx context.Context, debtID uuid.UUID, months int) ([]domain.MonthlyBreakdownEntry, error) {
	debt, err := s.GetDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}

	if months <= 0 {
		months = s.config.Business.BreakdownMonths
	}

	entries, err := amortization.MonthlyBreakdown(debt.CurrentBalance, debt.MinimumPayment, debt.APR, months)
	if err != nil {
		return nil, s.translateAmortizationError(err, debt)
	}

	return entries, nil
}

// GetProgress reports the debt's payoff fraction and the milestones it has
// crossed.
func (s *DebtService) GetProgress(ctx context.Context, debtID uuid.UUID) (*domain.ProgressResponse, error) {
	debt, err := s.GetDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}

	progress := utils.Progress(debt.PaidAmount, debt.CurrentBalance)

	var milestones []string
	for _, m := range amortization.MilestonesReached(progress) {
		milestones = append(milestones, milestoneLabel(m))
	}

	return &domain.ProgressResponse{
		DebtID:     debt.ID.String(),
		Progress:   progress,
		Milestones: milestones,
	}, nil
}

// SendPaymentReminders notifies owners of upcoming payments due within the
// configured lead window on reminder-enabled debts. Each payment is reminded
// at most once.
func (s *DebtService) SendPaymentReminders(ctx context.Context, now time.Time) (int, error) {
	payments, err := s.paymentRepo.GetUpcomingDueBetween(ctx, now, now.Add(s.config.GetReminderLead()))
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	sent := 0
	for _, payment := range payments {
		identifier := fmt.Sprintf("payment:%s:reminder", payment.ID)
		if !s.claimOnce(ctx, identifier) {
			continue
		}

		notification := notify.Notification{
			OwnerID:    payment.OwnerID,
			Title:      "Payment due soon",
			Body:       fmt.Sprintf("A payment of %s is due on %s", payment.AmountDue.StringFixed(2), payment.DueDate.Format("Jan 2, 2006")),
			TriggerAt:  payment.DueDate,
			Identifier: identifier,
		}

		if err := s.notifier.Notify(ctx, notification); err != nil {
			log.Printf("reminder delivery failed for payment %s: %v", payment.ID, err)
			continue
		}
		sent++
	}

	return sent, nil
}

// generateSchedule runs the amortization core against a debt's terms and
// materializes the installments as upcoming Payment records.
func (s *DebtService) generateSchedule(debt *domain.Debt) ([]*domain.Payment, error) {
	terms := amortization.Terms{
		Balance:    debt.CurrentBalance,
		Payment:    debt.MinimumPayment,
		APRPercent: debt.APR,
		Frequency:  debt.PaymentFrequency,
		StartDate:  debt.NextPaymentDate,
	}

	installments, err := amortization.BuildSchedule(terms, s.config.Business.ScheduleMaxPeriods)
	if err != nil {
		return nil, s.translateAmortizationError(err, debt)
	}

	now := time.Now()
	schedule := make([]*domain.Payment, 0, len(installments))
	for _, inst := range installments {
		schedule = append(schedule, &domain.Payment{
			ID:         uuid.New(),
			DebtID:     debt.ID,
			OwnerID:    debt.OwnerID,
			Sequence:   inst.Sequence,
			Balance:    inst.Balance,
			AmountDue:  inst.AmountDue,
			AmountPaid: decimal.Zero,
			DueDate:    inst.DueDate,
			Status:     domain.PaymentStatusUpcoming,
			CreatedAt:  now,
		})
	}

	return schedule, nil
}

func (s *DebtService) translateAmortizationError(err error, debt *domain.Debt) error {
	switch {
	case errors.Is(err, customError.ErrUnpayableDebt):
		return customError.WrapUnpayableDebt(debt.ID.String())
	case errors.Is(err, customError.ErrScheduleNotConverged):
		return customError.WrapScheduleNotConverged(debt.ID.String(), s.config.Business.ScheduleMaxPeriods)
	default:
		return err
	}
}

// notifyMilestones sends one notification per newly crossed milestone.
// Redis SETNX keeps delivery idempotent across repeated completions.
func (s *DebtService) notifyMilestones(ctx context.Context, debt *domain.Debt, progress decimal.Decimal) {
	for _, m := range amortization.MilestonesReached(progress) {
		identifier := fmt.Sprintf("debt:%s:milestone:%s", debt.ID, milestoneLabel(m))
		if !s.claimOnce(ctx, identifier) {
			continue
		}

		notification := notify.Notification{
			OwnerID:    debt.OwnerID,
			Title:      "Milestone reached",
			Body:       fmt.Sprintf("You have paid off %s of %s", milestoneLabel(m), debt.Name),
			TriggerAt:  time.Now(),
			Identifier: identifier,
		}

		if err := s.notifier.Notify(ctx, notification); err != nil {
			log.Printf("milestone delivery failed for debt %s: %v", debt.ID, err)
		}
	}
}

// claimOnce atomically claims a notification identifier. Without a cache the
// claim always succeeds and dedup falls back to the caller's own state.
func (s *DebtService) claimOnce(ctx context.Context, key string) bool {
	if s.redis == nil {
		return true
	}

	ok, err := s.redis.SetNX(ctx, key, 1, 0).Result()
	if err != nil {
		log.Printf("cache claim failed for %s: %v", key, err)
		return true
	}
	return ok
}

func (s *DebtService) scheduleCacheKey(debtID uuid.UUID) string {
	return fmt.Sprintf("debt:%s:schedule", debtID)
}

func (s *DebtService) cachedSchedule(ctx context.Context, debtID uuid.UUID) []*domain.Payment {
	if s.redis == nil {
		return nil
	}

	raw, err := s.redis.Get(ctx, s.scheduleCacheKey(debtID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("schedule cache read failed for debt %s: %v", debtID, err)
		}
		return nil
	}

	var payments []*domain.Payment
	if err := json.Unmarshal(raw, &payments); err != nil {
		return nil
	}
	return payments
}

func (s *DebtService) cacheSchedule(ctx context.Context, debtID uuid.UUID, payments []*domain.Payment) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(payments)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, s.scheduleCacheKey(debtID), raw, scheduleCacheTTL).Err(); err != nil {
		log.Printf("schedule cache write failed for debt %s: %v", debtID, err)
	}
}

func (s *DebtService) invalidateScheduleCache(ctx context.Context, debtID uuid.UUID) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, s.scheduleCacheKey(debtID)).Err(); err != nil {
		log.Printf("schedule cache invalidation failed for debt %s: %v", debtID, err)
	}
}

func milestoneLabel(m decimal.Decimal) string {
	return m.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%"
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
