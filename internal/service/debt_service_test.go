package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/debtfree/engine/internal/config"
	"github.com/debtfree/engine/internal/domain"
	customError "github.com/debtfree/engine/pkg/errors"
	"github.com/debtfree/engine/tests/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		Business: config.BusinessConfig{
			ScheduleMaxPeriods: 1200,
			BreakdownMonths:    12,
			ReminderLeadDays:   3,
		},
	}
}

func newTestService(debtRepo *mocks.MockDebtRepository, paymentRepo *mocks.MockPaymentRepository, notifier *mocks.MockNotifier) *DebtService {
	return NewDebtService(debtRepo, paymentRepo, nil, notifier, testConfig())
}

func TestCreateDebt_Success(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	mockDebtRepo.On("CreateWithSchedule", mock.Anything,
		mock.MatchedBy(func(debt *domain.Debt) bool {
			return debt.OwnerID == "user-1" && debt.Status == domain.DebtStatusActive
		}),
		mock.MatchedBy(func(schedule []*domain.Payment) bool {
			return len(schedule) == 10
		}),
	).Return(nil)

	debt, schedule, err := svc.CreateDebt(context.Background(), &domain.CreateDebtRequest{
		OwnerID:         "user-1",
		Name:            "Car loan",
		CurrentBalance:  decimal.NewFromInt(1000),
		APR:             decimal.Zero,
		MinimumPayment:  decimal.NewFromInt(100),
		NextPaymentDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.Equal(t, "user-1", debt.OwnerID)
	assert.Equal(t, domain.FrequencyMonthly, debt.PaymentFrequency)
	assert.Equal(t, domain.MinPaymentCalcFixed, debt.MinPaymentCalc)
	assert.True(t, debt.PaidAmount.IsZero())
	assert.Len(t, schedule, 10)

	for i, payment := range schedule {
		assert.Equal(t, debt.ID, payment.DebtID)
		assert.Equal(t, i+1, payment.Sequence)
		assert.Equal(t, domain.PaymentStatusUpcoming, payment.Status)
		assert.True(t, payment.AmountPaid.IsZero())
		assert.Nil(t, payment.PaidDate)
	}

	mockDebtRepo.AssertExpectations(t)
}

func TestCreateDebt_Unpayable(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	// monthly interest of 20 exceeds the minimum payment of 10; generation
	// must fail without touching the store
	_, _, err := svc.CreateDebt(context.Background(), &domain.CreateDebtRequest{
		OwnerID:         "user-1",
		Name:            "Bad terms",
		CurrentBalance:  decimal.NewFromInt(1000),
		APR:             decimal.NewFromInt(24),
		MinimumPayment:  decimal.NewFromInt(10),
		NextPaymentDate: time.Now(),
	})

	assert.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrScheduleNotConverged)
	mockDebtRepo.AssertNotCalled(t, "CreateWithSchedule", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateDebt_InvalidTerms(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	_, _, err := svc.CreateDebt(context.Background(), &domain.CreateDebtRequest{
		OwnerID:         "user-1",
		Name:            "Zero payment",
		CurrentBalance:  decimal.NewFromInt(1000),
		MinimumPayment:  decimal.Zero,
		NextPaymentDate: time.Now(),
	})

	assert.ErrorIs(t, err, customError.ErrInvalidDebtTerms)
}

func TestUpdateDebtTerms_RegeneratesSchedule(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	debtID := uuid.New()
	existing := &domain.Debt{
		ID:               debtID,
		OwnerID:          "user-1",
		Name:             "Card",
		CurrentBalance:   decimal.NewFromInt(1000),
		APR:              decimal.Zero,
		MinimumPayment:   decimal.NewFromInt(100),
		PaymentFrequency: domain.FrequencyMonthly,
		NextPaymentDate:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		PaidAmount:       decimal.Zero,
		Status:           domain.DebtStatusActive,
	}

	mockDebtRepo.On("GetByID", mock.Anything, debtID).Return(existing, nil)
	mockDebtRepo.On("ReplaceSchedule", mock.Anything,
		mock.MatchedBy(func(debt *domain.Debt) bool { return debt.ID == debtID }),
		mock.MatchedBy(func(schedule []*domain.Payment) bool { return len(schedule) == 5 }),
	).Return(nil)

	debt, schedule, err := svc.UpdateDebtTerms(context.Background(), debtID, &domain.UpdateDebtTermsRequest{
		CurrentBalance:  decimal.NewFromInt(1000),
		APR:             decimal.Zero,
		MinimumPayment:  decimal.NewFromInt(200),
		NextPaymentDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.True(t, debt.MinimumPayment.Equal(decimal.NewFromInt(200)))
	assert.Len(t, schedule, 5)

	mockDebtRepo.AssertExpectations(t)
}

func TestCompletePayment_Success(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	debtID := uuid.New()
	paymentID := uuid.New()

	debt := &domain.Debt{
		ID:             debtID,
		OwnerID:        "user-1",
		Name:           "Card",
		CurrentBalance: decimal.NewFromInt(1000),
		MinimumPayment: decimal.NewFromInt(100),
		PaidAmount:     decimal.Zero,
		Status:         domain.DebtStatusActive,
	}

	payment := &domain.Payment{
		ID:        paymentID,
		DebtID:    debtID,
		OwnerID:   "user-1",
		Sequence:  1,
		AmountDue: decimal.NewFromInt(100),
		Status:    domain.PaymentStatusUpcoming,
	}

	mockDebtRepo.On("GetByID", mock.Anything, debtID).Return(debt, nil)
	mockPaymentRepo.On("GetByID", mock.Anything, paymentID).Return(payment, nil)
	mockPaymentRepo.On("Complete", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.Status == domain.PaymentStatusCompleted && p.PaidDate != nil
	})).Return(nil)
	mockDebtRepo.On("Update", mock.Anything, mock.MatchedBy(func(d *domain.Debt) bool {
		return d.PaidAmount.Equal(decimal.NewFromInt(500))
	})).Return(nil)
	mockNotifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

	completed, err := svc.CompletePayment(context.Background(), debtID, paymentID, decimal.NewFromInt(500))

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, completed.Status)
	assert.True(t, completed.AmountPaid.Equal(decimal.NewFromInt(500)))
	assert.NotNil(t, completed.PaidDate)

	// paying 500 of 1000 crosses the 25% and 50% milestones
	mockNotifier.AssertNumberOfCalls(t, "Notify", 2)
	mockDebtRepo.AssertExpectations(t)
	mockPaymentRepo.AssertExpectations(t)
}

func TestCompletePayment_MarksDebtPaidOff(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	debtID := uuid.New()
	paymentID := uuid.New()

	debt := &domain.Debt{
		ID:             debtID,
		OwnerID:        "user-1",
		Name:           "Card",
		CurrentBalance: decimal.NewFromInt(1000),
		MinimumPayment: decimal.NewFromInt(100),
		PaidAmount:     decimal.NewFromInt(900),
		Status:         domain.DebtStatusActive,
	}

	payment := &domain.Payment{
		ID:       paymentID,
		DebtID:   debtID,
		OwnerID:  "user-1",
		Sequence: 10,
		Status:   domain.PaymentStatusUpcoming,
	}

	mockDebtRepo.On("GetByID", mock.Anything, debtID).Return(debt, nil)
	mockPaymentRepo.On("GetByID", mock.Anything, paymentID).Return(payment, nil)
	mockPaymentRepo.On("Complete", mock.Anything, mock.Anything).Return(nil)
	mockDebtRepo.On("Update", mock.Anything, mock.MatchedBy(func(d *domain.Debt) bool {
		return d.Status == domain.DebtStatusPaidOff
	})).Return(nil)
	mockNotifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.CompletePayment(context.Background(), debtID, paymentID, decimal.NewFromInt(100))

	assert.NoError(t, err)
	// full payoff crosses every milestone
	mockNotifier.AssertNumberOfCalls(t, "Notify", 4)
	mockDebtRepo.AssertExpectations(t)
}

func TestCompletePayment_AlreadyCompleted(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	debtID := uuid.New()
	paymentID := uuid.New()
	paidDate := time.Now()

	mockDebtRepo.On("GetByID", mock.Anything, debtID).Return(&domain.Debt{
		ID:             debtID,
		CurrentBalance: decimal.NewFromInt(1000),
	}, nil)
	mockPaymentRepo.On("GetByID", mock.Anything, paymentID).Return(&domain.Payment{
		ID:       paymentID,
		DebtID:   debtID,
		Status:   domain.PaymentStatusCompleted,
		PaidDate: &paidDate,
	}, nil)

	_, err := svc.CompletePayment(context.Background(), debtID, paymentID, decimal.NewFromInt(100))

	assert.ErrorIs(t, err, customError.ErrPaymentAlreadyCompleted)
	mockPaymentRepo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestCompletePayment_WrongDebt(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	debtID := uuid.New()
	paymentID := uuid.New()

	mockDebtRepo.On("GetByID", mock.Anything, debtID).Return(&domain.Debt{
		ID:             debtID,
		CurrentBalance: decimal.NewFromInt(1000),
	}, nil)
	mockPaymentRepo.On("GetByID", mock.Anything, paymentID).Return(&domain.Payment{
		ID:     paymentID,
		DebtID: uuid.New(),
		Status: domain.PaymentStatusUpcoming,
	}, nil)

	_, err := svc.CompletePayment(context.Background(), debtID, paymentID, decimal.NewFromInt(100))

	assert.ErrorIs(t, err, customError.ErrPaymentNotFound)
}

func TestCompletePayment_InvalidAmount(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	_, err := svc.CompletePayment(context.Background(), uuid.New(), uuid.New(), decimal.Zero)

	assert.ErrorIs(t, err, customError.ErrInvalidPaymentAmount)
	mockDebtRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetDebt_NotFound(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	debtID := uuid.New()
	mockDebtRepo.On("GetByID", mock.Anything, debtID).Return(nil, sql.ErrNoRows)

	_, err := svc.GetDebt(context.Background(), debtID)

	assert.ErrorIs(t, err, customError.ErrDebtNotFound)
}

func TestGetProjection(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	debtID := uuid.New()
	mockDebtRepo.On("GetByID", mock.Anything, debtID).Return(&domain.Debt{
		ID:             debtID,
		CurrentBalance: decimal.NewFromInt(100000),
		MinimumPayment: decimal.NewFromInt(5000),
		APR:            decimal.NewFromInt(12),
	}, nil)

	projection, err := svc.GetProjection(context.Background(), debtID)

	assert.NoError(t, err)
	assert.Equal(t, 23, projection.Periods)
}

func TestGetProjection_Unpayable(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	debtID := uuid.New()
	mockDebtRepo.On("GetByID", mock.Anything, debtID).Return(&domain.Debt{
		ID:             debtID,
		CurrentBalance: decimal.NewFromInt(1000),
		MinimumPayment: decimal.NewFromInt(10),
		APR:            decimal.NewFromInt(24),
	}, nil)

	_, err := svc.GetProjection(context.Background(), debtID)

	assert.ErrorIs(t, err, customError.ErrUnpayableDebt)
}

func TestGetProgress_Milestones(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	debtID := uuid.New()
	mockDebtRepo.On("GetByID", mock.Anything, debtID).Return(&domain.Debt{
		ID:             debtID,
		CurrentBalance: decimal.NewFromInt(1000),
		PaidAmount:     decimal.NewFromInt(500),
	}, nil)

	progress, err := svc.GetProgress(context.Background(), debtID)

	assert.NoError(t, err)
	assert.True(t, progress.Progress.Equal(decimal.NewFromFloat(0.5)))
	assert.Equal(t, []string{"25%", "50%"}, progress.Milestones)
}

func TestGetProgress_ClampsOverpayment(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	debtID := uuid.New()
	mockDebtRepo.On("GetByID", mock.Anything, debtID).Return(&domain.Debt{
		ID:             debtID,
		CurrentBalance: decimal.NewFromInt(1000),
		PaidAmount:     decimal.NewFromInt(1100),
	}, nil)

	progress, err := svc.GetProgress(context.Background(), debtID)

	assert.NoError(t, err)
	assert.True(t, progress.Progress.Equal(decimal.NewFromInt(1)))
	assert.Len(t, progress.Milestones, 4)
}

func TestSendPaymentReminders(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	due := []*domain.Payment{
		{ID: uuid.New(), OwnerID: "user-1", AmountDue: decimal.NewFromInt(100), DueDate: now.AddDate(0, 0, 1), Status: domain.PaymentStatusUpcoming},
		{ID: uuid.New(), OwnerID: "user-2", AmountDue: decimal.NewFromInt(250), DueDate: now.AddDate(0, 0, 2), Status: domain.PaymentStatusUpcoming},
	}

	mockPaymentRepo.On("GetUpcomingDueBetween", mock.Anything, now, now.Add(72*time.Hour)).Return(due, nil)
	mockNotifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

	sent, err := svc.SendPaymentReminders(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, 2, sent)
	mockNotifier.AssertNumberOfCalls(t, "Notify", 2)
}

func TestListPayments(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	upcoming := []*domain.Payment{
		{ID: uuid.New(), OwnerID: "user-1", Status: domain.PaymentStatusUpcoming},
	}

	// empty status defaults to upcoming
	mockPaymentRepo.On("GetByOwnerAndStatus", mock.Anything, "user-1", domain.PaymentStatusUpcoming).Return(upcoming, nil)

	payments, err := svc.ListPayments(context.Background(), "user-1", "")
	assert.NoError(t, err)
	assert.Len(t, payments, 1)

	_, err = svc.ListPayments(context.Background(), "user-1", "overdue")
	assert.ErrorIs(t, err, customError.ErrInvalidDebtTerms)
}

func TestDeleteDebt(t *testing.T) {
	mockDebtRepo := &mocks.MockDebtRepository{}
	mockPaymentRepo := &mocks.MockPaymentRepository{}
	mockNotifier := &mocks.MockNotifier{}
	svc := newTestService(mockDebtRepo, mockPaymentRepo, mockNotifier)

	debtID := uuid.New()
	mockDebtRepo.On("GetByID", mock.Anything, debtID).Return(&domain.Debt{ID: debtID, CurrentBalance: decimal.NewFromInt(100)}, nil)
	mockDebtRepo.On("Delete", mock.Anything, debtID).Return(nil)

	err := svc.DeleteDebt(context.Background(), debtID)

	assert.NoError(t, err)
	mockDebtRepo.AssertExpectations(t)
}
