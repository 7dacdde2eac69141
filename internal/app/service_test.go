package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"
)

// Mock - implementation of the repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, payment domain.Payment) (uuid.UUID, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Payment), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (uuid.UUID, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// Mock - implementation of the acquiring bank
type MockBank struct {
	mock.Mock
}

func (m *MockBank) Authorize(ctx context.Context, req ports.BankRequest) domain.Authorization {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Authorization)
}

// Mock - implementation of the event publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishPaymentProcessed(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func newTestService(repo *MockRepository, bank *MockBank, publisher *MockPublisher) ports.PaymentService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPaymentService(repo, bank, publisher, logger)
}

func strPtr(s string) *string { return &s }

func TestSubmitPayment_AuthorizedByBank(t *testing.T) {
	mockRepo := new(MockRepository)
	mockBank := new(MockBank)
	mockPublisher := new(MockPublisher)
	service := newTestService(mockRepo, mockBank, mockPublisher)

	ctx := context.Background()
	req := domain.PaymentRequest{
		CardNumber:  "2222405343248877",
		ExpiryMonth: 4,
		ExpiryYear:  2025,
		Currency:    "GBP",
		Amount:      100,
		CVV:         123,
	}

	mockBank.On("Authorize", ctx, mock.AnythingOfType("ports.BankRequest")).Return(domain.Authorization{
		Authorized:        true,
		AuthorizationCode: strPtr("0bb07405-6d44-4b50-a14f-7ae0beff13ad"),
		Status:            domain.ProcessingSuccess,
	})
	mockRepo.On("Create", ctx, mock.AnythingOfType("domain.Payment")).Return(uuid.New(), nil)
	mockPublisher.On("PublishPaymentProcessed", ctx, mock.AnythingOfType("domain.Payment")).Return(nil)

	result, err := service.SubmitPayment(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusAuthorized, result.Status)
	assert.Equal(t, "8877", result.CardNumberLastFour)
	assert.Equal(t, 4, result.ExpiryMonth)
	assert.Equal(t, 2025, result.ExpiryYear)
	assert.Equal(t, int64(100), result.Amount)
	assert.Equal(t, "GBP", result.Currency)
	assert.NotEqual(t, uuid.Nil, result.ID)

	mockRepo.AssertExpectations(t)
	mockBank.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestSubmitPayment_SentinelCVVIsRejectedWithoutSideEffects(t *testing.T) {
	mockRepo := new(MockRepository)
	mockBank := new(MockBank)
	mockPublisher := new(MockPublisher)
	service := newTestService(mockRepo, mockBank, mockPublisher)

	req := domain.PaymentRequest{
		CardNumber:  "2222405343248877",
		ExpiryMonth: 4,
		ExpiryYear:  2025,
		Currency:    "GBP",
		Amount:      100,
		CVV:         333,
	}

	result, err := service.SubmitPayment(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, result.Status)
	assert.Equal(t, "8877", result.CardNumberLastFour)

	// A rejected submission must never reach the bank, the store or the broker.
	mockBank.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockPublisher.AssertNotCalled(t, "PublishPaymentProcessed", mock.Anything, mock.Anything)
}

func TestSubmitPayment_DeclinedByBank(t *testing.T) {
	mockRepo := new(MockRepository)
	mockBank := new(MockBank)
	mockPublisher := new(MockPublisher)
	service := newTestService(mockRepo, mockBank, mockPublisher)

	ctx := context.Background()
	req := domain.PaymentRequest{
		CardNumber:  "2222405343248112",
		ExpiryMonth: 1,
		ExpiryYear:  2026,
		Currency:    "USD",
		Amount:      60000,
		CVV:         456,
	}

	mockBank.On("Authorize", ctx, mock.AnythingOfType("ports.BankRequest")).Return(domain.Authorization{
		Authorized: false,
		Status:     domain.ProcessingFailure,
	})
	mockRepo.On("Create", ctx, mock.AnythingOfType("domain.Payment")).Return(uuid.New(), nil)
	mockPublisher.On("PublishPaymentProcessed", ctx, mock.AnythingOfType("domain.Payment")).Return(nil)

	result, err := service.SubmitPayment(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusDeclined, result.Status)
	assert.Equal(t, "8112", result.CardNumberLastFour)
	assert.Equal(t, 1, result.ExpiryMonth)
	assert.Equal(t, 2026, result.ExpiryYear)
	assert.Equal(t, int64(60000), result.Amount)
	assert.Equal(t, "USD", result.Currency)

	mockRepo.AssertExpectations(t)
}

func TestSubmitPayment_BankInternalErrorMapsToErrorOrPending(t *testing.T) {
	mockRepo := new(MockRepository)
	mockBank := new(MockBank)
	mockPublisher := new(MockPublisher)
	service := newTestService(mockRepo, mockBank, mockPublisher)

	ctx := context.Background()
	req := domain.PaymentRequest{
		CardNumber:  "2222405343248877",
		ExpiryMonth: 4,
		ExpiryYear:  2025,
		Currency:    "GBP",
		Amount:      100,
		CVV:         123,
	}

	mockBank.On("Authorize", ctx, mock.AnythingOfType("ports.BankRequest")).Return(domain.Authorization{
		Authorized: false,
		Status:     domain.ProcessingInternalError,
	})
	mockRepo.On("Create", ctx, mock.AnythingOfType("domain.Payment")).Return(uuid.New(), nil)
	mockPublisher.On("PublishPaymentProcessed", ctx, mock.AnythingOfType("domain.Payment")).Return(nil)

	result, err := service.SubmitPayment(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusErrorOrPending, result.Status)
	mockRepo.AssertExpectations(t)
}

func TestSubmitPayment_BankRequestFormatting(t *testing.T) {
	mockRepo := new(MockRepository)
	mockBank := new(MockBank)
	mockPublisher := new(MockPublisher)
	service := newTestService(mockRepo, mockBank, mockPublisher)

	ctx := context.Background()
	req := domain.PaymentRequest{
		CardNumber:  "22224053432488",
		ExpiryMonth: 4,
		ExpiryYear:  2025,
		Currency:    "EUR",
		Amount:      250,
		CVV:         1234,
	}

	var captured ports.BankRequest
	mockBank.On("Authorize", ctx, mock.AnythingOfType("ports.BankRequest")).Run(func(args mock.Arguments) {
		captured = args.Get(1).(ports.BankRequest)
	}).Return(domain.Authorization{Authorized: true, Status: domain.ProcessingSuccess})
	mockRepo.On("Create", ctx, mock.AnythingOfType("domain.Payment")).Return(uuid.New(), nil)
	mockPublisher.On("PublishPaymentProcessed", ctx, mock.AnythingOfType("domain.Payment")).Return(nil)

	_, err := service.SubmitPayment(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, "22224053432488", captured.CardNumber)
	assert.Equal(t, "04/2025", captured.ExpiryDate)
	assert.Equal(t, "EUR", captured.Currency)
	assert.Equal(t, int64(250), captured.Amount)
	assert.Equal(t, 1234, captured.CVV)
}

func TestSubmitPayment_StoreFailureSurfacesAsError(t *testing.T) {
	mockRepo := new(MockRepository)
	mockBank := new(MockBank)
	mockPublisher := new(MockPublisher)
	service := newTestService(mockRepo, mockBank, mockPublisher)

	ctx := context.Background()
	req := domain.PaymentRequest{
		CardNumber:  "2222405343248877",
		ExpiryMonth: 4,
		ExpiryYear:  2025,
		Currency:    "GBP",
		Amount:      100,
		CVV:         123,
	}

	mockBank.On("Authorize", ctx, mock.AnythingOfType("ports.BankRequest")).Return(domain.Authorization{
		Authorized: true,
		Status:     domain.ProcessingSuccess,
	})
	mockRepo.On("Create", ctx, mock.AnythingOfType("domain.Payment")).Return(uuid.Nil, domain.ErrStorageUnavailable)

	_, err := service.SubmitPayment(ctx, req)

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	mockPublisher.AssertNotCalled(t, "PublishPaymentProcessed", mock.Anything, mock.Anything)
}

func TestSubmitPayment_PublishFailureDoesNotFailSubmission(t *testing.T) {
	mockRepo := new(MockRepository)
	mockBank := new(MockBank)
	mockPublisher := new(MockPublisher)
	service := newTestService(mockRepo, mockBank, mockPublisher)

	ctx := context.Background()
	req := domain.PaymentRequest{
		CardNumber:  "2222405343248877",
		ExpiryMonth: 4,
		ExpiryYear:  2025,
		Currency:    "GBP",
		Amount:      100,
		CVV:         123,
	}

	mockBank.On("Authorize", ctx, mock.AnythingOfType("ports.BankRequest")).Return(domain.Authorization{
		Authorized: true,
		Status:     domain.ProcessingSuccess,
	})
	mockRepo.On("Create", ctx, mock.AnythingOfType("domain.Payment")).Return(uuid.New(), nil)
	mockPublisher.On("PublishPaymentProcessed", ctx, mock.AnythingOfType("domain.Payment")).Return(errors.New("broker is down"))

	result, err := service.SubmitPayment(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusAuthorized, result.Status)
}

func TestGetPayment_PropagatesNotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	mockBank := new(MockBank)
	mockPublisher := new(MockPublisher)
	service := newTestService(mockRepo, mockBank, mockPublisher)

	ctx := context.Background()
	id := uuid.New()
	mockRepo.On("Get", ctx, id).Return(domain.Payment{}, domain.ErrPaymentNotFound)

	_, err := service.GetPayment(ctx, id)

	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestGetPayment_ReturnsStoredRecord(t *testing.T) {
	mockRepo := new(MockRepository)
	mockBank := new(MockBank)
	mockPublisher := new(MockPublisher)
	service := newTestService(mockRepo, mockBank, mockPublisher)

	ctx := context.Background()
	stored := domain.Payment{
		ID:                 uuid.New(),
		Status:             domain.StatusAuthorized,
		CardNumberLastFour: "8877",
		ExpiryMonth:        4,
		ExpiryYear:         2025,
		Currency:           "GBP",
		Amount:             100,
	}
	mockRepo.On("Get", ctx, stored.ID).Return(stored, nil)

	result, err := service.GetPayment(ctx, stored.ID)

	assert.NoError(t, err)
	assert.Equal(t, stored, result)
}
