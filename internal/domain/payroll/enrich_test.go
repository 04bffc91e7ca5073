package payroll

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListAssignments(ctx context.Context, token string, q Query) (AssignmentPage, error) {
	args := m.Called(ctx, token, q)
	page, _ := args.Get(0).(AssignmentPage)
	return page, args.Error(1)
}

func (m *MockBackend) Payment(ctx context.Context, token, paymentID string) (Payment, error) {
	args := m.Called(ctx, token, paymentID)
	payment, _ := args.Get(0).(Payment)
	return payment, args.Error(1)
}

func (m *MockBackend) CreatePayment(ctx context.Context, token string, req CreatePaymentRequest) (map[string]any, error) {
	args := m.Called(ctx, token, req)
	out, _ := args.Get(0).(map[string]any)
	return out, args.Error(1)
}

func (m *MockBackend) CancelPayments(ctx context.Context, token string, req CancelPaymentsRequest) (map[string]any, error) {
	args := m.Called(ctx, token, req)
	out, _ := args.Get(0).(map[string]any)
	return out, args.Error(1)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnrichFetchesSharedPaymentOnce(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Payment", mock.Anything, "tok", "P1").Return(Payment{ID: "P1", Expense: 30}, nil).Once()
	backend.On("Payment", mock.Anything, "tok", "P2").Return(Payment{ID: "P2", Expense: 5}, nil).Once()

	records := []AssignmentRecord{
		{Code: "B2", Date: "2024-01-01", Salary: 100, PaymentID: "P1"},
		{Code: "B2", Date: "2024-01-02", Salary: 100, PaymentID: "P1"},
		{Code: "C3", Date: "2024-01-02", Salary: 50, PaymentID: "P1"},
		{Code: "C3", Date: "2024-01-03", Salary: 50, PaymentID: "P2"},
		{Code: "D4", Date: "2024-01-03", Salary: 70},
	}
	set := Aggregate(records, time.UTC)
	require.NoError(t, NewEnricher(backend, 4, quietLogger()).Enrich(context.Background(), "tok", set))

	b2, _ := set.Get("B2")
	assert.Equal(t, []string{"P1"}, b2.PaymentIDs)
	assert.Equal(t, 30.0, b2.Expense)
	assert.Equal(t, 170.0, b2.NetTotal)

	c3, _ := set.Get("C3")
	assert.Equal(t, 35.0, c3.Expense)
	assert.Equal(t, 65.0, c3.NetTotal)

	d4, _ := set.Get("D4")
	assert.False(t, d4.Paid())
	assert.Equal(t, 70.0, d4.NetTotal)

	backend.AssertNumberOfCalls(t, "Payment", 2)
}

func TestEnrichTreatsFailedLookupAsZero(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Payment", mock.Anything, "tok", "P1").Return(Payment{}, errors.New("boom"))
	backend.On("Payment", mock.Anything, "tok", "P2").Return(Payment{Expense: 12.5}, nil)

	set := Aggregate([]AssignmentRecord{
		{Code: "A1", Date: "2024-01-01", Salary: 100, Bonus: 20, PaymentID: "P1"},
		{Code: "B2", Date: "2024-01-01", Salary: 100, PaymentID: "P2"},
	}, time.UTC)
	require.NoError(t, NewEnricher(backend, 1, quietLogger()).Enrich(context.Background(), "tok", set))

	a1, _ := set.Get("A1")
	assert.Equal(t, 0.0, a1.Expense)
	assert.Equal(t, 120.0, a1.NetTotal)
	assert.True(t, a1.Paid())

	b2, _ := set.Get("B2")
	assert.Equal(t, 12.5, b2.Expense)
	assert.Equal(t, 87.5, b2.NetTotal)
}

func TestEnrichReturnsCancellation(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Payment", mock.Anything, "tok", "P1").Return(Payment{}, context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	set := Aggregate([]AssignmentRecord{{Code: "A1", Date: "2024-01-01", Salary: 100, PaymentID: "P1"}}, time.UTC)
	err := NewEnricher(backend, 1, quietLogger()).Enrich(ctx, "tok", set)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnrichEmptySetMakesNoCalls(t *testing.T) {
	backend := new(MockBackend)
	require.NoError(t, NewEnricher(backend, 1, quietLogger()).Enrich(context.Background(), "tok", NewRowSet()))
	backend.AssertNotCalled(t, "Payment", mock.Anything, mock.Anything, mock.Anything)
}

func TestStats(t *testing.T) {
	rows := []OperatorRow{
		{Code: "A", GrandTotal: 100, PaymentIDs: []string{"P1"}},
		{Code: "B", GrandTotal: 50},
		{Code: "C", GrandTotal: 25, PaymentIDs: []string{}},
	}
	stats := Stats(rows)
	assert.Equal(t, PaymentStats{Paid: 1, Unpaid: 2, Total: 3, PaidAmount: 100, UnpaidAmount: 75}, stats)
}
