package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marlowpress/storefront-backend/internal/checkout"
	"github.com/marlowpress/storefront-backend/internal/mailer"
	"github.com/marlowpress/storefront-backend/pkg/db/models"
	"github.com/marlowpress/storefront-backend/pkg/enums"
	pkgerrors "github.com/marlowpress/storefront-backend/pkg/errors"
)

type stubRepo struct {
	orders    map[uuid.UUID]*models.Order
	createErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (r *stubRepo) Create(_ context.Context, order *models.Order) (*models.Order, bool, error) {
	if r.createErr != nil {
		return nil, false, r.createErr
	}
	if existing, ok := r.orders[order.ID]; ok {
		return existing, false, nil
	}
	r.orders[order.ID] = order
	return order, true, nil
}

func (r *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := r.orders[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubMailer struct {
	sent    []mailer.Email
	sendErr error
}

func (m *stubMailer) Send(_ context.Context, email mailer.Email) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, email)
	return nil
}

func validInput() checkout.OrderInput {
	return checkout.OrderInput{
		ID:             uuid.New(),
		Email:          "a@b.com",
		AddressName:    "Jane Doe",
		AddressStreet:  "123 Mulberry Ln",
		AddressCity:    "Wadsworth",
		AddressState:   "OH",
		AddressCountry: "US",
		AddressZip:     "44281",
		Amount:         857,
		Shipping:       399,
		Taxes:          0,
		CCFeeOffset:    42,
		PaymentID:      "pi_abc123",
		ShippingLevel:  enums.ShippingLevelMail,
		Lang:           "en",
		Source:         enums.OrderSourceWebsite,
		PrintJobStatus: enums.PrintJobStatusPending,
		Items: []checkout.OrderItemInput{{
			EditionID:      "ed-1",
			EditionType:    enums.EditionTypeModernized,
			Quantity:       1,
			PrintSize:      enums.PrintSizeM,
			NumPages:       []int{166},
			Title:          "Journal of George Fox",
			UnitPriceCents: 416,
		}},
	}
}

func newTestService(t *testing.T, repo Repository, mail mailer.Mailer) Service {
	t.Helper()
	svc, err := NewService(repo, mail, nil, nil)
	require.NoError(t, err)
	return svc
}

func TestCreatePersistsOrder(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo, &stubMailer{})

	input := validInput()
	order, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, input.ID, order.ID)
	assert.Equal(t, 857, order.AmountCents)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 416, order.Items[0].UnitPriceCents)
}

func TestCreateReplayReturnsExisting(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo, &stubMailer{})
	ctx := context.Background()

	input := validInput()
	first, err := svc.Create(ctx, input)
	require.NoError(t, err)

	second, err := svc.Create(ctx, input)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Len(t, repo.orders, 1)
}

func TestCreateRejectsAmountMismatch(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo(), &stubMailer{})

	input := validInput()
	input.Amount = 900

	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, map[string]any{"submitted": 900, "computed": 857}, typed.Details())
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*checkout.OrderInput)
	}{
		{"missing id", func(in *checkout.OrderInput) { in.ID = uuid.Nil }},
		{"no items", func(in *checkout.OrderInput) { in.Items = nil }},
		{"missing payment id", func(in *checkout.OrderInput) { in.PaymentID = "" }},
		{"bad shipping level", func(in *checkout.OrderInput) { in.ShippingLevel = "overnight" }},
		{"bad source", func(in *checkout.OrderInput) { in.Source = "kiosk" }},
		{"bad print job status", func(in *checkout.OrderInput) { in.PrintJobStatus = "queued" }},
		{"bad edition type", func(in *checkout.OrderInput) { in.Items[0].EditionType = "abridged" }},
		{"zero quantity", func(in *checkout.OrderInput) { in.Items[0].Quantity = 0 }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(t, newStubRepo(), &stubMailer{})
			input := validInput()
			tc.mutate(&input)

			_, err := svc.Create(context.Background(), input)
			require.Error(t, err)
			assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
		})
	}
}

func TestCreateWrapsRepositoryFailure(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	repo.createErr = errors.New("connection reset")
	svc := newTestService(t, repo, &stubMailer{})

	_, err := svc.Create(context.Background(), validInput())
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDependency))
}

func TestSendConfirmationEmail(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	mail := &stubMailer{}
	svc := newTestService(t, repo, mail)
	ctx := context.Background()

	order, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.SendConfirmationEmail(ctx, order.ID))
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "a@b.com", mail.sent[0].To)
	assert.Contains(t, mail.sent[0].Body, order.ID.String())
	assert.Contains(t, mail.sent[0].Body, "$8.57")
}

func TestSendConfirmationEmailUnknownOrder(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo(), &stubMailer{})

	err := svc.SendConfirmationEmail(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestSendConfirmationEmailProviderFailure(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	mail := &stubMailer{sendErr: errors.New("smtp refused")}
	svc := newTestService(t, repo, mail)
	ctx := context.Background()

	order, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	err = svc.SendConfirmationEmail(ctx, order.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDependency))
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, &stubMailer{}, nil, nil)
	require.Error(t, err)

	_, err = NewService(newStubRepo(), nil, nil, nil)
	require.Error(t, err)
}
