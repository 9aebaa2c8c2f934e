package donations

import (
	"context"
	"fmt"
	"testing"

	"creativeminds-backend/internal/application/payments"
	"creativeminds-backend/internal/application/pool"
	"creativeminds-backend/internal/domain"
	"creativeminds-backend/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubIntents struct {
	err  error
	reqs []payments.IntentRequest
}

func (s *stubIntents) CreateIntent(ctx context.Context, req payments.IntentRequest) (*payments.Intent, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	n := len(s.reqs)
	return &payments.Intent{ID: fmt.Sprintf("pi_%d", n), PaymentURL: fmt.Sprintf("https://pay.example/%d", n)}, nil
}

func newService(db *gorm.DB, intents payments.IntentCreator) *Service {
	return &Service{DB: db, Pool: &pool.Service{DB: db}, Payments: intents, DefaultCurrency: "USD"}
}

func countTransactions(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&domain.Transaction{}).Count(&n).Error)
	return n
}

func TestInitiateDonation_RecordsTransactionAndCreditsPool(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.SeedProject(t, db)
	intents := &stubIntents{}
	user := "alice"

	res, err := newService(db, intents).InitiateDonation(context.Background(), Input{ProjectID: p.ID, Amount: 25, UserID: &user})
	require.NoError(t, err)
	assert.Equal(t, "pi_1", res.IntentID)
	assert.Equal(t, "https://pay.example/1", res.PaymentURL)
	assert.Equal(t, "USD", res.Currency)
	assert.InDelta(t, 25, res.PoolTotal, 0.001)

	require.Len(t, intents.reqs, 1)
	assert.Equal(t, p.ID.String(), intents.reqs[0].ProjectID)
	assert.Equal(t, "Short film", intents.reqs[0].ProjectTitle)

	var txns []domain.Transaction
	require.NoError(t, db.Find(&txns).Error)
	require.Len(t, txns, 1)
	assert.Equal(t, domain.TransactionInitiated, txns[0].Status)
	assert.InDelta(t, 25, txns[0].Amount, 0.001)
	assert.Equal(t, "pi_1", txns[0].IntentID)
	require.NotNil(t, txns[0].UserID)
	assert.Equal(t, "alice", *txns[0].UserID)
	assert.InDelta(t, 25, testutil.PoolTotal(t, db), 0.001)
}

func TestInitiateDonation_IntentFailureWritesNothing(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.SeedProject(t, db)
	intents := &stubIntents{err: fmt.Errorf("%w: provider down", domain.ErrExternalService)}

	_, err := newService(db, intents).InitiateDonation(context.Background(), Input{ProjectID: p.ID, Amount: 25})
	assert.ErrorIs(t, err, domain.ErrExternalService)
	assert.Zero(t, countTransactions(t, db))
	assert.Zero(t, testutil.PoolTotal(t, db))
}

func TestInitiateDonation_Validation(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.SeedProject(t, db)
	intents := &stubIntents{}
	s := newService(db, intents)

	for _, amt := range []float64{0, -10, 0.001} {
		_, err := s.InitiateDonation(context.Background(), Input{ProjectID: p.ID, Amount: amt})
		assert.ErrorIs(t, err, domain.ErrValidation, "amount %v", amt)
	}
	_, err := s.InitiateDonation(context.Background(), Input{ProjectID: p.ID, Amount: 5, Currency: "ZZZ"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.InitiateDonation(context.Background(), Input{ProjectID: uuid.New(), Amount: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, intents.reqs)
	assert.Zero(t, countTransactions(t, db))
}

func TestInitiateDonation_NormalizesCurrencyAndRoundsAmount(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.SeedProject(t, db)
	intents := &stubIntents{}

	res, err := newService(db, intents).InitiateDonation(context.Background(), Input{ProjectID: p.ID, Amount: 10.006, Currency: "eur"})
	require.NoError(t, err)
	assert.Equal(t, "EUR", res.Currency)
	assert.Equal(t, "EUR", intents.reqs[0].Currency)
	assert.InDelta(t, 10.01, res.Amount, 0.0001)
}

func TestInitiateDonation_NoProvider(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.SeedProject(t, db)

	_, err := newService(db, nil).InitiateDonation(context.Background(), Input{ProjectID: p.ID, Amount: 5})
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func TestInitiateDonation_PoolAccumulates(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.SeedProject(t, db)
	s := newService(db, &stubIntents{})

	for i := 0; i < 3; i++ {
		_, err := s.InitiateDonation(context.Background(), Input{ProjectID: p.ID, Amount: 10})
		require.NoError(t, err)
	}
	assert.InDelta(t, 30, testutil.PoolTotal(t, db), 0.001)
	assert.Equal(t, int64(3), countTransactions(t, db))
}
