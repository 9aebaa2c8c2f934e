package distributions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"creativeminds-backend/internal/application/analytics"
	"creativeminds-backend/internal/domain"
	"creativeminds-backend/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubAnalytics struct {
	revenue float64
	err     error
}

func (s *stubAnalytics) ProjectStats(ctx context.Context, projectID uuid.UUID) (*analytics.Stats, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out analytics.Stats
	out.Monetization.EstimatedRevenueUSD = s.revenue
	return &out, nil
}

func strp(s string) *string { return &s }

func contribute(t *testing.T, db *gorm.DB, p *domain.Project, amount float64, user *string, at time.Time) *domain.Transaction {
	t.Helper()
	tx := &domain.Transaction{
		ProjectID: p.ID,
		Amount:    amount,
		Currency:  "USD",
		IntentID:  uuid.NewString(),
		Status:    domain.TransactionInitiated,
		UserID:    user,
		CreatedAt: at,
	}
	require.NoError(t, db.Create(tx).Error)
	return tx
}

func completedProject(t *testing.T, db *gorm.DB) *domain.Project {
	return testutil.SeedProject(t, db, 0, 1, 2, 3)
}

func TestDistribute_SplitsProRataAndCreditsWallets(t *testing.T) {
	db := testutil.NewDB(t)
	p := completedProject(t, db)
	base := time.Now().Add(-time.Hour)
	a := contribute(t, db, p, 100, strp("alice"), base)
	b := contribute(t, db, p, 300, strp("bob"), base.Add(time.Minute))

	s := &Service{DB: db}
	res, err := s.Distribute(context.Background(), p.ID, 1000)
	require.NoError(t, err)
	assert.False(t, res.AlreadyDistributed)
	assert.InDelta(t, 400, res.TotalContributed, 0.001)
	require.Len(t, res.Payouts, 2)
	assert.Equal(t, a.ID, res.Payouts[0].TransactionID)
	assert.Equal(t, 250.0, res.Payouts[0].Share)
	assert.Equal(t, 750.0, res.Payouts[1].Share)

	var got domain.Transaction
	require.NoError(t, db.Where("id = ?", a.ID).First(&got).Error)
	assert.Equal(t, domain.TransactionDistributed, got.Status)
	require.NotNil(t, got.DividendPaid)
	assert.InDelta(t, 250, *got.DividendPaid, 0.001)
	assert.InDelta(t, 100, got.Amount, 0.001)

	var w domain.Wallet
	require.NoError(t, db.Where("user_id = ?", "bob").First(&w).Error)
	assert.InDelta(t, 750, w.Earnings, 0.001)
	_ = b

	proj := testutil.ReloadProject(t, db, p)
	assert.True(t, proj.RevenueDistributed)
	assert.InDelta(t, 1000, proj.TotalDistributed, 0.001)
	assert.NotNil(t, proj.DistributedAt)
}

func TestDistribute_SecondCallIsNoop(t *testing.T) {
	db := testutil.NewDB(t)
	p := completedProject(t, db)
	contribute(t, db, p, 100, strp("alice"), time.Now())

	s := &Service{DB: db}
	_, err := s.Distribute(context.Background(), p.ID, 500)
	require.NoError(t, err)

	res, err := s.Distribute(context.Background(), p.ID, 900)
	require.NoError(t, err)
	assert.True(t, res.AlreadyDistributed)
	assert.Empty(t, res.Payouts)

	var w domain.Wallet
	require.NoError(t, db.Where("user_id = ?", "alice").First(&w).Error)
	assert.InDelta(t, 500, w.Earnings, 0.001)
}

func TestDistribute_WalletAccumulatesAcrossContributions(t *testing.T) {
	db := testutil.NewDB(t)
	p := completedProject(t, db)
	now := time.Now()
	contribute(t, db, p, 50, strp("alice"), now)
	contribute(t, db, p, 50, strp("alice"), now.Add(time.Second))
	require.NoError(t, db.Create(&domain.Wallet{UserID: "alice", Earnings: 5}).Error)

	_, err := (&Service{DB: db}).Distribute(context.Background(), p.ID, 100)
	require.NoError(t, err)

	var w domain.Wallet
	require.NoError(t, db.Where("user_id = ?", "alice").First(&w).Error)
	assert.InDelta(t, 105, w.Earnings, 0.001)
}

func TestDistribute_NoContributions(t *testing.T) {
	db := testutil.NewDB(t)
	p := completedProject(t, db)

	_, err := (&Service{DB: db}).Distribute(context.Background(), p.ID, 100)
	assert.ErrorIs(t, err, domain.ErrNoContributions)
	assert.False(t, testutil.ReloadProject(t, db, p).RevenueDistributed)
}

func TestDistribute_RequiresCompletedProject(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.SeedProject(t, db, 0, 1)
	contribute(t, db, p, 100, strp("alice"), time.Now())

	_, err := (&Service{DB: db}).Distribute(context.Background(), p.ID, 100)
	assert.ErrorIs(t, err, domain.ErrProjectNotCompleted)
}

func TestDistribute_StrandedSharesReported(t *testing.T) {
	db := testutil.NewDB(t)
	p := completedProject(t, db)
	now := time.Now()
	contribute(t, db, p, 100, nil, now)
	contribute(t, db, p, 100, strp("bob"), now.Add(time.Second))

	res, err := (&Service{DB: db}).Distribute(context.Background(), p.ID, 50)
	require.NoError(t, err)
	assert.InDelta(t, 25, res.StrandedTotal, 0.001)

	var count int64
	require.NoError(t, db.Model(&domain.Wallet{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDistribute_UsesAnalyticsEstimate(t *testing.T) {
	db := testutil.NewDB(t)
	p := completedProject(t, db)
	contribute(t, db, p, 10, strp("alice"), time.Now())

	s := &Service{DB: db, Analytics: &stubAnalytics{revenue: 42.424}}
	res, err := s.Distribute(context.Background(), p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 42.42, res.TotalRevenue)
	assert.Equal(t, 42.42, res.Payouts[0].Share)
}

func TestDistribute_AnalyticsUnavailable(t *testing.T) {
	db := testutil.NewDB(t)
	p := completedProject(t, db)
	contribute(t, db, p, 10, strp("alice"), time.Now())

	s := &Service{DB: db, Analytics: &stubAnalytics{err: errors.Join(domain.ErrExternalService, errors.New("timeout"))}}
	_, err := s.Distribute(context.Background(), p.ID, 0)
	assert.ErrorIs(t, err, domain.ErrExternalService)

	_, err = (&Service{DB: db}).Distribute(context.Background(), p.ID, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = (&Service{DB: db}).Distribute(context.Background(), p.ID, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDistribute_UnknownProject(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := (&Service{DB: db}).Distribute(context.Background(), uuid.New(), 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDistribute_FailureRollsBackEverything(t *testing.T) {
	db := testutil.NewDB(t)
	p := completedProject(t, db)
	contribute(t, db, p, 100, strp("alice"), time.Now())

	boom := errors.New("wallet table locked")
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_wallets", func(tx *gorm.DB) {
		if tx.Statement.Table == "wallets" {
			_ = tx.AddError(boom)
		}
	}))
	_, err := (&Service{DB: db}).Distribute(context.Background(), p.ID, 100)
	assert.ErrorIs(t, err, boom)
	require.NoError(t, db.Callback().Create().Remove("test:fail_wallets"))

	assert.False(t, testutil.ReloadProject(t, db, p).RevenueDistributed)
	var got domain.Transaction
	require.NoError(t, db.Where("project_id = ?", p.ID).First(&got).Error)
	assert.Equal(t, domain.TransactionInitiated, got.Status)
	assert.Nil(t, got.DividendPaid)
}

func TestDistribute_RepeatWithoutRevenueSkipsEstimate(t *testing.T) {
	db := testutil.NewDB(t)
	p := completedProject(t, db)
	contribute(t, db, p, 100, strp("alice"), time.Now())

	_, err := (&Service{DB: db}).Distribute(context.Background(), p.ID, 1000)
	require.NoError(t, err)

	res, err := (&Service{DB: db}).Distribute(context.Background(), p.ID, 0)
	require.NoError(t, err)
	assert.True(t, res.AlreadyDistributed)
	assert.Equal(t, 1000.0, res.TotalRevenue)
	assert.Empty(t, res.Payouts)

	down := &Service{DB: db, Analytics: &stubAnalytics{err: domain.ErrExternalService}}
	res, err = down.Distribute(context.Background(), p.ID, 0)
	require.NoError(t, err)
	assert.True(t, res.AlreadyDistributed)

	var w domain.Wallet
	require.NoError(t, db.Where("user_id = ?", "alice").First(&w).Error)
	assert.InDelta(t, 1000, w.Earnings, 0.001)
}

func TestDistribute_WithoutRevenueChecksProjectFirst(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.SeedProject(t, db, 0)
	contribute(t, db, p, 100, strp("alice"), time.Now())

	_, err := (&Service{DB: db}).Distribute(context.Background(), p.ID, 0)
	assert.ErrorIs(t, err, domain.ErrProjectNotCompleted)

	_, err = (&Service{DB: db}).Distribute(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDistribute_ConcurrentCallsPayOnce(t *testing.T) {
	db := testutil.NewDB(t)
	p := completedProject(t, db)
	now := time.Now()
	contribute(t, db, p, 100, strp("alice"), now)
	contribute(t, db, p, 300, strp("bob"), now.Add(time.Second))
	s := &Service{DB: db}

	const n = 8
	var wg sync.WaitGroup
	results := make([]*Result, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.Distribute(context.Background(), p.ID, 1000)
		}(i)
	}
	wg.Wait()

	paid := 0
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		if !results[i].AlreadyDistributed {
			paid++
			assert.Len(t, results[i].Payouts, 2)
		}
	}
	assert.Equal(t, 1, paid)

	var wallets []domain.Wallet
	require.NoError(t, db.Order("user_id").Find(&wallets).Error)
	require.Len(t, wallets, 2)
	assert.InDelta(t, 250, wallets[0].Earnings, 0.001)
	assert.InDelta(t, 750, wallets[1].Earnings, 0.001)
}
