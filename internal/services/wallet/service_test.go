package wallet

import (
	"context"
	"testing"

	"fundflow/internal/models"
	"fundflow/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID     map[uint]*models.Wallet
	byUser   map[uint]*models.Wallet
	getCalls int
	nextID   uint
}

func newFakeRepo(wallets ...*models.Wallet) *fakeRepo {
	r := &fakeRepo{byID: map[uint]*models.Wallet{}, byUser: map[uint]*models.Wallet{}}
	for _, w := range wallets {
		r.byID[w.ID] = w
		r.byUser[w.UserID] = w
		if w.ID > r.nextID {
			r.nextID = w.ID
		}
	}
	return r
}

func (r *fakeRepo) Create(w *models.Wallet) error {
	r.nextID++
	w.ID = r.nextID
	r.byID[w.ID] = w
	r.byUser[w.UserID] = w
	return nil
}

func (r *fakeRepo) GetByID(id uint) (*models.Wallet, error) {
	r.getCalls++
	if w, ok := r.byID[id]; ok {
		return w, nil
	}
	return nil, repositories.ErrWalletNotFound
}

func (r *fakeRepo) GetByUserID(userID uint) (*models.Wallet, error) {
	if w, ok := r.byUser[userID]; ok {
		return w, nil
	}
	return nil, repositories.ErrWalletNotFound
}

func (r *fakeRepo) UpdateStatus(walletID uint, status string) error { return nil }

func (r *fakeRepo) WithLockedWallets(ctx context.Context, ids []uint, fn func(repositories.LedgerTx) error) error {
	panic("not used by the wallet service")
}

type fakeCache struct {
	wallets map[uint]*models.Wallet
}

func newFakeCache() *fakeCache { return &fakeCache{wallets: map[uint]*models.Wallet{}} }

func (c *fakeCache) GetWallet(_ context.Context, walletID uint) (*models.Wallet, error) {
	if w, ok := c.wallets[walletID]; ok {
		return w, nil
	}
	return nil, ErrWalletNotFound
}

func (c *fakeCache) CacheWallet(_ context.Context, w *models.Wallet) error {
	c.wallets[w.ID] = w
	return nil
}

func (c *fakeCache) InvalidateWallet(_ context.Context, walletID uint) error {
	delete(c.wallets, walletID)
	return nil
}

func TestGetWallet_ReadThroughCache(t *testing.T) {
	repo := newFakeRepo(&models.Wallet{ID: 5, UserID: 9, Balance: decimal.RequireFromString("75.00")})
	cache := newFakeCache()
	s := NewService(repo, cache)

	// First read misses the cache and hits the repo.
	w, err := s.GetWallet(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("75.00")))

	// Second read is served from cache.
	_, err = s.GetWallet(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls)

	// Invalidation forces the next read back to the repo.
	s.Invalidate(context.Background(), 5)
	_, err = s.GetWallet(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.getCalls)
}

func TestGetWallet_NotFound(t *testing.T) {
	s := NewService(newFakeRepo(), newFakeCache())
	_, err := s.GetWallet(context.Background(), 404)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestCreateWallet(t *testing.T) {
	repo := newFakeRepo()
	s := NewService(repo, nil)

	w, err := s.CreateWallet(context.Background(), 9)
	require.NoError(t, err)
	assert.NotZero(t, w.ID)
	assert.True(t, w.Balance.IsZero())
	assert.Equal(t, models.WalletStatusActive, w.Status)

	_, err = s.CreateWallet(context.Background(), 9)
	assert.ErrorIs(t, err, ErrWalletExists)
}
