package services

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/phoneauth/internal/common"
	"github.com/dmitrijs2005/phoneauth/internal/dbx"
	"github.com/dmitrijs2005/phoneauth/internal/server/auth"
	"github.com/dmitrijs2005/phoneauth/internal/server/models"
	"github.com/dmitrijs2005/phoneauth/internal/server/repositories/revokedtokens"
	"github.com/dmitrijs2005/phoneauth/internal/server/repositories/users"
	"github.com/google/uuid"
)

type memUsers struct {
	mu     sync.Mutex
	byID   map[string]*models.User
	err    error
	hidden bool // Exists* always answer false, to simulate a lost race
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*models.User{}}
}

func (r *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, existing := range r.byID {
		if existing.Phone == u.Phone {
			return nil, common.ErrorAlreadyExists
		}
		if u.Email != nil && existing.Email != nil && strings.EqualFold(*u.Email, *existing.Email) {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUsers) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byID {
		if u.Phone == phone {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (r *memUsers) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	if r.hidden {
		return false, nil
	}
	_, err := r.GetByPhone(ctx, phone)
	if err == common.ErrorNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hidden {
		return false, nil
	}
	for _, u := range r.byID {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUsers) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

type memRevoked struct {
	mu  sync.Mutex
	m   map[string]time.Time
	err error
}

func newMemRevoked() *memRevoked {
	return &memRevoked{m: map[string]time.Time{}}
}

func (r *memRevoked) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.m[jti]; ok {
		return false, nil
	}
	r.m[jti] = expiresAt
	return true, nil
}

func (r *memRevoked) IsRevoked(ctx context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.m[jti]
	return ok, nil
}

func (r *memRevoked) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for jti, exp := range r.m {
		if exp.Before(now) {
			delete(r.m, jti)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	users   *memUsers
	revoked *memRevoked
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) RevokedTokens(db dbx.DBTX) revokedtokens.Repository { return m.revoked }

// spyHasher counts calls on top of a real bcrypt hasher.
type spyHasher struct {
	*auth.BcryptHasher
	verify int
	dummy  int
}

func (h *spyHasher) Verify(hash, password string) bool {
	h.verify++
	return h.BcryptHasher.Verify(hash, password)
}

func (h *spyHasher) VerifyDummy(password string) bool {
	h.dummy++
	return h.BcryptHasher.VerifyDummy(password)
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) AuthOperation(operation, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[operation+"/"+result]++
}
