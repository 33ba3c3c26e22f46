package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/aussiebroadwan/booking/internal/booking/store/drivers/sqlite"
	"github.com/aussiebroadwan/booking/pkg/cryptox"
	"github.com/aussiebroadwan/booking/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct horse battery"

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	store  *sqlite.Store
	keys   *jwtx.KeyManager
	clock  *clock
	auth   *AuthService
	groups *GroupService
	users  *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:   "https://booking.test",
		Audience: []string{"booking"},
		NumKeys:  2,
	})
	require.NoError(t, err)

	// Cheap parameters keep the suite fast.
	hasher := &cryptox.Argon2Hasher{
		Params: cryptox.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 16, SaltLength: 8},
		Pepper: "test-pepper",
	}
	clk := &clock{now: time.Now().UTC()}

	return &testEnv{
		store: s,
		keys:  km,
		clock: clk,
		auth: &AuthService{
			Store:  s,
			Hasher: hasher,
			Tokens: &TokenIssuer{
				Signer:     km,
				Issuer:     "https://booking.test",
				Audience:   []string{"booking"},
				AccessTTL:  15 * time.Minute,
				RefreshTTL: 24 * time.Hour,
			},
			PhoneRegion: "VN",
			Now:         clk.Now,
		},
		groups: &GroupService{Store: s},
		users:  &UserService{Store: s, Hasher: hasher, PhoneRegion: "VN"},
	}
}

// register creates an account named after name with testPassword.
func (e *testEnv) register(t *testing.T, name, phone string) domain.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), RegisterInput{
		Email:    name + "@example.com",
		Phone:    phone,
		FullName: name,
		Password: testPassword,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) login(t *testing.T, u domain.User) *domain.TokenPair {
	t.Helper()
	pair, err := e.auth.Authenticate(context.Background(), u.Email, testPassword)
	require.NoError(t, err)
	return pair
}

func (e *testEnv) storedUser(t *testing.T, u domain.User) domain.User {
	t.Helper()
	got, err := e.store.Users().GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	return got
}

// codeSequence returns the given codes in order, then repeats the last.
func codeSequence(codes ...string) func() (string, error) {
	var mu sync.Mutex
	i := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		c := codes[min(i, len(codes)-1)]
		i++
		return c, nil
	}
}

// blindGroups reports every code as free so that collisions only show up
// at insert time.
type blindGroups struct {
	store.Groups
}

func (blindGroups) CodeExists(context.Context, string) (bool, error) { return false, nil }

type blindStore struct {
	store.Store
}

func (b blindStore) Groups() store.Groups { return blindGroups{b.Store.Groups()} }
