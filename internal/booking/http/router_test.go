package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/booking/pkg/bookingsdk"
	"github.com/aussiebroadwan/booking/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestGroupLifecycle(t *testing.T) {
	srv := newServer(t, generousLimits())
	ctx := context.Background()

	_, alice := srv.signup(t, "alice", "0901000001")
	bob, bobSession := srv.signup(t, "bob", "0901000002")

	group, err := alice.CreateGroup(ctx, "Trip")
	require.NoError(t, err)
	require.Len(t, group.Code, 6)
	require.Equal(t, 1, group.MemberCount)

	m, err := bobSession.JoinGroup(ctx, strings.ToLower(group.Code))
	require.NoError(t, err)
	require.Equal(t, "PENDING", m.Status)
	require.Equal(t, "MEMBER", m.Role)

	_, err = bobSession.JoinGroup(ctx, group.Code)
	requireCode(t, err, http.StatusConflict, bookingsdk.ErrorCodeUserAlreadyInGroup)

	members, err := alice.Members(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, "alice@example.com", members[0].UserEmail)

	_, err = bobSession.UpdateMemberStatus(ctx, group.ID, m.ID, "ACCEPTED")
	requireCode(t, err, http.StatusForbidden, bookingsdk.ErrorCodeUnauthorized)

	accepted, err := alice.UpdateMemberStatus(ctx, group.ID, m.ID, "accepted")
	require.NoError(t, err)
	require.Equal(t, "ACCEPTED", accepted.Status)

	got, err := bobSession.Group(ctx, group.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.MemberCount)

	mine, err := bobSession.MyGroups(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	owned, err := bobSession.OwnedGroups(ctx)
	require.NoError(t, err)
	require.Empty(t, owned)

	err = bobSession.DeleteGroup(ctx, group.ID)
	requireCode(t, err, http.StatusForbidden, bookingsdk.ErrorCodeUnauthorized)

	require.NoError(t, alice.DeleteGroup(ctx, group.ID))

	_, err = alice.GroupByCode(ctx, group.Code)
	requireCode(t, err, http.StatusNotFound, bookingsdk.ErrorCodeGroupNotFound)
	_, err = bobSession.Group(ctx, group.ID)
	requireCode(t, err, http.StatusForbidden, bookingsdk.ErrorCodeUnauthorized)

	ms, err := bobSession.Memberships(ctx)
	require.NoError(t, err)
	require.Empty(t, ms)
	require.NotEmpty(t, bob.ID)
}

func TestMemberManagement(t *testing.T) {
	srv := newServer(t, generousLimits())
	ctx := context.Background()

	_, owner := srv.signup(t, "olga", "0902000001")
	member, memberSession := srv.signup(t, "mia", "0902000002")
	guest, _ := srv.signup(t, "gus", "0902000003")

	group, err := owner.CreateGroup(ctx, "Dinner")
	require.NoError(t, err)

	_, err = owner.AddMember(ctx, group.ID, "nobody@example.com")
	requireCode(t, err, http.StatusNotFound, bookingsdk.ErrorCodeUserNotFound)

	invited, err := owner.AddMember(ctx, group.ID, "MIA@example.com")
	require.NoError(t, err)
	require.Equal(t, member.ID, invited.UserID)

	// Pending members may invite others but not remove them.
	_, err = memberSession.AddMember(ctx, group.ID, guest.Email)
	require.NoError(t, err)
	err = memberSession.RemoveMember(ctx, group.ID, guest.ID)
	requireCode(t, err, http.StatusForbidden, bookingsdk.ErrorCodeUnauthorized)

	require.NoError(t, owner.RemoveMember(ctx, group.ID, guest.ID))
	err = owner.RemoveMember(ctx, group.ID, guest.ID)
	requireCode(t, err, http.StatusNotFound, bookingsdk.ErrorCodeNotAMember)

	require.NoError(t, memberSession.LeaveGroup(ctx, group.ID))
	err = memberSession.LeaveGroup(ctx, group.ID)
	requireCode(t, err, http.StatusNotFound, bookingsdk.ErrorCodeNotAMember)

	// The owner leaving dissolves the group.
	require.NoError(t, owner.LeaveGroup(ctx, group.ID))
	_, err = owner.GroupByCode(ctx, group.Code)
	requireCode(t, err, http.StatusNotFound, bookingsdk.ErrorCodeGroupNotFound)
}

func TestAuthFlow(t *testing.T) {
	srv := newServer(t, generousLimits())
	ctx := context.Background()

	user, session := srv.signup(t, "carol", "0903000001")
	require.Equal(t, "+84903000001", user.Phone)

	_, err := srv.client.Register(ctx, bookingsdk.RegisterRequest{
		Email:    "Carol@Example.com",
		Phone:    "0903000002",
		FullName: "Other Carol",
		Password: testPassword,
	})
	requireCode(t, err, http.StatusConflict, bookingsdk.ErrorCodeDuplicateEmail)

	_, err = srv.client.Login(ctx, user.Email, "wrong password")
	requireCode(t, err, http.StatusUnauthorized, bookingsdk.ErrorCodeInvalidCredentials)
	_, err = srv.client.Login(ctx, "ghost@example.com", testPassword)
	requireCode(t, err, http.StatusUnauthorized, bookingsdk.ErrorCodeInvalidCredentials)

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)

	// Force a refresh; the consumed token must stop working.
	old := session.RefreshToken()
	session.Expire()
	_, err = session.Me(ctx)
	require.NoError(t, err)
	require.NotEqual(t, old, session.RefreshToken())

	_, err = srv.client.Refresh(ctx, old)
	requireCode(t, err, http.StatusUnauthorized, bookingsdk.ErrorCodeInvalidRefreshToken)

	current := session.RefreshToken()
	require.NoError(t, session.Logout(ctx))
	require.NoError(t, session.Logout(ctx), "logout is idempotent")
	_, err = srv.client.Refresh(ctx, current)
	requireCode(t, err, http.StatusUnauthorized, bookingsdk.ErrorCodeInvalidRefreshToken)
}

func TestProfileEndpoints(t *testing.T) {
	srv := newServer(t, generousLimits())
	ctx := context.Background()

	danUser, dan := srv.signup(t, "dan", "0904000001")
	eveUser, _ := srv.signup(t, "eve", "0904000002")

	self, err := dan.User(ctx, danUser.ID)
	require.NoError(t, err)
	require.Equal(t, danUser.Email, self.Email)
	_, err = dan.User(ctx, eveUser.ID)
	requireCode(t, err, http.StatusForbidden, bookingsdk.ErrorCodeUnauthorized)
	_, err = dan.User(ctx, "not-an-id")
	requireCode(t, err, http.StatusBadRequest, bookingsdk.ErrorCodeInvalidRequest)

	updated, err := dan.UpdateProfile(ctx, bookingsdk.UpdateProfileRequest{FullName: "Dan D.", Phone: "+84 904 000 003"})
	require.NoError(t, err)
	require.Equal(t, "Dan D.", updated.FullName)
	require.Equal(t, "+84904000003", updated.Phone)

	_, err = dan.UpdateProfile(ctx, bookingsdk.UpdateProfileRequest{FullName: "Dan", Phone: "0904000002"})
	requireCode(t, err, http.StatusConflict, bookingsdk.ErrorCodeDuplicatePhone)

	err = dan.ChangePassword(ctx, "not my password", "a brand new password")
	requireCode(t, err, http.StatusUnauthorized, bookingsdk.ErrorCodeInvalidCredentials)
	require.NoError(t, dan.ChangePassword(ctx, testPassword, "a brand new password"))

	_, err = srv.client.Login(ctx, "dan@example.com", "a brand new password")
	require.NoError(t, err)

	require.NoError(t, dan.DeleteAccount(ctx))
	_, err = dan.Me(ctx)
	requireCode(t, err, http.StatusNotFound, bookingsdk.ErrorCodeUserNotFound)
}

func TestRequestValidation(t *testing.T) {
	srv := newServer(t, generousLimits())
	ctx := context.Background()
	_, owner := srv.signup(t, "vic", "0905000001")
	group, err := owner.CreateGroup(ctx, "Checks")
	require.NoError(t, err)

	t.Run("missing fields", func(t *testing.T) {
		_, err := srv.client.Register(ctx, bookingsdk.RegisterRequest{Email: "x@example.com"})
		apiErr := requireCode(t, err, http.StatusBadRequest, bookingsdk.ErrorCodeValidation)
		require.Contains(t, apiErr.Fields, "phone")
		require.Contains(t, apiErr.Fields, "full_name")
		require.Contains(t, apiErr.Fields, "password")
	})

	t.Run("service rules", func(t *testing.T) {
		_, err := srv.client.Register(ctx, bookingsdk.RegisterRequest{
			Email:    "not-an-email",
			Phone:    "0905000009",
			FullName: "Val",
			Password: "short",
		})
		apiErr := requireCode(t, err, http.StatusBadRequest, bookingsdk.ErrorCodeValidation)
		require.Contains(t, apiErr.Fields, "email")
		require.Contains(t, apiErr.Fields, "password")
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := owner.UpdateMemberStatus(ctx, group.ID, group.ID, "REJECTED")
		apiErr := requireCode(t, err, http.StatusBadRequest, bookingsdk.ErrorCodeValidation)
		require.Contains(t, apiErr.Fields, "status")
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := owner.Group(ctx, "not-an-id")
		requireCode(t, err, http.StatusBadRequest, bookingsdk.ErrorCodeInvalidRequest)
	})

	t.Run("unknown json field", func(t *testing.T) {
		resp, err := http.Post(srv.url+"/v1/auth/login", "application/json",
			strings.NewReader(`{"email":"a@b.c","password":"x","remember":true}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestBearerTokenRequired(t *testing.T) {
	srv := newServer(t, generousLimits())

	for _, path := range []string{"/v1/users/me", "/v1/groups/mine"} {
		resp, err := http.Get(srv.url + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		require.True(t, strings.HasPrefix(resp.Header.Get("WWW-Authenticate"), "Bearer"))
	}

	session := srv.client.NewSessionFromTokens("garbage.token.value", "", 900)
	_, err := session.Me(context.Background())
	requireCode(t, err, http.StatusUnauthorized, bookingsdk.ErrorCodeInvalidToken)

	session.Expire()
	_, err = session.Me(context.Background())
	require.ErrorIs(t, err, bookingsdk.ErrNoRefreshToken)
}

func TestLoginRateLimit(t *testing.T) {
	limits := generousLimits()
	limits.Strict = httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Hour, Burst: 2}
	srv := newServer(t, limits)
	ctx := context.Background()

	for range 2 {
		_, err := srv.client.Login(ctx, "frank@example.com", "whatever")
		requireCode(t, err, http.StatusUnauthorized, bookingsdk.ErrorCodeInvalidCredentials)
	}
	_, err := srv.client.Login(ctx, "FRANK@example.com", "whatever")
	requireCode(t, err, http.StatusTooManyRequests, bookingsdk.ErrorCodeRateLimited)

	// A different account from the same address has its own bucket.
	_, err = srv.client.Login(ctx, "grace@example.com", "whatever")
	requireCode(t, err, http.StatusUnauthorized, bookingsdk.ErrorCodeInvalidCredentials)
}

func TestSystemEndpoints(t *testing.T) {
	srv := newServer(t, generousLimits())
	ctx := context.Background()

	live, err := srv.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := srv.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Checks.Database)

	jwks, err := srv.client.GetJWKS(ctx)
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 2)
	require.Equal(t, "EdDSA", jwks.Keys[0].Alg)

	resp, err := http.Get(srv.url + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Contains(t, string(body), `route="GET /livez"`)

	resp, err = http.Get(srv.url + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	require.Contains(t, doc["paths"], "/v1/groups/join")
	require.Contains(t, doc["paths"], "/v1/group-codes/{code}")
	require.Contains(t, doc["paths"], "/v1/users/{userID}")
}

func TestStorageOutage(t *testing.T) {
	srv := newServer(t, generousLimits())
	ctx := context.Background()
	_, session := srv.signup(t, "hal", "0906000001")

	require.NoError(t, srv.store.Close())

	_, err := session.Me(ctx)
	requireCode(t, err, http.StatusServiceUnavailable, bookingsdk.ErrorCodeUnavailable)

	_, err = srv.client.Login(ctx, "hal@example.com", testPassword)
	requireCode(t, err, http.StatusServiceUnavailable, bookingsdk.ErrorCodeUnavailable)

	ready, err := srv.client.GetReadiness(ctx)
	require.ErrorIs(t, err, bookingsdk.ErrUnavailable)
	require.Equal(t, "degraded", ready.Status)
}
