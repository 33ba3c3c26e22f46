package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/booking/pkg/bookingsdk"
	"github.com/stretchr/testify/require"
)

func TestApplicationServesAPI(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.DatabaseFile = filepath.Join(dir, "booking.db")
	cfg.PepperFile = filepath.Join(dir, "secrets", "pepper")
	cfg.NumKeys = 1
	cfg.LogFormat = "text"
	cfg.LogLevel = "error"

	application, err := New(cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(application.Handler())
	defer ts.Close()
	client := bookingsdk.NewClient(ts.URL)
	ctx := context.Background()

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)

	user, err := client.Register(ctx, bookingsdk.RegisterRequest{
		Email:    "owner@example.com",
		Phone:    "0907000001",
		FullName: "Owner",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	session, err := client.AuthenticateWithPassword(ctx, user.Email, "correct horse battery")
	require.NoError(t, err)
	group, err := session.CreateGroup(ctx, "Trip")
	require.NoError(t, err)
	require.Equal(t, 1, group.MemberCount)

	require.FileExists(t, cfg.PepperFile)
	require.NoError(t, application.Shutdown())
}
