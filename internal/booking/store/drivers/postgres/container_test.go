package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/aussiebroadwan/booking/internal/booking/store/storetest"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestStoreContractPostgres runs the shared store suite against a real
// Postgres in Docker. Skipped with -short or when Docker is unavailable.
func TestStoreContractPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("postgres container test skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "booking",
				"POSTGRES_PASSWORD": "booking",
				"POSTGRES_DB":       "booking",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	baseDSN := fmt.Sprintf("postgres://booking:booking@%s:%s/booking?sslmode=disable", host, port.Port())

	admin, err := NewStore(ctx, baseDSN, PoolOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = admin.Close() })

	// Each subtest gets its own schema so the suite starts from empty
	// tables.
	n := 0
	storetest.Run(t, func(t *testing.T) store.Store {
		n++
		schema := fmt.Sprintf("suite_%d", n)
		_, err := admin.db.ExecContext(ctx, "CREATE SCHEMA "+schema)
		require.NoError(t, err)

		s, err := NewStore(ctx, baseDSN+"&search_path="+schema, PoolOptions{MaxOpenConns: 10})
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		require.NoError(t, s.ApplyMigrations())
		return s
	})
}
