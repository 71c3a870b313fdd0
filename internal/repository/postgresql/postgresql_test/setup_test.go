package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// setupTestDB menyiapkan database PostgreSQL untuk integration test.
// TEST_DATABASE_URL dipakai jika ada, selain itu container dijalankan sekali
// untuk seluruh test run.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") != "1" {
		t.Skip("set TEST_INTEGRATION=1 to run integration tests")
	}

	once.Do(func() {
		sharedDSN, initErr = resolveDSN()
	})
	if initErr != nil {
		t.Fatalf("failed to setup test database: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgreSQLDB(ctx, sharedDSN, database.PoolOptions{MaxConns: 5, MinConns: 1})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(db.Close)

	truncateAllTables(t, db)
	return db
}

func resolveDSN() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		var err error
		if dsn, err = startContainer(ctx); err != nil {
			return "", err
		}
	}

	if err := database.Migrate(ctx, dsn); err != nil {
		return "", fmt.Errorf("migrate: %w", err)
	}
	return dsn, nil
}

func startContainer(ctx context.Context) (string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "absensi_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	return fmt.Sprintf("postgres://testuser:testpass@%s:%s/absensi_test?sslmode=disable", host, port.Port()), nil
}

// truncateAllTables menghapus semua data dari tabel
func truncateAllTables(t *testing.T, db *database.DB) {
	t.Helper()

	_, err := db.Exec(context.Background(), "TRUNCATE TABLE audit_logs, leave_quotas, attendances, system_settings, employees CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func createTestEmployee(t *testing.T, db *database.DB, number string, active bool) string {
	t.Helper()

	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO employees (id, name, employee_number, title, division, email, role, is_active)
		VALUES (gen_random_uuid(), $1, $2, 'Staff', 'Engineering', $3, 'employee', $4)
		RETURNING id
	`, "Employee "+number, number, number+"@example.com", active).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create employee: %v", err)
	}
	return id
}
