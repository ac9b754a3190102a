//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

var testDB *TestDB

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	db, err := SetupTestDatabase(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	testDB = db

	code := m.Run()

	_ = testDB.Teardown(context.Background())
	os.Exit(code)
}

// freshDB truncates every table before a test.
func freshDB(t *testing.T) *TestDB {
	t.Helper()
	if err := testDB.CleanupTables(context.Background()); err != nil {
		t.Fatalf("cleanup tables: %v", err)
	}
	return testDB
}
