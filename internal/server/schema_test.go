package server

import (
	"context"
	"testing"
	"time"

	"github.com/markb/shoplite/internal/pg"
)

func TestProductsTableCreation(t *testing.T) {
	// Start embedded postgres
	db := pg.NewEmbeddedDatabase(pg.Config{
		Port:        15433,
		Username:    "test",
		Password:    "test",
		Database:    "testdb",
		RuntimePath: "/tmp/shoplite-test-schema",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := db.Start(ctx); err != nil {
		t.Fatalf("Failed to start database: %v", err)
	}
	defer db.Stop()

	// Create server
	srv := &Server{
		pgDatabase: db,
	}

	if err := srv.initSchema(ctx); err != nil {
		t.Fatalf("initSchema() failed: %v", err)
	}

	// Verify table exists
	conn, err := db.Connect(ctx)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'shop'
			AND table_name = 'products'
		)
	`).Scan(&exists)
	if err != nil {
		t.Fatalf("Failed to query table existence: %v", err)
	}
	if !exists {
		t.Error("shop.products table was not created")
	}
}
