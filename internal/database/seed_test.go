package database

import (
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed should be callable safely — it creates data only when tables are
	// empty. We call it twice to verify idempotency. We don't clear the
	// database first because other test packages may be running
	// concurrently against the same database.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	// Verify admin user exists.
	var userCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email = 'admin@storefront.local'").Scan(&userCount); err != nil {
		t.Fatalf("count admin users: %v", err)
	}
	if userCount < 1 {
		t.Errorf("expected at least 1 admin user, got %d", userCount)
	}

	// Verify the demo shop and its template exist.
	var shopCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM shops WHERE subdomain = 'demo'").Scan(&shopCount); err != nil {
		t.Fatalf("count demo shops: %v", err)
	}
	if shopCount < 1 {
		t.Errorf("expected the demo shop, got %d", shopCount)
	}

	var tmplCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM templates WHERE is_default").Scan(&tmplCount); err != nil {
		t.Fatalf("count templates: %v", err)
	}
	if tmplCount < 1 {
		t.Errorf("expected at least 1 default template, got %d", tmplCount)
	}

	// Verify the seeded section carries blocks, including a container row.
	var blockCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM section_blocks").Scan(&blockCount); err != nil {
		t.Fatalf("count section blocks: %v", err)
	}
	if blockCount < 3 {
		t.Errorf("expected at least 3 seeded blocks, got %d", blockCount)
	}

	var containerCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM section_blocks WHERE type = 'container'").Scan(&containerCount); err != nil {
		t.Fatalf("count container blocks: %v", err)
	}
	if containerCount < 1 {
		t.Errorf("expected at least 1 container block, got %d", containerCount)
	}
}
