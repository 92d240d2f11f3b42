package database

import (
	"io/fs"
	"strings"
	"testing"

	"lu-estilo/migrations"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	content, err := fs.ReadFile(migrations.FS, name)
	if err != nil {
		t.Fatalf("Failed to read migration %s: %v", name, err)
	}
	return string(content)
}

func TestMigrationFilesExist(t *testing.T) {
	expectedMigrations := []string{
		"00001_create_users_table.sql",
		"00002_create_clients_table.sql",
		"00003_create_products_table.sql",
		"00004_create_orders_table.sql",
		"00005_create_order_items_table.sql",
	}

	for _, migration := range expectedMigrations {
		if _, err := fs.Stat(migrations.FS, migration); err != nil {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		t.Fatalf("Failed to list migrations: %v", err)
	}

	if len(files) == 0 {
		t.Fatal("No SQL migration files found")
	}

	for _, file := range files {
		content := readMigration(t, file)

		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(content, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file, directive)
			}
		}
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	expectedTables := map[string]string{
		"users":       "00001_create_users_table.sql",
		"clients":     "00002_create_clients_table.sql",
		"products":    "00003_create_products_table.sql",
		"orders":      "00004_create_orders_table.sql",
		"order_items": "00005_create_order_items_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		content := readMigration(t, migrationFile)
		if !strings.Contains(content, "CREATE TABLE IF NOT EXISTS "+tableName+" (") {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}
		if !strings.Contains(content, "DROP TABLE IF EXISTS "+tableName) {
			t.Errorf("Migration file %s does not drop table %s", migrationFile, tableName)
		}
	}
}

func TestClientsTableHasUniqueIdentity(t *testing.T) {
	content := readMigration(t, "00002_create_clients_table.sql")

	for _, constraint := range []string{"UNIQUE (email)", "UNIQUE (national_id)"} {
		if !strings.Contains(content, constraint) {
			t.Errorf("Clients table missing constraint: %s", constraint)
		}
	}
}

func TestProductsTableGuardsStock(t *testing.T) {
	content := readMigration(t, "00003_create_products_table.sql")

	requiredDefinitions := []string{
		"price NUMERIC",
		"barcode VARCHAR",
		"stock INTEGER",
		"expiry_date DATE",
		"image_urls TEXT",
		"CHECK (stock >= 0)",
		"UNIQUE (barcode)",
	}

	for _, definition := range requiredDefinitions {
		if !strings.Contains(content, definition) {
			t.Errorf("Products table missing definition: %s", definition)
		}
	}
}

func TestOrdersTableHasStatusConstraint(t *testing.T) {
	content := readMigration(t, "00004_create_orders_table.sql")

	for _, status := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		if !strings.Contains(content, "'"+status+"'") {
			t.Errorf("Orders table status constraint missing value: %s", status)
		}
	}
}

func TestOrderItemsCascadeWithOrder(t *testing.T) {
	content := readMigration(t, "00005_create_order_items_table.sql")

	if !strings.Contains(content, "REFERENCES orders(id) ON DELETE CASCADE") {
		t.Error("Order items must be removed together with their order")
	}
	// Product references stay unenforced so deleting a product keeps order history
	if strings.Contains(content, "REFERENCES products") {
		t.Error("Order items must not enforce a product foreign key")
	}
}
