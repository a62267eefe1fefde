package infra

import (
	"fmt"

	"motofix/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection and brings the schema up to date.
// TranslateError is on so unique and foreign-key violations come back as
// gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated instead of raw pg errors.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table and then applies the DDL that
// AutoMigrate cannot express. Safe to run on every start.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Service{},
		&model.Customer{},
		&model.Mechanic{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockMovement{},
		&model.Expense{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent statements (IF NOT EXISTS everywhere).
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Invoice numbers are drawn from this sequence inside the sale transaction.
		{"invoice sequence", `CREATE SEQUENCE IF NOT EXISTS sales_invoice_seq START 1`},
		{"sale items order index",
			`CREATE INDEX IF NOT EXISTS idx_sale_items_sale_position ON sale_items (sale_id, position)`},
		{"stock movements history index",
			`CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created ON stock_movements (product_id, created_at DESC)`},
		{"low stock partial index",
			`CREATE INDEX IF NOT EXISTS idx_products_low_stock ON products (id) WHERE stock <= min_stock`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
