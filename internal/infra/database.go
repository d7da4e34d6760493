package infra

import (
	"fmt"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// AutoMigrate cannot express (partial indexes, sequences).
//
// TranslateError is enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey; the cierre repository depends on this to implement
// create-if-absent semantics.
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

	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Categoria{},
		&model.Producto{},
		&model.Venta{},
		&model.VentaDetalle{},
		&model.Comprobante{},
		&model.Gasto{},
		&model.CierreCaja{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that GORM cannot fully handle:
//   - the partial unique index guaranteeing at most one closed cierre per
//     (fecha, cajero): two concurrent close submissions cannot both commit,
//   - per-serie sequences for comprobante correlativos,
//   - the partial index backing the retry cron query.
//
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_cierres_caja_fecha_cajero_cerrado') THEN
		    CREATE UNIQUE INDEX uni_cierres_caja_fecha_cajero_cerrado
		        ON cierres_caja (fecha, cajero_id)
		        WHERE estado = 'cerrado';
		  END IF;
		END $$`,
		`CREATE SEQUENCE IF NOT EXISTS comprobantes_b001_seq`,
		`CREATE SEQUENCE IF NOT EXISTS comprobantes_f001_seq`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_comprobantes_pending_retry') THEN
		    CREATE INDEX idx_comprobantes_pending_retry
		        ON comprobantes (next_retry_at)
		        WHERE estado = 'pendiente' AND next_retry_at IS NOT NULL;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
