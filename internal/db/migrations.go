package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'report_status') THEN
			CREATE TYPE report_status AS ENUM ('Pendiente', 'Completado');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN
			CREATE TYPE user_role AS ENUM ('admin', 'conductor');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		email VARCHAR(254) NOT NULL,
		password_hash VARCHAR(128) NOT NULL,
		role user_role NOT NULL DEFAULT 'conductor',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_email ON users (email);`,
	`CREATE TABLE IF NOT EXISTS carriers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_carriers_name ON carriers (name);`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		plate VARCHAR(32) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_vehicles_plate ON vehicles (plate);`,
	`CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_clients_name ON clients (name);`,
	`CREATE TABLE IF NOT EXISTS materials (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_materials_name ON materials (name);`,
	`CREATE TABLE IF NOT EXISTS shift_types (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(64) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_shift_types_name ON shift_types (name);`,
	`CREATE TABLE IF NOT EXISTS drivers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		assigned_plate VARCHAR(32) NOT NULL,
		carrier VARCHAR(128) NOT NULL,
		email VARCHAR(254) NOT NULL,
		password_hash VARCHAR(128) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_drivers_email ON drivers (email);`,
	`CREATE TABLE IF NOT EXISTS work_reports (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		report_date TIMESTAMPTZ NOT NULL,
		vehicle_plate VARCHAR(32) NOT NULL,
		kilometers NUMERIC(10,2) NOT NULL,
		driver_name VARCHAR(128) NOT NULL,
		carrier_name VARCHAR(128) NOT NULL,
		status report_status NOT NULL DEFAULT 'Pendiente',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_work_reports_driver_name ON work_reports (driver_name);`,
	`CREATE INDEX IF NOT EXISTS idx_work_reports_created_at ON work_reports (created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS report_lines (
		report_id UUID NOT NULL REFERENCES work_reports(id) ON DELETE CASCADE,
		position INT NOT NULL,
		client VARCHAR(128) NOT NULL,
		loading_place VARCHAR(255) NOT NULL,
		unloading_place VARCHAR(255) NOT NULL,
		wait_time VARCHAR(5) NOT NULL,
		work_time VARCHAR(5) NOT NULL,
		tonnage NUMERIC(10,2) NOT NULL,
		material VARCHAR(128) NOT NULL,
		shift VARCHAR(16) NOT NULL,
		PRIMARY KEY (report_id, position)
	);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
