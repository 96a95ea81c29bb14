package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/logistica/partes-service/internal/model"
)

// ErrDuplicate reports a unique-constraint violation, a reference name
// or plate that already exists.
var ErrDuplicate = errors.New("duplicate")

type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) ListDrivers(ctx context.Context) ([]model.Driver, error) {
	var drivers []model.Driver
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, assigned_plate, carrier, email
		FROM drivers
		ORDER BY name ASC
	`).Scan(&drivers).Error
	if err != nil {
		return nil, err
	}
	return drivers, nil
}

func (r *ReferenceRepository) GetDriver(ctx context.Context, id uuid.UUID) (*model.Driver, error) {
	var driver model.Driver
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, assigned_plate, carrier, email
		FROM drivers
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&driver).Error
	if err != nil {
		return nil, err
	}
	if driver.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &driver, nil
}

// GetDriverByEmail is the only driver read that includes the password
// hash; it backs the conductor login.
func (r *ReferenceRepository) GetDriverByEmail(ctx context.Context, email string) (*model.Driver, error) {
	var driver model.Driver
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, assigned_plate, carrier, email, password_hash
		FROM drivers
		WHERE email = ?
		LIMIT 1
	`, email).Scan(&driver).Error
	if err != nil {
		return nil, err
	}
	if driver.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &driver, nil
}

func (r *ReferenceRepository) CreateDriver(ctx context.Context, driver model.Driver) (*model.Driver, error) {
	var saved model.Driver
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO drivers (name, assigned_plate, carrier, email, password_hash)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, name, assigned_plate, carrier, email
	`, driver.Name, driver.AssignedPlate, driver.Carrier, driver.Email, driver.PasswordHash).Scan(&saved).Error
	if err != nil {
		return nil, wrapDuplicate(err)
	}
	return &saved, nil
}

func (r *ReferenceRepository) UpdateDriver(ctx context.Context, id uuid.UUID, driver model.Driver) (*model.Driver, error) {
	query := `
		UPDATE drivers
		SET name = ?, assigned_plate = ?, carrier = ?, email = ?
		WHERE id = ?
		RETURNING id, name, assigned_plate, carrier, email
	`
	args := []interface{}{driver.Name, driver.AssignedPlate, driver.Carrier, driver.Email, id}
	if driver.PasswordHash != "" {
		query = `
			UPDATE drivers
			SET name = ?, assigned_plate = ?, carrier = ?, email = ?, password_hash = ?
			WHERE id = ?
			RETURNING id, name, assigned_plate, carrier, email
		`
		args = []interface{}{driver.Name, driver.AssignedPlate, driver.Carrier, driver.Email, driver.PasswordHash, id}
	}

	var saved model.Driver
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&saved).Error; err != nil {
		return nil, wrapDuplicate(err)
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

func (r *ReferenceRepository) DeleteDriver(ctx context.Context, id uuid.UUID) error {
	return r.deleteFrom(ctx, "drivers", id)
}

func (r *ReferenceRepository) ListCarriers(ctx context.Context) ([]model.Carrier, error) {
	var carriers []model.Carrier
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name FROM carriers ORDER BY name ASC
	`).Scan(&carriers).Error
	if err != nil {
		return nil, err
	}
	return carriers, nil
}

func (r *ReferenceRepository) CreateCarrier(ctx context.Context, name string) (*model.Carrier, error) {
	var saved model.Carrier
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO carriers (name) VALUES (?) RETURNING id, name
	`, name).Scan(&saved).Error
	if err != nil {
		return nil, wrapDuplicate(err)
	}
	return &saved, nil
}

func (r *ReferenceRepository) UpdateCarrier(ctx context.Context, id uuid.UUID, name string) (*model.Carrier, error) {
	var saved model.Carrier
	err := r.db.WithContext(ctx).Raw(`
		UPDATE carriers SET name = ? WHERE id = ? RETURNING id, name
	`, name, id).Scan(&saved).Error
	if err != nil {
		return nil, wrapDuplicate(err)
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

func (r *ReferenceRepository) DeleteCarrier(ctx context.Context, id uuid.UUID) error {
	return r.deleteFrom(ctx, "carriers", id)
}

func (r *ReferenceRepository) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, plate FROM vehicles ORDER BY plate ASC
	`).Scan(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *ReferenceRepository) CreateVehicle(ctx context.Context, plate string) (*model.Vehicle, error) {
	var saved model.Vehicle
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO vehicles (plate) VALUES (?) RETURNING id, plate
	`, plate).Scan(&saved).Error
	if err != nil {
		return nil, wrapDuplicate(err)
	}
	return &saved, nil
}

func (r *ReferenceRepository) UpdateVehicle(ctx context.Context, id uuid.UUID, plate string) (*model.Vehicle, error) {
	var saved model.Vehicle
	err := r.db.WithContext(ctx).Raw(`
		UPDATE vehicles SET plate = ? WHERE id = ? RETURNING id, plate
	`, plate, id).Scan(&saved).Error
	if err != nil {
		return nil, wrapDuplicate(err)
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

func (r *ReferenceRepository) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	return r.deleteFrom(ctx, "vehicles", id)
}

func (r *ReferenceRepository) ListClients(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name FROM clients ORDER BY name ASC
	`).Scan(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ReferenceRepository) CreateClient(ctx context.Context, name string) (*model.Client, error) {
	var saved model.Client
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO clients (name) VALUES (?) RETURNING id, name
	`, name).Scan(&saved).Error
	if err != nil {
		return nil, wrapDuplicate(err)
	}
	return &saved, nil
}

func (r *ReferenceRepository) UpdateClient(ctx context.Context, id uuid.UUID, name string) (*model.Client, error) {
	var saved model.Client
	err := r.db.WithContext(ctx).Raw(`
		UPDATE clients SET name = ? WHERE id = ? RETURNING id, name
	`, name, id).Scan(&saved).Error
	if err != nil {
		return nil, wrapDuplicate(err)
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

func (r *ReferenceRepository) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return r.deleteFrom(ctx, "clients", id)
}

func (r *ReferenceRepository) ListMaterials(ctx context.Context) ([]model.Material, error) {
	var materials []model.Material
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name FROM materials ORDER BY name ASC
	`).Scan(&materials).Error
	if err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *ReferenceRepository) CreateMaterial(ctx context.Context, name string) (*model.Material, error) {
	var saved model.Material
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO materials (name) VALUES (?) RETURNING id, name
	`, name).Scan(&saved).Error
	if err != nil {
		return nil, wrapDuplicate(err)
	}
	return &saved, nil
}

func (r *ReferenceRepository) UpdateMaterial(ctx context.Context, id uuid.UUID, name string) (*model.Material, error) {
	var saved model.Material
	err := r.db.WithContext(ctx).Raw(`
		UPDATE materials SET name = ? WHERE id = ? RETURNING id, name
	`, name, id).Scan(&saved).Error
	if err != nil {
		return nil, wrapDuplicate(err)
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

func (r *ReferenceRepository) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	return r.deleteFrom(ctx, "materials", id)
}

func (r *ReferenceRepository) ListShiftTypes(ctx context.Context) ([]model.ShiftType, error) {
	var shifts []model.ShiftType
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name FROM shift_types ORDER BY name ASC
	`).Scan(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *ReferenceRepository) CreateShiftType(ctx context.Context, name string) (*model.ShiftType, error) {
	var saved model.ShiftType
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO shift_types (name) VALUES (?) RETURNING id, name
	`, name).Scan(&saved).Error
	if err != nil {
		return nil, wrapDuplicate(err)
	}
	return &saved, nil
}

func (r *ReferenceRepository) UpdateShiftType(ctx context.Context, id uuid.UUID, name string) (*model.ShiftType, error) {
	var saved model.ShiftType
	err := r.db.WithContext(ctx).Raw(`
		UPDATE shift_types SET name = ? WHERE id = ? RETURNING id, name
	`, name, id).Scan(&saved).Error
	if err != nil {
		return nil, wrapDuplicate(err)
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

func (r *ReferenceRepository) DeleteShiftType(ctx context.Context, id uuid.UUID) error {
	return r.deleteFrom(ctx, "shift_types", id)
}

func (r *ReferenceRepository) deleteFrom(ctx context.Context, table string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM `+table+` WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func wrapDuplicate(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "23505") {
		return ErrDuplicate
	}
	return err
}
