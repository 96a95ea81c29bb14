package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/logistica/partes-service/internal/model"
	"github.com/logistica/partes-service/internal/repository"
)

// CatalogStore is the CRUD surface behind the admin reference pages.
type CatalogStore interface {
	CreateDriver(ctx context.Context, driver model.Driver) (*model.Driver, error)
	UpdateDriver(ctx context.Context, id uuid.UUID, driver model.Driver) (*model.Driver, error)
	DeleteDriver(ctx context.Context, id uuid.UUID) error
	ListDrivers(ctx context.Context) ([]model.Driver, error)

	CreateCarrier(ctx context.Context, name string) (*model.Carrier, error)
	UpdateCarrier(ctx context.Context, id uuid.UUID, name string) (*model.Carrier, error)
	DeleteCarrier(ctx context.Context, id uuid.UUID) error
	ListCarriers(ctx context.Context) ([]model.Carrier, error)

	CreateVehicle(ctx context.Context, plate string) (*model.Vehicle, error)
	UpdateVehicle(ctx context.Context, id uuid.UUID, plate string) (*model.Vehicle, error)
	DeleteVehicle(ctx context.Context, id uuid.UUID) error
	ListVehicles(ctx context.Context) ([]model.Vehicle, error)

	CreateClient(ctx context.Context, name string) (*model.Client, error)
	UpdateClient(ctx context.Context, id uuid.UUID, name string) (*model.Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
	ListClients(ctx context.Context) ([]model.Client, error)

	CreateMaterial(ctx context.Context, name string) (*model.Material, error)
	UpdateMaterial(ctx context.Context, id uuid.UUID, name string) (*model.Material, error)
	DeleteMaterial(ctx context.Context, id uuid.UUID) error
	ListMaterials(ctx context.Context) ([]model.Material, error)

	CreateShiftType(ctx context.Context, name string) (*model.ShiftType, error)
	UpdateShiftType(ctx context.Context, id uuid.UUID, name string) (*model.ShiftType, error)
	DeleteShiftType(ctx context.Context, id uuid.UUID) error
	ListShiftTypes(ctx context.Context) ([]model.ShiftType, error)
}

// CatalogService implements the admin CRUD for every reference entity.
// Duplicate names surface the same "Ya existe ..." conflict messages
// the forms show.
type CatalogService struct {
	repo CatalogStore
}

func NewCatalogService(repo CatalogStore) *CatalogService {
	return &CatalogService{repo: repo}
}

type DriverInput struct {
	Name          string
	AssignedPlate string
	Carrier       string
	Email         string
	Password      string
}

func (s *CatalogService) ListDrivers(ctx context.Context, principal model.Principal) ([]model.Driver, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.repo.ListDrivers(ctx)
}

func (s *CatalogService) CreateDriver(ctx context.Context, principal model.Principal, input DriverInput) (*model.Driver, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if err := validateDriverInput(input, true); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.CreateDriver(ctx, model.Driver{
		Name:          strings.TrimSpace(input.Name),
		AssignedPlate: strings.TrimSpace(input.AssignedPlate),
		Carrier:       strings.TrimSpace(input.Carrier),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:  string(hash),
	})
	if err != nil {
		return nil, conflictError(err, "Ya existe un conductor con este correo")
	}
	return saved, nil
}

func (s *CatalogService) UpdateDriver(ctx context.Context, principal model.Principal, id uuid.UUID, input DriverInput) (*model.Driver, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if err := validateDriverInput(input, false); err != nil {
		return nil, err
	}

	driver := model.Driver{
		Name:          strings.TrimSpace(input.Name),
		AssignedPlate: strings.TrimSpace(input.AssignedPlate),
		Carrier:       strings.TrimSpace(input.Carrier),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		driver.PasswordHash = string(hash)
	}

	saved, err := s.repo.UpdateDriver(ctx, id, driver)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, conflictError(err, "Ya existe un conductor con este correo")
	}
	return saved, nil
}

func (s *CatalogService) DeleteDriver(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return s.deleteEntity(principal, func() error { return s.repo.DeleteDriver(ctx, id) })
}

func (s *CatalogService) ListCarriers(ctx context.Context, principal model.Principal) ([]model.Carrier, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.repo.ListCarriers(ctx)
}

func (s *CatalogService) CreateCarrier(ctx context.Context, principal model.Principal, name string) (*model.Carrier, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: Por favor, proporcione un nombre", ErrInvalidInput)
	}
	saved, err := s.repo.CreateCarrier(ctx, name)
	if err != nil {
		return nil, conflictError(err, "Ya existe un transportista con este nombre")
	}
	return saved, nil
}

func (s *CatalogService) UpdateCarrier(ctx context.Context, principal model.Principal, id uuid.UUID, name string) (*model.Carrier, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: Por favor, proporcione un nombre", ErrInvalidInput)
	}
	saved, err := s.repo.UpdateCarrier(ctx, id, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, conflictError(err, "Ya existe un transportista con este nombre")
	}
	return saved, nil
}

func (s *CatalogService) DeleteCarrier(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return s.deleteEntity(principal, func() error { return s.repo.DeleteCarrier(ctx, id) })
}

func (s *CatalogService) ListVehicles(ctx context.Context, principal model.Principal) ([]model.Vehicle, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.repo.ListVehicles(ctx)
}

func (s *CatalogService) CreateVehicle(ctx context.Context, principal model.Principal, plate string) (*model.Vehicle, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return nil, fmt.Errorf("%w: Por favor, proporcione una matrícula", ErrInvalidInput)
	}
	saved, err := s.repo.CreateVehicle(ctx, plate)
	if err != nil {
		return nil, conflictError(err, "Ya existe un vehículo con esta matrícula")
	}
	return saved, nil
}

func (s *CatalogService) UpdateVehicle(ctx context.Context, principal model.Principal, id uuid.UUID, plate string) (*model.Vehicle, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return nil, fmt.Errorf("%w: Por favor, proporcione una matrícula", ErrInvalidInput)
	}
	saved, err := s.repo.UpdateVehicle(ctx, id, plate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, conflictError(err, "Ya existe un vehículo con esta matrícula")
	}
	return saved, nil
}

func (s *CatalogService) DeleteVehicle(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return s.deleteEntity(principal, func() error { return s.repo.DeleteVehicle(ctx, id) })
}

func (s *CatalogService) ListClients(ctx context.Context, principal model.Principal) ([]model.Client, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.repo.ListClients(ctx)
}

func (s *CatalogService) CreateClient(ctx context.Context, principal model.Principal, name string) (*model.Client, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: Por favor, proporcione un nombre", ErrInvalidInput)
	}
	saved, err := s.repo.CreateClient(ctx, name)
	if err != nil {
		return nil, conflictError(err, "Ya existe un cliente con este nombre")
	}
	return saved, nil
}

func (s *CatalogService) UpdateClient(ctx context.Context, principal model.Principal, id uuid.UUID, name string) (*model.Client, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: Por favor, proporcione un nombre", ErrInvalidInput)
	}
	saved, err := s.repo.UpdateClient(ctx, id, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, conflictError(err, "Ya existe un cliente con este nombre")
	}
	return saved, nil
}

func (s *CatalogService) DeleteClient(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return s.deleteEntity(principal, func() error { return s.repo.DeleteClient(ctx, id) })
}

func (s *CatalogService) ListMaterials(ctx context.Context, principal model.Principal) ([]model.Material, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.repo.ListMaterials(ctx)
}

func (s *CatalogService) CreateMaterial(ctx context.Context, principal model.Principal, name string) (*model.Material, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: Por favor, proporcione un nombre", ErrInvalidInput)
	}
	saved, err := s.repo.CreateMaterial(ctx, name)
	if err != nil {
		return nil, conflictError(err, "Ya existe un material con este nombre")
	}
	return saved, nil
}

func (s *CatalogService) UpdateMaterial(ctx context.Context, principal model.Principal, id uuid.UUID, name string) (*model.Material, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: Por favor, proporcione un nombre", ErrInvalidInput)
	}
	saved, err := s.repo.UpdateMaterial(ctx, id, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, conflictError(err, "Ya existe un material con este nombre")
	}
	return saved, nil
}

func (s *CatalogService) DeleteMaterial(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return s.deleteEntity(principal, func() error { return s.repo.DeleteMaterial(ctx, id) })
}

func (s *CatalogService) ListShiftTypes(ctx context.Context, principal model.Principal) ([]model.ShiftType, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.repo.ListShiftTypes(ctx)
}

func (s *CatalogService) CreateShiftType(ctx context.Context, principal model.Principal, name string) (*model.ShiftType, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: Por favor, proporcione un tipo de jornada", ErrInvalidInput)
	}
	saved, err := s.repo.CreateShiftType(ctx, name)
	if err != nil {
		return nil, conflictError(err, "Ya existe una jornada con este nombre")
	}
	return saved, nil
}

func (s *CatalogService) UpdateShiftType(ctx context.Context, principal model.Principal, id uuid.UUID, name string) (*model.ShiftType, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: Por favor, proporcione un tipo de jornada", ErrInvalidInput)
	}
	saved, err := s.repo.UpdateShiftType(ctx, id, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, conflictError(err, "Ya existe una jornada con este nombre")
	}
	return saved, nil
}

func (s *CatalogService) DeleteShiftType(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return s.deleteEntity(principal, func() error { return s.repo.DeleteShiftType(ctx, id) })
}

func (s *CatalogService) deleteEntity(principal model.Principal, del func() error) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	if err := del(); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func validateDriverInput(input DriverInput, requirePassword bool) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: Por favor, proporcione un nombre", ErrInvalidInput)
	}
	if strings.TrimSpace(input.AssignedPlate) == "" {
		return fmt.Errorf("%w: Por favor, proporcione una matrícula asignada", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Carrier) == "" {
		return fmt.Errorf("%w: Por favor, proporcione un transportista asociado", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Email) == "" {
		return fmt.Errorf("%w: Por favor, proporcione un correo electrónico", ErrInvalidInput)
	}
	if requirePassword && len(input.Password) < 8 {
		return fmt.Errorf("%w: La contraseña debe tener al menos 8 caracteres", ErrInvalidInput)
	}
	if input.Password != "" && len(input.Password) < 8 {
		return fmt.Errorf("%w: La contraseña debe tener al menos 8 caracteres", ErrInvalidInput)
	}
	return nil
}

func conflictError(err error, message string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%w: %s", ErrConflict, message)
	}
	return err
}
