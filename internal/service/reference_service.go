package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/logistica/partes-service/internal/model"
)

// ReferenceStore supplies the reference-entity lists.
type ReferenceStore interface {
	GetDriver(ctx context.Context, id uuid.UUID) (*model.Driver, error)
	ListDrivers(ctx context.Context) ([]model.Driver, error)
	ListCarriers(ctx context.Context) ([]model.Carrier, error)
	ListVehicles(ctx context.Context) ([]model.Vehicle, error)
	ListClients(ctx context.Context) ([]model.Client, error)
	ListMaterials(ctx context.Context) ([]model.Material, error)
	ListShiftTypes(ctx context.Context) ([]model.ShiftType, error)
}

type ReferenceService struct {
	repo        ReferenceStore
	loadTimeout time.Duration
}

func NewReferenceService(repo ReferenceStore, loadTimeout time.Duration) *ReferenceService {
	return &ReferenceService{repo: repo, loadTimeout: loadTimeout}
}

// Fetch returns the pick-lists for the editor, bounded by the
// configured load timeout. An admin gets the unrestricted lists; a
// driver gets the driver list narrowed to themselves, since their name,
// plate and carrier come pre-filled from their own profile.
func (s *ReferenceService) Fetch(ctx context.Context, principal model.Principal) (*model.ReferenceData, error) {
	if s.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.loadTimeout)
		defer cancel()
	}

	drivers, err := s.repo.ListDrivers(ctx)
	if err != nil {
		return nil, err
	}
	carriers, err := s.repo.ListCarriers(ctx)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.repo.ListVehicles(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	materials, err := s.repo.ListMaterials(ctx)
	if err != nil {
		return nil, err
	}
	shifts, err := s.repo.ListShiftTypes(ctx)
	if err != nil {
		return nil, err
	}

	data := &model.ReferenceData{
		Carriers:  make([]model.Option, 0, len(carriers)),
		Vehicles:  make([]model.Option, 0, len(vehicles)),
		Clients:   make([]model.Option, 0, len(clients)),
		Materials: make([]model.Option, 0, len(materials)),
		Shifts:    make([]model.Option, 0, len(shifts)),
	}
	for _, c := range carriers {
		data.Carriers = append(data.Carriers, model.Option{ID: c.ID, Name: c.Name})
	}
	for _, v := range vehicles {
		data.Vehicles = append(data.Vehicles, model.Option{ID: v.ID, Name: v.Plate})
	}
	for _, c := range clients {
		data.Clients = append(data.Clients, model.Option{ID: c.ID, Name: c.Name})
	}
	for _, m := range materials {
		data.Materials = append(data.Materials, model.Option{ID: m.ID, Name: m.Name})
	}
	for _, sh := range shifts {
		data.Shifts = append(data.Shifts, model.Option{ID: sh.ID, Name: sh.Name})
	}

	data.Drivers = make([]model.Option, 0, len(drivers))
	for _, d := range drivers {
		if principal.IsDriver() && d.ID != principal.UserID {
			continue
		}
		data.Drivers = append(data.Drivers, model.Option{ID: d.ID, Name: d.Name})
	}
	if principal.IsDriver() && len(data.Drivers) == 0 {
		// Driver accounts created outside the catalog still need their
		// own name selectable.
		data.Drivers = append(data.Drivers, model.Option{ID: principal.UserID, Name: principal.Name})
	}

	return data, nil
}

// DriverProfile resolves a driver principal back to its full profile,
// used to pre-fill the editor's locked fields.
func (s *ReferenceService) DriverProfile(ctx context.Context, principal model.Principal) (*model.Driver, error) {
	if !principal.IsDriver() {
		return nil, ErrPermissionDenied
	}
	driver, err := s.repo.GetDriver(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return driver, nil
}
