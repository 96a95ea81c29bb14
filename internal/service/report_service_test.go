package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/logistica/partes-service/internal/model"
)

type mockReportStore struct {
	listFn   func(ctx context.Context, driverName *string) ([]model.WorkReport, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*model.WorkReport, error)
	createFn func(ctx context.Context, report model.WorkReport) (*model.WorkReport, error)
	updateFn func(ctx context.Context, id uuid.UUID, report model.WorkReport) (*model.WorkReport, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockReportStore) List(ctx context.Context, driverName *string) ([]model.WorkReport, error) {
	return m.listFn(ctx, driverName)
}

func (m *mockReportStore) GetByID(ctx context.Context, id uuid.UUID) (*model.WorkReport, error) {
	return m.getFn(ctx, id)
}

func (m *mockReportStore) Create(ctx context.Context, report model.WorkReport) (*model.WorkReport, error) {
	return m.createFn(ctx, report)
}

func (m *mockReportStore) Update(ctx context.Context, id uuid.UUID, report model.WorkReport) (*model.WorkReport, error) {
	return m.updateFn(ctx, id, report)
}

func (m *mockReportStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

type mockExcel struct {
	reports []model.WorkReport
	from    time.Time
	to      time.Time
}

func (m *mockExcel) Generate(reports []model.WorkReport, from, to time.Time) ([]byte, error) {
	m.reports = reports
	m.from = from
	m.to = to
	return []byte("xlsx"), nil
}

type mockPDF struct {
	report model.WorkReport
}

func (m *mockPDF) Generate(report model.WorkReport) ([]byte, error) {
	m.report = report
	return []byte("pdf"), nil
}

func adminPrincipal() model.Principal {
	return model.Principal{UserID: uuid.New(), Name: "Admin", Role: model.RoleAdmin}
}

func driverPrincipal(name string) model.Principal {
	return model.Principal{UserID: uuid.New(), Name: name, Role: model.RoleDriver}
}

func validReport(driver string, date time.Time) model.WorkReport {
	return model.WorkReport{
		Date:         date,
		VehiclePlate: "ABC123",
		Kilometers:   120,
		DriverName:   driver,
		CarrierName:  "Transportes X",
		Status:       model.ReportStatusPending,
		Lines: []model.ReportLine{{
			Client:         "Cliente1",
			LoadingPlace:   "Madrid",
			UnloadingPlace: "Barcelona",
			WaitTime:       "01:30",
			WorkTime:       "02:00",
			Tonnage:        24,
			Material:       "Arena",
			Shift:          model.ShiftMorning,
		}},
	}
}

func TestReportListScoping(t *testing.T) {
	var captured *string
	store := &mockReportStore{
		listFn: func(ctx context.Context, driverName *string) ([]model.WorkReport, error) {
			captured = driverName
			return nil, nil
		},
	}
	svc := NewReportService(store, nil, nil)

	_, err := svc.List(context.Background(), adminPrincipal())
	require.NoError(t, err)
	assert.Nil(t, captured)

	_, err = svc.List(context.Background(), driverPrincipal("Juan"))
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "Juan", *captured)
}

func TestReportGetOwnership(t *testing.T) {
	id := uuid.New()
	store := &mockReportStore{
		getFn: func(ctx context.Context, fetchID uuid.UUID) (*model.WorkReport, error) {
			report := validReport("Juan", time.Now())
			report.ID = fetchID
			return &report, nil
		},
	}
	svc := NewReportService(store, nil, nil)

	_, err := svc.Get(context.Background(), driverPrincipal("Pedro"), id)
	require.ErrorIs(t, err, ErrPermissionDenied)

	report, err := svc.Get(context.Background(), driverPrincipal("Juan"), id)
	require.NoError(t, err)
	assert.Equal(t, "Juan", report.DriverName)

	report, err = svc.Get(context.Background(), adminPrincipal(), id)
	require.NoError(t, err)
	assert.Equal(t, id, report.ID)
}

func TestReportGetNotFound(t *testing.T) {
	store := &mockReportStore{
		getFn: func(ctx context.Context, id uuid.UUID) (*model.WorkReport, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewReportService(store, nil, nil)

	_, err := svc.Get(context.Background(), adminPrincipal(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReportCreateValidationMirror(t *testing.T) {
	store := &mockReportStore{
		createFn: func(ctx context.Context, report model.WorkReport) (*model.WorkReport, error) {
			t.Fatal("store must not be reached for an invalid report")
			return nil, nil
		},
	}
	svc := NewReportService(store, nil, nil)

	invalid := validReport("Juan", time.Now())
	invalid.Kilometers = 0
	invalid.Lines[0].WaitTime = "130"

	_, err := svc.Create(context.Background(), adminPrincipal(), invalid)
	require.Error(t, err)

	var validation *model.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Len(t, validation.Messages, 2)
	assert.Contains(t, validation.Messages, "Por favor, introduzca unos kilómetros mayores que 0")
	assert.Contains(t, validation.Messages, "Línea 1: Por favor, ingrese el tiempo de espera en formato HH:MM")
}

func TestReportCreateRejectsEmptyLines(t *testing.T) {
	store := &mockReportStore{
		createFn: func(ctx context.Context, report model.WorkReport) (*model.WorkReport, error) {
			t.Fatal("store must not be reached for a report without lines")
			return nil, nil
		},
	}
	svc := NewReportService(store, nil, nil)

	report := validReport("Juan", time.Now())
	report.Lines = []model.ReportLine{}

	_, err := svc.Create(context.Background(), adminPrincipal(), report)
	require.Error(t, err)

	var validation *model.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Messages, "Debe haber al menos una línea en el parte")
}

func TestReportUpdateRejectsEmptyLines(t *testing.T) {
	id := uuid.New()
	store := &mockReportStore{
		getFn: func(ctx context.Context, fetchID uuid.UUID) (*model.WorkReport, error) {
			report := validReport("Juan", time.Now())
			report.ID = fetchID
			return &report, nil
		},
		updateFn: func(ctx context.Context, updateID uuid.UUID, report model.WorkReport) (*model.WorkReport, error) {
			t.Fatal("store must not be reached for a report without lines")
			return nil, nil
		},
	}
	svc := NewReportService(store, nil, nil)

	incoming := validReport("Juan", time.Now())
	incoming.Lines = nil

	_, err := svc.Update(context.Background(), adminPrincipal(), id, incoming)
	require.Error(t, err)

	var validation *model.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Messages, "Debe haber al menos una línea en el parte")
}

func TestReportCreateDriverRules(t *testing.T) {
	var stored model.WorkReport
	store := &mockReportStore{
		createFn: func(ctx context.Context, report model.WorkReport) (*model.WorkReport, error) {
			stored = report
			saved := report
			saved.ID = uuid.New()
			return &saved, nil
		},
	}
	svc := NewReportService(store, nil, nil)

	other := validReport("Pedro", time.Now())
	_, err := svc.Create(context.Background(), driverPrincipal("Juan"), other)
	require.ErrorIs(t, err, ErrPermissionDenied)

	// Drivers cannot file a report already marked completed.
	own := validReport("Juan", time.Now())
	own.Status = model.ReportStatusCompleted
	_, err = svc.Create(context.Background(), driverPrincipal("Juan"), own)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusPending, stored.Status)
}

func TestReportUpdateOwnership(t *testing.T) {
	id := uuid.New()
	store := &mockReportStore{
		getFn: func(ctx context.Context, fetchID uuid.UUID) (*model.WorkReport, error) {
			report := validReport("Juan", time.Now())
			report.ID = fetchID
			report.Status = model.ReportStatusCompleted
			return &report, nil
		},
		updateFn: func(ctx context.Context, updateID uuid.UUID, report model.WorkReport) (*model.WorkReport, error) {
			saved := report
			saved.ID = updateID
			return &saved, nil
		},
	}
	svc := NewReportService(store, nil, nil)

	_, err := svc.Update(context.Background(), driverPrincipal("Pedro"), id, validReport("Pedro", time.Now()))
	require.ErrorIs(t, err, ErrPermissionDenied)

	// A driver cannot reassign their report to someone else either.
	_, err = svc.Update(context.Background(), driverPrincipal("Juan"), id, validReport("Pedro", time.Now()))
	require.ErrorIs(t, err, ErrPermissionDenied)

	saved, err := svc.Update(context.Background(), driverPrincipal("Juan"), id, validReport("Juan", time.Now()))
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusPending, saved.Status)
}

func TestReportUpdateKeepsStatusWhenUnset(t *testing.T) {
	id := uuid.New()
	store := &mockReportStore{
		getFn: func(ctx context.Context, fetchID uuid.UUID) (*model.WorkReport, error) {
			report := validReport("Juan", time.Now())
			report.ID = fetchID
			report.Status = model.ReportStatusCompleted
			return &report, nil
		},
		updateFn: func(ctx context.Context, updateID uuid.UUID, report model.WorkReport) (*model.WorkReport, error) {
			saved := report
			saved.ID = updateID
			return &saved, nil
		},
	}
	svc := NewReportService(store, nil, nil)

	incoming := validReport("Juan", time.Now())
	incoming.Status = ""
	saved, err := svc.Update(context.Background(), adminPrincipal(), id, incoming)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusCompleted, saved.Status)
}

func TestReportDeleteAdminOnly(t *testing.T) {
	deleted := false
	store := &mockReportStore{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	svc := NewReportService(store, nil, nil)

	err := svc.Delete(context.Background(), driverPrincipal("Juan"), uuid.New())
	require.ErrorIs(t, err, ErrPermissionDenied)
	assert.False(t, deleted)

	require.NoError(t, svc.Delete(context.Background(), adminPrincipal(), uuid.New()))
	assert.True(t, deleted)
}

func TestExportExcelPeriodFilter(t *testing.T) {
	inRange := validReport("Juan", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	lastDay := validReport("Pedro", time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
	outside := validReport("Luis", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	store := &mockReportStore{
		listFn: func(ctx context.Context, driverName *string) ([]model.WorkReport, error) {
			return []model.WorkReport{inRange, lastDay, outside}, nil
		},
	}
	excel := &mockExcel{}
	svc := NewReportService(store, excel, nil)

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	result, err := svc.ExportExcel(context.Background(), adminPrincipal(), from, to)
	require.NoError(t, err)

	assert.Equal(t, "partes-20240601-20240630.xlsx", result.FileName)
	assert.Equal(t, []byte("xlsx"), result.Content)
	require.Len(t, excel.reports, 2)
	assert.Equal(t, "Juan", excel.reports[0].DriverName)
	assert.Equal(t, "Pedro", excel.reports[1].DriverName)
}

func TestExportExcelRejectsBadPeriod(t *testing.T) {
	svc := NewReportService(&mockReportStore{}, &mockExcel{}, nil)
	from := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.ExportExcel(context.Background(), adminPrincipal(), from, to)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ExportExcel(context.Background(), adminPrincipal(), time.Time{}, to)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ExportExcel(context.Background(), driverPrincipal("Juan"), from, to)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestExportPDF(t *testing.T) {
	id := uuid.New()
	store := &mockReportStore{
		getFn: func(ctx context.Context, fetchID uuid.UUID) (*model.WorkReport, error) {
			report := validReport("Juan Pérez", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
			report.ID = fetchID
			return &report, nil
		},
	}
	pdf := &mockPDF{}
	svc := NewReportService(store, nil, pdf)

	result, err := svc.ExportPDF(context.Background(), adminPrincipal(), id)
	require.NoError(t, err)
	assert.Equal(t, "parte-20240315-Juan-P-rez.pdf", result.FileName)
	assert.Equal(t, []byte("pdf"), result.Content)
	assert.Equal(t, "Juan Pérez", pdf.report.DriverName)

	_, err = svc.ExportPDF(context.Background(), driverPrincipal("Pedro"), id)
	require.ErrorIs(t, err, ErrPermissionDenied)
}
