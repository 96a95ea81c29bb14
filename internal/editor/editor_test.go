package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logistica/partes-service/internal/model"
)

func adminActor() Actor {
	return Actor{Kind: model.RoleAdmin}
}

func driverActor() Actor {
	return Actor{
		Kind: model.RoleDriver,
		Profile: DriverProfile{
			Name:          "Juan",
			AssignedPlate: "ABC123",
			Carrier:       "Transportes X",
		},
	}
}

func staticLoader(data *model.ReferenceData) ReferenceLoader {
	return func(ctx context.Context) (*model.ReferenceData, error) {
		return data, nil
	}
}

func testReferenceData() *model.ReferenceData {
	return &model.ReferenceData{
		Drivers:   []model.Option{{ID: uuid.New(), Name: "Juan"}},
		Carriers:  []model.Option{{ID: uuid.New(), Name: "Transportes X"}},
		Vehicles:  []model.Option{{ID: uuid.New(), Name: "ABC123"}},
		Clients:   []model.Option{{ID: uuid.New(), Name: "Cliente1"}},
		Materials: []model.Option{{ID: uuid.New(), Name: "Arena"}},
		Shifts:    []model.Option{{ID: uuid.New(), Name: "manana"}},
	}
}

type submitRecorder struct {
	calls   int
	last    model.WorkReport
	failure error
}

func (r *submitRecorder) fn() SubmitFunc {
	return func(ctx context.Context, report model.WorkReport) error {
		r.calls++
		r.last = report
		return r.failure
	}
}

func readyEditor(t *testing.T, actor Actor, recorder *submitRecorder) *Editor {
	t.Helper()
	e := New(actor, staticLoader(testReferenceData()), recorder.fn(), time.Second)
	require.NoError(t, e.Load(context.Background()))
	require.Equal(t, StateReady, e.State())
	return e
}

// fillValidDraft applies the mutations of a complete, valid parte.
func fillValidDraft(t *testing.T, e *Editor) {
	t.Helper()
	cmds := []Command{
		SetField{Field: FieldDate, Value: "2024-06-01"},
		SetSelection{Field: FieldVehiclePlate, Value: "ABC123"},
		SetField{Field: FieldKilometers, Value: "120"},
		SetSelection{Field: FieldDriverName, Value: "Juan"},
		SetSelection{Field: FieldCarrierName, Value: "Transportes X"},
		SetLineSelection{Index: 0, Field: LineFieldClient, Value: "Cliente1"},
		SetLineField{Index: 0, Field: LineFieldLoadingPlace, Value: "Madrid"},
		SetLineField{Index: 0, Field: LineFieldUnloadingPlace, Value: "Barcelona"},
		SetLineField{Index: 0, Field: LineFieldWaitTime, Value: "01:30"},
		SetLineField{Index: 0, Field: LineFieldWorkTime, Value: "02:00"},
		SetLineField{Index: 0, Field: LineFieldTonnage, Value: "24"},
		SetLineSelection{Index: 0, Field: LineFieldMaterial, Value: "Arena"},
		SetLineSelection{Index: 0, Field: LineFieldShift, Value: "manana"},
	}
	for _, cmd := range cmds {
		require.NoError(t, e.Apply(cmd))
	}
}

func TestNewReportAdmin(t *testing.T) {
	e := New(adminActor(), staticLoader(testReferenceData()), (&submitRecorder{}).fn(), time.Second)

	require.Equal(t, StateInitializing, e.State())
	require.ErrorIs(t, e.Apply(SetField{Field: FieldKilometers, Value: "10"}), ErrNotReady)

	require.NoError(t, e.Load(context.Background()))
	require.Equal(t, StateReady, e.State())
	require.NotNil(t, e.References())

	draft := e.Draft()
	assert.Len(t, draft.Lines, 1)
	assert.Equal(t, model.ReportLine{}, draft.Lines[0])
	assert.Equal(t, model.ReportStatusPending, draft.Status)
	assert.Empty(t, draft.DriverName)
	assert.False(t, draft.Date.IsZero())
}

func TestNewReportDriverPrefill(t *testing.T) {
	e := readyEditor(t, driverActor(), &submitRecorder{})

	draft := e.Draft()
	assert.Equal(t, "Juan", draft.DriverName)
	assert.Equal(t, "ABC123", draft.VehiclePlate)
	assert.Equal(t, "Transportes X", draft.CarrierName)

	require.ErrorIs(t, e.Apply(SetField{Field: FieldDriverName, Value: "Otro"}), ErrFieldLocked)
	require.ErrorIs(t, e.Apply(SetSelection{Field: FieldVehiclePlate, Value: "ZZZ999"}), ErrFieldLocked)
	require.ErrorIs(t, e.Apply(SetField{Field: FieldCarrierName, Value: "Otra"}), ErrFieldLocked)

	after := e.Draft()
	assert.Equal(t, draft.DriverName, after.DriverName)
	assert.Equal(t, draft.VehiclePlate, after.VehiclePlate)
}

func TestDriverCannotComplete(t *testing.T) {
	e := readyEditor(t, driverActor(), &submitRecorder{})

	require.ErrorIs(t, e.Apply(SetSelection{Field: FieldStatus, Value: "Completado"}), ErrFieldLocked)
	assert.Equal(t, model.ReportStatusPending, e.Draft().Status)

	require.NoError(t, e.Apply(SetSelection{Field: FieldStatus, Value: "Pendiente"}))
}

func TestAdminCanComplete(t *testing.T) {
	e := readyEditor(t, adminActor(), &submitRecorder{})

	require.NoError(t, e.Apply(SetSelection{Field: FieldStatus, Value: "Completado"}))
	assert.Equal(t, model.ReportStatusCompleted, e.Draft().Status)
}

func TestLoadFailureAndRetry(t *testing.T) {
	attempts := 0
	loader := func(ctx context.Context) (*model.ReferenceData, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("connection refused")
		}
		return testReferenceData(), nil
	}

	e := New(adminActor(), loader, (&submitRecorder{}).fn(), time.Second)
	require.Error(t, e.Load(context.Background()))
	require.Equal(t, StateLoadFailed, e.State())
	assert.Nil(t, e.References())

	require.NoError(t, e.Load(context.Background()))
	require.Equal(t, StateReady, e.State())
}

func TestLoadTimeout(t *testing.T) {
	loader := func(ctx context.Context) (*model.ReferenceData, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
			return testReferenceData(), nil
		}
	}

	e := New(adminActor(), loader, (&submitRecorder{}).fn(), 10*time.Millisecond)
	err := e.Load(context.Background())
	require.Error(t, err)
	require.Equal(t, StateLoadFailed, e.State())
}

func TestKilometersCoercion(t *testing.T) {
	e := readyEditor(t, adminActor(), &submitRecorder{})

	require.NoError(t, e.Apply(SetField{Field: FieldKilometers, Value: "50"}))
	assert.Equal(t, 50.0, e.Draft().Kilometers)

	// Unparseable input leaves the field unchanged.
	require.NoError(t, e.Apply(SetField{Field: FieldKilometers, Value: "abc"}))
	assert.Equal(t, 50.0, e.Draft().Kilometers)

	// Non-positive values are stored and flagged by Validate instead of
	// being dropped at the keystroke.
	require.NoError(t, e.Apply(SetField{Field: FieldKilometers, Value: "0"}))
	assert.Equal(t, 0.0, e.Draft().Kilometers)
	assert.Contains(t, e.Validate(), "Por favor, introduzca unos kilómetros mayores que 0")
}

func TestTonnageCoercion(t *testing.T) {
	e := readyEditor(t, adminActor(), &submitRecorder{})

	require.NoError(t, e.Apply(SetLineField{Index: 0, Field: LineFieldTonnage, Value: "24.5"}))
	assert.Equal(t, 24.5, e.Draft().Lines[0].Tonnage)

	require.NoError(t, e.Apply(SetLineField{Index: 0, Field: LineFieldTonnage, Value: "nope"}))
	assert.Equal(t, 24.5, e.Draft().Lines[0].Tonnage)
}

func TestSelectionSentinelIgnored(t *testing.T) {
	e := readyEditor(t, adminActor(), &submitRecorder{})

	require.NoError(t, e.Apply(SetSelection{Field: FieldVehiclePlate, Value: "ABC123"}))
	require.NoError(t, e.Apply(SetSelection{Field: FieldVehiclePlate, Value: NoOptionsValue}))
	require.NoError(t, e.Apply(SetSelection{Field: FieldVehiclePlate, Value: ""}))
	assert.Equal(t, "ABC123", e.Draft().VehiclePlate)

	require.NoError(t, e.Apply(SetLineSelection{Index: 0, Field: LineFieldMaterial, Value: "Arena"}))
	require.NoError(t, e.Apply(SetLineSelection{Index: 0, Field: LineFieldMaterial, Value: NoOptionsValue}))
	assert.Equal(t, "Arena", e.Draft().Lines[0].Material)
}

func TestAddLine(t *testing.T) {
	e := readyEditor(t, adminActor(), &submitRecorder{})

	for n := 1; n <= 3; n++ {
		require.Len(t, e.Draft().Lines, n)
		require.NoError(t, e.Apply(AddLine{}))
		draft := e.Draft()
		require.Len(t, draft.Lines, n+1)
		assert.Equal(t, model.ReportLine{}, draft.Lines[n])
	}
}

func TestRemoveLineGuard(t *testing.T) {
	e := readyEditor(t, adminActor(), &submitRecorder{})
	require.Len(t, e.Draft().Lines, 1)

	err := e.Apply(RemoveLine{Index: 0})
	require.Error(t, err)

	var validation *model.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, []string{"Debe haber al menos una línea en el parte"}, validation.Messages)
	assert.Equal(t, []string{"Debe haber al menos una línea en el parte"}, e.Errors())
	assert.Len(t, e.Draft().Lines, 1)
}

func TestRemoveLine(t *testing.T) {
	e := readyEditor(t, adminActor(), &submitRecorder{})
	require.NoError(t, e.Apply(AddLine{}))
	require.NoError(t, e.Apply(SetLineField{Index: 1, Field: LineFieldLoadingPlace, Value: "Sevilla"}))

	require.NoError(t, e.Apply(RemoveLine{Index: 0}))
	draft := e.Draft()
	require.Len(t, draft.Lines, 1)
	assert.Equal(t, "Sevilla", draft.Lines[0].LoadingPlace)

	require.ErrorIs(t, e.Apply(RemoveLine{Index: 5}), ErrLineIndex)
}

func TestValidateEmptyDraftAccumulates(t *testing.T) {
	e := readyEditor(t, adminActor(), &submitRecorder{})
	require.NoError(t, e.Apply(SetField{Field: FieldDate, Value: ""}))

	errs := e.Validate()
	assert.GreaterOrEqual(t, len(errs), 8)
	assert.Contains(t, errs, "Por favor, seleccione una fecha")
	assert.Contains(t, errs, "Por favor, seleccione una matrícula")
	assert.Contains(t, errs, "Por favor, seleccione un conductor")
	assert.Contains(t, errs, "Por favor, seleccione un transportista")
	assert.Contains(t, errs, "Línea 1: Por favor, seleccione un cliente")
	assert.Contains(t, errs, "Línea 1: Por favor, seleccione un tipo de jornada")
}

func TestValidateIsPure(t *testing.T) {
	e := readyEditor(t, adminActor(), &submitRecorder{})

	first := e.Validate()
	second := e.Validate()
	assert.Equal(t, first, second)
}

func TestValidateTimeFormat(t *testing.T) {
	e := readyEditor(t, adminActor(), &submitRecorder{})
	fillValidDraft(t, e)

	require.NoError(t, e.Apply(SetLineField{Index: 0, Field: LineFieldWaitTime, Value: "130"}))
	errs := e.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "Línea 1: Por favor, ingrese el tiempo de espera en formato HH:MM", errs[0])

	require.NoError(t, e.Apply(SetLineField{Index: 0, Field: LineFieldWaitTime, Value: "1:30"}))
	assert.Empty(t, e.Validate())
}

func TestSubmitHappyPath(t *testing.T) {
	recorder := &submitRecorder{}
	e := readyEditor(t, adminActor(), recorder)
	fillValidDraft(t, e)

	require.Empty(t, e.Validate())
	require.NoError(t, e.Submit(context.Background()))

	assert.Equal(t, StateDone, e.State())
	assert.Equal(t, 1, recorder.calls)
	assert.Equal(t, "Juan", recorder.last.DriverName)
	assert.Equal(t, 120.0, recorder.last.Kilometers)
	require.Len(t, recorder.last.Lines, 1)
	assert.Equal(t, model.ShiftMorning, recorder.last.Lines[0].Shift)
}

func TestSubmitBlockedByValidation(t *testing.T) {
	recorder := &submitRecorder{}
	e := readyEditor(t, adminActor(), recorder)
	fillValidDraft(t, e)
	require.NoError(t, e.Apply(SetField{Field: FieldKilometers, Value: "0"}))

	err := e.Submit(context.Background())
	require.Error(t, err)

	var validation *model.ValidationError
	require.ErrorAs(t, err, &validation)
	require.Len(t, validation.Messages, 1)
	assert.Contains(t, validation.Messages[0], "kilómetros")
	assert.Equal(t, 0, recorder.calls)
	assert.Equal(t, StateReady, e.State())
}

func TestSubmitServerRejection(t *testing.T) {
	recorder := &submitRecorder{failure: errors.New("Ya existe un parte para esta fecha")}
	e := readyEditor(t, adminActor(), recorder)
	fillValidDraft(t, e)
	before := e.Draft()

	err := e.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, []string{"Ya existe un parte para esta fecha"}, e.Errors())
	assert.Equal(t, StateReady, e.State())
	assert.Equal(t, before, e.Draft())

	// The draft can be resubmitted once the server accepts it.
	recorder.failure = nil
	require.NoError(t, e.Submit(context.Background()))
	assert.Equal(t, 2, recorder.calls)
	assert.Equal(t, StateDone, e.State())
}

func TestEditModeDateRoundTrip(t *testing.T) {
	id := uuid.New()
	stored := model.WorkReport{
		ID:           id,
		Date:         time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		VehiclePlate: "ABC123",
		Kilometers:   80,
		DriverName:   "Juan",
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
	fetch := func(ctx context.Context, fetchID uuid.UUID) (*model.WorkReport, error) {
		require.Equal(t, id, fetchID)
		report := stored
		return &report, nil
	}

	recorder := &submitRecorder{}
	e := NewForEdit(adminActor(), staticLoader(testReferenceData()), fetch, recorder.fn(), id, time.Second)
	require.NoError(t, e.Load(context.Background()))

	assert.Equal(t, "2024-03-15", e.DisplayDate())

	require.NoError(t, e.Submit(context.Background()))
	assert.True(t, recorder.last.Date.Equal(stored.Date))
	assert.Equal(t, stored.Lines, recorder.last.Lines)
}

func TestEditModeDriverMayPickFields(t *testing.T) {
	id := uuid.New()
	fetch := func(ctx context.Context, fetchID uuid.UUID) (*model.WorkReport, error) {
		return &model.WorkReport{
			ID:           id,
			Date:         time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
			VehiclePlate: "ABC123",
			Kilometers:   80,
			DriverName:   "Juan",
			CarrierName:  "Transportes X",
			Status:       model.ReportStatusPending,
			Lines:        []model.ReportLine{{}},
		}, nil
	}

	e := NewForEdit(driverActor(), staticLoader(testReferenceData()), fetch, (&submitRecorder{}).fn(), id, time.Second)
	require.NoError(t, e.Load(context.Background()))

	// The stored timestamp is truncated to a calendar date for display.
	assert.Equal(t, "2024-03-15", e.DisplayDate())

	// Field locks apply to new reports only; editing re-enables them.
	require.NoError(t, e.Apply(SetSelection{Field: FieldVehiclePlate, Value: "XYZ789"}))
	assert.Equal(t, "XYZ789", e.Draft().VehiclePlate)
}

func TestDraftIsACopy(t *testing.T) {
	e := readyEditor(t, adminActor(), &submitRecorder{})

	draft := e.Draft()
	draft.Lines[0].Client = "mutado"
	draft.Kilometers = 999

	assert.Empty(t, e.Draft().Lines[0].Client)
	assert.Zero(t, e.Draft().Kilometers)
}
