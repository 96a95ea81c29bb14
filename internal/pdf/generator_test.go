package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logistica/partes-service/internal/model"
)

func TestGenerate(t *testing.T) {
	generator, err := NewGenerator()
	require.NoError(t, err)

	report := model.WorkReport{
		Date:         time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		VehiclePlate: "ABC123",
		Kilometers:   120,
		DriverName:   "Juan Pérez",
		CarrierName:  "Transportes X",
		Status:       model.ReportStatusPending,
		Lines: []model.ReportLine{
			{
				Client:         "Cliente1",
				LoadingPlace:   "Madrid",
				UnloadingPlace: "Barcelona",
				WaitTime:       "01:30",
				WorkTime:       "02:00",
				Tonnage:        24,
				Material:       "Arena",
				Shift:          model.ShiftMorning,
			},
			{
				Client:         "Cliente2",
				LoadingPlace:   "Sevilla",
				UnloadingPlace: "Córdoba",
				WaitTime:       "00:15",
				WorkTime:       "03:00",
				Tonnage:        18.5,
				Material:       "Grava",
				Shift:          model.ShiftNight,
			},
		},
	}

	content, err := generator.Generate(report)
	require.NoError(t, err)
	require.NotEmpty(t, content)
	assert.Equal(t, "%PDF", string(content[:4]))
}

func TestGenerateEmptyLines(t *testing.T) {
	generator, err := NewGenerator()
	require.NoError(t, err)

	content, err := generator.Generate(model.WorkReport{
		Date:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		DriverName: "Juan",
		Status:     model.ReportStatusCompleted,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}

func TestShiftLabel(t *testing.T) {
	assert.Equal(t, "Mañana", shiftLabel(model.ShiftMorning))
	assert.Equal(t, "Tarde", shiftLabel(model.ShiftAfternoon))
	assert.Equal(t, "Noche", shiftLabel(model.ShiftNight))
	assert.Equal(t, "Completa", shiftLabel(model.ShiftFull))
	assert.Equal(t, "", shiftLabel(model.Shift("")))
}
