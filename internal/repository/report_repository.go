package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/logistica/partes-service/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

type reportRow struct {
	ID           uuid.UUID
	ReportDate   time.Time
	VehiclePlate string
	Kilometers   float64
	DriverName   string
	CarrierName  string
	Status       model.ReportStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type lineRow struct {
	ReportID       uuid.UUID
	Position       int
	Client         string
	LoadingPlace   string
	UnloadingPlace string
	WaitTime       string
	WorkTime       string
	Tonnage        float64
	Material       string
	Shift          model.Shift
}

// List returns work reports newest-created-first. When driverName is
// set only that driver's reports are returned.
func (r *ReportRepository) List(ctx context.Context, driverName *string) ([]model.WorkReport, error) {
	baseQuery := `
		SELECT
			id,
			report_date,
			vehicle_plate,
			kilometers,
			driver_name,
			carrier_name,
			status,
			created_at,
			updated_at
		FROM work_reports
	`
	var args []interface{}
	if driverName != nil {
		baseQuery += " WHERE driver_name = ?"
		args = append(args, *driverName)
	}
	baseQuery += " ORDER BY created_at DESC"

	var rows []reportRow
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []model.WorkReport{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	var lines []lineRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			report_id,
			position,
			client,
			loading_place,
			unloading_place,
			wait_time,
			work_time,
			tonnage,
			material,
			shift
		FROM report_lines
		WHERE report_id = ANY(?)
		ORDER BY report_id, position ASC
	`, ids).Scan(&lines).Error
	if err != nil {
		return nil, err
	}

	linesByReport := make(map[uuid.UUID][]model.ReportLine, len(rows))
	for _, line := range lines {
		linesByReport[line.ReportID] = append(linesByReport[line.ReportID], toLine(line))
	}

	reports := make([]model.WorkReport, 0, len(rows))
	for _, row := range rows {
		report := toReport(row)
		report.Lines = linesByReport[row.ID]
		reports = append(reports, report)
	}
	return reports, nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.WorkReport, error) {
	var row reportRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			report_date,
			vehicle_plate,
			kilometers,
			driver_name,
			carrier_name,
			status,
			created_at,
			updated_at
		FROM work_reports
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	var lines []lineRow
	err = r.db.WithContext(ctx).Raw(`
		SELECT
			report_id,
			position,
			client,
			loading_place,
			unloading_place,
			wait_time,
			work_time,
			tonnage,
			material,
			shift
		FROM report_lines
		WHERE report_id = ?
		ORDER BY position ASC
	`, id).Scan(&lines).Error
	if err != nil {
		return nil, err
	}

	report := toReport(row)
	for _, line := range lines {
		report.Lines = append(report.Lines, toLine(line))
	}
	return &report, nil
}

func (r *ReportRepository) Create(ctx context.Context, report model.WorkReport) (*model.WorkReport, error) {
	var saved reportRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO work_reports (
				report_date,
				vehicle_plate,
				kilometers,
				driver_name,
				carrier_name,
				status
			) VALUES (?, ?, ?, ?, ?, ?)
			RETURNING
				id,
				report_date,
				vehicle_plate,
				kilometers,
				driver_name,
				carrier_name,
				status,
				created_at,
				updated_at
		`,
			report.Date,
			report.VehiclePlate,
			report.Kilometers,
			report.DriverName,
			report.CarrierName,
			report.Status,
		).Scan(&saved).Error
		if err != nil {
			return err
		}
		return insertLines(tx, saved.ID, report.Lines)
	})
	if err != nil {
		return nil, err
	}

	result := toReport(saved)
	result.Lines = report.Lines
	return &result, nil
}

// Update replaces the report header and its full line list. There is no
// concurrency token: the last writer wins.
func (r *ReportRepository) Update(ctx context.Context, id uuid.UUID, report model.WorkReport) (*model.WorkReport, error) {
	var saved reportRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			UPDATE work_reports
			SET
				report_date = ?,
				vehicle_plate = ?,
				kilometers = ?,
				driver_name = ?,
				carrier_name = ?,
				status = ?,
				updated_at = NOW()
			WHERE id = ?
			RETURNING
				id,
				report_date,
				vehicle_plate,
				kilometers,
				driver_name,
				carrier_name,
				status,
				created_at,
				updated_at
		`,
			report.Date,
			report.VehiclePlate,
			report.Kilometers,
			report.DriverName,
			report.CarrierName,
			report.Status,
			id,
		).Scan(&saved).Error
		if err != nil {
			return err
		}
		if saved.ID == uuid.Nil {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Exec(`DELETE FROM report_lines WHERE report_id = ?`, id).Error; err != nil {
			return err
		}
		return insertLines(tx, id, report.Lines)
	})
	if err != nil {
		return nil, err
	}

	result := toReport(saved)
	result.Lines = report.Lines
	return &result, nil
}

func (r *ReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM work_reports WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func insertLines(tx *gorm.DB, reportID uuid.UUID, lines []model.ReportLine) error {
	for i, line := range lines {
		err := tx.Exec(`
			INSERT INTO report_lines (
				report_id,
				position,
				client,
				loading_place,
				unloading_place,
				wait_time,
				work_time,
				tonnage,
				material,
				shift
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			reportID,
			i,
			line.Client,
			line.LoadingPlace,
			line.UnloadingPlace,
			line.WaitTime,
			line.WorkTime,
			line.Tonnage,
			line.Material,
			line.Shift,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func toReport(row reportRow) model.WorkReport {
	return model.WorkReport{
		ID:           row.ID,
		Date:         row.ReportDate,
		VehiclePlate: row.VehiclePlate,
		Kilometers:   row.Kilometers,
		DriverName:   row.DriverName,
		CarrierName:  row.CarrierName,
		Status:       row.Status,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toLine(row lineRow) model.ReportLine {
	return model.ReportLine{
		Client:         row.Client,
		LoadingPlace:   row.LoadingPlace,
		UnloadingPlace: row.UnloadingPlace,
		WaitTime:       row.WaitTime,
		WorkTime:       row.WorkTime,
		Tonnage:        row.Tonnage,
		Material:       row.Material,
		Shift:          row.Shift,
	}
}
