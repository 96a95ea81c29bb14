// Package editor implements the parte de trabajo form controller: it
// owns one work-report draft per editing session, applies field
// mutations, validates the draft and hands it to a caller-supplied
// persistence function on submit.
package editor

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/logistica/partes-service/internal/model"
)

const lineGuardMessage = "Debe haber al menos una línea en el parte"

// NoOptionsValue is the sentinel a selection control emits when its
// pick-list is empty. Applying it never changes the draft.
const NoOptionsValue = "sin-opciones"

var (
	ErrNotReady    = errors.New("editor is not ready")
	ErrFieldLocked = errors.New("field is read-only for this actor")
	ErrLineIndex   = errors.New("line index out of range")
)

type State string

const (
	StateInitializing State = "initializing"
	StateLoadFailed   State = "load_failed"
	StateReady        State = "ready"
	StateSubmitting   State = "submitting"
	StateDone         State = "done"
)

// Actor is the authenticated user behind the editing session, passed in
// explicitly so the editor never reads ambient session state.
type Actor struct {
	Kind    model.Role
	Profile DriverProfile
}

// DriverProfile carries the driver fields a new report is pre-filled
// with. Unused for admin actors.
type DriverProfile struct {
	Name          string
	AssignedPlate string
	Carrier       string
}

type (
	ReferenceLoader func(ctx context.Context) (*model.ReferenceData, error)
	FetchFunc       func(ctx context.Context, id uuid.UUID) (*model.WorkReport, error)
	SubmitFunc      func(ctx context.Context, report model.WorkReport) error
)

type Editor struct {
	actor       Actor
	loader      ReferenceLoader
	fetch       FetchFunc
	submit      SubmitFunc
	loadTimeout time.Duration

	editing bool
	editID  uuid.UUID

	state State
	refs  *model.ReferenceData
	draft model.WorkReport
	errs  []string
}

// New builds an editor in new-report mode. The draft is hydrated when
// Load completes.
func New(actor Actor, loader ReferenceLoader, submit SubmitFunc, loadTimeout time.Duration) *Editor {
	return &Editor{
		actor:       actor,
		loader:      loader,
		submit:      submit,
		loadTimeout: loadTimeout,
		state:       StateInitializing,
	}
}

// NewForEdit builds an editor that hydrates its draft from a previously
// persisted report.
func NewForEdit(actor Actor, loader ReferenceLoader, fetch FetchFunc, submit SubmitFunc, id uuid.UUID, loadTimeout time.Duration) *Editor {
	e := New(actor, loader, submit, loadTimeout)
	e.editing = true
	e.editID = id
	e.fetch = fetch
	return e
}

// Load fetches the reference data and, in edit mode, the report being
// edited. A failed or timed-out load leaves the editor in
// StateLoadFailed; calling Load again retries.
func (e *Editor) Load(ctx context.Context) error {
	if e.state != StateInitializing && e.state != StateLoadFailed {
		return ErrNotReady
	}

	if e.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.loadTimeout)
		defer cancel()
	}

	refs, err := e.loader(ctx)
	if err != nil {
		e.state = StateLoadFailed
		return err
	}

	if e.editing {
		report, err := e.fetch(ctx, e.editID)
		if err != nil {
			e.state = StateLoadFailed
			return err
		}
		e.draft = cloneReport(*report)
		e.draft.Date = truncateToDate(e.draft.Date)
	} else {
		e.draft = e.emptyDraft()
	}

	e.refs = refs
	e.state = StateReady
	return nil
}

func (e *Editor) emptyDraft() model.WorkReport {
	draft := model.WorkReport{
		Date:   truncateToDate(time.Now()),
		Status: model.ReportStatusPending,
		Lines:  []model.ReportLine{{}},
	}
	if e.actor.Kind == model.RoleDriver {
		draft.DriverName = e.actor.Profile.Name
		draft.VehiclePlate = e.actor.Profile.AssignedPlate
		draft.CarrierName = e.actor.Profile.Carrier
	}
	return draft
}

func (e *Editor) State() State { return e.state }

// Errors returns the messages surfaced by the last rejected operation
// or submission attempt.
func (e *Editor) Errors() []string {
	out := make([]string, len(e.errs))
	copy(out, e.errs)
	return out
}

// Draft returns a copy of the current draft; mutating it does not
// affect the editor.
func (e *Editor) Draft() model.WorkReport {
	return cloneReport(e.draft)
}

// References returns the loaded pick-lists, or nil before Load
// completes. Absence is distinct from empty lists.
func (e *Editor) References() *model.ReferenceData {
	return e.refs
}

// DisplayDate renders the draft date the way the form shows it.
func (e *Editor) DisplayDate() string {
	if e.draft.Date.IsZero() {
		return ""
	}
	return e.draft.Date.Format("2006-01-02")
}

// Apply dispatches one field-update command against the draft. Numeric
// fields store whatever parses, including non-positive values; Validate
// flags those rather than the keystroke being dropped silently.
func (e *Editor) Apply(cmd Command) error {
	if e.state != StateReady {
		return ErrNotReady
	}

	switch c := cmd.(type) {
	case SetField:
		return e.setField(c.Field, c.Value)
	case SetLineField:
		if c.Index < 0 || c.Index >= len(e.draft.Lines) {
			return ErrLineIndex
		}
		return e.setLineField(c.Index, c.Field, c.Value)
	case SetSelection:
		if c.Value == "" || c.Value == NoOptionsValue {
			return nil
		}
		return e.setField(c.Field, c.Value)
	case SetLineSelection:
		if c.Index < 0 || c.Index >= len(e.draft.Lines) {
			return ErrLineIndex
		}
		if c.Value == "" || c.Value == NoOptionsValue {
			return nil
		}
		return e.setLineField(c.Index, c.Field, c.Value)
	case AddLine:
		e.draft.Lines = append(e.draft.Lines, model.ReportLine{})
		e.errs = nil
		return nil
	case RemoveLine:
		return e.removeLine(c.Index)
	default:
		return errors.New("unknown command")
	}
}

func (e *Editor) setField(field Field, value string) error {
	if e.fieldLocked(field) {
		return ErrFieldLocked
	}

	switch field {
	case FieldDate:
		if value == "" {
			e.draft.Date = time.Time{}
			break
		}
		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			return nil
		}
		e.draft.Date = parsed
	case FieldVehiclePlate:
		e.draft.VehiclePlate = value
	case FieldKilometers:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil
		}
		e.draft.Kilometers = parsed
	case FieldDriverName:
		e.draft.DriverName = value
	case FieldCarrierName:
		e.draft.CarrierName = value
	case FieldStatus:
		status := model.ReportStatus(value)
		if status != model.ReportStatusPending && status != model.ReportStatusCompleted {
			return nil
		}
		if status == model.ReportStatusCompleted && e.actor.Kind == model.RoleDriver {
			return ErrFieldLocked
		}
		e.draft.Status = status
	default:
		return errors.New("unknown field")
	}

	e.errs = nil
	return nil
}

func (e *Editor) setLineField(index int, field LineField, value string) error {
	line := &e.draft.Lines[index]

	switch field {
	case LineFieldClient:
		line.Client = value
	case LineFieldLoadingPlace:
		line.LoadingPlace = value
	case LineFieldUnloadingPlace:
		line.UnloadingPlace = value
	case LineFieldWaitTime:
		line.WaitTime = value
	case LineFieldWorkTime:
		line.WorkTime = value
	case LineFieldTonnage:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil
		}
		line.Tonnage = parsed
	case LineFieldMaterial:
		line.Material = value
	case LineFieldShift:
		shift, ok := model.ParseShift(value)
		if !ok {
			return nil
		}
		line.Shift = shift
	default:
		return errors.New("unknown line field")
	}

	e.errs = nil
	return nil
}

func (e *Editor) removeLine(index int) error {
	if index < 0 || index >= len(e.draft.Lines) {
		return ErrLineIndex
	}
	if len(e.draft.Lines) <= 1 {
		e.errs = []string{lineGuardMessage}
		return &model.ValidationError{Messages: []string{lineGuardMessage}}
	}
	e.draft.Lines = append(e.draft.Lines[:index], e.draft.Lines[index+1:]...)
	e.errs = nil
	return nil
}

// Validate runs the full rule set against the draft without mutating
// it. An empty result means the draft may be submitted.
func (e *Editor) Validate() []string {
	return model.ValidateReport(e.draft)
}

// Submit validates the draft and, when clean, hands it to the
// persistence function. A rejected submission keeps the draft intact so
// the user can retry without re-entering anything.
func (e *Editor) Submit(ctx context.Context) error {
	if e.state != StateReady {
		return ErrNotReady
	}

	if errs := e.Validate(); len(errs) > 0 {
		e.errs = errs
		return &model.ValidationError{Messages: errs}
	}

	e.state = StateSubmitting
	if err := e.submit(ctx, cloneReport(e.draft)); err != nil {
		e.errs = []string{err.Error()}
		e.state = StateReady
		return err
	}

	e.errs = nil
	e.state = StateDone
	return nil
}

func (e *Editor) fieldLocked(field Field) bool {
	if e.actor.Kind != model.RoleDriver || e.editing {
		return false
	}
	switch field {
	case FieldDriverName, FieldVehiclePlate, FieldCarrierName:
		return true
	default:
		return false
	}
}

func cloneReport(report model.WorkReport) model.WorkReport {
	clone := report
	clone.Lines = make([]model.ReportLine, len(report.Lines))
	copy(clone.Lines, report.Lines)
	return clone
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
