package editor

// Field names a top-level scalar of the work report draft.
type Field string

const (
	FieldDate         Field = "fecha"
	FieldVehiclePlate Field = "matricula"
	FieldKilometers   Field = "kilometros"
	FieldDriverName   Field = "conductor"
	FieldCarrierName  Field = "transportista"
	FieldStatus       Field = "estado"
)

// LineField names a field of one report line.
type LineField string

const (
	LineFieldClient         LineField = "cliente"
	LineFieldLoadingPlace   LineField = "lugarCarga"
	LineFieldUnloadingPlace LineField = "lugarDescarga"
	LineFieldWaitTime       LineField = "espera"
	LineFieldWorkTime       LineField = "trabajo"
	LineFieldTonnage        LineField = "toneladas"
	LineFieldMaterial       LineField = "material"
	LineFieldShift          LineField = "jornada"
)

// Command is one draft mutation. Each concrete command carries exactly
// the data its case of Editor.Apply needs.
type Command interface{ isCommand() }

type SetField struct {
	Field Field
	Value string
}

type SetLineField struct {
	Index int
	Field LineField
	Value string
}

type SetSelection struct {
	Field Field
	Value string
}

type SetLineSelection struct {
	Index int
	Field LineField
	Value string
}

type AddLine struct{}

type RemoveLine struct {
	Index int
}

func (SetField) isCommand()         {}
func (SetLineField) isCommand()     {}
func (SetSelection) isCommand()     {}
func (SetLineSelection) isCommand() {}
func (AddLine) isCommand()          {}
func (RemoveLine) isCommand()       {}
