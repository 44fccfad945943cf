// Package klemmen models the terminal assignment table (Klemmenplan)
// for refrigeration compound controllers and extracts it from
// assistant replies.
package klemmen

import "fmt"

// Controller identifies the compound controller family a table targets.
type Controller string

const (
	ControllerCarel   Controller = "Carel"
	ControllerDanfoss Controller = "Danfoss"
	ControllerWurm    Controller = "Wurm"
)

// Category classifies what a signal is attached to.
type Category string

const (
	CategorySensor Category = "Sensor"
	CategoryAktor  Category = "Aktor"
	CategoryLoad   Category = "Verbraucher"
)

// IOType is the electrical interface type of a terminal.
type IOType string

const (
	IODigitalIn  IOType = "DI"
	IODigitalOut IOType = "DO"
	IOAnalogIn   IOType = "AI"
	IOAnalogOut  IOType = "AO"
	IOPWM        IOType = "PWM"
	IOBus        IOType = "COM"
)

// Row is one terminal assignment.
type Row struct {
	Signal   string   `json:"signal"`
	Category Category `json:"category"`
	IOType   IOType   `json:"ioType"`
	Module   string   `json:"module"`
	Slot     string   `json:"slot"`
	Terminal string   `json:"terminal"`
	Voltage  string   `json:"voltage"`
	Cable    string   `json:"cable"`
	Article  string   `json:"article"`
	Source   string   `json:"source"`
}

// Table is a complete terminal assignment for one controller. A Table
// is either schema-valid as a whole or discarded; downstream consumers
// (spreadsheet export) never see partially populated tables.
type Table struct {
	Controller  Controller `json:"controller"`
	Assumptions string     `json:"assumptions"`
	Rows        []Row      `json:"rows"`
}

var validControllers = map[Controller]bool{
	ControllerCarel:   true,
	ControllerDanfoss: true,
	ControllerWurm:    true,
}

var validCategories = map[Category]bool{
	CategorySensor: true,
	CategoryAktor:  true,
	CategoryLoad:   true,
}

var validIOTypes = map[IOType]bool{
	IODigitalIn:  true,
	IODigitalOut: true,
	IOAnalogIn:   true,
	IOAnalogOut:  true,
	IOPWM:        true,
	IOBus:        true,
}

// Validate enforces the full schema: known controller and, per row, a
// non-empty signal plus known category and IO type. Extract applies
// only the shallow shape check; Validate is the opt-in strict level.
func (t *Table) Validate() error {
	if !validControllers[t.Controller] {
		return fmt.Errorf("unknown controller %q", t.Controller)
	}
	for i, row := range t.Rows {
		if row.Signal == "" {
			return fmt.Errorf("row %d: signal is empty", i)
		}
		if !validCategories[row.Category] {
			return fmt.Errorf("row %d: unknown category %q", i, row.Category)
		}
		if !validIOTypes[row.IOType] {
			return fmt.Errorf("row %d: unknown ioType %q", i, row.IOType)
		}
	}
	return nil
}
