package klemmen

import (
	"testing"
)

const validTableJSON = `{
  "controller": "Carel",
  "assumptions": "Standardverbund mit 2 Kühlstellen",
  "rows": [
    {
      "signal": "Saugdrucksensor",
      "category": "Sensor",
      "ioType": "AI",
      "module": "CAREL I/O-Expander",
      "slot": "Slot 1",
      "terminal": "AI2",
      "voltage": "24V AC/DC",
      "cable": "LiYCY 2x0,5",
      "article": "PCOE00B0",
      "source": "schema.pdf Seite 3"
    }
  ]
}`

func TestExtractFencedBlock(t *testing.T) {
	reply := "Hier ist die Klemmenbelegung:\n\n```json\n" + validTableJSON + "\n```\n\nKurze Zusammenfassung folgt."

	tbl := Extract(reply)
	if tbl == nil {
		t.Fatal("Extract returned nil for valid fenced JSON")
	}
	if tbl.Controller != ControllerCarel {
		t.Errorf("Controller = %q, want Carel", tbl.Controller)
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(tbl.Rows))
	}
	if tbl.Rows[0].Signal != "Saugdrucksensor" {
		t.Errorf("Signal = %q", tbl.Rows[0].Signal)
	}
	if tbl.Rows[0].IOType != IOAnalogIn {
		t.Errorf("IOType = %q, want AI", tbl.Rows[0].IOType)
	}
}

func TestExtractFenceWithoutLanguageTag(t *testing.T) {
	reply := "```\n" + validTableJSON + "\n```"
	if tbl := Extract(reply); tbl == nil {
		t.Fatal("Extract returned nil for fence without language tag")
	}
}

func TestExtractWholeTextFallback(t *testing.T) {
	tbl := Extract(validTableJSON)
	if tbl == nil {
		t.Fatal("Extract returned nil for bare JSON text")
	}
	if tbl.Assumptions == "" {
		t.Error("Assumptions lost in fallback parse")
	}
}

func TestExtractMalformedJSON(t *testing.T) {
	reply := "Leider unvollständig:\n```json\n{\"controller\": \"Carel\", \"rows\": [\n```\nRest fehlt."
	if tbl := Extract(reply); tbl != nil {
		t.Errorf("Extract = %+v, want nil for malformed JSON", tbl)
	}
}

func TestExtractMissingRows(t *testing.T) {
	reply := "```json\n{\"controller\": \"Danfoss\", \"assumptions\": \"x\"}\n```"
	if tbl := Extract(reply); tbl != nil {
		t.Errorf("Extract = %+v, want nil when rows is absent", tbl)
	}
}

func TestExtractRowsNotArray(t *testing.T) {
	reply := "```json\n{\"controller\": \"Danfoss\", \"rows\": \"keine\"}\n```"
	if tbl := Extract(reply); tbl != nil {
		t.Errorf("Extract = %+v, want nil when rows is not an array", tbl)
	}
}

func TestExtractPrefersFenceOverSurroundingText(t *testing.T) {
	// Malformed fence plus non-JSON prose: both strategies fail.
	reply := "Die Tabelle: ```json not json at all``` und sonst nur Text."
	if tbl := Extract(reply); tbl != nil {
		t.Errorf("Extract = %+v, want nil", tbl)
	}
}

func TestExtractNoJSONAnywhere(t *testing.T) {
	if tbl := Extract("Ich konnte keine Klemmenbelegung erstellen."); tbl != nil {
		t.Errorf("Extract = %+v, want nil for plain prose", tbl)
	}
}

func TestValidate(t *testing.T) {
	tbl := Extract("```json\n" + validTableJSON + "\n```")
	if tbl == nil {
		t.Fatal("Extract returned nil")
	}
	if err := tbl.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRejectsUnknownController(t *testing.T) {
	tbl := &Table{Controller: "Siemens", Rows: nil}
	if err := tbl.Validate(); err == nil {
		t.Error("expected error for unknown controller")
	}
}

func TestValidateRejectsBadRow(t *testing.T) {
	tbl := &Table{
		Controller: ControllerWurm,
		Rows: []Row{
			{Signal: "Verdichter 1", Category: CategoryAktor, IOType: "XX"},
		},
	}
	if err := tbl.Validate(); err == nil {
		t.Error("expected error for unknown ioType")
	}

	tbl.Rows[0] = Row{Signal: "", Category: CategorySensor, IOType: IODigitalIn}
	if err := tbl.Validate(); err == nil {
		t.Error("expected error for empty signal")
	}
}
