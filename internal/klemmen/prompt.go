package klemmen

// jsonSchema spells out the exact reply structure the analyze assistant
// must produce, including the mandatory single ```json fence.
const jsonSchema = "\n" +
	"Gib die Klemmenbelegung **zuerst als JSON** zurück, mit exakt dieser Struktur (keine zusätzlichen Felder):\n" +
	"{\n" +
	"  \"controller\": \"Carel|Danfoss|Wurm\",\n" +
	"  \"assumptions\": \"kurzer Hinweistext\",\n" +
	"  \"rows\": [\n" +
	"    {\n" +
	"      \"signal\": \"z.B. Saugdrucksensor\",\n" +
	"      \"category\": \"Sensor|Aktor|Verbraucher\",\n" +
	"      \"ioType\": \"DI|DO|AI|AO|PWM|COM\",\n" +
	"      \"module\": \"z.B. CAREL I/O-Expander 8DI/8DO\",\n" +
	"      \"slot\": \"z.B. Klemmenblock/Modul-Slot\",\n" +
	"      \"terminal\": \"z.B. DI1 / DO3 / AI2 etc.\",\n" +
	"      \"voltage\": \"z.B. 24V AC/DC\",\n" +
	"      \"cable\": \"empfohlener Kabeltyp/Querschnitt\",\n" +
	"      \"article\": \"Artikelnummer/Typ, falls vorhanden\",\n" +
	"      \"source\": \"Fundstelle: Datei + Seite/Position\"\n" +
	"    }\n" +
	"  ]\n" +
	"}\n" +
	"**WICHTIG:** Die JSON-Ausgabe MUSS in einem einzigen ```json Codeblock stehen. Danach (optional) eine knappe Markdown-Zusammenfassung."

// AnalysisInstruction is the user message sent with uploaded documents
// on the analyze path. It embeds the schema so the reply can be
// extracted into a Table.
const AnalysisInstruction = "Analysiere die hochgeladenen RI-/Dokumente und erstelle eine Klemmenbelegung.\n" +
	"1) Erkenne Aktorik, Sensorik und elektrische Verbraucher.\n" +
	"2) Bestimme notwendige Zusatzmodule für den vorgegebenen Verbundregler.\n" +
	"3) Gib zuerst die Klemmenbelegung **als JSON** im geforderten Schema zurück.\n" +
	jsonSchema
