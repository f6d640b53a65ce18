package clean

// Record is the canonical intermediate representation every input format is
// converted into before cleaning runs. Values are float64 for numeric cells,
// string for categorical cells, nil for missing cells.
type Record map[string]any

// Format hints accepted by Cleaner.Run.
const (
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatText = "text"
)

// TextField is the column free-text input is cleaned into.
const TextField = "content"
