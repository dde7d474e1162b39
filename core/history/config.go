package history

// Config holds the history store settings.
type Config struct {
	// Driver selects the backend: "dbf" or "sql".
	Driver string `mapstructure:"driver" default:"dbf" validate:"oneof=dbf sql"`
	// Path is the DBF history file.
	Path string `mapstructure:"path" default:"HISTORICO.DBF"`
	// Table is the SQL history table.
	Table string `mapstructure:"table" default:"historico"`
	// Encoding is the codepage history text is written with, for both drivers.
	Encoding string `mapstructure:"encoding" default:"cp850"`
}
