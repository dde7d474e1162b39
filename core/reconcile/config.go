package reconcile

// Config holds the externally adjustable reconciliation settings.
type Config struct {
	// Sources holds the locations of the four input tables.
	Sources SourcesConfig `mapstructure:"sources"`
	// Columns holds the column names used to join the input tables.
	Columns ColumnsConfig `mapstructure:"columns"`
	// Encoding is the codepage of the input tables.
	Encoding string `mapstructure:"encoding" default:"cp850" validate:"required"`
	// WindowStart is the first business date (YYYY-MM-DD) eligible for import.
	WindowStart string `mapstructure:"window_start" default:"2025-03-01" validate:"required,datetime=2006-01-02"`
	// DedupKey selects the dedup key shape: "ticket" or "ticket_product".
	DedupKey string `mapstructure:"dedup_key" default:"ticket_product" validate:"oneof=ticket ticket_product"`
	// SchemaFile is an optional YAML file describing the output layout.
	SchemaFile string `mapstructure:"schema_file" default:""`
	// Summary selects what a pass returns: "new" records only or the "full" history.
	Summary string `mapstructure:"summary" default:"new" validate:"oneof=new full"`
	// ExtensionRequired makes the extension table mandatory.
	ExtensionRequired bool `mapstructure:"extension_required" default:"false"`
	// KeyCache selects the dedup key cache: none, memory or pebble.
	KeyCache string `mapstructure:"key_cache" default:"none" validate:"oneof=none memory pebble"`
	// KeyCacheDir is the pebble directory used when KeyCache is "pebble".
	KeyCacheDir string `mapstructure:"key_cache_dir" default:".keyindex"`
	// CreditField is the header column compared against CreditValue.
	CreditField string `mapstructure:"credit_field" default:"TYPPAG" validate:"required"`
	// CreditValue is the sentinel that marks a credit sale.
	CreditValue string `mapstructure:"credit_value" default:"CR" validate:"required"`
	// CreditLabel is written for credit sales.
	CreditLabel string `mapstructure:"credit_label" default:"CREDITO"`
	// CashLabel is written for every other sale.
	CashLabel string `mapstructure:"cash_label" default:"CONTADO"`
}

// SourcesConfig holds the input table locations.
type SourcesConfig struct {
	Detail    string `mapstructure:"detail" default:"ZETH51T.DBF" validate:"required"`
	Header    string `mapstructure:"header" default:"ZETH50T.DBF" validate:"required"`
	Product   string `mapstructure:"product" default:"ZETH70.DBF" validate:"required"`
	Extension string `mapstructure:"extension" default:"ZETH70_EXT.DBF"`
}

// ColumnsConfig names the join and value columns of the input tables.
type ColumnsConfig struct {
	DetailTicket  string `mapstructure:"detail_ticket" default:"NUMCHK" validate:"required"`
	DetailProduct string `mapstructure:"detail_product" default:"PRONUM" validate:"required"`
	HeaderTicket  string `mapstructure:"header_ticket" default:"NUMCHK" validate:"required"`
	HeaderDate    string `mapstructure:"header_date" default:"FECCHK" validate:"required"`
	ProductKey    string `mapstructure:"product_key" default:"PRONUM" validate:"required"`
	ProductCost   string `mapstructure:"product_cost" default:"ULCOSREP" validate:"required"`
	ExtensionKey  string `mapstructure:"extension_key" default:"PRONUM" validate:"required"`
}

// DefaultConfig returns the settings for the stock point-of-sale tables.
func DefaultConfig() Config {
	return Config{
		Sources: SourcesConfig{
			Detail:    "ZETH51T.DBF",
			Header:    "ZETH50T.DBF",
			Product:   "ZETH70.DBF",
			Extension: "ZETH70_EXT.DBF",
		},
		Columns: ColumnsConfig{
			DetailTicket:  "NUMCHK",
			DetailProduct: "PRONUM",
			HeaderTicket:  "NUMCHK",
			HeaderDate:    "FECCHK",
			ProductKey:    "PRONUM",
			ProductCost:   "ULCOSREP",
			ExtensionKey:  "PRONUM",
		},
		Encoding:    "cp850",
		WindowStart: "2025-03-01",
		DedupKey:    string(KeyTicketProduct),
		Summary:     string(SummaryNew),
		KeyCache:    "none",
		KeyCacheDir: ".keyindex",
		CreditField: "TYPPAG",
		CreditValue: "CR",
		CreditLabel: "CREDITO",
		CashLabel:   "CONTADO",
	}
}
