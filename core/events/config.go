package events

// Config holds the event publishing settings.
type Config struct {
	// Enabled turns publishing on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Brokers is a comma separated list of host:port Kafka bootstrap addresses.
	Brokers string `mapstructure:"brokers" default:"localhost:9092"`
	// Topic receives one message per appended sale.
	Topic string `mapstructure:"topic" default:"sales-history"`
}
