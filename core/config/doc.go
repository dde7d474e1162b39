// Package config provides configuration management for the sales history service.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each section
// and the result is checked with go-playground/validator.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port, API key and shutdown budget
//   - Reconcile: source tables, join columns, window start, dedup key, schema file
//   - History: history backend (dbf or sql) and its location
//   - Database: MySQL or SQLite connection for the sql backend
//   - Storage: S3/MinIO credentials, bucket and history archiving
//   - Events: Kafka publishing of appended sales
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Reconcile.Sources.Detail)
package config
