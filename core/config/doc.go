// Package config provides configuration management for chainflow.
//
// It loads an optional .env file with godotenv and then reads environment
// variables through Viper. Defaults come from the `default` struct tags of
// each section, so every key is known to Viper even when unset.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: HTTP port, API key and run timeout
//   - Storage: MinIO/S3 endpoint, credentials and bucket
//   - Log: Logging level and format
//   - Database: execution history database (sqlite or mysql)
//   - Workflow: runner parallelism, failure policy, cache TTL and definitions directory
//
// Environment variables map to nested keys by replacing dots with
// underscores, e.g. STORAGE_ENDPOINT sets storage.endpoint.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Bucket)
package config
