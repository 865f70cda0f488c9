// Package config loads runtime configuration for the notekeeper CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables NOTEKEEPER_*, after loading the dotenv file
//     named by -env-file (or .env.local/.env in the working directory).
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags (see parseFlags).
//
// The JSON loader uses timex.Duration for intervals:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "database_path": "notekeeper.db",
//	  "export_dir": "exports",
//	  "s3_bucket": "",
//	  "log_level": "info"
//	}
package config
