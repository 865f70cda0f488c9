package config

import (
	"github.com/dmitrijs2005/notekeeper/internal/envx"
	"github.com/dmitrijs2005/notekeeper/internal/flagx"
)

// Environment variable names.
const (
	EnvServerAddr    = "NOTEKEEPER_SERVER_ADDR"
	EnvCheckInterval = "NOTEKEEPER_ONLINE_CHECK_INTERVAL"
	EnvDatabasePath  = "NOTEKEEPER_DB_PATH"
	EnvExportDir     = "NOTEKEEPER_EXPORT_DIR"
	EnvLogLevel      = "NOTEKEEPER_LOG_LEVEL"
	EnvS3Bucket      = "NOTEKEEPER_S3_BUCKET"
	EnvS3Region      = "NOTEKEEPER_S3_REGION"
	EnvS3Endpoint    = "NOTEKEEPER_S3_ENDPOINT"
	EnvS3AccessKey   = "NOTEKEEPER_S3_ACCESS_KEY"
	EnvS3SecretKey   = "NOTEKEEPER_S3_SECRET_KEY"
)

// parseEnv panics on an unreadable -env-file or a malformed duration, like
// the JSON and flag stages.
func parseEnv(cfg *Config) {
	if _, err := envx.LoadDotEnv(flagx.EnvFileFlags()); err != nil {
		panic(err)
	}

	envx.String(&cfg.ServerEndpointAddr, EnvServerAddr)
	if err := envx.Duration(&cfg.OnlineCheckInterval, EnvCheckInterval); err != nil {
		panic(err)
	}
	envx.String(&cfg.DatabasePath, EnvDatabasePath)
	envx.String(&cfg.ExportDir, EnvExportDir)
	envx.String(&cfg.LogLevel, EnvLogLevel)
	envx.String(&cfg.S3Bucket, EnvS3Bucket)
	envx.String(&cfg.S3Region, EnvS3Region)
	envx.String(&cfg.S3Endpoint, EnvS3Endpoint)
	envx.String(&cfg.S3AccessKey, EnvS3AccessKey)
	envx.String(&cfg.S3SecretKey, EnvS3SecretKey)
}
