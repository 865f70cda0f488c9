package config

import (
	"github.com/dmitrijs2005/notekeeper/internal/envx"
	"github.com/dmitrijs2005/notekeeper/internal/flagx"
)

const (
	EnvGRPCAddr      = "NOTEKEEPER_GRPC_ADDR"
	EnvHTTPAddr      = "NOTEKEEPER_HTTP_ADDR"
	EnvDatabaseDSN   = "NOTEKEEPER_DATABASE_DSN"
	EnvSecretKey     = "NOTEKEEPER_SECRET_KEY"
	EnvTokenValidity = "NOTEKEEPER_ACCESS_TOKEN_VALIDITY"
	EnvBackupRoles   = "NOTEKEEPER_BACKUP_ROLES"
	EnvDefaultRole   = "NOTEKEEPER_DEFAULT_ROLE"
)

func parseEnv(cfg *Config) {
	if _, err := envx.LoadDotEnv(flagx.EnvFileFlags()); err != nil {
		panic(err)
	}

	envx.String(&cfg.EndpointAddrGRPC, EnvGRPCAddr)
	envx.String(&cfg.HTTPAddr, EnvHTTPAddr)
	envx.String(&cfg.DatabaseDSN, EnvDatabaseDSN)
	envx.String(&cfg.SecretKey, EnvSecretKey)
	if err := envx.Duration(&cfg.AccessTokenValidityDuration, EnvTokenValidity); err != nil {
		panic(err)
	}
	envx.List(&cfg.BackupRoles, EnvBackupRoles)
	envx.String(&cfg.DefaultRole, EnvDefaultRole)
}
