package config

// EnvPrefix is applied to unqualified envconfig lookups.
const EnvPrefix = "souk"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverRedis  = "redis"
	StorageDriverSQLite = "sqlite"
	StorageDriverMemory = "memory"
)
