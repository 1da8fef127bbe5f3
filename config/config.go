package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultPort             = "8080"
	DefaultTokenExpiryDays  = 30
	DefaultBcryptCost       = 10
	DefaultMaxUploadBytes   = 1 << 20
	DefaultCacheSize        = 100
	DefaultCacheTTLSeconds  = 300
	DefaultStorageBackend   = "local"
	DefaultUploadDir        = "static/post"
	DefaultS3Region         = "us-east-1"
	DefaultS3PresignMinutes = 15
)

type Config struct {
	Env           string
	Port          string
	DBURL         string
	RunMigrations bool

	JWTSecret       string
	JWTAlgorithm    string
	TokenExpiryDays int
	BcryptCost      int

	MaxUploadBytes  int
	CacheSize       int
	CacheTTLSeconds int

	StorageBackend   string
	UploadDir        string
	S3Bucket         string
	S3Region         string
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string
	S3PresignMinutes int
}

// Load reads config/.env.dev or config/.env.prod (picked by ENV) and then the
// process environment. Variables already present in the environment win over
// the file. Missing required keys terminate the process.
func Load() *Config {
	env := getEnv("ENV", "development")

	envFile := ".env.dev"
	if env == "production" {
		envFile = ".env.prod"
	}
	if err := godotenv.Load(filepath.Join("config", envFile)); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not read %s: %v", envFile, err)
	}

	return &Config{
		Env:           env,
		Port:          getEnv("PORT", DefaultPort),
		DBURL:         mustGetEnv("DB_URL"),
		RunMigrations: getEnvAsBool("RUN_MIGRATIONS", true),

		JWTSecret:       mustGetEnv("JWT_SECRET"),
		JWTAlgorithm:    mustGetEnv("JWT_ALGORITHM"),
		TokenExpiryDays: getEnvAsInt("TOKEN_EXPIRY_DAYS", DefaultTokenExpiryDays),
		BcryptCost:      getEnvAsInt("BCRYPT_COST", DefaultBcryptCost),

		MaxUploadBytes:  getEnvAsInt("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		CacheSize:       getEnvAsInt("CACHE_SIZE", DefaultCacheSize),
		CacheTTLSeconds: getEnvAsInt("CACHE_TTL_SECONDS", DefaultCacheTTLSeconds),

		StorageBackend:   getEnv("STORAGE_BACKEND", DefaultStorageBackend),
		UploadDir:        getEnv("UPLOAD_DIR", DefaultUploadDir),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Region:         getEnv("S3_REGION", DefaultS3Region),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:      getEnv("S3_SECRET_KEY", ""),
		S3PresignMinutes: getEnvAsInt("S3_PRESIGN_MINUTES", DefaultS3PresignMinutes),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %t", key, defaultVal)
		return defaultVal
	}
	return val
}
