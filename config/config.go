// Package config loads process configuration once at startup.
//
// Values are resolved in order: built-in defaults, then a .env file in the
// working directory, then the process environment. The resulting Config is
// immutable and passed by reference to the components that need it.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const (
	defaultMongoURI  = "mongodb://localhost:27017"
	defaultMongoDB   = "rechargehub"
	defaultJWTSecret = "change-me-in-production"
	defaultAppPort   = "8080"
	defaultAppEnv    = "local"
	defaultRedisAddr = "localhost:6379"
)

// Config holds every tunable the application reads. Build it with Load()
// and treat it as read-only afterwards.
type Config struct {
	MongoURI  string
	MongoDB   string
	JWTSecret string
	AppPort   string
	AppEnv    string

	RedisAddr     string
	RedisPassword string

	// PhotoDisk selects where uploaded profile photos are persisted:
	// "inline" (base64 on the user document, the default), "local", or "s3".
	PhotoDisk        string
	StorageLocalRoot string
	StorageURL       string
	S3Bucket         string
	S3Region         string
	S3Key            string
	S3Secret         string
	S3Endpoint       string
	S3URL            string

	// FeedbackAutoApprove controls whether new feedback is published
	// immediately (true, the historical behavior) or held for moderation.
	FeedbackAutoApprove bool

	// EnforceUserOwnership restricts GET/PUT /users/{id} to the record
	// owner or an admin. Off by default to match the historical API.
	EnforceUserOwnership bool

	// LogToMongo mirrors log records into the "logs" collection.
	LogToMongo bool
}

// Load builds a Config from defaults, the optional .env file, and the
// process environment (highest precedence).
func Load() (*Config, error) {
	values := map[string]string{}

	if err := mergeDotEnv(".env", values); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	get := func(key, fallback string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		if v := strings.TrimSpace(values[key]); v != "" {
			return v
		}
		return fallback
	}
	getBool := func(key string, fallback bool) bool {
		switch strings.ToLower(get(key, "")) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		default:
			return fallback
		}
	}

	cfg := &Config{
		MongoURI:  get("MONGO_URI", defaultMongoURI),
		MongoDB:   get("MONGO_DB", defaultMongoDB),
		JWTSecret: get("JWT_SECRET", defaultJWTSecret),
		AppPort:   get("APP_PORT", defaultAppPort),
		AppEnv:    get("APP_ENV", defaultAppEnv),

		RedisAddr:     get("REDIS_ADDR", defaultRedisAddr),
		RedisPassword: get("REDIS_PASSWORD", ""),

		PhotoDisk:        strings.ToLower(get("PHOTO_DISK", "inline")),
		StorageLocalRoot: get("STORAGE_LOCAL_ROOT", "uploads"),
		StorageURL:       strings.TrimRight(get("STORAGE_URL", "http://localhost:8080/uploads"), "/"),
		S3Bucket:         get("S3_BUCKET", ""),
		S3Region:         get("S3_REGION", "us-east-1"),
		S3Key:            get("S3_KEY", ""),
		S3Secret:         get("S3_SECRET", ""),
		S3Endpoint:       get("S3_ENDPOINT", ""),
		S3URL:            strings.TrimRight(get("S3_URL", ""), "/"),

		FeedbackAutoApprove:  getBool("FEEDBACK_AUTO_APPROVE", true),
		EnforceUserOwnership: getBool("ENFORCE_USER_OWNERSHIP", false),
		LogToMongo:           getBool("LOG_TO_MONGO", false),
	}

	switch cfg.PhotoDisk {
	case "inline", "local", "s3":
	default:
		return nil, fmt.Errorf("config: unsupported PHOTO_DISK %q (supported: inline, local, s3)", cfg.PhotoDisk)
	}

	return cfg, nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return nil
}
