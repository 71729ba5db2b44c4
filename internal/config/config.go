package config

import (
	"os"
	"time"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DocStore         string
	DatabaseURL      string
	SQLitePath       string
	FirestoreProject string
	CredentialsFile  string
	OrdersCollection string

	BlobStore     string
	GCSBucket     string
	SignedURLTTL  time.Duration
	UploadDir     string
	PublicBaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	SendGridKey string
	MailFrom    string

	AdminIdentifier   string
	AdminPasswordHash string
	JWTSecret         []byte
	AdminTokenTTL     time.Duration

	ShippingFee int64
}

const (
	DocStoreGorm      = "gorm"
	DocStoreFirestore = "firestore"

	BlobStoreDisk = "disk"
	BlobStoreGCS  = "gcs"
)

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "crochet-store"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		DocStore:         EnvDefault("DOCSTORE", DocStoreGorm),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SQLitePath:       EnvDefault("SQLITE_PATH", "crochet.db"),
		FirestoreProject: os.Getenv("FIRESTORE_PROJECT"),
		CredentialsFile:  os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		OrdersCollection: EnvDefault("ORDERS_COLLECTION", "orders"),

		BlobStore:     EnvDefault("BLOBSTORE", BlobStoreDisk),
		GCSBucket:     os.Getenv("GCS_BUCKET"),
		SignedURLTTL:  EnvDurationDefault("SIGNED_URL_TTL", 0),
		UploadDir:     EnvDefault("UPLOAD_DIR", "uploads"),
		PublicBaseURL: EnvDefault("PUBLIC_BASE_URL", "http://localhost:8080/uploads"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       EnvIntDefault("REDIS_DB", 0),
		SessionTTL:    EnvDurationDefault("SESSION_TTL", 7*24*time.Hour),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		SendGridKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:    EnvDefault("MAIL_FROM", "orders@crochet.pk"),

		AdminIdentifier:   os.Getenv("ADMIN_IDENTIFIER"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTSecret:         []byte(os.Getenv("JWT_SECRET")),
		AdminTokenTTL:     EnvDurationDefault("ADMIN_TOKEN_TTL", 12*time.Hour),

		ShippingFee: int64(EnvIntDefault("SHIPPING_FEE", 200)),
	}
}
