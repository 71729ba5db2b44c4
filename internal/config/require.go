package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// Validate fails fast on settings the selected backends cannot run without.
func (c Config) Validate() {
	MustNonEmpty(c.AdminIdentifier, "ADMIN_IDENTIFIER")
	MustNonEmpty(c.AdminPasswordHash, "ADMIN_PASSWORD_HASH")
	MustNonEmptyBytes(c.JWTSecret, "JWT_SECRET")

	switch c.DocStore {
	case DocStoreFirestore:
		MustNonEmpty(c.FirestoreProject, "FIRESTORE_PROJECT")
	case DocStoreGorm:
	default:
		log.Fatalf("unknown DOCSTORE %q", c.DocStore)
	}

	switch c.BlobStore {
	case BlobStoreGCS:
		MustNonEmpty(c.GCSBucket, "GCS_BUCKET")
	case BlobStoreDisk:
		MustNonEmpty(c.UploadDir, "UPLOAD_DIR")
	default:
		log.Fatalf("unknown BLOBSTORE %q", c.BlobStore)
	}
}
