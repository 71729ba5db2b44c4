package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/Skotchmaster/crochet_store/internal/blobstore"
	"github.com/Skotchmaster/crochet_store/internal/catalog"
	"github.com/Skotchmaster/crochet_store/internal/config"
	"github.com/Skotchmaster/crochet_store/internal/db"
	"github.com/Skotchmaster/crochet_store/internal/docstore"
	"github.com/Skotchmaster/crochet_store/internal/events"
	"github.com/Skotchmaster/crochet_store/internal/mail"
	"github.com/Skotchmaster/crochet_store/internal/search"
	"github.com/Skotchmaster/crochet_store/internal/session"
)

// closers run in reverse order on shutdown.
type closers []func() error

func (c *closers) add(fn func() error) { *c = append(*c, fn) }

func (c closers) closeAll(l *slog.Logger) {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			l.Warn("close_error", "error", err)
		}
	}
}

func googleOptions(cfg config.Config) []option.ClientOption {
	if cfg.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}
}

// openDocStore returns the order store and, for SQL backends, the handle used
// by the readiness check.
func openDocStore(ctx context.Context, cfg config.Config, cl *closers) (docstore.Store, *gorm.DB, error) {
	if cfg.DocStore == config.DocStoreFirestore {
		client, err := firestore.NewClient(ctx, cfg.FirestoreProject, googleOptions(cfg)...)
		if err != nil {
			return nil, nil, fmt.Errorf("firestore client: %w", err)
		}
		cl.add(client.Close)
		return docstore.NewFirestore(client), nil, nil
	}

	var (
		gdb *gorm.DB
		err error
	)
	if cfg.DatabaseURL != "" {
		octx, cancel := context.WithTimeout(ctx, 10*time.Second)
		gdb, err = db.Open(octx, cfg.DatabaseURL)
		cancel()
	} else {
		gdb, err = db.OpenSQLite(cfg.SQLitePath)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("db open: %w", err)
	}
	cl.add(func() error { return db.Close(gdb) })

	store, err := docstore.NewGorm(gdb)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL != "" {
		relay, err := docstore.ListenPostgres(ctx, cfg.DatabaseURL, store, slog.Default())
		if err != nil {
			return nil, nil, fmt.Errorf("postgres relay: %w", err)
		}
		cl.add(relay.Close)
	}
	return store, gdb, nil
}

func openBlobStore(ctx context.Context, cfg config.Config, cl *closers) (blobstore.Store, string, error) {
	if cfg.BlobStore == config.BlobStoreGCS {
		client, err := storage.NewClient(ctx, googleOptions(cfg)...)
		if err != nil {
			return nil, "", fmt.Errorf("storage client: %w", err)
		}
		cl.add(client.Close)
		return blobstore.NewGCS(client, cfg.GCSBucket, cfg.SignedURLTTL), "", nil
	}

	disk, err := blobstore.NewDisk(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, "", err
	}
	return disk, cfg.UploadDir, nil
}

func openSessions(ctx context.Context, cfg config.Config, l *slog.Logger, cl *closers) session.Store {
	mem := session.NewMemoryStore(cfg.SessionTTL)
	if cfg.RedisAddr == "" {
		return mem
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		l.Warn("redis_unavailable", "addr", cfg.RedisAddr, "error", err)
	}
	cl.add(client.Close)
	return session.NewRedisStore(mem, client, cfg.SessionTTL, l)
}

func openPublisher(cfg config.Config, cl *closers) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Nop{}
	}
	p := events.NewProducer(cfg.KafkaBrokers)
	cl.add(p.Close)
	return p
}

func openMailer(cfg config.Config) mail.Sender {
	if cfg.SendGridKey == "" {
		return mail.Nop{}
	}
	return mail.NewSendGrid(cfg.SendGridKey, cfg.MailFrom)
}

// openSearcher prefers Elasticsearch and falls back to scanning the catalog.
func openSearcher(ctx context.Context, cfg config.Config, cat *catalog.Store, l *slog.Logger) search.Searcher {
	local := search.CatalogSearcher{Store: cat}
	if cfg.ESURL == "" {
		return local
	}

	client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		l.Warn("elasticsearch_unavailable", "url", cfg.ESURL, "error", err)
		return local
	}
	es := &search.ES{Client: client, Index: cfg.ESIndex, Catalog: cat}
	if err := es.IndexProducts(ctx, cat.All()); err != nil {
		l.Warn("elasticsearch_index_error", "index", cfg.ESIndex, "error", err)
	}
	return search.Fallback{
		Primary:   es,
		Secondary: local,
		OnError: func(err error) {
			l.Warn("elasticsearch_search_error", "error", err)
		},
	}
}
