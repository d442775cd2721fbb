// Package backup snapshots the SQLite database to S3-compatible storage on
// a fixed interval. It is inert unless a bucket and credentials are
// configured.
package backup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Interval  time.Duration
}

func (c Config) enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

type Manager struct {
	cfg    Config
	db     *sql.DB
	client *s3.Client
	logger *slog.Logger
}

func NewManager(cfg Config, db *sql.DB, logger *slog.Logger) *Manager {
	m := &Manager{cfg: cfg, db: db, logger: logger}
	if cfg.enabled() {
		m.client = newS3Client(cfg)
	}
	return m
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Start runs the backup loop until ctx is done. It returns immediately when
// backups are not configured.
func (m *Manager) Start(ctx context.Context) {
	if m.client == nil {
		m.logger.Info("backups disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(m.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.backupOnce(ctx); err != nil {
					m.logger.Error("backup failed", "error", err)
				}
			}
		}
	}()
}

// backupOnce snapshots the live database with VACUUM INTO and uploads the
// snapshot. The temp file is always removed.
func (m *Manager) backupOnce(ctx context.Context) error {
	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("trolley-backup-%d.db", time.Now().UnixNano()))
	defer os.Remove(tmp)

	if _, err := m.db.ExecContext(ctx, `VACUUM INTO ?`, tmp); err != nil {
		return fmt.Errorf("vacuum into: %w", err)
	}

	f, err := os.Open(tmp)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat snapshot: %w", err)
	}

	key := time.Now().UTC().Format("trolley/2006/01/02/backup-150405.db")
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.cfg.Bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}

	m.logger.Info("backup uploaded", "key", key, "bytes", info.Size())
	return nil
}
