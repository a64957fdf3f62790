package querylog

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/botfabrik/dialog-backend/internal/platform/envutil"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
)

// Record is one KBQA request outcome, kept for offline analysis of template
// coverage and degradation.
type Record struct {
	ID             uint      `gorm:"primaryKey"`
	CreatedAt      time.Time `gorm:"index"`
	Question       string
	TemplateTypes  string
	CandidateCount int
	HowTo          bool
	TemplateAnswer bool
	LatencyMS      int64
}

func (Record) TableName() string { return "kbqa_query_log" }

type Repo struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects to postgres when POSTGRES_HOST is set, otherwise to a local
// sqlite file. The query log is best-effort; callers treat a nil repo as
// "logging disabled".
func Open(log *logger.Logger) (*Repo, error) {
	repoLog := log.With("component", "QueryLog")

	var dialector gorm.Dialector
	if host := strings.TrimSpace(os.Getenv("POSTGRES_HOST")); host != "" {
		port := envutil.GetEnv("POSTGRES_PORT", "5432", log)
		user := envutil.GetEnv("POSTGRES_USER", "postgres", log)
		password := envutil.GetEnv("POSTGRES_PASSWORD", "", log)
		name := envutil.GetEnv("POSTGRES_NAME", "dialog", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		dialector = postgres.Open(dsn)
	} else {
		path := envutil.GetEnv("QUERYLOG_SQLITE_PATH", "querylog.db", log)
		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open query log db: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate query log: %w", err)
	}
	return &Repo{db: db, log: repoLog}, nil
}

// Insert stores one record. Failures are logged and swallowed; the query log
// must never fail a request.
func (r *Repo) Insert(ctx context.Context, rec Record) {
	if r == nil {
		return
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		r.log.Warn("query log insert failed", "error", err)
	}
}

// Recent returns the latest n records, newest first.
func (r *Repo) Recent(ctx context.Context, n int) ([]Record, error) {
	if r == nil {
		return nil, nil
	}
	var recs []Record
	err := r.db.WithContext(ctx).Order("created_at desc").Limit(n).Find(&recs).Error
	return recs, err
}
