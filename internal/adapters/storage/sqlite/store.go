// internal/adapters/storage/sqlite/store.go
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/errors"
	"oppsync/internal/platform/logx"
)

// driverName is go-sqlite3 with a Unicode-aware ulower() registered on
// every connection; the built-in lower() only folds ASCII.
const driverName = "sqlite3_oppsync"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("ulower", strings.ToLower, true)
		},
	})
}

// Store is the SQLite implementation of ports.Store. Every write is a
// single statement, which gives the row-level atomicity ingestion and the
// link checker rely on when they touch the same record.
type Store struct {
	db     *sqlx.DB
	logger logx.Logger
}

// Config tunes the connection pool.
type Config struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns the pool settings used by the binary.
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:    8,
		MaxIdleConns:    4,
		ConnMaxLifetime: time.Hour,
	}
}

// Open connects to path (":memory:" for a private in-memory database) and
// applies the schema.
func Open(ctx context.Context, path string, cfg Config, logger logx.Logger) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", path)
	if path == ":memory:" {
		// One connection, otherwise each pooled connection sees its own empty database.
		dsn = "file::memory:?_busy_timeout=5000"
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
		cfg.ConnMaxLifetime = 0
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connect database")
	}

	if err := createSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger.With("component", "sqlite-store", "path", path)}, nil
}

func createSchema(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin schema transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, Schema); err != nil {
		return errors.Wrap(err, "create tables")
	}
	if _, err := tx.ExecContext(ctx, Indexes); err != nil {
		return errors.Wrap(err, "create indexes")
	}
	return errors.Wrap(tx.Commit(), "commit schema")
}

// row mirrors the opportunities table.
type row struct {
	ID             string       `db:"id"`
	Title          string       `db:"title"`
	Organization   string       `db:"organization"`
	URL            string       `db:"url"`
	ApplicationURL string       `db:"application_url"`
	Type           string       `db:"type"`
	EducationLevel string       `db:"education_level"`
	Country        string       `db:"country"`
	Fields         stringList   `db:"fields"`
	Description    string       `db:"description"`
	Duration       string       `db:"duration"`
	Eligibility    string       `db:"eligibility"`
	Funding        string       `db:"funding"`
	Deadline       sql.NullTime `db:"deadline"`
	Tags           stringList   `db:"tags"`
	Requirements   stringList   `db:"requirements"`
	Benefits       stringList   `db:"benefits"`
	Source         string       `db:"source"`
	SourceType     string       `db:"source_type"`
	Approved       bool         `db:"approved"`
	Broken         bool         `db:"broken"`
	LastChecked    time.Time    `db:"last_checked"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

func toRow(o *domain.Opportunity) row {
	r := row{
		ID:             o.ID,
		Title:          o.Title,
		Organization:   o.Organization,
		URL:            o.URL,
		ApplicationURL: o.ApplicationURL,
		Type:           string(o.Type),
		EducationLevel: string(o.EducationLevel),
		Country:        o.Country,
		Fields:         o.Fields,
		Description:    o.Description,
		Duration:       o.Duration,
		Eligibility:    o.Eligibility,
		Funding:        o.Funding,
		Tags:           o.Tags,
		Requirements:   o.Requirements,
		Benefits:       o.Benefits,
		Source:         o.Source,
		SourceType:     o.SourceType,
		Approved:       o.Approved,
		Broken:         o.Broken,
		LastChecked:    o.LastChecked.UTC(),
		CreatedAt:      o.CreatedAt.UTC(),
		UpdatedAt:      o.UpdatedAt.UTC(),
	}
	if o.Deadline != nil {
		r.Deadline = sql.NullTime{Time: o.Deadline.UTC(), Valid: true}
	}
	return r
}

func (r row) toDomain() *domain.Opportunity {
	o := &domain.Opportunity{
		ID:             r.ID,
		Title:          r.Title,
		Organization:   r.Organization,
		URL:            r.URL,
		ApplicationURL: r.ApplicationURL,
		Type:           domain.OpportunityType(r.Type),
		EducationLevel: domain.EducationLevel(r.EducationLevel),
		Country:        r.Country,
		Fields:         r.Fields,
		Description:    r.Description,
		Duration:       r.Duration,
		Eligibility:    r.Eligibility,
		Funding:        r.Funding,
		Tags:           r.Tags,
		Requirements:   r.Requirements,
		Benefits:       r.Benefits,
		Source:         r.Source,
		SourceType:     r.SourceType,
		Approved:       r.Approved,
		Broken:         r.Broken,
		LastChecked:    r.LastChecked.UTC(),
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
	if r.Deadline.Valid {
		d := r.Deadline.Time.UTC()
		o.Deadline = &d
	}
	return o
}

// FindByURLOrApplicationURL implements ports.OpportunityRepository.
func (s *Store) FindByURLOrApplicationURL(ctx context.Context, url string) (string, error) {
	var id string
	err := s.db.GetContext(ctx, &id,
		`SELECT id FROM opportunities WHERE url = ? OR application_url = ? ORDER BY created_at LIMIT 1`,
		url, url)
	return id, notFound(err, "find by url")
}

// FindByFuzzyTitleOrg implements ports.OpportunityRepository. instr() on
// ulower()-folded text keeps LIKE wildcards in titles from matching anything.
func (s *Store) FindByFuzzyTitleOrg(ctx context.Context, titlePrefix, orgPrefix string) (string, error) {
	var id string
	err := s.db.GetContext(ctx, &id, `
		SELECT id FROM opportunities
		WHERE instr(ulower(title), ulower(?)) > 0
		  AND instr(ulower(organization), ulower(?)) > 0
		ORDER BY created_at
		LIMIT 1`,
		titlePrefix, orgPrefix)
	return id, notFound(err, "find by title and organization")
}

// Create implements ports.OpportunityRepository.
func (s *Store) Create(ctx context.Context, opp *domain.Opportunity) (string, error) {
	if opp.ID == "" {
		opp.ID = uuid.NewString()
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO opportunities (
			id, title, organization, url, application_url, type, education_level, country,
			fields, description, duration, eligibility, funding, deadline, tags, requirements,
			benefits, source, source_type, approved, broken, last_checked, created_at, updated_at
		) VALUES (
			:id, :title, :organization, :url, :application_url, :type, :education_level, :country,
			:fields, :description, :duration, :eligibility, :funding, :deadline, :tags, :requirements,
			:benefits, :source, :source_type, :approved, :broken, :last_checked, :created_at, :updated_at
		)`, toRow(opp))
	if err != nil {
		return "", errors.Wrapf(err, "create opportunity %q", opp.Title)
	}
	s.logger.Debug("opportunity created", "id", opp.ID, "source", opp.Source)
	return opp.ID, nil
}

// UpdateFields implements ports.OpportunityRepository as one UPDATE.
func (s *Store) UpdateFields(ctx context.Context, id string, u domain.OpportunityUpdate) error {
	args := map[string]any{
		"id":              id,
		"title":           u.Title,
		"organization":    u.Organization,
		"url":             u.URL,
		"application_url": u.ApplicationURL,
		"type":            string(u.Type),
		"education_level": string(u.EducationLevel),
		"country":         u.Country,
		"fields":          stringList(u.Fields),
		"description":     u.Description,
		"duration":        u.Duration,
		"eligibility":     u.Eligibility,
		"funding":         u.Funding,
		"deadline":        nullTime(u.Deadline),
		"tags":            stringList(u.Tags),
		"requirements":    stringList(u.Requirements),
		"benefits":        stringList(u.Benefits),
		"source":          u.Source,
		"source_type":     u.SourceType,
		"broken":          u.Broken,
		"last_checked":    u.LastChecked.UTC(),
		"updated_at":      u.UpdatedAt.UTC(),
	}

	approval := ""
	if u.Approved != nil {
		approval = "approved = :approved,"
		args["approved"] = *u.Approved
	}

	res, err := s.db.NamedExecContext(ctx, `
		UPDATE opportunities SET
			title = :title, organization = :organization, url = :url,
			application_url = :application_url, type = :type, education_level = :education_level,
			country = :country, fields = :fields, description = :description, duration = :duration,
			eligibility = :eligibility, funding = :funding, deadline = :deadline, tags = :tags,
			requirements = :requirements, benefits = :benefits, source = :source,
			source_type = :source_type, `+approval+` broken = :broken,
			last_checked = :last_checked, updated_at = :updated_at
		WHERE id = :id`, args)
	if err != nil {
		return errors.Wrapf(err, "update opportunity %s", id)
	}
	return affected(res, id)
}

// ListLinkCandidates implements ports.LinkRepository.
func (s *Store) ListLinkCandidates(ctx context.Context) ([]ports.LinkCandidate, error) {
	var rows []struct {
		ID             string    `db:"id"`
		Title          string    `db:"title"`
		ApplicationURL string    `db:"application_url"`
		LastChecked    time.Time `db:"last_checked"`
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, title, application_url, last_checked FROM opportunities
		WHERE approved = 1 AND application_url != ''
		ORDER BY last_checked`)
	if err != nil {
		return nil, errors.Wrap(err, "list link candidates")
	}

	out := make([]ports.LinkCandidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, ports.LinkCandidate{
			ID:             r.ID,
			Title:          r.Title,
			ApplicationURL: r.ApplicationURL,
			LastChecked:    r.LastChecked.UTC(),
		})
	}
	return out, nil
}

// SetLinkStatus implements ports.LinkRepository.
func (s *Store) SetLinkStatus(ctx context.Context, id string, status domain.LinkStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE opportunities SET broken = ?, last_checked = ? WHERE id = ?`,
		status.Broken, status.LastChecked.UTC(), id)
	if err != nil {
		return errors.Wrapf(err, "set link status %s", id)
	}
	return affected(res, id)
}

// Get implements ports.Store.
func (s *Store) Get(ctx context.Context, id string) (*domain.Opportunity, error) {
	var r row
	if err := s.db.GetContext(ctx, &r, `SELECT * FROM opportunities WHERE id = ?`, id); err != nil {
		return nil, notFound(err, "get opportunity")
	}
	return r.toDomain(), nil
}

// Count implements ports.Store.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM opportunities`); err != nil {
		return 0, errors.Wrap(err, "count opportunities")
	}
	return n, nil
}

// Close implements ports.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

func notFound(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrNotFound
	default:
		return errors.Wrap(err, op)
	}
}

func affected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(domain.ErrNotFound, "opportunity %s", id)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// stringList stores a []string as a JSON array.
type stringList []string

// Value implements driver.Valuer.
func (l stringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	return string(b), err
}

// Scan implements sql.Scanner.
func (l *stringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = stringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("stringList: unsupported type %T", src)
	}
	out := []string{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

var _ ports.Store = (*Store)(nil)
