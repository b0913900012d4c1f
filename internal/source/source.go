// Package source reads Northwind sales data from a relational store.
//
// SQLite files are opened with the pure Go modernc.org/sqlite driver.
// PostgreSQL databases loaded with the same table and column names are
// reached through the pgx stdlib driver.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	_ "modernc.org/sqlite"

	"salesetl/internal/config"
	apperrors "salesetl/internal/errors"
	"salesetl/pkg/contracts/domain"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	pgxDriverName = "pgx"
)

const pingTimeout = 5 * time.Second

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Source is an open connection to the sales database
type Source struct {
	db           *sqlx.DB
	driver       string
	locator      string
	queryTimeout time.Duration
	logger       *slog.Logger
}

// Open connects to the store described by cfg. A missing SQLite file is
// reported as a not-found source error rather than creating an empty
// database.
func Open(ctx context.Context, cfg config.SourceConfig, logger *slog.Logger) (*Source, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		db      *sqlx.DB
		err     error
		locator string
	)

	switch cfg.Driver {
	case DriverSQLite, "":
		locator = cfg.Path
		if _, statErr := os.Stat(locator); statErr != nil {
			return nil, apperrors.NewSourceError("database file unavailable",
				apperrors.NewNotFoundError(locator)).WithContext("path", locator)
		}
		db, err = sqlx.Open(DriverSQLite, locator)
		if err == nil {
			// A single connection keeps reads on one SQLite handle
			db.SetMaxOpenConns(1)
		}
	case DriverPostgres:
		locator = cfg.DSN
		db, err = sqlx.Open(pgxDriverName, locator)
		if err == nil {
			// Postgres folds unquoted aliases to lower case
			db.Mapper = reflectx.NewMapperTagFunc("db", strings.ToLower, strings.ToLower)
		}
	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unsupported source driver %q", cfg.Driver), nil)
	}
	if err != nil {
		return nil, apperrors.NewSourceError("failed to open database", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, apperrors.NewSourceError("failed to connect to database", err)
	}

	s := &Source{
		db:           db,
		driver:       cfg.Driver,
		locator:      locator,
		queryTimeout: cfg.QueryTimeout,
		logger:       logger.With(slog.String("component", "source")),
	}
	if s.driver == "" {
		s.driver = DriverSQLite
	}

	s.logger.InfoContext(ctx, "Connected to the database",
		slog.String("driver", s.driver),
		slog.String("database", s.displayLocator()))

	return s, nil
}

// Close releases the connection
func (s *Source) Close() error {
	if err := s.db.Close(); err != nil {
		return err
	}
	s.logger.Info("Connection with database closed")
	return nil
}

// ExtractSalesData returns the joined sales lines, newest order first. A
// positive limit keeps only the first limit lines.
func (s *Source) ExtractSalesData(ctx context.Context, limit int) ([]domain.SalesLine, error) {
	s.logger.InfoContext(ctx, "Extracting sales data", slog.Int("limit", limit))

	query := salesQuery
	var args []any
	if limit > 0 {
		query += "\nLIMIT ?"
		args = append(args, limit)
	}

	var lines []domain.SalesLine
	if err := s.selectContext(ctx, &lines, query, args...); err != nil {
		return nil, apperrors.NewSourceError("failed to extract sales data", err)
	}

	first, last := period(lines)
	s.logger.InfoContext(ctx, "Extracted sales records",
		slog.Int("records", len(lines)),
		slog.String("period_start", first),
		slog.String("period_end", last))

	return lines, nil
}

// ExtractCustomersSummary returns per-customer order totals computed by the
// store
func (s *Source) ExtractCustomersSummary(ctx context.Context) ([]domain.CustomerSummary, error) {
	s.logger.InfoContext(ctx, "Extracting customers summary")

	var customers []domain.CustomerSummary
	if err := s.selectContext(ctx, &customers, customersSummaryQuery); err != nil {
		return nil, apperrors.NewSourceError("failed to extract customers summary", err)
	}

	s.logger.InfoContext(ctx, "Extracted customers", slog.Int("customers", len(customers)))
	return customers, nil
}

// ExtractProductsSummary returns per-product sales totals computed by the
// store
func (s *Source) ExtractProductsSummary(ctx context.Context) ([]domain.ProductSummary, error) {
	s.logger.InfoContext(ctx, "Extracting products summary")

	var products []domain.ProductSummary
	if err := s.selectContext(ctx, &products, productsSummaryQuery); err != nil {
		return nil, apperrors.NewSourceError("failed to extract products summary", err)
	}

	s.logger.InfoContext(ctx, "Extracted products", slog.Int("products", len(products)))
	return products, nil
}

// DatabaseInfo lists every table with its row count, ordered by name
func (s *Source) DatabaseInfo(ctx context.Context) ([]domain.TableInfo, error) {
	tablesQuery := sqliteTablesQuery
	if s.driver == DriverPostgres {
		tablesQuery = postgresTablesQuery
	}

	var names []string
	if err := s.selectContext(ctx, &names, tablesQuery); err != nil {
		return nil, apperrors.NewSourceError("failed to list tables", err)
	}

	tables := make([]domain.TableInfo, 0, len(names))
	for _, name := range names {
		var count int64
		if err := s.getContext(ctx, &count, "SELECT COUNT(*) FROM "+quoteIdent(name)); err != nil {
			return nil, apperrors.NewSourceError("failed to count rows", err).WithContext("table", name)
		}
		tables = append(tables, domain.TableInfo{Name: name, Rows: count})
	}

	s.logger.InfoContext(ctx, "Database info", slog.Int("tables", len(tables)))
	return tables, nil
}

func (s *Source) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.db.SelectContext(ctx, dest, s.db.Rebind(query), args...)
}

func (s *Source) getContext(ctx context.Context, dest any, query string, args ...any) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.db.GetContext(ctx, dest, s.db.Rebind(query), args...)
}

func (s *Source) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout > 0 {
		return context.WithTimeout(ctx, s.queryTimeout)
	}
	return context.WithCancel(ctx)
}

// displayLocator hides credentials in a postgres DSN
func (s *Source) displayLocator() string {
	if s.driver != DriverPostgres {
		return s.locator
	}
	if at := strings.LastIndex(s.locator, "@"); at >= 0 {
		if scheme := strings.Index(s.locator, "://"); scheme >= 0 && scheme < at {
			return s.locator[:scheme+3] + "***" + s.locator[at:]
		}
	}
	return s.locator
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// period returns the earliest and latest order date text of lines
func period(lines []domain.SalesLine) (string, string) {
	var first, last string
	for _, l := range lines {
		if !l.OrderDate.Valid {
			continue
		}
		d := l.OrderDate.String
		if first == "" || d < first {
			first = d
		}
		if last == "" || d > last {
			last = d
		}
	}
	return first, last
}
