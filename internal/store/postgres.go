package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/alangould92/fareway-database-mcp/internal/domain"
)

// identPattern guards table/column names interpolated into SQL. All
// identifiers originate from the fixed tool catalogue; this is a backstop,
// not an input sanitizer.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresStore implements RecordStore over a pgx connection pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore connects to Postgres and verifies connectivity. A
// failure here is a fatal startup error for the gateway.
func NewPostgresStore(ctx context.Context, connString string, logger *zap.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, domain.E(domain.CodeUnavailable, "store.connect", "invalid database url", err)
	}
	if cfg.ConnConfig.ConnectTimeout == 0 {
		cfg.ConnConfig.ConnectTimeout = 5 * time.Second
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, domain.E(domain.CodeUnavailable, "store.connect", "failed to connect to database", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, domain.E(domain.CodeUnavailable, "store.connect", "database unreachable", err)
	}
	s := &PostgresStore{pool: pool, logger: logger.Named("store")}
	s.logger.Info("connected to database")
	return s, nil
}

func (s *PostgresStore) Select(ctx context.Context, q Query) ([]map[string]any, error) {
	sql, params, err := buildSelect(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, sql, params...)
	if err != nil {
		return nil, domain.E(domain.CodeUnavailable, "store.select", fmt.Sprintf("query %s failed", q.Table), err)
	}
	defer rows.Close()
	return collectRows(rows)
}

func (s *PostgresStore) SelectOne(ctx context.Context, table, idColumn string, id any) (map[string]any, error) {
	if !identPattern.MatchString(table) || !identPattern.MatchString(idColumn) {
		return nil, domain.E(domain.CodeInternal, "store.select_one", fmt.Sprintf("invalid identifier %q.%q", table, idColumn), nil)
	}
	sql := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1 LIMIT 1", table, idColumn)
	rows, err := s.pool.Query(ctx, sql, id)
	if err != nil {
		return nil, domain.E(domain.CodeUnavailable, "store.select_one", fmt.Sprintf("query %s failed", table), err)
	}
	defer rows.Close()
	records, err := collectRows(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.E(domain.CodeNotFound, "store.select_one", fmt.Sprintf("no %s record with %s = %v", table, idColumn, id), nil)
	}
	return records[0], nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.pool.Ping(probeCtx)
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

// buildSelect renders a Query into SQL with positional parameters.
func buildSelect(q Query) (string, []any, error) {
	if !identPattern.MatchString(q.Table) {
		return "", nil, domain.E(domain.CodeInternal, "store.select", fmt.Sprintf("invalid table %q", q.Table), nil)
	}
	columns := "*"
	if len(q.Columns) > 0 {
		for _, c := range q.Columns {
			if !identPattern.MatchString(c) {
				return "", nil, domain.E(domain.CodeInternal, "store.select", fmt.Sprintf("invalid column %q", c), nil)
			}
		}
		columns = strings.Join(q.Columns, ", ")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", columns, q.Table)

	var params []any
	for i, f := range q.Filters {
		if !identPattern.MatchString(f.Field) {
			return "", nil, domain.E(domain.CodeInternal, "store.select", fmt.Sprintf("invalid column %q", f.Field), nil)
		}
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		switch f.Op {
		case OpEq:
			fmt.Fprintf(&sb, "%s = $%d", f.Field, len(params)+1)
			params = append(params, f.Value)
		case OpILike:
			fmt.Fprintf(&sb, "%s ILIKE $%d", f.Field, len(params)+1)
			params = append(params, "%"+fmt.Sprint(f.Value)+"%")
		case OpGte:
			fmt.Fprintf(&sb, "%s >= $%d", f.Field, len(params)+1)
			params = append(params, f.Value)
		case OpLte:
			fmt.Fprintf(&sb, "%s <= $%d", f.Field, len(params)+1)
			params = append(params, f.Value)
		default:
			return "", nil, domain.E(domain.CodeInternal, "store.select", fmt.Sprintf("unsupported operator %q", f.Op), nil)
		}
	}

	if q.OrderBy != "" {
		if !identPattern.MatchString(q.OrderBy) {
			return "", nil, domain.E(domain.CodeInternal, "store.select", fmt.Sprintf("invalid column %q", q.OrderBy), nil)
		}
		fmt.Fprintf(&sb, " ORDER BY %s", q.OrderBy)
		if q.Descending {
			sb.WriteString(" DESC")
		}
	}
	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}

	return sb.String(), params, nil
}

func collectRows(rows pgx.Rows) ([]map[string]any, error) {
	fields := rows.FieldDescriptions()
	var records []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, domain.E(domain.CodeUnavailable, "store.scan", "failed to read row", err)
		}
		record := make(map[string]any, len(fields))
		for i, fd := range fields {
			record[string(fd.Name)] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.E(domain.CodeUnavailable, "store.scan", "row iteration failed", err)
	}
	return records, nil
}
