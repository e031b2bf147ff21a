package telemetry

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// OpenDB opens an instrumented postgres pool whose connections all resolve
// unqualified names in schema.
func OpenDB(dsn, schema string) (*sql.DB, error) {
	dsn, err := WithSearchPath(dsn, schema)
	if err != nil {
		return nil, err
	}
	return otelsql.Open("postgres", dsn,
		otelsql.WithAttributes(
			semconv.DBSystemPostgreSQL,
			semconv.DBNamespace(schema),
		),
	)
}

// WithSearchPath sets search_path as a connection parameter so it applies to
// every pooled connection, not only the one a SET statement ran on. Both the
// URL and the key/value DSN forms are accepted.
func WithSearchPath(dsn, schema string) (string, error) {
	if schema == "" || strings.ContainsAny(schema, " '\\") {
		return "", fmt.Errorf("invalid schema name %q", schema)
	}
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		if strings.TrimSpace(dsn) == "" {
			return "", errors.New("empty database dsn")
		}
		// lib/pq keeps the last value of a repeated key.
		return strings.TrimSpace(dsn) + " search_path=" + schema, nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
