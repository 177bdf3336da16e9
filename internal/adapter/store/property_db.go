package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"immobiliare-core/internal/domain/entity"
)

//go:embed schema.sql
var schemaSQL string

// MaxQueryRows caps how many rows an agent query may return.
const MaxQueryRows = 50

// PropertyDB is the property catalog. Agent-issued SQL goes through a
// separate query-only connection pool.
type PropertyDB struct {
	db *sql.DB
	ro *sql.DB
}

func NewPropertyDB(path string) (*PropertyDB, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init schema")
	}
	ro, err := sql.Open("sqlite3", "file:"+path+"?_query_only=true")
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "open read-only sqlite")
	}
	return &PropertyDB{db: db, ro: ro}, nil
}

func (s *PropertyDB) Close() error {
	roErr := s.ro.Close()
	if err := s.db.Close(); err != nil {
		return err
	}
	return roErr
}

func (s *PropertyDB) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.ro.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "list tables")
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scan table name")
		}
		tables = append(tables, name)
	}
	return tables, errors.Wrap(rows.Err(), "list tables")
}

// TableSchema returns the CREATE TABLE statement of a table.
func (s *PropertyDB) TableSchema(ctx context.Context, table string) (string, error) {
	var ddl string
	err := s.ro.QueryRowContext(ctx, "SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&ddl)
	if err == sql.ErrNoRows {
		return "", errors.Wrapf(entity.ErrResourceNotFound, "table %q", table)
	}
	if err != nil {
		return "", errors.Wrap(err, "table schema")
	}
	return ddl, nil
}

// RunQuery executes a single read-only statement and returns its rows as
// column->value maps, at most MaxQueryRows of them.
func (s *PropertyDB) RunQuery(ctx context.Context, query string) ([]map[string]any, error) {
	query, err := readOnlyStatement(query)
	if err != nil {
		return nil, err
	}
	rows, err := s.ro.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "run query")
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "query columns")
	}
	out := []map[string]any{}
	for rows.Next() {
		if len(out) == MaxQueryRows {
			log.Debug().Str("component", "SQL").Int("limit", MaxQueryRows).Msg("query result truncated")
			break
		}
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "scan row")
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, errors.Wrap(rows.Err(), "run query")
}

const propertyColumns = `id, title, city, zone, address, price, rooms, bathrooms, sqm, floor, total_floors, elevator, specs, description_original, description_ai`

func (s *PropertyDB) PropertyDetails(ctx context.Context, id string) (*entity.Property, error) {
	row := s.ro.QueryRowContext(ctx, "SELECT "+propertyColumns+" FROM properties WHERE id = ?", id)
	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(entity.ErrResourceNotFound, "property %q", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "property details")
	}

	rows, err := s.ro.QueryContext(ctx, "SELECT storage_url, room_type, is_main FROM property_images WHERE property_id = ? ORDER BY is_main DESC, id", id)
	if err != nil {
		return nil, errors.Wrap(err, "property images")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var img entity.PropertyImage
		if err := rows.Scan(&img.URL, &img.RoomType, &img.IsMain); err != nil {
			return nil, errors.Wrap(err, "scan property image")
		}
		p.Images = append(p.Images, img)
	}
	return p, errors.Wrap(rows.Err(), "property images")
}

func (s *PropertyDB) ListProperties(ctx context.Context) ([]entity.Property, error) {
	rows, err := s.ro.QueryContext(ctx, "SELECT "+propertyColumns+" FROM properties ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "list properties")
	}
	defer func() { _ = rows.Close() }()

	var out []entity.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan property")
		}
		out = append(out, *p)
	}
	return out, errors.Wrap(rows.Err(), "list properties")
}

// SetDescriptionAI stores a generated description on the read-write handle.
func (s *PropertyDB) SetDescriptionAI(ctx context.Context, id, description string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE properties SET description_ai = ? WHERE id = ?", description, id)
	if err != nil {
		return errors.Wrap(err, "set description_ai")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrapf(entity.ErrResourceNotFound, "property %q", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProperty(row scanner) (*entity.Property, error) {
	var (
		p     entity.Property
		specs string
	)
	err := row.Scan(&p.ID, &p.Title, &p.City, &p.Zone, &p.Address, &p.Price, &p.Rooms, &p.Bathrooms,
		&p.Sqm, &p.Floor, &p.TotalFloors, &p.Elevator, &specs, &p.DescriptionOriginal, &p.DescriptionAI)
	if err != nil {
		return nil, err
	}
	if specs != "" {
		if err := json.Unmarshal([]byte(specs), &p.Specs); err != nil {
			log.Warn().Err(err).Str("property_id", p.ID).Msg("invalid specs json")
		}
	}
	return &p, nil
}

// readOnlyStatement accepts exactly one SELECT (or WITH ... SELECT)
// statement. Semicolons inside quoted literals or identifiers are allowed.
func readOnlyStatement(query string) (string, error) {
	q := strings.TrimSpace(query)
	if end := statementEnd(q); end >= 0 {
		if strings.Trim(q[end:], "; \t\r\n") != "" {
			return "", entity.ErrReadOnlyQuery
		}
		q = strings.TrimSpace(q[:end])
	}
	if q == "" {
		return "", entity.ErrReadOnlyQuery
	}
	lower := strings.ToLower(q)
	if strings.HasPrefix(lower, "select") || strings.HasPrefix(lower, "with") {
		return q, nil
	}
	return "", entity.ErrReadOnlyQuery
}

// statementEnd returns the index of the first ';' outside quotes, or -1.
// A doubled quote ('it''s') toggles twice and stays inside the literal.
func statementEnd(q string) int {
	var quote byte
	for i := 0; i < len(q); i++ {
		c := q[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == ';':
			return i
		}
	}
	return -1
}
