package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stageloft/offbook/pkg/types"
)

// Store is one project record table backed by an embedded SQLite file. Each
// Store owns its connection handle; independent stores in one process share
// no state. Every call commits immediately; there are no multi-call
// transactions.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath and ensures the schema.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// The engine assumes a single exclusive writer; one connection avoids
	// SQLITE_BUSY between the pool's handles.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	for _, stmt := range []string{createProjects, idxProjectsName} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the database handle. Safe to call more than once.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Insert adds a new record, assigning ID and both timestamps on p.
// Returns ErrNameConflict when the name is already registered.
func (s *Store) Insert(p *types.Project) error {
	metaJSON, err := encodeMeta(p.Meta)
	if err != nil {
		return err
	}
	now := time.Now()

	res, err := s.db.Exec(
		`INSERT INTO projects (name, content_path, chosen_character, created_at, updated_at, meta)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.ContentPath, nullString(p.ChosenCharacter), toEpoch(now), toEpoch(now), metaJSON,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", types.ErrNameConflict, p.Name)
		}
		return fmt.Errorf("insert project: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// GetByID returns the record with the given id, or ErrNotFound.
func (s *Store) GetByID(id int64) (*types.Project, error) {
	row := s.db.QueryRow(`SELECT id, name, content_path, chosen_character, created_at, updated_at, meta
		FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id=%d", types.ErrNotFound, id)
	}
	return p, err
}

// GetByName returns the record with the given name, or ErrNotFound.
func (s *Store) GetByName(name string) (*types.Project, error) {
	row := s.db.QueryRow(`SELECT id, name, content_path, chosen_character, created_at, updated_at, meta
		FROM projects WHERE name = ?`, name)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: name=%s", types.ErrNotFound, name)
	}
	return p, err
}

// ListAll returns every record, most recently touched first, ties broken
// alphabetically for determinism.
func (s *Store) ListAll() ([]*types.Project, error) {
	rows, err := s.db.Query(`SELECT id, name, content_path, chosen_character, created_at, updated_at, meta
		FROM projects ORDER BY updated_at DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []*types.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// updatableColumns is the allowlist for UpdateFields.
var updatableColumns = []string{"name", "content_path", "chosen_character", "meta"}

// UpdateFields sets the given columns on one record and always restamps
// updated_at. Unknown columns are rejected. Returns ErrNotFound when the id
// does not exist and ErrNameConflict when a name update collides.
func (s *Store) UpdateFields(id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	var (
		assigns []string
		args    []any
	)
	for _, col := range updatableColumns {
		v, ok := fields[col]
		if !ok {
			continue
		}
		switch col {
		case "meta":
			meta, ok := v.(types.Meta)
			if !ok {
				return fmt.Errorf("update projects: meta must be types.Meta")
			}
			encoded, err := encodeMeta(meta)
			if err != nil {
				return err
			}
			v = encoded
		case "chosen_character":
			if str, ok := v.(string); ok {
				v = nullString(str)
			}
		}
		assigns = append(assigns, col+" = ?")
		args = append(args, v)
	}
	if len(assigns) != len(fields) {
		return fmt.Errorf("update projects: unknown column in %v", fields)
	}

	assigns = append(assigns, "updated_at = ?")
	args = append(args, toEpoch(time.Now()), id)

	res, err := s.db.Exec(
		"UPDATE projects SET "+strings.Join(assigns, ", ")+" WHERE id = ?", args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", types.ErrNameConflict, fields["name"])
		}
		return fmt.Errorf("update project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id=%d", types.ErrNotFound, id)
	}
	return nil
}

// RefreshMeta rewrites a record's meta without restamping updated_at. It
// exists for the directory-normalization pass, which must leave a converged
// library byte-stable across reopens.
func (s *Store) RefreshMeta(id int64, meta types.Meta) error {
	encoded, err := encodeMeta(meta)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`UPDATE projects SET meta = ? WHERE id = ?`, encoded, id)
	if err != nil {
		return fmt.Errorf("refresh meta: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("refresh meta: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id=%d", types.ErrNotFound, id)
	}
	return nil
}

// DeleteByID removes one record. Returns ErrNotFound when the id does not
// exist; deleting twice is harmless.
func (s *Store) DeleteByID(id int64) error {
	res, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id=%d", types.ErrNotFound, id)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*types.Project, error) {
	var (
		p         types.Project
		character sql.NullString
		created   float64
		updated   float64
		metaJSON  string
	)
	err := row.Scan(&p.ID, &p.Name, &p.ContentPath, &character, &created, &updated, &metaJSON)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}

	p.ChosenCharacter = character.String
	p.CreatedAt = fromEpoch(created)
	p.UpdatedAt = fromEpoch(updated)
	if metaJSON != "" {
		// A corrupt meta blob degrades to empty rather than making the
		// record unreadable.
		if err := json.Unmarshal([]byte(metaJSON), &p.Meta); err != nil {
			p.Meta = types.Meta{}
		}
	}
	return &p, nil
}

func encodeMeta(meta types.Meta) (string, error) {
	data, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encode meta: %w", err)
	}
	return string(data), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func toEpoch(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromEpoch(sec float64) time.Time {
	return time.Unix(0, int64(sec*float64(time.Second)))
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
