package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/vitgroww/roomie/internal/candidates"
	"github.com/vitgroww/roomie/internal/roommate"
	"github.com/vitgroww/roomie/internal/validator"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// SQLiteStore keeps candidate profiles in a SQLite database.
type SQLiteStore struct {
	db        *sql.DB
	validator *validator.Validator
}

// ListParams narrows List results. Empty filters are ignored.
type ListParams struct {
	Limit  int
	Offset int
	Block  roommate.Block
	Mess   roommate.Mess
}

// Effective returns the params List actually queries with: the limit defaults
// to 20 and is capped at 200, a negative offset becomes zero.
func (p ListParams) Effective() ListParams {
	if p.Limit <= 0 {
		p.Limit = defaultListLimit
	}
	p.Limit = min(p.Limit, maxListLimit)
	p.Offset = max(p.Offset, 0)
	return p
}

func Open(path string, v *validator.Validator) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; pooled connections would surface SQLITE_BUSY
	// instead of constraint errors. Pragmas below also apply per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if v == nil {
		v = validator.New()
	}
	return &SQLiteStore{db: db, validator: v}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	const createTable = `
CREATE TABLE IF NOT EXISTS candidates (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  bio TEXT NOT NULL DEFAULT '',
  contact TEXT NOT NULL DEFAULT '',
  preferred_block TEXT NOT NULL,
  mess_preference TEXT NOT NULL,
  room_type TEXT NOT NULL,
  ac_preference TEXT NOT NULL,
  sleep_time TEXT NOT NULL,
  wake_time TEXT NOT NULL,
  study_style TEXT NOT NULL,
  cleanliness TEXT NOT NULL,
  social_level TEXT NOT NULL,
  interests_json TEXT NOT NULL DEFAULT '[]'
);
`
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_candidates_block ON candidates(preferred_block);`); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_candidates_mess ON candidates(mess_preference);`); err != nil {
		return err
	}
	return nil
}

const insertColumns = `(id, name, bio, contact, preferred_block, mess_preference, room_type, ac_preference,
 sleep_time, wake_time, study_style, cleanliness, social_level, interests_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectColumns = `SELECT id, name, bio, contact, preferred_block, mess_preference, room_type, ac_preference,
 sleep_time, wake_time, study_style, cleanliness, social_level, interests_json
FROM candidates`

// UpsertMany inserts or replaces the given candidates in one transaction.
func (s *SQLiteStore) UpsertMany(ctx context.Context, items []*candidates.Candidate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO candidates `+insertColumns)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range items {
		if err := candidates.Prepare(c, s.validator); err != nil {
			return fmt.Errorf("candidate %s: %w", c.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, args(c)...); err != nil {
			return fmt.Errorf("upsert candidate %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// ErrDuplicateID is returned by Create when the ID is already taken.
var ErrDuplicateID = errors.New("candidate id already exists")

func (s *SQLiteStore) Create(ctx context.Context, c *candidates.Candidate) (*candidates.Candidate, error) {
	if err := candidates.Prepare(c, s.validator); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO candidates `+insertColumns, args(c)...)
	if isPrimaryKeyViolation(err) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return aff > 0, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*candidates.Candidate, bool, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	c, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&n)
	return n, err
}

// List returns one page of candidates ordered by id and the total number of
// candidates matching the filters.
func (s *SQLiteStore) List(ctx context.Context, p ListParams) (*candidates.Candidates, int, error) {
	p = p.Effective()
	limit, offset := p.Limit, p.Offset

	where := make([]string, 0, 2)
	whereArgs := make([]any, 0, 2)
	if p.Block != "" {
		where = append(where, "preferred_block = ?")
		whereArgs = append(whereArgs, string(p.Block))
	}
	if p.Mess != "" {
		where = append(where, "mess_preference = ?")
		whereArgs = append(whereArgs, string(p.Mess))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates`+whereSQL, whereArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rowsArgs := append(append([]any{}, whereArgs...), limit, offset)
	rows, err := s.db.QueryContext(ctx, selectColumns+whereSQL+` ORDER BY id LIMIT ? OFFSET ?`, rowsArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := &candidates.Candidates{Items: make([]*candidates.Candidate, 0, limit)}
	for rows.Next() {
		c, err := s.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out.Items = append(out.Items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

// All returns every stored candidate ordered by id.
func (s *SQLiteStore) All(ctx context.Context) (*candidates.Candidates, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := &candidates.Candidates{}
	for rows.Next() {
		c, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scan(row scanner) (*candidates.Candidate, error) {
	var c candidates.Candidate
	var interestsJSON string

	err := row.Scan(
		&c.ID, &c.Name, &c.Bio, &c.Contact,
		&c.Profile.PreferredBlock, &c.Profile.MessPreference, &c.Profile.RoomType, &c.Profile.ACPreference,
		&c.Profile.SleepTime, &c.Profile.WakeTime, &c.Profile.StudyStyle, &c.Profile.Cleanliness, &c.Profile.SocialLevel,
		&interestsJSON,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(interestsJSON), &c.Profile.Interests); err != nil {
		return nil, fmt.Errorf("candidate %s: decode interests: %w", c.ID, err)
	}
	c.Profile = c.Profile.Normalized()

	if err := s.validator.Validate(&c); err != nil {
		return nil, fmt.Errorf("candidate %s: %w", c.ID, err)
	}
	return &c, nil
}

func isPrimaryKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func args(c *candidates.Candidate) []any {
	interests, _ := json.Marshal(c.Profile.Interests)
	p := c.Profile
	return []any{
		c.ID, c.Name, c.Bio, c.Contact,
		string(p.PreferredBlock), string(p.MessPreference), string(p.RoomType), string(p.ACPreference),
		string(p.SleepTime), string(p.WakeTime), string(p.StudyStyle), string(p.Cleanliness), string(p.SocialLevel),
		string(interests),
	}
}
