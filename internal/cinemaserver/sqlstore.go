package cinemaserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Schema is the MySQL DDL SQLStore expects. Migrate applies it.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS country (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS film (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	country_id BIGINT NOT NULL REFERENCES country (id),
	title VARCHAR(255) NOT NULL,
	genre VARCHAR(16) NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS actor (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	country_id BIGINT NOT NULL REFERENCES country (id),
	first_name VARCHAR(255) NOT NULL,
	last_name VARCHAR(255) NULL,
	birthday DATE NOT NULL,
	gender VARCHAR(16) NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS film_actor (
	film_id BIGINT NOT NULL REFERENCES film (id),
	actor_id BIGINT NOT NULL REFERENCES actor (id),
	PRIMARY KEY (film_id, actor_id)
)`,
	`CREATE TABLE IF NOT EXISTS film_tag (
	film_id BIGINT NOT NULL REFERENCES film (id),
	value VARCHAR(64) NOT NULL,
	PRIMARY KEY (film_id, value)
)`,
	`CREATE TABLE IF NOT EXISTS actor_tag (
	actor_id BIGINT NOT NULL REFERENCES actor (id),
	value VARCHAR(64) NOT NULL,
	PRIMARY KEY (actor_id, value)
)`,
}

const (
	selectFilms = "SELECT f.id, f.country_id, f.title, f.genre, " +
		"COALESCE(GROUP_CONCAT(t.value ORDER BY t.value SEPARATOR ','), '') " +
		"FROM film f LEFT JOIN film_tag t ON t.film_id = f.id"
	groupFilms = " GROUP BY f.id, f.country_id, f.title, f.genre ORDER BY f.id"

	selectActors = "SELECT a.id, a.country_id, a.first_name, a.last_name, a.birthday, a.gender, " +
		"COALESCE(GROUP_CONCAT(t.value ORDER BY t.value SEPARATOR ','), '') " +
		"FROM actor a LEFT JOIN actor_tag t ON t.actor_id = a.id"
	groupActors = " GROUP BY a.id, a.country_id, a.first_name, a.last_name, a.birthday, a.gender ORDER BY a.id"
)

// SQLStore is a Store on MySQL. Tags are aggregated with GROUP_CONCAT.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an open database.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// OpenSQLStore connects to MySQL. DATE columns are scanned as time.Time.
func OpenSQLStore(dsn string) (*SQLStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	return NewSQLStore(sql.OpenDB(connector)), nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Migrate creates the tables that do not exist yet.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// where accumulates a WHERE clause and its arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// limit renders LIMIT/OFFSET. MySQL has no OFFSET without LIMIT, so an
// unlimited page uses the largest row count.
func (w *where) limit(p Page) string {
	switch {
	case p.Limit > 0 && p.Offset > 0:
		w.args = append(w.args, p.Limit, p.Offset)
		return " LIMIT ? OFFSET ?"
	case p.Limit > 0:
		w.args = append(w.args, p.Limit)
		return " LIMIT ?"
	case p.Offset > 0:
		w.args = append(w.args, p.Offset)
		return " LIMIT 18446744073709551615 OFFSET ?"
	}
	return ""
}

func likeFold(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

func (s *SQLStore) Country(ctx context.Context, id int64) (*Country, error) {
	var c Country
	err := s.db.QueryRowContext(ctx, "SELECT id, name FROM country WHERE id = ?", id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select country %d: %w", id, err)
	}
	return &c, nil
}

func (s *SQLStore) Countries(ctx context.Context, f CountryFilter) ([]*Country, error) {
	var w where
	if f.Name != "" {
		w.add("LOWER(name) = LOWER(?)", f.Name)
	}
	query := "SELECT id, name FROM country" + w.String() + " ORDER BY id"
	query += w.limit(f.Page)

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("select countries: %w", err)
	}
	defer rows.Close()

	var out []*Country
	for rows.Next() {
		var c Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s *SQLStore) Film(ctx context.Context, id int64) (*Film, error) {
	var w where
	w.add("f.id = ?", id)
	films, err := s.queryFilms(ctx, selectFilms+w.String()+groupFilms, w.args)
	if err != nil || len(films) == 0 {
		return nil, err
	}
	return films[0], nil
}

func (s *SQLStore) Films(ctx context.Context, f FilmFilter) ([]*Film, error) {
	var w where
	if f.CountryID != nil {
		w.add("f.country_id = ?", *f.CountryID)
	}
	if f.ActorID != nil {
		w.add("f.id IN (SELECT film_id FROM film_actor WHERE actor_id = ?)", *f.ActorID)
	}
	if f.Title != "" {
		w.add("LOWER(f.title) LIKE ?", likeFold(f.Title))
	}
	if f.Genre != "" {
		w.add("f.genre = ?", f.Genre)
	}
	if f.Tag != "" {
		w.add("f.id IN (SELECT film_id FROM film_tag WHERE value = ?)", f.Tag)
	}
	query := selectFilms + w.String() + groupFilms
	query += w.limit(f.Page)
	return s.queryFilms(ctx, query, w.args)
}

func (s *SQLStore) queryFilms(ctx context.Context, query string, args []any) ([]*Film, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select films: %w", err)
	}
	defer rows.Close()

	var out []*Film
	for rows.Next() {
		var (
			f    Film
			tags string
		)
		if err := rows.Scan(&f.ID, &f.CountryID, &f.Title, &f.Genre, &tags); err != nil {
			return nil, fmt.Errorf("scan film: %w", err)
		}
		f.Tags = splitTags(tags)
		out = append(out, &f)
	}
	return out, rows.Err()
}

func (s *SQLStore) Actor(ctx context.Context, id int64) (*Actor, error) {
	var w where
	w.add("a.id = ?", id)
	actors, err := s.queryActors(ctx, selectActors+w.String()+groupActors, w.args)
	if err != nil || len(actors) == 0 {
		return nil, err
	}
	return actors[0], nil
}

func (s *SQLStore) Actors(ctx context.Context, f ActorFilter) ([]*Actor, error) {
	var w where
	if f.CountryID != nil {
		w.add("a.country_id = ?", *f.CountryID)
	}
	if f.FilmID != nil {
		w.add("a.id IN (SELECT actor_id FROM film_actor WHERE film_id = ?)", *f.FilmID)
	}
	if f.FirstName != "" {
		w.add("LOWER(a.first_name) LIKE ?", likeFold(f.FirstName))
	}
	if f.LastName != "" {
		w.add("LOWER(a.last_name) LIKE ?", likeFold(f.LastName))
	}
	if f.BirthdayFrom != nil {
		w.add("a.birthday >= ?", *f.BirthdayFrom)
	}
	if f.BirthdayTo != nil {
		w.add("a.birthday <= ?", *f.BirthdayTo)
	}
	if f.Gender != "" {
		w.add("a.gender = ?", f.Gender)
	}
	if f.Tag != "" {
		w.add("a.id IN (SELECT actor_id FROM actor_tag WHERE value = ?)", f.Tag)
	}
	query := selectActors + w.String() + groupActors
	query += w.limit(f.Page)
	return s.queryActors(ctx, query, w.args)
}

func (s *SQLStore) queryActors(ctx context.Context, query string, args []any) ([]*Actor, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select actors: %w", err)
	}
	defer rows.Close()

	var out []*Actor
	for rows.Next() {
		var (
			a        Actor
			lastName sql.NullString
			tags     string
		)
		if err := rows.Scan(&a.ID, &a.CountryID, &a.FirstName, &lastName, &a.Birthday, &a.Gender, &tags); err != nil {
			return nil, fmt.Errorf("scan actor: %w", err)
		}
		if lastName.Valid {
			a.LastName = &lastName.String
		}
		a.Tags = splitTags(tags)
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateCountry(ctx context.Context, name string) (*Country, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO country (name) VALUES (?)", name)
	if err != nil {
		return nil, fmt.Errorf("insert country: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert country: %w", err)
	}
	return &Country{ID: id, Name: name}, nil
}

func (s *SQLStore) CreateFilm(ctx context.Context, film Film) (*Film, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO film (country_id, title, genre) VALUES (?, ?, ?)",
			film.CountryID, film.Title, film.Genre)
		if err != nil {
			return fmt.Errorf("insert film: %w", noSuchEntity(err, fmt.Sprintf("country %d", film.CountryID)))
		}
		if film.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert film: %w", err)
		}
		for _, tag := range film.Tags {
			if _, err := tx.ExecContext(ctx, "INSERT IGNORE INTO film_tag (film_id, value) VALUES (?, ?)", film.ID, tag); err != nil {
				return fmt.Errorf("insert film tag: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &film, nil
}

func (s *SQLStore) CreateActor(ctx context.Context, actor Actor) (*Actor, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO actor (country_id, first_name, last_name, birthday, gender) VALUES (?, ?, ?, ?, ?)",
			actor.CountryID, actor.FirstName, actor.LastName, actor.Birthday, actor.Gender)
		if err != nil {
			return fmt.Errorf("insert actor: %w", noSuchEntity(err, fmt.Sprintf("country %d", actor.CountryID)))
		}
		if actor.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert actor: %w", err)
		}
		for _, tag := range actor.Tags {
			if _, err := tx.ExecContext(ctx, "INSERT IGNORE INTO actor_tag (actor_id, value) VALUES (?, ?)", actor.ID, tag); err != nil {
				return fmt.Errorf("insert actor tag: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

func (s *SQLStore) Associate(ctx context.Context, filmID, actorID int64) (bool, error) {
	return s.insertIgnore(ctx, fmt.Sprintf("film %d or actor %d", filmID, actorID),
		"INSERT IGNORE INTO film_actor (film_id, actor_id) VALUES (?, ?)", filmID, actorID)
}

func (s *SQLStore) TagFilm(ctx context.Context, filmID int64, tag string) (bool, error) {
	return s.insertIgnore(ctx, fmt.Sprintf("film %d", filmID),
		"INSERT IGNORE INTO film_tag (film_id, value) VALUES (?, ?)", filmID, tag)
}

func (s *SQLStore) TagActor(ctx context.Context, actorID int64, tag string) (bool, error) {
	return s.insertIgnore(ctx, fmt.Sprintf("actor %d", actorID),
		"INSERT IGNORE INTO actor_tag (actor_id, value) VALUES (?, ?)", actorID, tag)
}

// insertIgnore reports whether the row was new. ref names the referenced
// rows for the error when they do not exist.
func (s *SQLStore) insertIgnore(ctx context.Context, ref, query string, args ...any) (bool, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert: %w", noSuchEntity(err, ref))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert: %w", err)
	}
	return n == 1, nil
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// errForeignKey is ER_NO_REFERENCED_ROW_2.
const errForeignKey = 1452

// noSuchEntity maps a foreign key violation to ErrNoSuchEntity.
func noSuchEntity(err error, ref string) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == errForeignKey {
		return fmt.Errorf("%s: %w", ref, ErrNoSuchEntity)
	}
	return err
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
