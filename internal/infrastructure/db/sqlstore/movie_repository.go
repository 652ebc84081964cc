package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/movieapp/movie-api/internal/core/domain"
	"github.com/movieapp/movie-api/internal/core/ports"
)

const movieColumns = "id, title, description, source_url, thumb_url, subtitle, created_at, updated_at"

// searchClause matches a lower-cased title or description with LIKE; '!'
// escapes the wildcard characters of the user's term.
func searchClause(lower string) string {
	return ` WHERE (` + lower + `(title) LIKE ? ESCAPE '!' OR ` + lower + `(description) LIKE ? ESCAPE '!')`
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type MovieRepository struct {
	db *DB
}

func NewMovieRepository(db *DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) List(ctx context.Context, f ports.MovieFilter) ([]*domain.Movie, int64, error) {
	where := ""
	var args []any
	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		where = searchClause(r.db.lowerFunc())
		args = append(args, pattern, pattern)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM movies`+where), args...); err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	movies := []*domain.Movie{}
	q := r.db.Rebind(`SELECT ` + movieColumns + ` FROM movies` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &movies, q, append(args, f.Limit, f.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}

	return movies, total, nil
}

func (r *MovieRepository) ListAll(ctx context.Context) ([]*domain.Movie, error) {
	movies := []*domain.Movie{}
	q := `SELECT ` + movieColumns + ` FROM movies ORDER BY created_at DESC, id DESC`
	if err := r.db.SelectContext(ctx, &movies, q); err != nil {
		return nil, fmt.Errorf("list all movies: %w", err)
	}
	return movies, nil
}

func (r *MovieRepository) FindByID(ctx context.Context, id int64) (*domain.Movie, error) {
	return r.findByID(ctx, r.db.DB, id)
}

func (r *MovieRepository) findByID(ctx context.Context, q sqlx.QueryerContext, id int64) (*domain.Movie, error) {
	var m domain.Movie
	if err := sqlx.GetContext(ctx, q, &m, r.db.Rebind(`SELECT `+movieColumns+` FROM movies WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("find movie: %w", err)
	}
	return &m, nil
}

// Create inserts the movie and reads it back in one transaction.
func (r *MovieRepository) Create(ctx context.Context, m *domain.Movie) (*domain.Movie, error) {
	var created *domain.Movie
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		ts := now()
		id, err := r.db.insert(ctx, tx,
			`INSERT INTO movies (title, description, source_url, thumb_url, subtitle, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.Title, m.Description, m.SourceURL, m.ThumbURL, m.Subtitle, ts, ts,
		)
		if err != nil {
			return fmt.Errorf("insert movie: %w", err)
		}
		created, err = r.findByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update writes only the columns present in the patch. Column names come from
// this fixed list; values are always bound.
func (r *MovieRepository) Update(ctx context.Context, id int64, p domain.MoviePatch) (*domain.Movie, error) {
	var sets []string
	var args []any
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.SourceURL != nil {
		sets = append(sets, "source_url = ?")
		args = append(args, *p.SourceURL)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, p.Description.Ptr())
	}
	if p.ThumbURL != nil {
		sets = append(sets, "thumb_url = ?")
		args = append(args, p.ThumbURL.Ptr())
	}
	if p.Subtitle != nil {
		sets = append(sets, "subtitle = ?")
		args = append(args, p.Subtitle.Ptr())
	}
	if len(sets) == 0 {
		return nil, domain.ErrNoFieldsToUpdate
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now(), id)

	var updated *domain.Movie
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := r.findByID(ctx, tx, id); err != nil {
			return err
		}
		q := r.db.Rebind(`UPDATE movies SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("update movie: %w", err)
		}
		var err error
		updated, err = r.findByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the movie and returns the row as it was.
func (r *MovieRepository) Delete(ctx context.Context, id int64) (*domain.Movie, error) {
	var deleted *domain.Movie
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		m, err := r.findByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM movies WHERE id = ?`), id); err != nil {
			return fmt.Errorf("delete movie: %w", err)
		}
		deleted = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *MovieRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM movies`); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

func (r *MovieRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
