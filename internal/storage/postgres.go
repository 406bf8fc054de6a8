// Package storage holds the persistence layer: a Postgres-backed store used
// in production and an in-memory twin for tests.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"campusbot/core/logger"
	"campusbot/internal/models"
)

// Postgres serves all reads and the single write (user registration) against
// the relational schema owned by migrations/.
type Postgres struct {
	db  *sqlx.DB
	log *slog.Logger
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db, log: logger.DB}
}

// UpsertUser registers or refreshes a Telegram account and reports whether
// the row was created. The write is idempotent: repeated /start presses
// update the profile fields and report created=false.
func (p *Postgres) UpsertUser(ctx context.Context, user models.TGUser) (bool, error) {
	// xmax = 0 only holds for a freshly inserted row, which distinguishes
	// insert from conflict-update in a single round trip.
	const query = `
		INSERT INTO tg_users (id, full_name, username)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    username  = EXCLUDED.username
		RETURNING (xmax = 0) AS created`

	var created bool
	if err := p.db.GetContext(ctx, &created, query, user.ID, user.FullName, user.Username); err != nil {
		return false, fmt.Errorf("upsert user %d: %w", user.ID, err)
	}
	logger.LogEvent(ctx, p.log, slog.LevelDebug, "db.user.upsert",
		slog.String("status", "ok"),
		slog.Int64("user_id", user.ID),
		slog.Bool("created", created),
	)
	return created, nil
}

// CountUsers reports how many accounts have registered.
func (p *Postgres) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := p.db.GetContext(ctx, &n, `SELECT count(*) FROM tg_users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// CoursesBySemester lists courses offered in one semester, in catalog order.
func (p *Postgres) CoursesBySemester(ctx context.Context, semester int) ([]models.Course, error) {
	const query = `
		SELECT id, fa_title, en_title, offering_semester, credit, quiz_credit,
		       prerequisite_course_id, unit_type, course_type, has_exam, has_project
		FROM courses
		WHERE offering_semester = $1
		ORDER BY id`

	var courses []models.Course
	if err := p.db.SelectContext(ctx, &courses, query, semester); err != nil {
		return nil, fmt.Errorf("courses by semester %d: %w", semester, err)
	}
	return courses, nil
}

// CoursesByType lists courses of one curriculum type, in catalog order.
func (p *Postgres) CoursesByType(ctx context.Context, code int) ([]models.Course, error) {
	const query = `
		SELECT id, fa_title, en_title, offering_semester, credit, quiz_credit,
		       prerequisite_course_id, unit_type, course_type, has_exam, has_project
		FROM courses
		WHERE course_type = $1
		ORDER BY id`

	var courses []models.Course
	if err := p.db.SelectContext(ctx, &courses, query, code); err != nil {
		return nil, fmt.Errorf("courses by type %d: %w", code, err)
	}
	return courses, nil
}

// CourseByID fetches one course. found=false means the id does not exist,
// which happens when a button outlives a catalog edit.
func (p *Postgres) CourseByID(ctx context.Context, id int64) (models.Course, bool, error) {
	const query = `
		SELECT id, fa_title, en_title, offering_semester, credit, quiz_credit,
		       prerequisite_course_id, unit_type, course_type, has_exam, has_project
		FROM courses
		WHERE id = $1`

	var course models.Course
	if err := p.db.GetContext(ctx, &course, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Course{}, false, nil
		}
		return models.Course{}, false, fmt.Errorf("course %d: %w", id, err)
	}
	return course, true, nil
}

// PlacesByGroup lists the places of one campus group.
func (p *Postgres) PlacesByGroup(ctx context.Context, group int) ([]models.Place, error) {
	const query = `
		SELECT id, name, place_group, latitude, longitude
		FROM places
		WHERE place_group = $1
		ORDER BY id`

	var places []models.Place
	if err := p.db.SelectContext(ctx, &places, query, group); err != nil {
		return nil, fmt.Errorf("places by group %d: %w", group, err)
	}
	return places, nil
}

// Phones lists the whole phone directory.
func (p *Postgres) Phones(ctx context.Context) ([]models.PhoneNumber, error) {
	var phones []models.PhoneNumber
	if err := p.db.SelectContext(ctx, &phones,
		`SELECT id, name, phone_number FROM phone_numbers ORDER BY id`); err != nil {
		return nil, fmt.Errorf("phones: %w", err)
	}
	return phones, nil
}

// Links lists all published links.
func (p *Postgres) Links(ctx context.Context) ([]models.Link, error) {
	var links []models.Link
	if err := p.db.SelectContext(ctx, &links,
		`SELECT id, name, address FROM links ORDER BY id`); err != nil {
		return nil, fmt.Errorf("links: %w", err)
	}
	return links, nil
}

// TextByName fetches a template body. found=false means no such row.
func (p *Postgres) TextByName(ctx context.Context, name string, isButton bool) (string, bool, error) {
	var text string
	err := p.db.GetContext(ctx, &text,
		`SELECT text FROM texts WHERE name = $1 AND is_button = $2`, name, isButton)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("text %q: %w", name, err)
	}
	return text, true, nil
}
