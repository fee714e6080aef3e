package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/udaysingh21/NGO-Postings-Service/internal/posting"
)

// Store persists postings in Postgres.
type Store struct {
	db *sql.DB
}

var _ posting.Store = (*Store)(nil)

// Open connects with the pgx stdlib driver and tuned pool defaults.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// New wraps an existing connection pool; used by tests.
func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

const postColumns = `id, title, description, domain, location, city, state, country, pincode,
	effort_required, volunteers_needed, start_date, end_date, ngo_id,
	contact_email, contact_phone, status, volunteers_spot_left, created_at, updated_at`

func (s *Store) Create(ctx context.Context, p posting.Post) (posting.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		insert into ngo_posts(
			title, description, domain, location, city, state, country, pincode,
			effort_required, volunteers_needed, start_date, end_date, ngo_id,
			contact_email, contact_phone, status, volunteers_spot_left
		) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		returning id, created_at, updated_at
	`, p.Title, p.Description, p.Domain, p.Location, p.City, p.State, p.Country, p.Pincode,
		p.EffortRequired, p.VolunteersNeeded, dateArg(p.StartDate), dateArg(p.EndDate), p.NgoID,
		p.ContactEmail, p.ContactPhone, string(p.Status), p.VolunteersSpotLeft)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return posting.Post{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (posting.Post, error) {
	row := s.db.QueryRowContext(ctx, `select `+postColumns+` from ngo_posts where id = $1`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return posting.Post{}, posting.ErrNotFound
	}
	if err != nil {
		return posting.Post{}, err
	}
	return p, nil
}

func (s *Store) Update(ctx context.Context, p posting.Post) (posting.Post, error) {
	// ngo_id and created_at are deliberately absent from the SET list.
	row := s.db.QueryRowContext(ctx, `
		update ngo_posts set
			title = $2, description = $3, domain = $4, location = $5, city = $6,
			state = $7, country = $8, pincode = $9, effort_required = $10,
			volunteers_needed = $11, start_date = $12, end_date = $13,
			contact_email = $14, contact_phone = $15, status = $16,
			volunteers_spot_left = $17, updated_at = now()
		where id = $1
		returning updated_at
	`, p.ID, p.Title, p.Description, p.Domain, p.Location, p.City,
		p.State, p.Country, p.Pincode, p.EffortRequired,
		p.VolunteersNeeded, dateArg(p.StartDate), dateArg(p.EndDate),
		p.ContactEmail, p.ContactPhone, string(p.Status), p.VolunteersSpotLeft)
	if err := row.Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return posting.Post{}, posting.ErrNotFound
		}
		return posting.Post{}, err
	}
	return p, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from ngo_posts where id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return posting.ErrNotFound
	}
	return nil
}

func (s *Store) ListActive(ctx context.Context, page posting.Page) ([]posting.Post, int, error) {
	return s.list(ctx, `status = $1`, []any{string(posting.StatusActive)}, page)
}

func (s *Store) ListByNGO(ctx context.Context, ngoID int64, page posting.Page) ([]posting.Post, int, error) {
	return s.list(ctx, `ngo_id = $1`, []any{ngoID}, page)
}

func (s *Store) ListByDomain(ctx context.Context, domain string, page posting.Page) ([]posting.Post, int, error) {
	return s.list(ctx, `lower(domain) = lower($1)`, []any{domain}, page)
}

func (s *Store) ListByCity(ctx context.Context, city string, page posting.Page) ([]posting.Post, int, error) {
	return s.list(ctx, `lower(city) = lower($1)`, []any{city}, page)
}

func (s *Store) Search(ctx context.Context, keyword string, page posting.Page) ([]posting.Post, int, error) {
	pattern := "%" + keyword + "%"
	return s.list(ctx, `(title ilike $1 or description ilike $1) and status = $2`,
		[]any{pattern, string(posting.StatusActive)}, page)
}

func (s *Store) ListUpcoming(ctx context.Context, from posting.Date, page posting.Page) ([]posting.Post, int, error) {
	return s.list(ctx, `start_date >= $1 and status = $2`,
		[]any{from.Time, string(posting.StatusActive)}, page)
}

// list runs a filtered, counted, paginated query. Normalize restricts
// SortBy/SortDir to a fixed whitelist, so they are safe to interpolate.
func (s *Store) list(ctx context.Context, where string, args []any, page posting.Page) ([]posting.Post, int, error) {
	page = page.Normalize()

	var total int
	if err := s.db.QueryRowContext(ctx, `select count(*) from ngo_posts where `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`select %s from ngo_posts where %s order by %s %s limit %d offset %d`,
		postColumns, where, page.SortBy, page.SortDir, page.Size, page.Offset())
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := []posting.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (posting.Post, error) {
	var (
		p          posting.Post
		start, end sql.NullTime
		status     string
	)
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Domain, &p.Location,
		&p.City, &p.State, &p.Country, &p.Pincode, &p.EffortRequired,
		&p.VolunteersNeeded, &start, &end, &p.NgoID,
		&p.ContactEmail, &p.ContactPhone, &status, &p.VolunteersSpotLeft,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return posting.Post{}, err
	}
	if start.Valid {
		p.StartDate = posting.Date{Time: start.Time}
	}
	if end.Valid {
		p.EndDate = posting.Date{Time: end.Time}
	}
	p.Status = posting.Status(status)
	return p, nil
}

func dateArg(d posting.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.Time
}
