package posting

import (
	"context"
	"strings"
	"time"
)

// Status is the lifecycle state of a posting.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Date is a calendar day without time-of-day, serialized as YYYY-MM-DD to
// match the contract of the original posting API.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date truncated to the day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Post is a volunteering opportunity published by an NGO. NgoID is the
// owner recorded at creation time and never reassigned.
type Post struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Domain             string    `json:"domain"`
	Location           string    `json:"location"`
	City               string    `json:"city,omitempty"`
	State              string    `json:"state,omitempty"`
	Country            string    `json:"country,omitempty"`
	Pincode            string    `json:"pincode,omitempty"`
	EffortRequired     string    `json:"effortRequired,omitempty"`
	VolunteersNeeded   int       `json:"volunteersNeeded,omitempty"`
	StartDate          Date      `json:"startDate"`
	EndDate            Date      `json:"endDate"`
	NgoID              int64     `json:"ngoId"`
	ContactEmail       string    `json:"contactEmail,omitempty"`
	ContactPhone       string    `json:"contactPhone,omitempty"`
	Status             Status    `json:"status"`
	VolunteersSpotLeft int       `json:"volunteersSpotLeft,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Page describes pagination and ordering for list queries.
type Page struct {
	Number  int
	Size    int
	SortBy  string
	SortDir string
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Normalize clamps page parameters to safe bounds and fills defaults.
func (p Page) Normalize() Page {
	if p.Number < 0 {
		p.Number = 0
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	switch p.SortBy {
	case "created_at", "start_date", "title":
	default:
		p.SortBy = "created_at"
	}
	if !strings.EqualFold(p.SortDir, "asc") {
		p.SortDir = "desc"
	} else {
		p.SortDir = "asc"
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Page) Offset() int {
	return p.Number * p.Size
}

// Store persists postings. Implementations: the in-memory store in this
// package and the Postgres store in internal/store/pg.
type Store interface {
	Create(ctx context.Context, post Post) (Post, error)
	GetByID(ctx context.Context, id int64) (Post, error)
	Update(ctx context.Context, post Post) (Post, error)
	Delete(ctx context.Context, id int64) error

	ListActive(ctx context.Context, page Page) ([]Post, int, error)
	ListByNGO(ctx context.Context, ngoID int64, page Page) ([]Post, int, error)
	ListByDomain(ctx context.Context, domain string, page Page) ([]Post, int, error)
	ListByCity(ctx context.Context, city string, page Page) ([]Post, int, error)
	Search(ctx context.Context, keyword string, page Page) ([]Post, int, error)
	ListUpcoming(ctx context.Context, from Date, page Page) ([]Post, int, error)
}
