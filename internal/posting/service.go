package posting

import (
	"context"
	"strings"
	"time"

	"github.com/udaysingh21/NGO-Postings-Service/internal/auth"
)

// CreateInput carries the caller-supplied fields of a new posting. The
// owner is never part of the input; it comes from the verified identity.
type CreateInput struct {
	Title            string
	Description      string
	Domain           string
	Location         string
	City             string
	State            string
	Country          string
	Pincode          string
	EffortRequired   string
	VolunteersNeeded int
	StartDate        Date
	EndDate          Date
	ContactEmail     string
	ContactPhone     string
}

// UpdateInput is a partial update: nil fields are left untouched. The id
// and owner of a posting are not updatable.
type UpdateInput struct {
	Title            *string
	Description      *string
	Domain           *string
	Location         *string
	City             *string
	State            *string
	Country          *string
	Pincode          *string
	EffortRequired   *string
	VolunteersNeeded *int
	StartDate        *Date
	EndDate          *Date
	ContactEmail     *string
	ContactPhone     *string
	Status           *Status
}

// Service enforces the per-operation access-control sequence in front of
// the store: identity -> existence -> policy -> mutation. No store write
// happens before the policy allows the operation.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Create persists a new posting owned by the caller. Only NGO and ADMIN
// identities may create.
func (s *Service) Create(ctx context.Context, ident auth.Identity, in CreateInput) (Post, error) {
	if !auth.CanCreate(ident) {
		return Post{}, ErrForbidden
	}

	post := Post{
		Title:            strings.TrimSpace(in.Title),
		Description:      strings.TrimSpace(in.Description),
		Domain:           strings.TrimSpace(in.Domain),
		Location:         strings.TrimSpace(in.Location),
		City:             strings.TrimSpace(in.City),
		State:            strings.TrimSpace(in.State),
		Country:          strings.TrimSpace(in.Country),
		Pincode:          strings.TrimSpace(in.Pincode),
		EffortRequired:   strings.TrimSpace(in.EffortRequired),
		VolunteersNeeded: in.VolunteersNeeded,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		NgoID:            ident.UserID,
		ContactEmail:     strings.TrimSpace(in.ContactEmail),
		ContactPhone:     strings.TrimSpace(in.ContactPhone),
		Status:           StatusActive,
	}
	if post.VolunteersSpotLeft == 0 && post.VolunteersNeeded > 0 {
		post.VolunteersSpotLeft = post.VolunteersNeeded
	}
	return s.store.Create(ctx, post)
}

// Get returns a posting by id. Reads carry no role restriction beyond the
// authentication requirement enforced at the transport layer.
func (s *Service) Get(ctx context.Context, id int64) (Post, error) {
	return s.store.GetByID(ctx, id)
}

// ListActive returns ACTIVE postings.
func (s *Service) ListActive(ctx context.Context, page Page) ([]Post, int, error) {
	return s.store.ListActive(ctx, page.Normalize())
}

// ListByNGO returns postings owned by ngoID. ADMIN may list anyone's
// postings; an NGO only its own.
func (s *Service) ListByNGO(ctx context.Context, ident auth.Identity, ngoID int64, page Page) ([]Post, int, error) {
	if !auth.CanListByOwner(ident, ngoID) {
		return nil, 0, ErrForbidden
	}
	return s.store.ListByNGO(ctx, ngoID, page.Normalize())
}

// ListByDomain returns postings in a cause domain such as Education.
func (s *Service) ListByDomain(ctx context.Context, domain string, page Page) ([]Post, int, error) {
	return s.store.ListByDomain(ctx, strings.TrimSpace(domain), page.Normalize())
}

// ListByCity returns postings located in the given city.
func (s *Service) ListByCity(ctx context.Context, city string, page Page) ([]Post, int, error) {
	return s.store.ListByCity(ctx, strings.TrimSpace(city), page.Normalize())
}

// Search matches the keyword against title and description of ACTIVE
// postings, case-insensitively.
func (s *Service) Search(ctx context.Context, keyword string, page Page) ([]Post, int, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, 0, ErrInvalidInput
	}
	return s.store.Search(ctx, keyword, page.Normalize())
}

// ListUpcoming returns ACTIVE postings whose start date is today or later.
func (s *Service) ListUpcoming(ctx context.Context, page Page) ([]Post, int, error) {
	now := s.now().UTC()
	today := NewDate(now.Year(), now.Month(), now.Day())
	return s.store.ListUpcoming(ctx, today, page.Normalize())
}

// Update applies a partial update. Existence is checked before ownership
// so a denied caller cannot learn whether a probed id exists.
func (s *Service) Update(ctx context.Context, ident auth.Identity, id int64, in UpdateInput) (Post, error) {
	post, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Post{}, err
	}
	if !auth.CanModify(ident, post.NgoID) {
		return Post{}, ErrForbidden
	}

	applyUpdate(&post, in)
	return s.store.Update(ctx, post)
}

// Delete removes a posting, subject to the same ownership rule as Update.
func (s *Service) Delete(ctx context.Context, ident auth.Identity, id int64) error {
	post, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanModify(ident, post.NgoID) {
		return ErrForbidden
	}
	return s.store.Delete(ctx, post.ID)
}

func applyUpdate(post *Post, in UpdateInput) {
	if in.Title != nil {
		post.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		post.Description = strings.TrimSpace(*in.Description)
	}
	if in.Domain != nil {
		post.Domain = strings.TrimSpace(*in.Domain)
	}
	if in.Location != nil {
		post.Location = strings.TrimSpace(*in.Location)
	}
	if in.City != nil {
		post.City = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		post.State = strings.TrimSpace(*in.State)
	}
	if in.Country != nil {
		post.Country = strings.TrimSpace(*in.Country)
	}
	if in.Pincode != nil {
		post.Pincode = strings.TrimSpace(*in.Pincode)
	}
	if in.EffortRequired != nil {
		post.EffortRequired = strings.TrimSpace(*in.EffortRequired)
	}
	if in.VolunteersNeeded != nil {
		post.VolunteersNeeded = *in.VolunteersNeeded
	}
	if in.StartDate != nil {
		post.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		post.EndDate = *in.EndDate
	}
	if in.ContactEmail != nil {
		post.ContactEmail = strings.TrimSpace(*in.ContactEmail)
	}
	if in.ContactPhone != nil {
		post.ContactPhone = strings.TrimSpace(*in.ContactPhone)
	}
	if in.Status != nil {
		post.Status = *in.Status
	}
}
