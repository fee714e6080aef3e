package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/udaysingh21/NGO-Postings-Service/internal/auth"
	"github.com/udaysingh21/NGO-Postings-Service/internal/posting"
)

type createPostingRequest struct {
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Domain           string       `json:"domain"`
	Location         string       `json:"location"`
	City             string       `json:"city"`
	State            string       `json:"state"`
	Country          string       `json:"country"`
	Pincode          string       `json:"pincode"`
	EffortRequired   string       `json:"effortRequired"`
	VolunteersNeeded int          `json:"volunteersNeeded"`
	StartDate        posting.Date `json:"startDate"`
	EndDate          posting.Date `json:"endDate"`
	ContactEmail     string       `json:"contactEmail"`
	ContactPhone     string       `json:"contactPhone"`
}

func (req createPostingRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Description, validation.Required, validation.Length(1, 2000)),
		validation.Field(&req.Domain, validation.Required),
		validation.Field(&req.Location, validation.Required),
		validation.Field(&req.VolunteersNeeded, validation.Min(1)),
		validation.Field(&req.StartDate, validation.By(requiredDate), validation.By(futureDate)),
		validation.Field(&req.EndDate, validation.By(requiredDate)),
		validation.Field(&req.ContactEmail, is.Email),
	)
}

type updatePostingRequest struct {
	Title            *string       `json:"title"`
	Description      *string       `json:"description"`
	Domain           *string       `json:"domain"`
	Location         *string       `json:"location"`
	City             *string       `json:"city"`
	State            *string       `json:"state"`
	Country          *string       `json:"country"`
	Pincode          *string       `json:"pincode"`
	EffortRequired   *string       `json:"effortRequired"`
	VolunteersNeeded *int          `json:"volunteersNeeded"`
	StartDate        *posting.Date `json:"startDate"`
	EndDate          *posting.Date `json:"endDate"`
	ContactEmail     *string       `json:"contactEmail"`
	ContactPhone     *string       `json:"contactPhone"`
	Status           *string       `json:"status"`
}

func (req updatePostingRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Length(1, 255)),
		validation.Field(&req.Description, validation.Length(1, 2000)),
		validation.Field(&req.VolunteersNeeded, validation.Min(1)),
		validation.Field(&req.ContactEmail, is.Email),
		validation.Field(&req.Status, validation.By(validStatus)),
	)
}

// requiredDate exists because ozzo's Required only treats a bare
// time.Time zero value as empty, not wrapper types.
func requiredDate(value any) error {
	d, ok := value.(posting.Date)
	if !ok || d.IsZero() {
		return errors.New("cannot be blank")
	}
	return nil
}

func futureDate(value any) error {
	d, ok := value.(posting.Date)
	if !ok || d.IsZero() {
		return nil
	}
	if !d.After(time.Now()) {
		return errors.New("must be in the future")
	}
	return nil
}

func validStatus(value any) error {
	s, ok := value.(*string)
	if !ok || s == nil {
		return nil
	}
	if !posting.Status(*s).Valid() {
		return fmt.Errorf("must be one of ACTIVE, INACTIVE, COMPLETED, CANCELLED")
	}
	return nil
}

type postingPageResponse struct {
	Items         []posting.Post `json:"items"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalElements int            `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
}

func (a *API) handlePostingsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createPosting(w, r)
	case http.MethodGet:
		if !a.authorizeRead(w, r) {
			return
		}
		page := parsePage(r)
		items, total, err := a.postings.ListActive(r.Context(), page)
		a.respondList(w, r, page, items, total, err)
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handlePostingResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/postings/")
	if rest == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch {
	case rest == "search":
		a.withRead(w, r, func(page posting.Page) ([]posting.Post, int, error) {
			return a.postings.Search(r.Context(), r.URL.Query().Get("q"), page)
		})
	case rest == "upcoming":
		a.withRead(w, r, func(page posting.Page) ([]posting.Post, int, error) {
			return a.postings.ListUpcoming(r.Context(), page)
		})
	case strings.HasPrefix(rest, "ngo/"):
		a.listByNGO(w, r, strings.TrimPrefix(rest, "ngo/"))
	case strings.HasPrefix(rest, "domain/"):
		domain := strings.TrimPrefix(rest, "domain/")
		a.withRead(w, r, func(page posting.Page) ([]posting.Post, int, error) {
			return a.postings.ListByDomain(r.Context(), domain, page)
		})
	case strings.HasPrefix(rest, "city/"):
		city := strings.TrimPrefix(rest, "city/")
		a.withRead(w, r, func(page posting.Page) ([]posting.Post, int, error) {
			return a.postings.ListByCity(r.Context(), city, page)
		})
	case strings.Contains(rest, "/"):
		writeError(w, r, http.StatusNotFound, "resource not found")
	default:
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			writeError(w, r, http.StatusNotFound, "resource not found")
			return
		}
		switch r.Method {
		case http.MethodGet:
			a.getPosting(w, r, id)
		case http.MethodPut:
			a.updatePosting(w, r, id)
		case http.MethodDelete:
			a.deletePosting(w, r, id)
		default:
			methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
	}
}

func (a *API) createPosting(w http.ResponseWriter, r *http.Request) {
	ident, err := requireIdentity(r)
	if err != nil {
		unauthorized(w, r)
		return
	}

	var req createPostingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, r, err)
		return
	}

	post, err := a.postings.Create(r.Context(), ident, posting.CreateInput{
		Title:            req.Title,
		Description:      req.Description,
		Domain:           req.Domain,
		Location:         req.Location,
		City:             req.City,
		State:            req.State,
		Country:          req.Country,
		Pincode:          req.Pincode,
		EffortRequired:   req.EffortRequired,
		VolunteersNeeded: req.VolunteersNeeded,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
	})
	if err != nil {
		if errors.Is(err, posting.ErrForbidden) {
			writeError(w, r, http.StatusForbidden, "only NGO and ADMIN users can create postings")
			return
		}
		handlePostingError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/postings/"+strconv.FormatInt(post.ID, 10))
	writeJSON(w, http.StatusCreated, post)
}

func (a *API) getPosting(w http.ResponseWriter, r *http.Request, id int64) {
	if !a.authorizeRead(w, r) {
		return
	}
	post, err := a.postings.Get(r.Context(), id)
	if err != nil {
		handlePostingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (a *API) listByNGO(w http.ResponseWriter, r *http.Request, raw string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	ident, err := requireIdentity(r)
	if err != nil {
		unauthorized(w, r)
		return
	}
	ngoID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	page := parsePage(r)
	items, total, err := a.postings.ListByNGO(r.Context(), ident, ngoID, page)
	if err != nil {
		if errors.Is(err, posting.ErrForbidden) {
			writeError(w, r, http.StatusForbidden, "you can only view your own postings")
			return
		}
		handlePostingError(w, r, err)
		return
	}
	a.respondList(w, r, page, items, total, nil)
}

func (a *API) updatePosting(w http.ResponseWriter, r *http.Request, id int64) {
	ident, err := requireIdentity(r)
	if err != nil {
		unauthorized(w, r)
		return
	}

	var req updatePostingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeValidationError(w, r, err)
		return
	}

	in := posting.UpdateInput{
		Title:            req.Title,
		Description:      req.Description,
		Domain:           req.Domain,
		Location:         req.Location,
		City:             req.City,
		State:            req.State,
		Country:          req.Country,
		Pincode:          req.Pincode,
		EffortRequired:   req.EffortRequired,
		VolunteersNeeded: req.VolunteersNeeded,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
	}
	if req.Status != nil {
		status := posting.Status(*req.Status)
		in.Status = &status
	}

	post, err := a.postings.Update(r.Context(), ident, id, in)
	if err != nil {
		if errors.Is(err, posting.ErrForbidden) {
			writeError(w, r, http.StatusForbidden, "you are not authorized to update this posting")
			return
		}
		handlePostingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (a *API) deletePosting(w http.ResponseWriter, r *http.Request, id int64) {
	ident, err := requireIdentity(r)
	if err != nil {
		unauthorized(w, r)
		return
	}

	if err := a.postings.Delete(r.Context(), ident, id); err != nil {
		if errors.Is(err, posting.ErrForbidden) {
			writeError(w, r, http.StatusForbidden, "you are not authorized to delete this posting")
			return
		}
		handlePostingError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// withRead wraps the read-only list endpoints that share pagination and
// error handling.
func (a *API) withRead(w http.ResponseWriter, r *http.Request, list func(posting.Page) ([]posting.Post, int, error)) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.authorizeRead(w, r) {
		return
	}
	page := parsePage(r)
	items, total, err := list(page)
	a.respondList(w, r, page, items, total, err)
}

func (a *API) respondList(w http.ResponseWriter, r *http.Request, page posting.Page, items []posting.Post, total int, err error) {
	if err != nil {
		handlePostingError(w, r, err)
		return
	}
	page = page.Normalize()
	if items == nil {
		items = []posting.Post{}
	}
	totalPages := (total + page.Size - 1) / page.Size
	writeJSON(w, http.StatusOK, postingPageResponse{
		Items:         items,
		Page:          page.Number,
		Size:          page.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	})
}

func parsePage(r *http.Request) posting.Page {
	q := r.URL.Query()
	page := posting.Page{
		SortBy:  normalizeSortBy(q.Get("sortBy")),
		SortDir: q.Get("sortDir"),
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		page.Number = v
	}
	if v, err := strconv.Atoi(q.Get("size")); err == nil {
		page.Size = v
	}
	return page
}

// normalizeSortBy accepts the original API's camelCase sort keys alongside
// column names.
func normalizeSortBy(raw string) string {
	switch raw {
	case "createdAt":
		return "created_at"
	case "startDate":
		return "start_date"
	default:
		return raw
	}
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		payload := map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"status":    http.StatusBadRequest,
			"error":     http.StatusText(http.StatusBadRequest),
			"errors":    verrs,
		}
		if rid := RequestIDFromContext(r.Context()); rid != "" {
			payload["request_id"] = rid
		}
		writeJSON(w, http.StatusBadRequest, payload)
		return
	}
	writeError(w, r, http.StatusBadRequest, err.Error())
}

func handlePostingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, posting.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, posting.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "posting not found")
	case errors.Is(err, posting.ErrForbidden):
		writeError(w, r, http.StatusForbidden, "forbidden")
	case errors.Is(err, auth.ErrUnauthenticated):
		unauthorized(w, r)
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
