package pagination

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Params represents pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta represents pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// DefaultLimit is the default number of items per page
const DefaultLimit = 10

// MaxLimit is the maximum number of items per page
const MaxLimit = 100

// GetParams extracts pagination parameters from request
func GetParams(c *fiber.Ctx) *Params {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset := (page - 1) * limit

	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: offset,
	}
}

// GetMeta calculates pagination metadata
func GetMeta(params *Params, total int64) *Meta {
	totalPages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		totalPages++
	}

	return &Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}

// PageLink is a single pagination link rendered by the table views
type PageLink struct {
	Number int
	URL    string
	Active bool
}

// BuildLinks builds page links for a listing, preserving the active query
// parameters (search, sort, direction, status filter, type) across pages.
func BuildLinks(path string, query url.Values, meta *Meta) []PageLink {
	links := make([]PageLink, 0, meta.TotalPages)
	for page := 1; page <= meta.TotalPages; page++ {
		q := url.Values{}
		for key, vals := range query {
			for _, v := range vals {
				if v != "" {
					q.Add(key, v)
				}
			}
		}
		q.Set("page", strconv.Itoa(page))

		links = append(links, PageLink{
			Number: page,
			URL:    path + "?" + q.Encode(),
			Active: page == meta.Page,
		})
	}
	return links
}
