package product

import "strconv"

// Page is the paginated listing result, mirroring what the API exposes.
// swagger:model ProductPage
type Page struct {
	Docs        []Product `json:"docs"`
	TotalDocs   int64     `json:"totalDocs"`
	Limit       int       `json:"limit"`
	TotalPages  int       `json:"totalPages"`
	Page        int       `json:"page"`
	PrevPage    *int      `json:"prevPage"`
	NextPage    *int      `json:"nextPage"`
	HasPrevPage bool      `json:"hasPrevPage"`
	HasNextPage bool      `json:"hasNextPage"`
}

// NewPage computes the paging fields for a page of docs out of total matches.
// A page past the last one yields empty docs and HasNextPage=false.
func NewPage(docs []Product, total int64, limit, page int) *Page {
	if docs == nil {
		docs = []Product{}
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	p := &Page{
		Docs:        docs,
		TotalDocs:   total,
		Limit:       limit,
		TotalPages:  totalPages,
		Page:        page,
		HasPrevPage: page > 1,
		HasNextPage: page < totalPages,
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PrevPage = &prev
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	return p
}

// CoercePaging applies the listing defaults: limit=10 and page=1 whenever the
// raw query values are absent, non-numeric or not positive.
func CoercePaging(rawLimit, rawPage string) (limit, page int) {
	limit = 10
	if n, err := strconv.Atoi(rawLimit); err == nil && n > 0 {
		limit = n
	}
	page = 1
	if n, err := strconv.Atoi(rawPage); err == nil && n > 0 {
		page = n
	}
	return limit, page
}
