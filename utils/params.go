package utils

import (
	"net/http"
	"strconv"
	"strings"
)

type QueryOptions struct {
	Page   int
	Search string
	Sort   string
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	search := q.Get("q")
	if search == "" {
		search = q.Get("search")
	}

	return QueryOptions{
		Page:   page,
		Search: strings.TrimSpace(search),
		Sort:   q.Get("sort"),
	}
}
