package httpx

import (
	"net/http"
	"strconv"
	"time"
)

// queryString returns a pointer to the query value, or nil when absent.
// Repositories treat nil as "no filter".
func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// queryInt parses an integer query parameter, returning 0 when absent or
// malformed. Page-size clamping happens in the repository layer.
func queryInt(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// queryTime parses an RFC 3339 query parameter, returning nil when absent
// or malformed.
func queryTime(r *http.Request, key string) *time.Time {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}
