package api

import (
	"math"
	"strconv"
	"strings"
)

// Paging is the paging part of a list query. Pointers tell an absent
// parameter from an explicit one; explicit values must be >= 1.
type Paging struct {
	Page  *int `form:"page" binding:"omitempty,min=1"`
	Limit *int `form:"limit" binding:"omitempty,min=1"`
}

func (w Paging) page() int  { return deref(w.Page) }
func (w Paging) limit() int { return deref(w.Limit) }

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return id, err == nil
}

// toIDs converts a decoded JSON id list. Numbers and numeric strings are
// accepted; anything else is dropped.
func toIDs(raw []any) []int64 {
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		switch x := v.(type) {
		case float64:
			if x == math.Trunc(x) {
				ids = append(ids, int64(x))
			}
		case string:
			if id, ok := parseID(x); ok {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
