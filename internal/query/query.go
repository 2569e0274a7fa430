// Package query filters, sorts and paginates an in-memory collection.
// The three steps always run in that order.
package query

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"progresstracker/internal/model"
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder returns def unless s names an order explicitly.
func ParseOrder(s string, def Order) Order {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc
	case Desc:
		return Desc
	}
	return def
}

type Kind int

const (
	String Kind = iota
	Date
	Number
)

// Field describes how to read and compare one attribute of T.
// Get returns a string, a number or a time.Time.
type Field[T any] struct {
	Kind Kind
	Get  func(T) any
}

type Schema[T any] struct {
	Fields        map[string]Field[T]
	SearchFields  []string
	DefaultSortBy string
	DefaultOrder  Order
}

type Filter[T any] func(T) bool

type Query[T any] struct {
	Filters   []Filter[T]
	Search    string
	SortBy    string
	SortOrder Order
	Page      int
	Limit     int
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type Result[T any] struct {
	Items []T
	Pagination
}

// Equals keeps records whose field is exactly value.
func (s Schema[T]) Equals(field, value string) Filter[T] {
	f, ok := s.Fields[field]
	return func(item T) bool {
		return ok && stringOf(f.Get(item)) == value
	}
}

// Contains keeps records whose field contains value (case-sensitive).
func (s Schema[T]) Contains(field, value string) Filter[T] {
	f, ok := s.Fields[field]
	return func(item T) bool {
		if !ok {
			return false
		}
		v := stringOf(f.Get(item))
		return v != "" && strings.Contains(v, value)
	}
}

// DateRange keeps records with start <= field <= end. Either bound may be empty.
// Comparison is lexical, which matches chronological order for YYYY-MM-DD.
func (s Schema[T]) DateRange(field, start, end string) Filter[T] {
	f, ok := s.Fields[field]
	return func(item T) bool {
		if !ok {
			return false
		}
		v := stringOf(f.Get(item))
		if start != "" && v < start {
			return false
		}
		if end != "" && v > end {
			return false
		}
		return true
	}
}

// Search keeps records where any search field contains term, ignoring case.
func (s Schema[T]) Search(term string) Filter[T] {
	needle := strings.ToLower(term)
	fields := lo.FilterMap(s.SearchFields, func(name string, _ int) (Field[T], bool) {
		f, ok := s.Fields[name]
		return f, ok
	})
	return func(item T) bool {
		return lo.SomeBy(fields, func(f Field[T]) bool {
			return strings.Contains(strings.ToLower(stringOf(f.Get(item))), needle)
		})
	}
}

// Run filters, sorts and paginates items. items is not modified.
func (s Schema[T]) Run(items []T, q Query[T]) Result[T] {
	filters := q.Filters
	if q.Search != "" {
		filters = append(slices.Clip(filters), s.Search(q.Search))
	}

	matched := lo.Filter(items, func(item T, _ int) bool {
		for _, keep := range filters {
			if !keep(item) {
				return false
			}
		}
		return true
	})

	sortBy := q.SortBy
	order := q.SortOrder
	if sortBy == "" {
		sortBy = s.DefaultSortBy
	}
	if order == "" {
		order = s.DefaultOrder
	}
	if field, ok := s.Fields[sortBy]; ok {
		s.sort(matched, field, order)
	}

	return paginate(matched, q.Page, q.Limit)
}

func (s Schema[T]) sort(items []T, field Field[T], order Order) {
	cmp := comparator(field.Kind)
	sign := 1
	if order == Desc {
		sign = -1
	}
	slices.SortStableFunc(items, func(a, b T) int {
		return sign * cmp(field.Get(a), field.Get(b))
	})
}

func comparator(kind Kind) func(a, b any) int {
	switch kind {
	case Date:
		return func(a, b any) int {
			return timeOf(a).Compare(timeOf(b))
		}
	case Number:
		return func(a, b any) int {
			return compareOrdered(numberOf(a), numberOf(b))
		}
	default:
		// collators keep internal buffers, one per sort
		col := collate.New(language.Und)
		return func(a, b any) int {
			as, aok := a.(string)
			bs, bok := b.(string)
			if aok && bok {
				return col.CompareString(as, bs)
			}
			return compareOrdered(stringOf(a), stringOf(b))
		}
	}
}

func paginate[T any](items []T, page, limit int) Result[T] {
	total := len(items)
	res := Result[T]{
		Items: items,
		Pagination: Pagination{
			Total:      total,
			Page:       1,
			Limit:      total,
			TotalPages: 1,
		},
	}

	if limit > 0 {
		start := 0
		if page > 0 {
			start = (page - 1) * limit
			res.Page = page
		}
		start = min(start, total)
		end := min(start+limit, total)
		res.Items = items[start:end]
		res.Limit = limit
		res.TotalPages = int(math.Ceil(float64(total) / float64(limit)))
	}

	if res.Items == nil {
		res.Items = []T{}
	}
	return res
}

func compareOrdered[V int | float64 | string](a, b V) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func stringOf(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case model.ProjectStatus:
		return string(x)
	case model.NeedHelp:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case nil:
		return ""
	}
	return ""
}

// numberOf falls back to 0 for anything that does not parse.
func numberOf(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int64:
		f = float64(x)
	case int:
		f = float64(x)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = n
	}
	if math.IsNaN(f) {
		return 0
	}
	return f
}

// timeOf falls back to the zero time for empty or unparseable dates.
func timeOf(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x
	case string:
		t, err := model.ParseDate(x, time.Local)
		if err != nil {
			return time.Time{}
		}
		return t
	}
	return time.Time{}
}
