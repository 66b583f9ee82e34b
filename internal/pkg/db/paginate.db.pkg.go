package database

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PaginationResult struct {
	CurrentPage int         `json:"currentPage"`
	PerPage     int         `json:"perPage"`
	TotalItems  int64       `json:"totalItems"`
	TotalPages  int         `json:"totalPages"`
	Data        interface{} `json:"data"`
}

type CursorResult struct {
	Items      interface{} `json:"items"`
	NextCursor string      `json:"nextCursor"`
	HasMore    bool        `json:"hasMore"`
	PerPage    int         `json:"perPage"`
}

type OrderField struct {
	Field     string
	Direction DirectionEnum
}

func (o OrderField) ToString() string {
	return fmt.Sprintf("%s %s", o.Field, o.Direction.ToString())
}

// comparator picks the keyset operator that continues a scan in the
// order's direction.
func (o OrderField) comparator() string {
	if o.Direction == ASC {
		return ">"
	}
	return "<"
}

type PaginationQuery struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

func NewPaginationRequest(c *gin.Context) *PaginationQuery {
	var query PaginationQuery
	_ = c.ShouldBindQuery(&query)
	return query.Parse()
}

// Parse clamps the query to sane bounds. Missing or negative values fall
// back to the defaults, limit is capped so one request cannot drag the
// whole table.
func (q *PaginationQuery) Parse() *PaginationQuery {
	page := q.Page
	if page <= 0 {
		page = defaultPage
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return &PaginationQuery{
		Page:  page,
		Limit: limit,
	}
}

func (q *PaginationQuery) Paginate() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		qry := q.Parse()
		return db.Offset((qry.Page - 1) * qry.Limit).Limit(qry.Limit)
	}
}

// FindWithPagination runs a classic page/limit listing and wraps the rows
// with the counts a client needs to render a pager.
func (db *Database) FindWithPagination(query PaginationQuery, dest interface{}) (*PaginationResult, error) {
	q := query.Parse()

	var totalItems int64
	if err := db.Model(dest).Count(&totalItems).Error; err != nil {
		return nil, err
	}

	if err := db.Scopes(q.Paginate()).Find(dest).Error; err != nil {
		return nil, err
	}

	return &PaginationResult{
		CurrentPage: q.Page,
		PerPage:     q.Limit,
		TotalItems:  totalItems,
		TotalPages:  int(math.Ceil(float64(totalItems) / float64(q.Limit))),
		Data:        dest,
	}, nil
}

// FindWithCursor pages by keyset instead of offset. The cursor seals the
// last seen value of order.Field, so rows inserted or deleted between
// requests do not shift the window the way OFFSET paging does.
//
// order.Field is a code-owned column name, never request input, which is
// why it may be spliced into the clause.
func (db *Database) FindWithCursor(encryptedCursor string, limit int, dest interface{}, order OrderField) (*CursorResult, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	query := db.DB
	if encryptedCursor != "" {
		cursor, err := db.cursorCrypto.decrypt(encryptedCursor)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor: %w", err)
		}
		if cursor != "" {
			query = query.Where(fmt.Sprintf("%s %s ?", order.Field, order.comparator()), cursor)
		}
	}

	// one row past the page tells us whether more exist
	if err := query.Order(order.ToString()).Limit(limit + 1).Find(dest).Error; err != nil {
		return nil, err
	}

	result := &CursorResult{
		Items:   dest,
		PerPage: limit,
	}

	items := reflect.ValueOf(dest).Elem()
	if items.Len() <= limit {
		return result, nil
	}

	items.Set(items.Slice(0, limit))
	result.HasMore = true

	last := items.Index(items.Len() - 1)
	field := cursorStructField(last, order.Field)
	if !field.IsValid() {
		return nil, fmt.Errorf("cursor field %s not found on %s", order.Field, items.Type().Elem())
	}

	next, err := db.cursorCrypto.encrypt(fmt.Sprint(field.Interface()))
	if err != nil {
		return nil, fmt.Errorf("sealing cursor: %w", err)
	}
	result.NextCursor = next

	return result, nil
}

// cursorStructField maps a column name like "created_at" or "media.id" onto
// the matching struct field, ignoring case and underscores, so initialisms
// such as ID resolve.
func cursorStructField(item reflect.Value, column string) reflect.Value {
	parts := strings.Split(column, ".")
	name := strings.ReplaceAll(parts[len(parts)-1], "_", "")

	return item.FieldByNameFunc(func(fieldName string) bool {
		return strings.EqualFold(fieldName, name)
	})
}
