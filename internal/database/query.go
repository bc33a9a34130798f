package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Sort is a listing order key.
type Sort string

const (
	SortNewest    Sort = "newest"
	SortOldest    Sort = "oldest"
	SortScoreDesc Sort = "score_desc"
	SortScoreAsc  Sort = "score_asc"
)

func (s Sort) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortScoreDesc, SortScoreAsc:
		return true
	}
	return false
}

// ParseSort returns the sort key named by s, or "" when s is not one, which
// listings treat as "use the collection default".
func ParseSort(s string) Sort {
	sort := Sort(strings.ToLower(strings.TrimSpace(s)))
	if !sort.Valid() {
		return ""
	}
	return sort
}

// SortDefaults holds the order each collection uses when none is requested.
type SortDefaults struct {
	Problems Sort
	Ideas    Sort
	Products Sort
}

// ParsePage reads a 1-based page number. Anything non-numeric or below 1 is
// page 1.
func ParsePage(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// AllCategories is the category value meaning "no filter".
const AllCategories = "all"

// ListQuery is a listing request. Zero values mean no search, no category
// filter, the collection's default sort and page 1.
type ListQuery struct {
	Search   string
	Category string
	Sort     Sort
	Page     int
}

type Metadata struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Page is one page of a listing plus pagination metadata.
type Page[T any] struct {
	Data     []T      `json:"data"`
	Metadata Metadata `json:"metadata"`
}

func newMetadata(total, page, limit int) Metadata {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Metadata{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

// entityTable describes how one collection is stored.
type entityTable struct {
	table    string
	alias    string
	junction string // <entity>_categories
	fk       string // junction column pointing back at the entity
	label    string // title or name
	hasScore bool
	columns  []string
}

var (
	problemTable = entityTable{
		table:    "problems",
		alias:    "p",
		junction: "problem_categories",
		fk:       "problem_id",
		label:    "title",
		hasScore: true,
		columns:  []string{"id", "slug", "title", "description", "pain_points", "score", "created_at"},
	}
	ideaTable = entityTable{
		table:    "ideas",
		alias:    "i",
		junction: "idea_categories",
		fk:       "idea_id",
		label:    "title",
		hasScore: true,
		columns:  []string{"id", "slug", "title", "description", "features", "score", "created_at"},
	}
	productTable = entityTable{
		table:    "products",
		alias:    "d",
		junction: "product_categories",
		fk:       "product_id",
		label:    "name",
		hasScore: false,
		columns:  []string{"id", "slug", "name", "description", "url", "created_at"},
	}
)

func (t entityTable) col(name string) string {
	return t.alias + "." + name
}

func (t entityTable) selectList() string {
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		cols[i] = t.col(c)
	}
	return strings.Join(cols, ", ")
}

// orderBy renders the ORDER BY list for sort. Score sorts on a collection
// without a score fall back to created_at in the same direction. id is always
// the last key so LIMIT/OFFSET pages are stable.
func (t entityTable) orderBy(sort Sort) string {
	switch sort {
	case SortOldest:
		return fmt.Sprintf("%s ASC, %s ASC", t.col("created_at"), t.col("id"))
	case SortScoreAsc:
		if !t.hasScore {
			return t.orderBy(SortOldest)
		}
		return fmt.Sprintf("%s ASC, %s DESC, %s ASC", t.col("score"), t.col("created_at"), t.col("id"))
	case SortScoreDesc:
		if !t.hasScore {
			return t.orderBy(SortNewest)
		}
		return fmt.Sprintf("%s DESC, %s DESC, %s ASC", t.col("score"), t.col("created_at"), t.col("id"))
	default:
		return fmt.Sprintf("%s DESC, %s ASC", t.col("created_at"), t.col("id"))
	}
}

// where builds the conjunctive filter for q.
//
// The category predicate is an EXISTS on the junction table, so an entity
// with several categories still yields one row. A slug that names no
// category at all matches everything rather than nothing.
func (t entityTable) where(q ListQuery) (string, []any) {
	var conds []string
	var args []any

	if q.Category != "" {
		conds = append(conds, fmt.Sprintf(
			"(EXISTS (SELECT 1 FROM %s f WHERE f.%s = %s AND f.category_slug = ?) OR NOT EXISTS (SELECT 1 FROM categories k WHERE k.slug = ?))",
			t.junction, t.fk, t.col("id"),
		))
		args = append(args, q.Category, q.Category)
	}

	// LIKE folds ASCII case only. Other characters must match as typed.
	if q.Search != "" {
		conds = append(conds, fmt.Sprintf(
			`(%s LIKE ? ESCAPE '\' OR %s LIKE ? ESCAPE '\')`,
			t.col(t.label), t.col("description"),
		))
		pattern := "%" + escapeLike(q.Search) + "%"
		args = append(args, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (t entityTable) countSQL(where string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s %s%s", t.table, t.alias, where)
}

// pageSQL pages entity rows in a sub-select and joins their categories on the
// outside, producing one row per (entity, category) pair in page order.
func (t entityTable) pageSQL(where string, sort Sort) string {
	order := t.orderBy(sort)
	return fmt.Sprintf(`
		SELECT %[1]s, c.slug, c.name
		FROM (
			SELECT %[1]s FROM %[2]s %[3]s%[4]s
			ORDER BY %[5]s
			LIMIT ? OFFSET ?
		) %[3]s
		LEFT JOIN %[6]s j ON j.%[7]s = %[3]s.id
		LEFT JOIN categories c ON c.slug = j.category_slug
		ORDER BY %[5]s`,
		t.selectList(), t.table, t.alias, where, order, t.junction, t.fk,
	)
}

// categoriesJoin is the FROM tail shared by single-entity and related lookups.
func (t entityTable) categoriesJoin() string {
	return fmt.Sprintf(`
		LEFT JOIN %s j ON j.%s = %s
		LEFT JOIN categories c ON c.slug = j.category_slug`,
		t.junction, t.fk, t.col("id"),
	)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// normalize fills in defaults and clamps malformed input.
func (q ListQuery) normalize(def Sort) ListQuery {
	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.TrimSpace(q.Category)
	if strings.EqualFold(q.Category, AllCategories) {
		q.Category = ""
	}
	if !q.Sort.Valid() {
		q.Sort = def
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// nullCategory is the nullable (slug, name) tail of a LEFT JOIN row.
type nullCategory struct {
	Slug sql.NullString
	Name sql.NullString
}

type entity[T any] interface {
	*T
	key() string
	categoryList() *[]Category
}

type rowScanner interface {
	Scan(dest ...any) error
}

// groupRows folds one row per (entity, category) pair into entities carrying
// their category list. Entities keep the order of their first row; categories
// keep row order.
func groupRows[T any, P entity[T]](rows *sql.Rows, scan func(rowScanner, P, *nullCategory) error) ([]T, error) {
	out := []T{}
	index := make(map[string]int)

	for rows.Next() {
		var item T
		var cat nullCategory
		if err := scan(rows, &item, &cat); err != nil {
			return nil, err
		}

		i, ok := index[P(&item).key()]
		if !ok {
			i = len(out)
			index[P(&item).key()] = i
			*P(&item).categoryList() = []Category{}
			out = append(out, item)
		}

		if cat.Slug.Valid {
			list := P(&out[i]).categoryList()
			*list = append(*list, Category{Slug: cat.Slug.String, Name: cat.Name.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
