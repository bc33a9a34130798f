package database

import "time"

// Kind tags the three catalog collections.
type Kind string

const (
	KindProblem Kind = "problem"
	KindIdea    Kind = "idea"
	KindProduct Kind = "product"
)

// Category is a display label attached to entities through junction tables.
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Problem represents an identified user problem or unmet need.
type Problem struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PainPoints  string     `json:"pain_points"`
	Score       int        `json:"score"`
	CreatedAt   time.Time  `json:"created_at"`
	Categories  []Category `json:"categories"`
}

// Idea represents a potential solution to a problem.
type Idea struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Features    string     `json:"features"`
	Score       int        `json:"score"`
	CreatedAt   time.Time  `json:"created_at"`
	Categories  []Category `json:"categories"`
}

// Product represents an existing implementation. Products are not votable.
type Product struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	CreatedAt   time.Time  `json:"created_at"`
	Categories  []Category `json:"categories"`
}

// SourceItem represents a raw item from a source, linked to at most one
// problem or idea.
type SourceItem struct {
	ID              int64      `json:"id"`
	Source          string     `json:"source"`
	SourceItemID    string     `json:"source_item_id"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Author          string     `json:"author,omitempty"`
	URL             string     `json:"url,omitempty"`
	Score           int        `json:"score"`
	CreatedAt       time.Time  `json:"created_at"`
	SourceCreatedAt *time.Time `json:"source_created_at,omitempty"`

	ProblemID string `json:"-"`
	IdeaID    string `json:"-"`
}

func (p *Problem) key() string { return p.ID }
func (p *Problem) categoryList() *[]Category { return &p.Categories }
func (i *Idea) key() string { return i.ID }
func (i *Idea) categoryList() *[]Category { return &i.Categories }
func (p *Product) key() string { return p.ID }
func (p *Product) categoryList() *[]Category { return &p.Categories }
