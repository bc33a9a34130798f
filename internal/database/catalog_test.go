package database

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProblems_ScoreDescTwoRows(t *testing.T) {
	f := newFixture(t)
	f.problem(Problem{ID: "p1", Slug: "a", Title: "A", Score: 5, CreatedAt: at(0)})
	f.problem(Problem{ID: "p2", Slug: "b", Title: "B", Score: 10, CreatedAt: at(1)})

	page, err := f.db.ListProblems(context.Background(), ListQuery{Sort: SortScoreDesc, Page: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"p2", "p1"}, problemIDs(page.Data))
	assert.Equal(t, Metadata{Total: 2, Page: 1, Limit: 10, TotalPages: 1}, page.Metadata)
	assert.Equal(t, at(1), page.Data[0].CreatedAt)
	assert.Equal(t, []Category{}, page.Data[0].Categories)
}

func TestListProblems_Pagination(t *testing.T) {
	f := newFixture(t)
	f.category("saas", "SaaS")
	f.category("ai", "AI")
	for n := 0; n < 23; n++ {
		// Every problem has two categories so joins would double count.
		f.problem(Problem{
			ID:        fmt.Sprintf("p%02d", n),
			Slug:      fmt.Sprintf("problem-%02d", n),
			Title:     fmt.Sprintf("Problem %02d", n),
			Score:     n,
			CreatedAt: at(n),
		}, "saas", "ai")
	}

	ctx := context.Background()
	seen := map[string]bool{}
	for page := 1; page <= 4; page++ {
		res, err := f.db.ListProblems(ctx, ListQuery{Sort: SortOldest, Page: page})
		require.NoError(t, err)

		assert.Equal(t, 23, res.Metadata.Total)
		assert.Equal(t, 3, res.Metadata.TotalPages)
		assert.Equal(t, page, res.Metadata.Page)

		want := 0
		if offset := (page - 1) * 10; offset < 23 {
			want = min(10, 23-offset)
		}
		assert.Len(t, res.Data, want, "page %d", page)

		for _, p := range res.Data {
			assert.False(t, seen[p.ID], "%s repeated across pages", p.ID)
			seen[p.ID] = true
			assert.Len(t, p.Categories, 2)
		}
	}
	assert.Len(t, seen, 23)
}

func TestListProblems_MalformedPageIsFirstPage(t *testing.T) {
	f := newFixture(t)
	f.problem(Problem{ID: "p1", Slug: "a", Title: "A", CreatedAt: at(0)})

	res, err := f.db.ListProblems(context.Background(), ListQuery{Page: ParsePage("abc")})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Metadata.Page)
	assert.Len(t, res.Data, 1)

	res, err = f.db.ListProblems(context.Background(), ListQuery{Page: -3})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Metadata.Page)
	assert.Len(t, res.Data, 1)
}

func TestListProblems_SortOrders(t *testing.T) {
	f := newFixture(t)
	scores := []int{3, -2, 8, 8, 0, 5}
	for n, s := range scores {
		f.problem(Problem{ID: fmt.Sprintf("p%d", n), Slug: fmt.Sprintf("s%d", n), Title: "t", Score: s, CreatedAt: at(n)})
	}
	ctx := context.Background()

	desc, err := f.db.ListProblems(ctx, ListQuery{Sort: SortScoreDesc})
	require.NoError(t, err)
	for i := 1; i < len(desc.Data); i++ {
		assert.GreaterOrEqual(t, desc.Data[i-1].Score, desc.Data[i].Score)
	}

	asc, err := f.db.ListProblems(ctx, ListQuery{Sort: SortScoreAsc})
	require.NoError(t, err)
	for i := 1; i < len(asc.Data); i++ {
		assert.LessOrEqual(t, asc.Data[i-1].Score, asc.Data[i].Score)
	}

	newest, err := f.db.ListProblems(ctx, ListQuery{Sort: SortNewest})
	require.NoError(t, err)
	assert.Equal(t, []string{"p5", "p4", "p3", "p2", "p1", "p0"}, problemIDs(newest.Data))

	oldest, err := f.db.ListProblems(ctx, ListQuery{Sort: SortOldest})
	require.NoError(t, err)
	assert.Equal(t, []string{"p0", "p1", "p2", "p3", "p4", "p5"}, problemIDs(oldest.Data))

	// Unknown sort falls back to the configured default (score_desc).
	def, err := f.db.ListProblems(ctx, ListQuery{Sort: ParseSort("hot")})
	require.NoError(t, err)
	assert.Equal(t, problemIDs(desc.Data), problemIDs(def.Data))
}

func TestListProducts_ScoreSortsFallBackToCreatedAt(t *testing.T) {
	f := newFixture(t)
	for n := 0; n < 4; n++ {
		f.product(Product{ID: fmt.Sprintf("d%d", n), Slug: fmt.Sprintf("d%d", n), Name: "tool", CreatedAt: at(n)})
	}
	ctx := context.Background()

	pairs := [][2]Sort{{SortScoreDesc, SortNewest}, {SortScoreAsc, SortOldest}}
	for _, pair := range pairs {
		got, err := f.db.ListProducts(ctx, ListQuery{Sort: pair[0]})
		require.NoError(t, err)
		want, err := f.db.ListProducts(ctx, ListQuery{Sort: pair[1]})
		require.NoError(t, err)
		assert.Equal(t, productIDs(want.Data), productIDs(got.Data), "%s vs %s", pair[0], pair[1])
	}

	def, err := f.db.ListProducts(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"d3", "d2", "d1", "d0"}, productIDs(def.Data))
}

func TestListIdeas_CategoryFilter(t *testing.T) {
	f := newFixture(t)
	f.category("fintech", "Fintech")
	f.category("health", "Health")
	f.category("empty", "Nothing here")
	f.idea(Idea{ID: "i1", Slug: "budget", Title: "Budget app", CreatedAt: at(0)}, "fintech")
	f.idea(Idea{ID: "i2", Slug: "steps", Title: "Step counter", CreatedAt: at(1)}, "health")
	f.idea(Idea{ID: "i3", Slug: "insurance", Title: "Health insurance broker", CreatedAt: at(2)}, "fintech", "health")
	f.idea(Idea{ID: "i4", Slug: "loose", Title: "Uncategorised", CreatedAt: at(3)})
	ctx := context.Background()

	fin, err := f.db.ListIdeas(ctx, ListQuery{Category: "fintech", Sort: SortOldest})
	require.NoError(t, err)
	assert.Equal(t, []string{"i1", "i3"}, ideaIDs(fin.Data))
	assert.Equal(t, 2, fin.Metadata.Total)
	// The filter narrows rows, not the categories shown on them.
	assert.ElementsMatch(t, []Category{{"fintech", "Fintech"}, {"health", "Health"}}, fin.Data[1].Categories)

	empty, err := f.db.ListIdeas(ctx, ListQuery{Category: "empty"})
	require.NoError(t, err)
	assert.Empty(t, empty.Data)
	assert.Equal(t, 0, empty.Metadata.Total)
	assert.Equal(t, 0, empty.Metadata.TotalPages)

	for _, noFilter := range []string{"", "all", "no-such-category"} {
		res, err := f.db.ListIdeas(ctx, ListQuery{Category: noFilter})
		require.NoError(t, err)
		assert.Equal(t, 4, res.Metadata.Total, "category %q", noFilter)
	}
}

func TestListIdeas_SearchMatchesTitleOrDescription(t *testing.T) {
	f := newFixture(t)
	f.idea(Idea{ID: "i1", Slug: "a", Title: "Invoice Tracker", Description: "for freelancers", CreatedAt: at(0)})
	f.idea(Idea{ID: "i2", Slug: "b", Title: "Something else", Description: "Tracks INVOICES automatically", CreatedAt: at(1)})
	f.idea(Idea{ID: "i3", Slug: "c", Title: "Recipe box", Description: "cooking", CreatedAt: at(2)})
	f.idea(Idea{ID: "i4", Slug: "d", Title: "100% uptime", Description: "monitoring", CreatedAt: at(3)})
	ctx := context.Background()

	res, err := f.db.ListIdeas(ctx, ListQuery{Search: "invoice", Sort: SortOldest})
	require.NoError(t, err)
	assert.Equal(t, []string{"i1", "i2"}, ideaIDs(res.Data))

	res, err = f.db.ListIdeas(ctx, ListQuery{Search: "%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"i4"}, ideaIDs(res.Data))

	res, err = f.db.ListIdeas(ctx, ListQuery{Search: "no match at all"})
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Equal(t, Metadata{Total: 0, Page: 1, Limit: 10, TotalPages: 0}, res.Metadata)
}

func TestListProblems_SearchMatchesNonASCIITitle(t *testing.T) {
	f := newFixture(t)
	f.problem(Problem{ID: "p1", Slug: "echec", Title: "Échec scolaire", Description: "Élèves en difficulté", CreatedAt: at(0)})
	f.problem(Problem{ID: "p2", Slug: "other", Title: "Scolarité", CreatedAt: at(1)})
	ctx := context.Background()

	for _, search := range []string{"Échec", "échec scolaire", "SCOLAIRE", "Élèves"} {
		res, err := f.db.ListProblems(ctx, ListQuery{Search: search})
		require.NoError(t, err)
		if search == "échec scolaire" {
			// Only ASCII letters fold, so a lowercase É does not match.
			assert.Empty(t, res.Data, "search %q", search)
			continue
		}
		assert.Equal(t, []string{"p1"}, problemIDs(res.Data), "search %q", search)
		assert.Equal(t, 1, res.Metadata.Total, "search %q", search)
	}
}

func TestListProblems_HugePageIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.problem(Problem{ID: "p1", Slug: "a", Title: "A", CreatedAt: at(0)})
	ctx := context.Background()

	for _, page := range []int{math.MaxInt, math.MaxInt/10 + 1, math.MaxInt/10 + 2} {
		res, err := f.db.ListProblems(ctx, ListQuery{Page: page})
		require.NoError(t, err)
		assert.NotNil(t, res.Data)
		assert.Empty(t, res.Data, "page %d", page)
		assert.Equal(t, Metadata{Total: 1, Page: page, Limit: 10, TotalPages: 1}, res.Metadata)
	}

	res, err := f.db.ListProblems(ctx, ListQuery{Page: ParsePage("9223372036854775807")})
	require.NoError(t, err)
	assert.Empty(t, res.Data)
}

func TestListProblems_SearchAndCategoryAreConjunctive(t *testing.T) {
	f := newFixture(t)
	f.category("saas", "SaaS")
	f.problem(Problem{ID: "p1", Slug: "a", Title: "CRM pain", CreatedAt: at(0)}, "saas")
	f.problem(Problem{ID: "p2", Slug: "b", Title: "CRM pain too", CreatedAt: at(1)})
	f.problem(Problem{ID: "p3", Slug: "c", Title: "Billing", CreatedAt: at(2)}, "saas")

	res, err := f.db.ListProblems(context.Background(), ListQuery{Search: "crm", Category: "saas"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, problemIDs(res.Data))
}

func TestGetCategories(t *testing.T) {
	f := newFixture(t)
	f.category("web3", "Web3")
	f.category("ai", "AI")
	f.category("fintech", "Fintech")

	cats, err := f.db.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Category{{"ai", "AI"}, {"fintech", "Fintech"}, {"web3", "Web3"}}, cats)
}

func TestGetCategories_Empty(t *testing.T) {
	db := newTestDB(t)

	cats, err := db.GetCategories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cats)
	assert.Empty(t, cats)
}
