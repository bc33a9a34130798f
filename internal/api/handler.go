package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/letieu/ideadb/internal/cache"
	"github.com/letieu/ideadb/internal/database"
	"github.com/letieu/ideadb/internal/logger"
	"github.com/letieu/ideadb/internal/metrics"
	"github.com/letieu/ideadb/internal/pubsub"
)

// Store is the catalog surface the HTTP adapter needs. *database.DB
// implements it.
type Store interface {
	ListProblems(ctx context.Context, q database.ListQuery) (*database.Page[database.Problem], error)
	ListIdeas(ctx context.Context, q database.ListQuery) (*database.Page[database.Idea], error)
	ListProducts(ctx context.Context, q database.ListQuery) (*database.Page[database.Product], error)
	GetCategories(ctx context.Context) ([]database.Category, error)

	GetProblemBySlug(ctx context.Context, slug string) (*database.Problem, error)
	GetIdeaBySlug(ctx context.Context, slug string) (*database.Idea, error)
	GetProductBySlug(ctx context.Context, slug string) (*database.Product, error)
	RelatedIdeasForProblem(ctx context.Context, problemID string) ([]database.Idea, error)
	RelatedProductsForProblem(ctx context.Context, problemID string) ([]database.Product, error)
	RelatedProblemsForIdea(ctx context.Context, ideaID string) ([]database.Problem, error)
	SourceItemsForProblem(ctx context.Context, problemID string) ([]database.SourceItem, error)
	SourceItemsForIdea(ctx context.Context, ideaID string) ([]database.SourceItem, error)

	ApplyVote(ctx context.Context, kind database.Kind, id string, delta int) (int64, error)
	Ping(ctx context.Context) error
}

type Handler struct {
	store   Store
	cache   cache.ListingCache
	events  pubsub.VotePublisher
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewHandler(store Store, c cache.ListingCache, events pubsub.VotePublisher, m *metrics.Metrics, log *logger.Logger) *Handler {
	if c == nil {
		c = cache.Noop{}
	}
	if events == nil {
		events = pubsub.Noop{}
	}
	if log == nil {
		log = logger.NewLogger("ideadb", "info")
	}
	return &Handler{store: store, cache: c, events: events, metrics: m, log: log}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.health)
	r.GET("/ready", h.ready)

	r.GET("/problems", listHandler(h, database.KindProblem, h.store.ListProblems))
	r.GET("/problems/:slug", h.problem)
	r.GET("/ideas", listHandler(h, database.KindIdea, h.store.ListIdeas))
	r.GET("/ideas/:slug", h.idea)
	r.GET("/products", listHandler(h, database.KindProduct, h.store.ListProducts))
	r.GET("/products/:slug", h.product)
	r.GET("/categories", h.categories)

	r.POST("/votes", h.vote)
}

func listQuery(c *gin.Context) database.ListQuery {
	return database.ListQuery{
		Search:   c.Query("q"),
		Category: c.Query("category"),
		Sort:     database.ParseSort(c.Query("sort")),
		Page:     database.ParsePage(c.Query("page")),
	}
}

// listHandler serves one collection's listing, going through the listing
// cache. Cache failures are logged and otherwise ignored.
func listHandler[T any](
	h *Handler,
	kind database.Kind,
	list func(context.Context, database.ListQuery) (*database.Page[T], error),
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		q := listQuery(c)
		key := cache.ListingKey(q)

		var cached database.Page[T]
		hit, err := h.cache.Get(ctx, kind, key, &cached)
		switch {
		case err != nil:
			h.entry(c).WithError(err).Warn("listing cache read failed")
			h.recordCache(kind, "error")
		case hit:
			h.recordCache(kind, "hit")
			c.JSON(http.StatusOK, cached)
			return
		default:
			h.recordCache(kind, "miss")
		}

		page, err := list(ctx, q)
		if err != nil {
			h.fail(c, err)
			return
		}

		if err := h.cache.Set(ctx, kind, key, page); err != nil {
			h.entry(c).WithError(err).Warn("listing cache write failed")
		}
		c.JSON(http.StatusOK, page)
	}
}

func (h *Handler) categories(c *gin.Context) {
	cats, err := h.store.GetCategories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cats})
}

func (h *Handler) problem(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.store.GetProblemBySlug(ctx, c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if p == nil {
		notFound(c)
		return
	}

	var (
		ideas    []database.Idea
		products []database.Product
		sources  []database.SourceItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ideas, err = h.store.RelatedIdeasForProblem(gctx, p.ID)
		return err
	})
	g.Go(func() (err error) {
		products, err = h.store.RelatedProductsForProblem(gctx, p.ID)
		return err
	})
	g.Go(func() (err error) {
		sources, err = h.store.SourceItemsForProblem(gctx, p.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"problem":      p,
		"ideas":        ideas,
		"products":     products,
		"source_items": sources,
	})
}

func (h *Handler) idea(c *gin.Context) {
	ctx := c.Request.Context()
	i, err := h.store.GetIdeaBySlug(ctx, c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if i == nil {
		notFound(c)
		return
	}

	var (
		problems []database.Problem
		sources  []database.SourceItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		problems, err = h.store.RelatedProblemsForIdea(gctx, i.ID)
		return err
	})
	g.Go(func() (err error) {
		sources, err = h.store.SourceItemsForIdea(gctx, i.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"idea":         i,
		"problems":     problems,
		"source_items": sources,
	})
}

func (h *Handler) product(c *gin.Context) {
	p, err := h.store.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if p == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

type voteRequest struct {
	ID    string        `json:"id" binding:"required"`
	Type  database.Kind `json:"type" binding:"required,oneof=problem idea"`
	// required also rejects 0, a vote that would change nothing.
	Value int `json:"value" binding:"required"`
}

func (h *Handler) vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vote", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	n, err := h.store.ApplyVote(ctx, req.Type, req.ID, req.Value)
	if errors.Is(err, database.ErrNotVotable) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vote"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if n == 0 {
		notFound(c)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordVote(string(req.Type), req.Value)
	}
	if err := h.cache.Invalidate(ctx, req.Type); err != nil {
		h.entry(c).WithError(err).WithField("kind", req.Type).Warn("listing cache invalidation failed")
	}
	event := pubsub.VoteEvent{Kind: req.Type, ID: req.ID, Delta: req.Value, At: time.Now().UTC()}
	if err := h.events.PublishVote(ctx, event); err != nil {
		h.entry(c).WithError(err).Warn("vote event not published")
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "db_error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "ok"})
}

// fail logs a store failure and answers with a generic 500.
func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func (h *Handler) entry(c *gin.Context) *logrus.Entry {
	return h.log.WithRequestID(logger.RequestID(c))
}

func (h *Handler) recordCache(kind database.Kind, result string) {
	if h.metrics != nil {
		h.metrics.RecordCache(string(kind), result)
	}
}
