// Package api exposes questions and game results over HTTP and provides a client for it.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/verte-zerg/wordwise/internal/model"
	"github.com/verte-zerg/wordwise/internal/stats"
	"github.com/verte-zerg/wordwise/internal/store"
)

// Backend is the storage the server exposes. *store.Store satisfies it.
type Backend interface {
	ListQuestions(ctx context.Context, filter model.QuestionFilter) ([]model.Question, error)
	CountQuestions(ctx context.Context) (int, error)
	GetQuestion(ctx context.Context, id int64) (model.Question, error)
	CreateQuestion(ctx context.Context, q model.Question) (int64, error)
	UpdateQuestion(ctx context.Context, q model.Question) error
	DeleteQuestion(ctx context.Context, id int64) error

	InsertResult(ctx context.Context, snap model.Snapshot) (int64, error)
	GetResult(ctx context.Context, id int64) (model.Snapshot, error)
	ListResults(ctx context.Context, cfg model.HistoryConfig) ([]model.Snapshot, error)
	UpdateResult(ctx context.Context, snap model.Snapshot) error
	DeleteResult(ctx context.Context, id int64) error
}

// ServerOptions configures the router.
type ServerOptions struct {
	CORSOrigins []string
}

var defaultCORSOrigins = []string{"http://localhost:3000"}

// NewRouter builds the gin engine serving backend.
func NewRouter(backend Backend, opts ServerOptions) *gin.Engine {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept", "Origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := &handler{backend: backend}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	questions := r.Group("/api/questions")
	{
		questions.GET("", h.listQuestions)
		questions.POST("", h.createQuestion)
		questions.GET("/count", h.countQuestions)
		questions.GET("/:id", h.getQuestion)
		questions.PUT("/:id", h.updateQuestion)
		questions.DELETE("/:id", h.deleteQuestion)
	}

	results := r.Group("/api/results")
	{
		results.GET("", h.listResults)
		results.POST("", h.createResult)
		results.GET("/:id", h.getResult)
		results.PUT("/:id", h.updateResult)
		results.DELETE("/:id", h.deleteResult)
	}

	r.GET("/api/stats", h.userStats)
	return r
}

// Serve runs the router on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type handler struct {
	backend Backend
}

func (h *handler) listQuestions(c *gin.Context) {
	difficulty, err := model.ParseDifficulty(c.Query("difficulty"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	questions, err := h.backend.ListQuestions(c.Request.Context(), model.QuestionFilter{Difficulty: difficulty, Limit: limit})
	if err != nil {
		respondError(c, err)
		return
	}
	if questions == nil {
		questions = []model.Question{}
	}
	c.JSON(http.StatusOK, questions)
}

func (h *handler) countQuestions(c *gin.Context) {
	n, err := h.backend.CountQuestions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *handler) getQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	q, err := h.backend.GetQuestion(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *handler) createQuestion(c *gin.Context) {
	var q model.Question
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := q.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.backend.CreateQuestion(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	q.ID = id
	c.JSON(http.StatusCreated, q)
}

func (h *handler) updateQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var q model.Question
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q.ID = id
	if err := q.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.backend.UpdateQuestion(c.Request.Context(), q); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *handler) deleteQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.backend.DeleteQuestion(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listResults(c *gin.Context) {
	cfg, ok := historyQuery(c)
	if !ok {
		return
	}
	snaps, err := h.backend.ListResults(c.Request.Context(), cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	if snaps == nil {
		snaps = []model.Snapshot{}
	}
	c.JSON(http.StatusOK, snaps)
}

func (h *handler) getResult(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	snap, err := h.backend.GetResult(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *handler) createResult(c *gin.Context) {
	var snap model.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.backend.InsertResult(c.Request.Context(), snap)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *handler) updateResult(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var snap model.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap.ID = id
	if err := h.backend.UpdateResult(c.Request.Context(), snap); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *handler) deleteResult(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.backend.DeleteResult(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) userStats(c *gin.Context) {
	cfg, ok := historyQuery(c)
	if !ok {
		return
	}
	snaps, err := h.backend.ListResults(c.Request.Context(), cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats.Aggregate(snaps))
}

func historyQuery(c *gin.Context) (model.HistoryConfig, bool) {
	cfg := model.HistoryConfig{UserID: c.Query("user_id")}
	if raw := c.Query("difficulty"); raw != "" {
		d, err := model.ParseDifficulty(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return model.HistoryConfig{}, false
		}
		cfg.Difficulty = d
	}
	last, ok := queryInt(c, "last")
	if !ok {
		return model.HistoryConfig{}, false
	}
	cfg.Last = last
	return cfg, true
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return 0, false
	}
	return n, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
