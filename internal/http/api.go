package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"financehub/internal/query"
	"financehub/internal/service"
)

// Handler wires HTTP routes to the cached queries and the view pipeline.
type Handler struct {
	users        *query.Users
	transactions *query.Transactions
	metrics      http.Handler
	logger       logrus.FieldLogger
	now          func() time.Time
}

// NewHandler builds the route handler. metrics may be nil to leave /metrics
// unregistered.
func NewHandler(users *query.Users, transactions *query.Transactions, metrics http.Handler, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:        users,
		transactions: transactions,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		api.GET("/users", h.listUsers)
		api.POST("/users", h.createUser)
		api.GET("/users/:id", h.getUser)
		api.PATCH("/users/:id", h.updateUser)
		api.DELETE("/users/:id", h.deleteUser)

		api.GET("/transactions", h.listTransactions)
		api.POST("/transactions", h.createTransaction)
		api.GET("/transactions/export.csv", h.exportTransactions)
		api.GET("/transactions/categories", h.transactionCategories)
		api.GET("/transactions/:id", h.getTransaction)
		api.PATCH("/transactions/:id", h.updateTransaction)
		api.DELETE("/transactions/:id", h.deleteTransaction)
	}

	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.logger.WithFields(logrus.Fields{"method": c.Request.Method, "path": c.FullPath()}).Errorf("request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
