package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/viant/vacation/fault"
	"github.com/viant/vacation/ledger"
	"github.com/viant/vacation/model"
	"github.com/viant/vacation/occupancy"
)

// ActorHeader carries the id of the acting user.
const ActorHeader = "X-Actor-ID"

// Service is the part of vacation.Service used by the handlers.
type Service interface {
	Submit(ctx context.Context, actorID string, rng model.Range) (*model.Request, error)
	Approve(ctx context.Context, requestID, actorID string, acknowledge bool) (*model.Request, error)
	Reject(ctx context.Context, requestID, actorID, reason string) (*model.Request, error)
	Cancel(ctx context.Context, requestID, actorID string) (*model.Request, error)
	List(ctx context.Context, actorID string, filter *model.Filter) ([]*model.Request, error)
	Allowance(ctx context.Context, actorID, userID string, year int) (*ledger.Record, error)
	SetAllowance(ctx context.Context, actorID, userID string, year, total int) (*ledger.Record, error)
	Occupancy(ctx context.Context, actorID, teamID string, rng model.Range) (*occupancy.Snapshot, error)
}

type (
	SubmitRequest struct {
		Start model.Date `json:"start"`
		End   model.Date `json:"end"`
	}

	ApproveRequest struct {
		AcknowledgeThresholdWarning bool `json:"acknowledgeThresholdWarning"`
	}

	RejectRequest struct {
		Reason string `json:"reason"`
	}

	AllowanceRequest struct {
		Total int `json:"total"`
	}
)

// Handler serves the vacation API.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// NewRouter returns a gin engine with the API routes, request logging and a health check.
func NewRouter(service Service, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(Logger(logger))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	NewHandler(service).Register(router)
	return router
}

// Register adds the API routes to router.
func (h *Handler) Register(router gin.IRouter) {
	requests := router.Group("/requests")
	{
		requests.POST("", h.Submit)
		requests.GET("", h.List)
		requests.POST("/:id/approve", h.Approve)
		requests.POST("/:id/reject", h.Reject)
		requests.POST("/:id/cancel", h.Cancel)
	}
	router.GET("/allowances/:user/:year", h.Allowance)
	router.PUT("/allowances/:user/:year", h.SetAllowance)
	router.GET("/teams/:team/occupancy", h.Occupancy)
}

// Submit creates a request for the acting user.
// POST /requests
func (h *Handler) Submit(c *gin.Context) {
	var body SubmitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, fault.New(fault.Validation, "submit", "invalid body: %v", err))
		return
	}
	if body.Start.IsZero() || body.End.IsZero() {
		h.fail(c, fault.New(fault.Validation, "submit", "start and end are required"))
		return
	}
	ret, err := h.service.Submit(c.Request.Context(), c.GetHeader(ActorHeader), model.NewRange(body.Start, body.End))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ret)
}

// List returns requests filtered by userId, teamId and status query parameters.
// GET /requests
func (h *Handler) List(c *gin.Context) {
	filter := &model.Filter{UserID: c.Query("userId"), TeamID: c.Query("teamId")}
	for _, status := range c.QueryArray("status") {
		filter.Statuses = append(filter.Statuses, model.Status(status))
	}
	ret, err := h.service.List(c.Request.Context(), c.GetHeader(ActorHeader), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ret)
}

// Approve approves a request.
// POST /requests/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	var body ApproveRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.fail(c, fault.New(fault.Validation, "approve", "invalid body: %v", err))
			return
		}
	}
	ret, err := h.service.Approve(c.Request.Context(), c.Param("id"), c.GetHeader(ActorHeader), body.AcknowledgeThresholdWarning)
	h.respond(c, ret, err)
}

// Reject rejects a request.
// POST /requests/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	var body RejectRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, fault.New(fault.Validation, "reject", "invalid body: %v", err))
		return
	}
	ret, err := h.service.Reject(c.Request.Context(), c.Param("id"), c.GetHeader(ActorHeader), body.Reason)
	h.respond(c, ret, err)
}

// Cancel cancels the actor's own request.
// POST /requests/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	ret, err := h.service.Cancel(c.Request.Context(), c.Param("id"), c.GetHeader(ActorHeader))
	h.respond(c, ret, err)
}

// Allowance returns an allowance record.
// GET /allowances/:user/:year
func (h *Handler) Allowance(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.fail(c, fault.New(fault.Validation, "allowance", "invalid year %q", c.Param("year")))
		return
	}
	ret, err := h.service.Allowance(c.Request.Context(), c.GetHeader(ActorHeader), c.Param("user"), year)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, allowanceView(ret))
}

// SetAllowance overrides an annual quota.
// PUT /allowances/:user/:year
func (h *Handler) SetAllowance(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.fail(c, fault.New(fault.Validation, "set-allowance", "invalid year %q", c.Param("year")))
		return
	}
	var body AllowanceRequest
	if err = c.ShouldBindJSON(&body); err != nil {
		h.fail(c, fault.New(fault.Validation, "set-allowance", "invalid body: %v", err))
		return
	}
	ret, err := h.service.SetAllowance(c.Request.Context(), c.GetHeader(ActorHeader), c.Param("user"), year, body.Total)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, allowanceView(ret))
}

// Occupancy returns the approved team occupancy between the start and end query dates.
// GET /teams/:team/occupancy
func (h *Handler) Occupancy(c *gin.Context) {
	start, err := model.ParseDate(c.Query("start"))
	if err != nil {
		h.fail(c, fault.New(fault.Validation, "occupancy", "%v", err))
		return
	}
	end, err := model.ParseDate(c.Query("end"))
	if err != nil {
		h.fail(c, fault.New(fault.Validation, "occupancy", "%v", err))
		return
	}
	ret, err := h.service.Occupancy(c.Request.Context(), c.GetHeader(ActorHeader), c.Param("team"), model.NewRange(start, end))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ret)
}

func (h *Handler) respond(c *gin.Context, ret *model.Request, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ret)
}

func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status, body := errorResponse(err)
	c.AbortWithStatusJSON(status, body)
}

type allowance struct {
	UserID    string `json:"userId"`
	Year      int    `json:"year"`
	Total     int    `json:"total"`
	Consumed  int    `json:"consumed"`
	Remaining int    `json:"remaining"`
}

func allowanceView(r *ledger.Record) *allowance {
	return &allowance{UserID: r.UserID, Year: r.Year, Total: r.Total, Consumed: r.Consumed, Remaining: r.Remaining()}
}
