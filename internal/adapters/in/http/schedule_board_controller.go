package http

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/suchimauz/carwash-schedule-board/internal/adapters/out/session"
	"github.com/suchimauz/carwash-schedule-board/internal/config"
	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
	"github.com/suchimauz/carwash-schedule-board/internal/core/ports/in"
	"github.com/suchimauz/carwash-schedule-board/internal/core/ports/out"
	"github.com/suchimauz/carwash-schedule-board/internal/core/services/schedule_board_service"
)

type ScheduleBoardController struct {
	useCase in.ScheduleBoardUseCase
	session *session.SessionAdapter
	cfg     *config.Config
	logger  out.LoggerPort
}

func NewScheduleBoardController(
	useCase in.ScheduleBoardUseCase,
	sessionAdapter *session.SessionAdapter,
	cfg *config.Config,
	logger out.LoggerPort,
) *ScheduleBoardController {
	return &ScheduleBoardController{
		useCase: useCase,
		session: sessionAdapter,
		cfg:     cfg,
		logger:  logger,
	}
}

func (c *ScheduleBoardController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	api.Use(c.sessionHeaders())
	{
		api.GET("/board", c.getBoard)
		api.POST("/board/refresh", c.refreshBoard)
		api.GET("/board/slot", c.getSlot)

		api.POST("/board/drag", c.startDrag)
		api.POST("/board/drop", c.drop)

		api.POST("/board/wash-type", c.changeWashType)
		api.POST("/board/worker", c.changeWorker)
		api.DELETE("/board/task", c.deleteTask)

		api.POST("/board/week-pattern/:planId/just-today", c.weekPatternJustToday)
		api.POST("/board/week-pattern/:planId/apply", c.weekPatternApply)
		api.GET("/board/week-pattern/:planId/history", c.weekPatternHistory)

		api.GET("/customers/:customerId", c.getCustomer)
	}
}

func (c *ScheduleBoardController) getBoard(ctx *gin.Context) {
	stateByTask := make(map[string]domain.SaveState)
	for ref, state := range c.useCase.SaveStates() {
		stateByTask[ref.TaskID()] = state
	}

	ctx.JSON(http.StatusOK, gin.H{
		"appointments": c.useCase.Appointments(),
		"saveStates":   stateByTask,
	})
}

func (c *ScheduleBoardController) refreshBoard(ctx *gin.Context) {
	if err := c.useCase.RefreshBoard(ctx.Request.Context()); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"appointments": c.useCase.Appointments(),
	})
}

func (c *ScheduleBoardController) getSlot(ctx *gin.Context) {
	key := domain.SlotKey{
		WorkerID: ctx.Query("workerId"),
		Day:      domain.Day(ctx.Query("day")),
		Time:     ctx.Query("time"),
	}

	ctx.JSON(http.StatusOK, gin.H{
		"slot":         key,
		"appointments": c.useCase.SlotAppointments(key),
	})
}

type startDragRequest struct {
	CustomerID string     `json:"customerId" binding:"required"`
	Day        domain.Day `json:"day" binding:"required"`
	Time       string     `json:"time" binding:"required"`
	WorkerID   string     `json:"workerId" binding:"required"`
}

func (c *ScheduleBoardController) startDrag(ctx *gin.Context) {
	var req startDragRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.useCase.StartDrag(domain.GroupKey{
		CustomerID: req.CustomerID,
		Day:        req.Day,
		Time:       req.Time,
		WorkerID:   req.WorkerID,
	})

	ctx.JSON(http.StatusOK, gin.H{"status": "dragging"})
}

type dropRequest struct {
	Day        domain.Day `json:"day" binding:"required"`
	Time       string     `json:"time" binding:"required"`
	WorkerID   string     `json:"workerId" binding:"required"`
	WorkerName string     `json:"workerName"`
}

func (c *ScheduleBoardController) drop(ctx *gin.Context) {
	var req dropRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target := domain.SlotKey{
		WorkerID: req.WorkerID,
		Day:      req.Day,
		Time:     req.Time,
	}

	if err := c.useCase.Drop(ctx.Request.Context(), target, req.WorkerName); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"appointments": c.useCase.Appointments(),
	})
}

type taskRefRequest struct {
	CustomerID string     `json:"customerId" binding:"required"`
	Day        domain.Day `json:"day" binding:"required"`
	Time       string     `json:"time" binding:"required"`
	CarPlate   string     `json:"carPlate" binding:"required"`
}

func (r taskRefRequest) ref() domain.TaskRef {
	return domain.TaskRef{
		CustomerID: r.CustomerID,
		Day:        r.Day,
		Time:       r.Time,
		CarPlate:   r.CarPlate,
	}
}

type changeWashTypeRequest struct {
	taskRefRequest
	NewWashType domain.WashType `json:"newWashType" binding:"required"`
}

func (c *ScheduleBoardController) changeWashType(ctx *gin.Context) {
	var req changeWashTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := c.useCase.ChangeWashType(ctx.Request.Context(), req.ref(), req.NewWashType)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, outcome)
}

type changeWorkerRequest struct {
	taskRefRequest
	NewWorkerID   string `json:"newWorkerId" binding:"required"`
	NewWorkerName string `json:"newWorkerName" binding:"required"`
}

func (c *ScheduleBoardController) changeWorker(ctx *gin.Context) {
	var req changeWorkerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.useCase.ChangeWorker(ctx.Request.Context(), req.ref(), req.NewWorkerID, req.NewWorkerName); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type deleteTaskRequest struct {
	taskRefRequest
	// Удаление необратимо, фронт обязан явно подтвердить
	Confirmed bool `json:"confirmed"`
}

func (c *ScheduleBoardController) deleteTask(ctx *gin.Context) {
	var req deleteTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.Confirmed {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Deletion requires confirmation"})
		return
	}

	if err := c.useCase.DeleteTask(ctx.Request.Context(), req.ref()); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (c *ScheduleBoardController) weekPatternJustToday(ctx *gin.Context) {
	planID, err := uuid.Parse(ctx.Param("planId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan ID format"})
		return
	}

	if err := c.useCase.ConfirmJustToday(ctx.Request.Context(), planID); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type weekPatternApplyRequest struct {
	Selections []struct {
		taskRefRequest
		WashType domain.WashType `json:"washType" binding:"required"`
	} `json:"selections"`
}

func (c *ScheduleBoardController) weekPatternApply(ctx *gin.Context) {
	planID, err := uuid.Parse(ctx.Param("planId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan ID format"})
		return
	}

	var req weekPatternApplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	selections := make(map[domain.TaskRef]domain.WashType, len(req.Selections))
	for _, selection := range req.Selections {
		selections[selection.ref()] = selection.WashType
	}

	if err := c.useCase.ApplyWeekPattern(ctx.Request.Context(), planID, selections); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"appointments": c.useCase.Appointments(),
	})
}

func (c *ScheduleBoardController) weekPatternHistory(ctx *gin.Context) {
	planID, err := uuid.Parse(ctx.Param("planId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan ID format"})
		return
	}

	history, err := c.useCase.WeekPatternHistory(ctx.Request.Context(), planID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"history": history})
}

func (c *ScheduleBoardController) getCustomer(ctx *gin.Context) {
	customer, err := c.useCase.CustomerProfile(ctx.Request.Context(), ctx.Param("customerId"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, customer)
}

func (c *ScheduleBoardController) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, schedule_board_service.ErrPlanNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, out.ErrTimeout):
		// Таймаут отличаем от обычной сетевой ошибки
		ctx.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// sessionHeaders переопределяет сессию аудита заголовками запроса,
// если фронт их прислал
func (c *ScheduleBoardController) sessionHeaders() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetHeader("X-User-ID")
		userName := ctx.GetHeader("X-User-Name")
		if userID != "" {
			c.session.Set(domain.Session{
				UserID:   userID,
				UserName: userName,
			})
		}

		ctx.Next()
	}
}

func (c *ScheduleBoardController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1
			passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1
			if usernameMatch && passwordMatch {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
