// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"io"
	"net/http"
	"rollingdice-go/internal/model"
	"rollingdice-go/internal/service"
	"rollingdice-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// DiceHandler 负责处理掷骰与出目履历相关的 API 请求。
type DiceHandler struct {
	diceService service.DiceService
}

// NewDiceHandler 创建一个新的 DiceHandler 实例。
func NewDiceHandler(diceService service.DiceService) *DiceHandler {
	return &DiceHandler{diceService: diceService}
}

// RollQuery 定义了掷骰 API 的查询参数，未传入的参数保持为 nil。
// sleep/loop 的上限是 service.MaxDurationSeconds。
type RollQuery struct {
	Sleep *int  `form:"sleep" binding:"omitempty,max=9223372036"`
	Loop  *int  `form:"loop" binding:"omitempty,max=9223372036"`
	Error *bool `form:"error"`
}

// RollDice 处理 GET|POST /api/dice/v1/roll。
// POST 时可在请求体中用 {"value": N} 指定出目。
func (h *DiceHandler) RollDice(c *gin.Context) {
	log.Op("DiceHandler.RollDice")

	var query RollQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		log.Warnf("RollDice: Invalid query parameters, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的查询参数：sleep/loop 必须是不超过 9223372036 的整数，error 必须是布尔值",
		})
		return
	}

	var body model.DiceValue
	if c.Request.Method == http.MethodPost {
		// 空请求体表示不指定出目
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			log.Warnf("RollDice: Invalid request payload, error: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    http.StatusBadRequest,
				"message": "无效的请求负载：value 必须是 1 到 6 之间的整数",
			})
			return
		}
	}

	value, err := h.diceService.RollDice(c.Request.Context(), service.RollRequest{
		Sleep: query.Sleep,
		Loop:  query.Loop,
		Error: query.Error,
		Value: body.Value,
	})
	if err != nil {
		h.writeRollError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewDiceValue(value))
}

func (h *DiceHandler) writeRollError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidValue), errors.Is(err, service.ErrInvalidDuration):
		log.Warnf("RollDice: Invalid parameter, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": err.Error(),
		})
	case errors.Is(err, service.ErrIntentional):
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Intentional error triggered by request parameter.",
		})
	case errors.Is(err, service.ErrInterrupted):
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "The roll was interrupted before it finished.",
		})
	default:
		log.Error("RollDice: Failed to roll dice", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "掷骰失败",
		})
	}
}

// ListDice 处理 GET /api/dice/v1/list，按 id 降序返回全部出目履历。
func (h *DiceHandler) ListDice(c *gin.Context) {
	log.Op("DiceHandler.ListDice")

	list, err := h.diceService.ListDice(c.Request.Context())
	if err != nil {
		log.Error("ListDice: Failed to list dice", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "获取出目履历失败",
		})
		return
	}

	history := make([]model.DiceHistory, 0, len(list))
	for _, d := range list {
		history = append(history, model.NewDiceHistory(d))
	}
	c.JSON(http.StatusOK, history)
}

// GetStats 处理 GET /api/dice/v1/stats。
func (h *DiceHandler) GetStats(c *gin.Context) {
	stats, err := h.diceService.GetStats(c.Request.Context())
	if err != nil {
		log.Error("GetStats: Failed to get roll stats", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "获取出目统计失败",
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Healthz 处理 GET /healthz。
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RegisterDiceRoutes 注册 webapi 的全部路由。
func RegisterDiceRoutes(r gin.IRouter, h *DiceHandler) {
	r.GET("/healthz", Healthz)

	dice := r.Group("/api/dice/v1")
	{
		dice.GET("/roll", h.RollDice)
		dice.POST("/roll", h.RollDice)
		dice.GET("/list", h.ListDice)
		dice.GET("/stats", h.GetStats)
	}
}
