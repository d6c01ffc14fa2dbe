package handler

import (
	"strconv"

	"ReviewHub/internal/modules/notification/application/dto/request"
	"ReviewHub/internal/modules/notification/application/service"
	"ReviewHub/pkg/back"
	"ReviewHub/pkg/util"
	"ReviewHub/pkg/xerr"
	"ReviewHub/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type ReminderHandler struct {
	svc service.ReminderService
}

func NewReminderHandler(svc service.ReminderService) *ReminderHandler {
	return &ReminderHandler{svc: svc}
}

func (h *ReminderHandler) Create(c *gin.Context) {
	var req request.CreateReminderRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Create(c.Request.Context(), c.GetString("uuid"), req)
	back.Result(c, data, err)
}

func (h *ReminderHandler) Get(c *gin.Context) {
	data, err := h.svc.Get(c.Request.Context(), c.GetString("uuid"), c.Param("id"))
	back.Result(c, data, err)
}

func (h *ReminderHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	limit = util.ClampLimit(limit, 50, 200)
	data, err := h.svc.List(c.Request.Context(), c.GetString("uuid"), limit)
	back.Result(c, data, err)
}

func (h *ReminderHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.GetString("uuid"), c.Param("id"))
	back.Result(c, nil, err)
}
