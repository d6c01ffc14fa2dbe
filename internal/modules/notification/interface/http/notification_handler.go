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

type NotificationHandler struct {
	svc service.DispatchService
}

func NewNotificationHandler(svc service.DispatchService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// Submit 用户给自己投递通知，请求体中的 userId 被忽略
func (h *NotificationHandler) Submit(c *gin.Context) {
	var req request.SubmitNotificationRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	req.UserId = c.GetString("uuid")
	data, err := h.svc.Submit(c.Request.Context(), req)
	back.Result(c, data, err)
}

// SubmitForUser 受信任的业务服务为任意用户投递通知，只挂在服务令牌鉴权的路由组下
func (h *NotificationHandler) SubmitForUser(c *gin.Context) {
	var req request.SubmitNotificationRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Submit(c.Request.Context(), req)
	back.Result(c, data, err)
}

func (h *NotificationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	limit = util.ClampLimit(limit, 50, 200)
	data, err := h.svc.List(c.Request.Context(), c.GetString("uuid"), limit)
	back.Result(c, data, err)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req request.MarkReadRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	err := h.svc.MarkRead(c.Request.Context(), c.GetString("uuid"), req.NotificationId)
	back.Result(c, nil, err)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n, err := h.svc.UnreadCount(c.Request.Context(), c.GetString("uuid"))
	back.Result(c, gin.H{"unread": n}, err)
}
