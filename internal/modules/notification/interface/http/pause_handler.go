package handler

import (
	"ReviewHub/internal/modules/notification/application/dto/request"
	"ReviewHub/internal/modules/notification/application/dto/respond"
	"ReviewHub/internal/modules/notification/application/service"
	"ReviewHub/pkg/back"
	"ReviewHub/pkg/xerr"
	"ReviewHub/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type PauseHandler struct {
	svc service.PauseService
}

func NewPauseHandler(svc service.PauseService) *PauseHandler {
	return &PauseHandler{svc: svc}
}

func (h *PauseHandler) Status(c *gin.Context) {
	data, err := h.svc.Status(c.Request.Context(), c.GetString("uuid"))
	back.Result(c, data, err)
}

func (h *PauseHandler) Pause(c *gin.Context) {
	var req request.PauseRequest
	// 空 body 表示立即开始的无限期暂停
	if c.Request.ContentLength != 0 {
		if err := c.BindJSON(&req); err != nil {
			zlog.Error(err.Error())
			back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
			return
		}
	}
	uuid := c.GetString("uuid")
	if _, err := h.svc.Pause(c.Request.Context(), uuid, req); err != nil {
		back.Result(c, nil, err)
		return
	}
	data, err := h.svc.Status(c.Request.Context(), uuid)
	back.Result(c, data, err)
}

func (h *PauseHandler) Resume(c *gin.Context) {
	uuid := c.GetString("uuid")
	_, resumed, err := h.svc.Resume(c.Request.Context(), uuid)
	if err != nil {
		back.Result(c, nil, err)
		return
	}
	status, err := h.svc.Status(c.Request.Context(), uuid)
	back.Result(c, &respond.ResumeRespond{Resumed: resumed, Status: status}, err)
}
