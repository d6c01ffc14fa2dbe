package handler

import (
	"ReviewHub/internal/modules/notification/application/dto/request"
	"ReviewHub/internal/modules/notification/application/service"
	"ReviewHub/internal/modules/notification/domain/preference"
	"ReviewHub/pkg/back"
	"ReviewHub/pkg/xerr"
	"ReviewHub/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type PreferenceHandler struct {
	svc service.PreferenceService
}

func NewPreferenceHandler(svc service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

func (h *PreferenceHandler) Get(c *gin.Context) {
	data, err := h.svc.Get(c.Request.Context(), c.GetString("uuid"))
	back.Result(c, data, err)
}

func (h *PreferenceHandler) Update(c *gin.Context) {
	var patch preference.Patch
	if err := c.BindJSON(&patch); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Update(c.Request.Context(), c.GetString("uuid"), patch)
	back.Result(c, data, err)
}

func (h *PreferenceHandler) Reset(c *gin.Context) {
	data, err := h.svc.Reset(c.Request.Context(), c.GetString("uuid"))
	back.Result(c, data, err)
}

func (h *PreferenceHandler) Check(c *gin.Context) {
	var req request.CheckPreferenceRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Check(c.Request.Context(), c.GetString("uuid"), req)
	back.Result(c, data, err)
}
