package service

import (
	"time"

	"ReviewHub/internal/modules/notification/domain/errs"
	"ReviewHub/pkg/xerr"
)

// Clock 便于测试注入固定时间
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// validationToCode 校验错误原文返回给前端，其余错误原样上抛
func validationToCode(err error) error {
	if ve, ok := errs.AsValidation(err); ok {
		return xerr.New(xerr.BadRequest, ve.Message)
	}
	return err
}
