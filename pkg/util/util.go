package util

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateShortUUID 生成一个不带中划线的 32 位 ID，用作通知与提醒的业务主键
func GenerateShortUUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// ClampLimit 分页大小：非正数取默认值，超过上限截断
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
