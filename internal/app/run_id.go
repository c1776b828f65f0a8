package app

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// GenerateRunID 生成本次运行的 ID，写入每条日志。
// 优先使用环境变量 UCG_RUN_ID，否则生成 {tool}-{hostname}-{uuid 前 8 位}
func GenerateRunID(tool string) string {
	if id := os.Getenv("UCG_RUN_ID"); id != "" {
		return id
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	shortUUID := uuid.New().String()[:8]
	return fmt.Sprintf("%s-%s-%s", tool, hostname, shortUUID)
}
