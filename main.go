package main

import (
	"hub-crm-api/core/logger"
	"hub-crm-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
