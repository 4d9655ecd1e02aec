package main

import (
	"github.com/mural-social/mural/internal/app/server"
	"github.com/mural-social/mural/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	logging.Fatal("Relationship server exited: ", zap.Error(
		server.NewServer().Start(),
	))
}
