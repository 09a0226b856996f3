package main

import (
	"os"

	"mess-app-go/pkg/logger"
)

func main() {
	log := logger.NewFromEnv()
	if err := newRootCommand(log).Execute(); err != nil {
		os.Exit(1)
	}
}
