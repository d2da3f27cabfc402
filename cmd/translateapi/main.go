package main

import (
	"translateapi/internal/cli"
	logpkg "translateapi/internal/log"

	"github.com/joho/godotenv"
)

func main() {
	dotenvErr := godotenv.Load()

	logger := logpkg.CreateLogger()
	defer func() {
		if appLog, ok := logger.(*logpkg.AppLogger); ok {
			_ = appLog.Close()
		}
	}()

	if dotenvErr != nil {
		logger.Warn("No .env file found, using system environment variables")
	}

	if err := cli.Execute(logger); err != nil {
		logger.Fatal("%v", err)
	}
}
