package client

import (
	"errors"

	"doctrack/pkg/logger"

	"go.uber.org/zap"
)

// Notifier shows short-lived messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// LogNotifier writes notifications to the application logger.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) { logger.Log.Info(msg, zap.String("kind", "success")) }
func (LogNotifier) Error(msg string)   { logger.Log.Warn(msg, zap.String("kind", "error")) }
func (LogNotifier) Info(msg string)    { logger.Log.Info(msg, zap.String("kind", "info")) }

func errorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
