package repository

import "stock-analyst-agent/internal/domain"

// Mock logger used by repository package tests.
type MockRepoLogger struct{}

func NewMockRepoLogger() domain.Logger {
	return &MockRepoLogger{}
}

func (l *MockRepoLogger) Info(msg string, fields ...interface{})             {}
func (l *MockRepoLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockRepoLogger) Debug(msg string, fields ...interface{})            {}
func (l *MockRepoLogger) Warn(msg string, fields ...interface{})             {}
