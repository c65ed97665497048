// Package mocks implementaciones testify/mock de los puertos del caso de uso de reporte.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/cte-report/internal/domain/entity"
)

type MockMailSource struct {
	mock.Mock
}

func (m *MockMailSource) Fetch(ctx context.Context) ([]entity.Message, error) {
	args := m.Called(ctx)
	msgs, _ := args.Get(0).([]entity.Message)
	return msgs, args.Error(1)
}

func (m *MockMailSource) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockReportPublisher struct {
	mock.Mock
}

func (m *MockReportPublisher) Publish(ctx context.Context, filePath string) (string, error) {
	args := m.Called(ctx, filePath)
	return args.String(0), args.Error(1)
}

type MockReportWriter struct {
	mock.Mock
}

func (m *MockReportWriter) Write(path string, rows []entity.ReportRow) error {
	args := m.Called(path, rows)
	return args.Error(0)
}

type MockRunMetrics struct {
	mock.Mock
}

func (m *MockRunMetrics) ObserveAttachment(outcome string) {
	m.Called(outcome)
}

func (m *MockRunMetrics) SetRows(n int) {
	m.Called(n)
}

func (m *MockRunMetrics) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
