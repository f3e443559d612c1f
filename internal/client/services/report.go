package services

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/api"
	"github.com/dmitrijs2005/taskkeeper/internal/client/connectivity"
)

// ReportClient is the server API behind ReportService.
type ReportClient interface {
	GetStats(ctx context.Context) (*api.GetStatsResponse, error)
	ExportTasks(ctx context.Context) (*api.ExportTasksResponse, error)
}

// ReportService fetches server-side reports. Both calls need a connection.
type ReportService struct {
	client ReportClient
	signal connectivity.Signal
}

func NewReportService(client ReportClient, signal connectivity.Signal) *ReportService {
	return &ReportService{client: client, signal: signal}
}

// LoginStats returns login analytics and server task counters.
func (s *ReportService) LoginStats(ctx context.Context) (*api.GetStatsResponse, error) {
	if !s.signal.IsOnline() {
		return nil, ErrOffline
	}
	return s.client.GetStats(ctx)
}

// Export asks the server to snapshot the user's tasks and returns a
// temporary download link.
func (s *ReportService) Export(ctx context.Context) (*api.ExportTasksResponse, error) {
	if !s.signal.IsOnline() {
		return nil, ErrOffline
	}
	return s.client.ExportTasks(ctx)
}
