package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/api"
	"github.com/dmitrijs2005/taskkeeper/internal/client/connectivity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportClient struct {
	statsCalls, exportCalls int
}

func (f *fakeReportClient) GetStats(ctx context.Context) (*api.GetStatsResponse, error) {
	f.statsCalls++
	return &api.GetStatsResponse{TotalLogins: 7, WeeklyLogins: 2}, nil
}

func (f *fakeReportClient) ExportTasks(ctx context.Context) (*api.ExportTasksResponse, error) {
	f.exportCalls++
	return &api.ExportTasksResponse{Key: "k", URL: "https://dl"}, nil
}

func TestReportService_Offline(t *testing.T) {
	fc := &fakeReportClient{}
	s := NewReportService(fc, connectivity.NewSwitch(false))

	_, err := s.LoginStats(context.Background())
	require.ErrorIs(t, err, ErrOffline)
	_, err = s.Export(context.Background())
	require.ErrorIs(t, err, ErrOffline)
	assert.Zero(t, fc.statsCalls+fc.exportCalls)
}

func TestReportService_Online(t *testing.T) {
	fc := &fakeReportClient{}
	s := NewReportService(fc, connectivity.NewSwitch(true))

	st, err := s.LoginStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 7, st.TotalLogins)

	ex, err := s.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://dl", ex.URL)
}
