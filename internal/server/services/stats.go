package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

// Stats is what the dashboard shows: login analytics plus task counters.
type Stats struct {
	models.UserStats
	TotalTasks     int64
	CompletedTasks int64
}

type StatsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewStatsService(db *sql.DB, m repomanager.RepositoryManager) *StatsService {
	return &StatsService{db: db, repomanager: m}
}

// Get returns zero login counters for a user with no recorded login.
func (s *StatsService) Get(ctx context.Context, userID string) (*Stats, error) {
	res := &Stats{UserStats: models.UserStats{UserID: userID}}

	st, err := s.repomanager.Stats(s.db).Get(ctx, userID)
	switch {
	case err == nil:
		res.UserStats = *st
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error reading stats: %w", err)
	}

	res.TotalTasks, res.CompletedTasks, err = s.repomanager.Tasks(s.db).CountByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting tasks: %w", err)
	}
	return res, nil
}
