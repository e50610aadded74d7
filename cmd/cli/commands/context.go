package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/mgrosjean/presentoir/internal/config"
	"github.com/mgrosjean/presentoir/pkg/core/eligibility"
	"github.com/mgrosjean/presentoir/pkg/core/services"
	"github.com/mgrosjean/presentoir/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg       *config.Config
	Database  db.Database
	Evaluator *eligibility.Evaluator
	Notifier  services.Notifier
	Clock     services.Clock
	Logger    *zap.Logger
	Ctx       context.Context
}
