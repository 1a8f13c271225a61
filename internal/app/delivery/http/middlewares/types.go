package middlewares

import (
	"radgate-service/internal/app/config"
	"radgate-service/internal/app/contracts"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Middlewares struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	SessionService contracts.SessionService
	Enforcer       *casbin.Enforcer
}

func NewMiddlewares(
	logger *zap.Logger,
	internalConfig *config.InternalConfig,
	sessionService contracts.SessionService,
	enforcer *casbin.Enforcer,
) *Middlewares {
	return &Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
		SessionService: sessionService,
		Enforcer:       enforcer,
	}
}
