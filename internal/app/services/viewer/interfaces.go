package viewer

import (
	"context"
	"radgate-service/internal/app/models"
	"radgate-service/internal/pkg/dto/responses"
)

type ViewerUsecase interface {
	// ExchangeRelayToken turns a relay token into a viewer session. The token
	// is verified against the authorization service, never just decoded
	// locally, so a revoked session cannot complete the exchange.
	ExchangeRelayToken(ctx context.Context, relayToken string) (*models.Session, error)
	GetSession(ctx context.Context, session *models.Session) (*responses.ViewerSession, error)
	ListPatients(ctx context.Context, session *models.Session) ([]responses.CatalogPatient, error)
	ListStudies(ctx context.Context, session *models.Session, patientID string) ([]responses.CatalogStudy, error)
	Logout(ctx context.Context, sessionID string) error
}
