package catalog

import (
	"context"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
)

// CatalogUsecase proxies catalog reads for authenticated callers. Detail
// reads run a full access check (and therefore leave an audit entry);
// search narrows the result set to what the caller could open anyway.
type CatalogUsecase interface {
	GetPatient(ctx context.Context, request *requests.CatalogPatientDetail) (*responses.CatalogPatient, error)
	ListStudies(ctx context.Context, request *requests.CatalogPatientDetail) ([]responses.CatalogStudy, error)
	SearchPatients(ctx context.Context, request *requests.CatalogSearch) ([]responses.CatalogPatient, error)
}
