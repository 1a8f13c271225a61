package contracts

import (
	"context"
	"radgate-service/internal/pkg/dto/responses"
)

// ImagingCatalogClient reads patient and study metadata from the imaging
// service. Radgate holds no write path to the catalog; authorization state
// lives entirely on our side.
type ImagingCatalogClient interface {
	GetPatient(ctx context.Context, patientID string) (*responses.CatalogPatient, error)
	ListStudies(ctx context.Context, patientID string) ([]responses.CatalogStudy, error)
	SearchPatients(ctx context.Context, nameQuery string, limit int) ([]responses.CatalogPatient, error)
	PatientExists(ctx context.Context, patientID string) (bool, error)
}
