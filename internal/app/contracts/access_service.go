package contracts

import (
	"context"
	"radgate-service/internal/pkg/dto/responses"
)

// AccessServiceClient is the viewer's line to the authorization service.
// Decisions are never made locally: the viewer asks on every sensitive fetch
// and treats any failure to get an answer as a denial.
type AccessServiceClient interface {
	VerifyRelayToken(ctx context.Context, relayToken string) (*responses.UserInfo, error)
	CheckAccess(ctx context.Context, userID, patientID, accessType string) (*responses.AccessDecision, error)
	ListAccessiblePatients(ctx context.Context, userID string) (*responses.AccessiblePatients, error)
}
