package access

import (
	"context"
	"fmt"
	"radgate-service/internal/app/contracts"
	"radgate-service/internal/app/models"
	"radgate-service/internal/app/services/core/audit"
	"radgate-service/internal/app/services/core/users"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"
	"sort"
	"time"

	"go.uber.org/zap"
)

type accessUsecase struct {
	PatientRelationshipRepository PatientRelationshipRepository
	DoctorAssignmentRepository    DoctorAssignmentRepository
	FamilyAccessRepository        FamilyAccessRepository
	UserRepository                users.UserRepository
	AuditLogRepository            audit.AuditLogRepository
	CatalogClient                 contracts.ImagingCatalogClient
	EventPublisher                contracts.AccessEventPublisher
	Log                           *zap.Logger
}

func NewAccessUsecase(
	patientRelationshipMongoRepository PatientRelationshipRepository,
	doctorAssignmentMongoRepository DoctorAssignmentRepository,
	familyAccessMongoRepository FamilyAccessRepository,
	userMongoRepository users.UserRepository,
	auditLogMongoRepository audit.AuditLogRepository,
	catalogClient contracts.ImagingCatalogClient,
	eventPublisher contracts.AccessEventPublisher,
	logger *zap.Logger,
) AccessUsecase {
	return &accessUsecase{
		PatientRelationshipRepository: patientRelationshipMongoRepository,
		DoctorAssignmentRepository:    doctorAssignmentMongoRepository,
		FamilyAccessRepository:        familyAccessMongoRepository,
		UserRepository:                userMongoRepository,
		AuditLogRepository:            auditLogMongoRepository,
		CatalogClient:                 catalogClient,
		EventPublisher:                eventPublisher,
		Log:                           logger,
	}
}

// rankAccessLevel orders read < download < full. Unknown levels rank lowest
// so they can never win.
func rankAccessLevel(level string) int {
	switch level {
	case constvars.AccessLevelFull:
		return 3
	case constvars.AccessLevelDownload:
		return 2
	case constvars.AccessLevelRead:
		return 1
	default:
		return 0
	}
}

// CheckAccess walks the relationship paths in role order. When more than one
// path authorizes, the caller gets the highest level among them. Every call
// leaves exactly one audit entry, including denials for identifiers that do
// not resolve to anything.
func (uc *accessUsecase) CheckAccess(ctx context.Context, request *requests.CheckAccess) (*responses.AccessDecision, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("AccessUsecase.CheckAccess called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, request.UserID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	accessType := request.AccessType
	if accessType == "" {
		accessType = constvars.AccessTypeView
	}
	now := time.Now().UTC()

	user, err := uc.UserRepository.GetUserByID(ctx, request.UserID)
	if err != nil {
		return nil, uc.failClosed(ctx, request, accessType, err)
	}
	if user == nil {
		return uc.deny(ctx, request, accessType, "unknown user")
	}
	if !user.Active {
		return uc.deny(ctx, request, accessType, "user account deactivated")
	}

	// Staff roles authorize without any relationship lookup.
	switch user.Role {
	case constvars.RadgateRoleAdmin, constvars.RadgateRoleRadiologist, constvars.RadgateRoleTechnician:
		return uc.grant(ctx, request, accessType, constvars.AccessLevelFull,
			fmt.Sprintf("role %s grants full access", user.Role))
	}

	grantedLevel := ""
	grantedReason := ""

	if user.Role == constvars.RadgateRoleReferringDoctor {
		assignments, err := uc.DoctorAssignmentRepository.FindEffectiveByDoctorAndPatient(ctx, request.UserID, request.PatientID, now)
		if err != nil {
			return nil, uc.failClosed(ctx, request, accessType, err)
		}
		if len(assignments) > 0 {
			grantedLevel = constvars.AccessLevelRead
			grantedReason = fmt.Sprintf("active %s assignment", assignments[0].AssignmentType)
		}
	}

	if user.Role == constvars.RadgateRolePatient {
		if user.PatientID != "" && user.PatientID == request.PatientID {
			grantedLevel = constvars.AccessLevelFull
			grantedReason = "patient accessing own record"
		} else {
			familyRecords, err := uc.FamilyAccessRepository.FindVerifiedByParentAndChild(ctx, request.UserID, request.PatientID, now)
			if err != nil {
				return nil, uc.failClosed(ctx, request, accessType, err)
			}
			if len(familyRecords) > 0 {
				grantedLevel = constvars.AccessLevelRead
				grantedReason = fmt.Sprintf("verified family access (%s)", familyRecords[0].RelationshipKind)
			}
		}
	}

	// A direct grant can raise the level earned through a role relationship,
	// never lower it.
	grants, err := uc.PatientRelationshipRepository.FindEffectiveByUserAndPatient(ctx, request.UserID, request.PatientID, now)
	if err != nil {
		return nil, uc.failClosed(ctx, request, accessType, err)
	}
	for _, grantRecord := range grants {
		if rankAccessLevel(grantRecord.AccessLevel) > rankAccessLevel(grantedLevel) {
			grantedLevel = grantRecord.AccessLevel
			grantedReason = fmt.Sprintf("direct grant (%s)", grantRecord.AccessLevel)
		}
	}

	if grantedLevel == "" {
		return uc.deny(ctx, request, accessType, "no active relationship")
	}
	return uc.grant(ctx, request, accessType, grantedLevel, grantedReason)
}

// grant records the decision before reporting it. A decision that cannot be
// recorded does not stand.
func (uc *accessUsecase) grant(ctx context.Context, request *requests.CheckAccess, accessType, level, reason string) (*responses.AccessDecision, error) {
	err := uc.recordDecision(ctx, request, accessType, true, reason)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("AccessUsecase.CheckAccess succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingUserIDKey, request.UserID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		zap.String(constvars.LoggingOutcomeKey, "granted"),
		zap.String(constvars.LoggingAccessLevelKey, level),
	)
	return &responses.AccessDecision{
		UserID:      request.UserID,
		PatientID:   request.PatientID,
		Allowed:     true,
		AccessLevel: level,
	}, nil
}

func (uc *accessUsecase) deny(ctx context.Context, request *requests.CheckAccess, accessType, reason string) (*responses.AccessDecision, error) {
	err := uc.recordDecision(ctx, request, accessType, false, reason)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("AccessUsecase.CheckAccess succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingUserIDKey, request.UserID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		zap.String(constvars.LoggingOutcomeKey, "denied"),
		zap.String(constvars.LoggingDenyReasonKey, reason),
	)
	return &responses.AccessDecision{
		UserID:    request.UserID,
		PatientID: request.PatientID,
		Allowed:   false,
	}, nil
}

// failClosed surfaces a store failure as a denial on record plus the original
// error. The audit attempt here cannot fail the check twice over, so its own
// failure is only logged.
func (uc *accessUsecase) failClosed(ctx context.Context, request *requests.CheckAccess, accessType string, storeErr error) error {
	recordErr := uc.recordDecision(ctx, request, accessType, false, "authorization store unavailable")
	if recordErr != nil {
		uc.Log.Error("AccessUsecase.CheckAccess audit write failed",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingUserIDKey, request.UserID),
			zap.String(constvars.LoggingPatientIDKey, request.PatientID),
			zap.Error(recordErr),
		)
	}
	return storeErr
}

func (uc *accessUsecase) recordDecision(ctx context.Context, request *requests.CheckAccess, accessType string, granted bool, reason string) error {
	entry := &models.AccessAuditEntry{
		UserID:     request.UserID,
		PatientID:  request.PatientID,
		AccessType: accessType,
		Granted:    granted,
		Reason:     reason,
		IPAddress:  request.IPAddress,
		UserAgent:  request.UserAgent,
		RequestID:  utils.GetRequestID(ctx),
		CreatedAt:  time.Now().UTC(),
	}
	_, err := uc.AuditLogRepository.InsertEntry(ctx, entry)
	return err
}

func (uc *accessUsecase) GrantPatientAccess(ctx context.Context, actorUserID string, request *requests.GrantPatientAccess) (*responses.RelationshipRecord, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("AccessUsecase.GrantPatientAccess called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, request.UserID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		zap.String(constvars.LoggingAccessLevelKey, request.AccessLevel),
	)

	patientExists, err := uc.CatalogClient.PatientExists(ctx, request.PatientID)
	if err != nil {
		return nil, err
	}
	if !patientExists {
		return nil, exceptions.ErrPatientNotInCatalog(nil)
	}

	targetUser, err := uc.UserRepository.GetUserByID(ctx, request.UserID)
	if err != nil {
		return nil, err
	}
	if targetUser == nil {
		return nil, exceptions.ErrUserNotExist(nil)
	}

	expiresAt, err := parseExpiry(request.ExpiresAt)
	if err != nil {
		return nil, err
	}

	record := &models.PatientRelationship{
		UserID:      request.UserID,
		PatientID:   request.PatientID,
		AccessLevel: request.AccessLevel,
		GrantedBy:   actorUserID,
		Active:      true,
		ExpiresAt:   expiresAt,
	}
	record.SetCreatedAtUpdatedAt()

	updated, err := uc.PatientRelationshipRepository.UpsertGrant(ctx, record)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("AccessUsecase.GrantPatientAccess succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, updated.UserID),
		zap.String(constvars.LoggingPatientIDKey, updated.PatientID),
	)
	return buildDirectGrantResponse(updated), nil
}

func (uc *accessUsecase) AssignDoctor(ctx context.Context, actorUserID string, request *requests.AssignDoctor) (*responses.RelationshipRecord, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("AccessUsecase.AssignDoctor called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, request.DoctorUserID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	doctor, err := uc.UserRepository.GetUserByID(ctx, request.DoctorUserID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrUserNotExist(nil)
	}
	if doctor.Role != constvars.RadgateRoleReferringDoctor {
		return nil, exceptions.ErrNotReferringDoctor(nil)
	}

	patientExists, err := uc.CatalogClient.PatientExists(ctx, request.PatientID)
	if err != nil {
		return nil, err
	}
	if !patientExists {
		return nil, exceptions.ErrPatientNotInCatalog(nil)
	}

	expiresAt, err := parseExpiry(request.ExpiresAt)
	if err != nil {
		return nil, err
	}

	record := &models.DoctorAssignment{
		DoctorUserID:   request.DoctorUserID,
		PatientID:      request.PatientID,
		AssignmentType: request.AssignmentType,
		AssignedBy:     actorUserID,
		Active:         true,
		ExpiresAt:      expiresAt,
	}
	record.SetCreatedAtUpdatedAt()

	updated, err := uc.DoctorAssignmentRepository.UpsertAssignment(ctx, record)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("AccessUsecase.AssignDoctor succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, updated.DoctorUserID),
		zap.String(constvars.LoggingPatientIDKey, updated.PatientID),
	)
	return buildAssignmentResponse(updated), nil
}

func (uc *accessUsecase) GrantFamilyAccess(ctx context.Context, actorUserID string, request *requests.GrantFamilyAccess) (*responses.RelationshipRecord, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("AccessUsecase.GrantFamilyAccess called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, request.ParentUserID),
		zap.String(constvars.LoggingPatientIDKey, request.ChildPatientID),
	)

	parent, err := uc.UserRepository.GetUserByID(ctx, request.ParentUserID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, exceptions.ErrUserNotExist(nil)
	}

	patientExists, err := uc.CatalogClient.PatientExists(ctx, request.ChildPatientID)
	if err != nil {
		return nil, err
	}
	if !patientExists {
		return nil, exceptions.ErrPatientNotInCatalog(nil)
	}

	expiresAt, err := parseExpiry(request.ExpiresAt)
	if err != nil {
		return nil, err
	}

	record := &models.FamilyAccess{
		ParentUserID:     request.ParentUserID,
		ChildPatientID:   request.ChildPatientID,
		RelationshipKind: request.RelationshipKind,
		GrantedBy:        actorUserID,
		Active:           true,
		ExpiresAt:        expiresAt,
	}
	record.SetCreatedAtUpdatedAt()

	updated, err := uc.FamilyAccessRepository.UpsertFamilyAccess(ctx, record)
	if err != nil {
		return nil, err
	}

	uc.publishEvent(ctx, &models.AccessEvent{
		Type:      constvars.NotificationFamilyAccessPending,
		UserID:    updated.ParentUserID,
		PatientID: updated.ChildPatientID,
		RecordID:  updated.ID,
		Kind:      updated.RelationshipKind,
		Message:   fmt.Sprintf("%s relationship awaiting verification for patient %s", updated.RelationshipKind, updated.ChildPatientID),
	})

	uc.Log.Info("AccessUsecase.GrantFamilyAccess succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, updated.ParentUserID),
		zap.String(constvars.LoggingPatientIDKey, updated.ChildPatientID),
	)
	return buildFamilyAccessResponse(updated), nil
}

func (uc *accessUsecase) VerifyFamilyAccess(ctx context.Context, actorUserID, recordID string) (*responses.RelationshipRecord, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("AccessUsecase.VerifyFamilyAccess called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("record_id", recordID),
	)

	record, err := uc.FamilyAccessRepository.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, exceptions.ErrRelationRecordNotFound(nil)
	}

	// Verifying twice is a no-op; the first verifier stands.
	if record.Verified {
		return buildFamilyAccessResponse(record), nil
	}

	updated, err := uc.FamilyAccessRepository.MarkVerified(ctx, recordID, actorUserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, exceptions.ErrRelationRecordNotFound(nil)
	}

	uc.Log.Info("AccessUsecase.VerifyFamilyAccess succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, updated.ParentUserID),
		zap.String(constvars.LoggingPatientIDKey, updated.ChildPatientID),
	)
	return buildFamilyAccessResponse(updated), nil
}

func (uc *accessUsecase) RevokeAccess(ctx context.Context, actorUserID, relationKind, recordID string) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("AccessUsecase.RevokeAccess called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("relation_kind", relationKind),
		zap.String("record_id", recordID),
	)

	now := time.Now().UTC()
	event := &models.AccessEvent{
		Type:     constvars.NotificationAccessRevoked,
		RecordID: recordID,
		Kind:     relationKind,
	}

	switch relationKind {
	case constvars.RelationKindDirect:
		record, err := uc.PatientRelationshipRepository.FindByID(ctx, recordID)
		if err != nil {
			return err
		}
		if record == nil {
			return exceptions.ErrRelationRecordNotFound(nil)
		}
		// Revoking twice is a no-op.
		if !record.Active {
			return nil
		}
		err = uc.PatientRelationshipRepository.Deactivate(ctx, recordID, now)
		if err != nil {
			return err
		}
		event.UserID = record.UserID
		event.PatientID = record.PatientID

	case constvars.RelationKindDoctor:
		record, err := uc.DoctorAssignmentRepository.FindByID(ctx, recordID)
		if err != nil {
			return err
		}
		if record == nil {
			return exceptions.ErrRelationRecordNotFound(nil)
		}
		if !record.Active {
			return nil
		}
		err = uc.DoctorAssignmentRepository.Deactivate(ctx, recordID, now)
		if err != nil {
			return err
		}
		event.UserID = record.DoctorUserID
		event.PatientID = record.PatientID

	case constvars.RelationKindFamily:
		record, err := uc.FamilyAccessRepository.FindByID(ctx, recordID)
		if err != nil {
			return err
		}
		if record == nil {
			return exceptions.ErrRelationRecordNotFound(nil)
		}
		if !record.Active {
			return nil
		}
		err = uc.FamilyAccessRepository.Deactivate(ctx, recordID, now)
		if err != nil {
			return err
		}
		event.UserID = record.ParentUserID
		event.PatientID = record.ChildPatientID

	default:
		return exceptions.ErrUnknownRelationKind(nil)
	}

	event.Message = fmt.Sprintf("access revoked for user %s on patient %s", event.UserID, event.PatientID)
	uc.publishEvent(ctx, event)

	uc.Log.Info("AccessUsecase.RevokeAccess succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, event.UserID),
		zap.String(constvars.LoggingPatientIDKey, event.PatientID),
	)
	return nil
}

func (uc *accessUsecase) ListAccessiblePatients(ctx context.Context, userID string) (*responses.AccessiblePatients, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("AccessUsecase.ListAccessiblePatients called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID),
	)

	user, err := uc.UserRepository.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, exceptions.ErrUserNotExist(nil)
	}

	response := &responses.AccessiblePatients{
		UserID:             userID,
		UserRole:           user.Role,
		AccessiblePatients: []string{},
	}

	// Staff roles see everything, so there is no list to enumerate.
	switch user.Role {
	case constvars.RadgateRoleAdmin, constvars.RadgateRoleRadiologist, constvars.RadgateRoleTechnician:
		response.HasFullAccess = true
		return response, nil
	}

	now := time.Now().UTC()
	seen := make(map[string]bool)
	patientIDs := []string{}
	addPatient := func(patientID string) {
		if patientID == "" || seen[patientID] {
			return
		}
		seen[patientID] = true
		patientIDs = append(patientIDs, patientID)
	}

	if user.Role == constvars.RadgateRolePatient {
		addPatient(user.PatientID)

		familyRecords, err := uc.FamilyAccessRepository.FindVerifiedByParent(ctx, userID, now)
		if err != nil {
			return nil, err
		}
		for _, record := range familyRecords {
			addPatient(record.ChildPatientID)
		}
	}

	if user.Role == constvars.RadgateRoleReferringDoctor {
		assignments, err := uc.DoctorAssignmentRepository.FindEffectiveByDoctor(ctx, userID, now)
		if err != nil {
			return nil, err
		}
		for _, record := range assignments {
			addPatient(record.PatientID)
		}
	}

	grants, err := uc.PatientRelationshipRepository.FindEffectiveByUser(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	for _, record := range grants {
		addPatient(record.PatientID)
	}

	sort.Strings(patientIDs)
	response.AccessiblePatients = patientIDs
	response.PatientCount = len(patientIDs)

	uc.Log.Info("AccessUsecase.ListAccessiblePatients succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID),
		zap.Int("patient_count", response.PatientCount),
	)
	return response, nil
}

// publishEvent is best effort. A broker outage must not undo a mutation that
// already committed.
func (uc *accessUsecase) publishEvent(ctx context.Context, event *models.AccessEvent) {
	err := uc.EventPublisher.PublishAccessEvent(ctx, event)
	if err != nil {
		uc.Log.Warn("AccessUsecase event publish failed",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String("event_type", event.Type),
			zap.Error(err),
		)
	}
}

func parseExpiry(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, exceptions.ErrCannotParseTime(err)
	}
	parsed = parsed.UTC()
	return &parsed, nil
}

func buildDirectGrantResponse(record *models.PatientRelationship) *responses.RelationshipRecord {
	response := &responses.RelationshipRecord{
		ID:          record.ID,
		UserID:      record.UserID,
		PatientID:   record.PatientID,
		AccessLevel: record.AccessLevel,
		Active:      record.Active,
		CreatedBy:   record.GrantedBy,
		CreatedAt:   record.CreatedAt.UTC().Format(time.RFC3339),
	}
	if record.ExpiresAt != nil {
		response.ExpiresAt = record.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return response
}

func buildAssignmentResponse(record *models.DoctorAssignment) *responses.RelationshipRecord {
	response := &responses.RelationshipRecord{
		ID:        record.ID,
		UserID:    record.DoctorUserID,
		PatientID: record.PatientID,
		Kind:      record.AssignmentType,
		Active:    record.Active,
		CreatedBy: record.AssignedBy,
		CreatedAt: record.CreatedAt.UTC().Format(time.RFC3339),
	}
	if record.ExpiresAt != nil {
		response.ExpiresAt = record.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return response
}

func buildFamilyAccessResponse(record *models.FamilyAccess) *responses.RelationshipRecord {
	verified := record.Verified
	response := &responses.RelationshipRecord{
		ID:        record.ID,
		UserID:    record.ParentUserID,
		PatientID: record.ChildPatientID,
		Kind:      record.RelationshipKind,
		Verified:  &verified,
		Active:    record.Active,
		CreatedBy: record.GrantedBy,
		CreatedAt: record.CreatedAt.UTC().Format(time.RFC3339),
	}
	if record.ExpiresAt != nil {
		response.ExpiresAt = record.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return response
}
