package utils

import (
	"radgate-service/internal/pkg/dto/requests"
	"strings"
)

func SanitizeLoginRequest(input *requests.LoginUser) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Password = strings.TrimSpace(input.Password)
}

func SanitizeCreateUserRequest(input *requests.CreateUser) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	input.Role = strings.TrimSpace(input.Role)
	input.PatientID = strings.TrimSpace(input.PatientID)
}

func SanitizeGrantPatientAccessRequest(input *requests.GrantPatientAccess) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.PatientID = strings.TrimSpace(input.PatientID)
	input.AccessLevel = strings.TrimSpace(strings.ToLower(input.AccessLevel))
	input.ExpiresAt = strings.TrimSpace(input.ExpiresAt)
}

func SanitizeAssignDoctorRequest(input *requests.AssignDoctor) {
	input.DoctorUserID = strings.TrimSpace(input.DoctorUserID)
	input.PatientID = strings.TrimSpace(input.PatientID)
	input.AssignmentType = strings.TrimSpace(strings.ToLower(input.AssignmentType))
	input.ExpiresAt = strings.TrimSpace(input.ExpiresAt)
}

func SanitizeGrantFamilyAccessRequest(input *requests.GrantFamilyAccess) {
	input.ParentUserID = strings.TrimSpace(input.ParentUserID)
	input.ChildPatientID = strings.TrimSpace(input.ChildPatientID)
	input.RelationshipKind = strings.TrimSpace(strings.ToLower(input.RelationshipKind))
	input.ExpiresAt = strings.TrimSpace(input.ExpiresAt)
}

func SanitizeCheckAccessRequest(input *requests.CheckAccess) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.PatientID = strings.TrimSpace(input.PatientID)
	input.AccessType = strings.TrimSpace(strings.ToLower(input.AccessType))
}

func SanitizeCatalogSearchRequest(input *requests.CatalogSearch) {
	input.NameQuery = strings.TrimSpace(input.NameQuery)
}

func SanitizeRelayTokenExchangeRequest(input *requests.RelayTokenExchange) {
	input.Token = strings.TrimSpace(input.Token)
}
