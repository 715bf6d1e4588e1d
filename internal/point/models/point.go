package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	dErrors "donapoint/pkg/domain-errors"
)

// PointState tracks a donation point through the moderation workflow.
//
// Invariants:
//   - PENDING only occurs for points created by an organization
//   - RejectionReason is non-empty only while the state is REJECTED
//   - a point shows on the public map only when Active && State == ACTIVE
type PointState string

const (
	StatePending  PointState = "PENDING"
	StateActive   PointState = "ACTIVE"
	StateRejected PointState = "REJECTED"
)

var validStates = map[PointState]bool{
	StatePending:  true,
	StateActive:   true,
	StateRejected: true,
}

// ParsePointState constructs a PointState from external input.
func ParsePointState(s string) (PointState, error) {
	st := PointState(s)
	if !validStates[st] {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("invalid point state: %q", s))
	}
	return st, nil
}

func (s PointState) String() string { return string(s) }

// CreatorType identifies what kind of actor created a point. It governs both
// the initial moderation state and the deletion policy.
type CreatorType string

const (
	CreatorOrganization  CreatorType = "ORGANIZATION"
	CreatorAdministrator CreatorType = "ADMINISTRATOR"
)

var validCreatorTypes = map[CreatorType]bool{
	CreatorOrganization:  true,
	CreatorAdministrator: true,
}

// ParseCreatorType constructs a CreatorType from external input. Unknown
// values fail with a validation error rather than an uncategorized one.
func ParseCreatorType(s string) (CreatorType, error) {
	ct := CreatorType(s)
	if !validCreatorTypes[ct] {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("invalid creator type: %q", s))
	}
	return ct, nil
}

func (c CreatorType) String() string { return string(c) }

// DonationType is one accepted donation category.
type DonationType string

const (
	DonationClothing DonationType = "clothing"
	DonationGlass    DonationType = "glass"
	DonationPlastic  DonationType = "plastic"
	DonationPaper    DonationType = "paper"
	DonationOrganics DonationType = "organics"
	DonationOther    DonationType = "other"
)

var validDonationTypes = map[DonationType]bool{
	DonationClothing: true,
	DonationGlass:    true,
	DonationPlastic:  true,
	DonationPaper:    true,
	DonationOrganics: true,
	DonationOther:    true,
}

// ParseDonationType constructs a DonationType from external input.
func ParseDonationType(s string) (DonationType, error) {
	dt := DonationType(s)
	if !validDonationTypes[dt] {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("invalid donation type: %q", s))
	}
	return dt, nil
}

func (d DonationType) String() string { return string(d) }

// Point is the aggregate root for a physical donation drop-off location.
//
// CreatorID nil means the point was registered by an administrator directly.
// DonationTypes holds the serialized category set exactly as submitted by
// clients (a JSON array string in practice); the service only ever matches
// against it, never interprets it.
type Point struct {
	ID              uuid.UUID    `json:"id"`
	Name            string       `json:"name"`
	Address         string       `json:"address"`
	Latitude        float64      `json:"latitude"`
	Longitude       float64      `json:"longitude"`
	DonationTypes   string       `json:"donationTypes"`
	OpenTime        *TimeOfDay   `json:"openTime,omitempty"`
	CloseTime       *TimeOfDay   `json:"closeTime,omitempty"`
	Phone           *string      `json:"phone,omitempty"`
	Email           *string      `json:"email,omitempty"`
	Active          bool         `json:"active"`
	State           PointState   `json:"state"`
	CreatorID       *uuid.UUID   `json:"creatorId,omitempty"`
	CreatorType     CreatorType  `json:"creatorType,omitempty"`
	RejectionReason string       `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// OrganizationCreated reports whether the point is owned by an organization
// and therefore subject to moderation and the ownership checks.
func (p *Point) OrganizationCreated() bool {
	return p.CreatorType == CreatorOrganization
}

// VisibleOnMap reports whether the point belongs on the public map.
func (p *Point) VisibleOnMap() bool {
	return p.Active && p.State == StateActive
}
