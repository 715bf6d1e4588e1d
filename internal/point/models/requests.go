package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "donapoint/pkg/domain-errors"
)

// CreatePointRequest carries the POST /points payload. Latitude and
// longitude are pointers so an absent coordinate is distinguishable from 0.
type CreatePointRequest struct {
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	DonationTypes string     `json:"donationTypes"`
	OpenTime      string     `json:"openTime"`
	CloseTime     string     `json:"closeTime"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	CreatorID     *uuid.UUID `json:"creatorId"`
	CreatorType   string     `json:"creatorType"`
}

// ToPoint validates the request and builds a new Point.
//
// Creator metadata is applied only when both creatorId and creatorType are
// supplied; a point created by an organization starts PENDING, anything else
// starts ACTIVE.
func (r *CreatePointRequest) ToPoint(id uuid.UUID, now time.Time) (*Point, error) {
	switch {
	case r.Name == "":
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	case r.Address == "":
		return nil, dErrors.New(dErrors.CodeValidation, "address is required")
	case r.Latitude == nil:
		return nil, dErrors.New(dErrors.CodeValidation, "latitude is required")
	case r.Longitude == nil:
		return nil, dErrors.New(dErrors.CodeValidation, "longitude is required")
	case r.DonationTypes == "":
		return nil, dErrors.New(dErrors.CodeValidation, "donationTypes is required")
	}

	p := &Point{
		ID:            id,
		Name:          r.Name,
		Address:       r.Address,
		Latitude:      *r.Latitude,
		Longitude:     *r.Longitude,
		DonationTypes: r.DonationTypes,
		Active:        true,
		State:         StateActive,
		CreatedAt:     now,
	}

	if r.OpenTime != "" {
		t, err := ParseTimeOfDay(r.OpenTime)
		if err != nil {
			return nil, err
		}
		p.OpenTime = &t
	}
	if r.CloseTime != "" {
		t, err := ParseTimeOfDay(r.CloseTime)
		if err != nil {
			return nil, err
		}
		p.CloseTime = &t
	}
	if r.Phone != "" {
		phone := r.Phone
		p.Phone = &phone
	}
	if r.Email != "" {
		email := r.Email
		p.Email = &email
	}

	if r.CreatorID != nil && r.CreatorType != "" {
		ct, err := ParseCreatorType(r.CreatorType)
		if err != nil {
			return nil, err
		}
		p.CreatorID = r.CreatorID
		p.CreatorType = ct
		if ct == CreatorOrganization {
			p.State = StatePending
		}
	}

	return p, nil
}

// UpdatePointRequest carries the PUT /points/{id} payload. The merge is
// sparse: only keys present in the JSON object are applied, and for the
// optional fields a present-but-null value clears the attribute. The struct
// therefore records key presence alongside the decoded values.
//
// The creatorId key is not merged onto the point; it identifies the
// requesting organization for the ownership check.
type UpdatePointRequest struct {
	keys map[string]struct{}

	Name          *string
	Address       *string
	Latitude      *float64
	Longitude     *float64
	DonationTypes *string
	OpenTime      *string
	CloseTime     *string
	Phone         *string
	Email         *string
	Active        json.RawMessage
	RequesterID   *uuid.UUID
}

func (r *UpdatePointRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.keys = make(map[string]struct{}, len(raw))
	for k := range raw {
		r.keys[k] = struct{}{}
	}

	strField := func(key string) (*string, error) {
		v, ok := raw[key]
		if !ok {
			return nil, nil
		}
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, dErrors.New(dErrors.CodeBadRequest, key+" must be a string")
		}
		return s, nil
	}

	var err error
	if r.Name, err = strField("name"); err != nil {
		return err
	}
	if r.Address, err = strField("address"); err != nil {
		return err
	}
	if r.DonationTypes, err = strField("donationTypes"); err != nil {
		return err
	}
	if r.OpenTime, err = strField("openTime"); err != nil {
		return err
	}
	if r.CloseTime, err = strField("closeTime"); err != nil {
		return err
	}
	if r.Phone, err = strField("phone"); err != nil {
		return err
	}
	if r.Email, err = strField("email"); err != nil {
		return err
	}

	if v, ok := raw["latitude"]; ok {
		if err := json.Unmarshal(v, &r.Latitude); err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "latitude must be a number")
		}
	}
	if v, ok := raw["longitude"]; ok {
		if err := json.Unmarshal(v, &r.Longitude); err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "longitude must be a number")
		}
	}
	if v, ok := raw["active"]; ok {
		r.Active = v
	}
	if v, ok := raw["creatorId"]; ok {
		if err := json.Unmarshal(v, &r.RequesterID); err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "creatorId must be a UUID")
		}
	}

	return nil
}

// Has reports whether the given key appeared in the payload.
func (r *UpdatePointRequest) Has(key string) bool {
	_, ok := r.keys[key]
	return ok
}

// FieldCount returns the number of keys in the payload. The moderation
// workflow uses it to decide whether an edit to a rejected point is more
// than a visibility toggle.
func (r *UpdatePointRequest) FieldCount() int {
	return len(r.keys)
}

// Apply merges the present fields onto p. Required fields ignore nulls;
// optional fields (phone, email, schedule) are cleared by a present null,
// and an empty string clears a schedule field too.
func (r *UpdatePointRequest) Apply(p *Point) error {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Address != nil {
		p.Address = *r.Address
	}
	if r.Latitude != nil {
		p.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		p.Longitude = *r.Longitude
	}
	if r.DonationTypes != nil {
		p.DonationTypes = *r.DonationTypes
	}
	if r.Has("phone") {
		p.Phone = r.Phone
	}
	if r.Has("email") {
		p.Email = r.Email
	}
	if r.Has("openTime") {
		t, err := applyTimeField(r.OpenTime)
		if err != nil {
			return err
		}
		p.OpenTime = t
	}
	if r.Has("closeTime") {
		t, err := applyTimeField(r.CloseTime)
		if err != nil {
			return err
		}
		p.CloseTime = t
	}
	if active := NormalizeActive(r.Active); active != nil {
		p.Active = *active
	}
	return nil
}

func applyTimeField(v *string) (*TimeOfDay, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := ParseTimeOfDay(*v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// NormalizeActive coerces the heterogeneous representations of the active
// flag into a boolean. Accepted forms:
//   - JSON boolean literal
//   - string: "true" (case-insensitive) is true, any other string is false
//   - number: 0 is false, anything else is true
//
// Anything else (absent, null, objects, arrays) returns nil and the caller
// keeps the previous value.
func NormalizeActive(raw json.RawMessage) *bool {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return &b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v := strings.EqualFold(s, "true")
		return &v
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		v := n != 0
		return &v
	}
	return nil
}

// RejectPointRequest carries the POST /points/{id}/reject payload.
type RejectPointRequest struct {
	Reason string `json:"rejectionReason"`
}

// ParseAllFlag interprets the "all" query parameter of GET /points. Both
// "true" (case-insensitive) and "1" request the unfiltered listing.
func ParseAllFlag(s string) bool {
	if s == "" {
		return false
	}
	return strings.EqualFold(s, "true") || s == "1"
}
