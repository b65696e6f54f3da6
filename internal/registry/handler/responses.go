package handler

import "terraspark/internal/registry/models"

// List envelopes; single records are serialized from the models directly.

type creditListResponse struct {
	Credits []*models.Credit `json:"credits"`
}

type facilityListResponse struct {
	Facilities []*models.Facility `json:"facilities"`
}
