package model

import (
	"strings"

	"doctrack/pkg/apperror"
	"doctrack/store"
)

// DocumentRequest is the body of create and update calls.
type DocumentRequest struct {
	UserID       string `json:"userId"`
	PersonelName string `json:"personelName"`
	Name         string `json:"name"`
	StartDate    int64  `json:"startDate"` // epoch millis
	EndDate      int64  `json:"endDate"`   // epoch millis
}

func (r DocumentRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.UserID) == "":
		return apperror.Validation("User ID is required")
	case strings.TrimSpace(r.PersonelName) == "":
		return apperror.Validation("Personel name is required")
	case strings.TrimSpace(r.Name) == "":
		return apperror.Validation("Document name is required")
	case r.StartDate <= 0:
		return apperror.Validation("Start date is required")
	case r.EndDate <= 0:
		return apperror.Validation("End date is required")
	case r.EndDate <= r.StartDate:
		return apperror.Validation("End date must be after start date")
	}
	return nil
}

// Document builds the stored record for id.
func (r DocumentRequest) Document(id string) store.Document {
	return store.Document{
		ID:           id,
		UserID:       r.UserID,
		PersonelName: r.PersonelName,
		Name:         r.Name,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
	}
}

type DeleteDocRequest struct {
	UserID string `json:"userId"`
}

type DeleteDocResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
