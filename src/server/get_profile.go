package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"afvalprofiel/src/domain"
	"afvalprofiel/src/domain/entities"
)

func (s *Server) GetProfileByBSN(w http.ResponseWriter, r *http.Request) {
	nationalID := r.PathValue("bsn")
	if nationalID == "" {
		http.Error(w, "BSN is required", http.StatusBadRequest)
		return
	}

	filter, err := parseProfileFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := s.profileService.GetProfile(r.Context(), nationalID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrCitizenNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		s.logger.Error("Failed to get profile", "bsn", nationalID, "error", err)

		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	profileDTO := MapProfileToResponse(profile)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(profileDTO); err != nil {
		s.logger.Error("Failed to write JSON response", "error", err)
	}
}

// parseProfileFilter valida os query params opcionais da consulta.
// Datas no formato YYYY-MM-DD, waste-type restrito ao enum.
func parseProfileFilter(r *http.Request) (domain.ProfileFilter, error) {
	var filter domain.ProfileFilter

	query := r.URL.Query()

	if rawWasteType := query.Get("waste-type"); rawWasteType != "" {
		wasteType := entities.WasteType(rawWasteType)
		if wasteType != entities.WasteTypeOrganic && wasteType != entities.WasteTypeResidual {
			return filter, fmt.Errorf("invalid waste-type %q, expected organic or residual", rawWasteType)
		}
		filter.WasteType = wasteType
	}

	for _, address := range query["address"] {
		if address != "" {
			filter.Addresses = append(filter.Addresses, address)
		}
	}

	if rawStart := query.Get("start-date"); rawStart != "" {
		startDate, err := time.ParseInLocation("2006-01-02", rawStart, time.UTC)
		if err != nil {
			return filter, fmt.Errorf("invalid start-date %q, expected YYYY-MM-DD", rawStart)
		}
		filter.StartDate = &startDate
	}

	if rawEnd := query.Get("end-date"); rawEnd != "" {
		endDate, err := time.ParseInLocation("2006-01-02", rawEnd, time.UTC)
		if err != nil {
			return filter, fmt.Errorf("invalid end-date %q, expected YYYY-MM-DD", rawEnd)
		}
		filter.EndDate = &endDate
	}

	return filter, nil
}
