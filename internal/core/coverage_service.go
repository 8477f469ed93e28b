package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"profast-backend-go/internal/models"
)

type coverageService struct {
	divisionsRaw  []byte
	warehousesRaw []byte
	divisions     []string
	warehouses    []models.Warehouse
	regions       map[string]bool
}

// NewCoverageService parses the division and warehouse files.
func NewCoverageService(divisionsJSON, warehousesJSON []byte) (CoverageService, error) {
	s := &coverageService{
		divisionsRaw:  divisionsJSON,
		warehousesRaw: warehousesJSON,
		regions:       make(map[string]bool),
	}
	if err := json.Unmarshal(divisionsJSON, &s.divisions); err != nil {
		return nil, fmt.Errorf("parse divisions: %w", err)
	}
	if err := json.Unmarshal(warehousesJSON, &s.warehouses); err != nil {
		return nil, fmt.Errorf("parse warehouses: %w", err)
	}
	for _, d := range s.divisions {
		s.regions[d] = true
	}
	return s, nil
}

func (s *coverageService) DivisionsJSON() []byte  { return s.divisionsRaw }
func (s *coverageService) WarehousesJSON() []byte { return s.warehousesRaw }

func (s *coverageService) Divisions() []string {
	out := make([]string, len(s.divisions))
	copy(out, s.divisions)
	return out
}

// Search matches query against district names, ignoring case. An empty
// query returns every warehouse.
func (s *coverageService) Search(query string) []models.Warehouse {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Warehouse, 0)
	for _, w := range s.warehouses {
		if q == "" || strings.Contains(strings.ToLower(w.District), q) {
			out = append(out, w)
		}
	}
	return out
}

func (s *coverageService) HasRegion(region string) bool { return s.regions[region] }

func (s *coverageService) HasWarehouse(region, name string) bool {
	for _, w := range s.warehouses {
		if w.Region == region && (w.City == name || w.District == name) {
			return true
		}
	}
	return false
}
