package models

// Warehouse is one covered district as listed in warehouses.json.
type Warehouse struct {
	Region      string   `json:"region"`
	District    string   `json:"district"`
	City        string   `json:"city"`
	CoveredArea []string `json:"covered_area"`
	Status      string   `json:"status"`
	Flowchart   string   `json:"flowchart,omitempty"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
}
