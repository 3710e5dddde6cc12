package models

// POI is the normalized output record for any discovered location-bound item:
// a 311 service request, a ticketed event, or a news story.
type POI struct {
	Name         string  `json:"name"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Type         string  `json:"type"`
	Summary      string  `json:"summary"`
	Source       string  `json:"source"`
	Status       string  `json:"status,omitempty"`
	Ward         string  `json:"ward,omitempty"`
	PostalCode   string  `json:"postal_code,omitempty"`
	Division     string  `json:"division,omitempty"`
	Section      string  `json:"section,omitempty"`
	CreationDate string  `json:"creation_date,omitempty"`
	URL          string  `json:"url,omitempty"`
	StartDate    string  `json:"start_date,omitempty"`
}

// ServiceRequest is one parsed 311 row before POI assembly. Coordinate
// pointers are nil until resolved; everything else defaults to empty because
// source schemas vary city by city.
type ServiceRequest struct {
	ServiceType   string
	Status        string
	Latitude      *float64
	Longitude     *float64
	Ward          string
	PostalCode    string
	Intersection1 string
	Intersection2 string
	Division      string
	Section       string
	CreationDate  string
}

// HasCoordinates reports whether both coordinates were parsed from the source row.
func (s *ServiceRequest) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}
