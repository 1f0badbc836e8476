package dto

// SearchDoctorsRequest carries the raw form values of a doctor search.
// Sentinels are accepted as sent by the search form: rating "0" and
// specialty or max_distance "all" mean the filter is not set.
type SearchDoctorsRequest struct {
	Symptoms    string `json:"symptoms"`
	Location    string `json:"location"`
	Specialty   string `json:"specialty"`
	Rating      string `json:"rating"`
	Lat         string `json:"lat"`
	Lng         string `json:"lng"`
	MaxDistance string `json:"max_distance"`
	Sort        string `json:"sort"`
}

type SearchDoctorsResponse struct {
	Doctors  []DoctorResponse `json:"doctors"`
	Total    int              `json:"total"`
	Message  string           `json:"message"`
	Degraded bool             `json:"degraded"`
	Tier     string           `json:"tier"`
}
