package dto

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// ValidationErrorResponse carries field-keyed messages for 400 responses.
type ValidationErrorResponse struct {
	Error   bool              `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// Page is the envelope for paginated list endpoints.
type Page struct {
	Count      int64       `json:"count"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int64       `json:"total_pages"`
	Results    interface{} `json:"results"`
}

func NewPage(results interface{}, count int64, page, limit int) Page {
	return Page{
		Count:      count,
		Page:       page,
		Limit:      limit,
		TotalPages: (count + int64(limit) - 1) / int64(limit),
		Results:    results,
	}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
