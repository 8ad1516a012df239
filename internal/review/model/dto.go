package model

// SchemaResponse describes the registered criterion schemas to clients.
type SchemaResponse struct {
	Active  SchemaVersion `json:"active"`
	Schemas []Schema      `json:"schemas"`
}

// ReviewsResponse lists review records in submission order.
type ReviewsResponse struct {
	Reviews []ReviewRecord `json:"reviews"`
}
