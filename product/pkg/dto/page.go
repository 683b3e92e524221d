package dto

// Page is the pagination envelope for GET /api/products/paginated.
type Page struct {
	Content          []Product `json:"content"`
	TotalElements    int64     `json:"totalElements"`
	TotalPages       int       `json:"totalPages"`
	Number           int       `json:"number"`
	Size             int       `json:"size"`
	NumberOfElements int       `json:"numberOfElements"`
	First            bool      `json:"first"`
	Last             bool      `json:"last"`
	Empty            bool      `json:"empty"`
}
