package transport

type ServiceResponse struct {
	ID          string  `json:"id"`
	CategoryID  string  `json:"categoryId"`
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName"`
	Description *string `json:"description,omitempty"`
	BasePrice   *string `json:"basePrice,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

type CategoryResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	DisplayName string            `json:"displayName"`
	Icon        *string           `json:"icon,omitempty"`
	Services    []ServiceResponse `json:"services"`
}

type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Total      int                `json:"total"`
}
