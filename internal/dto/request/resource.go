package request

type CreateResourceRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type UpdateResourceRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Enabled *bool  `json:"enabled,omitempty"`
}
