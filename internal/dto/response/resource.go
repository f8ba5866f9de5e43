package response

import (
	"time"

	"appointment-booking/internal/data/entity"
)

type ResourceResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

func ResourceToResponse(resource *entity.Resource) ResourceResponse {
	return ResourceResponse{
		ID:        resource.ID.String(),
		Name:      resource.Name,
		Enabled:   resource.Enabled,
		CreatedAt: resource.CreatedAt,
	}
}

func ResourcesToResponse(resources []*entity.Resource) []ResourceResponse {
	responses := make([]ResourceResponse, 0, len(resources))
	for _, resource := range resources {
		responses = append(responses, ResourceToResponse(resource))
	}
	return responses
}
