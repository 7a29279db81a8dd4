package server

import (
	"context"

	"github.com/vanshika/foodiefusion/internal/graphql"
)

// HealthService defines behaviour for readiness checks.
type HealthService interface {
	Probe(ctx context.Context) error
}

// CMSHealthService verifies the GraphQL endpoint answers as part of health checks.
type CMSHealthService struct {
	Client graphql.Client
}

// Probe implements the HealthService interface.
func (s CMSHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}
