package client

import (
	"context"

	"github.com/umerwe/school-frontend-sub001/internal/client/models"
)

// Executor performs exactly one outbound call and classifies its result.
// The credential is attached when it is not zero. Implementations do not
// retry and do not touch session state.
type Executor interface {
	Execute(ctx context.Context, req *models.Request, cred models.Credential) models.Outcome
}

// ExecutorFunc adapts a plain function to Executor.
type ExecutorFunc func(ctx context.Context, req *models.Request, cred models.Credential) models.Outcome

func (f ExecutorFunc) Execute(ctx context.Context, req *models.Request, cred models.Credential) models.Outcome {
	return f(ctx, req, cred)
}
