package utils

import (
	"context"

	"github.com/buildbooks/buildbooks_backend/appctx"
)

var (
	ContextKeyProjectId     = appctx.ContextKeyProjectId
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
)

func GetProjectIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyProjectId)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetProjectIdInContext(ctx context.Context, projectId string) context.Context {
	return appctx.Set(ctx, ContextKeyProjectId, projectId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}
