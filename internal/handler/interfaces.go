package handler

import (
	"context"
	"io"

	"github.com/mtlprog/bison-admin/internal/model"
)

// BisonServicer defines the backend operations needed by the handlers.
type BisonServicer interface {
	Auth(ctx context.Context, code string) (*model.LoginInfo, error)
	Subscriptions(ctx context.Context, token string) (model.SubscribeResp, error)
	TargetName(ctx context.Context, token, platform, target string) (string, error)
	AddSubscription(ctx context.Context, token, group string, req model.AddSubscribeReq) error
}

// TemplateRenderer renders pages and partials.
type TemplateRenderer interface {
	Render(w io.Writer, name string, data any) error
	RenderFragment(w io.Writer, name string, data any) error
}
