package api

import (
	"context"

	"github.com/mtlprog/bison-admin/internal/model"
)

// subscriptionFetcher defines the backend access needed by the API.
type subscriptionFetcher interface {
	Subscriptions(ctx context.Context, token string) (model.SubscribeResp, error)
}

// sessionLookup resolves the login behind a request.
type sessionLookup interface {
	Login(id string) (model.LoginInfo, bool)
}
