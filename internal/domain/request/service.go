package request

import "context"

type RequestService interface {
	Create(ctx context.Context, req CreateRequestRequest) (RequestResponse, error)
	Approve(ctx context.Context, req DecideRequestRequest) (RequestResponse, error)
	Reject(ctx context.Context, req DecideRequestRequest) (RequestResponse, error)
	List(ctx context.Context, filter RequestFilter) ([]RequestResponse, error)
}
