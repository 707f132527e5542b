package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/stripekit/internal/constants"
	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

// resourcePath joins escaped path segments under the API prefix.
func resourcePath(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}

	return constants.APIPathPrefix + "/" + strings.Join(escaped, "/")
}

// requireIDs fails with ErrIDRequired when any id is empty.
func requireIDs(ids ...string) error {
	for _, id := range ids {
		if id == "" {
			return ErrIDRequired
		}
	}

	return nil
}

func get[T any](ctx context.Context, handler *stripe.APIHandler, path string, query *stripe.Params, opts []stripe.RequestOption) (*T, error) {
	spec, err := stripe.GetRequest(path, query)
	if err != nil {
		return nil, err
	}

	return stripe.Send[T](ctx, handler, spec.WithOptions(opts...))
}

func post[T any](ctx context.Context, handler *stripe.APIHandler, path string, body *stripe.Params, opts []stripe.RequestOption) (*T, error) {
	spec, err := stripe.PostRequest(path, body)
	if err != nil {
		return nil, err
	}

	return stripe.Send[T](ctx, handler, spec.WithOptions(opts...))
}

func del[T any](ctx context.Context, handler *stripe.APIHandler, path string, opts []stripe.RequestOption) (*T, error) {
	spec, err := stripe.DeleteRequest(path, nil)
	if err != nil {
		return nil, err
	}

	return stripe.Send[T](ctx, handler, spec.WithOptions(opts...))
}
