// Package stripeclient provides the primary entry point for constructing a
// payments API client that implements the stripe.Client interface.
//
// It layers configuration, HTTP transport with optional retries, interceptors
// and NATS call events on top of the resource interfaces and types defined in
// the stripe package. Most applications should import stripeclient to build a
// client, then use the returned stripe.Client to access resource-specific
// clients, for example TopUps(), Sources(), Persons(), etc.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/stripekit/pkg/stripe"
//	  "github.com/fivetwenty-io/stripekit/pkg/stripeclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Minimal: just a secret key.
//	  cli, err := stripeclient.NewWithKey(ctx, "sk_test_...")
//	  if err != nil { log.Fatal(err) }
//	  defer cli.Close()
//
//	  // Or on behalf of a connected account, with retries and call events:
//	  cli, err = stripeclient.New(ctx, &stripe.Config{
//	    APIKey:          "sk_test_...",
//	    StripeAccount:   "acct_...",
//	    RetryMax:        3,
//	    AutoIdempotency: true,
//	    EventsNATSURL:   "nats://127.0.0.1:4222",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  balance, err := cli.Balance().Retrieve(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = balance
//	}
//
// # Retries
//
// Retries are off by default. When Config.RetryMax is set, connection errors,
// 429 and 5xx responses are retried with backoff unless the API answers with
// Stripe-Should-Retry: false. Set Config.AutoIdempotency so retried POSTs
// cannot create duplicate objects.
//
// # Helpers
//
// The package also provides the convenience constructors NewWithKey and
// NewForAccount that wrap New with the appropriate configuration.
package stripeclient
