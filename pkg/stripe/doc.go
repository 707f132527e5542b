// Package stripe provides types, interfaces, and helpers for working with a
// form-encoded payments REST API.
//
// # Overview
//
// The stripe package defines the domain types (TopUp, Authorization, Balance,
// Location, Person, Source), the interfaces of the resource clients
// (TopUpsClient, SourcesClient, ...) and the core that every call goes
// through: the parameter encoder and the APIHandler. A concrete client is
// provided by the stripeclient package, which wires configuration, transport,
// interceptors and event publishing. Most consumers import stripeclient to
// construct a client and then use the resource client interfaces exposed here.
//
//	cli, err := stripeclient.New(ctx, &stripe.Config{APIKey: "sk_test_..."})
//	if err != nil { log.Fatal(err) }
//	defer cli.Close()
//
//	topUp, err := cli.TopUps().Create(ctx, &stripe.TopUpCreateParams{
//	  Amount:   2000,
//	  Currency: stripe.CurrencyUSD,
//	})
//
// # Parameters
//
// Request parameters are built as a Params value: an ordered mapping whose
// values are Str, Int, Float, Bool, List, IndexedList or nested *Params. A nil
// value is absent and never encoded, which is how update calls leave fields
// unchanged. Encoding uses bracket notation:
//
//	stripe.NewParams().
//	  Set("address", stripe.NewParams().Set("line1", stripe.Str("A"))).
//	  Set("expand", stripe.Strs([]string{"source"})).
//	  Encode()
//	// address[line1]=A&expand[]=source
//
// # Sending calls
//
// Send and SendAsync dispatch a RequestSpec through an APIHandler and decode
// the response into the requested type. Neither retries; retries belong to the
// Transport. Cancelling the context, or the Future returned by SendAsync,
// aborts the exchange and no result is delivered afterwards.
//
// # Errors
//
// Every failed call returns exactly one of *TransportError, *APIError or
// *UnexpectedResponseError. ErrorKindOf classifies an error, and helpers such
// as IsCardError, IsNotFound and IsRateLimited branch on the remote error type
// without matching message text.
//
// # Interceptors, metrics and events
//
// An InterceptorChain runs before each exchange and after its outcome is
// known. The package ships logging, header, idempotency, metrics and NATS call
// event interceptors.
package stripe
