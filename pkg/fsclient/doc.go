// Package fsclient provides the primary entry point for constructing a
// FastSpring API client that implements the fastspring.Client interface.
//
// It validates a fastspring.Config, normalizes the base URL and wires the
// request core, credential store and resource clients together. Most
// applications import fsclient to build a client and then use the returned
// fastspring.Client to reach resource-specific clients such as Accounts(),
// Orders() or Subscriptions().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
//	  "github.com/fivetwenty-io/fastspring-client/pkg/fsclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Store API credentials (HTTP basic).
//	  cli, err := fsclient.NewWithBasicAuth(ctx, "", "api-user", "api-pass")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or everything from FASTSPRING_* variables.
//	  cli, err = fsclient.NewFromEnv(ctx)
//	  if err != nil { log.Fatal(err) }
//
//	  orders, err := cli.Orders().List(ctx, &fastspring.OrderListParams{Days: 7})
//	  if err != nil { log.Fatal(err) }
//	  _ = orders
//	}
//
// # Settings after construction
//
// The returned client exposes Configure, Auth and Server. Changes made through
// them apply to every call dispatched afterwards.
package fsclient
