// Package fastspring provides types, interfaces, and helpers for working with
// the FastSpring REST API.
//
// # Overview
//
// The fastspring package defines the domain types (Account, Coupon, Order,
// Product, Subscription, ...) and the interfaces of the resource clients
// (AccountsClient, OrdersClient, ...). The concrete implementation is built by
// the fsclient package, which wires configuration, transport and credentials.
//
// Getting a client
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
//	  cli, err := fsclient.NewWithBasicAuth(ctx, "", "api-user", "api-password")
//	  if err != nil { log.Fatal(err) }
//
//	  account, err := cli.Accounts().Get(ctx, "uE3X0YpARryA8Tgqlcadkw")
//	  if err != nil { log.Fatal(err) }
//	  _ = account
//	}
//
// # Runtime settings
//
// Configure, Auth and Server change the timeout, the credentials and the base
// URL of a live client. A change applies to every call dispatched afterwards.
//
// # Pagination
//
// List endpoints return one page at a time. FetchAllPages and
// PaginationIterator walk the remaining pages through a PageFunc:
//
//	all, err := fastspring.FetchAllPages(ctx, func(ctx context.Context, page, limit int) ([]fastspring.Ref[fastspring.Subscription], fastspring.Page, error) {
//	  list, err := cli.Subscriptions().List(ctx, &fastspring.SubscriptionListParams{Page: page, Limit: limit})
//	  if err != nil { return nil, fastspring.Page{}, err }
//	  return list.Subscriptions, list.Page, nil
//	}, nil)
//
// # Errors
//
// A non-2xx response is returned as *ResponseError. When the API description
// documents the status for the operation, Payload holds the decoded error
// body; otherwise the error carries the generic tag and the raw body. Helpers
// such as IsNotFound and StatusCode inspect wrapped errors.
//
// # Interceptors
//
// Request and response interceptors run around every dispatched call. The
// package ships logging, header, request id and Prometheus metrics
// interceptors.
package fastspring
