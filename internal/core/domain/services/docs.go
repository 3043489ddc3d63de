// Package services provides the stateless domain services that validate and build
// the sub-records attached to an order during its lifecycle.
//
// The package includes:
//   - QuotationManager: builds a Quotation from the professional's offer
//   - PaymentProcessor: validates a payment request and charges it through a gateway
//   - RatingManager: builds a Rating from the client's evaluation
//
// Services never touch the repository and never change order status; the
// aggregate applies what they build.
package services
