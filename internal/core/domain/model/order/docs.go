// Package order implements the service order aggregate: one request for work from
// a client to a professional, tracked from creation to rating or cancellation.
//
// The package includes:
//   - Order: the aggregate root; the only place where status changes and timeline entries are produced
//   - Status and Operation: the closed state machine and its transition table
//   - Timeline and TimelineEntry: the append-only audit trail of every transition
//   - Quotation, Payment and Rating: the optional sub-records attached along the way
//   - LifecycleEvent: what a committed transition emits to notification collaborators
//
// Key business rules:
//   - Status follows Pending -> Quoted -> Accepted -> InProgress -> Completed -> Paid -> Rated
//   - Cancelled is reachable only from Pending or Quoted; Rated and Cancelled are terminal
//   - Every transition appends exactly one timeline entry whose status is the new status
//   - A failed transition leaves the aggregate untouched
package order
