// Package ports defines the contracts between the service order core and its
// infrastructure: storage, transactions, payment gateways, notification sinks and
// the messaging service. Adapters under internal/adapters implement them.
package ports
