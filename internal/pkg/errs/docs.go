// Package errs provides the error taxonomy of the service-order engine.
// Every failure the engine returns to a caller is one of these types, wrapped
// with the order id and attempted operation where they are known.
//
// The package includes:
//   - ObjectNotFoundError: an unknown order id
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed
//     or missing input; all three also match ErrValidation
//   - InvalidStateTransitionError: an operation attempted from a status that does not allow it
//   - PaymentFailureError: a declined or timed out charge
//   - VersionIsInvalidError: a concurrent write detected by the storage layer
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works through wrapping
//
// All errors are local and recoverable by retry; none of them is fatal to the process.
package errs
