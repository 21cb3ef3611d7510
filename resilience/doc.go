// Package resilience provides flow-control patterns for transfers.
//
//   - Throttle caps the byte rate of a transfer direction (token bucket).
//
//   - Bulkhead and KeyedBulkhead limit concurrent connections, globally or
//     per host.
//
//   - Retry repeats an operation with exponential backoff while its failure
//     is marked retryable.
//
//     err := resilience.RetryFunc(ctx, resilience.TransferRetryConfig(3), h.Perform)
package resilience
