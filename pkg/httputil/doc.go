// Package httputil provides the retry vocabulary shared by the registry
// clients and the crawl scheduler.
//
// Transient failures (connection errors, timeouts, 5xx and 429 responses) are
// wrapped in [RetryableError] where they happen. Callers further up only ask
// [IsRetryable] and never need to know which transport produced the error.
//
// Waits are linear in the attempt number ([LinearBackoff]) and always
// interruptible through the context ([Sleep]).
package httputil
