// Package service contains the application use cases. Its centerpiece is
// TaskService, which coordinates the task store with a look-aside cache
// holding a snapshot of the whole unfiltered task collection.
//
// Reads are answered from the snapshot whenever it is present, filtering,
// sorting and paginating in memory (see the taskquery subpackage). Writes go
// to the store first and then either patch the snapshot with the store's
// result or invalidate it, depending on the configured WriteStrategy. Cache
// failures are logged and never fail a request; store failures propagate.
package service
