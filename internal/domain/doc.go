// Package domain contains the task entity, its value objects and the query
// model used to filter, sort and paginate task collections. It is independent
// of any specific storage, cache or delivery mechanism.
package domain
