// Package redis implements store.Cache on top of a Redis server using
// github.com/redis/go-redis/v9.
//
// Values are stored as plain strings with SET EX. Pattern deletion walks the
// keyspace with SCAN so it never blocks the server the way KEYS would.
package redis
