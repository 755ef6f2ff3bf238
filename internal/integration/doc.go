// Package integration holds the end to end suite: the full service served
// over HTTP against a redis container started with dockertest.
package integration
