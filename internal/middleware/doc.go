// Package middleware provides HTTP middleware for the metrics server:
// request logging at debug level and request metrics keyed by route.
package middleware
