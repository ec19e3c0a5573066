// Package util provides small generic helpers shared across packages:
// transcript text cleanup and zero-value coalescing.
package util
