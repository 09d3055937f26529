// Package version provides version information for the application.
//
// The version identifier is read from the VERSION file embedded at compile
// time, so it is fixed for a given build and identical across calls.
package version
