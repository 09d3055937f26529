// Package cli implements the ets-vibes command tree.
package cli
