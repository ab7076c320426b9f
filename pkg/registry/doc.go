// Package registry holds the field validator capabilities that free-text
// questions can attach by tag, such as the checksum national identifier.
package registry
