// Package utils provides general-purpose helper utilities used across
// different parts of the application: JSON response writing, the shared
// HTTP client and id generation.
package utils
