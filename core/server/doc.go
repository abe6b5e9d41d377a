// Package server holds configuration for the HTTP listener.
package server
