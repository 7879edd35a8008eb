// Package ui renders command lifecycle events in a human-readable form.
package ui
