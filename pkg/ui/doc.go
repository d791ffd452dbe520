// Package ui holds terminal output helpers: ANSI color functions, the
// Console that prints backup progress, and desktop notifications.
package ui
