// Package ui holds the shared color themes for console and terminal
// dashboard output, including NO_COLOR handling.
package ui
