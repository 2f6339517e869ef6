// Package ui renders terminal progress for long-running batch commands.
package ui
