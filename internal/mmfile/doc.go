//go:build unix

// Package mmfile provides platform-specific helpers for memory-mapping session files.
package mmfile
