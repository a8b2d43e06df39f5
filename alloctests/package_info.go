// Package alloctests contains the conformance tests for graphics buffer allocator test
// services, built on the framework packages.
package alloctests
