// Package testsupport holds helpers shared by package tests: temp-dir
// configurations, stub binaries, and seeded option-set stores.
package testsupport
