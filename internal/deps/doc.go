// Package deps locates the external binaries ffjob drives and reports
// whether they are usable.
package deps
