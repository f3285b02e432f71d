// Package preflight provides readiness checks for the binaries and
// filesystem paths ffjob depends on.
//
// These checks run in two contexts:
//   - The encoding runner calls CheckJob before starting ffmpeg, so an
//     unreadable source or unwritable output fails in milliseconds instead of
//     after ffmpeg has opened every input.
//   - The CLI "ffjob status" command uses RunAll and CheckSystemDeps to
//     display environment health.
package preflight
