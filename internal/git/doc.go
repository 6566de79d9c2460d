// Package git wraps the git invocations dotkit needs. All calls go through a
// runner.Runner so the exact argv can be asserted in tests.
package git
