// Package runner executes external programs (git, gh, brew, ...) on behalf of
// dotkit commands. The Runner interface is what the rest of the module depends
// on, so tests can swap in a recorder instead of spawning processes.
package runner
