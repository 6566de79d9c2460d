// Package platform provides the small filesystem operations dotkit needs on
// every OS: symlinks, with a copy fallback on Windows hosts without developer
// mode, and permission bits, which are a no-op on Windows.
package platform
