// Package bootstrap sets up a new machine: it installs packages with brew,
// pipx, npm and the VS Code CLI, writes config files, and installs dotkit's
// entry points. Work is split into named sessions that can notify other
// sessions, and the package lists come from a schema-validated YAML manifest.
package bootstrap
