// Package config manages user-level settings stored at ~/.dotkit/config.yaml:
// the default push base and remote, the dotfiles directory holding templates
// and the bootstrap manifest, and the log level. Every key can be overridden
// through a DOTKIT_-prefixed environment variable.
package config
