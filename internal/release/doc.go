// Package release cuts a new version of a project: it bumps pyproject.toml,
// stamps CHANGELOG.md, and then commits, tags, and pushes, or opens a pull
// request instead.
package release
