// Package configfiles renders dotfile templates into place.
//
// templates.yaml lists the files to manage:
//
//	- src: gitconfig.tmpl
//	  dest: ~/.gitconfig
//	- src: ssh_config.tmpl
//	  dest: ~/.ssh/config
//	  mode: "0600"
//
// Each src is a text/template relative to templates.yaml, executed with the
// map decoded from context.yaml.
package configfiles
