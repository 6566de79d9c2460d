// Package branchchain extracts the chain of local branches stacked between a
// base ref and HEAD from `git log --format=format:%D` decoration output. The
// result is ordered oldest first, ready to hand to an atomic push.
package branchchain
