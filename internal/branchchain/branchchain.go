package branchchain

import (
	"slices"
	"strings"
)

// headPrefix marks the ref HEAD points at in decoration output.
const headPrefix = "HEAD -> "

// Parse returns the local branch names found in lines, oldest first.
//
// lines are decoration lines as printed by git log, newest commit first. Refs
// equal to baseRef and refs under any of remotes ("<remote>/...") are dropped.
// A branch decorating several commits appears once per commit.
func Parse(lines []string, baseRef string, remotes []string) []string {
	branches := []string{}

	for _, line := range lines {
		for _, ref := range Refs(line) {
			switch {
			case ref == "":
				continue
			case ref == baseRef:
				continue
			case isRemoteTracking(ref, remotes):
				continue
			default:
				branches = append(branches, ref)
			}
		}
	}

	slices.Reverse(branches)
	return branches
}

// Refs splits a single decoration line into its trimmed ref labels. Empty
// labels are kept so callers see exactly what the line contained.
func Refs(line string) []string {
	parts := strings.Split(strings.TrimPrefix(line, headPrefix), ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// SplitLines splits raw git log output into decoration lines. Blank lines are
// preserved; they decorate commits that carry no refs.
func SplitLines(output string) []string {
	return strings.Split(output, "\n")
}

func isRemoteTracking(ref string, remotes []string) bool {
	for _, remote := range remotes {
		if strings.HasPrefix(ref, remote+"/") {
			return true
		}
	}
	return false
}
