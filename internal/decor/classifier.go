package decor

import "strings"

// IsPerson reports whether a resolved note path sits inside the people
// folder. Matching is case-sensitive and prefix-only; sub-folders of the
// people folder are included.
func IsPerson(targetPath, peopleFolder string) bool {
	if peopleFolder == "" {
		return false
	}
	return targetPath == peopleFolder || strings.HasPrefix(targetPath, peopleFolder+"/")
}
