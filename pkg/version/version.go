package version

import "runtime"

const Name = "invoice-renamer"

var (
	// These values are injected during build - DO NOT MODIFY
	Version   = "VERSION_PLACEHOLDER"
	CommitSHA = "COMMIT_PLACEHOLDER"
	BuildDate = "DATE_PLACEHOLDER"
)

func GetVersionInfo() string {
	return Name + " " + Version
}

func GetDetailedVersionInfo() string {
	return Name + "\n" +
		"Version:  " + Version + "\n" +
		"Commit:   " + CommitSHA + "\n" +
		"Built:    " + BuildDate + "\n" +
		"Platform: " + runtime.GOOS + "/" + runtime.GOARCH + "\n"
}

// IsRelease reports whether the binary was built with an injected version.
func IsRelease() bool {
	return Version != "" && Version != "VERSION_PLACEHOLDER" && Version != "dev"
}
