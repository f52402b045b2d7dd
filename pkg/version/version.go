package version

var (
	// These values are injected during build - DO NOT MODIFY
	Version   = "VERSION_PLACEHOLDER"
	CommitSHA = "COMMIT_PLACEHOLDER"
)

func GetVersionInfo() string {
	return "pdfslice " + Version
}

func GetDetailedVersionInfo() string {
	return "pdfslice\n" +
		"Version:  " + Version + "\n" +
		"Commit:   " + CommitSHA + "\n"
}
