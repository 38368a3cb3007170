package utils

import "os"

const DefaultOutputDirName = "invoice-renamer-output"

func GetDefaultOutputDir() string {
	tmpDir, err := os.MkdirTemp("", DefaultOutputDirName+"-*")
	if err != nil {
		// If we can't create a temp directory, fall back to local directory
		return DefaultOutputDirName
	}
	return tmpDir
}
