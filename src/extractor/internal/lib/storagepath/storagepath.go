package storagepath

import (
	"fmt"
	"path/filepath"
	"strings"
)

const fallbackBaseName = "stem"

// StemBaseName is the input file name without directory or extension.
func StemBaseName(inputPath string) string {
	name := filepath.Base(inputPath)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	if name == "" || name == "." || name == string(filepath.Separator) {
		return fallbackBaseName
	}

	return name
}

// FileName maps a 0-based voice ordinal to its 1-based artifact name.
func FileName(baseName string, kindLabel string, voiceIndex int, extension string) string {
	return fmt.Sprintf("%s_%s_%03d.%s", baseName, kindLabel, voiceIndex+1, extension)
}

type Generator struct {
	OutputDir string
	BaseName  string
}

func (g Generator) GeneratePath(kindLabel string, voiceIndex int, extension string) string {
	return filepath.Join(g.OutputDir, FileName(g.BaseName, kindLabel, voiceIndex, extension))
}

// RemoteGenerator builds object URLs for artifacts uploaded to a bucket.
type RemoteGenerator struct {
	Host   string
	Bucket string
}

func (r RemoteGenerator) GeneratePath(runID string, fileName string) string {
	return fmt.Sprintf("%s/%s/%s/%s", r.Host, r.Bucket, runID, fileName)
}
