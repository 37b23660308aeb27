// Package analyzer turns file content into FileRecords: signature match,
// extension fallback, mismatch detection, entropy and fingerprint.
package analyzer

import (
	"path"
	"strings"
	"time"

	"github.com/gobeaver/magickit"
	"github.com/gobeaver/magickit/entropy"
	"github.com/gobeaver/magickit/signature"
)

// Fingerprint sentinels.
const (
	// FingerprintPending marks a digest that has not resolved yet. Records
	// returned by the pipeline never carry it.
	FingerprintPending = "pending"
	// FingerprintError marks a digest that could not be computed.
	FingerprintError = "error"
)

// Record types produced without a signature match.
const (
	TypeCorrupt    = "Empty/Corrupt"
	TypeUnreadable = "Unreadable"
	TypeError      = "Error"
)

// Job identifies one file to analyze. Seq restores submission order after a
// concurrent run.
type Job struct {
	Seq  int
	Path string
	Size int64
}

// FileRecord is the analysis result for one file.
type FileRecord struct {
	Seq                  int
	Path                 string
	Name                 string
	Size                 int64
	Type                 string
	Category             string
	Description          string
	ActualExtension      string
	DetectedExtension    string
	Entropy              float64
	EntropyBand          entropy.Band
	Fingerprint          string
	FingerprintAlgorithm magickit.ChecksumAlgorithm
	Corrupt              bool
	ExtensionMismatch    bool
	LikelyEncrypted      bool
	AnalysisTime         time.Duration
}

// Failed reports whether the file could not be analyzed at all.
func (r FileRecord) Failed() bool {
	return r.Type == TypeUnreadable || r.Type == TypeError
}

// Identified reports whether the record carries a usable classification.
func (r FileRecord) Identified() bool {
	return !r.Corrupt && !r.Failed() && r.Type != signature.Unknown && r.Type != ""
}

func newRecord(job Job) FileRecord {
	name := path.Base(strings.ReplaceAll(job.Path, "\\", "/"))
	return FileRecord{
		Seq:             job.Seq,
		Path:            job.Path,
		Name:            name,
		Size:            job.Size,
		Type:            signature.Unknown,
		Category:        signature.Unknown,
		ActualExtension: strings.ToLower(path.Ext(name)),
	}
}

// hasParentRef reports whether p contains a ".." path segment.
func hasParentRef(p string) bool {
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}
