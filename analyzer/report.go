package analyzer

import (
	"encoding/json"
	"io"
	"math"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

// TypeStat aggregates files of one detected type.
type TypeStat struct {
	Type  string
	Count int
	Size  int64
}

// Report is the outcome of one analysis run.
type Report struct {
	RunID       string
	StartedAt   time.Time
	Duration    time.Duration
	Concurrency int
	Records     []FileRecord

	TotalFiles int
	TotalSize  int64
	Types      []TypeStat
	Corrupt    int
	Mismatched int
	Encrypted  int
	Failed     int
	Skipped    int
}

// Summarize computes aggregate counts over records. Types are ordered by
// count, then name.
func Summarize(records []FileRecord) *Report {
	r := &Report{Records: records, TotalFiles: len(records)}

	byType := make(map[string]*TypeStat)
	for _, rec := range records {
		r.TotalSize += rec.Size
		if rec.Corrupt {
			r.Corrupt++
		}
		if rec.ExtensionMismatch {
			r.Mismatched++
		}
		if rec.LikelyEncrypted {
			r.Encrypted++
		}
		if rec.Failed() {
			r.Failed++
		}

		ts, ok := byType[rec.Type]
		if !ok {
			ts = &TypeStat{Type: rec.Type}
			byType[rec.Type] = ts
		}
		ts.Count++
		ts.Size += rec.Size
	}

	r.Types = make([]TypeStat, 0, len(byType))
	for _, ts := range byType {
		r.Types = append(r.Types, *ts)
	}
	sort.Slice(r.Types, func(i, j int) bool {
		if r.Types[i].Count != r.Types[j].Count {
			return r.Types[i].Count > r.Types[j].Count
		}
		return r.Types[i].Type < r.Types[j].Type
	})

	return r
}

// Mismatches returns the records flagged with an extension mismatch.
func (r *Report) Mismatches() []FileRecord {
	var out []FileRecord
	for _, rec := range r.Records {
		if rec.ExtensionMismatch {
			out = append(out, rec)
		}
	}
	return out
}

type jsonTypeStat struct {
	Type          string `json:"type"`
	Count         int    `json:"count"`
	Size          int64  `json:"size"`
	SizeFormatted string `json:"sizeFormatted"`
}

type jsonRecord struct {
	Name                 string  `json:"name"`
	Path                 string  `json:"path"`
	Type                 string  `json:"type"`
	Category             string  `json:"category"`
	Description          string  `json:"description"`
	Size                 int64   `json:"size"`
	SizeFormatted        string  `json:"sizeFormatted"`
	Entropy              float64 `json:"entropy"`
	EntropyBand          string  `json:"entropyBand,omitempty"`
	IsCorrupt            bool    `json:"isCorrupt"`
	ExtensionMismatch    bool    `json:"extensionMismatch"`
	DetectedExtension    string  `json:"detectedExtension,omitempty"`
	IsEncrypted          bool    `json:"isEncrypted"`
	ActualExtension      string  `json:"actualExtension"`
	Fingerprint          string  `json:"fingerprint,omitempty"`
	FingerprintAlgorithm string  `json:"fingerprintAlgorithm,omitempty"`
	AnalysisTime         float64 `json:"analysisTime"`
}

type jsonReport struct {
	RunID              string         `json:"runId"`
	StartedAt          time.Time      `json:"startedAt"`
	TotalFiles         int            `json:"totalFiles"`
	TotalTime          float64        `json:"totalTime"`
	ThreadsUsed        int            `json:"threadsUsed"`
	TotalSize          int64          `json:"totalSize"`
	TotalSizeFormatted string         `json:"totalSizeFormatted"`
	CorruptFiles       int            `json:"corruptFiles"`
	MismatchedFiles    int            `json:"mismatchedFiles"`
	EncryptedFiles     int            `json:"encryptedFiles"`
	FailedFiles        int            `json:"failedFiles"`
	SkippedFiles       int            `json:"skippedFiles"`
	Statistics         []jsonTypeStat `json:"statistics"`
	Files              []jsonRecord   `json:"files"`
}

// WriteJSON writes the report as indented JSON. Durations are seconds for the
// run and milliseconds per file.
func (r *Report) WriteJSON(w io.Writer) error {
	out := jsonReport{
		RunID:              r.RunID,
		StartedAt:          r.StartedAt,
		TotalFiles:         r.TotalFiles,
		TotalTime:          round(r.Duration.Seconds(), 2),
		ThreadsUsed:        r.Concurrency,
		TotalSize:          r.TotalSize,
		TotalSizeFormatted: humanize.IBytes(uint64(r.TotalSize)),
		CorruptFiles:       r.Corrupt,
		MismatchedFiles:    r.Mismatched,
		EncryptedFiles:     r.Encrypted,
		FailedFiles:        r.Failed,
		SkippedFiles:       r.Skipped,
		Statistics:         make([]jsonTypeStat, 0, len(r.Types)),
		Files:              make([]jsonRecord, 0, len(r.Records)),
	}

	for _, ts := range r.Types {
		out.Statistics = append(out.Statistics, jsonTypeStat{
			Type:          ts.Type,
			Count:         ts.Count,
			Size:          ts.Size,
			SizeFormatted: humanize.IBytes(uint64(ts.Size)),
		})
	}

	for _, rec := range r.Records {
		out.Files = append(out.Files, jsonRecord{
			Name:                 rec.Name,
			Path:                 rec.Path,
			Type:                 rec.Type,
			Category:             rec.Category,
			Description:          rec.Description,
			Size:                 rec.Size,
			SizeFormatted:        humanize.IBytes(uint64(rec.Size)),
			Entropy:              round(rec.Entropy, 4),
			EntropyBand:          string(rec.EntropyBand),
			IsCorrupt:            rec.Corrupt,
			ExtensionMismatch:    rec.ExtensionMismatch,
			DetectedExtension:    rec.DetectedExtension,
			IsEncrypted:          rec.LikelyEncrypted,
			ActualExtension:      rec.ActualExtension,
			Fingerprint:          rec.Fingerprint,
			FingerprintAlgorithm: string(rec.FingerprintAlgorithm),
			AnalysisTime:         round(float64(rec.AnalysisTime.Microseconds())/1000, 2),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
