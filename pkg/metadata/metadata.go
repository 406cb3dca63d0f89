// Package metadata signs reports with the hash of the table they describe.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// TagStart is the start of the metadata block.
	TagStart = "<!-- METADATA_START"
	// TagEnd is the end of the metadata block.
	TagEnd = "METADATA_END -->"
)

// Metadata verification errors.
var (
	ErrNoMetadataBlock = errors.New("no metadata block found")
	ErrNoHashFound     = errors.New("no hash found in metadata")
	ErrHashMismatch    = errors.New("hash mismatch")
)

// Metadata describes the cleaned table a report was built from.
type Metadata struct {
	LastModify time.Time
	RunID      string
	Hash       string
	Rows       int
}

// metadataRegex matches the entire metadata block including tags.
var metadataRegex = regexp.MustCompile(`(?s)<!--\s*METADATA_START\s*\n(.*?)\n\s*METADATA_END\s*-->`)

// Extract returns the last metadata block in content and the content with
// every block removed. A report file accumulates one block per run.
func Extract(content string) (*Metadata, string) {
	matches := metadataRegex.FindAllStringSubmatch(content, -1)
	cleanContent := metadataRegex.ReplaceAllString(content, "")
	cleanContent = strings.TrimRight(cleanContent, "\n")

	if len(matches) == 0 {
		return nil, cleanContent
	}

	meta := &Metadata{}

	lines := strings.Split(matches[len(matches)-1][1], "\n")
	for _, line := range lines {
		parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])

		switch key {
		case "RUN_ID":
			meta.RunID = val
		case "ROWS":
			if n, err := strconv.Atoi(val); err == nil {
				meta.Rows = n
			}
		case "LAST_MODIFY":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				meta.LastModify = t
			}
		case "HASH":
			meta.Hash = val
		}
	}

	return meta, cleanContent
}

// CalculateHash computes the SHA-256 hash of data.
func CalculateHash(data []byte) string {
	hash := sha256.Sum256(data)

	return hex.EncodeToString(hash[:])
}

// Block renders meta as a metadata block.
func Block(meta Metadata) string {
	return fmt.Sprintf("%s\nRUN_ID: %s\nROWS: %d\nLAST_MODIFY: %s\nHASH: %s\n%s\n",
		TagStart, meta.RunID, meta.Rows, meta.LastModify.UTC().Format(time.RFC3339), meta.Hash, TagEnd)
}

// Sign appends a metadata block describing table to report.
func Sign(report string, table []byte, rows int, runID string, now time.Time) string {
	block := Block(Metadata{
		LastModify: now,
		RunID:      runID,
		Hash:       CalculateHash(table),
		Rows:       rows,
	})

	return strings.TrimRight(report, "\n") + "\n\n" + block
}

// Verify checks that the last metadata block in report matches table.
func Verify(report string, table []byte) (*Metadata, error) {
	meta, _ := Extract(report)
	if meta == nil {
		return nil, ErrNoMetadataBlock
	}

	if meta.Hash == "" {
		return meta, ErrNoHashFound
	}

	calculated := CalculateHash(table)
	if calculated != meta.Hash {
		return meta, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, meta.Hash, calculated)
	}

	return meta, nil
}
