package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// filenameDate captures the YYYYMMDD date embedded in a gateway log name,
// e.g. SMS_Log_20250301.log.
var filenameDate = regexp.MustCompile(`(\d{8})`)

// DiscoverFiles lists the gateway log files in dir, sorted by name. The sort
// is the canonical processing order: names encode the date, so lexical order
// is chronological order.
//
// Files are matched by the "SMS_Log" name prefix (case-insensitive, the
// gateway has written both spellings). When cutoff is non-zero, files whose
// embedded date is before it are skipped; files without an embedded date are
// skipped too in that case.
func DiscoverFiles(dir string, cutoff time.Time) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading log directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(strings.ToLower(name), "sms_log") {
			continue
		}
		if !cutoff.IsZero() {
			date, ok := FileDate(name)
			if !ok || date.Before(cutoff) {
				continue
			}
		}
		files = append(files, filepath.Join(dir, name))
	}

	sort.Strings(files)
	return files, nil
}

// FileDate extracts the date encoded in a gateway log file name.
func FileDate(name string) (time.Time, bool) {
	m := filenameDate.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return time.Time{}, false
	}
	date, err := time.Parse("20060102", m[1])
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
