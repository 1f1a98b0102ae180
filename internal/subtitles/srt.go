package subtitles

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// RenderSRT produces the SRT document for the given cues.
func RenderSRT(cues []Cue) string {
	var builder strings.Builder
	for i, cue := range cues {
		builder.WriteString(strconv.Itoa(i + 1))
		builder.WriteString("\n")
		builder.WriteString(FormatTimestamp(cue.Start))
		builder.WriteString(" --> ")
		builder.WriteString(FormatTimestamp(cue.End))
		builder.WriteString("\n")
		builder.WriteString(cue.Text)
		builder.WriteString("\n\n")
	}
	return builder.String()
}

// WriteSRT renders the cues and writes them to path.
func WriteSRT(path string, cues []Cue) error {
	if len(cues) == 0 {
		return fmt.Errorf("write srt: no cues to write")
	}
	if err := os.WriteFile(path, []byte(RenderSRT(cues)), 0o644); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// CountCues returns the number of cue blocks in an SRT file.
func CountCues(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read srt: %w", err)
	}
	content := strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	if content == "" {
		return 0, nil
	}
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count, nil
}

// Bounds returns the earliest start and latest end timestamp in an SRT file.
func Bounds(path string) (float64, float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read srt: %w", err)
	}
	first := math.Inf(1)
	var last float64
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.Contains(line, "-->") {
			continue
		}
		parts := strings.Split(line, "-->")
		if len(parts) != 2 {
			continue
		}
		if start, err := ParseTimestamp(strings.TrimSpace(parts[0])); err == nil {
			if start < first {
				first = start
			}
			found = true
		}
		if end, err := ParseTimestamp(strings.TrimSpace(parts[1])); err == nil {
			if end > last {
				last = end
			}
		}
	}
	if !found {
		return 0, last, nil
	}
	return first, last, nil
}

// ParseTimestamp converts an SRT timestamp back to seconds. Periods are
// accepted in place of the standard comma before milliseconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// Validate checks an SRT file for structural problems. It returns the
// issues found; an empty slice means the file passed.
func Validate(path string, audioSeconds float64) []string {
	var issues []string

	cues, err := CountCues(path)
	if err != nil {
		issues = append(issues, fmt.Sprintf("read_error: %v", err))
		return issues
	}
	if cues == 0 {
		issues = append(issues, "empty_subtitle_file")
		return issues
	}

	first, last, err := Bounds(path)
	if err != nil {
		issues = append(issues, fmt.Sprintf("timestamp_parse_error: %v", err))
	} else if first == 0 && last == 0 {
		issues = append(issues, "no_valid_timestamps")
	}

	if audioSeconds > 0 && last > audioSeconds+1 {
		issues = append(issues, fmt.Sprintf("duration_overrun: last cue ends %.1fs past audio", last-audioSeconds))
	}

	return issues
}
