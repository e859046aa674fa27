// Package extract pulls per-player match fields out of the text dump produced
// by the replay stats tool.
//
// The dump is the console output of four objects printed one after another:
// game settings, game metadata, computed stats and the first frame's players.
// Extract reads each field from the block that owns it. When the blocks cannot
// be told apart the whole dump is scanned positionally instead.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/huangsam/slippistats/internal/contract"
)

// Sequences holds the ordered raw values found in one dump.
// Names, Characters and Kills interleave player one and player two.
type Sequences struct {
	Names      []string
	Characters []string
	Kills      []string
	Stages     []string
	StartTimes []string
	Frames     []string
}

// Pairs returns the number of player pairs, i.e. matches, in the sequences.
func (s Sequences) Pairs() int {
	return len(s.Names) / 2
}

// Keys may be bare (console output) or quoted (JSON output).
var (
	nameRegex      = regexp.MustCompile(`displayName['"]?\s*:\s*('(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"|\\'.*?\\'|[^,\n}]*)`)
	characterRegex = regexp.MustCompile(`characterId['"]?\s*:\s*(\d+)`)
	killRegex      = regexp.MustCompile(`killCount['"]?\s*:\s*(\d+)`)
	stageRegex     = regexp.MustCompile(`stageId['"]?\s*:\s*(\d+)`)
	startRegex     = regexp.MustCompile(`startAt['"]?\s*:\s*\\?['"]([^'"\\]*)`)
	frameRegex     = regexp.MustCompile(`lastFrame['"]?\s*:\s*(-?\d+)`)
)

// Block markers used to tell the printed objects apart.
const (
	settingsMarker = "stageId"
	statsMarker    = "killCount"
	metadataMarker = "startAt"
)

// ScanSequences scans the whole text positionally for the six field sequences.
// Frame numbers are returned as found, duplicates included.
func ScanSequences(text string) Sequences {
	names := findAll(nameRegex, text)
	for i, n := range names {
		names[i] = cleanName(n)
	}
	keys := maskQuotedValues(text)
	return Sequences{
		Names:      names,
		Characters: findAll(characterRegex, keys),
		Kills:      findAll(killRegex, keys),
		Stages:     findAll(stageRegex, keys),
		StartTimes: findAll(startRegex, text),
		Frames:     findAll(frameRegex, keys),
	}
}

// DedupFrames keeps every other frame number, starting at the first.
// The dump prints the last frame twice per match: once in the metadata and once
// in the stats.
func DedupFrames(frames []string) []string {
	out := make([]string, 0, (len(frames)+1)/2)
	for i := 0; i < len(frames); i += 2 {
		out = append(out, frames[i])
	}
	return out
}

// SplitPairs splits an interleaved sequence into its player one (even index)
// and player two (odd index) halves.
func SplitPairs(seq []string) ([]string, []string, error) {
	if len(seq)%2 != 0 {
		return nil, nil, fmt.Errorf("expected an even number of values, found %d", len(seq))
	}
	one := make([]string, 0, len(seq)/2)
	two := make([]string, 0, len(seq)/2)
	for i := 0; i < len(seq); i += 2 {
		one = append(one, seq[i])
		two = append(two, seq[i+1])
	}
	return one, two, nil
}

// Extract parses one dump into validated sequences. Paired fields always have
// even length and per-match fields hold exactly one value per pair.
// Failures are returned as *contract.DataFormatError without a path.
func Extract(raw []byte) (Sequences, error) {
	text := string(raw)
	if strings.TrimSpace(text) == "" {
		return Sequences{}, &contract.DataFormatError{Field: "dump", Reason: "empty output"}
	}

	seqs, ok := extractStructured(text)
	if !ok {
		seqs = ScanSequences(text)
		seqs.Frames = DedupFrames(seqs.Frames)
	}
	if err := validate(seqs); err != nil {
		return Sequences{}, err
	}
	return seqs, nil
}

// extractStructured reads each field from the block that owns it.
// It reports false when the settings or stats block cannot be found.
func extractStructured(text string) (Sequences, bool) {
	var settings, stats, metadata string
	for _, block := range splitBlocks(text) {
		keys := maskQuotedValues(block)
		switch {
		case settings == "" && strings.Contains(keys, settingsMarker):
			settings = block
		case stats == "" && strings.Contains(keys, statsMarker):
			stats = block
		case metadata == "" && strings.Contains(keys, metadataMarker):
			metadata = block
		}
	}
	if settings == "" || stats == "" {
		return Sequences{}, false
	}

	seqs := ScanSequences(settings)
	seqs.Kills = findAll(killRegex, maskQuotedValues(stats))
	seqs.StartTimes = nil
	seqs.Frames = nil
	if metadata != "" {
		seqs.StartTimes = findAll(startRegex, metadata)
		seqs.Frames = findAll(frameRegex, maskQuotedValues(metadata))
	}
	if len(seqs.Frames) == 0 {
		seqs.Frames = firstOnly(findAll(frameRegex, maskQuotedValues(stats)))
	}
	return seqs, true
}

func validate(s Sequences) error {
	paired := []struct {
		field  string
		values []string
	}{
		{"displayName", s.Names},
		{"characterId", s.Characters},
		{"killCount", s.Kills},
	}
	for _, p := range paired {
		if len(p.values) == 0 {
			return &contract.DataFormatError{Field: p.field, Reason: "not found"}
		}
		if len(p.values)%2 != 0 {
			return &contract.DataFormatError{
				Field:  p.field,
				Reason: fmt.Sprintf("found %d values, expected an even count", len(p.values)),
			}
		}
	}

	pairs := s.Pairs()
	for _, p := range paired[1:] {
		if len(p.values)/2 != pairs {
			return &contract.DataFormatError{
				Field:  p.field,
				Reason: fmt.Sprintf("found %d pairs for %d name pairs", len(p.values)/2, pairs),
			}
		}
	}

	perMatch := []struct {
		field  string
		values []string
	}{
		{"stageId", s.Stages},
		{"startAt", s.StartTimes},
		{"lastFrame", s.Frames},
	}
	for _, m := range perMatch {
		if len(m.values) != pairs {
			return &contract.DataFormatError{
				Field:  m.field,
				Reason: fmt.Sprintf("found %d values for %d matches", len(m.values), pairs),
			}
		}
	}
	return nil
}

func findAll(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

func firstOnly(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values[:1]
}

// cleanName strips the surrounding quotes from a display name and unescapes it.
func cleanName(raw string) string {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, `\'`) && strings.HasSuffix(s, `\'`) && len(s) >= 4:
		s = s[2 : len(s)-2]
	case len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0]:
		s = s[1 : len(s)-1]
	}
	return unescape(s)
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
