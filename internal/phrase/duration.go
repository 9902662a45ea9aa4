package phrase

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// EstimateDuration computes the playing time of an ABC tune from its
// L: (unit note length) and Q: (tempo) headers and the note tokens of
// the body. It is an estimate for synth stubs only; a real engine
// reports the authoritative duration when it primes.
func EstimateDuration(abc string) time.Duration {
	unitLen := 1.0 / 8 // ABC default when L: is absent
	tempoLen, tempoBPM := 1.0/4, 120.0

	var body []string
	inBody := false
	for _, line := range strings.Split(abc, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}

		if inBody {
			body = append(body, line)
			continue
		}

		switch {
		case strings.HasPrefix(line, "L:"):
			unitLen = parseFraction(strings.TrimSpace(line[2:]), unitLen)
		case strings.HasPrefix(line, "Q:"):
			tempoLen, tempoBPM = parseTempo(strings.TrimSpace(line[2:]), tempoLen, tempoBPM)
		case strings.HasPrefix(line, "K:"):
			// the key line ends the header
			inBody = true
		}
	}

	units := 0.0
	for _, line := range body {
		units += countUnits(line)
	}

	wholeNote := 60 / tempoBPM / tempoLen
	return time.Duration(units * unitLen * wholeNote * float64(time.Second))
}

// countUnits sums the note lengths of one body line in unit-note-length
// multiples. Chords contribute once; bar lines and decorations are skipped.
func countUnits(line string) float64 {
	units := 0.0
	runes := []rune(line)

	for i := 0; i < len(runes); {
		c := runes[i]

		if c == '[' {
			// consume the chord, its length modifier follows the bracket
			for i < len(runes) && runes[i] != ']' {
				i++
			}
			i++ // skip ']'
			var mult float64
			mult, i = parseLength(runes, i)
			units += mult
			continue
		}

		if isNoteStart(c) || c == 'z' || c == 'x' {
			i++
			// octave marks
			for i < len(runes) && (runes[i] == ',' || runes[i] == '\'') {
				i++
			}
			var mult float64
			mult, i = parseLength(runes, i)
			units += mult
			continue
		}

		i++
	}

	return units
}

func isNoteStart(c rune) bool {
	return (c >= 'A' && c <= 'G') || (c >= 'a' && c <= 'g')
}

// parseLength reads an optional length modifier (e.g. "2", "/2", "3/2",
// "/" meaning 1/2) starting at i and returns the multiplier.
func parseLength(runes []rune, i int) (float64, int) {
	num, den := 0, 0

	readInt := func() int {
		start := i
		for i < len(runes) && unicode.IsDigit(runes[i]) {
			i++
		}
		if start == i {
			return 0
		}
		n, _ := strconv.Atoi(string(runes[start:i]))
		return n
	}

	num = readInt()
	if i < len(runes) && runes[i] == '/' {
		i++
		den = readInt()
		if den == 0 {
			den = 2
		}
	}

	if num == 0 {
		num = 1
	}
	if den == 0 {
		den = 1
	}

	return float64(num) / float64(den), i
}

func parseFraction(s string, fallback float64) float64 {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return fallback
	}

	num, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	den, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || den == 0 {
		return fallback
	}

	return float64(num) / float64(den)
}

// parseTempo handles "1/4=120" and the bare-number form "120".
func parseTempo(s string, fallbackLen, fallbackBPM float64) (float64, float64) {
	if eq := strings.IndexByte(s, '='); eq >= 0 {
		length := parseFraction(strings.TrimSpace(s[:eq]), fallbackLen)
		bpm, err := strconv.ParseFloat(strings.TrimSpace(s[eq+1:]), 64)
		if err != nil || bpm <= 0 {
			return length, fallbackBPM
		}
		return length, bpm
	}

	bpm, err := strconv.ParseFloat(s, 64)
	if err != nil || bpm <= 0 {
		return fallbackLen, fallbackBPM
	}

	return fallbackLen, bpm
}
