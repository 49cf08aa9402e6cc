package splitter

import "strings"

// Splitter breaks a document into overlapping chunks, trying coarser
// separators before finer ones so chunk boundaries land on paragraph and
// line breaks where possible.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

func New() *Splitter {
	return &Splitter{
		ChunkSize:    500,
		ChunkOverlap: 100,
		Separators:   []string{"\n\n", "\n", " ", ""},
	}
}

func (s *Splitter) Split(text string) []string {
	var chunks []string
	s.split(text, s.Separators, &chunks)
	return chunks
}

func (s *Splitter) split(text string, separators []string, chunks *[]string) {
	if text == "" {
		return
	}
	if len(text) <= s.ChunkSize {
		*chunks = append(*chunks, text)
		return
	}

	sep := ""
	var finer []string
	for i, candidate := range separators {
		if candidate == "" {
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			finer = separators[i+1:]
			break
		}
	}

	if sep == "" {
		s.hardSplit(text, chunks)
		return
	}

	s.merge(strings.Split(text, sep), sep, finer, chunks)
}

// merge packs consecutive parts into chunks up to ChunkSize, carrying the
// trailing parts that fit into ChunkOverlap into the next chunk.
func (s *Splitter) merge(parts []string, sep string, finer []string, chunks *[]string) {
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunk := strings.Join(current, sep)
		if chunk != "" {
			*chunks = append(*chunks, chunk)
		}

		// Keep an overlap tail for the next chunk.
		var tail []string
		tailLen := 0
		for i := len(current) - 1; i >= 0; i-- {
			partLen := len(current[i]) + len(sep)
			if tailLen+partLen > s.ChunkOverlap {
				break
			}
			tail = append([]string{current[i]}, tail...)
			tailLen += partLen
		}
		current = tail
		currentLen = tailLen
	}

	for _, part := range parts {
		if len(part) > s.ChunkSize {
			flush()
			current = nil
			currentLen = 0
			s.split(part, finer, chunks)
			continue
		}
		if currentLen+len(part)+len(sep) > s.ChunkSize {
			flush()
		}
		current = append(current, part)
		currentLen += len(part) + len(sep)
	}
	if len(current) > 0 {
		chunk := strings.Join(current, sep)
		if chunk != "" {
			*chunks = append(*chunks, chunk)
		}
	}
}

func (s *Splitter) hardSplit(text string, chunks *[]string) {
	step := s.ChunkSize - s.ChunkOverlap
	if step <= 0 {
		step = s.ChunkSize
	}
	for start := 0; start < len(text); start += step {
		end := start + s.ChunkSize
		if end > len(text) {
			end = len(text)
		}
		*chunks = append(*chunks, text[start:end])
		if end == len(text) {
			break
		}
	}
}
