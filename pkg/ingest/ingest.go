// Package ingest reads the Sender's messages from text input.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// MaxLineSize is the longest line ReadLines accepts.
const MaxLineSize = 1 << 20

// ReadLines returns one message per line of r, without the line terminator.
//
// Both "\n" and "\r\n" terminate a line, and a final line without terminator is kept.
// Empty lines are kept as empty messages.
func ReadLines(r io.Reader) ([][]byte, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	var messages [][]byte
	for scanner.Scan() {
		line := scanner.Bytes()
		// the scanner reuses its buffer
		message := make([]byte, len(line))
		copy(message, line)
		messages = append(messages, message)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ingest.ReadLines: %w", err)
	}
	return messages, nil
}

// ReadFile calls ReadLines on the file at path.
func ReadFile(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest.ReadFile: %w", err)
	}
	defer f.Close()
	return ReadLines(f)
}
