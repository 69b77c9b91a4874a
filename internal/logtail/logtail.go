package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Tail returns the last n lines of the file at path that contain match. An
// empty match keeps every line and n <= 0 returns them all. A missing file
// yields no lines.
func Tail(path string, n int, match string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	return tail(file, n, match)
}

func tail(r io.Reader, n int, match string) ([]string, error) {
	var (
		ring  []string
		next  int
		full  bool
		lines []string
	)
	if n > 0 {
		ring = make([]string, n)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if match != "" && !strings.Contains(line, match) {
			continue
		}
		if ring == nil {
			lines = append(lines, line)
			continue
		}
		ring[next] = line
		next = (next + 1) % n
		if next == 0 {
			full = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if ring == nil {
		return lines, nil
	}
	if !full {
		return append([]string(nil), ring[:next]...), nil
	}
	return append(append([]string(nil), ring[next:]...), ring[:next]...), nil
}
