package logs

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const pollInterval = 250 * time.Millisecond

// TailOptions controls how Tail reads the log file.
type TailOptions struct {
	// Offset is the byte position to resume from. A negative offset reads
	// the last Limit lines instead.
	Offset int64
	// Limit bounds the number of trailing lines when Offset is negative.
	Limit int
	// Follow polls for appended lines when a read comes back empty.
	Follow bool
	// Wait bounds how long a follow poll blocks before returning.
	Wait time.Duration
}

// TailResult carries the lines read and the offset to resume from.
type TailResult struct {
	Lines  []string
	Offset int64
}

// Tail reads complete lines from the cleaver log file. A file that does not
// exist yet is not an error; the caller simply resumes from offset zero once
// logging starts.
func Tail(ctx context.Context, path string, opts TailOptions) (TailResult, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return TailResult{}, nil
	}
	if err != nil {
		return TailResult{Offset: opts.Offset}, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return TailResult{Offset: opts.Offset}, fmt.Errorf("log path %q is a directory", path)
	}

	if opts.Offset < 0 {
		lines, end, err := tailEnd(path, opts.Limit, info.Size())
		if err != nil {
			return TailResult{Offset: opts.Offset}, err
		}
		return TailResult{Lines: lines, Offset: end}, nil
	}

	offset := opts.Offset
	if offset > info.Size() {
		// The file was truncated or rotated underneath us.
		offset = info.Size()
	}
	lines, next, err := readSince(path, offset)
	if err != nil {
		return TailResult{Offset: offset}, err
	}
	if opts.Follow && len(lines) == 0 && opts.Wait > 0 {
		return awaitAppend(ctx, path, next, opts.Wait)
	}
	return TailResult{Lines: lines, Offset: next}, nil
}

// tailEnd returns the last limit lines of the file plus the offset of its
// current end. It reads back from the end in fixed-size blocks so a large log
// never has to be scanned front to back.
func tailEnd(path string, limit int, size int64) ([]string, int64, error) {
	if limit <= 0 {
		return nil, size, nil
	}

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	const blockSize = 32 * 1024
	var tail []byte
	pos := size
	newlines := 0
	for pos > 0 && newlines <= limit {
		step := int64(blockSize)
		if step > pos {
			step = pos
		}
		pos -= step
		block := make([]byte, step)
		if _, err := file.ReadAt(block, pos); err != nil {
			return nil, 0, fmt.Errorf("read log file: %w", err)
		}
		newlines += bytes.Count(block, []byte{'\n'})
		tail = append(block, tail...)
	}

	lines := splitLines(tail)
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines, size, nil
}

// readSince returns every complete line after offset and the offset the read
// stopped at.
func readSince(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, offset, nil
	}
	if err != nil {
		return nil, offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log file: %w", err)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, offset, fmt.Errorf("read log file: %w", err)
	}

	next, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, offset, fmt.Errorf("determine log offset: %w", err)
	}
	return lines, next, nil
}

// awaitAppend polls for lines written after offset until wait elapses or the
// context is cancelled.
func awaitAppend(ctx context.Context, path string, offset int64, wait time.Duration) (TailResult, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		lines, next, err := readSince(path, offset)
		if err != nil {
			return TailResult{Offset: offset}, err
		}
		if len(lines) > 0 {
			return TailResult{Lines: lines, Offset: next}, nil
		}
		offset = next

		select {
		case <-ctx.Done():
			return TailResult{Offset: offset}, ctx.Err()
		case <-timer.C:
			return TailResult{Offset: offset}, nil
		case <-ticker.C:
		}
	}
}

func splitLines(buf []byte) []string {
	var lines []string
	for len(buf) > 0 {
		idx := bytes.IndexByte(buf, '\n')
		if idx < 0 {
			lines = append(lines, string(buf))
			break
		}
		lines = append(lines, string(buf[:idx]))
		buf = buf[idx+1:]
	}
	return lines
}
