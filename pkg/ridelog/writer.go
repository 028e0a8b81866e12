package ridelog

import (
	"bufio"
	"fmt"
	"os"
)

// Writer appends ride records to the log file. Writes are flushed
// individually so every acknowledged ride is durable; rides arrive at
// most a few times per poll interval so the extra flushes cost
// nothing. The writer never truncates after opening.
type Writer struct {
	file   *os.File
	writer *bufio.Writer
}

// NewWriter opens the log for online ingestion, appending after any
// records already on disk.
func NewWriter(path string) (*Writer, error) {
	return newWriter(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
}

// NewRebuildWriter opens the log truncated for a full offline
// reprocessing run. It must never run concurrently with an appending
// writer on the same file.
func NewRebuildWriter(path string) (*Writer, error) {
	return newWriter(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

func newWriter(path string, flags int) (*Writer, error) {
	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open ride log %s: %w", path, err)
	}

	return &Writer{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (w *Writer) Write(event *RideEvent) error {
	record := encodeRecord(event)

	if _, err := w.writer.Write(record[:]); err != nil {
		return fmt.Errorf("failed to append ride record: %w", err)
	}

	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush ride log: %w", err)
	}

	return nil
}

func (w *Writer) Close() error {
	if err := w.writer.Flush(); err != nil {
		return err
	}

	return w.file.Close()
}
