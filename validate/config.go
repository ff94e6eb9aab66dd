package validate

import (
	"io"
	"log/slog"
	"runtime"
)

// Config controls a validation run.
type Config struct {
	// Lazy collects every violation. When false the run stops after the
	// first column (or structural check) that produced a hard violation.
	Lazy bool

	// Workers bounds how many columns are validated concurrently.
	Workers int

	// Head and Tail restrict validation to the first and/or last n rows.
	// Zero means no restriction; when both are set their union is used.
	Head int
	Tail int

	// Logger receives run progress. Nil discards.
	Logger *slog.Logger
}

// DefaultConfig returns an exhaustive, concurrent configuration.
func DefaultConfig() Config {
	return Config{
		Lazy:    true,
		Workers: runtime.GOMAXPROCS(0),
		Logger:  discardLogger(),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (c Config) normalized() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Logger == nil {
		c.Logger = discardLogger()
	}
	if c.Head < 0 {
		c.Head = 0
	}
	if c.Tail < 0 {
		c.Tail = 0
	}
	return c
}

// rowRange returns the row positions to validate, ascending.
func (c Config) rowRange(n int) []int {
	if c.Head == 0 && c.Tail == 0 {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return rows
	}

	head := min(c.Head, n)
	tailStart := n - min(c.Tail, n)
	if c.Tail == 0 {
		tailStart = n
	}

	rows := make([]int, 0, head+n-tailStart)
	for i := 0; i < head; i++ {
		rows = append(rows, i)
	}
	for i := max(tailStart, head); i < n; i++ {
		rows = append(rows, i)
	}
	return rows
}
