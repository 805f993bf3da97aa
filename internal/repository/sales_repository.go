package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"paylink/internal/models"
)

var salesHeader = []string{"data", "nickname", "descrizione", "importo", "telefono", "email", "session_id", "session_url"}

// SalesRepository is the append-only sales log. Rows are never read back,
// updated or deleted by the service.
type SalesRepository struct {
	mu   sync.Mutex
	path string
}

// NewSalesRepository opens (and if needed creates, with a header row) the log at path.
func NewSalesRepository(path string) (*SalesRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sales log dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	switch {
	case err == nil:
		defer f.Close()
		if _, err := f.WriteString(strings.Join(salesHeader, ",") + "\n"); err != nil {
			return nil, fmt.Errorf("write sales log header: %w", err)
		}
	case errors.Is(err, os.ErrExist):
	default:
		return nil, fmt.Errorf("create sales log: %w", err)
	}

	return &SalesRepository{path: path}, nil
}

func (r *SalesRepository) Path() string { return r.path }

// Append writes one record as a single line with a single write call.
func (r *SalesRepository) Append(ctx context.Context, rec models.SalesRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	line, err := encodeRow([]string{
		ts.UTC().Format("2006-01-02T15:04:05.000Z"),
		rec.Nickname,
		rec.Description,
		rec.Amount,
		rec.Phone,
		rec.Email,
		rec.SessionID,
		rec.URL,
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open sales log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("append sales log: %w", err)
	}
	return nil
}

// encodeRow quotes every field and doubles embedded quotes. Line breaks inside
// free text are flattened so one record is always one physical line.
func encodeRow(fields []string) ([]byte, error) {
	var buf bytes.Buffer
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		for _, r := range f {
			switch r {
			case '"':
				buf.WriteString(`""`)
			case '\r', '\n':
				buf.WriteByte(' ')
			default:
				buf.WriteRune(r)
			}
		}
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')

	// guard: the row must round-trip through a standard CSV reader
	if _, err := csv.NewReader(bytes.NewReader(buf.Bytes())).Read(); err != nil {
		return nil, fmt.Errorf("encode sales row: %w", err)
	}
	return buf.Bytes(), nil
}
