package order

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	apperrors "github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/errors"
	"github.com/LucasRyujiUBC/mostra-de-tecnologia/internal/logging"
)

// Record is one immutable fact appended to the order store: order id and the
// status it transitioned to. The current status of an order is the status of
// its most recently appended record.
type Record struct {
	ID     int
	Status Status
}

// Store is the append-only order store. Each line is "id,status" with the
// status label written verbatim. History is never rewritten; the current
// state is reconstructed by replay.
//
// The store maintains an in-memory index (id → latest status) built once at
// open and updated on every append, so lookups never rescan the file. All
// operations, including id allocation, run under a single mutex: allocating
// the next id and appending its first record is one critical section, which
// is what makes ids unique under concurrent creation.
type Store struct {
	mu     sync.Mutex
	path   string
	index  map[int]Status
	lastID int
	log    logging.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the operational logger used for diagnostics.
func WithStoreLogger(logger logging.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.log = logger
		}
	}
}

// OpenStore opens the order store at the given path, creating the parent
// directory if absent, and replays the existing file into the in-memory
// index. A missing file is an empty store.
//
// Parameters:
//   - path: The store file path (e.g., "log/pedidos.txt").
//   - opts: Optional functional options.
//
// Returns:
//   - *Store: The opened store.
//   - error: A StoreError if the file cannot be read or contains a line that
//     is not a valid "id,status" record. The store is our own format, so a
//     malformed line means the file was corrupted and replay must not guess.
func OpenStore(path string, opts ...StoreOption) (*Store, error) {
	s := &Store{
		path:  path,
		index: make(map[int]Status),
		log:   logging.NewLogger(os.Stderr, "orderstore"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.NewStoreError("mkdir", dir, err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, apperrors.NewStoreError("open", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := parseRecord(line)
		if err != nil {
			return nil, apperrors.NewStoreError("load", path,
				fmt.Errorf("line %d: %w", lineNo, err))
		}
		s.apply(rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewStoreError("read", path, err)
	}

	s.log.Debug("order store loaded",
		logging.Int("orders", len(s.index)),
		logging.Int("last_id", s.lastID))
	return s, nil
}

// parseRecord decodes one "id,status" line.
func parseRecord(line string) (Record, error) {
	idStr, label, ok := strings.Cut(line, ",")
	if !ok {
		return Record{}, fmt.Errorf("not an id,status pair: %q", line)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return Record{}, fmt.Errorf("invalid order id: %q", idStr)
	}
	status := ParseStatus(label)
	if status == StatusUnknown {
		return Record{}, fmt.Errorf("unknown status label: %q", label)
	}
	return Record{ID: id, Status: status}, nil
}

// apply folds one record into the index. The allocator tracks the highest id
// ever appended rather than the id of the literal last line: transition
// records re-record old ids, so "last line + 1" would recycle identifiers.
func (s *Store) apply(rec Record) {
	s.index[rec.ID] = rec.Status
	if rec.ID > s.lastID {
		s.lastID = rec.ID
	}
}

// appendLine writes one record line and flushes it. Callers must hold s.mu.
func (s *Store) appendLine(rec Record) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return apperrors.NewStoreError("open", s.path, err)
	}
	defer f.Close()

	line := fmt.Sprintf("%d,%s\n", rec.ID, rec.Status)
	if _, err := f.WriteString(line); err != nil {
		return apperrors.NewStoreError("append", s.path, err)
	}
	if err := f.Sync(); err != nil {
		return apperrors.NewStoreError("flush", s.path, err)
	}
	return nil
}

// CreateNext allocates the next order id and appends its first record as one
// atomic operation. The id is the highest id ever appended plus one, or 1 for
// an empty store. Allocation and append share the critical section by design:
// they are never exposed as separable operations.
//
// Parameters:
//   - status: The initial status of the new order (normally StatusInitiated).
//
// Returns:
//   - int: The allocated order id.
//   - error: A StoreError if the append fails; no id is consumed in that case.
func (s *Store) CreateNext(status Status) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{ID: s.lastID + 1, Status: status}
	if err := s.appendLine(rec); err != nil {
		return 0, err
	}
	s.apply(rec)
	return rec.ID, nil
}

// Append records a status change for an existing order. The caller (the
// lifecycle service) is responsible for validating the transition; the store
// only persists facts.
func (s *Store) Append(id int, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{ID: id, Status: status}
	if err := s.appendLine(rec); err != nil {
		return err
	}
	s.apply(rec)
	return nil
}

// Current returns the latest status of an order, and whether the order
// exists.
func (s *Store) Current(id int) (Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, ok := s.index[id]
	return status, ok
}

// LastID returns the highest order id ever appended (0 for an empty store).
func (s *Store) LastID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastID
}

// Snapshot returns a copy of the current-status index, sorted by id, for
// display by presentation layers.
func (s *Store) Snapshot() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, 0, len(s.index))
	for id, status := range s.index {
		out = append(out, Record{ID: id, Status: status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Path returns the file path of the order store.
func (s *Store) Path() string { return s.path }
