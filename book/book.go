// Package book reads Polyglot opening books and picks weighted book moves
// for a position.
package book

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"chess-ai/game"
)

// Polyglot books are a flat array of 16-byte big-endian records sorted by key.
const entrySize = 16

var (
	ErrUnavailable = errors.New("opening book unavailable")
	ErrCorrupt     = errors.New("opening book corrupt")
)

// Entry is one raw book record.
type Entry struct {
	Key    uint64
	Raw    uint16
	Weight uint16
	Learn  uint32
}

// Book is an immutable, sorted set of entries. Lookups may run concurrently.
type Book struct {
	entries []Entry

	mu  sync.Mutex
	rng *rand.Rand
}

// Open loads a book file. A missing or unreadable file yields ErrUnavailable.
func Open(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer f.Close()
	b, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Load parses a Polyglot book from r.
func Load(r io.Reader) (*Book, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(data)%entrySize != 0 {
		return nil, fmt.Errorf("%w: size %d is not a multiple of %d", ErrCorrupt, len(data), entrySize)
	}
	entries := make([]Entry, len(data)/entrySize)
	for i := range entries {
		rec := data[i*entrySize:]
		entries[i] = Entry{
			Key:    binary.BigEndian.Uint64(rec[0:8]),
			Raw:    binary.BigEndian.Uint16(rec[8:10]),
			Weight: binary.BigEndian.Uint16(rec[10:12]),
			Learn:  binary.BigEndian.Uint32(rec[12:16]),
		}
		if i > 0 && entries[i].Key < entries[i-1].Key {
			return nil, fmt.Errorf("%w: entry %d is out of key order", ErrCorrupt, i)
		}
	}
	return newBook(entries), nil
}

// New builds a book from entries in any order.
func New(entries []Entry) *Book {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	return newBook(sorted)
}

func newBook(entries []Entry) *Book {
	return &Book{
		entries: entries,
		rng:     rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

// Seed makes Lookup reproducible.
func (b *Book) Seed(seed uint64) {
	b.mu.Lock()
	b.rng = rand.New(rand.NewSource(seed))
	b.mu.Unlock()
}

func (b *Book) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Entries returns the records stored under key.
func (b *Book) Entries(key uint64) []Entry {
	if b == nil {
		return nil
	}
	i := sort.Search(len(b.entries), func(i int) bool { return b.entries[i].Key >= key })
	j := i
	for j < len(b.entries) && b.entries[j].Key == key {
		j++
	}
	return b.entries[i:j]
}

// Candidate is a book move that is legal in the probed position.
type Candidate struct {
	Move   game.Move
	Weight uint16
}

// Candidates lists the legal book moves for pos with weight at least one.
func (b *Book) Candidates(pos *game.Position) []Candidate {
	var out []Candidate
	for _, e := range b.Entries(pos.Key()) {
		if e.Weight == 0 {
			continue
		}
		m, ok := e.Decode(pos)
		if !ok {
			continue
		}
		out = append(out, Candidate{Move: m, Weight: e.Weight})
	}
	return out
}

// Lookup picks a book move for pos with probability proportional to its
// weight. A nil book always misses.
func (b *Book) Lookup(pos *game.Position) (game.Move, bool) {
	if b == nil {
		return game.NoMove, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.LookupRand(pos, b.rng)
}

// LookupRand is Lookup with a caller-supplied random source.
func (b *Book) LookupRand(pos *game.Position, rng *rand.Rand) (game.Move, bool) {
	if b == nil {
		return game.NoMove, false
	}
	cands := b.Candidates(pos)
	if len(cands) == 0 {
		return game.NoMove, false
	}
	total := 0
	for _, c := range cands {
		total += int(c.Weight)
	}
	pick := rng.Intn(total)
	for _, c := range cands {
		pick -= int(c.Weight)
		if pick < 0 {
			return c.Move, true
		}
	}
	return cands[len(cands)-1].Move, true
}

// WriteTo encodes the book in Polyglot format.
func (b *Book) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	rec := make([]byte, entrySize)
	for _, e := range b.entries {
		binary.BigEndian.PutUint64(rec[0:8], e.Key)
		binary.BigEndian.PutUint16(rec[8:10], e.Raw)
		binary.BigEndian.PutUint16(rec[10:12], e.Weight)
		binary.BigEndian.PutUint32(rec[12:16], e.Learn)
		buf.Write(rec)
	}
	return buf.WriteTo(w)
}
