package registry

import (
	"encoding/hex"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"

	"github.com/Edmonds-Commerce-Limited/claude-code-hooks-daemon/internal/handler"
)

// fingerprintEntry is the canonical, deterministically-ordered shape we
// hash, independent of map iteration order or struct field layout.
type fingerprintEntry struct {
	ID       string `msgpack:"id"`
	Event    string `msgpack:"event"`
	Priority int    `msgpack:"priority"`
	Enabled  bool   `msgpack:"enabled"`
	Origin   string `msgpack:"origin"`
	Source   string `msgpack:"source"`
}

// Fingerprint encodes the registration set to canonical msgpack and
// hashes it with blake3, giving a reload a cheap way to tell whether the
// effective handler set actually changed rather than just the file's
// mtime.
func Fingerprint(regs []handler.Registration) (string, error) {
	entries := make([]fingerprintEntry, len(regs))
	for i, r := range regs {
		entries[i] = fingerprintEntry{
			ID:       r.Handler.ID(),
			Event:    string(r.Handler.EventType()),
			Priority: r.ResolvedPriority,
			Enabled:  r.Enabled,
			Origin:   string(r.Origin),
			Source:   r.SourcePath,
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Event != entries[j].Event {
			return entries[i].Event < entries[j].Event
		}
		return entries[i].ID < entries[j].ID
	})

	b, err := msgpack.Marshal(entries)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
