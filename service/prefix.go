package service

import (
	"fmt"

	lediscfg "github.com/ledisdb/ledisdb/config"
	"github.com/ledisdb/ledisdb/ledis"
)

// PrefixStore keeps per-guild command prefixes in an embedded ledis store
type PrefixStore struct {
	l   *ledis.Ledis
	db  *ledis.DB
	def string
}

// OpenPrefixStore opens (or creates) the prefix store under dir
func OpenPrefixStore(dir, defaultPrefix string) (*PrefixStore, error) {
	cfg := lediscfg.NewConfigDefault()
	cfg.DataDir = dir

	l, err := ledis.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open prefix store: %w", err)
	}
	ldb, err := l.Select(0)
	if err != nil {
		l.Close()
		return nil, fmt.Errorf("failed to select prefix store db: %w", err)
	}

	return &PrefixStore{l: l, db: ldb, def: defaultPrefix}, nil
}

// Get returns the guild's prefix, falling back to the default
func (p *PrefixStore) Get(guildID string) string {
	v, err := p.db.Get([]byte(guildID))
	if err != nil || len(v) == 0 {
		return p.def
	}
	return string(v)
}

// Set stores the guild's prefix
func (p *PrefixStore) Set(guildID, prefix string) error {
	if err := p.db.Set([]byte(guildID), []byte(prefix)); err != nil {
		return fmt.Errorf("failed to save prefix for guild %s: %w", guildID, err)
	}
	return nil
}

// Close closes the underlying store
func (p *PrefixStore) Close() {
	p.l.Close()
}
