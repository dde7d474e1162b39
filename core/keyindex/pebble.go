package keyindex

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"sales-history/core/reconcile"

	"github.com/cockroachdb/pebble"
)

var (
	keyPrefix      = []byte("k/")
	keyPrefixEnd   = []byte("k0")
	watermarkKey   = []byte("meta/watermark")
	shapeKey       = []byte("meta/shape")
	productDivider = "\x00"
)

var _ reconcile.KeyCache = (*PebbleCache)(nil)

// PebbleCache is a reconcile.KeyCache backed by a pebble database.
type PebbleCache struct {
	db    *pebble.DB
	shape reconcile.KeyShape
}

// Open opens or creates the index in dir for keys of the given shape.
func Open(dir string, shape reconcile.KeyShape) (*PebbleCache, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleCache{db: db, shape: shape}, nil
}

// Close releases the database.
func (p *PebbleCache) Close() error { return p.db.Close() }

func encodeKey(k reconcile.Key) []byte {
	return []byte(string(keyPrefix) + k.Ticket + productDivider + k.Product)
}

func decodeKey(b []byte) reconcile.Key {
	ticket, product, _ := strings.Cut(string(b[len(keyPrefix):]), productDivider)
	return reconcile.Key{Ticket: ticket, Product: product}
}

// current reports whether the index was last written at watermark for this shape.
func (p *PebbleCache) current(watermark int) (bool, error) {
	stored, ok, err := p.get(watermarkKey)
	if err != nil || !ok {
		return false, err
	}
	shape, ok, err := p.get(shapeKey)
	if err != nil || !ok {
		return false, err
	}
	n, err := strconv.Atoi(stored)
	if err != nil {
		return false, nil
	}
	return n == watermark && reconcile.KeyShape(shape) == p.shape, nil
}

func (p *PebbleCache) get(key []byte) (string, bool, error) {
	v, closer, err := p.db.Get(key)
	if err == pebble.ErrNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	defer closer.Close()
	return string(v), true, nil
}

// Get implements reconcile.KeyCache.
func (p *PebbleCache) Get(ctx context.Context, watermark int) (reconcile.KeySet, bool, error) {
	ok, err := p.current(watermark)
	if err != nil || !ok {
		return nil, false, err
	}

	it, err := p.db.NewIter(&pebble.IterOptions{LowerBound: keyPrefix, UpperBound: keyPrefixEnd})
	if err != nil {
		return nil, false, err
	}
	defer it.Close()

	keys := make(reconcile.KeySet)
	for it.First(); it.Valid(); it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		keys.Add(decodeKey(it.Key()))
	}
	if err := it.Error(); err != nil {
		return nil, false, err
	}
	return keys, true, nil
}

// Put implements reconcile.KeyCache. The previous content is replaced atomically.
func (p *PebbleCache) Put(_ context.Context, keys reconcile.KeySet, watermark int) error {
	b := p.db.NewBatch()
	defer b.Close()

	if err := b.DeleteRange(keyPrefix, keyPrefixEnd, nil); err != nil {
		return err
	}
	for k := range keys {
		if err := b.Set(encodeKey(k), nil, nil); err != nil {
			return err
		}
	}
	if err := p.setMeta(b, watermark); err != nil {
		return err
	}
	return b.Commit(pebble.Sync)
}

// Add implements reconcile.KeyCache. It is a no-op on an empty index.
func (p *PebbleCache) Add(_ context.Context, keys []reconcile.Key, watermark int) error {
	if _, ok, err := p.get(watermarkKey); err != nil || !ok {
		return err
	}

	b := p.db.NewBatch()
	defer b.Close()

	for _, k := range keys {
		if err := b.Set(encodeKey(k), nil, nil); err != nil {
			return err
		}
	}
	if err := p.setMeta(b, watermark); err != nil {
		return err
	}
	return b.Commit(pebble.Sync)
}

func (p *PebbleCache) setMeta(b *pebble.Batch, watermark int) error {
	if err := b.Set(watermarkKey, []byte(strconv.Itoa(watermark)), nil); err != nil {
		return err
	}
	return b.Set(shapeKey, []byte(p.shape), nil)
}
