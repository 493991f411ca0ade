// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/unihub/unihub-tui/internal/catalog"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func sample() []catalog.University {
	return []catalog.University{
		{
			ID:        "u1",
			Name:      "МГУ",
			CountryID: "ru",
			Programs:  []catalog.Program{{ID: "p1", Name: "Физика"}},
		},
		{
			ID:        "u2",
			Name:      "ETH Zurich",
			CountryID: "ch",
		},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := openTestCache(t)

	if err := c.StoreUniversities(sample()); err != nil {
		t.Fatalf("StoreUniversities() error = %v", err)
	}

	items, err := c.LoadUniversities()
	if err != nil {
		t.Fatalf("LoadUniversities() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("loaded %d items, want 2", len(items))
	}
	if items[0].Name != "МГУ" || len(items[0].Programs) != 1 {
		t.Errorf("items[0] = %+v", items[0])
	}
}

func TestCacheEmptyError(t *testing.T) {
	c := openTestCache(t)
	if _, err := c.LoadUniversities(); !errors.Is(err, ErrEmptyCache) {
		t.Errorf("LoadUniversities() on empty cache error = %v, want ErrEmptyCache", err)
	}
	if _, err := c.LoadMeta(); !errors.Is(err, ErrEmptyCache) {
		t.Errorf("LoadMeta() on empty cache error = %v, want ErrEmptyCache", err)
	}
}

func TestCacheStoreReplacesSnapshot(t *testing.T) {
	c := openTestCache(t)

	if err := c.StoreUniversities(sample()); err != nil {
		t.Fatalf("StoreUniversities() error = %v", err)
	}
	if err := c.StoreUniversities([]catalog.University{{ID: "u9", Name: "New One"}}); err != nil {
		t.Fatalf("StoreUniversities() error = %v", err)
	}

	items, err := c.LoadUniversities()
	if err != nil {
		t.Fatalf("LoadUniversities() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != "u9" {
		t.Errorf("snapshot = %+v, want only u9", items)
	}
}

func TestCacheStale(t *testing.T) {
	c := openTestCache(t).WithMaxAge(time.Nanosecond)

	if err := c.StoreUniversities(sample()); err != nil {
		t.Fatalf("StoreUniversities() error = %v", err)
	}
	time.Sleep(time.Millisecond)

	if _, err := c.LoadUniversities(); !errors.Is(err, ErrStale) {
		t.Errorf("LoadUniversities() error = %v, want ErrStale", err)
	}
}

func TestCacheMetaRoundTrip(t *testing.T) {
	c := openTestCache(t)
	meta := &catalog.MetaResponse{
		Countries: []catalog.Country{{ID: "ru", Name: "Россия", Code: "RU"}},
		Exams:     []catalog.Exam{{ID: "ege", Name: "ЕГЭ"}},
	}
	if err := c.StoreMeta(meta); err != nil {
		t.Fatalf("StoreMeta() error = %v", err)
	}
	got, err := c.LoadMeta()
	if err != nil {
		t.Fatalf("LoadMeta() error = %v", err)
	}
	if len(got.Countries) != 1 || got.Countries[0].Code != "RU" {
		t.Errorf("meta = %+v", got)
	}
}

func TestCacheUpdatedAt(t *testing.T) {
	c := openTestCache(t)
	if _, err := c.UpdatedAt(); !errors.Is(err, ErrEmptyCache) {
		t.Errorf("UpdatedAt() on empty cache error = %v, want ErrEmptyCache", err)
	}
	before := time.Now().Add(-time.Second)
	if err := c.StoreUniversities(sample()); err != nil {
		t.Fatalf("StoreUniversities() error = %v", err)
	}
	stamp, err := c.UpdatedAt()
	if err != nil {
		t.Fatalf("UpdatedAt() error = %v", err)
	}
	if stamp.Before(before) {
		t.Errorf("UpdatedAt() = %v, in the past", stamp)
	}
}
