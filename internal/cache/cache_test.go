package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestKey_StableAndDistinct(t *testing.T) {
	a := Key("https://example.com/a")
	if a != Key("https://example.com/a") {
		t.Error("same URL should yield the same key")
	}
	if a == Key("https://example.com/b") {
		t.Error("different URLs should yield different keys")
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory(time.Minute, time.Minute)

	if _, ok := m.Get("k"); ok {
		t.Error("empty cache reported a hit")
	}
	if err := m.Set("k", []byte("payload"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if v, ok := m.Get("k"); !ok || !bytes.Equal(v, []byte("payload")) {
		t.Errorf("Get = %q, %v", v, ok)
	}
	if err := m.Delete("k"); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Get("k"); ok {
		t.Error("deleted key still present")
	}
}

func TestDisk(t *testing.T) {
	d := NewDisk(t.TempDir(), time.Minute)

	if err := d.Set(Key("u"), []byte("payload"), 0); err != nil {
		t.Fatal(err)
	}
	if v, ok := d.Get(Key("u")); !ok || !bytes.Equal(v, []byte("payload")) {
		t.Errorf("Get = %q, %v", v, ok)
	}
	if err := d.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Get(Key("u")); ok {
		t.Error("cleared cache reported a hit")
	}
}

func TestDisk_Expiry(t *testing.T) {
	d := NewDisk(t.TempDir(), -time.Second) // everything already stale

	if err := d.Set("k", []byte("payload"), 0); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Get("k"); ok {
		t.Error("stale entry reported as a hit")
	}
}

func TestLayered_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	l := NewLayered(time.Minute, dir, time.Minute)

	if err := l.Set("k", []byte("payload"), time.Minute); err != nil {
		t.Fatal(err)
	}

	// Drop the memory layer; the disk copy must still serve and be
	// promoted back.
	if err := l.memory.Clear(); err != nil {
		t.Fatal(err)
	}
	if v, ok := l.Get("k"); !ok || !bytes.Equal(v, []byte("payload")) {
		t.Fatalf("disk fallback: %q, %v", v, ok)
	}
	if _, ok := l.memory.Get("k"); !ok {
		t.Error("disk hit was not promoted to memory")
	}
}
