package pipeline

import (
	"sync"
	"testing"
)

func TestHashCache_CheckAndSet(t *testing.T) {
	cache := NewHashCache()

	if !cache.CheckAndSet("https://example.com", "hash-a") {
		t.Error("Expected first observation to report changed")
	}
	if cache.CheckAndSet("https://example.com", "hash-a") {
		t.Error("Expected identical hash to report unchanged")
	}
	if !cache.CheckAndSet("https://example.com", "hash-b") {
		t.Error("Expected new hash to report changed")
	}
	if cache.CheckAndSet("https://example.com", "hash-b") {
		t.Error("Expected repeated new hash to report unchanged")
	}
}

func TestHashCache_IndependentURLs(t *testing.T) {
	cache := NewHashCache()

	cache.CheckAndSet("https://a.example.com", "hash")
	if !cache.CheckAndSet("https://b.example.com", "hash") {
		t.Error("Expected separate URLs to be tracked independently")
	}
}

func TestHashCache_ConcurrentSameContent(t *testing.T) {
	cache := NewHashCache()

	const workers = 20
	var wg sync.WaitGroup
	changed := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			changed <- cache.CheckAndSet("https://example.com", "same-hash")
		}()
	}
	wg.Wait()
	close(changed)

	count := 0
	for c := range changed {
		if c {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly one changed observation, got %d", count)
	}
}

func TestContentHash(t *testing.T) {
	hash := ContentHash("some content")

	if len(hash) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(hash))
	}
	if hash != ContentHash("some content") {
		t.Error("Expected deterministic hash")
	}
	if hash == ContentHash("other content") {
		t.Error("Expected different content to hash differently")
	}
}
