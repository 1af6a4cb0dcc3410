package platform

import (
	"fmt"
	"sort"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = make(map[string]Searcher)
)

// Register makes a searcher available under name, replacing any previous one.
func Register(name string, s Searcher) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = s
}

// Get returns the searcher registered under name.
func Get(name string) (Searcher, error) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("platform %q not registered", name)
	}
	return s, nil
}

// List returns registered platform names in sorted order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
