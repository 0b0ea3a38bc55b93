// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package proxy

// LRU tracks the age of keys by access time, and when more than size keys
// are tracked, reports the least recently used one for eviction.
type LRU struct {
	lookup map[string]*node
	head   *node
	tail   *node
	size   int
}

type node struct {
	next  *node
	prev  *node
	value string
}

func NewLRU(size int) *LRU {
	return &LRU{
		lookup: make(map[string]*node),
		size:   size,
	}
}

// Touch marks key as most recently used and returns the key that got pushed
// off the end, or "".
func (l *LRU) Touch(key string) string {
	if n, ok := l.lookup[key]; ok {
		l.unlink(n)
		l.pushFront(n)
		return ""
	}

	n := &node{value: key}
	l.lookup[key] = n
	l.pushFront(n)

	if len(l.lookup) <= l.size {
		return ""
	}
	evict := l.tail
	l.unlink(evict)
	delete(l.lookup, evict.value)
	return evict.value
}

func (l *LRU) Len() int {
	return len(l.lookup)
}

func (l *LRU) pushFront(n *node) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
}

func (l *LRU) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.next, n.prev = nil, nil
}
