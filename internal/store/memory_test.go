package store

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestHistoryAppendAndLatest(t *testing.T) {
	s := NewHistoryStore(10)

	if _, err := s.Latest(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	s.Append(QueryRecord{Query: "first", AskedAt: time.Now().UTC()})
	s.Append(QueryRecord{Query: "second", AskedAt: time.Now().UTC()})

	latest, err := s.Latest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.Query != "second" {
		t.Fatalf("expected the latest record, got %q", latest.Query)
	}
}

func TestHistoryRetention(t *testing.T) {
	s := NewHistoryStore(3)

	for i := 0; i < 10; i++ {
		s.Append(QueryRecord{Query: fmt.Sprintf("q%d", i)})
	}

	all := s.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 retained records, got %d", len(all))
	}
	if all[0].Query != "q7" || all[2].Query != "q9" {
		t.Fatalf("unexpected retained records: %+v", all)
	}
}

func TestHistoryAllReturnsCopy(t *testing.T) {
	s := NewHistoryStore(0)
	s.Append(QueryRecord{Query: "original"})

	all := s.All()
	all[0].Query = "mutated"

	latest, _ := s.Latest()
	if latest.Query != "original" {
		t.Fatal("All must return a copy, not the backing slice")
	}
}
