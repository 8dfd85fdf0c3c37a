// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package vectorstore

import (
	"os"
	"testing"
)

func TestStore_PutAndQuery(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if err := s.Put("ns1", "a", []float32{1, 0, 0}, "alpha", nil); err != nil {
		t.Fatalf("Put a failed: %v", err)
	}
	if err := s.Put("ns1", "b", []float32{0, 1, 0}, "beta", nil); err != nil {
		t.Fatalf("Put b failed: %v", err)
	}

	matches, err := s.Query("ns1", []float32{1, 0, 0}, 10, 0)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ChunkID != "a" {
		t.Errorf("expected chunk a to rank first, got %s (score %f)", matches[0].ChunkID, matches[0].Score)
	}
	if matches[0].Score < matches[1].Score {
		t.Errorf("expected descending scores, got %f then %f", matches[0].Score, matches[1].Score)
	}
}

func TestStore_Overwrite(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if err := s.Put("ns1", "a", []float32{1, 0}, "first", nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put("ns1", "a", []float32{0, 1}, "second", nil); err != nil {
		t.Fatalf("overwrite Put failed: %v", err)
	}

	count, err := s.Count("ns1")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record after overwrite, got %d", count)
	}

	matches, err := s.Query("ns1", []float32{0, 1}, 1, 0)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if matches[0].Text != "second" {
		t.Errorf("expected overwritten text %q, got %q", "second", matches[0].Text)
	}
}

func TestStore_DimMismatch(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if err := s.Put("ns1", "a", []float32{1, 0, 0}, "alpha", nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put("ns1", "b", []float32{1, 0}, "beta", nil); err == nil {
		t.Fatal("expected dim_mismatch error")
	}
}

func TestStore_NamespaceIsolation(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if err := s.Put("ns1", "a", []float32{1, 0}, "ns1-a", nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put("ns2", "a", []float32{0, 1}, "ns2-a", nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	matches, err := s.Query("ns1", []float32{1, 0}, 10, 0)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(matches) != 1 || matches[0].Text != "ns1-a" {
		t.Fatalf("expected ns1 query to see only its own record, got %+v", matches)
	}
}

func TestStore_Reset(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if err := s.Put("ns1", "a", []float32{1, 0}, "alpha", nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Reset("ns1"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	count, err := s.Count("ns1")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 records after reset, got %d", count)
	}
}

func TestStore_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Put("ns1", "a", []float32{1, 0, 0}, "alpha", map[string]string{"k": "v"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	matches, err := s2.Query("ns1", []float32{1, 0, 0}, 10, 0)
	if err != nil {
		t.Fatalf("Query after restart failed: %v", err)
	}
	if len(matches) != 1 || matches[0].Text != "alpha" {
		t.Fatalf("expected record to survive restart, got %+v", matches)
	}
	if matches[0].Metadata["k"] != "v" {
		t.Errorf("expected metadata to survive restart, got %+v", matches[0].Metadata)
	}
}

func TestStore_FlushCoalescesWAL(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := s.Put("ns1", "a", []float32{1, 0}, "alpha", nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Flush("ns1"); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	walPath := dir + "/ns1/records.wal"
	info, err := os.Stat(walPath)
	if err != nil {
		t.Fatalf("stat wal: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("expected wal truncated after flush, got size %d", info.Size())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()
	matches, err := s2.Query("ns1", []float32{1, 0}, 10, 0)
	if err != nil {
		t.Fatalf("Query after flush+restart failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected snapshot record to survive, got %+v", matches)
	}
}

func TestStore_LockConflict(t *testing.T) {
	dir := t.TempDir()
	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s1.Close()
	if err := s1.Put("ns1", "a", []float32{1, 0}, "alpha", nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	if _, err := s2.Query("ns1", []float32{1, 0}, 1, 0); err == nil {
		t.Fatal("expected lock_conflict error from second process opening the same namespace")
	}
}

func TestStore_EmptyVectorRejected(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if err := s.Put("ns1", "a", nil, "alpha", nil); err == nil {
		t.Fatal("expected invalid_input error for empty vector")
	}
}
