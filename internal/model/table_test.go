package model

import "testing"

func TestEdgeTable(t *testing.T) {
	t.Parallel()

	t.Run("append keeps order", func(t *testing.T) {
		t.Parallel()

		table := NewEdgeTable(0)
		table.Append(Edge{CommentID: "a"})
		table.Append(Edge{CommentID: "b"})
		table.Append(Edge{CommentID: "c"})

		if table.Len() != 3 {
			t.Fatalf("expected 3 edges, got %d", table.Len())
		}
		for i, id := range []string{"a", "b", "c"} {
			if table.At(i).CommentID != id {
				t.Errorf("edge %d: expected %s, got %s", i, id, table.At(i).CommentID)
			}
		}
	})

	t.Run("edges returns a copy", func(t *testing.T) {
		t.Parallel()

		table := NewEdgeTable(1)
		table.Append(Edge{CommentID: "a"})

		edges := table.Edges()
		edges[0].CommentID = "changed"

		if table.At(0).CommentID != "a" {
			t.Error("modifying Edges() result must not change the table")
		}
	})

	t.Run("nil table has zero length", func(t *testing.T) {
		t.Parallel()

		var table *EdgeTable
		if table.Len() != 0 {
			t.Errorf("expected 0, got %d", table.Len())
		}
	})

	t.Run("negative capacity is treated as zero", func(t *testing.T) {
		t.Parallel()

		if NewEdgeTable(-1).Len() != 0 {
			t.Error("expected empty table")
		}
	})
}

func TestEdgeTableDigest(t *testing.T) {
	t.Parallel()

	build := func(ids ...string) *EdgeTable {
		table := NewEdgeTable(len(ids))
		for _, id := range ids {
			table.Append(Edge{CommentID: id, ThreadID: id, Kind: KindTopLevelComment})
		}
		return table
	}

	t.Run("same content gives same digest", func(t *testing.T) {
		t.Parallel()

		if build("a", "b").Digest() != build("a", "b").Digest() {
			t.Error("expected equal digests")
		}
	})

	t.Run("order changes digest", func(t *testing.T) {
		t.Parallel()

		if build("a", "b").Digest() == build("b", "a").Digest() {
			t.Error("expected different digests")
		}
	})

	t.Run("field boundaries are unambiguous", func(t *testing.T) {
		t.Parallel()

		left := NewEdgeTable(1)
		left.Append(Edge{CommentID: "ab", ThreadID: "c"})
		right := NewEdgeTable(1)
		right.Append(Edge{CommentID: "a", ThreadID: "bc"})

		if left.Digest() == right.Digest() {
			t.Error("expected different digests")
		}
	})

	t.Run("digest is 64 hex characters", func(t *testing.T) {
		t.Parallel()

		if got := len(NewEdgeTable(0).Digest()); got != 64 {
			t.Errorf("expected 64 characters, got %d", got)
		}
	})
}
