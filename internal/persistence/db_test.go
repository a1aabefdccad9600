package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/fi-verse/internal/fqcd"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func captureTestSnapshot(t *testing.T, label string) *Snapshot {
	t.Helper()

	s, err := Capture(fqcd.Default(), label, 2, 0.5)
	if err != nil {
		t.Fatalf("Capture() failed: %v", err)
	}
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")

	first, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopening migrated db: %v", err)
	}
	second.Close()
}

func TestMeta(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	t.Run("should return ErrNotFound for a missing key", func(t *testing.T) {
		_, err := db.GetMeta(ctx, "absent")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrNotFound, err)
		}
	})

	t.Run("should overwrite an existing key", func(t *testing.T) {
		if err := db.SaveMeta(ctx, "k", "v1"); err != nil {
			t.Fatal(err)
		}
		if err := db.SaveMeta(ctx, "k", "v2"); err != nil {
			t.Fatal(err)
		}
		got, err := db.GetMeta(ctx, "k")
		if err != nil {
			t.Fatal(err)
		}
		if got != "v2" {
			t.Fatalf("\nwanted:\nv2\ngot:\n%s", got)
		}
	})
}

func TestCapture(t *testing.T) {
	s := captureTestSnapshot(t, "baseline")

	if s.ID == uuid.Nil {
		t.Fatal("snapshot has nil id")
	}
	if len(s.Curve) != fqcd.CurvePoints {
		t.Fatalf("curve has %d points", len(s.Curve))
	}
	if len(s.Hubble) != 5 {
		t.Fatalf("hubble has %d points, want 5", len(s.Hubble))
	}
	if s.OmegaM != fqcd.Default().OmegaMatter() {
		t.Fatalf("omega_m = %v", s.OmegaM)
	}

	if _, err := Capture(fqcd.Default(), "bad", 1, 0); !errors.Is(err, fqcd.ErrInvalidArgument) {
		t.Fatalf("Capture with zero step error = %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	want := captureTestSnapshot(t, "round trip")

	if err := db.SaveSnapshot(ctx, want); err != nil {
		t.Fatalf("SaveSnapshot() failed: %v", err)
	}

	got, err := db.LoadSnapshot(ctx, want.ID)
	if err != nil {
		t.Fatalf("LoadSnapshot() failed: %v", err)
	}

	if got.ID != want.ID || got.Label != want.Label || got.OmegaM != want.OmegaM {
		t.Fatalf("\nwanted:\n%+v\ngot:\n%+v", want, got)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if got.Constants != want.Constants {
		t.Fatalf("constants = %+v, want %+v", got.Constants, want.Constants)
	}
	if len(got.Curve) != len(want.Curve) || len(got.Hubble) != len(want.Hubble) {
		t.Fatalf("series lengths = %d/%d, want %d/%d", len(got.Curve), len(got.Hubble), len(want.Curve), len(want.Hubble))
	}
	for i := range want.Curve {
		if got.Curve[i] != want.Curve[i] {
			t.Fatalf("curve[%d] = %+v, want %+v", i, got.Curve[i], want.Curve[i])
		}
	}
	for i := range want.Hubble {
		if got.Hubble[i] != want.Hubble[i] {
			t.Fatalf("hubble[%d] = %+v, want %+v", i, got.Hubble[i], want.Hubble[i])
		}
	}

	last, err := db.GetMeta(ctx, LastSnapshotKey)
	if err != nil || last != want.ID.String() {
		t.Fatalf("last snapshot = %q, %v", last, err)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.LoadSnapshot(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrNotFound, err)
	}
}

func TestListSnapshots(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	t.Run("should return an empty list when nothing is saved", func(t *testing.T) {
		list, err := db.ListSnapshots(ctx, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 0 {
			t.Fatalf("got %d snapshots", len(list))
		}
	})

	t.Run("should list newest first with point counts", func(t *testing.T) {
		older := captureTestSnapshot(t, "older")
		older.CreatedAt = older.CreatedAt.Add(-time.Hour)
		newer := captureTestSnapshot(t, "newer")

		for _, s := range []*Snapshot{older, newer} {
			if err := db.SaveSnapshot(ctx, s); err != nil {
				t.Fatal(err)
			}
		}

		list, err := db.ListSnapshots(ctx, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 2 {
			t.Fatalf("\nwanted:\n2\ngot:\n%d", len(list))
		}
		if list[0].ID != newer.ID || list[1].ID != older.ID {
			t.Fatalf("order = %s, %s", list[0].Label, list[1].Label)
		}
		if list[0].CurvePoints != fqcd.CurvePoints || list[0].HubblePoints != 5 {
			t.Fatalf("counts = %d/%d", list[0].CurvePoints, list[0].HubblePoints)
		}
		if !list[1].CreatedAt.Equal(older.CreatedAt) {
			t.Fatalf("created_at = %v, want %v", list[1].CreatedAt, older.CreatedAt)
		}

		limited, _ := db.ListSnapshots(ctx, 1)
		if len(limited) != 1 {
			t.Fatalf("limit ignored: %d", len(limited))
		}
	})
}

func TestDeleteSnapshot(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	s := captureTestSnapshot(t, "doomed")

	if err := db.SaveSnapshot(ctx, s); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteSnapshot(ctx, s.ID); err != nil {
		t.Fatalf("DeleteSnapshot() failed: %v", err)
	}

	if _, err := db.LoadSnapshot(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("load after delete error = %v", err)
	}

	var orphans int
	if err := db.conn.Get(&orphans, "SELECT COUNT(*) FROM rotation_points"); err != nil {
		t.Fatal(err)
	}
	if orphans != 0 {
		t.Fatalf("%d rotation points survived the cascade", orphans)
	}

	if err := db.DeleteSnapshot(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete error = %v", err)
	}
}
