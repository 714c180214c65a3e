package hierodb

import (
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Options{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func openTestRoot(t *testing.T) *Handle {
	t.Helper()
	db := openTestDB(t)
	root, err := db.Table("t-" + uuid.Must(uuid.NewV7()).String())
	if err != nil {
		t.Fatalf("Table() failed: %v", err)
	}
	return root
}

func TestSeed_ArithmeticOnRoot(t *testing.T) {
	root := openTestRoot(t)

	if err := root.Set(0, Number(1)); err != nil {
		t.Fatalf("Set(0) failed: %v", err)
	}
	if err := root.Set(1, Number(2)); err != nil {
		t.Fatalf("Set(1) failed: %v", err)
	}

	a, err := root.Get(0)
	if err != nil {
		t.Fatalf("Get(0) failed: %v", err)
	}
	b, err := root.Get(1)
	if err != nil {
		t.Fatalf("Get(1) failed: %v", err)
	}
	sum := float64(a.Value.(Number)) + float64(b.Value.(Number))
	if err := root.Set(2, Number(sum)); err != nil {
		t.Fatalf("Set(2) failed: %v", err)
	}

	entries, err := root.Values()
	if err != nil {
		t.Fatalf("Values() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Values() returned %d entries, want 3", len(entries))
	}
	want := []float64{1, 2, 3}
	for i, e := range entries {
		if e.Key != uint32(i) {
			t.Errorf("entry %d key = %v, want %d", i, e.Key, i)
		}
		if float64(e.Value.(Number)) != want[i] {
			t.Errorf("entry %d value = %v, want %v", i, e.Value, want[i])
		}
	}
}

func TestSeed_ArrayAppendAndLength(t *testing.T) {
	root := openTestRoot(t)

	if err := root.Set("ints", NewArray(Number(0), Number(1), Number(2))); err != nil {
		t.Fatalf("Set(ints) failed: %v", err)
	}

	res, err := root.Get("ints")
	if err != nil {
		t.Fatalf("Get(ints) failed: %v", err)
	}
	if res.Handle == nil || res.Handle.Kind() != KindArray {
		t.Fatalf("Get(ints) did not return an array handle: %+v", res)
	}
	ints := res.Handle

	if err := ints.Set(3, Number(3)); err != nil {
		t.Fatalf("Set(ints[3]) failed: %v", err)
	}

	length, err := ints.Length()
	if err != nil {
		t.Fatalf("Length() failed: %v", err)
	}
	if length != 4 {
		t.Fatalf("Length() = %d, want 4", length)
	}

	for i, want := range []float64{0, 1, 2, 3} {
		got, err := ints.Get(i)
		if err != nil {
			t.Fatalf("Get(%d) failed: %v", i, err)
		}
		if float64(got.Value.(Number)) != want {
			t.Errorf("Get(%d) = %v, want %v", i, got.Value, want)
		}
	}
}

func TestSeed_NestedCompositeRoundTrip(t *testing.T) {
	root := openTestRoot(t)

	bigVal, _ := new(big.Int).SetString("1000000000000000000", 10)
	now := time.UnixMilli(1733300000123).UTC()

	rec := NewRecord()
	rec.Set("null", Null{})
	rec.Set("true", Bool(true))
	rec.Set("false", Bool(false))
	rec.Set("e", Number(2.718281828459045))
	rec.Set("hello", String("world"))
	rec.Set("big", NewBigInt(bigVal))
	rec.Set("now", NewTimestamp(now))
	rec.Set("hex", Regexp("/0x[a-z0-9]+/i"))
	nestedArr := NewArray(NewRecord().Set("values", NewArray(Null{})))
	rec.Set("nested", nestedArr)

	if err := root.Set(0, rec); err != nil {
		t.Fatalf("Set(0, rec) failed: %v", err)
	}

	got, err := root.Get(0)
	if err != nil {
		t.Fatalf("Get(0) failed: %v", err)
	}
	if got.Handle == nil || got.Handle.Kind() != KindRecord {
		t.Fatalf("Get(0) did not return a record handle: %+v", got)
	}

	checkScalar := func(key string, want Value) {
		t.Helper()
		v, err := got.Handle.Get(key)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", key, err)
		}
		switch w := want.(type) {
		case BigInt:
			bv, ok := v.Value.(BigInt)
			if !ok || bv.Cmp(w.Int) != 0 {
				t.Errorf("Get(%q) = %v, want %v", key, v.Value, want)
			}
		case Timestamp:
			tv, ok := v.Value.(Timestamp)
			if !ok || !time.Time(tv).Equal(time.Time(w)) {
				t.Errorf("Get(%q) = %v, want %v", key, v.Value, want)
			}
		default:
			if v.Value != want {
				t.Errorf("Get(%q) = %#v, want %#v", key, v.Value, want)
			}
		}
	}

	checkScalar("null", Null{})
	checkScalar("true", Bool(true))
	checkScalar("false", Bool(false))
	checkScalar("e", Number(2.718281828459045))
	checkScalar("hello", String("world"))
	checkScalar("big", NewBigInt(bigVal))
	checkScalar("now", NewTimestamp(now))
	checkScalar("hex", Regexp("/0x[a-z0-9]+/i"))

	nestedRes, err := got.Handle.Get("nested")
	if err != nil {
		t.Fatalf("Get(nested) failed: %v", err)
	}
	nestedItem, err := nestedRes.Handle.Get(0)
	if err != nil {
		t.Fatalf("Get(nested[0]) failed: %v", err)
	}
	valuesRes, err := nestedItem.Handle.Get("values")
	if err != nil {
		t.Fatalf("Get(nested[0].values) failed: %v", err)
	}
	firstElem, err := valuesRes.Handle.Get(0)
	if err != nil {
		t.Fatalf("Get(nested[0].values[0]) failed: %v", err)
	}
	if _, ok := firstElem.Value.(Null); !ok {
		t.Errorf("Get(nested[0].values[0]) = %#v, want Null", firstElem.Value)
	}
}

func TestProperty_ArrayLengthTruncation(t *testing.T) {
	root := openTestRoot(t)

	if err := root.Set("xs", NewArray(Number(0), Number(1), Number(2), Number(3), Number(4))); err != nil {
		t.Fatalf("Set(xs) failed: %v", err)
	}
	res, _ := root.Get("xs")
	xs := res.Handle

	if err := xs.Set("length", Number(2)); err != nil {
		t.Fatalf("Set(length=2) failed: %v", err)
	}

	length, err := xs.Length()
	if err != nil {
		t.Fatalf("Length() failed: %v", err)
	}
	if length != 2 {
		t.Fatalf("Length() = %d, want 2", length)
	}

	for _, i := range []int{2, 3, 4} {
		got, err := xs.Get(i)
		if err != nil {
			t.Fatalf("Get(%d) failed: %v", i, err)
		}
		if !got.Absent {
			t.Errorf("Get(%d) = %+v, want absent after truncation", i, got)
		}
	}
}

func TestProperty_ScalarOverwriteErasesDescendants(t *testing.T) {
	root := openTestRoot(t)

	nested := NewRecord().Set("b", NewRecord().Set("c", Number(1)))
	if err := root.Set("a", nested); err != nil {
		t.Fatalf("Set(a, nested) failed: %v", err)
	}
	if err := root.Set("a", String("s")); err != nil {
		t.Fatalf("Set(a, scalar) failed: %v", err)
	}

	got, err := root.Get("a")
	if err != nil {
		t.Fatalf("Get(a) failed: %v", err)
	}
	if got.Value != String("s") {
		t.Fatalf("Get(a) = %#v, want \"s\"", got.Value)
	}

	it, err := root.Entries()
	if err != nil {
		t.Fatalf("Entries() failed: %v", err)
	}
	defer it.Close()
	count := 0
	for it.Next() {
		count++
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iteration failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("root has %d direct children, want 1", count)
	}
}

func TestProperty_DeleteRemovesSubtree(t *testing.T) {
	root := openTestRoot(t)

	if err := root.Set("a", NewRecord().Set("b", Number(1))); err != nil {
		t.Fatalf("Set(a) failed: %v", err)
	}

	removed, err := root.Delete("a")
	if err != nil {
		t.Fatalf("Delete(a) failed: %v", err)
	}
	if !removed {
		t.Fatal("Delete(a) reported nothing removed")
	}

	got, err := root.Get("a")
	if err != nil {
		t.Fatalf("Get(a) failed: %v", err)
	}
	if !got.Absent {
		t.Errorf("Get(a) = %+v, want absent after delete", got)
	}

	removedAgain, err := root.Delete("a")
	if err != nil {
		t.Fatalf("Delete(a) second call failed: %v", err)
	}
	if removedAgain {
		t.Error("Delete(a) reported removal on an already-absent key")
	}
}

func TestProperty_CycleDetectionLeavesTableUnchanged(t *testing.T) {
	root := openTestRoot(t)

	cyclic := NewRecord()
	cyclic.Set("self", cyclic)

	err := root.Set("x", cyclic)
	if err == nil {
		t.Fatal("Set() with a cyclic source value did not fail")
	}
	if !IsCycle(err) {
		t.Errorf("Set() error = %v, want a Cycle error", err)
	}

	got, err := root.Get("x")
	if err != nil {
		t.Fatalf("Get(x) failed: %v", err)
	}
	if !got.Absent {
		t.Errorf("table was mutated by a failed cyclic write: %+v", got)
	}
}

func TestProperty_SubtreeReplacementIsAtomic(t *testing.T) {
	root := openTestRoot(t)

	if err := root.Set("k", NewRecord().Set("a", Number(1)).Set("b", Number(2))); err != nil {
		t.Fatalf("first Set() failed: %v", err)
	}
	if err := root.Set("k", NewArray(Number(9))); err != nil {
		t.Fatalf("second Set() failed: %v", err)
	}

	got, err := root.Get("k")
	if err != nil {
		t.Fatalf("Get(k) failed: %v", err)
	}
	if got.Handle == nil || got.Handle.Kind() != KindArray {
		t.Fatalf("Get(k) = %+v, want an array handle", got)
	}
	length, err := got.Handle.Length()
	if err != nil {
		t.Fatalf("Length() failed: %v", err)
	}
	if length != 1 {
		t.Fatalf("Length() = %d, want 1", length)
	}

	old, err := got.Handle.Get("a")
	if err != nil {
		t.Fatalf("Get(a) failed: %v", err)
	}
	if !old.Absent {
		t.Errorf("Get(a) = %+v, want absent after subtree replacement", old)
	}
}

func TestKeys_ArrayIncludesSyntheticLength(t *testing.T) {
	root := openTestRoot(t)
	if err := root.Set("xs", NewArray(Number(1), Number(2))); err != nil {
		t.Fatalf("Set(xs) failed: %v", err)
	}
	res, _ := root.Get("xs")

	keys, err := res.Handle.Keys()
	if err != nil {
		t.Fatalf("Keys() failed: %v", err)
	}
	if len(keys) != 3 || keys[0] != "length" {
		t.Fatalf("Keys() = %v, want [\"length\", 0, 1]", keys)
	}
}

func TestHas_ReportsExistence(t *testing.T) {
	root := openTestRoot(t)
	if err := root.Set("a", Number(1)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	ok, err := root.Has("a")
	if err != nil || !ok {
		t.Fatalf("Has(a) = %v, %v, want true, nil", ok, err)
	}
	ok, err = root.Has("b")
	if err != nil || ok {
		t.Fatalf("Has(b) = %v, %v, want false, nil", ok, err)
	}
}

func TestSet_RejectsUnsupportedValue(t *testing.T) {
	root := openTestRoot(t)
	err := root.Set("a", nil)
	if err == nil || !IsUnsupportedType(err) {
		t.Fatalf("Set(nil) error = %v, want UnsupportedType", err)
	}
}

func TestDB_CloseInvalidatesHandles(t *testing.T) {
	db := openTestDB(t)
	root, err := db.Table("t")
	if err != nil {
		t.Fatalf("Table() failed: %v", err)
	}
	if err := root.Set("a", Number(1)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if _, err := db.Table("t"); !IsClosed(err) {
		t.Errorf("Table() after Close() error = %v, want Closed", err)
	}
	if _, err := root.Get("a"); err == nil {
		t.Error("Get() on a handle after Close() did not fail")
	}
}
