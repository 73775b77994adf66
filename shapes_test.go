package granola_test

import (
	"testing"

	"github.com/zoobzio/granola"
)

func TestShapes_Singletons(t *testing.T) {
	if granola.MapShape() != granola.MapShape() {
		t.Error("MapShape() should return the identical singleton")
	}
	if granola.ListShape() != granola.ListShape() {
		t.Error("ListShape() should return the identical singleton")
	}
	if granola.MapShape() == granola.ListShape() {
		t.Error("MapShape() and ListShape() should differ")
	}
}

func TestDecodeShape_Map(t *testing.T) {
	m := granola.New()

	out, err := m.DecodeShape([]byte(`{"a":1,"b":"two"}`), granola.MapShape())
	if err != nil {
		t.Fatalf("DecodeShape() error: %v", err)
	}

	d, ok := out.(granola.Dict[any])
	if !ok {
		t.Fatalf("DecodeShape() = %T, want Dict[any]", out)
	}
	if v, _ := d.Get("a"); v != float64(1) {
		t.Errorf("a = %v, want 1", v)
	}
	if v, _ := d.Get("b"); v != "two" {
		t.Errorf("b = %v, want %q", v, "two")
	}
}

func TestDecodeShape_List(t *testing.T) {
	m := granola.New()

	out, err := m.DecodeShape([]byte(`[1,"two",null]`), granola.ListShape())
	if err != nil {
		t.Fatalf("DecodeShape() error: %v", err)
	}

	s, ok := out.(granola.Seq[any])
	if !ok {
		t.Fatalf("DecodeShape() = %T, want Seq[any]", out)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if s.At(1) != "two" {
		t.Errorf("At(1) = %v, want %q", s.At(1), "two")
	}
}

func TestDecodeShape_NestedContainersAreFrozen(t *testing.T) {
	m := granola.New()

	out, err := m.DecodeShape([]byte(`{"rows":[{"id":1},{"id":2}]}`), granola.MapShape())
	if err != nil {
		t.Fatalf("DecodeShape() error: %v", err)
	}

	d := out.(granola.Dict[any])
	rows, ok := d.Get("rows")
	if !ok {
		t.Fatal("missing key rows")
	}
	seq, ok := rows.(granola.Seq[any])
	if !ok {
		t.Fatalf("rows = %T, want Seq[any]", rows)
	}
	first, ok := seq.At(0).(granola.Dict[any])
	if !ok {
		t.Fatalf("rows[0] = %T, want Dict[any]", seq.At(0))
	}
	if id, _ := first.Get("id"); id != float64(1) {
		t.Errorf("rows[0].id = %v, want 1", id)
	}
}

func TestDecodeShape_NullIsEmpty(t *testing.T) {
	m := granola.New()

	out, err := m.DecodeShape([]byte(`null`), granola.MapShape())
	if err != nil {
		t.Fatalf("DecodeShape(null, map) error: %v", err)
	}
	if d := out.(granola.Dict[any]); d.Len() != 0 {
		t.Errorf("Len() = %d, want 0", d.Len())
	}

	out, err = m.DecodeShape([]byte(`null`), granola.ListShape())
	if err != nil {
		t.Fatalf("DecodeShape(null, list) error: %v", err)
	}
	if s := out.(granola.Seq[any]); s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestDecodeShape_WrongShapeSurfacesCodecError(t *testing.T) {
	m := granola.New()

	if _, err := m.DecodeShape([]byte(`[1,2]`), granola.MapShape()); err == nil {
		t.Error("decoding an array with MapShape should return the codec error")
	}
	if _, err := m.DecodeShape([]byte(`{"broken":`), granola.ListShape()); err == nil {
		t.Error("malformed input should return the codec error")
	}
}
