package secbuf

import "testing"

func TestBuffer_Equal(t *testing.T) {
	b := New([]byte("s3cr3t"))
	if !b.Equal([]byte("s3cr3t")) {
		t.Fatal("expected equal buffers to compare equal")
	}
	if b.Equal([]byte("wrong!")) {
		t.Fatal("expected different buffers to compare unequal")
	}
	if b.Equal([]byte("short")) {
		t.Fatal("expected different-length buffers to compare unequal")
	}
}

func TestBuffer_Wipe(t *testing.T) {
	b := New([]byte("s3cr3t"))
	b.Wipe()
	if b.Len() != 0 {
		t.Fatalf("expected length 0 after wipe, got %d", b.Len())
	}
	if b.Bytes() != nil {
		t.Fatal("expected nil backing slice after wipe")
	}
}
