package dynamics

import (
	"errors"
	"testing"
)

var errPoolExhaustedForTest = errors.New("test: pool exhausted")

func TestIDPoolReusesReleasedIDs(t *testing.T) {
	p := newIDPool(0, errPoolExhaustedForTest)
	a, err := p.acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	b, err := p.acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if a == b {
		t.Fatalf("acquired same id twice: %d", a)
	}

	p.release(a)
	c, err := p.acquire()
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	if c != a {
		t.Errorf("expected reused id %d, got %d", a, c)
	}
}

func TestIDPoolExhaustion(t *testing.T) {
	p := newIDPool(1, errPoolExhaustedForTest)
	if _, err := p.acquire(); err != nil {
		t.Fatalf("first acquire should succeed: %v", err)
	}
	if _, err := p.acquire(); err != errPoolExhaustedForTest {
		t.Errorf("expected exhaustion error, got %v", err)
	}
}

func TestBodyPoolGrounding(t *testing.T) {
	bp := newBodyPool(2)
	id1, err := bp.acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := bp.acquire(); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := bp.acquire(); err != ErrBodyPoolExhausted {
		t.Errorf("expected ErrBodyPoolExhausted, got %v", err)
	}
	bp.release(id1)
	if _, err := bp.acquire(); err != nil {
		t.Errorf("acquire after release should succeed: %v", err)
	}
}
