package main

import (
	"context"
	"strings"
	"testing"

	textile "github.com/alnah/go-textile"
)

func TestPoolAdapter_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool, err := textile.NewConverterPool(2)
	if err != nil {
		t.Fatalf("NewConverterPool: %v", err)
	}
	defer func() { _ = pool.Close() }()

	adapter := &poolAdapter{pool: pool}
	if adapter.Size() != 2 {
		t.Errorf("Size() = %d, want 2", adapter.Size())
	}

	conv, err := adapter.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	res, err := conv.Convert(context.Background(), textile.Input{Text: "h2. x"})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.HTML != "\t<h2>x</h2>" {
		t.Errorf("HTML = %q", res.HTML)
	}
	adapter.Release(conv)
}

func TestPoolAdapter_AcquireClosed(t *testing.T) {
	t.Parallel()

	pool, err := textile.NewConverterPool(1)
	if err != nil {
		t.Fatalf("NewConverterPool: %v", err)
	}
	adapter := &poolAdapter{pool: pool}

	held, err := adapter.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	_ = held
	_ = pool.Close()

	if _, err := adapter.Acquire(context.Background()); err == nil {
		t.Error("Acquire after Close should fail")
	}
}

func TestPoolAdapter_Release_WrongType(t *testing.T) {
	t.Parallel()

	pool, err := textile.NewConverterPool(1)
	if err != nil {
		t.Fatalf("NewConverterPool: %v", err)
	}
	defer func() { _ = pool.Close() }()

	adapter := &poolAdapter{pool: pool}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for wrong type, got none")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "unexpected type") {
			t.Errorf("panic = %v, want message containing 'unexpected type'", r)
		}
	}()

	adapter.Release(&mockConverter{})
}
