package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/newthinker/pms/internal/core"
)

type stubProvider struct {
	name string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) FetchDailyClose(ctx context.Context, symbol string, start, end time.Time) ([]core.PricePoint, error) {
	return nil, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry(&stubProvider{name: "yahoo"})

	p, err := r.Get("yahoo")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Name() != "yahoo" {
		t.Errorf("Name() = %s, want yahoo", p.Name())
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("missing"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry(&stubProvider{name: "b"}, &stubProvider{name: "a"})
	r.Register(&stubProvider{name: "a"})

	names := r.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v, want [a b]", names)
	}
}
