package service

import (
	"context"
	"errors"
	"testing"
	"time"

	perr "tdsdesk/internal/platform/errors"
	"tdsdesk/internal/services/turnstats/domain"
)

type fakeStorage struct {
	ensureErr error
	ensures   int
	inserted  []domain.TurnEvent
	insertErr error
	since     time.Time
	buckets   []domain.Bucket
}

func (f *fakeStorage) EnsureTable(context.Context) error {
	f.ensures++
	return f.ensureErr
}

func (f *fakeStorage) Insert(_ context.Context, evs []domain.TurnEvent) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, evs...)
	return nil
}

func (f *fakeStorage) Aggregate(_ context.Context, since time.Time) ([]domain.Bucket, error) {
	f.since = since
	return f.buckets, nil
}

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestDisabled(t *testing.T) {
	t.Parallel()
	s := New(nil, Config{})
	if s.Enabled() {
		t.Fatal("nil storage should be disabled")
	}
	if err := s.Emit(context.Background(), domain.TurnEvent{}); err != nil {
		t.Fatalf("disabled Emit err = %v", err)
	}
	if _, err := s.Summary(context.Background(), 24); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("disabled Summary err = %v, want unavailable", err)
	}
}

func TestEmit_StampsAndEnsuresOnce(t *testing.T) {
	t.Parallel()
	st := &fakeStorage{}
	s := New(st, Config{Now: func() time.Time { return fixedNow }})
	for i := 0; i < 3; i++ {
		if err := s.Emit(context.Background(), domain.TurnEvent{Category: "greeting"}); err != nil {
			t.Fatal(err)
		}
	}
	if st.ensures != 1 {
		t.Fatalf("EnsureTable calls = %d, want 1", st.ensures)
	}
	if len(st.inserted) != 3 || !st.inserted[0].At.Equal(fixedNow) {
		t.Fatalf("inserted = %+v", st.inserted)
	}
}

func TestEmit_Errors(t *testing.T) {
	t.Parallel()
	st := &fakeStorage{ensureErr: errors.New("down")}
	s := New(st, Config{})
	if err := s.Emit(context.Background(), domain.TurnEvent{}); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
	// retried after failure
	st.ensureErr = nil
	st.insertErr = errors.New("send")
	if err := s.Emit(context.Background(), domain.TurnEvent{}); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
	if st.ensures != 2 {
		t.Fatalf("ensures = %d", st.ensures)
	}
}

func TestSummary_WindowAndTotal(t *testing.T) {
	t.Parallel()
	st := &fakeStorage{buckets: []domain.Bucket{{Turns: 2}, {Turns: 5}}}
	s := New(st, Config{MaxHours: 48, Now: func() time.Time { return fixedNow }})

	cases := []struct {
		in, want int
	}{
		{0, 24},
		{-3, 24},
		{6, 6},
		{1000, 48},
	}
	for _, c := range cases {
		got, err := s.Summary(context.Background(), c.in)
		if err != nil {
			t.Fatal(err)
		}
		if got.Hours != c.want {
			t.Fatalf("hours(%d) = %d, want %d", c.in, got.Hours, c.want)
		}
		if !st.since.Equal(fixedNow.Add(-time.Duration(c.want) * time.Hour)) {
			t.Fatalf("since = %v", st.since)
		}
		if got.Total != 7 {
			t.Fatalf("total = %d", got.Total)
		}
	}
}
