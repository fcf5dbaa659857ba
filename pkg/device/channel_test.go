package device

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func testConfig() ChannelConfig {
	cfg := DefaultChannelConfig()
	cfg.Dwell = 10 * time.Millisecond
	return cfg
}

func TestChannel_StepOrdering(t *testing.T) {
	mock := NewMock()
	ch := NewChannel(mock, testConfig())

	if err := ch.Send(context.Background(), 2, 45.0); err != nil {
		t.Fatalf("Send: %v", err)
	}

	want := []string{TagItemIndex, TagPressure, TagNewData, TagNewData}
	got := mock.Tags()
	if len(got) != len(want) {
		t.Fatalf("got %d writes %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("write %d: got %s, want %s", i, got[i], want[i])
		}
	}

	writes := mock.Writes()
	if v := writes[0].Value; v != 2 {
		t.Errorf("index write: got %v, want 2", v)
	}
	if v := writes[1].Value; v != 45.0 {
		t.Errorf("pressure write: got %v, want 45.0", v)
	}
	if v := writes[2].Value; v != true {
		t.Errorf("flag assert: got %v, want true", v)
	}
	if v := writes[3].Value; v != false {
		t.Errorf("flag clear: got %v, want false", v)
	}
}

func TestChannel_DwellSeparatesAssertAndClear(t *testing.T) {
	mock := NewMock()
	cfg := testConfig()
	cfg.Dwell = 50 * time.Millisecond
	ch := NewChannel(mock, cfg)

	if err := ch.Send(context.Background(), 1, 60.0); err != nil {
		t.Fatalf("Send: %v", err)
	}

	writes := mock.Writes()
	held := writes[3].At.Sub(writes[2].At)
	if held < 45*time.Millisecond {
		t.Errorf("flag held %v, want >= ~50ms", held)
	}
}

func TestChannel_PressureFailureNeverAssertsFlag(t *testing.T) {
	mock := NewMock()
	mock.FailTag(TagPressure, errors.New("transport down"))
	ch := NewChannel(mock, testConfig())

	err := ch.Send(context.Background(), 1, 60.0)
	if err == nil {
		t.Fatal("Send succeeded, want error")
	}

	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("error type %T, want *WriteError", err)
	}
	if we.Step != StepPressure {
		t.Errorf("failed step %s, want %s", we.Step, StepPressure)
	}

	for _, w := range mock.Writes() {
		if w.Tag == TagNewData {
			t.Errorf("NewData was written (%v) after pressure failure", w.Value)
		}
	}
}

func TestChannel_IndexFailureAbortsCommand(t *testing.T) {
	mock := NewMock()
	mock.FailTag(TagItemIndex, errors.New("transport down"))
	ch := NewChannel(mock, testConfig())

	if err := ch.Send(context.Background(), 1, 60.0); err == nil {
		t.Fatal("Send succeeded, want error")
	}
	if n := len(mock.Writes()); n != 0 {
		t.Errorf("%d writes recorded after index failure, want 0", n)
	}
}

func TestChannel_FailureDoesNotPoisonNextCommand(t *testing.T) {
	mock := NewMock()
	mock.FailTag(TagPressure, errors.New("transient"))
	ch := NewChannel(mock, testConfig())

	if err := ch.Send(context.Background(), 1, 60.0); err == nil {
		t.Fatal("first Send succeeded, want error")
	}

	mock.FailTag(TagPressure, nil)
	if err := ch.Send(context.Background(), 2, 45.0); err != nil {
		t.Fatalf("second Send: %v", err)
	}
}

func TestChannel_SingleFlight(t *testing.T) {
	mock := NewMock()
	mock.SetDelay(5 * time.Millisecond)
	ch := NewChannel(mock, testConfig())

	var wg sync.WaitGroup
	for i := 1; i <= 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if err := ch.Send(context.Background(), idx, 50.0); err != nil {
				t.Errorf("Send %d: %v", idx, err)
			}
		}(i)
	}
	wg.Wait()

	// Two commands, four writes each, never interleaved: every block of
	// four must follow the protocol order.
	tags := mock.Tags()
	if len(tags) != 8 {
		t.Fatalf("got %d writes, want 8", len(tags))
	}
	want := []string{TagItemIndex, TagPressure, TagNewData, TagNewData}
	for c := 0; c < 2; c++ {
		for i, tag := range want {
			if tags[c*4+i] != tag {
				t.Fatalf("command %d interleaved: writes %v", c+1, tags)
			}
		}
	}

	// Both handshakes carried a consistent index through their block.
	writes := mock.Writes()
	first := writes[0].Value.(int)
	second := writes[4].Value.(int)
	if first == second {
		t.Errorf("both blocks carry index %d, expected distinct commands", first)
	}
}

func TestChannel_CancelDuringDwellStillClearsFlag(t *testing.T) {
	mock := NewMock()
	cfg := testConfig()
	cfg.Dwell = time.Minute
	ch := NewChannel(mock, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := ch.Send(ctx, 1, 60.0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Send returned %v, want context.Canceled", err)
	}

	writes := mock.Writes()
	last := writes[len(writes)-1]
	if last.Tag != TagNewData || last.Value != false {
		t.Errorf("last write %v %v, want NewData=false", last.Tag, last.Value)
	}
}

func TestChannelConfig_Defaults(t *testing.T) {
	ch := NewChannel(NewMock(), ChannelConfig{})
	if ch.Dwell() != 500*time.Millisecond {
		t.Errorf("default dwell %v, want 500ms", ch.Dwell())
	}
}
