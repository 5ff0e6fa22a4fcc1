package playback

import "testing"

func TestEventDelay(t *testing.T) {
	var d eventDelay

	var e, e2 delayedEvent
	d.Delay(4, e.f)
	e.test(t, &d, 4)

	e = false
	e2 = false
	d.Delay(4, e.f)
	d.Delay(8, e2.f)
	e.test(t, &d, 4)
	e2.test(t, &d, 4)

	e = false
	e2 = false
	d.Delay(8, e2.f)
	d.Delay(4, e.f)
	e.test(t, &d, 4)
	e2.test(t, &d, 4)

	e = false
	e2 = false
	d.Delay(4, e.f)
	d.Delay(4, e2.f)
	for i := 0; i < 4; i++ {
		if e || e2 {
			t.Fatalf("fired before %d", i)
		}
		d.Step()
	}
	if !e || !e2 {
		t.Fatalf("not fired after %d", 4)
	}
	if d.Len() != 0 {
		t.Fatalf("%d events left", d.Len())
	}
}

type delayedEvent bool

func (e *delayedEvent) f() { *e = true }

func (e *delayedEvent) test(t *testing.T, d *eventDelay, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if *e {
			t.Fatalf("true before %d", i)
		}
		d.Step()
	}
	if !*e {
		t.Fatalf("false after %d", n)
	}
}
