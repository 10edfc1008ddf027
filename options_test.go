package motion

import "testing"

func TestDefaultQueueOptions(t *testing.T) {
	o := defaultQueueOptions()

	if o.label != "queue" {
		t.Errorf("default label = %q, want %q", o.label, "queue")
	}
	if o.leakCheck {
		t.Error("leak check should be off by default")
	}
}

func TestWithLabel(t *testing.T) {
	o := defaultQueueOptions()
	WithLabel("scene-a")(&o)

	if o.label != "scene-a" {
		t.Errorf("label = %q, want %q", o.label, "scene-a")
	}
}

func TestWithLabelEmptyIgnored(t *testing.T) {
	o := defaultQueueOptions()
	WithLabel("")(&o)

	if o.label != "queue" {
		t.Errorf("label = %q, want default %q", o.label, "queue")
	}
}

func TestWithLeakCheck(t *testing.T) {
	o := defaultQueueOptions()
	WithLeakCheck()(&o)

	if !o.leakCheck {
		t.Error("leak check should be enabled")
	}
}

func TestPlayerOptionDefaults(t *testing.T) {
	o := defaultPlayerOptions()

	if o.speed != 1 {
		t.Errorf("default speed = %v, want 1", o.speed)
	}
	if o.loop {
		t.Error("loop should be off by default")
	}
	if o.tag != "" {
		t.Errorf("default tag = %q, want empty (derived later)", o.tag)
	}
}

func TestWithSpeedIgnoresNonPositive(t *testing.T) {
	o := defaultPlayerOptions()
	WithSpeed(0)(&o)
	if o.speed != 1 {
		t.Errorf("speed after WithSpeed(0) = %v, want 1", o.speed)
	}
	WithSpeed(-2)(&o)
	if o.speed != 1 {
		t.Errorf("speed after WithSpeed(-2) = %v, want 1", o.speed)
	}
	WithSpeed(0.5)(&o)
	if o.speed != 0.5 {
		t.Errorf("speed after WithSpeed(0.5) = %v, want 0.5", o.speed)
	}
}

func TestWithImage(t *testing.T) {
	o := defaultPlayerOptions()
	WithImage("logo", nil)(&o)

	if _, ok := o.images["logo"]; !ok {
		t.Error("WithImage should register the asset name")
	}
}
