package backingstore

import "testing"

func TestDefaultParams(t *testing.T) {
	p := defaultParams()
	if !p.AllowInPlaceScroll {
		t.Error("AllowInPlaceScroll should default to true")
	}
	if !p.AllowPartialRender {
		t.Error("AllowPartialRender should default to true")
	}
	if p.AllowTextureCoordinate {
		t.Error("AllowTextureCoordinate should default to false")
	}
	if p.Quality != QualityHigh {
		t.Errorf("Quality defaults to %v, want High", p.Quality)
	}
	if p.Priority != 0 {
		t.Errorf("Priority defaults to %d, want 0", p.Priority)
	}
}

func TestParamsSet(t *testing.T) {
	tests := []struct {
		name  string
		key   Param
		value int
		ok    bool
		check func(p Params) bool
	}{
		{
			name: "disable in-place scroll", key: ParamAllowInPlaceScroll, value: 0, ok: true,
			check: func(p Params) bool { return !p.AllowInPlaceScroll },
		},
		{
			name: "enable texture coordinate", key: ParamAllowTextureCoordinate, value: 1, ok: true,
			check: func(p Params) bool { return p.AllowTextureCoordinate },
		},
		{
			name: "priority", key: ParamPriority, value: 7, ok: true,
			check: func(p Params) bool { return p.Priority == 7 },
		},
		{
			name: "low quality", key: ParamQuality, value: 0, ok: true,
			check: func(p Params) bool { return p.Quality == QualityLow },
		},
		{
			name: "high quality", key: ParamQuality, value: 1, ok: true,
			check: func(p Params) bool { return p.Quality == QualityHigh },
		},
		{
			name: "disable partial render", key: ParamAllowPartialRender, value: 0, ok: true,
			check: func(p Params) bool { return !p.AllowPartialRender },
		},
		{
			name: "extension key stored", key: ParamExtensionsStart + 42, value: 99, ok: true,
			check: func(p Params) bool { return p.Extensions[ParamExtensionsStart+42] == 99 },
		},
		{
			name: "unknown core key rejected", key: Param(100), value: 1, ok: false,
			check: func(p Params) bool { return len(p.Extensions) == 0 },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := defaultParams()
			if got := p.set(tt.key, tt.value); got != tt.ok {
				t.Fatalf("set(%v, %d) = %v, want %v", tt.key, tt.value, got, tt.ok)
			}
			if !tt.check(p) {
				t.Errorf("unexpected params after set: %+v", p)
			}
		})
	}
}

func TestParamsCloneDetachesExtensions(t *testing.T) {
	p := defaultParams()
	p.set(ParamExtensionsStart+1, 10)

	c := p.clone()
	c.Extensions[ParamExtensionsStart+1] = 20

	if p.Extensions[ParamExtensionsStart+1] != 10 {
		t.Error("mutating the clone changed the original extension map")
	}
}

func TestUpdateModeValid(t *testing.T) {
	tests := []struct {
		mode UpdateMode
		want bool
	}{
		{UpdateAll, true},
		{UpdateExposedOnly, true},
		{updateModeMax, false},
		{UpdateMode(5), false},
		{UpdateMode(-1), false},
		{UpdateModeExtensionsStart, true},
		{UpdateModeExtensionsStart + 100, true},
	}
	for _, tt := range tests {
		if got := tt.mode.valid(); got != tt.want {
			t.Errorf("UpdateMode(%d).valid() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestEnumStrings(t *testing.T) {
	if UpdateAll.String() != "All" || UpdateExposedOnly.String() != "ExposedOnly" {
		t.Error("UpdateMode.String mismatch")
	}
	if (UpdateModeExtensionsStart + 1).String() != "Extension" {
		t.Error("extension UpdateMode should stringify as Extension")
	}
	if QualityLow.String() != "Low" || QualityHigh.String() != "High" {
		t.Error("Quality.String mismatch")
	}
	if NotAvailable.String() != "NotAvailable" ||
		FullyAvailable.String() != "FullyAvailable" ||
		PartiallyAvailable.String() != "PartiallyAvailable" {
		t.Error("Availability.String mismatch")
	}
}
