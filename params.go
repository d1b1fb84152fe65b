package backingstore

// Param identifies a store configuration knob set via [Store.SetParam].
// Keys at or above ParamExtensionsStart are embedder extensions: the
// store records their values but never interprets them.
type Param int

const (
	// ParamAllowInPlaceScroll enables reuse of buffer content across
	// viewport moves by scrolling pixels in place instead of
	// re-rendering. Non-zero enables; enabled by default.
	ParamAllowInPlaceScroll Param = iota

	// ParamAllowTextureCoordinate advertises that buffer coordinates
	// may be used directly as texture coordinates by the compositor.
	// Recorded for buffer implementations; the core does not act on it.
	ParamAllowTextureCoordinate

	// ParamPriority is the embedder-defined scheduling priority for
	// render requests. Recorded and surfaced through [Store.Params];
	// the core does not schedule by it.
	ParamPriority

	// ParamQuality selects the [Quality] passed to future render
	// requests. Existing tiles are not re-rendered.
	ParamQuality

	// ParamAllowPartialRender permits rendering sub-regions of the
	// update target. When disabled the store renders the whole target
	// in one request and never scrolls. Non-zero enables; enabled by
	// default.
	ParamAllowPartialRender

	// ParamExtensionsStart is the first embedder-extension key.
	ParamExtensionsStart Param = 0x10000
)

// UpdateMode controls how much of the update target is rendered.
// Modes at or above UpdateModeExtensionsStart are embedder extensions
// and are treated as UpdateAll by the core.
type UpdateMode int

const (
	// UpdateAll renders every uncovered part of the target.
	UpdateAll UpdateMode = iota

	// UpdateExposedOnly renders only the parts of the target newly
	// exposed by the viewport move, leaving older coverage untouched.
	UpdateExposedOnly

	// updateModeMax bounds the core modes for validation.
	updateModeMax

	// UpdateModeExtensionsStart is the first embedder-extension mode.
	UpdateModeExtensionsStart UpdateMode = 0x10000
)

// valid reports whether m is a core mode or an extension mode.
func (m UpdateMode) valid() bool {
	return (m >= UpdateAll && m < updateModeMax) || m >= UpdateModeExtensionsStart
}

// String returns the update mode name.
func (m UpdateMode) String() string {
	switch m {
	case UpdateAll:
		return "All"
	case UpdateExposedOnly:
		return "ExposedOnly"
	default:
		if m >= UpdateModeExtensionsStart {
			return "Extension"
		}
		return "Unknown"
	}
}

// Quality is the fidelity level requested from the renderer. Low
// quality trades fidelity for speed during fast scrolling or zooming;
// high quality is the steady-state target.
type Quality int

const (
	QualityLow Quality = iota
	QualityHigh
)

// String returns the quality name.
func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "Low"
	case QualityHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// Availability classifies how much of a requested region the store can
// draw from valid cached content.
type Availability int

const (
	// NotAvailable means no pixel of the request is cached.
	NotAvailable Availability = iota

	// FullyAvailable means every pixel of the request is cached.
	FullyAvailable

	// PartiallyAvailable means some but not all of the request is cached.
	PartiallyAvailable
)

// String returns the availability name.
func (a Availability) String() string {
	switch a {
	case NotAvailable:
		return "NotAvailable"
	case FullyAvailable:
		return "FullyAvailable"
	case PartiallyAvailable:
		return "PartiallyAvailable"
	default:
		return "Unknown"
	}
}

// Params is a snapshot of the store configuration. Embedder extension
// keys live in Extensions, untouched by the core.
type Params struct {
	AllowInPlaceScroll     bool
	AllowTextureCoordinate bool
	Priority               int
	Quality                Quality
	AllowPartialRender     bool
	Extensions             map[Param]int
}

// defaultParams returns the configuration a new store starts with.
func defaultParams() Params {
	return Params{
		AllowInPlaceScroll: true,
		Quality:            QualityHigh,
		AllowPartialRender: true,
	}
}

// set applies one key/value pair. It reports false for unknown
// non-extension keys, which the caller surfaces as a rejected SetParam.
func (p *Params) set(key Param, value int) bool {
	switch key {
	case ParamAllowInPlaceScroll:
		p.AllowInPlaceScroll = value != 0
	case ParamAllowTextureCoordinate:
		p.AllowTextureCoordinate = value != 0
	case ParamPriority:
		p.Priority = value
	case ParamQuality:
		if value != 0 {
			p.Quality = QualityHigh
		} else {
			p.Quality = QualityLow
		}
	case ParamAllowPartialRender:
		p.AllowPartialRender = value != 0
	default:
		if key < ParamExtensionsStart {
			return false
		}
		if p.Extensions == nil {
			p.Extensions = make(map[Param]int)
		}
		p.Extensions[key] = value
	}
	return true
}

// clone returns a deep copy of the params, detaching the extension map.
func (p Params) clone() Params {
	out := p
	if p.Extensions != nil {
		out.Extensions = make(map[Param]int, len(p.Extensions))
		for k, v := range p.Extensions {
			out.Extensions[k] = v
		}
	}
	return out
}
