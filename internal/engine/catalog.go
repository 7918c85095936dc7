package engine

import "sort"

// ParamType describes a parameter's wire type.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeFloat  ParamType = "float"
	TypeBool   ParamType = "bool"
)

// ParamRule describes one parameter of an operation kind: its type, whether
// it is required, numeric bounds and an optional discrete value set.
type ParamRule struct {
	Name     string    `json:"name"`
	Type     ParamType `json:"type"`
	Required bool      `json:"required"`
	Min      *float64  `json:"min,omitempty"`
	Max      *float64  `json:"max,omitempty"`
	Enum     []float64 `json:"enum,omitempty"`
	Aliases  []string  `json:"aliases,omitempty"`
	Default  any       `json:"default,omitempty"`
}

// OperationSpec is the catalog entry for one operation kind.
type OperationSpec struct {
	Kind        OperationKind `json:"kind"`
	Description string        `json:"description"`
	Params      []ParamRule   `json:"params"`
	Windowable  bool          `json:"windowable"`
	Previewable bool          `json:"previewable"`
}

// Catalog holds the parameter specs for every supported operation kind.
// The UI reads it to build edit forms; the validator reads it for bounds.
type Catalog struct {
	specs map[OperationKind]OperationSpec
}

func ptr(f float64) *float64 { return &f }

// NewCatalog builds the fixed operation catalog.
func NewCatalog() *Catalog {
	specs := []OperationSpec{
		{
			Kind:        KindTrim,
			Description: "Keep only the span between start and end",
			Windowable:  false,
			Previewable: true,
			Params: []ParamRule{
				{Name: "start", Type: TypeFloat, Required: true, Min: ptr(0)},
				{Name: "end", Type: TypeFloat, Required: false, Min: ptr(0)},
			},
		},
		{
			Kind:        KindRemoveClip,
			Description: "Cut out the span between startTime and endTime",
			Windowable:  false,
			Previewable: false,
			Params: []ParamRule{
				{Name: "startTime", Type: TypeFloat, Required: true, Min: ptr(0)},
				{Name: "endTime", Type: TypeFloat, Required: true, Min: ptr(0)},
			},
		},
		{
			Kind:        KindColorGrade,
			Description: "Apply a named color grade preset",
			Windowable:  true,
			Previewable: true,
			Params: []ParamRule{
				{Name: "preset", Type: TypeString, Required: true},
				{Name: "intensity", Type: TypeFloat, Required: false, Min: ptr(0), Max: ptr(1)},
				{Name: "startTime", Type: TypeFloat, Required: false, Min: ptr(0)},
				{Name: "endTime", Type: TypeFloat, Required: false, Min: ptr(0)},
			},
		},
		{
			Kind:        KindApplyEffect,
			Description: "Apply a named visual effect",
			Windowable:  true,
			Previewable: true,
			Params: []ParamRule{
				{Name: "effect", Type: TypeString, Required: true},
				{Name: "intensity", Type: TypeFloat, Required: false, Min: ptr(0), Max: ptr(1)},
				{Name: "startTime", Type: TypeFloat, Required: false, Min: ptr(0)},
				{Name: "endTime", Type: TypeFloat, Required: false, Min: ptr(0)},
			},
		},
		{
			Kind:        KindAddText,
			Description: "Overlay text on the video",
			Windowable:  true,
			Previewable: true,
			Params: []ParamRule{
				{Name: "text", Type: TypeString, Required: true},
				{Name: "fontSize", Type: TypeFloat, Required: false, Min: ptr(12), Max: ptr(120), Default: 36.0},
				{Name: "fontColor", Type: TypeString, Required: false, Default: "white"},
				{Name: "position", Type: TypeString, Required: false, Default: "bottom"},
				{Name: "background", Type: TypeBool, Required: false, Default: true},
				{Name: "startTime", Type: TypeFloat, Required: false, Min: ptr(0)},
				{Name: "endTime", Type: TypeFloat, Required: false, Min: ptr(0)},
			},
		},
		{
			Kind:        KindFilter,
			Description: "Apply a named look, same preset table as colorGrade",
			Windowable:  true,
			Previewable: true,
			Params: []ParamRule{
				{Name: "preset", Type: TypeString, Required: true, Aliases: []string{"filter", "name"}},
				{Name: "intensity", Type: TypeFloat, Required: false, Min: ptr(0), Max: ptr(1)},
				{Name: "startTime", Type: TypeFloat, Required: false, Min: ptr(0)},
				{Name: "endTime", Type: TypeFloat, Required: false, Min: ptr(0)},
			},
		},
		{
			Kind:        KindAddCaptions,
			Description: "Burn a subtitle file into the video",
			Windowable:  false,
			Previewable: false,
			Params: []ParamRule{
				{Name: "path", Type: TypeString, Required: true, Aliases: []string{"subtitlePath"}},
				{Name: "color", Type: TypeString, Required: false, Default: "white"},
				{Name: "size", Type: TypeString, Required: false, Default: "medium"},
				{Name: "position", Type: TypeString, Required: false, Default: "bottom"},
				{Name: "background", Type: TypeBool, Required: false, Default: true},
			},
		},
		{
			Kind:        KindAdjustIntensity,
			Description: "Scale the overall grade intensity",
			Windowable:  true,
			Previewable: true,
			Params: []ParamRule{
				{Name: "intensity", Type: TypeFloat, Required: true, Min: ptr(0), Max: ptr(1)},
				{Name: "startTime", Type: TypeFloat, Required: false, Min: ptr(0)},
				{Name: "endTime", Type: TypeFloat, Required: false, Min: ptr(0)},
			},
		},
		{
			Kind:        KindAdjustZoom,
			Description: "Zoom into the frame center",
			Windowable:  true,
			Previewable: true,
			Params: []ParamRule{
				{Name: "zoom", Type: TypeFloat, Required: true, Min: ptr(1), Max: ptr(5)},
				{Name: "startTime", Type: TypeFloat, Required: false, Min: ptr(0)},
				{Name: "endTime", Type: TypeFloat, Required: false, Min: ptr(0)},
			},
		},
		{
			Kind:        KindAdjustSpeed,
			Description: "Change playback speed",
			Windowable:  false,
			Previewable: true,
			Params: []ParamRule{
				{Name: "speed", Type: TypeFloat, Required: true, Enum: []float64{0.5, 1.0, 1.5, 2.0}},
			},
		},
		{
			Kind:        KindRotate,
			Description: "Rotate the frame by an angle in degrees",
			Windowable:  false,
			Previewable: true,
			Params: []ParamRule{
				{Name: "degrees", Type: TypeFloat, Required: true, Min: ptr(-180), Max: ptr(180), Aliases: []string{"rotation"}},
			},
		},
		{
			Kind:        KindCrop,
			Description: "Crop to a rectangle",
			Windowable:  false,
			Previewable: true,
			Params: []ParamRule{
				{Name: "width", Type: TypeFloat, Required: true, Min: ptr(1)},
				{Name: "height", Type: TypeFloat, Required: true, Min: ptr(1)},
				{Name: "x", Type: TypeFloat, Required: true, Min: ptr(0)},
				{Name: "y", Type: TypeFloat, Required: true, Min: ptr(0)},
			},
		},
	}

	m := make(map[OperationKind]OperationSpec, len(specs))
	for _, s := range specs {
		m[s.Kind] = s
	}
	return &Catalog{specs: m}
}

// Describe returns the catalog entry for a kind.
func (c *Catalog) Describe(kind OperationKind) (OperationSpec, bool) {
	s, ok := c.specs[kind]
	return s, ok
}

// Specs returns every catalog entry sorted by kind.
func (c *Catalog) Specs() []OperationSpec {
	out := make([]OperationSpec, 0, len(c.specs))
	for _, s := range c.specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Previewable reports whether the kind can run on the preview path.
func (c *Catalog) Previewable(kind OperationKind) bool {
	s, ok := c.specs[kind]
	return ok && s.Previewable
}
