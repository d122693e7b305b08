package overlay

// Config holds the layout tunables shared by the four corners of a manager.
type Config struct {
	// EdgePadding is the gap between a pane edge and the first widget, and
	// between the stack and the far edge when computing totals.
	EdgePadding float64
	// WidgetGap separates adjacent widgets within one corner.
	WidgetGap float64
	// BaseZIndex is assigned to the first widget in a corner; later widgets
	// in the stack get successively higher values.
	BaseZIndex int
}

// DefaultConfig returns the tunables used when a manager is created without
// explicit configuration.
func DefaultConfig() Config {
	return Config{
		EdgePadding: 6,
		WidgetGap:   6,
		BaseZIndex:  100,
	}
}

// ConfigPatch is a partial Config; nil fields are left unchanged when the
// patch is applied.
type ConfigPatch struct {
	EdgePadding *float64
	WidgetGap   *float64
	BaseZIndex  *int
}

// Apply merges the patch into cfg and returns the result.
func (p ConfigPatch) Apply(cfg Config) Config {
	if p.EdgePadding != nil {
		cfg.EdgePadding = *p.EdgePadding
	}
	if p.WidgetGap != nil {
		cfg.WidgetGap = *p.WidgetGap
	}
	if p.BaseZIndex != nil {
		cfg.BaseZIndex = *p.BaseZIndex
	}
	return cfg
}
