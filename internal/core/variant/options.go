package variant

type (
	// AxisOptions is the render model of one spec axis.
	AxisOptions struct {
		Name   string
		Values []ValueOption
	}

	ValueOption struct {
		Value     string
		Selected  bool
		Available bool
	}
)

// Options returns every axis in catalog order with its values flagged as
// selected and available.
func (s State) Options() []AxisOptions {
	out := make([]AxisOptions, len(s.product.SpecItems))
	for i, axis := range s.product.SpecItems {
		out[i].Name = axis.Name
		out[i].Values = make([]ValueOption, len(axis.Values))
		for j, v := range axis.Values {
			out[i].Values[j] = ValueOption{
				Value:     v,
				Selected:  s.selection[axis.Name] == v,
				Available: s.IsValueAvailable(axis.Name, v),
			}
		}
	}
	return out
}
