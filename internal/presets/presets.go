// Package presets defines the default selectable field lists the
// dashboard offers per reporting resource. Built-in presets ship with
// the binary; an HCL file can add to or override them.
package presets

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/adsgateway/internal/ctxlog"
)

// Preset is one resource's dashboard defaults.
type Preset struct {
	Name        string
	Description string
	Fields      []string
	Params      map[string]any // free-form extras, e.g. default limit
}

// fileRoot decodes the top-level blocks of a presets file.
type fileRoot struct {
	Resources []*resourceBlock `hcl:"resource,block"`
}

type resourceBlock struct {
	Name        string    `hcl:"name,label"`
	Description string    `hcl:"description,optional"`
	Fields      []string  `hcl:"fields"`
	Params      cty.Value `hcl:"params,optional"`
}

// Load returns the built-in presets, merged with the HCL file at path
// when one is given. File entries replace built-ins of the same name.
func Load(ctx context.Context, path string) (map[string]Preset, error) {
	logger := ctxlog.FromContext(ctx)

	out := builtin()
	if path == "" {
		return out, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse presets file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode presets file %s: %w", path, diags)
	}

	for _, block := range root.Resources {
		preset, err := translate(block)
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", block.Name, err)
		}
		out[preset.Name] = preset
	}
	logger.Debug("Presets loaded.", "path", path, "resources", len(out))
	return out, nil
}

func translate(block *resourceBlock) (Preset, error) {
	p := Preset{
		Name:        block.Name,
		Description: block.Description,
		Fields:      block.Fields,
	}
	if block.Params != cty.NilVal && !block.Params.IsNull() {
		native, err := ctyToNative(block.Params)
		if err != nil {
			return Preset{}, fmt.Errorf("params: %w", err)
		}
		params, ok := native.(map[string]any)
		if !ok {
			return Preset{}, fmt.Errorf("params must be an object, got %s", block.Params.Type().FriendlyName())
		}
		p.Params = params
	}
	return p, nil
}

// ctyToNative recursively converts a decoded HCL value to its natural Go
// counterpart, for attributes with no fixed schema.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			nv, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, nv)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			nv, err := ctyToNative(ev)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", kv.AsString(), err)
			}
			out[kv.AsString()] = nv
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}

// builtin mirrors the resources the dashboard knew about before presets
// became configurable.
func builtin() map[string]Preset {
	out := make(map[string]Preset)
	for _, p := range []Preset{
		{
			Name: "campaign",
			Fields: []string{
				"campaign.id",
				"campaign.name",
				"campaign.status",
				"campaign.advertising_channel_type",
				"campaign.start_date",
				"campaign.end_date",
			},
		},
		{
			Name: "ad_group",
			Fields: []string{
				"ad_group.id",
				"ad_group.name",
				"ad_group.status",
				"ad_group.type",
				"campaign.id",
				"campaign.name",
			},
		},
		{
			Name: "ad_group_ad",
			Fields: []string{
				"ad_group_ad.ad.id",
				"ad_group_ad.ad.name",
				"ad_group_ad.status",
				"ad_group_ad.ad.type",
				"ad_group.id",
				"ad_group.name",
				"campaign.id",
			},
		},
		{
			Name: "keyword_view",
			Fields: []string{
				"ad_group_criterion.keyword.text",
				"ad_group_criterion.keyword.match_type",
				"ad_group_criterion.status",
				"ad_group.name",
				"campaign.name",
				"metrics.impressions",
				"metrics.clicks",
				"metrics.cost_micros",
			},
		},
		{
			Name: "campaign_budget",
			Fields: []string{
				"campaign_budget.id",
				"campaign_budget.name",
				"campaign_budget.amount_micros",
				"campaign_budget.status",
				"campaign_budget.delivery_method",
			},
		},
		{
			Name: "customer",
			Fields: []string{
				"customer.id",
				"customer.descriptive_name",
				"customer.currency_code",
				"customer.time_zone",
			},
		},
		{
			Name:        "campaign_metrics",
			Description: "Campaign-level performance metrics",
			Fields: []string{
				"campaign.id",
				"campaign.name",
				"metrics.impressions",
				"metrics.clicks",
				"metrics.cost_micros",
				"metrics.conversions",
				"metrics.ctr",
				"metrics.average_cpc",
			},
		},
	} {
		out[p.Name] = p
	}
	return out
}
