package rules

import (
	"fmt"
	"math"
	"strconv"
)

// Built-in rule ids.
const (
	ColorContrast  RuleID = "ColorContrast"
	TouchSizeWcag  RuleID = "TouchSizeWcag"
	ActiveViewName RuleID = "ActiveViewName"
	ImageViewName  RuleID = "ImageViewName"
	EditTextValue  RuleID = "EditTextValue"
)

// Scan result property names.
const (
	PropColorContrastRatio = "Color Contrast Ratio"
	PropForegroundColor    = "Foreground Color"
	PropBackgroundColor    = "Background Color"
	PropColorConfidence    = "Confidence in Color Detection"
	PropScreenDPI          = "Screen Dots Per Inch"
	PropBoundsInScreen     = "boundsInScreen"
)

// NoColorValue is rendered when a color property is absent.
const NoColorValue = "NO VALUE AVAILABLE"

// colorPrefixSize is the length of the alpha prefix on scanned colors.
const colorPrefixSize = 2

func builtinRules() []*RuleInformation {
	return []*RuleInformation{
		{
			RuleID:            ColorContrast,
			RuleDescription:   "Text elements must have sufficient contrast against the background.",
			HowToFixFormat:    colorContrastResolution,
			IncludeThisResult: includeColorContrastResult,
		},
		{
			RuleID:            TouchSizeWcag,
			RuleDescription:   "Touch inputs must have a sufficient target size.",
			HowToFixFormat:    touchSizeResolution,
			IncludeThisResult: includeAllResults,
		},
		{
			RuleID:          ActiveViewName,
			RuleDescription: "Active views must have a name that's available to assistive technologies.",
			HowToFixFormat: staticResolution(
				"The view is active but has no name available to assistive technologies. Provide a name for the view using its contentDescription, hint, labelFor, or text attribute (depending on the view type)",
				"contentDescription", "hint", "labelFor", "text",
			),
			IncludeThisResult: includeAllResults,
		},
		{
			RuleID:          ImageViewName,
			RuleDescription: "Meaningful images must have alternate text.",
			HowToFixFormat: staticResolution(
				"The image has no alternate text and is not identified as decorative. If the image conveys meaningful content, provide alternate text using the contentDescription attribute. If the image is decorative, give it an empty contentDescription, or set its isImportantForAccessibility attribute to false.",
				"contentDescription", "isImportantForAccessibility",
			),
			IncludeThisResult: includeAllResults,
		},
		{
			RuleID:          EditTextValue,
			RuleDescription: "EditText elements must expose their entered text value to assistive technologies",
			HowToFixFormat: staticResolution(
				"The element's contentDescription overrides the text value required by assistive technologies. Remove the element’s contentDescription attribute.",
				"contentDescription",
			),
			IncludeThisResult: includeAllResults,
		},
	}
}

// BuildResolution renders text as both summary and how-to-fix.
func BuildResolution(text string, codeStrings ...string) UnifiedFormattableResolution {
	return UnifiedFormattableResolution{
		HowToFixSummary: text,
		HowToFixFormat: HowToFixFormat{
			HowToFix:     text,
			FormatAsCode: codeStrings,
		},
	}
}

func staticResolution(text string, codeStrings ...string) FormatFunc {
	return func(RuleResultsData) (UnifiedFormattableResolution, error) {
		return BuildResolution(text, codeStrings...), nil
	}
}

func colorContrastResolution(r RuleResultsData) (UnifiedFormattableResolution, error) {
	ratio, err := numberProp(r.Props, PropColorContrastRatio)
	if err != nil {
		return UnifiedFormattableResolution{}, err
	}
	foreground := colorValue(r.Props, PropForegroundColor)
	background := colorValue(r.Props, PropBackgroundColor)

	return BuildResolution(fmt.Sprintf(
		"The text element has insufficient contrast of %s. Foreground color: %s, background color: %s). Modify the text foreground and/or background colors to provide a contrast ratio of at least 4.5:1 for regular text, or 3:1 for large text (at least 18pt, or 14pt+bold).",
		formatNumber(floorTo3Decimal(ratio)), foreground, background,
	)), nil
}

// colorValue renders a scanned ARGB hex color as #RRGGBB.
func colorValue(props map[string]any, name string) string {
	v, _ := props[name].(string)
	if v == "" {
		return NoColorValue
	}
	return "#" + v[min(colorPrefixSize, len(v)):]
}

func touchSizeResolution(r RuleResultsData) (UnifiedFormattableResolution, error) {
	dpi, err := numberProp(r.Props, PropScreenDPI)
	if err != nil {
		return UnifiedFormattableResolution{}, err
	}
	if dpi <= 0 {
		return UnifiedFormattableResolution{}, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidProperty, PropScreenDPI, dpi)
	}
	raw, ok := r.Props[PropBoundsInScreen]
	if !ok || raw == nil {
		return UnifiedFormattableResolution{}, fmt.Errorf("%w: %s", ErrMissingProperty, PropBoundsInScreen)
	}
	bounds, ok := raw.(map[string]any)
	if !ok {
		return UnifiedFormattableResolution{}, fmt.Errorf("%w: %s is %T", ErrInvalidProperty, PropBoundsInScreen, raw)
	}

	var edges [4]float64
	for i, name := range []string{"left", "right", "top", "bottom"} {
		edges[i], err = numberProp(bounds, name)
		if err != nil {
			return UnifiedFormattableResolution{}, fmt.Errorf("%s: %w", PropBoundsInScreen, err)
		}
	}
	left, right, top, bottom := edges[0], edges[1], edges[2], edges[3]

	width := floorTo3Decimal((right - left) / dpi)
	height := floorTo3Decimal((bottom - top) / dpi)

	return BuildResolution(
		fmt.Sprintf(
			"The element has an insufficient target size (width: %sdp, height: %sdp). Set the element's minWidth and minHeight attributes to at least 48dp.",
			formatNumber(width), formatNumber(height),
		),
		"minWidth", "minHeight",
	), nil
}

func includeColorContrastResult(r RuleResultsData) bool {
	v, ok := r.Props[PropColorConfidence].(string)
	return ok && v == "High"
}

func includeAllResults(RuleResultsData) bool {
	return true
}

// numberProp reads a finite numeric property. Decoded JSON yields float64;
// values built in Go may use any integer type.
func numberProp(props map[string]any, name string) (float64, error) {
	v, err := rawNumberProp(props, name)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s is not finite", ErrInvalidProperty, name)
	}
	return v, nil
}

func rawNumberProp(props map[string]any, name string) (float64, error) {
	raw, ok := props[name]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingProperty, name)
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case interface{ Float64() (float64, error) }:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidProperty, name, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s is %T", ErrInvalidProperty, name, raw)
	}
}

func floorTo3Decimal(x float64) float64 {
	return math.Floor(x*1000) / 1000
}

// formatNumber prints the shortest decimal form, so 50 renders as "50".
func formatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
