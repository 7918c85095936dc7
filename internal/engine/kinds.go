package engine

import (
	"fmt"
	"sort"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"clipforge/pkg/errors"
)

// OperationKind identifies one declarative edit operation type.
type OperationKind string

const (
	KindTrim            OperationKind = "trim"
	KindRemoveClip      OperationKind = "removeClip"
	KindColorGrade      OperationKind = "colorGrade"
	KindApplyEffect     OperationKind = "applyEffect"
	KindAddText         OperationKind = "addText"
	KindFilter          OperationKind = "filter"
	KindAddCaptions     OperationKind = "addCaptions"
	KindAdjustIntensity OperationKind = "adjustIntensity"
	KindAdjustZoom      OperationKind = "adjustZoom"
	KindAdjustSpeed     OperationKind = "adjustSpeed"
	KindRotate          OperationKind = "rotate"
	KindCrop            OperationKind = "crop"
)

// kindAliases maps legacy client names onto canonical kinds. Some call sites
// still send customText for text overlays.
var kindAliases = map[string]OperationKind{
	"customText": KindAddText,
}

var allKinds = []OperationKind{
	KindTrim,
	KindRemoveClip,
	KindColorGrade,
	KindApplyEffect,
	KindAddText,
	KindFilter,
	KindAddCaptions,
	KindAdjustIntensity,
	KindAdjustZoom,
	KindAdjustSpeed,
	KindRotate,
	KindCrop,
}

// ParseKind resolves a raw kind string to a canonical OperationKind.
// Unknown kinds are always rejected; when a known kind is close by edit
// distance the error carries a hint.
func ParseKind(raw string) (OperationKind, error) {
	kind := OperationKind(raw)
	for _, k := range allKinds {
		if kind == k {
			return k, nil
		}
	}
	if alias, ok := kindAliases[raw]; ok {
		return alias, nil
	}

	if hint := nearestKind(raw); hint != "" {
		return "", errors.WrapWithDetail(errors.CodeUnknownOperation,
			"Unknown operation kind",
			fmt.Sprintf("unknown operation kind %q (did you mean %q?)", raw, hint), nil)
	}
	return "", errors.WrapWithDetail(errors.CodeUnknownOperation,
		"Unknown operation kind",
		fmt.Sprintf("unknown operation kind %q", raw), nil)
}

func nearestKind(raw string) OperationKind {
	best := OperationKind("")
	bestDist := 3 // suggest only close misses
	for _, k := range allKinds {
		d := levenshtein.DistanceForStrings([]rune(raw), []rune(string(k)), levenshtein.DefaultOptions)
		if d < bestDist {
			bestDist = d
			best = k
		}
	}
	return best
}

// KnownKinds returns every canonical kind, sorted for stable output.
func KnownKinds() []OperationKind {
	kinds := make([]OperationKind, len(allKinds))
	copy(kinds, allKinds)
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
