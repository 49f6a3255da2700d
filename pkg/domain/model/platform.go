package model

import (
	"github.com/m-mizutani/drydock/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// PlatformSelection is the target platform chosen by the triggering actor
type PlatformSelection string

const (
	SelectAll          PlatformSelection = "all"
	SelectDesktopCross PlatformSelection = "windows_linux"
	SelectMacOS        PlatformSelection = "osx"
	SelectMobile       PlatformSelection = "android"
)

// PlatformSelections lists every accepted selection value
var PlatformSelections = []PlatformSelection{
	SelectAll,
	SelectDesktopCross,
	SelectMacOS,
	SelectMobile,
}

// ParseSelection converts trigger input into a PlatformSelection
func ParseSelection(s string) (PlatformSelection, error) {
	for _, sel := range PlatformSelections {
		if string(sel) == s {
			return sel, nil
		}
	}
	return "", goerr.New("unknown platform selection",
		goerr.V("selection", s),
		goerr.T(types.ErrTagConfig),
	)
}

func (s PlatformSelection) String() string { return string(s) }

// Family is a platform family with its own build executor
type Family string

const (
	FamilyDesktopImage  Family = "desktop-image"
	FamilyMobilePackage Family = "mobile-package"
	FamilyCrossCompiled Family = "cross-compiled"
)

// Families lists every family in the fixed order jobs are enumerated
var Families = []Family{
	FamilyDesktopImage,
	FamilyMobilePackage,
	FamilyCrossCompiled,
}

// Selection returns the selection value that targets this family alone
func (f Family) Selection() PlatformSelection {
	switch f {
	case FamilyDesktopImage:
		return SelectMacOS
	case FamilyMobilePackage:
		return SelectMobile
	case FamilyCrossCompiled:
		return SelectDesktopCross
	default:
		return ""
	}
}

func (f Family) String() string { return string(f) }
