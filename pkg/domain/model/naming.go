package model

import "fmt"

// ProductName prefixes every desktop artifact name
const ProductName = "Dash-Electrum"

// DesktopArtifactName returns "Dash-Electrum-{version}-{suffix}"
func DesktopArtifactName(version, suffix string) string {
	return fmt.Sprintf("%s-%s-%s", ProductName, version, suffix)
}

// SourceDistName returns "Dash-Electrum-{version}.{ext}"
func SourceDistName(version, ext string) string {
	return fmt.Sprintf("%s-%s.%s", ProductName, version, ext)
}

// MobileArtifactName returns "{display}-{mobileVersion}-{abi}-release-unsigned.apk"
func MobileArtifactName(network NetworkMode, mobileVersion string, arch Architecture) string {
	return fmt.Sprintf("%s-%s-%s-release-unsigned.apk", network.DisplayName(), mobileVersion, arch.ABI())
}
