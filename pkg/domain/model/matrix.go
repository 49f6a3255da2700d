package model

// Architecture is a mobile CPU architecture
type Architecture string

const (
	ArchARMv7 Architecture = "armv7"
	ArchARM64 Architecture = "arm64"
)

// ABI returns the Android ABI name used in package file names
func (a Architecture) ABI() string {
	switch a {
	case ArchARMv7:
		return "armeabi-v7a"
	case ArchARM64:
		return "arm64-v8a"
	default:
		return string(a)
	}
}

// NetworkMode selects the chain a mobile package connects to
type NetworkMode string

const (
	Mainnet NetworkMode = "mainnet"
	Testnet NetworkMode = "testnet"
)

// DisplayName returns the application name used as the package file prefix
func (n NetworkMode) DisplayName() string {
	switch n {
	case Testnet:
		return ProductName + "-Testnet"
	default:
		return ProductName
	}
}

// MatrixCell is one combination of sub-dimension values within a family.
// Families without sub-dimensions use the zero cell.
type MatrixCell struct {
	Architecture Architecture
	Network      NetworkMode
}

// IsZero reports whether the cell carries no sub-dimension values
func (c MatrixCell) IsZero() bool {
	return c.Architecture == "" && c.Network == ""
}

// Dimensions holds the sub-dimension values expanded for the mobile family
type Dimensions struct {
	Architectures []Architecture
	Networks      []NetworkMode
}

// DefaultDimensions returns the standard 2x2 mobile matrix
func DefaultDimensions() Dimensions {
	return Dimensions{
		Architectures: []Architecture{ArchARMv7, ArchARM64},
		Networks:      []NetworkMode{Mainnet, Testnet},
	}
}
