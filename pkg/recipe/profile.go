package recipe

import (
	"fmt"
	"runtime"
	"strings"
)

// OsType represents the target operating system family.
type OsType string

// OsType constants for supported operating systems.
const (
	OsLinux   OsType = "linux"
	OsMacos   OsType = "macos"
	OsWindows OsType = "windows"
	OsFreeBSD OsType = "freebsd"
)

// ParseOsType parses a string into an OsType. Go runtime names are accepted
// as aliases ("darwin" for macos).
func ParseOsType(s string) (OsType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux":
		return OsLinux, nil
	case "macos", "darwin", "osx":
		return OsMacos, nil
	case "windows":
		return OsWindows, nil
	case "freebsd":
		return OsFreeBSD, nil
	default:
		return "", fmt.Errorf("invalid os type: %s", s)
	}
}

// SupportedOsTypes returns all supported OS types sorted alphabetically.
func SupportedOsTypes() []string {
	return []string{"freebsd", "linux", "macos", "windows"}
}

// ArchType represents the target CPU architecture.
type ArchType string

// ArchType constants for supported architectures.
const (
	ArchX8664 ArchType = "x86_64"
	ArchArmv8 ArchType = "armv8"
)

// ParseArchType parses a string into an ArchType. Go runtime names are
// accepted as aliases.
func ParseArchType(s string) (ArchType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x86_64", "amd64":
		return ArchX8664, nil
	case "armv8", "arm64", "aarch64":
		return ArchArmv8, nil
	default:
		return "", fmt.Errorf("invalid arch type: %s", s)
	}
}

// SupportedArchTypes returns all supported architectures sorted alphabetically.
func SupportedArchTypes() []string {
	return []string{"armv8", "x86_64"}
}

// CompilerType represents the toolchain compiler.
type CompilerType string

// CompilerType constants for supported compilers.
const (
	CompilerGcc        CompilerType = "gcc"
	CompilerClang      CompilerType = "clang"
	CompilerAppleClang CompilerType = "apple-clang"
	CompilerMsvc       CompilerType = "msvc"
)

// ParseCompilerType parses a string into a CompilerType.
func ParseCompilerType(s string) (CompilerType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gcc":
		return CompilerGcc, nil
	case "clang":
		return CompilerClang, nil
	case "apple-clang", "appleclang":
		return CompilerAppleClang, nil
	case "msvc":
		return CompilerMsvc, nil
	default:
		return "", fmt.Errorf("invalid compiler type: %s", s)
	}
}

// SupportedCompilerTypes returns all supported compilers sorted alphabetically.
func SupportedCompilerTypes() []string {
	return []string{"apple-clang", "clang", "gcc", "msvc"}
}

// BuildType represents the build configuration.
type BuildType string

// BuildType constants for supported build configurations.
const (
	BuildRelease        BuildType = "Release"
	BuildDebug          BuildType = "Debug"
	BuildRelWithDebInfo BuildType = "RelWithDebInfo"
	BuildMinSizeRel     BuildType = "MinSizeRel"
)

// ParseBuildType parses a string into a BuildType.
func ParseBuildType(s string) (BuildType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "release", "":
		return BuildRelease, nil
	case "debug":
		return BuildDebug, nil
	case "relwithdebinfo":
		return BuildRelWithDebInfo, nil
	case "minsizerel":
		return BuildMinSizeRel, nil
	default:
		return "", fmt.Errorf("invalid build type: %s", s)
	}
}

// SupportedBuildTypes returns all supported build types.
func SupportedBuildTypes() []string {
	return []string{"Debug", "MinSizeRel", "RelWithDebInfo", "Release"}
}

// Profile describes the target platform a recipe is resolved for: the
// settings axis of a build (os, arch, compiler, build type).
type Profile struct {
	Os        OsType       `json:"os" yaml:"os"`
	Arch      ArchType     `json:"arch" yaml:"arch"`
	Compiler  CompilerType `json:"compiler" yaml:"compiler"`
	BuildType BuildType    `json:"buildType" yaml:"buildType"`
}

// HostProfile derives a Profile from the running platform with a Release
// build type and a platform-typical compiler.
func HostProfile() *Profile {
	p := &Profile{
		Os:        OsLinux,
		Arch:      ArchX8664,
		Compiler:  CompilerGcc,
		BuildType: BuildRelease,
	}

	switch runtime.GOOS {
	case "darwin":
		p.Os = OsMacos
		p.Compiler = CompilerAppleClang
	case "windows":
		p.Os = OsWindows
		p.Compiler = CompilerMsvc
	case "freebsd":
		p.Os = OsFreeBSD
		p.Compiler = CompilerClang
	}

	if runtime.GOARCH == "arm64" {
		p.Arch = ArchArmv8
	}

	return p
}

// IsApple reports whether the target is an Apple platform.
func (p *Profile) IsApple() bool {
	return p.Os == OsMacos
}

// IsLinux reports whether the target is Linux.
func (p *Profile) IsLinux() bool {
	return p.Os == OsLinux
}

// IsWindows reports whether the target is Windows.
func (p *Profile) IsWindows() bool {
	return p.Os == OsWindows
}

// String returns a compact settings summary.
func (p *Profile) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", p.Os, p.Arch, p.Compiler, p.BuildType)
}
