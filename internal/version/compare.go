package version

import (
	"strings"

	"github.com/JonusNattapong/DekEA-SUPERMAX/pkg/errors"
	"github.com/Masterminds/semver/v3"
)

// CheckConfigCompatibility checks that a configuration file written for configVersion
// can be loaded by a bot at appVersion.
//
// Compatibility Rules:
//   - If either version is "main" (development build), the check is skipped
//   - An empty config version is accepted as the app version
//   - Major versions must match exactly
//   - The config minor version must not be newer than the app minor version
//   - Patch versions can differ
//
// Examples:
//   - App 1.2.0, Config 1.2.0 -> OK
//   - App 1.3.0, Config 1.2.4 -> OK (older config)
//   - App 1.2.0, Config 1.3.0 -> ERROR (config needs newer features)
//   - App 2.0.0, Config 1.2.0 -> ERROR (major differs)
func CheckConfigCompatibility(appVersion, configVersion string) error {
	appVersion = strings.TrimPrefix(appVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if appVersion == "main" || configVersion == "main" || configVersion == "" {
		return nil
	}

	appSemver, err := semver.NewVersion(appVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid app version '%s'", appVersion)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid config version '%s'", configVersion)
	}

	if appSemver.Major() != configSemver.Major() {
		return errors.Newf(errors.ErrCodeInvalidVersion, "major version mismatch: app is %d.x.x but config requires %d.x.x",
			appSemver.Major(), configSemver.Major())
	}

	if configSemver.Minor() > appSemver.Minor() {
		return errors.Newf(errors.ErrCodeInvalidVersion, "config requires %d.%d.x but app is %s",
			configSemver.Major(), configSemver.Minor(), appSemver.String())
	}

	return nil
}

// Satisfies reports whether v matches the semver constraint, e.g. ">= 1.0.0, < 2.0.0".
func Satisfies(v string, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid constraint '%s'", constraint)
	}

	parsed, err := semver.NewVersion(strings.TrimPrefix(v, "v"))
	if err != nil {
		return false, errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid version '%s'", v)
	}

	return c.Check(parsed), nil
}
