// Package config provides centralized configuration management for the
// retail EDA toolchain.
//
// Configuration is loaded from environment variables (prefix EDA) layered
// over an optional eda.yaml file next to the executable, then validated.
// The Paths type is the single source of truth for every file location:
// workbooks, snapshot files, chart output, and logs, all rooted at the
// executable directory so the tools behave identically from any working
// directory.
package config
