// Package config loads, normalizes, and validates Studivio configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), loads an optional .env file, reads TOML files, and honours
// environment fallbacks such as JWT_SECRET_KEY and ASSEMBLY_API_KEY. The Config
// type centralizes every knob the server and CLI need so credentials and
// directories are discovered in one pass at process start.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
