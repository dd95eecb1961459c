// Package config loads Scanyard configuration from local and global YAML
// files plus an environment override layer, with precedence rules. It is
// internal; CLI code maps flags, env, and files into service configuration.
package config
