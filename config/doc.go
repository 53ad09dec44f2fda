// Package config loads pipeline configuration from the environment.
//
// Every knob has a default tuned for the public disease.sh deployment, so
// a zero-configuration start works. Values read from the environment may
// reference other variables with ${VAR} syntax; a referenced variable
// that is missing is a hard error rather than a silent empty string.
package config
