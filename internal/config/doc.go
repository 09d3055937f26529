// Package config loads the optional ets-vibes YAML configuration file.
//
// Every field is optional. A missing default file yields [Default], while a
// missing file given explicitly is an error. The JSON schema of the file is
// available from [Schema] for editor integration.
package config
